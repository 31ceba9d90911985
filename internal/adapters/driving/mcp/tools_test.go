package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func TestServer_handleConsolidate(t *testing.T) {
	ctx := context.Background()

	analysis := &mockAnalysisService{
		consolidation: domain.ConsolidationResult{
			Mapping: domain.CanonicalMapping{
				"Login Issues": {"login fails", "can't sign in"},
				"App Crashes":  {"crash on start"},
			},
			Strategy: domain.StrategyHeuristic,
			Attempts: []domain.TierAttempt{
				{Strategy: domain.StrategyGenerative, Error: "llm unavailable"},
				{Strategy: domain.StrategyHeuristic},
			},
		},
	}
	server, err := NewServer(&Ports{Analysis: analysis})
	require.NoError(t, err)

	input := ConsolidateInput{Topics: []string{"login fails", "can't sign in", "crash on start"}, Scope: "app-1"}
	_, output, err := server.handleConsolidate(ctx, nil, input)

	require.NoError(t, err)
	assert.Equal(t, input.Topics, analysis.gotTopics)
	assert.Equal(t, "app-1", analysis.gotScope)
	assert.Equal(t, "heuristic", output.Strategy)
	require.Len(t, output.Attempts, 2)
	assert.Equal(t, "generative", output.Attempts[0].Strategy)
	assert.Equal(t, "llm unavailable", output.Attempts[0].Error)
	assert.Empty(t, output.Attempts[1].Error)
	require.Len(t, output.CanonicalTopics, 2)
	assert.Equal(t, "App Crashes", output.CanonicalTopics[0].Name)
	assert.Equal(t, "Login Issues", output.CanonicalTopics[1].Name)
	assert.Equal(t, []string{"login fails", "can't sign in"}, output.CanonicalTopics[1].Variations)
}

func TestServer_handleMap(t *testing.T) {
	ctx := context.Background()

	t.Run("returns counts totals and sorted unmapped", func(t *testing.T) {
		analysis := &mockAnalysisService{
			mapping: domain.MappingResult{
				Counts: domain.CanonicalCounts{
					"2024-01-01": {"Login Issues": 2},
					"2024-01-02": {"Login Issues": 1, "App Crashes": 1},
				},
				Unmapped: domain.UnmappedTopics{
					"weird thing": "App Crashes",
					"another":     "Login Issues",
				},
				Strategy: domain.MappingEmbedding,
			},
		}
		server, err := NewServer(&Ports{Analysis: analysis})
		require.NoError(t, err)

		input := MapInput{
			TopicsByDate: map[string][]string{"2024-01-01": {"login fails"}},
			Mapping:      map[string][]string{"Login Issues": {"login fails"}},
			Scope:        "app-1",
		}
		_, output, err := server.handleMap(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "embedding", output.Strategy)
		assert.Equal(t, map[string]int{"Login Issues": 3, "App Crashes": 1}, output.Totals)
		assert.Equal(t, 2, output.Counts["2024-01-01"]["Login Issues"])
		require.Len(t, output.Unmapped, 2)
		assert.Equal(t, "another", output.Unmapped[0].Topic)
		assert.Equal(t, "weird thing", output.Unmapped[1].Topic)
		assert.Equal(t, domain.CanonicalMapping{"Login Issues": {"login fails"}}, analysis.gotMapping)
		assert.Equal(t, "app-1", analysis.gotScope)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		server, err := NewServer(&Ports{Analysis: &mockAnalysisService{}})
		require.NoError(t, err)

		input := MapInput{TopicsByDate: map[string][]string{"01/02/2024": {"x"}}}
		_, _, err = server.handleMap(ctx, nil, input)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("returns unique and sorted pairs", func(t *testing.T) {
		dupes := &mockDuplicateService{
			result: domain.DuplicateResult{
				Unique:     []int{0, 2},
				Duplicates: map[int]int{3: 2, 1: 0},
			},
		}
		server, err := NewServer(&Ports{Analysis: &mockAnalysisService{}, Duplicates: dupes})
		require.NoError(t, err)

		_, output, err := server.handleDuplicates(ctx, nil, DuplicatesInput{Texts: []string{"a", "a", "b", "b"}})

		require.NoError(t, err)
		assert.Equal(t, []int{0, 2}, output.Unique)
		assert.Equal(t, []DuplicatePair{{Index: 1, Original: 0}, {Index: 3, Original: 2}}, output.Duplicates)
	})

	t.Run("missing service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Analysis: &mockAnalysisService{}})
		require.NoError(t, err)

		_, _, err = server.handleDuplicates(ctx, nil, DuplicatesInput{Texts: []string{"a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("propagates service error", func(t *testing.T) {
		dupes := &mockDuplicateService{err: domain.ErrEmbeddingUnavailable}
		server, err := NewServer(&Ports{Analysis: &mockAnalysisService{}, Duplicates: dupes})
		require.NoError(t, err)

		_, _, err = server.handleDuplicates(ctx, nil, DuplicatesInput{Texts: []string{"a"}})
		assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
	})
}
