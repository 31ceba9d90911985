package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func TestExtractRunID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid run URI", uri: "topictrend://runs/run-123", expected: "run-123"},
		{name: "list URI", uri: "topictrend://runs", expected: ""},
		{name: "invalid prefix", uri: "file://runs/run-123", expected: ""},
		{name: "nested path", uri: "topictrend://runs/run-123/extra", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRunID(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists run summaries", func(t *testing.T) {
		analysis := &mockAnalysisService{
			runs: []domain.RunSummary{
				{ID: "run-2", Strategy: domain.StrategyGenerative, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
				{ID: "run-1", Strategy: domain.StrategyHeuristic, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			},
		}
		server, err := NewServer(&Ports{Analysis: analysis})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, readRequest("topictrend://runs"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Equal(t, runListLimit, analysis.gotLimit)

		var runs []domain.RunSummary
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &runs))
		require.Len(t, runs, 2)
		assert.Equal(t, "run-2", runs[0].ID)
	})

	t.Run("empty store yields empty array", func(t *testing.T) {
		server, err := NewServer(&Ports{Analysis: &mockAnalysisService{}})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, readRequest("topictrend://runs"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		server, err := NewServer(&Ports{Analysis: &mockAnalysisService{err: errors.New("db locked")}})
		require.NoError(t, err)

		_, err = server.handleRunsResource(ctx, readRequest("topictrend://runs"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db locked")
	})
}

func TestServer_handleRunResource(t *testing.T) {
	ctx := context.Background()

	analysis := &mockAnalysisService{
		reports: map[string]*domain.AnalysisReport{
			"run-1": {
				RunID: "run-1",
				Consolidation: domain.ConsolidationResult{
					Mapping:  domain.CanonicalMapping{"Login Issues": {"login fails"}},
					Strategy: domain.StrategyHeuristic,
				},
			},
		},
	}
	server, err := NewServer(&Ports{Analysis: analysis})
	require.NoError(t, err)

	t.Run("returns report", func(t *testing.T) {
		result, err := server.handleRunResource(ctx, readRequest("topictrend://runs/run-1"))
		require.NoError(t, err)

		var report domain.AnalysisReport
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &report))
		assert.Equal(t, "run-1", report.RunID)
		assert.Equal(t, domain.StrategyHeuristic, report.Consolidation.Strategy)
	})

	t.Run("unknown run is not found", func(t *testing.T) {
		_, err := server.handleRunResource(ctx, readRequest("topictrend://runs/missing"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleRunResource(ctx, readRequest("topictrend://runs/"))
		require.Error(t, err)
	})
}
