package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func reviewInput() domain.AnalysisInput {
	return domain.AnalysisInput{
		TopicsByDate: domain.TopicsByDate{
			"2024-03-01": {"late delivery", "app crashes", "great taste"},
			"2024-03-02": {"late delivery", "rude delivery guy"},
		},
		EndDate:    "2024-03-02",
		WindowDays: 3,
	}
}

func TestAnalysisService_Analyze_Heuristic(t *testing.T) {
	runs := newMockRunStore()
	svc := NewAnalysisService(NewConsolidationChain(domain.StrategyHeuristic), nil, runs)
	fixed := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	report, err := svc.Analyze(context.Background(), reviewInput())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, fixed, report.CreatedAt)
	assert.Equal(t, domain.StrategyHeuristic, report.Consolidation.Strategy)
	assert.Equal(t, domain.MappingFuzzy, report.Mapping.Strategy)

	total := 0
	for _, n := range report.Mapping.Counts.Totals() {
		total += n
	}
	assert.Equal(t, 5, total)

	assert.Equal(t, []string{"2024-02-29", "2024-03-01", "2024-03-02"}, report.Trend.Dates)
	assert.Contains(t, runs.reports, report.RunID)
}

func TestAnalysisService_Analyze_FallsBackWhenGenerativeFails(t *testing.T) {
	llm := &mockLLMService{response: "I cannot help with that"}
	chain := NewConsolidationChain(domain.StrategyGenerative,
		GenerativeTier(NewGenerativeConsolidator(llm, nil, GenerativeConfig{})))
	svc := NewAnalysisService(chain, nil, nil)

	report, err := svc.Analyze(context.Background(), reviewInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyHeuristic, report.Consolidation.Strategy)
	assert.True(t, report.Consolidation.Degraded())
	require.Len(t, report.Consolidation.Attempts, 2)
	assert.Equal(t, domain.StrategyGenerative, report.Consolidation.Attempts[0].Strategy)
	assert.NotEmpty(t, report.Consolidation.Attempts[0].Error)
}

func TestAnalysisService_Analyze_InvalidInput(t *testing.T) {
	svc := NewAnalysisService(nil, nil, nil)

	_, err := svc.Analyze(context.Background(), domain.AnalysisInput{
		TopicsByDate: domain.TopicsByDate{"03/01/2024": {"x"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalysisService_Analyze_SaveFailure(t *testing.T) {
	runs := newMockRunStore()
	runs.saveErr = errors.New("disk full")
	svc := NewAnalysisService(nil, nil, runs)

	_, err := svc.Analyze(context.Background(), reviewInput())
	assert.ErrorContains(t, err, "save run")
}

func TestAnalysisService_Analyze_Empty(t *testing.T) {
	svc := NewAnalysisService(nil, nil, nil)

	report, err := svc.Analyze(context.Background(), domain.AnalysisInput{})
	require.NoError(t, err)

	assert.Empty(t, report.Consolidation.Mapping)
	assert.Empty(t, report.Mapping.Counts)
	assert.Empty(t, report.Trend.Dates)
}

func TestAnalysisService_Runs(t *testing.T) {
	runs := newMockRunStore()
	svc := NewAnalysisService(nil, nil, runs)

	report, err := svc.Analyze(context.Background(), reviewInput())
	require.NoError(t, err)

	summaries, err := svc.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, report.RunID, summaries[0].ID)

	got, err := svc.Run(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report, got)

	require.NoError(t, svc.DeleteRun(context.Background(), report.RunID))
	_, err = svc.Run(context.Background(), report.RunID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisService_RunsWithoutStore(t *testing.T) {
	svc := NewAnalysisService(nil, nil, nil)

	summaries, err := svc.Runs(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	_, err = svc.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
