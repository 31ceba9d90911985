package mcp

import (
	"context"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
)

var (
	_ driving.AnalysisService  = (*mockAnalysisService)(nil)
	_ driving.DuplicateService = (*mockDuplicateService)(nil)
)

type mockAnalysisService struct {
	consolidation domain.ConsolidationResult
	mapping       domain.MappingResult
	runs          []domain.RunSummary
	reports       map[string]*domain.AnalysisReport
	err           error

	gotTopics  []string
	gotScope   string
	gotMapping domain.CanonicalMapping
	gotLimit   int
}

func (m *mockAnalysisService) Analyze(_ context.Context, _ domain.AnalysisInput) (*domain.AnalysisReport, error) {
	return nil, m.err
}

func (m *mockAnalysisService) Consolidate(_ context.Context, topics []string, scope string) domain.ConsolidationResult {
	m.gotTopics = topics
	m.gotScope = scope
	return m.consolidation
}

func (m *mockAnalysisService) MapToCanonical(
	_ context.Context,
	_ domain.TopicsByDate,
	mapping domain.CanonicalMapping,
	scope string,
) domain.MappingResult {
	m.gotMapping = mapping
	m.gotScope = scope
	return m.mapping
}

func (m *mockAnalysisService) Runs(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.runs, nil
}

func (m *mockAnalysisService) Run(_ context.Context, id string) (*domain.AnalysisReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	report, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return report, nil
}

func (m *mockAnalysisService) DeleteRun(_ context.Context, _ string) error {
	return m.err
}

type mockDuplicateService struct {
	result domain.DuplicateResult
	err    error
}

func (m *mockDuplicateService) FindDuplicates(_ context.Context, _ []string, _ string) (domain.DuplicateResult, error) {
	return m.result, m.err
}
