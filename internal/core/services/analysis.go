package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// DefaultRunListLimit is the number of runs listed when no limit is given.
const DefaultRunListLimit = 20

// AnalysisService runs the consolidation, mapping and diagnostics pipeline.
type AnalysisService struct {
	chain  *ConsolidationChain
	mapper *TopicMapper
	runs   driven.RunStore
	now    func() time.Time
}

// NewAnalysisService creates an analysis service.
// runs is optional; without it reports are not persisted and run queries fail with ErrNotFound.
func NewAnalysisService(chain *ConsolidationChain, mapper *TopicMapper, runs driven.RunStore) *AnalysisService {
	if chain == nil {
		chain = NewConsolidationChain(domain.StrategyHeuristic)
	}
	if mapper == nil {
		mapper = NewTopicMapper(nil, MapperConfig{})
	}
	return &AnalysisService{
		chain:  chain,
		mapper: mapper,
		runs:   runs,
		now:    time.Now,
	}
}

// Analyze runs one full analysis.
func (s *AnalysisService) Analyze(ctx context.Context, input domain.AnalysisInput) (*domain.AnalysisReport, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	defer logger.Timer("analysis")()

	report := &domain.AnalysisReport{
		RunID:     uuid.New().String(),
		Scope:     input.Scope,
		CreatedAt: s.now().UTC(),
	}
	logger.Section(fmt.Sprintf("Analysis %s", report.RunID))
	logger.Debug("%d dates, scope %q", len(input.TopicsByDate), input.Scope)

	report.Consolidation = s.chain.Consolidate(ctx, input.ConsolidationTopics(), input.Scope)
	report.Mapping = s.mapper.MapToCanonical(ctx, input.TopicsByDate, report.Consolidation.Mapping, input.Scope)
	report.Diagnostics = Diagnose(report.Consolidation.Mapping, report.Mapping.Counts, report.Mapping.Unmapped)

	trend, err := domain.BuildTrendMatrix(report.Mapping.Counts, input.EndDate, input.WindowDays)
	if err != nil {
		return nil, err
	}
	report.Trend = trend

	if !report.Diagnostics.IsClean() {
		logger.Info("Diagnostics: %d declared unused, %d undeclared used, %d singletons",
			len(report.Diagnostics.DeclaredUnused),
			len(report.Diagnostics.UndeclaredUsed),
			len(report.Diagnostics.Singletons))
	}

	if s.runs != nil {
		if err := s.runs.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}
	return report, nil
}

// Consolidate builds a canonical mapping through the fallback chain.
func (s *AnalysisService) Consolidate(ctx context.Context, topics []string, scope string) domain.ConsolidationResult {
	return s.chain.Consolidate(ctx, topics, scope)
}

// MapToCanonical counts raw topics per date under their canonical topics.
func (s *AnalysisService) MapToCanonical(
	ctx context.Context, topicsByDate domain.TopicsByDate, mapping domain.CanonicalMapping, scope string,
) domain.MappingResult {
	return s.mapper.MapToCanonical(ctx, topicsByDate, mapping, scope)
}

// Runs lists stored runs, newest first.
func (s *AnalysisService) Runs(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if s.runs == nil {
		return []domain.RunSummary{}, nil
	}
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	return s.runs.List(ctx, limit)
}

// Run returns a stored report.
func (s *AnalysisService) Run(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	if s.runs == nil {
		return nil, domain.ErrNotFound
	}
	return s.runs.Get(ctx, id)
}

// DeleteRun removes a stored report.
func (s *AnalysisService) DeleteRun(ctx context.Context, id string) error {
	if s.runs == nil {
		return domain.ErrNotFound
	}
	return s.runs.Delete(ctx, id)
}
