package driving

import (
	"context"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

// AnalysisService consolidates raw topics and maps them onto canonical topics.
type AnalysisService interface {
	// Analyze runs consolidation, mapping, diagnostics and the trend matrix
	// for one input and persists the report when a run store is configured.
	// Errors are returned only for invalid input or persistence failure.
	Analyze(ctx context.Context, input domain.AnalysisInput) (*domain.AnalysisReport, error)

	// Consolidate builds a canonical mapping from raw topics using the
	// configured strategy and its fallback chain. It never fails.
	Consolidate(ctx context.Context, topics []string, scope string) domain.ConsolidationResult

	// MapToCanonical counts raw topics per date under their canonical topics.
	MapToCanonical(ctx context.Context, topicsByDate domain.TopicsByDate, mapping domain.CanonicalMapping, scope string) domain.MappingResult

	// Runs returns stored run summaries, newest first.
	Runs(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Run returns one stored report.
	Run(ctx context.Context, id string) (*domain.AnalysisReport, error)

	// DeleteRun removes one stored report.
	DeleteRun(ctx context.Context, id string) error
}

// DuplicateService finds near-duplicate texts.
type DuplicateService interface {
	// FindDuplicates returns the indices to keep and a map from each
	// duplicate index to the kept index it repeats.
	FindDuplicates(ctx context.Context, texts []string, scope string) (domain.DuplicateResult, error)
}

// CacheService reports on and clears the persistent caches.
type CacheService interface {
	// Stats returns entry counts for both caches.
	Stats(ctx context.Context) (domain.CacheStats, error)

	// Clear empties the named cache ("embeddings", "responses" or "all").
	Clear(ctx context.Context, which string) error
}
