package driven

import (
	"context"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

// RunStore persists analysis reports.
type RunStore interface {
	// Save stores a report under its RunID. Saving an existing ID replaces it.
	Save(ctx context.Context, report *domain.AnalysisReport) error

	// Get retrieves a report by run ID.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.AnalysisReport, error)

	// List returns run summaries, newest first. A limit <= 0 returns every run.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Delete removes a run.
	// Returns domain.ErrNotFound if the run does not exist.
	Delete(ctx context.Context, id string) error
}
