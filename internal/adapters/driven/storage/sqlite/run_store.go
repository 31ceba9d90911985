package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// createdAtLayout is fixed width so created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// runStore implements driven.RunStore over the analysis_runs table.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores a report as JSON alongside its summary columns.
func (s *runStore) Save(ctx context.Context, report *domain.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}

	summary := report.Summary()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_runs
			(id, scope, strategy, created_at, canonical_count, mention_count, unmapped_count, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, summary.ID, summary.Scope, summary.Strategy.String(),
		summary.CreatedAt.UTC().Format(createdAtLayout),
		summary.CanonicalCount, summary.MentionCount, summary.UnmappedCount, string(data))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a report by run ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	var data string
	err := s.store.db.QueryRowContext(ctx, "SELECT report FROM analysis_runs WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	var report domain.AnalysisReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("unmarshalling report: %w", err)
	}
	return &report, nil
}

// List returns run summaries newest first.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
		SELECT id, scope, strategy, created_at, canonical_count, mention_count, unmapped_count
		FROM analysis_runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	summaries := []domain.RunSummary{}
	for rows.Next() {
		var summary domain.RunSummary
		var strategy, createdAt string
		if err := rows.Scan(&summary.ID, &summary.Scope, &strategy, &createdAt,
			&summary.CanonicalCount, &summary.MentionCount, &summary.UnmappedCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		summary.Strategy = domain.ConsolidationStrategy(strategy)
		if summary.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parsing run time: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Delete removes a run.
func (s *runStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM analysis_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
