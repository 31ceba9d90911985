package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory driven.RunStore.
type RunStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.AnalysisReport
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{reports: make(map[string]*domain.AnalysisReport)}
}

// Save stores a report, replacing any with the same ID.
func (s *RunStore) Save(_ context.Context, report *domain.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *report
	s.reports[report.RunID] = &r
	return nil
}

// Get retrieves a report by run ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *r
	return &out, nil
}

// List returns summaries newest first.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RunSummary, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a report.
func (s *RunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.reports, id)
	return nil
}
