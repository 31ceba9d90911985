package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func TestRunStore(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		offset := map[string]int{"old": 0, "mid": 1, "new": 2}[id]
		require.NoError(t, store.Save(ctx, &domain.AnalysisReport{
			RunID:     id,
			CreatedAt: base.Add(time.Duration(offset) * time.Hour),
			Consolidation: domain.ConsolidationResult{
				Strategy: domain.StrategyHeuristic,
				Mapping:  domain.CanonicalMapping{"A": {"a"}},
			},
		}), "save %d", i)
	}

	summaries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{summaries[0].ID, summaries[1].ID, summaries[2].ID})
	assert.Equal(t, 1, summaries[0].CanonicalCount)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	got, err := store.Get(ctx, "mid")
	require.NoError(t, err)
	assert.Equal(t, "mid", got.RunID)

	require.NoError(t, store.Delete(ctx, "mid"))
	_, err = store.Get(ctx, "mid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "mid"), domain.ErrNotFound)
}
