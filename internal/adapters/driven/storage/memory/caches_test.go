package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

func TestEmbeddingCache(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache()

	vec := []float32{0.1, 0.2}
	require.NoError(t, cache.Put(ctx, []driven.EmbeddingCacheEntry{
		{Key: "a", Model: "m1", Vector: vec},
		{Key: "b", Model: "m2", Vector: []float32{1}},
	}))
	vec[0] = 9

	got, err := cache.Get(ctx, []string{"a", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]float32{"a": {0.1, 0.2}}, got)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, map[string]int{"m1": 1, "m2": 1}, stats.ByModel)

	require.NoError(t, cache.Clear(ctx))
	stats, err = cache.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
}

func TestResponseCache(t *testing.T) {
	ctx := context.Background()
	cache := NewResponseCache()

	_, ok, err := cache.Get(ctx, "gpt", "prompt")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "gpt", "prompt", "first"))
	require.NoError(t, cache.Put(ctx, "gpt", "prompt", "second"))
	require.NoError(t, cache.Put(ctx, "llama", "prompt", "other"))

	resp, ok, err := cache.Get(ctx, "gpt", "prompt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", resp)
	_, _, _ = cache.Get(ctx, "gpt", "prompt")

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 2, stats.TotalHits)
	assert.Equal(t, map[string]int{"gpt": 1, "llama": 1}, stats.ByModel)

	require.NoError(t, cache.Clear(ctx))
	_, ok, err = cache.Get(ctx, "gpt", "prompt")
	require.NoError(t, err)
	assert.False(t, ok)
}
