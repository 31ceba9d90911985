package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func TestTopicEncoder_SameLengthOutput(t *testing.T) {
	backend := newMockEmbedding(map[string][]float32{
		"late":  {1, 0, 0, 0},
		"crash": {0, 1, 0, 0},
	})
	enc := NewTopicEncoder(backend, nil, EncoderConfig{})

	vecs, err := enc.Encode(context.Background(), []string{"late", "", "crash", "   ", "late"}, EncodeOptions{})
	require.NoError(t, err)

	require.Len(t, vecs, 5)
	assert.Equal(t, []float32{1, 0, 0, 0}, vecs[0])
	assert.Nil(t, vecs[1])
	assert.Equal(t, []float32{0, 1, 0, 0}, vecs[2])
	assert.Nil(t, vecs[3])
	assert.Equal(t, vecs[0], vecs[4])

	// Repeated texts are sent once.
	assert.Equal(t, []string{"late", "crash"}, backend.embeddedTexts())
}

func TestTopicEncoder_EmptyInput(t *testing.T) {
	enc := NewTopicEncoder(nil, nil, EncoderConfig{})

	vecs, err := enc.Encode(context.Background(), nil, EncodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, vecs)

	vecs, err = enc.Encode(context.Background(), []string{" ", ""}, EncodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{nil, nil}, vecs)
}

func TestTopicEncoder_NoBackend(t *testing.T) {
	enc := NewTopicEncoder(nil, newMockEmbeddingCache(), EncoderConfig{})

	_, err := enc.Encode(context.Background(), []string{"late"}, EncodeOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.False(t, enc.Available())
}

func TestTopicEncoder_BackendFailure(t *testing.T) {
	backend := newMockEmbedding(nil)
	backend.err = errors.New("connection refused")
	enc := NewTopicEncoder(backend, nil, EncoderConfig{})

	_, err := enc.Encode(context.Background(), []string{"late"}, EncodeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTopicEncoder_CacheHitsSkipBackend(t *testing.T) {
	backend := newMockEmbedding(nil)
	cache := newMockEmbeddingCache()
	enc := NewTopicEncoder(backend, cache, EncoderConfig{})
	ctx := context.Background()

	first, err := enc.Encode(ctx, []string{"late", "crash"}, EncodeOptions{Scope: "app"})
	require.NoError(t, err)
	assert.Len(t, cache.entries, 2)
	assert.InDelta(t, 0.0, enc.HitRate(), 1e-9)

	second, err := enc.Encode(ctx, []string{"crash", "late", "cold"}, EncodeOptions{Scope: "app"})
	require.NoError(t, err)

	assert.Equal(t, first[0], second[1])
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, []string{"late", "crash", "cold"}, backend.embeddedTexts())
	assert.InDelta(t, 2.0/5.0, enc.HitRate(), 1e-9)
}

func TestTopicEncoder_ScopePartitionsCache(t *testing.T) {
	backend := newMockEmbedding(nil)
	cache := newMockEmbeddingCache()
	enc := NewTopicEncoder(backend, cache, EncoderConfig{})
	ctx := context.Background()

	_, err := enc.Encode(ctx, []string{"late"}, EncodeOptions{Scope: "app-a"})
	require.NoError(t, err)
	_, err = enc.Encode(ctx, []string{"late"}, EncodeOptions{Scope: "app-b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"late", "late"}, backend.embeddedTexts())
	assert.Len(t, cache.entries, 2)
}

func TestTopicEncoder_CacheErrorsDegrade(t *testing.T) {
	backend := newMockEmbedding(nil)
	cache := newMockEmbeddingCache()
	cache.getErr = errors.New("disk I/O error")
	cache.putErr = errors.New("disk I/O error")
	enc := NewTopicEncoder(backend, cache, EncoderConfig{})

	vecs, err := enc.Encode(context.Background(), []string{"late"}, EncodeOptions{})
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
	assert.NotNil(t, vecs[0])
}

func TestTopicEncoder_Batching(t *testing.T) {
	backend := newMockEmbedding(nil)
	enc := NewTopicEncoder(backend, nil, EncoderConfig{BatchSize: 2, Concurrency: 1})

	texts := []string{"a", "b", "c", "d", "e"}
	vecs, err := enc.Encode(context.Background(), texts, EncodeOptions{})
	require.NoError(t, err)

	require.Len(t, vecs, 5)
	for i, v := range vecs {
		assert.Equal(t, backend.vectorFor(texts[i]), v)
	}
	assert.Len(t, backend.calls, 3)

	// Per-call batch size overrides the default.
	backend.calls = nil
	_, err = enc.Encode(context.Background(), []string{"f", "g", "h"}, EncodeOptions{BatchSize: 3})
	require.NoError(t, err)
	assert.Len(t, backend.calls, 1)
}

func TestEmbeddingCacheKey(t *testing.T) {
	k := EmbeddingCacheKey("m", "s", "text")

	assert.Len(t, k, 64)
	assert.Equal(t, k, EmbeddingCacheKey("m", "s", "text"))
	assert.NotEqual(t, k, EmbeddingCacheKey("m2", "s", "text"))
	assert.NotEqual(t, k, EmbeddingCacheKey("m", "", "text"))
	assert.NotEqual(t, EmbeddingCacheKey("m", "ab", "c"), EmbeddingCacheKey("m", "a", "bc"))
}
