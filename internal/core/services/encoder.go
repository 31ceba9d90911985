package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// Encoder defaults.
const (
	DefaultEncodeBatchSize   = 128
	DefaultEncodeConcurrency = 4
)

// Encoder turns texts into vectors. TopicEncoder is the production implementation.
type Encoder interface {
	// Encode returns one vector per input text, in input order.
	// Blank texts are not encoded and yield a nil vector at their position.
	Encode(ctx context.Context, texts []string, opts EncodeOptions) ([][]float32, error)
}

// EncodeOptions configures one Encode call.
type EncodeOptions struct {
	// BatchSize is the number of texts per backend request. Zero uses the encoder default.
	BatchSize int

	// Scope partitions the cache (for example an app identifier). Empty is a valid scope.
	Scope string
}

// EncoderConfig configures a TopicEncoder.
type EncoderConfig struct {
	// BatchSize is the default number of texts per backend request.
	BatchSize int

	// Concurrency is the maximum number of batches in flight.
	Concurrency int
}

// TopicEncoder wraps an embedding backend with a persistent cache.
// Only cache misses reach the backend; new vectors are written back.
type TopicEncoder struct {
	backend driven.EmbeddingService
	cache   driven.EmbeddingCache
	cfg     EncoderConfig

	hits   atomic.Int64
	misses atomic.Int64
}

// NewTopicEncoder creates an encoder. backend and cache may be nil: without a
// backend every non-empty Encode fails with domain.ErrEmbeddingUnavailable,
// without a cache every text is sent to the backend.
func NewTopicEncoder(backend driven.EmbeddingService, cache driven.EmbeddingCache, cfg EncoderConfig) *TopicEncoder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultEncodeBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultEncodeConcurrency
	}
	return &TopicEncoder{backend: backend, cache: cache, cfg: cfg}
}

// EmbeddingCacheKey is the cache key for text under model and scope.
func EmbeddingCacheKey(model, scope, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + scope + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Available reports whether a backend is configured.
func (e *TopicEncoder) Available() bool {
	return e != nil && e.backend != nil
}

// HitRate returns the fraction of distinct texts served from the cache since creation.
func (e *TopicEncoder) HitRate() float64 {
	hits, misses := e.hits.Load(), e.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Encode returns one vector per input text, in input order.
func (e *TopicEncoder) Encode(ctx context.Context, texts []string, opts EncodeOptions) ([][]float32, error) {
	out := make([][]float32, len(texts))

	// Distinct non-blank texts and the positions they fill.
	positions := make(map[string][]int)
	var unique []string
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, ok := positions[text]; !ok {
			unique = append(unique, text)
		}
		positions[text] = append(positions[text], i)
	}
	if len(unique) == 0 {
		return out, nil
	}
	if !e.Available() {
		return nil, fmt.Errorf("%w: no embedding backend configured", domain.ErrEmbeddingUnavailable)
	}

	model := e.backend.ModelName()
	keys := make([]string, len(unique))
	for i, text := range unique {
		keys[i] = EmbeddingCacheKey(model, opts.Scope, text)
	}

	cached := e.lookup(ctx, keys)

	var missing []int
	for i, key := range keys {
		if vec, ok := cached[key]; ok {
			for _, pos := range positions[unique[i]] {
				out[pos] = vec
			}
			continue
		}
		missing = append(missing, i)
	}

	e.hits.Add(int64(len(unique) - len(missing)))
	e.misses.Add(int64(len(missing)))
	logger.Debug("Embedding cache: %d/%d hits (scope %q, model %s)",
		len(unique)-len(missing), len(unique), opts.Scope, model)

	if len(missing) == 0 {
		return out, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = e.cfg.BatchSize
	}

	missTexts := make([]string, len(missing))
	for j, i := range missing {
		missTexts[j] = unique[i]
	}
	vectors, err := e.embedBatches(ctx, missTexts, batchSize)
	if err != nil {
		return nil, err
	}

	entries := make([]driven.EmbeddingCacheEntry, len(missing))
	for j, i := range missing {
		for _, pos := range positions[unique[i]] {
			out[pos] = vectors[j]
		}
		entries[j] = driven.EmbeddingCacheEntry{
			Key:    keys[i],
			Text:   unique[i],
			Model:  model,
			Scope:  opts.Scope,
			Vector: vectors[j],
		}
	}
	e.store(ctx, entries)

	return out, nil
}

// lookup reads the cache. Cache failures degrade to misses.
func (e *TopicEncoder) lookup(ctx context.Context, keys []string) map[string][]float32 {
	if e.cache == nil {
		return nil
	}
	cached, err := e.cache.Get(ctx, keys)
	if err != nil {
		logger.Warn("Embedding cache read failed, encoding everything: %v", err)
		return nil
	}
	return cached
}

func (e *TopicEncoder) store(ctx context.Context, entries []driven.EmbeddingCacheEntry) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Put(ctx, entries); err != nil {
		logger.Warn("Embedding cache write failed: %v", err)
	}
}

// embedBatches sends texts to the backend in batches, several in flight at once.
func (e *TopicEncoder) embedBatches(ctx context.Context, texts []string, batchSize int) ([][]float32, error) {
	defer logger.Timer(fmt.Sprintf("encode %d texts", len(texts)))()

	vectors := make([][]float32, len(texts))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		batch := texts[start:end]
		offset := start

		g.Go(func() error {
			result, err := e.backend.EmbedBatch(gctx, batch)
			if err != nil {
				return err
			}
			if len(result) != len(batch) {
				return fmt.Errorf("backend returned %d vectors for %d texts", len(result), len(batch))
			}
			mu.Lock()
			copy(vectors[offset:], result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return vectors, nil
}
