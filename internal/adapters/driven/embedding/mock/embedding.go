// Package mock provides a scriptable embedding service for tests and dry runs.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the vector size when none is configured.
const DefaultDimensions = 8

// EmbeddingService returns fixed vectors for known texts and a one-hot
// vector chosen by hash for everything else.
type EmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	dimensions int
	err        error
	calls      int
}

// NewEmbeddingService creates a mock with the given known vectors.
func NewEmbeddingService(dimensions int, vectors map[string][]float32) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	if vectors == nil {
		vectors = make(map[string][]float32)
	}
	return &EmbeddingService{vectors: vectors, dimensions: dimensions}
}

// SetError makes every later call fail with err wrapped in domain.ErrEmbeddingUnavailable.
// A nil err clears the failure.
func (s *EmbeddingService) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns the number of EmbedBatch calls made.
func (s *EmbeddingService) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Embed returns the vector for one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one vector per text.
func (s *EmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, fmt.Errorf("%w: mock: %w", domain.ErrEmbeddingUnavailable, s.err)
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := s.vectors[text]; ok {
			out[i] = v
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(text))
		v := make([]float32, s.dimensions)
		v[int(h.Sum32()%uint32(s.dimensions))] = 1
		out[i] = v
	}
	return out, nil
}

// Dimensions returns the vector size.
func (s *EmbeddingService) Dimensions() int { return s.dimensions }

// ModelName returns "mock".
func (s *EmbeddingService) ModelName() string { return "mock" }

// Ping returns the configured error, if any.
func (s *EmbeddingService) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases resources.
func (s *EmbeddingService) Close() error { return nil }
