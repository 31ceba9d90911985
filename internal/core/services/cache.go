package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// Cache names accepted by CacheService.Clear.
const (
	CacheEmbeddings = "embeddings"
	CacheResponses  = "responses"
	CacheAll        = "all"
)

// CacheService reports on and clears the embedding and response caches.
// Either cache may be nil.
type CacheService struct {
	embeddings driven.EmbeddingCache
	responses  driven.ResponseCache
}

// NewCacheService creates a cache service.
func NewCacheService(embeddings driven.EmbeddingCache, responses driven.ResponseCache) *CacheService {
	return &CacheService{embeddings: embeddings, responses: responses}
}

// Stats returns entry counts for both caches.
func (s *CacheService) Stats(ctx context.Context) (domain.CacheStats, error) {
	stats := domain.CacheStats{
		Embeddings: domain.EmbeddingCacheStats{ByModel: map[string]int{}},
		Responses:  domain.ResponseCacheStats{ByModel: map[string]int{}},
	}
	if s.embeddings != nil {
		es, err := s.embeddings.Stats(ctx)
		if err != nil {
			return stats, fmt.Errorf("embedding cache stats: %w", err)
		}
		stats.Embeddings = es
	}
	if s.responses != nil {
		rs, err := s.responses.Stats(ctx)
		if err != nil {
			return stats, fmt.Errorf("response cache stats: %w", err)
		}
		stats.Responses = rs
	}
	return stats, nil
}

// Clear empties the named cache.
func (s *CacheService) Clear(ctx context.Context, which string) error {
	switch which {
	case CacheEmbeddings, CacheResponses, CacheAll:
	default:
		return fmt.Errorf("%w: unknown cache %q (want %s, %s or %s)",
			domain.ErrInvalidInput, which, CacheEmbeddings, CacheResponses, CacheAll)
	}

	if which != CacheResponses && s.embeddings != nil {
		if err := s.embeddings.Clear(ctx); err != nil {
			return fmt.Errorf("clear embedding cache: %w", err)
		}
	}
	if which != CacheEmbeddings && s.responses != nil {
		if err := s.responses.Clear(ctx); err != nil {
			return fmt.Errorf("clear response cache: %w", err)
		}
	}
	return nil
}
