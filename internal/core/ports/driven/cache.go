package driven

import (
	"context"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

// EmbeddingCacheEntry is one vector stored in the embedding cache.
type EmbeddingCacheEntry struct {
	// Key is the content hash of model, scope and text.
	Key string

	// Text is the encoded text, kept for inspection.
	Text string

	// Model is the embedding model that produced Vector.
	Model string

	// Scope partitions entries (for example by app identifier).
	Scope string

	// Vector is the embedding.
	Vector []float32
}

// EmbeddingCache persists embeddings keyed by content hash.
// Entries are immutable once written; writing an existing key overwrites it
// with an equivalent vector.
type EmbeddingCache interface {
	// Get returns the cached vectors for the given keys.
	// Missing keys are absent from the result.
	Get(ctx context.Context, keys []string) (map[string][]float32, error)

	// Put stores entries.
	Put(ctx context.Context, entries []EmbeddingCacheEntry) error

	// Stats returns entry counts.
	Stats(ctx context.Context) (domain.EmbeddingCacheStats, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// ResponseCache persists generative responses keyed by model and prompt.
type ResponseCache interface {
	// Get returns the cached response and true on a hit.
	// A hit increments the entry's hit count.
	Get(ctx context.Context, model, prompt string) (string, bool, error)

	// Put stores a response. The last write for a key wins.
	Put(ctx context.Context, model, prompt, response string) error

	// Stats returns entry and hit counts.
	Stats(ctx context.Context) (domain.ResponseCacheStats, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
