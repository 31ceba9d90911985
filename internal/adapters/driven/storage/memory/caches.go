package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// Ensure the caches implement their interfaces.
var (
	_ driven.EmbeddingCache = (*EmbeddingCache)(nil)
	_ driven.ResponseCache  = (*ResponseCache)(nil)
)

// EmbeddingCache is an in-memory driven.EmbeddingCache.
type EmbeddingCache struct {
	mu      sync.RWMutex
	entries map[string]driven.EmbeddingCacheEntry
}

// NewEmbeddingCache creates an empty embedding cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{entries: make(map[string]driven.EmbeddingCacheEntry)}
}

// Get returns cached vectors for the keys present.
func (c *EmbeddingCache) Get(_ context.Context, keys []string) (map[string][]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]float32, len(keys))
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			out[key] = e.Vector
		}
	}
	return out, nil
}

// Put stores entries, replacing existing keys.
func (c *EmbeddingCache) Put(_ context.Context, entries []driven.EmbeddingCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		e.Vector = append([]float32(nil), e.Vector...)
		c.entries[e.Key] = e
	}
	return nil
}

// Stats counts entries per model.
func (c *EmbeddingCache) Stats(_ context.Context) (domain.EmbeddingCacheStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := domain.EmbeddingCacheStats{TotalEntries: len(c.entries), ByModel: make(map[string]int)}
	for _, e := range c.entries {
		stats.ByModel[e.Model]++
	}
	return stats, nil
}

// Clear removes every entry.
func (c *EmbeddingCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]driven.EmbeddingCacheEntry)
	return nil
}

type responseKey struct {
	model  string
	prompt string
}

type responseEntry struct {
	response string
	hits     int
}

// ResponseCache is an in-memory driven.ResponseCache.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[responseKey]*responseEntry
}

// NewResponseCache creates an empty response cache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{entries: make(map[responseKey]*responseEntry)}
}

// Get returns a cached response and counts the hit.
func (c *ResponseCache) Get(_ context.Context, model, prompt string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[responseKey{model, prompt}]
	if !ok {
		return "", false, nil
	}
	e.hits++
	return e.response, true, nil
}

// Put stores a response, resetting its hit count.
func (c *ResponseCache) Put(_ context.Context, model, prompt, response string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[responseKey{model, prompt}] = &responseEntry{response: response}
	return nil
}

// Stats counts entries and hits.
func (c *ResponseCache) Stats(_ context.Context) (domain.ResponseCacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := domain.ResponseCacheStats{TotalEntries: len(c.entries), ByModel: make(map[string]int)}
	for k, e := range c.entries {
		stats.TotalHits += e.hits
		stats.ByModel[k.model]++
	}
	return stats, nil
}

// Clear removes every entry.
func (c *ResponseCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[responseKey]*responseEntry)
	return nil
}
