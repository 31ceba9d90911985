package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// maxKeysPerQuery keeps IN lists under SQLite's bound-parameter limit.
const maxKeysPerQuery = 500

// embeddingCache implements driven.EmbeddingCache.
type embeddingCache struct {
	store *Store
}

var _ driven.EmbeddingCache = (*embeddingCache)(nil)

// Get returns the cached vectors for the keys present.
func (c *embeddingCache) Get(ctx context.Context, keys []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(keys))

	for start := 0; start < len(keys); start += maxKeysPerQuery {
		chunk := keys[start:min(start+maxKeysPerQuery, len(keys))]
		args := make([]any, len(chunk))
		for i, k := range chunk {
			args[i] = k
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

		rows, err := c.store.db.QueryContext(ctx,
			"SELECT cache_key, embedding FROM embedding_cache WHERE cache_key IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("querying embedding cache: %w", err)
		}
		for rows.Next() {
			var key string
			var blob []byte
			if err := rows.Scan(&key, &blob); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning embedding: %w", err)
			}
			out[key] = bytesToFloat32Slice(blob)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating embeddings: %w", err)
		}
	}
	return out, nil
}

// Put stores entries in one transaction, replacing existing keys.
func (c *embeddingCache) Put(ctx context.Context, entries []driven.EmbeddingCacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO embedding_cache (cache_key, text, model, scope, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Key, e.Text, e.Model, e.Scope, float32SliceToBytes(e.Vector)); err != nil {
			return fmt.Errorf("inserting embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing embeddings: %w", err)
	}
	return nil
}

// Stats counts entries per model.
func (c *embeddingCache) Stats(ctx context.Context) (domain.EmbeddingCacheStats, error) {
	stats := domain.EmbeddingCacheStats{ByModel: make(map[string]int)}

	rows, err := c.store.db.QueryContext(ctx, "SELECT model, COUNT(*) FROM embedding_cache GROUP BY model")
	if err != nil {
		return stats, fmt.Errorf("querying embedding stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var model string
		var n int
		if err := rows.Scan(&model, &n); err != nil {
			return stats, fmt.Errorf("scanning embedding stats: %w", err)
		}
		stats.ByModel[model] = n
		stats.TotalEntries += n
	}
	return stats, rows.Err()
}

// Clear removes every entry.
func (c *embeddingCache) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM embedding_cache"); err != nil {
		return fmt.Errorf("clearing embedding cache: %w", err)
	}
	return nil
}
