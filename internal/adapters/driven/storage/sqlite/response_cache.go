package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// responseCache implements driven.ResponseCache over the llm_responses table.
type responseCache struct {
	store *Store
}

var _ driven.ResponseCache = (*responseCache)(nil)

// promptHash returns the row key for a model and prompt.
func promptHash(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + ":" + prompt))
	return hex.EncodeToString(sum[:])
}

// Get returns a cached response and increments its hit count.
func (c *responseCache) Get(ctx context.Context, model, prompt string) (string, bool, error) {
	hash := promptHash(model, prompt)

	var response string
	err := c.store.db.QueryRowContext(ctx,
		"SELECT response FROM llm_responses WHERE prompt_hash = ?", hash).Scan(&response)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying response cache: %w", err)
	}

	if _, err := c.store.db.ExecContext(ctx,
		"UPDATE llm_responses SET hit_count = hit_count + 1 WHERE prompt_hash = ?", hash); err != nil {
		return "", false, fmt.Errorf("updating hit count: %w", err)
	}
	return response, true, nil
}

// Put stores a response. Rewriting a key resets its hit count.
func (c *responseCache) Put(ctx context.Context, model, prompt, response string) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO llm_responses (prompt_hash, model, prompt, response, hit_count)
		VALUES (?, ?, ?, ?, 0)
	`, promptHash(model, prompt), model, prompt, response)
	if err != nil {
		return fmt.Errorf("storing response: %w", err)
	}
	return nil
}

// Stats returns entry counts, total hits and per-model counts.
func (c *responseCache) Stats(ctx context.Context) (domain.ResponseCacheStats, error) {
	stats := domain.ResponseCacheStats{ByModel: make(map[string]int)}

	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM llm_responses").
		Scan(&stats.TotalEntries, &stats.TotalHits)
	if err != nil {
		return stats, fmt.Errorf("querying response stats: %w", err)
	}

	rows, err := c.store.db.QueryContext(ctx, "SELECT model, COUNT(*) FROM llm_responses GROUP BY model")
	if err != nil {
		return stats, fmt.Errorf("querying response models: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var model string
		var n int
		if err := rows.Scan(&model, &n); err != nil {
			return stats, fmt.Errorf("scanning response models: %w", err)
		}
		stats.ByModel[model] = n
	}
	return stats, rows.Err()
}

// Clear removes every entry.
func (c *responseCache) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM llm_responses"); err != nil {
		return fmt.Errorf("clearing response cache: %w", err)
	}
	return nil
}
