// Package sqlite persists caches and analysis runs in a single SQLite database.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation, so the
// binary cross-compiles without CGO. One Store hands out:
//
//   - EmbeddingCache: vectors keyed by a hash of model, scope and text
//   - ResponseCache: generative responses keyed by a hash of model and prompt, with hit counts
//   - RunStore: analysis reports stored as JSON with summary columns for listing
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/. Each
// migration is a pair of .up.sql and .down.sql files and records its own version.
//
// # Data Location
//
// By default the database is stored at ~/.topictrend/data/topictrend.db.
package sqlite
