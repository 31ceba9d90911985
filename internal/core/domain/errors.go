package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the generative backend is not configured or unreachable.
	// The generative consolidation tier is skipped without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding backend is not configured or unreachable.
	// Clustering and embedding-based mapping fall back to non-embedding strategies.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerativeParse indicates a generative response could not be parsed
	// into the expected canonical/variation structure.
	ErrGenerativeParse = errors.New("generative response parse failure")

	// ErrRateLimited indicates a backend rejected the request for exceeding its rate limit.
	ErrRateLimited = errors.New("rate limited")

	// ErrNoStrategy indicates a consolidation tier has no backing implementation.
	ErrNoStrategy = errors.New("consolidation strategy not available")
)
