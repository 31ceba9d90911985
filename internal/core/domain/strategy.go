package domain

import "errors"

const unknownDescription = "Unknown"

// ConsolidationStrategy selects how raw topics are reduced to a canonical set.
type ConsolidationStrategy string

// Available consolidation strategies, listed in fallback order.
const (
	// StrategyEmbeddingClustering groups topics by density clustering over embeddings.
	StrategyEmbeddingClustering ConsolidationStrategy = "embedding_clustering"

	// StrategyGenerative asks a generative model for canonical groups.
	StrategyGenerative ConsolidationStrategy = "generative"

	// StrategyHeuristic applies the keyword rule table. It needs no backend and cannot fail.
	StrategyHeuristic ConsolidationStrategy = "heuristic"
)

// IsValid returns true if the strategy is recognised.
func (s ConsolidationStrategy) IsValid() bool {
	switch s {
	case StrategyEmbeddingClustering, StrategyGenerative, StrategyHeuristic:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if this strategy needs an embedding backend.
func (s ConsolidationStrategy) RequiresEmbedding() bool {
	return s == StrategyEmbeddingClustering
}

// RequiresLLM returns true if this strategy needs a generative backend.
func (s ConsolidationStrategy) RequiresLLM() bool {
	return s == StrategyGenerative
}

// String returns the string representation.
func (s ConsolidationStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ConsolidationStrategy) Description() string {
	switch s {
	case StrategyEmbeddingClustering:
		return "Embedding clustering (density clusters over topic vectors)"
	case StrategyGenerative:
		return "Generative (LLM proposes canonical groups)"
	case StrategyHeuristic:
		return "Heuristic (keyword rule table)"
	default:
		return unknownDescription
	}
}

// FallbackChain returns this strategy followed by every later tier.
// An unknown strategy yields the full chain.
func (s ConsolidationStrategy) FallbackChain() []ConsolidationStrategy {
	all := AllStrategies()
	for i, candidate := range all {
		if candidate == s {
			return all[i:]
		}
	}
	return all
}

// AllStrategies returns every strategy in fallback order.
func AllStrategies() []ConsolidationStrategy {
	return []ConsolidationStrategy{
		StrategyEmbeddingClustering,
		StrategyGenerative,
		StrategyHeuristic,
	}
}

// TierOutcome is the success-or-failure result of one consolidation tier.
// Exactly one of Mapping and Err is meaningful.
type TierOutcome struct {
	Strategy ConsolidationStrategy
	Mapping  CanonicalMapping
	Err      error
}

// Succeeded returns true if the tier produced a mapping.
func (o TierOutcome) Succeeded() bool {
	return o.Err == nil
}

// TierAttempt records one tier tried during consolidation.
type TierAttempt struct {
	Strategy ConsolidationStrategy `json:"strategy"`
	Error    string                `json:"error,omitempty"`
}

// ConsolidationResult is the outcome of running the fallback chain.
type ConsolidationResult struct {
	// Mapping is the canonical mapping from the first successful tier.
	Mapping CanonicalMapping `json:"mapping"`

	// Strategy is the tier that produced Mapping.
	Strategy ConsolidationStrategy `json:"strategy"`

	// Attempts lists every tier tried, in order, including the successful one.
	Attempts []TierAttempt `json:"attempts"`
}

// Degraded returns true if a tier before the successful one failed.
func (r ConsolidationResult) Degraded() bool {
	return len(r.Attempts) > 1
}

// AttemptFromOutcome converts a tier outcome into an attempt record.
func AttemptFromOutcome(o TierOutcome) TierAttempt {
	attempt := TierAttempt{Strategy: o.Strategy}
	if o.Err != nil {
		attempt.Error = o.Err.Error()
	}
	return attempt
}

// IsBackendUnavailable reports whether err means a backend is missing or unreachable
// rather than a malformed response.
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrEmbeddingUnavailable) ||
		errors.Is(err, ErrLLMUnavailable) ||
		errors.Is(err, ErrNoStrategy)
}
