// Package domain defines the core business entities for topictrend.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CanonicalMapping: canonical topic name to the raw variations it subsumes
//   - CanonicalCounts: per-date mention counts keyed by canonical topic
//   - UnmappedTopics: low-confidence assignments kept for diagnostics
//   - Diagnostics: advisory cross-checks between declared and used topics
//   - ConsolidationStrategy: the ordered fallback tiers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
