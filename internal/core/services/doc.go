// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The analysis pipeline is built from small pieces that are wired in the
// composition root:
//
//   - Normalize / GroupByNormalized: cheap pre-grouping of exact near-duplicates
//   - TopicEncoder: cached, batched, concurrent embedding
//   - EmbeddingClusterer, GenerativeConsolidator, HeuristicConsolidator: the
//     three consolidation tiers, run in order by ConsolidationChain
//   - TopicMapper: assigns dated topics to canonical topics
//   - Diagnose: advisory cross-checks over the counts
//   - AnalysisService: runs the above and stores the report
//
// Services never import adapters.
package services
