// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration
//   - PromptStore: Generative prompt templates
//   - RuleStore: Heuristic consolidation rule table
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, clustering falls
//     through to the generative tier and mapping uses the fuzzy path.
//   - LLMService: Generative consolidation. Without it, consolidation falls through
//     to the heuristic tier.
//   - EmbeddingCache: Persistent embedding cache. Without it, every text is encoded.
//   - ResponseCache: Persistent generative response cache.
//   - RunStore: Analysis run history. Without it, runs are not persisted.
//   - ReportWriter: Report export formats.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
