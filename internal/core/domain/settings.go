package domain

import "fmt"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in feature-hashing embedder. Embeddings only.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local (built-in hashing embedder)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AnalysisSettings holds the consolidation and mapping knobs.
type AnalysisSettings struct {
	// Strategy is the first consolidation tier to try.
	Strategy ConsolidationStrategy

	// EnableEmbeddingClustering selects the clusterer over the generative tier.
	// When false, a Strategy of StrategyEmbeddingClustering starts at StrategyGenerative.
	EnableEmbeddingClustering bool

	// SimilarityThreshold is the mapper's inclusive acceptance threshold (0-1).
	SimilarityThreshold float64

	// DuplicateThreshold is the duplicate detector's similarity threshold (0-1).
	DuplicateThreshold float64

	// MinClusterSize is the smallest dense group the clusterer reports.
	MinClusterSize int

	// EmbeddingBatchSize is the number of texts sent to the backend per request.
	EmbeddingBatchSize int

	// RepresentativeLimit caps the topic list sent to the generative backend.
	RepresentativeLimit int
}

// EffectiveStrategy resolves Strategy against EnableEmbeddingClustering.
func (a AnalysisSettings) EffectiveStrategy() ConsolidationStrategy {
	strategy := a.Strategy
	if !strategy.IsValid() {
		strategy = StrategyEmbeddingClustering
	}
	if strategy == StrategyEmbeddingClustering && !a.EnableEmbeddingClustering {
		return StrategyGenerative
	}
	return strategy
}

// Validate checks that thresholds and sizes are in range.
func (a AnalysisSettings) Validate() error {
	if a.Strategy != "" && !a.Strategy.IsValid() {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, a.Strategy)
	}
	if a.SimilarityThreshold < 0 || a.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold must be between 0 and 1", ErrInvalidInput)
	}
	if a.DuplicateThreshold < 0 || a.DuplicateThreshold > 1 {
		return fmt.Errorf("%w: duplicate threshold must be between 0 and 1", ErrInvalidInput)
	}
	if a.MinClusterSize < 2 {
		return fmt.Errorf("%w: minimum cluster size must be at least 2", ErrInvalidInput)
	}
	if a.EmbeddingBatchSize < 1 {
		return fmt.Errorf("%w: embedding batch size must be positive", ErrInvalidInput)
	}
	if a.RepresentativeLimit < 1 {
		return fmt.Errorf("%w: representative limit must be positive", ErrInvalidInput)
	}
	return nil
}

// DefaultAnalysisSettings returns the documented defaults.
func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		Strategy:                  StrategyEmbeddingClustering,
		EnableEmbeddingClustering: true,
		SimilarityThreshold:       0.70,
		DuplicateThreshold:        0.85,
		MinClusterSize:            3,
		EmbeddingBatchSize:        128,
		RepresentativeLimit:       200,
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Analysis holds consolidation and mapping settings.
	Analysis AnalysisSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The local embedder works without setup; the LLM is left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderLocal,
			Model:    DefaultEmbeddingModels()[AIProviderLocal],
		},
		LLM:      LLMSettings{},
		Analysis: DefaultAnalysisSettings(),
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hashing-384",
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Local models
		"hashing-384": 384,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
