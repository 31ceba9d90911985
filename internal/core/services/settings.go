package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider       = "embedding.provider"
	KeyEmbedModel          = "embedding.model"
	KeyEmbedBaseURL        = "embedding.base_url"
	KeyEmbedAPIKey         = "embedding.api_key"
	KeyLLMProvider         = "llm.provider"
	KeyLLMModel            = "llm.model"
	KeyLLMBaseURL          = "llm.base_url"
	KeyLLMAPIKey           = "llm.api_key"
	KeyStrategy            = "analysis.strategy"
	KeyEnableClustering    = "analysis.enable_embedding_clustering"
	KeySimilarityThreshold = "analysis.similarity_threshold"
	KeyDuplicateThreshold  = "analysis.duplicate_threshold"
	KeyMinClusterSize      = "analysis.min_cluster_size"
	KeyEmbeddingBatchSize  = "analysis.embedding_batch_size"
	KeyRepresentativeLimit = "analysis.representative_limit"
)

// defaultOllamaURL is used when a local provider has no base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	analysis := defaults.Analysis

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(KeyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(KeyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(KeyLLMBaseURL),
			APIKey:   s.configStore.GetString(KeyLLMAPIKey),
		},
		Analysis: domain.AnalysisSettings{
			Strategy:                  s.getStrategy(analysis.Strategy),
			EnableEmbeddingClustering: s.getBool(KeyEnableClustering, analysis.EnableEmbeddingClustering),
			SimilarityThreshold:       s.getFloat(KeySimilarityThreshold, analysis.SimilarityThreshold),
			DuplicateThreshold:        s.getFloat(KeyDuplicateThreshold, analysis.DuplicateThreshold),
			MinClusterSize:            s.getInt(KeyMinClusterSize, analysis.MinClusterSize),
			EmbeddingBatchSize:        s.getInt(KeyEmbeddingBatchSize, analysis.EmbeddingBatchSize),
			RepresentativeLimit:       s.getInt(KeyRepresentativeLimit, analysis.RepresentativeLimit),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyStrategy, settings.Analysis.Strategy.String()},
		{KeyEnableClustering, settings.Analysis.EnableEmbeddingClustering},
		{KeySimilarityThreshold, settings.Analysis.SimilarityThreshold},
		{KeyDuplicateThreshold, settings.Analysis.DuplicateThreshold},
		{KeyMinClusterSize, settings.Analysis.MinClusterSize},
		{KeyEmbeddingBatchSize, settings.Analysis.EmbeddingBatchSize},
		{KeyRepresentativeLimit, settings.Analysis.RepresentativeLimit},
	}
	// Empty API keys are not written so an existing key is kept.
	if settings.Embedding.APIKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{KeyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{KeyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetStrategy updates the first consolidation tier.
func (s *SettingsService) SetStrategy(strategy domain.ConsolidationStrategy) error {
	if !strategy.IsValid() {
		return fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidInput, strategy)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Analysis.Strategy = strategy

	// Choosing clustering explicitly turns it back on.
	if strategy == domain.StrategyEmbeddingClustering {
		settings.Analysis.EnableEmbeddingClustering = true
	}

	return s.Save(settings)
}

// SetAnalysis updates every analysis knob.
func (s *SettingsService) SetAnalysis(analysis domain.AnalysisSettings) error {
	if err := analysis.Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Analysis = analysis

	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("provider %s does not support text generation", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the analysis knobs are in range and that the first
// consolidation tier has the backend it needs.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Analysis.Validate(); err != nil {
		return err
	}

	strategy := settings.Analysis.EffectiveStrategy()
	if strategy.RequiresEmbedding() && !settings.Embedding.IsConfigured() {
		return fmt.Errorf("strategy %q requires an embedding provider to be configured", strategy.Description())
	}
	if strategy.RequiresLLM() && !settings.LLM.IsConfigured() {
		return fmt.Errorf("strategy %q requires an LLM provider to be configured", strategy.Description())
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a configured URL for Ollama and clears it for everything else.
func baseURLFor(provider domain.AIProvider, current string) string {
	if provider != domain.AIProviderOllama {
		return ""
	}
	if current == "" {
		return defaultOllamaURL
	}
	return current
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat64(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStrategy(defaultVal domain.ConsolidationStrategy) domain.ConsolidationStrategy {
	strategy := domain.ConsolidationStrategy(s.configStore.GetString(KeyStrategy))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
