package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"local is valid", AIProviderLocal, true},
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"empty is invalid", AIProvider(""), false},
		{"unknown is invalid", AIProvider("cohere"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderLocal.RequiresAPIKey())

	assert.True(t, AIProviderLocal.IsLocal())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())

	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderLocal}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "k"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{Provider: AIProviderLocal}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
}

func TestDefaultAnalysisSettings(t *testing.T) {
	s := DefaultAnalysisSettings()

	assert.Equal(t, StrategyEmbeddingClustering, s.Strategy)
	assert.True(t, s.EnableEmbeddingClustering)
	assert.InDelta(t, 0.70, s.SimilarityThreshold, 1e-12)
	assert.InDelta(t, 0.85, s.DuplicateThreshold, 1e-12)
	assert.Equal(t, 3, s.MinClusterSize)
	assert.Equal(t, 128, s.EmbeddingBatchSize)
	assert.Equal(t, 200, s.RepresentativeLimit)
	require.NoError(t, s.Validate())
}

func TestAnalysisSettings_EffectiveStrategy(t *testing.T) {
	s := DefaultAnalysisSettings()
	assert.Equal(t, StrategyEmbeddingClustering, s.EffectiveStrategy())

	s.EnableEmbeddingClustering = false
	assert.Equal(t, StrategyGenerative, s.EffectiveStrategy())

	s.Strategy = StrategyHeuristic
	assert.Equal(t, StrategyHeuristic, s.EffectiveStrategy())

	s.Strategy = ""
	s.EnableEmbeddingClustering = true
	assert.Equal(t, StrategyEmbeddingClustering, s.EffectiveStrategy())
}

func TestAnalysisSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*AnalysisSettings)
	}{
		{"unknown strategy", func(s *AnalysisSettings) { s.Strategy = "kmeans" }},
		{"threshold above one", func(s *AnalysisSettings) { s.SimilarityThreshold = 1.5 }},
		{"negative duplicate threshold", func(s *AnalysisSettings) { s.DuplicateThreshold = -0.1 }},
		{"cluster size one", func(s *AnalysisSettings) { s.MinClusterSize = 1 }},
		{"zero batch", func(s *AnalysisSettings) { s.EmbeddingBatchSize = 0 }},
		{"zero representatives", func(s *AnalysisSettings) { s.RepresentativeLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAnalysisSettings()
			tt.modify(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderLocal, s.Embedding.Provider)
	assert.Equal(t, "hashing-384", s.Embedding.Model)
	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, 384, EmbeddingDimensions()[s.Embedding.Model])
}

func TestDefaultHeuristicRules_Order(t *testing.T) {
	rules := DefaultHeuristicRules()

	require.Len(t, rules, 12)
	assert.Equal(t, "Positive feedback", rules[0].Canonical)
	assert.Equal(t, "Payment issues", rules[len(rules)-1].Canonical)
	for _, r := range rules {
		assert.NotEmpty(t, r.Keywords, r.Canonical)
	}
}
