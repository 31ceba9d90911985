package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func foodVectors() map[string][]float32 {
	return map[string][]float32{
		"food cold":     unitVec(8, 0, 0.02),
		"cold food":     unitVec(8, 0, 0.04),
		"food not hot":  unitVec(8, 0, 0.08),
		"lukewarm food": unitVec(8, 0, 0.10),
		"app crash":     unitVec(8, 3, 0.01),
		"great service": unitVec(8, 6, 0.01),
	}
}

func newTestClusterer(vectors map[string][]float32) *EmbeddingClusterer {
	enc := NewTopicEncoder(newMockEmbedding(vectors), nil, EncoderConfig{})
	return NewEmbeddingClusterer(enc, ClusterConfig{})
}

func TestEmbeddingClusterer_GroupsKnownSynonyms(t *testing.T) {
	c := newTestClusterer(foodVectors())
	topics := []string{"food cold", "cold food", "food not hot", "lukewarm food"}

	mapping, err := c.Cluster(context.Background(), topics, "")
	require.NoError(t, err)

	require.Len(t, mapping, 1)
	for _, variations := range mapping {
		assert.ElementsMatch(t, topics, variations)
	}
}

func TestEmbeddingClusterer_NoiseIsSelfCanonical(t *testing.T) {
	c := newTestClusterer(foodVectors())
	topics := []string{"food cold", "app crash", "cold food", "food not hot", "lukewarm food", "great service"}

	mapping, err := c.Cluster(context.Background(), topics, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"app crash"}, mapping["app crash"])
	assert.Equal(t, []string{"great service"}, mapping["great service"])
	assert.Len(t, mapping, 3)

	var foodCanonical string
	for name, variations := range mapping {
		if len(variations) == 4 {
			foodCanonical = name
		}
	}
	assert.Contains(t, []string{"food cold", "cold food", "food not hot", "lukewarm food"}, foodCanonical)
}

func TestEmbeddingClusterer_NeverDropsTopics(t *testing.T) {
	c := newTestClusterer(foodVectors())
	topics := []string{"Food Cold", "food cold", "cold food", "app crash", "", "great service", "lukewarm food"}

	mapping, err := c.Cluster(context.Background(), topics, "")
	require.NoError(t, err)

	got := mapping.Variations()
	sort.Strings(got)
	want := []string{"Food Cold", "app crash", "cold food", "great service", "lukewarm food"}
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestEmbeddingClusterer_MedoidIsMostCentral(t *testing.T) {
	vectors := map[string][]float32{
		"a": {1, 0.00, 0},
		"b": {1, 0.05, 0},
		"c": {1, 0.10, 0},
	}
	c := newTestClusterer(vectors)

	mapping, err := c.Cluster(context.Background(), []string{"a", "b", "c"}, "")
	require.NoError(t, err)

	assert.Equal(t, domain.CanonicalMapping{"b": {"a", "b", "c"}}, mapping)
}

func TestEmbeddingClusterer_MedoidTieTakesEarliest(t *testing.T) {
	vectors := map[string][]float32{
		"x": {1, 0, 0},
		"y": {1, 0, 0},
		"z": {1, 0, 0},
	}
	c := newTestClusterer(vectors)

	mapping, err := c.Cluster(context.Background(), []string{"y", "x", "z"}, "")
	require.NoError(t, err)

	assert.Equal(t, domain.CanonicalMapping{"y": {"y", "x", "z"}}, mapping)
}

func TestEmbeddingClusterer_EmptyAndSingle(t *testing.T) {
	c := newTestClusterer(nil)

	mapping, err := c.Cluster(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, mapping)

	mapping, err = c.Cluster(context.Background(), []string{"only topic"}, "")
	require.NoError(t, err)
	assert.Equal(t, domain.CanonicalMapping{"only topic": {"only topic"}}, mapping)
}

func TestEmbeddingClusterer_EncoderUnavailable(t *testing.T) {
	c := NewEmbeddingClusterer(nil, ClusterConfig{})
	_, err := c.Cluster(context.Background(), []string{"a"}, "")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	backend := newMockEmbedding(nil)
	backend.err = errors.New("timeout")
	c = NewEmbeddingClusterer(NewTopicEncoder(backend, nil, EncoderConfig{}), ClusterConfig{})
	_, err = c.Cluster(context.Background(), []string{"a"}, "")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEpsilonForSimilarity(t *testing.T) {
	assert.InDelta(t, 0.7746, EpsilonForSimilarity(0.70), 1e-4)
	assert.InDelta(t, 0.0, EpsilonForSimilarity(1), 1e-12)
	assert.InDelta(t, 2.0, EpsilonForSimilarity(-1), 1e-12)
}
