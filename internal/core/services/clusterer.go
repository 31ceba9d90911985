package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// Clustering defaults.
const (
	DefaultMinClusterSize = 3
	DefaultMinSamples     = 2

	// DefaultClusterSimilarity is the cosine similarity from which the
	// single-cluster selection radius is derived.
	DefaultClusterSimilarity = 0.70
)

// ClusterConfig configures an EmbeddingClusterer.
type ClusterConfig struct {
	// MinClusterSize is the smallest dense group reported as a cluster.
	MinClusterSize int

	// MinSamples sets the density estimate (core distance neighbour count, self included).
	MinSamples int

	// SelectionEpsilon is the Euclidean radius on unit vectors used when the
	// topics form one dense group and nothing else. Zero uses the radius for
	// DefaultClusterSimilarity; a negative value disables the single-group case.
	SelectionEpsilon float64

	// BatchSize is forwarded to the encoder.
	BatchSize int
}

// EpsilonForSimilarity converts a cosine similarity into the equivalent
// Euclidean distance between unit vectors.
func EpsilonForSimilarity(similarity float64) float64 {
	return math.Sqrt(math.Max(0, 2*(1-similarity)))
}

// EmbeddingClusterer groups topics by embedding density and names each group
// after its most central member.
type EmbeddingClusterer struct {
	encoder Encoder
	cfg     ClusterConfig
}

// NewEmbeddingClusterer creates a clusterer. A nil encoder makes every
// non-empty Cluster call fail with domain.ErrEmbeddingUnavailable.
func NewEmbeddingClusterer(encoder Encoder, cfg ClusterConfig) *EmbeddingClusterer {
	if cfg.MinClusterSize < 2 {
		cfg.MinClusterSize = DefaultMinClusterSize
	}
	if cfg.MinSamples < 1 {
		cfg.MinSamples = DefaultMinSamples
	}
	if cfg.SelectionEpsilon == 0 {
		cfg.SelectionEpsilon = EpsilonForSimilarity(DefaultClusterSimilarity)
	}
	return &EmbeddingClusterer{encoder: encoder, cfg: cfg}
}

// Cluster builds a canonical mapping from topics. Topics are deduplicated
// case-insensitively, keeping the first casing, and blank topics are ignored.
// Every remaining topic appears in exactly one variation list.
func (c *EmbeddingClusterer) Cluster(ctx context.Context, topics []string, scope string) (domain.CanonicalMapping, error) {
	logger.Section("Embedding Clustering")

	unique := dedupeFold(topics)
	mapping := make(domain.CanonicalMapping)
	if len(unique) == 0 {
		return mapping, nil
	}
	if c.encoder == nil {
		return nil, fmt.Errorf("%w: no encoder configured", domain.ErrEmbeddingUnavailable)
	}
	logger.Debug("Clustering %d unique topics (from %d total)", len(unique), len(topics))

	vectors, err := c.encoder.Encode(ctx, unique, EncodeOptions{BatchSize: c.cfg.BatchSize, Scope: scope})
	if err != nil {
		return nil, err
	}

	m := normalizedRows(vectors, maxDim(vectors))
	if m == nil {
		return nil, fmt.Errorf("%w: backend returned empty vectors", domain.ErrEmbeddingUnavailable)
	}
	points := make([][]float64, len(unique))
	for i := range points {
		points[i] = m.RawRowView(i)
	}

	done := logger.Timer("hdbscan")
	labels := hdbscanLabels(points, hdbscanParams{
		minClusterSize:   c.cfg.MinClusterSize,
		minSamples:       c.cfg.MinSamples,
		selectionEpsilon: math.Max(0, c.cfg.SelectionEpsilon),
	})
	done()

	var order []int
	members := make(map[int][]int)
	noise := 0
	for i, label := range labels {
		if label == noiseLabel {
			mapping[unique[i]] = []string{unique[i]}
			noise++
			continue
		}
		if _, ok := members[label]; !ok {
			order = append(order, label)
		}
		members[label] = append(members[label], i)
	}

	for _, label := range order {
		rows := members[label]
		center := centroid(m, rows)
		best, bestSim := rows[0], math.Inf(-1)
		for _, i := range rows {
			if sim := cosine(m.RawRowView(i), center); sim > bestSim {
				best, bestSim = i, sim
			}
		}
		variations := make([]string, len(rows))
		for j, i := range rows {
			variations[j] = unique[i]
		}
		mapping[unique[best]] = variations
	}

	logger.Info("Clustered into %d canonical topics (%d clusters, %d singletons)",
		len(mapping), len(order), noise)
	return mapping, nil
}

// dedupeFold removes blank topics and case-insensitive repeats, keeping the
// first spelling seen.
func dedupeFold(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	var out []string
	for _, t := range topics {
		if strings.TrimSpace(t) == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
