package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// DefaultSimilarityThreshold is the mapper's default acceptance threshold.
const DefaultSimilarityThreshold = 0.70

// thresholdTolerance absorbs float rounding so a similarity equal to the
// threshold is accepted.
const thresholdTolerance = 1e-9

// MapperConfig configures a TopicMapper.
type MapperConfig struct {
	// SimilarityThreshold is the inclusive minimum cosine similarity for an
	// embedding match. Zero uses DefaultSimilarityThreshold.
	SimilarityThreshold float64

	// BatchSize is forwarded to the encoder.
	BatchSize int
}

// TopicMapper counts raw topic occurrences per date under canonical topics.
//
// The mapper does not trust the variation lists of the mapping it is given
// when embeddings are available: it recomputes similarity against canonical
// names, so a declared variation may land elsewhere. Diagnostics rely on
// seeing that divergence.
type TopicMapper struct {
	encoder Encoder
	cfg     MapperConfig
}

// NewTopicMapper creates a mapper. A nil encoder always uses fuzzy matching.
func NewTopicMapper(encoder Encoder, cfg MapperConfig) *TopicMapper {
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return &TopicMapper{encoder: encoder, cfg: cfg}
}

// MapToCanonical assigns every non-blank topic occurrence to one canonical
// bucket. The embedding strategy runs first; any encoding failure switches the
// whole run to fuzzy matching.
func (m *TopicMapper) MapToCanonical(
	ctx context.Context, topicsByDate domain.TopicsByDate, mapping domain.CanonicalMapping, scope string,
) domain.MappingResult {
	logger.Section("Topic Mapping")

	if m.encoder != nil && len(mapping) > 0 {
		result, err := m.mapByEmbedding(ctx, topicsByDate, mapping, scope)
		if err == nil {
			logger.Info("Mapped by embedding similarity: %d unmapped below %.2f",
				len(result.Unmapped), m.cfg.SimilarityThreshold)
			return result
		}
		logger.Warn("Embedding mapping unavailable, using fuzzy matching: %v", err)
	}

	result := mapByFuzzyMatch(topicsByDate, mapping)
	logger.Info("Mapped by fuzzy matching")
	return result
}

func (m *TopicMapper) mapByEmbedding(
	ctx context.Context, topicsByDate domain.TopicsByDate, mapping domain.CanonicalMapping, scope string,
) (domain.MappingResult, error) {
	opts := EncodeOptions{BatchSize: m.cfg.BatchSize, Scope: scope}
	names := mapping.Names()

	canonVecs, err := m.encoder.Encode(ctx, names, opts)
	if err != nil {
		return domain.MappingResult{}, err
	}

	result := domain.MappingResult{
		Counts:   make(domain.CanonicalCounts),
		Unmapped: make(domain.UnmappedTopics),
		Strategy: domain.MappingEmbedding,
	}
	threshold := m.cfg.SimilarityThreshold - thresholdTolerance

	for _, date := range topicsByDate.Dates() {
		topics := nonBlank(topicsByDate[date])
		if len(topics) == 0 {
			continue
		}
		vecs, err := m.encoder.Encode(ctx, topics, opts)
		if err != nil {
			return domain.MappingResult{}, err
		}

		dim := maxDim(canonVecs, vecs)
		if dim == 0 {
			return domain.MappingResult{}, domain.ErrEmbeddingUnavailable
		}
		sims := cosineMatrix(normalizedRows(vecs, dim), normalizedRows(canonVecs, dim))

		for i, topic := range topics {
			best, bestSim := 0, sims.At(i, 0)
			for j := 1; j < len(names); j++ {
				if s := sims.At(i, j); s > bestSim {
					best, bestSim = j, s
				}
			}
			if bestSim >= threshold {
				result.Counts.Increment(date, names[best])
				continue
			}
			result.Counts.Increment(date, topic)
			result.Unmapped[topic] = names[best]
		}
	}
	return result, nil
}

// fuzzyIndex holds the lookup structures of the fuzzy strategy.
type fuzzyIndex struct {
	exact map[string]string
	names []string
	// variations and words are per canonical, in names order.
	variations [][]string
	words      []map[string]struct{}
}

func newFuzzyIndex(mapping domain.CanonicalMapping) *fuzzyIndex {
	idx := &fuzzyIndex{exact: mapping.ReverseIndex(), names: mapping.Names()}
	for _, name := range idx.names {
		var lowered []string
		words := make(map[string]struct{})
		for _, v := range mapping[name] {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			lowered = append(lowered, v)
			for _, w := range strings.Fields(v) {
				words[w] = struct{}{}
			}
		}
		idx.variations = append(idx.variations, lowered)
		idx.words = append(idx.words, words)
	}
	return idx
}

// lookup returns the canonical for topic: exact match, then substring
// containment either way, then best word overlap, else the topic itself.
func (idx *fuzzyIndex) lookup(topic string) string {
	lower := strings.ToLower(strings.TrimSpace(topic))
	if canonical, ok := idx.exact[lower]; ok {
		return canonical
	}

	for i, variations := range idx.variations {
		for _, v := range variations {
			if strings.Contains(lower, v) || strings.Contains(v, lower) {
				return idx.names[i]
			}
		}
	}

	best, bestScore := -1, 0
	topicWords := strings.Fields(lower)
	for i, words := range idx.words {
		score := 0
		for _, w := range topicWords {
			if _, ok := words[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return idx.names[best]
	}
	return topic
}

func mapByFuzzyMatch(topicsByDate domain.TopicsByDate, mapping domain.CanonicalMapping) domain.MappingResult {
	idx := newFuzzyIndex(mapping)
	result := domain.MappingResult{
		Counts:   make(domain.CanonicalCounts),
		Unmapped: make(domain.UnmappedTopics),
		Strategy: domain.MappingFuzzy,
	}
	for _, date := range topicsByDate.Dates() {
		for _, topic := range nonBlank(topicsByDate[date]) {
			result.Counts.Increment(date, idx.lookup(topic))
		}
	}
	return result
}

func nonBlank(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
