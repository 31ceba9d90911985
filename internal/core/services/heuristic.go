package services

import (
	"strings"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// HeuristicConsolidator assigns topics to canonicals by keyword substring match.
// It does no I/O and cannot fail.
type HeuristicConsolidator struct {
	rules []domain.HeuristicRule
}

// NewHeuristicConsolidator creates a consolidator over an ordered rule table.
// An empty table uses domain.DefaultHeuristicRules.
func NewHeuristicConsolidator(rules []domain.HeuristicRule) *HeuristicConsolidator {
	if len(rules) == 0 {
		rules = domain.DefaultHeuristicRules()
	}
	lowered := make([]domain.HeuristicRule, len(rules))
	for i, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		lowered[i] = domain.HeuristicRule{Canonical: r.Canonical, Keywords: keywords}
	}
	return &HeuristicConsolidator{rules: lowered}
}

// Consolidate puts every distinct non-blank topic in exactly one bucket: the
// first rule with a keyword contained in the topic (case-insensitive), or a
// bucket named after the topic itself.
func (h *HeuristicConsolidator) Consolidate(topics []string) domain.CanonicalMapping {
	logger.Section("Heuristic Consolidation")

	mapping := make(domain.CanonicalMapping)
	seen := make(map[string]struct{}, len(topics))
	matched := 0

	for _, topic := range topics {
		if strings.TrimSpace(topic) == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}

		if canonical, ok := h.match(topic); ok {
			mapping.Add(canonical, topic)
			matched++
			continue
		}
		mapping.Add(topic, topic)
	}

	logger.Info("Heuristic rules matched %d of %d topics into %d buckets", matched, len(seen), len(mapping))
	return mapping
}

// match returns the canonical of the first rule matching topic.
func (h *HeuristicConsolidator) match(topic string) (string, bool) {
	lower := strings.ToLower(topic)
	for _, r := range h.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, k) {
				return r.Canonical, true
			}
		}
	}
	return "", false
}
