package services

import (
	"sort"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

// Diagnose cross-checks mapping counts against the declared canonical set.
// It reads counts and unmapped only; the result is advisory.
func Diagnose(mapping domain.CanonicalMapping, counts domain.CanonicalCounts, unmapped domain.UnmappedTopics) domain.Diagnostics {
	totals := counts.Totals()
	diag := domain.Diagnostics{
		DeclaredUnused: []string{},
		UndeclaredUsed: []string{},
		Singletons:     []domain.SingletonTopic{},
	}

	for _, name := range mapping.Names() {
		if totals[name] == 0 {
			diag.DeclaredUnused = append(diag.DeclaredUnused, name)
		}
	}

	topics := make([]string, 0, len(totals))
	for topic := range totals {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var idx *fuzzyIndex
	for _, topic := range topics {
		_, declared := mapping[topic]
		if !declared && totals[topic] > 0 {
			diag.UndeclaredUsed = append(diag.UndeclaredUsed, topic)
		}
		if totals[topic] != 1 {
			continue
		}

		singleton := domain.SingletonTopic{Topic: topic}
		switch {
		case unmapped[topic] != "":
			singleton.Suggestion = unmapped[topic]
		case !declared && len(mapping) > 0:
			if idx == nil {
				idx = newFuzzyIndex(mapping)
			}
			if guess := idx.lookup(topic); guess != topic {
				singleton.Suggestion = guess
			}
		}
		diag.Singletons = append(diag.Singletons, singleton)
	}
	return diag
}
