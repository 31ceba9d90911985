package domain

import (
	"sort"
	"strings"
)

// CanonicalMapping maps a canonical topic name to the raw topic strings it subsumes.
// Every variation list is non-empty.
type CanonicalMapping map[string][]string

// Names returns the canonical names in sorted order.
func (m CanonicalMapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variations returns the union of all variation lists in canonical-name order.
func (m CanonicalMapping) Variations() []string {
	var all []string
	for _, name := range m.Names() {
		all = append(all, m[name]...)
	}
	return all
}

// Add appends variations under a canonical name, skipping ones already present.
func (m CanonicalMapping) Add(canonical string, variations ...string) {
	existing := make(map[string]struct{}, len(m[canonical]))
	for _, v := range m[canonical] {
		existing[v] = struct{}{}
	}
	for _, v := range variations {
		if _, ok := existing[v]; ok {
			continue
		}
		existing[v] = struct{}{}
		m[canonical] = append(m[canonical], v)
	}
}

// ReverseIndex maps each lowercased variation to its canonical name.
// When a variation is declared under several canonicals the one sorting first wins.
func (m CanonicalMapping) ReverseIndex() map[string]string {
	index := make(map[string]string)
	for _, name := range m.Names() {
		for _, v := range m[name] {
			key := strings.ToLower(v)
			if _, ok := index[key]; !ok {
				index[key] = name
			}
		}
	}
	return index
}

// TopicsByDate maps an ISO date (YYYY-MM-DD) to the raw topics extracted that day.
// Topics may repeat; order within a date is kept for diagnostics only.
type TopicsByDate map[string][]string

// Dates returns the dates in ascending order.
func (t TopicsByDate) Dates() []string {
	dates := make([]string, 0, len(t))
	for d := range t {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Flatten returns every topic across all dates in date order.
func (t TopicsByDate) Flatten() []string {
	var all []string
	for _, d := range t.Dates() {
		all = append(all, t[d]...)
	}
	return all
}

// CanonicalCounts maps a date to canonical topic mention counts.
type CanonicalCounts map[string]map[string]int

// Increment adds one mention of canonical on date.
func (c CanonicalCounts) Increment(date, canonical string) {
	day, ok := c[date]
	if !ok {
		day = make(map[string]int)
		c[date] = day
	}
	day[canonical]++
}

// Totals returns each canonical topic's count summed across all dates.
func (c CanonicalCounts) Totals() map[string]int {
	totals := make(map[string]int)
	for _, day := range c {
		for topic, n := range day {
			totals[topic] += n
		}
	}
	return totals
}

// UnmappedTopics maps a raw topic that could not be confidently assigned
// to the best available canonical suggestion.
type UnmappedTopics map[string]string

// MappingStrategy identifies how the mapper assigned topics.
type MappingStrategy string

// Available mapping strategies.
const (
	// MappingEmbedding uses cosine similarity against canonical name embeddings.
	MappingEmbedding MappingStrategy = "embedding"

	// MappingFuzzy uses exact, substring and word-overlap matching on declared variations.
	MappingFuzzy MappingStrategy = "fuzzy"
)

// String returns the string representation.
func (s MappingStrategy) String() string {
	return string(s)
}

// MappingResult is the output of re-mapping every date's topics onto a canonical set.
type MappingResult struct {
	// Counts holds per-date canonical counts.
	Counts CanonicalCounts `json:"counts"`

	// Unmapped holds low-confidence topics and their suggestions.
	Unmapped UnmappedTopics `json:"unmapped"`

	// Strategy is the mapping path that produced the counts.
	Strategy MappingStrategy `json:"strategy"`
}

// DuplicateResult is the output of duplicate detection over an ordered list of texts.
type DuplicateResult struct {
	// Unique holds the indices of texts kept as originals, in input order.
	Unique []int `json:"unique"`

	// Duplicates maps a duplicate's index to the index of the original it repeats.
	Duplicates map[int]int `json:"duplicates"`
}
