package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Words carrying no topic meaning: copulas, articles, intensifiers, "has", "contains".
	fillerPattern = regexp.MustCompile(
		`\b(is|are|was|were|be|being|been|a|an|the|very|extremely|really|so|too|has|contains)\b`)

	deliveryPartnerPattern = regexp.MustCompile(`\b(delivery guy|delivery person|rider)\b`)
	hourPattern            = regexp.MustCompile(`\b(\d+)\s*hours?\b`)
	minutePattern          = regexp.MustCompile(`\b(\d+)\s*min(?:ute)?s?\b`)
)

// Normalize canonicalises a topic string for exact-match grouping.
// It is pure and idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(topic string) string {
	s := norm.NFKC.String(topic)
	s = collapseWhitespace(strings.ToLower(s))

	s = fillerPattern.ReplaceAllString(s, "")
	s = collapseWhitespace(s)

	s = deliveryPartnerPattern.ReplaceAllString(s, "delivery partner")
	s = hourPattern.ReplaceAllString(s, "$1 hour")
	s = minutePattern.ReplaceAllString(s, "$1 minute")

	return collapseWhitespace(s)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// NormalizationGroups partitions topics by their normalized form.
// Keys and members keep first-seen order.
type NormalizationGroups struct {
	keys    []string
	members map[string][]string
}

// GroupByNormalized groups topics whose normalized forms are equal.
// Exact repeats of a topic are kept once. Topics that normalize to the
// empty string are skipped.
func GroupByNormalized(topics []string) *NormalizationGroups {
	g := &NormalizationGroups{members: make(map[string][]string)}
	seen := make(map[string]struct{}, len(topics))

	for _, topic := range topics {
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}

		key := Normalize(topic)
		if key == "" {
			continue
		}
		if _, ok := g.members[key]; !ok {
			g.keys = append(g.keys, key)
		}
		g.members[key] = append(g.members[key], topic)
	}
	return g
}

// Len returns the number of groups.
func (g *NormalizationGroups) Len() int {
	return len(g.keys)
}

// Keys returns the normalized keys in first-seen order.
func (g *NormalizationGroups) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Members returns the raw topics sharing a normalized key.
func (g *NormalizationGroups) Members(key string) []string {
	return g.members[key]
}

// Representatives returns the first member of each group, in group order.
func (g *NormalizationGroups) Representatives() []string {
	reps := make([]string, len(g.keys))
	for i, key := range g.keys {
		reps[i] = g.members[key][0]
	}
	return reps
}

// Expand returns every raw topic whose normalized form equals that of variation.
// It returns nil when variation matches no group.
func (g *NormalizationGroups) Expand(variation string) []string {
	return g.members[Normalize(variation)]
}
