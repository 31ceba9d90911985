package domain

// HeuristicRule maps a canonical topic to the keywords that select it.
// Rules are evaluated in table order and the first match wins.
type HeuristicRule struct {
	Canonical string   `json:"canonical" yaml:"canonical"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
}

// DefaultHeuristicRules returns the built-in keyword consolidation table.
// The order is significant: keywords shared by two rules ("slow") resolve to the earlier one.
func DefaultHeuristicRules() []HeuristicRule {
	return []HeuristicRule{
		{Canonical: "Positive feedback", Keywords: []string{
			"positive", "good", "great", "excellent", "amazing", "awesome", "love",
			"best", "helpful", "friendly", "fast", "quick", "perfect", "satisfied",
		}},
		{Canonical: "Delivery partner unprofessional", Keywords: []string{
			"rude", "impolite", "unprofessional", "disrespectful", "behavior", "attitude",
		}},
		{Canonical: "Delivery delay", Keywords: []string{
			"late", "delay", "slow", "hour", "wait", "time", "delayed",
		}},
		{Canonical: "Food temperature issues", Keywords: []string{
			"cold", "hot", "warm", "temperature", "lukewarm",
		}},
		{Canonical: "Food freshness issues", Keywords: []string{
			"stale", "spoiled", "rotten", "old", "fresh", "bad quality",
		}},
		{Canonical: "App crashes/freezes", Keywords: []string{
			"crash", "freeze", "stuck", "not working", "not responding", "hang",
		}},
		{Canonical: "App performance issues", Keywords: []string{
			"slow", "lag", "bug", "glitch", "issue", "problem", "error",
		}},
		{Canonical: "10 minute delivery removed", Keywords: []string{
			"10 minute", "bolt", "express", "fast delivery",
		}},
		{Canonical: "24/7 service request", Keywords: []string{
			"24/7", "24 hour", "all night", "late night", "instamart",
		}},
		{Canonical: "Missing items", Keywords: []string{
			"missing", "forgot", "didn't receive", "not delivered",
		}},
		{Canonical: "Wrong order", Keywords: []string{
			"wrong", "incorrect", "mistake", "different",
		}},
		{Canonical: "Payment issues", Keywords: []string{
			"payment", "charge", "refund", "money", "price", "cost",
		}},
	}
}
