package domain

// SingletonTopic is a topic mentioned exactly once across the whole date range.
type SingletonTopic struct {
	Topic      string `json:"topic"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Diagnostics annotates a mapping run. It is advisory and never alters counts.
type Diagnostics struct {
	// DeclaredUnused lists canonical topics with zero mentions on every date.
	DeclaredUnused []string `json:"declared_unused"`

	// UndeclaredUsed lists topics present in counts but absent from the canonical set.
	UndeclaredUsed []string `json:"undeclared_used"`

	// Singletons lists topics whose total count is exactly one.
	Singletons []SingletonTopic `json:"singletons"`
}

// IsClean returns true if no discrepancy was found.
func (d Diagnostics) IsClean() bool {
	return len(d.DeclaredUnused) == 0 && len(d.UndeclaredUsed) == 0 && len(d.Singletons) == 0
}
