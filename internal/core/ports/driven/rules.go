package driven

import "github.com/custodia-labs/topictrend/internal/core/domain"

// RuleStore provides the ordered heuristic consolidation table.
type RuleStore interface {
	// Load returns the rule table in evaluation order.
	Load() ([]domain.HeuristicRule, error)

	// Path returns where the rules are stored.
	Path() string
}
