package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// Ensure RuleStore implements the interface.
var _ driven.RuleStore = (*RuleStore)(nil)

// rulesFileName is the heuristic table inside the config directory.
const rulesFileName = "rules.yaml"

// rulesFile is the on-disk layout of rules.yaml.
type rulesFile struct {
	Rules []domain.HeuristicRule `yaml:"rules"`
}

// RuleStore reads the ordered heuristic rule table from a YAML file.
// A missing file is seeded with the built-in table on first Load.
type RuleStore struct {
	path string
}

// NewRuleStore creates a rule store for dir/rules.yaml.
// An empty dir means ~/.topictrend.
func NewRuleStore(dir string) (*RuleStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &RuleStore{path: filepath.Join(dir, rulesFileName)}, nil
}

// Load returns the rules in file order. Rules without a canonical name or
// keywords are skipped; keywords are lowercased.
func (s *RuleStore) Load() ([]domain.HeuristicRule, error) {
	if err := s.seed(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, s.path, err)
	}

	rules := make([]domain.HeuristicRule, 0, len(f.Rules))
	for _, r := range f.Rules {
		canonical := strings.TrimSpace(r.Canonical)
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		if canonical == "" || len(keywords) == 0 {
			continue
		}
		rules = append(rules, domain.HeuristicRule{Canonical: canonical, Keywords: keywords})
	}
	return rules, nil
}

// Path returns the rules file path.
func (s *RuleStore) Path() string {
	return s.path
}

func (s *RuleStore) seed() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create rules directory: %w", err)
	}

	data, err := yaml.Marshal(rulesFile{Rules: domain.DefaultHeuristicRules()})
	if err != nil {
		return fmt.Errorf("encode default rules: %w", err)
	}
	header := "# Heuristic consolidation rules. Evaluated top to bottom; the first\n" +
		"# rule with a keyword contained in the topic wins.\n"
	return writeIfMissing(s.path, header+string(data))
}
