// Package file provides file-backed stores under the topictrend home
// directory (~/.topictrend by default).
//
// Adapters:
//   - ConfigStore: TOML settings with flattened dot keys
//   - PromptStore: editable prompt templates, seeded on first use
//   - RuleStore: the YAML heuristic rule table, seeded on first use
package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// homeDirName is the directory under the user's home holding all state.
const homeDirName = ".topictrend"

// DefaultDir returns ~/.topictrend, or the named subdirectory of it.
func DefaultDir(sub ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(append([]string{home, homeDirName}, sub...)...), nil
}
