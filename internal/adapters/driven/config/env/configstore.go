// Package env overlays environment variables, optionally loaded from a
// .env file, on top of a persistent ConfigStore.
package env

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Kind is how an environment value is parsed.
type Kind int

// Supported value kinds.
const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

// Binding maps an environment variable onto a config key.
type Binding struct {
	Env  string
	Key  string
	Kind Kind

	// Provider, when set, limits the binding to sections whose provider
	// key ("<section>.provider") resolves to this value.
	Provider string
}

// DefaultBindings are the recognised environment knobs.
func DefaultBindings() []Binding {
	return []Binding{
		{Env: "ENABLE_EMBEDDING_CLUSTERING", Key: "analysis.enable_embedding_clustering", Kind: KindBool},
		{Env: "TOPIC_SIMILARITY_THRESHOLD", Key: "analysis.similarity_threshold", Kind: KindFloat},
		{Env: "DUPLICATE_THRESHOLD", Key: "analysis.duplicate_threshold", Kind: KindFloat},
		{Env: "MIN_CLUSTER_SIZE", Key: "analysis.min_cluster_size", Kind: KindInt},
		{Env: "EMBEDDING_BATCH_SIZE", Key: "analysis.embedding_batch_size", Kind: KindInt},
		{Env: "CONSOLIDATION_STRATEGY", Key: "analysis.strategy"},
		{Env: "EMBEDDING_PROVIDER", Key: "embedding.provider"},
		{Env: "EMBEDDING_MODEL", Key: "embedding.model"},
		{Env: "EMBEDDING_BASE_URL", Key: "embedding.base_url"},
		{Env: "OPENAI_API_KEY", Key: "embedding.api_key", Provider: "openai"},
		{Env: "LLM_PROVIDER", Key: "llm.provider"},
		{Env: "LLM_MODEL", Key: "llm.model"},
		{Env: "LLM_BASE_URL", Key: "llm.base_url"},
		{Env: "OPENAI_API_KEY", Key: "llm.api_key", Provider: "openai"},
		{Env: "ANTHROPIC_API_KEY", Key: "llm.api_key", Provider: "anthropic"},
	}
}

// LoadDotEnv loads the given .env files into the process environment.
// Variables already set win, and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		logger.Debug("loaded environment from %s", p)
	}
	return nil
}

// ConfigStore reads bound keys from the environment first and everything
// else from the base store. Writes always go to the base store.
type ConfigStore struct {
	base     driven.ConfigStore
	lookup   func(string) (string, bool)
	bindings map[string][]Binding
}

// Option configures a ConfigStore.
type Option func(*ConfigStore)

// WithLookup replaces os.LookupEnv, mainly for tests.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(s *ConfigStore) { s.lookup = fn }
}

// WithBindings replaces DefaultBindings.
func WithBindings(bindings []Binding) Option {
	return func(s *ConfigStore) { s.bindings = indexBindings(bindings) }
}

// NewConfigStore wraps base with the environment overlay.
func NewConfigStore(base driven.ConfigStore, opts ...Option) *ConfigStore {
	s := &ConfigStore{
		base:     base,
		lookup:   os.LookupEnv,
		bindings: indexBindings(DefaultBindings()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func indexBindings(bindings []Binding) map[string][]Binding {
	idx := make(map[string][]Binding, len(bindings))
	for _, b := range bindings {
		idx[b.Key] = append(idx[b.Key], b)
	}
	return idx
}

// Get returns the environment value for a bound key, parsed to its kind,
// or the base store's value. Unparseable values are ignored with a warning.
func (s *ConfigStore) Get(key string) (any, bool) {
	if val, ok := s.fromEnv(key); ok {
		return val, true
	}
	return s.base.Get(key)
}

func (s *ConfigStore) fromEnv(key string) (any, bool) {
	for _, b := range s.bindings[key] {
		raw, ok := s.lookup(b.Env)
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			continue
		}
		if b.Provider != "" && s.GetString(section(key)+".provider") != b.Provider {
			continue
		}

		val, err := parse(raw, b.Kind)
		if err != nil {
			logger.Warn("ignoring %s=%q: %v", b.Env, raw, err)
			continue
		}
		return val, true
	}
	return nil, false
}

func section(key string) string {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return key[:i]
	}
	return key
}

func parse(raw string, kind Kind) (any, error) {
	switch kind {
	case KindBool:
		return strconv.ParseBool(raw)
	case KindInt:
		return strconv.Atoi(raw)
	case KindFloat:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	if val, ok := s.fromEnv(key); ok {
		if i, ok := val.(int); ok {
			return i
		}
		return 0
	}
	return s.base.GetInt(key)
}

// GetFloat64 retrieves a float configuration value, widening integers.
func (s *ConfigStore) GetFloat64(key string) float64 {
	if val, ok := s.fromEnv(key); ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
		return 0
	}
	return s.base.GetFloat64(key)
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	if val, ok := s.fromEnv(key); ok {
		b, _ := val.(bool)
		return b
	}
	return s.base.GetBool(key)
}

// GetStringSlice reads from the base store; no slice keys are bound.
func (s *ConfigStore) GetStringSlice(key string) []string {
	return s.base.GetStringSlice(key)
}

// Set writes to the base store. A bound environment variable still wins on read.
func (s *ConfigStore) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Save persists the base store.
func (s *ConfigStore) Save() error { return s.base.Save() }

// Load reloads the base store.
func (s *ConfigStore) Load() error { return s.base.Load() }

// Path returns the base store's path.
func (s *ConfigStore) Path() string { return s.base.Path() }

// Overrides lists the bound environment variables that are currently set,
// for display in the settings command.
func (s *ConfigStore) Overrides() []string {
	seen := make(map[string]bool)
	var out []string
	for _, bs := range s.bindings {
		for _, b := range bs {
			if v, ok := s.lookup(b.Env); ok && strings.TrimSpace(v) != "" && !seen[b.Env] {
				seen[b.Env] = true
				out = append(out, b.Env)
			}
		}
	}
	slices.Sort(out)
	return out
}
