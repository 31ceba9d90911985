package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// Generative consolidation defaults.
const (
	DefaultRepresentativeLimit = 200
	DefaultGenerativeMaxTokens = 4000
)

// GenerativeConfig configures a GenerativeConsolidator.
type GenerativeConfig struct {
	// RepresentativeLimit caps how many topics are listed in the prompt.
	RepresentativeLimit int

	// MaxTokens bounds the model response.
	MaxTokens int

	// Temperature is passed to the model.
	Temperature float64
}

// consolidationResponse is the JSON contract the prompt asks for.
type consolidationResponse struct {
	CanonicalTopics []struct {
		CanonicalName string   `json:"canonical_name"`
		Variations    []string `json:"variations"`
	} `json:"canonical_topics"`
}

// GenerativeConsolidator asks a generative model to merge topics into
// canonical groups, then maps the model's variations back onto the raw topics.
type GenerativeConsolidator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	cfg     GenerativeConfig
}

// NewGenerativeConsolidator creates a consolidator. prompts may be nil, in
// which case the built-in prompt is used.
func NewGenerativeConsolidator(llm driven.LLMService, prompts driven.PromptStore, cfg GenerativeConfig) *GenerativeConsolidator {
	if cfg.RepresentativeLimit <= 0 {
		cfg.RepresentativeLimit = DefaultRepresentativeLimit
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultGenerativeMaxTokens
	}
	return &GenerativeConsolidator{llm: llm, prompts: prompts, cfg: cfg}
}

// Consolidate builds a canonical mapping from topics.
// It fails with domain.ErrLLMUnavailable when no model is configured or the
// request fails, and with domain.ErrGenerativeParse when the response does not
// yield any usable canonical topic.
func (g *GenerativeConsolidator) Consolidate(ctx context.Context, topics []string) (domain.CanonicalMapping, error) {
	logger.Section("Generative Consolidation")

	groups := GroupByNormalized(topics)
	if groups.Len() == 0 {
		return make(domain.CanonicalMapping), nil
	}
	if g.llm == nil {
		return nil, fmt.Errorf("%w: no generative backend configured", domain.ErrLLMUnavailable)
	}

	reps := groups.Representatives()
	logger.Debug("%d normalization groups from %d topics", len(reps), len(topics))

	prompt := fmt.Sprintf(g.template(), len(reps), g.topicList(reps))
	response, err := g.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("consolidation request: %w", err)
	}

	var parsed consolidationResponse
	if err := g.llm.ExtractStructured(response, &parsed); err != nil {
		return nil, err
	}

	mapping := expandCanonicals(parsed, groups)
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: no canonical topic matched any input topic: %q",
			domain.ErrGenerativeParse, logger.Preview(response, 200))
	}

	logger.Info("Consolidated to %d canonical topics", len(mapping))
	return mapping, nil
}

func (g *GenerativeConsolidator) template() string {
	if g.prompts == nil {
		return domain.ConsolidationPrompt
	}
	tmpl, err := g.prompts.Load(driven.PromptConsolidation)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		return domain.ConsolidationPrompt
	}
	return tmpl
}

// topicList renders the bulleted representative list, truncated to the limit.
func (g *GenerativeConsolidator) topicList(reps []string) string {
	shown := reps
	if len(shown) > g.cfg.RepresentativeLimit {
		shown = shown[:g.cfg.RepresentativeLimit]
	}

	var b strings.Builder
	for i, t := range shown {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(t)
	}
	if extra := len(reps) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "\n... and %d more topics", extra)
	}
	return b.String()
}

// expandCanonicals turns model output into a mapping over raw topics.
// Each variation is expanded to every raw topic sharing its normalized form.
// Variations matching no raw topic are dropped, a raw topic claimed by two
// canonicals stays with the first, and canonicals left empty are omitted.
func expandCanonicals(parsed consolidationResponse, groups *NormalizationGroups) domain.CanonicalMapping {
	mapping := make(domain.CanonicalMapping)
	claimed := make(map[string]struct{})

	for _, item := range parsed.CanonicalTopics {
		name := strings.TrimSpace(item.CanonicalName)
		if name == "" {
			continue
		}
		var variations []string
		for _, v := range item.Variations {
			for _, raw := range groups.Expand(v) {
				if _, ok := claimed[raw]; ok {
					continue
				}
				claimed[raw] = struct{}{}
				variations = append(variations, raw)
			}
		}
		if len(variations) == 0 {
			logger.Debug("Dropping canonical %q: no variation matches an input topic", name)
			continue
		}
		mapping.Add(name, variations...)
	}
	return mapping
}
