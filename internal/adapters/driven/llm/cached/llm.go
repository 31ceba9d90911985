// Package cached decorates an LLM service with a persistent response cache.
package cached

import (
	"context"
	"strings"

	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService answers repeated prompts from a ResponseCache and forwards
// everything else to the wrapped service.
// Cache failures are logged and never fail the call.
type LLMService struct {
	inner driven.LLMService
	cache driven.ResponseCache
}

// NewLLMService wraps inner. A nil cache returns inner unchanged.
func NewLLMService(inner driven.LLMService, cache driven.ResponseCache) driven.LLMService {
	if inner == nil || cache == nil {
		return inner
	}
	return &LLMService{inner: inner, cache: cache}
}

// Generate returns a cached completion or asks the wrapped service.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return s.cached(ctx, prompt, func() (string, error) {
		return s.inner.Generate(ctx, prompt, opts)
	})
}

// Chat returns a cached reply or asks the wrapped service.
// The key covers every message role and content in order.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return s.cached(ctx, chatKey(messages), func() (string, error) {
		return s.inner.Chat(ctx, messages, opts)
	})
}

func (s *LLMService) cached(ctx context.Context, key string, call func() (string, error)) (string, error) {
	model := s.inner.ModelName()

	resp, ok, err := s.cache.Get(ctx, model, key)
	if err != nil {
		logger.Warn("response cache read failed: %v", err)
	} else if ok {
		logger.Debug("response cache hit for %s", model)
		return resp, nil
	}

	resp, err = call()
	if err != nil {
		return "", err
	}

	if err := s.cache.Put(ctx, model, key, resp); err != nil {
		logger.Warn("response cache write failed: %v", err)
	}
	return resp, nil
}

func chatKey(messages []driven.ChatMessage) string {
	if len(messages) == 1 && messages[0].Role == "user" {
		return messages[0].Content
	}
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// ExtractStructured delegates to the wrapped service.
func (s *LLMService) ExtractStructured(response string, v any) error {
	return s.inner.ExtractStructured(response, v)
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string { return s.inner.ModelName() }

// Ping checks the wrapped service.
func (s *LLMService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service. The cache belongs to its store.
func (s *LLMService) Close() error { return s.inner.Close() }
