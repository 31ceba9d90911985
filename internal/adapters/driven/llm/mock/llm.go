// Package mock provides a scriptable LLM service for tests and dry runs.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/topictrend/internal/adapters/driven/llm/structured"
	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultResponse is returned once the scripted responses run out.
// It names no canonical topics, so a consolidation built on it falls back.
const DefaultResponse = `{"canonical_topics": []}`

// LLMService replays scripted responses in order and records every prompt.
type LLMService struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	err       error
}

// NewLLMService creates a mock that replays responses in order.
func NewLLMService(responses ...string) *LLMService {
	return &LLMService{responses: responses}
}

// Enqueue appends responses to the script.
func (s *LLMService) Enqueue(responses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
}

// SetError makes every later call fail with err wrapped in domain.ErrLLMUnavailable.
// A nil err clears the failure.
func (s *LLMService) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Prompts returns a copy of every prompt received, in order.
func (s *LLMService) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Generate records the prompt and returns the next scripted response.
func (s *LLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return s.next(prompt)
}

// Chat records the last message and returns the next scripted response.
func (s *LLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	var prompt string
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}
	return s.next(prompt)
}

func (s *LLMService) next(prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", fmt.Errorf("%w: mock: %w", domain.ErrLLMUnavailable, s.err)
	}
	if len(s.responses) == 0 {
		return DefaultResponse, nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

// ExtractStructured decodes the JSON value embedded in a response.
func (s *LLMService) ExtractStructured(response string, v any) error {
	return structured.Extract(response, v)
}

// ModelName returns "mock".
func (s *LLMService) ModelName() string { return "mock" }

// Ping returns the configured error, if any.
func (s *LLMService) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases resources.
func (s *LLMService) Close() error { return nil }
