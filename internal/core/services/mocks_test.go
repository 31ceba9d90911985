package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/topictrend/internal/adapters/driven/llm/structured"
	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts listed in vectors get that vector; any other text gets a vector
// derived from its first byte so unrelated texts stay apart.
type mockEmbeddingService struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dims    int
	err     error
	calls   [][]string
}

func newMockEmbedding(vectors map[string][]float32) *mockEmbeddingService {
	dims := 0
	for _, v := range vectors {
		dims = len(v)
		break
	}
	if dims == 0 {
		dims = 4
	}
	return &mockEmbeddingService{vectors: vectors, dims: dims}
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	v := make([]float32, m.dims)
	v[int(text[0])%m.dims] = 1
	return v
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string(nil), texts...))
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vectorFor(text)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return m.dims }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.err }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) embeddedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []string
	for _, call := range m.calls {
		all = append(all, call...)
	}
	return all
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	for _, msg := range messages {
		m.prompts = append(m.prompts, msg.Content)
	}
	return m.response, m.err
}

func (m *mockLLMService) ExtractStructured(response string, v any) error {
	return structured.Extract(response, v)
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return m.err }

func (m *mockLLMService) Close() error { return nil }

// mockEmbeddingCache implements driven.EmbeddingCache for testing.
type mockEmbeddingCache struct {
	mu      sync.Mutex
	entries map[string]driven.EmbeddingCacheEntry
	getErr  error
	putErr  error
}

func newMockEmbeddingCache() *mockEmbeddingCache {
	return &mockEmbeddingCache{entries: make(map[string]driven.EmbeddingCacheEntry)}
}

func (m *mockEmbeddingCache) Get(_ context.Context, keys []string) (map[string][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[string][]float32)
	for _, k := range keys {
		if e, ok := m.entries[k]; ok {
			out[k] = e.Vector
		}
	}
	return out, nil
}

func (m *mockEmbeddingCache) Put(_ context.Context, entries []driven.EmbeddingCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	for _, e := range entries {
		m.entries[e.Key] = e
	}
	return nil
}

func (m *mockEmbeddingCache) Stats(_ context.Context) (domain.EmbeddingCacheStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := domain.EmbeddingCacheStats{TotalEntries: len(m.entries), ByModel: map[string]int{}}
	for _, e := range m.entries {
		stats.ByModel[e.Model]++
	}
	return stats, nil
}

func (m *mockEmbeddingCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]driven.EmbeddingCacheEntry)
	return nil
}

// mockRunStore implements driven.RunStore for testing.
type mockRunStore struct {
	reports map[string]*domain.AnalysisReport
	saveErr error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{reports: make(map[string]*domain.AnalysisReport)}
}

func (m *mockRunStore) Save(_ context.Context, report *domain.AnalysisReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.reports[report.RunID] = report
	return nil
}

func (m *mockRunStore) Get(_ context.Context, id string) (*domain.AnalysisReport, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockRunStore) List(_ context.Context, _ int) ([]domain.RunSummary, error) {
	out := make([]domain.RunSummary, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r.Summary())
	}
	return out, nil
}

func (m *mockRunStore) Delete(_ context.Context, id string) error {
	if _, ok := m.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// unitVec returns a vector pointing mostly along axis with a small offset on
// axis+1, giving near-identical directions for texts that share an axis.
func unitVec(dims, axis int, offset float32) []float32 {
	v := make([]float32, dims)
	v[axis] = 1
	v[(axis+1)%dims] = offset
	return v
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
