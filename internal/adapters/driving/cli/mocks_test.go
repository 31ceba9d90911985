package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
)

var (
	_ driving.AnalysisService  = (*mockAnalysisService)(nil)
	_ driving.DuplicateService = (*mockDuplicateService)(nil)
	_ driving.CacheService     = (*mockCacheService)(nil)
	_ driving.SettingsService  = (*mockSettingsService)(nil)
	_ driven.ReportWriter      = (*jsonReportWriter)(nil)
)

func sampleReport() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		RunID:     "run-1",
		Scope:     "app-1",
		CreatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		Consolidation: domain.ConsolidationResult{
			Mapping: domain.CanonicalMapping{
				"Login Issues": {"login fails", "can't sign in"},
				"App Crashes":  {"crash on start"},
			},
			Strategy: domain.StrategyHeuristic,
			Attempts: []domain.TierAttempt{
				{Strategy: domain.StrategyGenerative, Error: "llm backend unavailable"},
				{Strategy: domain.StrategyHeuristic},
			},
		},
		Mapping: domain.MappingResult{
			Counts: domain.CanonicalCounts{
				"2024-03-01": {"Login Issues": 2},
				"2024-03-02": {"Login Issues": 1, "App Crashes": 1},
			},
			Unmapped: domain.UnmappedTopics{"dark mode please": "App Crashes"},
			Strategy: domain.MappingEmbedding,
		},
		Diagnostics: domain.Diagnostics{UndeclaredUsed: []string{"dark mode please"}},
		Trend: domain.TrendMatrix{
			Dates:  []string{"2024-03-01", "2024-03-02"},
			Topics: []string{"App Crashes", "Login Issues"},
			Counts: [][]int{{0, 1}, {2, 1}},
		},
	}
}

type mockAnalysisService struct {
	report *domain.AnalysisReport
	runs   []domain.RunSummary
	err    error

	gotInput   domain.AnalysisInput
	gotTopics  []string
	gotByDate  domain.TopicsByDate
	gotMapping domain.CanonicalMapping
	gotScope   string
	gotLimit   int
	deleted    []string
}

func (m *mockAnalysisService) Analyze(_ context.Context, input domain.AnalysisInput) (*domain.AnalysisReport, error) {
	m.gotInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockAnalysisService) Consolidate(_ context.Context, topics []string, scope string) domain.ConsolidationResult {
	m.gotTopics = topics
	m.gotScope = scope
	return m.report.Consolidation
}

func (m *mockAnalysisService) MapToCanonical(
	_ context.Context,
	byDate domain.TopicsByDate,
	mapping domain.CanonicalMapping,
	scope string,
) domain.MappingResult {
	m.gotByDate = byDate
	m.gotMapping = mapping
	m.gotScope = scope
	return m.report.Mapping
}

func (m *mockAnalysisService) Runs(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

func (m *mockAnalysisService) Run(_ context.Context, id string) (*domain.AnalysisReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil || m.report.RunID != id {
		return nil, domain.ErrNotFound
	}
	return m.report, nil
}

func (m *mockAnalysisService) DeleteRun(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if m.report == nil || m.report.RunID != id {
		return domain.ErrNotFound
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockDuplicateService struct {
	result domain.DuplicateResult
	err    error

	gotTexts []string
}

func (m *mockDuplicateService) FindDuplicates(_ context.Context, texts []string, _ string) (domain.DuplicateResult, error) {
	m.gotTexts = texts
	return m.result, m.err
}

type mockCacheService struct {
	stats   domain.CacheStats
	err     error
	cleared []string
}

func (m *mockCacheService) Stats(_ context.Context) (domain.CacheStats, error) {
	return m.stats, m.err
}

func (m *mockCacheService) Clear(_ context.Context, which string) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = append(m.cleared, which)
	return nil
}

type mockSettingsService struct {
	settings     domain.AppSettings
	validateErr  error
	embeddingErr error
	llmErr       error
	setErr       error
	gotStrategy  domain.ConsolidationStrategy
	gotAnalysis  *domain.AnalysisSettings
	gotEmbedding []string
	gotLLM       []string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetStrategy(strategy domain.ConsolidationStrategy) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.gotStrategy = strategy
	m.settings.Analysis.Strategy = strategy
	return nil
}

func (m *mockSettingsService) SetAnalysis(analysis domain.AnalysisSettings) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.gotAnalysis = &analysis
	m.settings.Analysis = analysis
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.gotEmbedding = []string{string(provider), model, apiKey}
	return m.setErr
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.gotLLM = []string{string(provider), model, apiKey}
	return m.setErr
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.embeddingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.llmErr }

type jsonReportWriter struct{}

func (jsonReportWriter) Write(w io.Writer, report *domain.AnalysisReport) error {
	return json.NewEncoder(w).Encode(report)
}

func (jsonReportWriter) Format() string { return "json" }

type testServices struct {
	analysis   *mockAnalysisService
	duplicates *mockDuplicateService
	cache      *mockCacheService
	settings   *mockSettingsService
}

// setupTestServices installs fresh mocks and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		analysis:   &mockAnalysisService{report: sampleReport()},
		duplicates: &mockDuplicateService{},
		cache:      &mockCacheService{},
		settings:   newMockSettingsService(),
	}
	SetServices(Services{
		Analysis:      ts.analysis,
		Duplicates:    ts.duplicates,
		Cache:         ts.cache,
		Settings:      ts.settings,
		ReportWriters: []driven.ReportWriter{jsonReportWriter{}},
	})
	return ts, func() { SetServices(Services{}) }
}

// executeCommand runs the root command with args and optional stdin.
func executeCommand(stdin string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
