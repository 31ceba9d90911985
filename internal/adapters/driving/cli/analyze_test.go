package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyzeCmd_Use(t *testing.T) {
	assert.Equal(t, "analyze [input.json]", analyzeCmd.Use)
}

func TestAnalyzeCmd_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "end-date", defValue: ""},
		{name: "window", defValue: "30"},
		{name: "scope", defValue: ""},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "format", defValue: ""},
		{name: "json", defValue: "false"},
		{name: "top", shorthand: "n", defValue: "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := analyzeCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestAnalyzeCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("", "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAnalyzeCmd_NoService(t *testing.T) {
	SetServices(Services{})
	_, err := executeCommand("{}", "analyze", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis service not configured")
}

func TestAnalyzeCmd_PrintsSummary(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	input := `{"2024-03-01": ["login fails", "can't sign in"], "2024-03-02": ["login fails", "crash on start"]}`
	out, err := executeCommand(input, "analyze", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "Analysis run-1")
	assert.Contains(t, out, "Heuristic")
	assert.Contains(t, out, "generative skipped: llm backend unavailable")
	assert.Contains(t, out, "Login Issues")
	assert.Contains(t, out, "Trend window: 2024-03-01 to 2024-03-02")
	assert.Contains(t, out, "dark mode please")

	assert.Len(t, ts.analysis.gotInput.TopicsByDate, 2)
	assert.Equal(t, domain.DefaultTrendDays, ts.analysis.gotInput.WindowDays)
}

func TestAnalyzeCmd_FlagsOverrideInput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		analyzeEndDate = ""
		analyzeWindow = domain.DefaultTrendDays
		analyzeScope = ""
	}()

	path := writeTempFile(t, "input.json",
		`{"topics_by_date": {"2024-03-01": ["login fails"]}, "scope": "file-scope", "window_days": 7}`)
	_, err := executeCommand("", "analyze", "--end-date", "2024-03-05", "--window", "14", "--scope", "cli-scope", path)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", ts.analysis.gotInput.EndDate)
	assert.Equal(t, 14, ts.analysis.gotInput.WindowDays)
	assert.Equal(t, "cli-scope", ts.analysis.gotInput.Scope)
}

func TestAnalyzeCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { analyzeJSON = false }()

	out, err := executeCommand(`{"2024-03-01": ["login fails"]}`, "analyze", "--json", "-")
	require.NoError(t, err)

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, domain.StrategyHeuristic, report.Consolidation.Strategy)
}

func TestAnalyzeCmd_ExportsReport(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { analyzeOutput = "" }()

	dest := filepath.Join(t.TempDir(), "report.json")
	out, err := executeCommand(`{"2024-03-01": ["login fails"]}`, "analyze", "-o", dest, "-")

	require.NoError(t, err)
	assert.Contains(t, out, "Report written to "+dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"run-1"`)
}

func TestAnalyzeCmd_UnsupportedExportFormat(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { analyzeOutput = "" }()

	dest := filepath.Join(t.TempDir(), "report.xml")
	_, err := executeCommand(`{"2024-03-01": ["login fails"]}`, "analyze", "-o", dest, "-")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), `"xml"`)
}

func TestAnalyzeCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.analysis.err = errors.New("disk full")

	_, err := executeCommand(`{"2024-03-01": ["x"]}`, "analyze", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed: disk full")
}

func TestTopTotals(t *testing.T) {
	totals := map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}

	tests := []struct {
		name     string
		n        int
		expected [][]string
	}{
		{
			name:     "all rows sorted by count then name",
			n:        0,
			expected: [][]string{{"c", "5"}, {"a", "2"}, {"b", "2"}, {"d", "1"}},
		},
		{
			name:     "limited",
			n:        2,
			expected: [][]string{{"c", "5"}, {"a", "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, topTotals(totals, tt.n))
		})
	}
}
