package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

var (
	analyzeEndDate string
	analyzeWindow  int
	analyzeScope   string
	analyzeOutput  string
	analyzeFormat  string
	analyzeJSON    bool
	analyzeTop     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input.json]",
	Short: "Consolidate, map and trend a set of dated topics",
	Long: `Runs a full analysis over dated review topics and stores the report.

The input is JSON: either {"topics_by_date": {"2025-01-01": ["late delivery", ...]}}
with optional "all_topics", "scope", "end_date" and "window_days", or a bare
object of date -> topics. Use "-" to read from stdin.

The report can be exported with --output; the format follows the file
extension unless --format is given (json or csv).`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeEndDate, "end-date", "", "last day of the trend window (YYYY-MM-DD)")
	analyzeCmd.Flags().IntVar(&analyzeWindow, "window", domain.DefaultTrendDays, "trend window in days")
	analyzeCmd.Flags().StringVar(&analyzeScope, "scope", "", "embedding cache scope, e.g. an app identifier")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to this file")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "export format for --output (json or csv)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full report as JSON")
	analyzeCmd.Flags().IntVarP(&analyzeTop, "top", "n", 15, "canonical topics shown in the summary")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	input, err := readAnalysisInput(cmd, args[0])
	if err != nil {
		return err
	}
	if analyzeEndDate != "" {
		input.EndDate = analyzeEndDate
	}
	if cmd.Flags().Changed("window") || input.WindowDays == 0 {
		input.WindowDays = analyzeWindow
	}
	if analyzeScope != "" {
		input.Scope = analyzeScope
	}

	report, err := analysisService.Analyze(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeOutput != "" {
		if err := exportReport(report, analyzeOutput, analyzeFormat); err != nil {
			return err
		}
	}

	if analyzeJSON {
		return writeJSON(cmd, report)
	}

	printReportSummary(cmd, report, analyzeTop)
	if analyzeOutput != "" {
		cmd.Printf("Report written to %s\n", analyzeOutput)
	}
	return nil
}

// exportReport writes report to path in format, or the format named by the extension.
func exportReport(report *domain.AnalysisReport, path, format string) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	writer, ok := reportWriters[format]
	if !ok {
		return fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := writer.Write(f, report); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s report: %w", format, err)
	}
	return f.Close()
}

func printReportSummary(cmd *cobra.Command, report *domain.AnalysisReport, top int) {
	st := newStyles(cmd.OutOrStdout())

	cmd.Println(st.title.Render("Analysis " + report.RunID))
	cmd.Println(st.muted.Render(report.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	cmd.Println()

	printConsolidation(cmd, st, report.Consolidation)

	totals := report.Mapping.Counts.Totals()
	mentions := 0
	for _, n := range totals {
		mentions += n
	}
	cmd.Printf("Mapping: %s, %d mentions across %d topics\n", report.Mapping.Strategy, mentions, len(totals))
	if len(report.Trend.Dates) > 0 {
		cmd.Printf("Trend window: %s to %s\n", report.Trend.Dates[0], report.Trend.Dates[len(report.Trend.Dates)-1])
	}
	cmd.Println()

	if len(totals) > 0 {
		cmd.Println(st.subtitle.Render("Top topics"))
		cmd.Println(st.table([]string{"Topic", "Mentions"}, topTotals(totals, top)))
		cmd.Println()
	}

	printDiagnostics(cmd, st, report.Diagnostics, report.Mapping.Unmapped)
}

func printConsolidation(cmd *cobra.Command, st *styles, result domain.ConsolidationResult) {
	cmd.Printf("Strategy: %s (%d canonical topics)\n", result.Strategy.Description(), len(result.Mapping))
	if result.Degraded() {
		for _, a := range result.Attempts {
			if a.Error != "" {
				cmd.Println(st.warning.Render(fmt.Sprintf("  %s skipped: %s", a.Strategy, a.Error)))
			}
		}
	}
}

func printDiagnostics(cmd *cobra.Command, st *styles, diag domain.Diagnostics, unmapped domain.UnmappedTopics) {
	cmd.Println(st.subtitle.Render("Diagnostics"))
	if diag.IsClean() && len(unmapped) == 0 {
		cmd.Println(st.success.Render("  No discrepancies found."))
		return
	}

	cmd.Printf("  Declared but unused: %d\n", len(diag.DeclaredUnused))
	cmd.Printf("  Used but undeclared: %d\n", len(diag.UndeclaredUsed))
	cmd.Printf("  Single mentions:     %d\n", len(diag.Singletons))

	if len(unmapped) == 0 {
		return
	}
	topics := make([]string, 0, len(unmapped))
	for t := range unmapped {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	rows := make([][]string, len(topics))
	for i, t := range topics {
		rows[i] = []string{t, unmapped[t]}
	}
	cmd.Println()
	cmd.Println(st.subtitle.Render("Below similarity threshold"))
	cmd.Println(st.table([]string{"Topic", "Closest canonical"}, rows))
}

// topTotals returns up to n rows sorted by count, then name.
func topTotals(totals map[string]int, n int) [][]string {
	topics := make([]string, 0, len(totals))
	for t := range totals {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if totals[topics[i]] != totals[topics[j]] {
			return totals[topics[i]] > totals[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if n > 0 && len(topics) > n {
		topics = topics[:n]
	}

	rows := make([][]string, len(topics))
	for i, t := range topics {
		rows[i] = []string{t, strconv.Itoa(totals[t])}
	}
	return rows
}
