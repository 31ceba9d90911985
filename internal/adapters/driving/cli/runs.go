package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

var (
	runsLimit      int
	runsJSON       bool
	runsShowOutput string
	runsShowFormat string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored analysis runs",
	Long:  `List, show, export and delete the reports saved by 'topictrend analyze'.`,
	RunE:  runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.PersistentFlags().BoolVar(&runsJSON, "json", false, "output as JSON")
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs")
	runsShowCmd.Flags().StringVarP(&runsShowOutput, "output", "o", "", "export the report to this file")
	runsShowCmd.Flags().StringVar(&runsShowFormat, "format", "", "export format for --output (json or csv)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	runs, err := analysisService.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if runsJSON {
		return writeJSON(cmd, runs)
	}
	if len(runs) == 0 {
		cmd.Println("No runs stored. Run 'topictrend analyze' first.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Scope,
			r.Strategy.String(),
			strconv.Itoa(r.CanonicalCount),
			strconv.Itoa(r.MentionCount),
			strconv.Itoa(r.UnmappedCount),
		}
	}
	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.table([]string{"ID", "Created", "Scope", "Strategy", "Canonical", "Mentions", "Unmapped"}, rows))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	report, err := analysisService.Run(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %q not found", args[0])
		}
		return fmt.Errorf("failed to load run: %w", err)
	}

	if runsShowOutput != "" {
		if err := exportReport(report, runsShowOutput, runsShowFormat); err != nil {
			return err
		}
	}
	if runsJSON {
		return writeJSON(cmd, report)
	}

	printReportSummary(cmd, report, 0)
	if runsShowOutput != "" {
		cmd.Printf("Report written to %s\n", runsShowOutput)
	}
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	if err := analysisService.DeleteRun(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %q not found", args[0])
		}
		return fmt.Errorf("failed to delete run: %w", err)
	}
	cmd.Printf("Deleted run %s\n", args[0])
	return nil
}
