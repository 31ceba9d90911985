package cli

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	consolidateScope string
	consolidateJSON  bool
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [topics]",
	Short: "Merge raw topics into canonical topics",
	Long: `Builds a canonical mapping from a list of raw topics without counting them.

The input is a JSON array of strings or a text file with one topic per line.
Use "-" to read from stdin. The strategy and its fallbacks come from settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runConsolidate,
}

func init() {
	consolidateCmd.Flags().StringVar(&consolidateScope, "scope", "", "embedding cache scope")
	consolidateCmd.Flags().BoolVar(&consolidateJSON, "json", false, "print the mapping as JSON")
	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	topics, err := readTextList(cmd, args[0])
	if err != nil {
		return err
	}

	result := analysisService.Consolidate(cmd.Context(), topics, consolidateScope)
	if consolidateJSON {
		return writeJSON(cmd, result)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.title.Render("Consolidation"))
	printConsolidation(cmd, st, result)
	cmd.Println()

	if len(result.Mapping) == 0 {
		cmd.Println("No canonical topics.")
		return nil
	}

	names := result.Mapping.Names()
	sort.Slice(names, func(i, j int) bool {
		a, b := len(result.Mapping[names[i]]), len(result.Mapping[names[j]])
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	rows := make([][]string, len(names))
	for i, name := range names {
		variations := result.Mapping[name]
		rows[i] = []string{name, strconv.Itoa(len(variations)), previewList(variations, 3)}
	}
	cmd.Println(st.table([]string{"Canonical topic", "Variations", "Examples"}, rows))
	return nil
}

// previewList joins the first n items and counts the rest.
func previewList(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:n], ", ") + ", +" + strconv.Itoa(len(items)-n) + " more"
}
