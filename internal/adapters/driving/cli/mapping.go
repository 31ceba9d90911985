package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	mapMappingPath string
	mapScope       string
	mapJSON        bool
)

var mapCmd = &cobra.Command{
	Use:   "map [topics_by_date.json]",
	Short: "Count dated topics under an existing canonical mapping",
	Long: `Maps every dated topic onto the canonical topics in --mapping and prints
the per-topic totals.

With an embedding backend, each topic goes to its most similar canonical name
when the similarity reaches the threshold; otherwise it is counted under its
own name and listed with its closest canonical. Without one, topics are matched
against the declared variations.`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVarP(&mapMappingPath, "mapping", "m", "", "canonical mapping JSON (canonical -> variations)")
	mapCmd.Flags().StringVar(&mapScope, "scope", "", "embedding cache scope")
	mapCmd.Flags().BoolVar(&mapJSON, "json", false, "print the mapping result as JSON")
	_ = mapCmd.MarkFlagRequired("mapping")
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	input, err := readAnalysisInput(cmd, args[0])
	if err != nil {
		return err
	}
	mapping, err := readMapping(cmd, mapMappingPath)
	if err != nil {
		return err
	}

	scope := mapScope
	if scope == "" {
		scope = input.Scope
	}

	result := analysisService.MapToCanonical(cmd.Context(), input.TopicsByDate, mapping, scope)
	if mapJSON {
		return writeJSON(cmd, result)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.title.Render("Mapping"))
	cmd.Printf("Strategy: %s, %d dates\n\n", result.Strategy, len(result.Counts))

	totals := result.Counts.Totals()
	if len(totals) == 0 {
		cmd.Println("No topics mapped.")
		return nil
	}
	cmd.Println(st.table([]string{"Topic", "Mentions"}, topTotals(totals, 0)))

	if len(result.Unmapped) > 0 {
		cmd.Println()
		cmd.Println(st.warning.Render(strconv.Itoa(len(result.Unmapped)) + " topics fell below the similarity threshold (see --json)"))
	}
	return nil
}
