package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

var (
	duplicatesScope string
	duplicatesJSON  bool
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates [texts]",
	Short: "Find near-duplicate texts",
	Long: `Finds texts whose embeddings are at least the duplicate threshold apart
from an earlier text. The first occurrence is kept.

The input is a JSON array of strings or one text per line; "-" reads stdin.
Requires an embedding backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().StringVar(&duplicatesScope, "scope", "", "embedding cache scope")
	duplicatesCmd.Flags().BoolVar(&duplicatesJSON, "json", false, "print indices as JSON")
	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	if duplicateService == nil {
		return errors.New("duplicate service not configured")
	}

	texts, err := readTextList(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := duplicateService.FindDuplicates(cmd.Context(), texts, duplicatesScope)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return fmt.Errorf("%w. Run 'topictrend settings embedding' to configure a backend", err)
		}
		return fmt.Errorf("duplicate detection failed: %w", err)
	}

	if duplicatesJSON {
		return writeJSON(cmd, result)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.title.Render("Duplicates"))
	cmd.Printf("%d texts, %d unique, %d duplicates\n", len(texts), len(result.Unique), len(result.Duplicates))
	if len(result.Duplicates) == 0 {
		return nil
	}

	dups := make([]int, 0, len(result.Duplicates))
	for i := range result.Duplicates {
		dups = append(dups, i)
	}
	sort.Ints(dups)

	rows := make([][]string, len(dups))
	for i, d := range dups {
		orig := result.Duplicates[d]
		rows[i] = []string{strconv.Itoa(d), texts[d], strconv.Itoa(orig), texts[orig]}
	}
	cmd.Println()
	cmd.Println(st.table([]string{"#", "Duplicate", "Of #", "Original"}, rows))
	return nil
}
