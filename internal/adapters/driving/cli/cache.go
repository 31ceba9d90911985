package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var cacheJSON bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the persistent caches",
	Long: `Embeddings are cached per text, model and scope. Generative responses are
cached per model and prompt, so repeating an analysis does not call the
backend again.`,
	RunE: runCacheStats,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:       "clear [embeddings|responses|all]",
	Short:     "Clear a cache",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"embeddings", "responses", "all"},
	RunE:      runCacheClear,
}

func init() {
	cacheStatsCmd.Flags().BoolVar(&cacheJSON, "json", false, "output as JSON")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}

	stats, err := cacheService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}
	if cacheJSON {
		return writeJSON(cmd, stats)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.subtitle.Render("Embedding cache"))
	cmd.Printf("  Entries: %d\n", stats.Embeddings.TotalEntries)
	printByModel(cmd, stats.Embeddings.ByModel)
	cmd.Println()

	cmd.Println(st.subtitle.Render("Response cache"))
	cmd.Printf("  Entries: %d\n", stats.Responses.TotalEntries)
	cmd.Printf("  Hits: %d\n", stats.Responses.TotalHits)
	printByModel(cmd, stats.Responses.ByModel)
	return nil
}

func printByModel(cmd *cobra.Command, byModel map[string]int) {
	models := make([]string, 0, len(byModel))
	for m := range byModel {
		models = append(models, m)
	}
	sort.Strings(models)
	for _, m := range models {
		cmd.Printf("    %s: %s\n", m, strconv.Itoa(byModel[m]))
	}
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}

	which := "all"
	if len(args) == 1 {
		which = args[0]
	}
	if err := cacheService.Clear(cmd.Context(), which); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	cmd.Printf("Cleared %s cache\n", which)
	return nil
}
