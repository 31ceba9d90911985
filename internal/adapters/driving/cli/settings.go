package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the consolidation strategy, analysis thresholds and
the embedding and generative backends.

Settings live in ~/.topictrend/config.toml. Environment variables (also read
from a .env file) override the file; run 'topictrend settings' to see which
are active.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsStrategyCmd = &cobra.Command{
	Use:   "strategy [embedding_clustering|generative|heuristic]",
	Short: "Set the consolidation strategy",
	Long: `Set the first consolidation tier. Later tiers are used as fallbacks:

  embedding_clustering - density clusters over topic vectors (needs an embedding backend)
  generative           - an LLM proposes canonical groups (needs an LLM backend)
  heuristic            - keyword rule table from ~/.topictrend/rules.yaml (always available)

Without an argument, choose interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsStrategy,
}

var settingsAnalysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Set analysis thresholds and sizes",
	Long:  `Update analysis knobs. Only the flags given are changed.`,
	RunE:  runSettingsAnalysis,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding backend used for clustering, mapping and duplicate detection.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the generative backend used by the generative consolidation tier.`,
	RunE:  runSettingsLLM,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings and ping configured backends",
	RunE:  runSettingsValidate,
}

func init() {
	f := settingsAnalysisCmd.Flags()
	f.Bool("clustering", true, "enable embedding clustering")
	f.Float64("similarity-threshold", 0, "mapper acceptance threshold (0-1)")
	f.Float64("duplicate-threshold", 0, "duplicate detection threshold (0-1)")
	f.Int("min-cluster-size", 0, "smallest cluster reported")
	f.Int("batch-size", 0, "texts per embedding request")
	f.Int("representative-limit", 0, "topics sent to the generative backend")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsStrategyCmd)
	settingsCmd.AddCommand(settingsAnalysisCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	st := newStyles(cmd.OutOrStdout())

	cmd.Println(st.title.Render("Current Settings"))
	cmd.Println()

	a := settings.Analysis
	cmd.Println(st.subtitle.Render("[Analysis]"))
	cmd.Printf("  Strategy: %s\n", a.Strategy.Description())
	if eff := a.EffectiveStrategy(); eff != a.Strategy {
		cmd.Printf("  Effective: %s (clustering disabled)\n", eff)
	}
	cmd.Printf("  Embedding clustering: %t\n", a.EnableEmbeddingClustering)
	cmd.Printf("  Similarity threshold: %.2f\n", a.SimilarityThreshold)
	cmd.Printf("  Duplicate threshold: %.2f\n", a.DuplicateThreshold)
	cmd.Printf("  Min cluster size: %d\n", a.MinClusterSize)
	cmd.Printf("  Embedding batch size: %d\n", a.EmbeddingBatchSize)
	cmd.Printf("  Representative limit: %d\n", a.RepresentativeLimit)
	cmd.Println()

	printProvider(cmd, st, "[Embedding]", settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	printProvider(cmd, st, "[LLM]", settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())

	if envOverrides != nil {
		if vars := envOverrides(); len(vars) > 0 {
			cmd.Println(st.subtitle.Render("[Environment]"))
			cmd.Printf("  Overriding: %s\n\n", strings.Join(vars, ", "))
		}
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println(st.warning.Render(fmt.Sprintf("Warning: %v", err)))
	} else {
		cmd.Println(st.success.Render("Configuration is valid."))
	}
	return nil
}

func printProvider(cmd *cobra.Command, st *styles, heading string, provider domain.AIProvider,
	model, baseURL, apiKey string, configured bool) {
	cmd.Println(st.subtitle.Render(heading))
	if provider == "" {
		cmd.Println("  Provider: (not set)")
		cmd.Println()
		return
	}
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Println("  API Key: (not set)")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsStrategy(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var selected domain.ConsolidationStrategy
	if len(args) == 1 {
		selected = domain.ConsolidationStrategy(args[0])
		if !selected.IsValid() {
			return fmt.Errorf("unknown strategy %q", args[0])
		}
	} else {
		reader := bufio.NewReader(cmd.InOrStdin())
		cmd.Println("Select Consolidation Strategy")
		strategies := domain.AllStrategies()
		for i, s := range strategies {
			cmd.Printf("  %d. %s\n", i+1, s.Description())
		}
		cmd.Print("\nEnter choice: ")
		idx := parseChoice(readLine(reader), len(strategies), 0)
		if idx == 0 {
			return errors.New("invalid selection")
		}
		selected = strategies[idx-1]
	}

	if err := settingsService.SetStrategy(selected); err != nil {
		return fmt.Errorf("failed to set strategy: %w", err)
	}
	cmd.Printf("Strategy set to: %s\n", selected.Description())

	settings, err := settingsService.Get()
	if err != nil || settings == nil {
		return nil //nolint:nilerr // best-effort hint
	}
	if selected.RequiresEmbedding() && !settings.Embedding.IsConfigured() {
		cmd.Println("\nNote: this strategy needs an embedding provider.")
		cmd.Println("Run 'topictrend settings embedding' to configure.")
	}
	if selected.RequiresLLM() && !settings.LLM.IsConfigured() {
		cmd.Println("\nNote: this strategy needs an LLM provider.")
		cmd.Println("Run 'topictrend settings llm' to configure.")
	}
	return nil
}

func runSettingsAnalysis(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	a := settings.Analysis
	f := cmd.Flags()

	if f.Changed("clustering") {
		a.EnableEmbeddingClustering, _ = f.GetBool("clustering")
	}
	if f.Changed("similarity-threshold") {
		a.SimilarityThreshold, _ = f.GetFloat64("similarity-threshold")
	}
	if f.Changed("duplicate-threshold") {
		a.DuplicateThreshold, _ = f.GetFloat64("duplicate-threshold")
	}
	if f.Changed("min-cluster-size") {
		a.MinClusterSize, _ = f.GetInt("min-cluster-size")
	}
	if f.Changed("batch-size") {
		a.EmbeddingBatchSize, _ = f.GetInt("batch-size")
	}
	if f.Changed("representative-limit") {
		a.RepresentativeLimit, _ = f.GetInt("representative-limit")
	}

	if err := settingsService.SetAnalysis(a); err != nil {
		return fmt.Errorf("failed to update analysis settings: %w", err)
	}
	cmd.Println("Analysis settings updated.")
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), providerFlow{
		label:     "Embedding",
		providers: domain.AllEmbeddingProviders(),
		defaults:  domain.DefaultEmbeddingModels(),
		set:       settingsService.SetEmbeddingProvider,
		validate:  settingsService.ValidateEmbeddingConfig,
	})
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), providerFlow{
		label:     "LLM",
		providers: domain.AllLLMProviders(),
		defaults:  domain.DefaultLLMModels(),
		set:       settingsService.SetLLMProvider,
		validate:  settingsService.ValidateLLMConfig,
	})
}

// providerFlow describes the interactive provider setup for one backend kind.
type providerFlow struct {
	label     string
	providers []domain.AIProvider
	defaults  map[domain.AIProvider]string
	set       func(domain.AIProvider, string, string) error
	validate  func() error
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, flow providerFlow) error {
	cmd.Printf("Select %s Provider\n", flow.label)
	for i, p := range flow.providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(flow.providers), 1)
	provider := flow.providers[idx-1]

	defaultModel := flow.defaults[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := flow.set(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", flow.label, err)
	}

	cmd.Print("Validating configuration... ")
	if err := flow.validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", flow.label, err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n", flow.label, provider.Description(), model)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	st := newStyles(cmd.OutOrStdout())

	var failed bool
	check := func(name string, fn func() error) {
		cmd.Printf("%-12s ", name)
		if err := fn(); err != nil {
			failed = true
			cmd.Println(st.err.Render("FAILED: " + err.Error()))
			return
		}
		cmd.Println(st.success.Render("OK"))
	}

	check("Settings", settingsService.Validate)
	check("Embedding", settingsService.ValidateEmbeddingConfig)
	check("LLM", settingsService.ValidateLLMConfig)

	if failed {
		return errors.New("settings validation failed")
	}
	return nil
}

// Helper functions.

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n') //nolint:errcheck // EOF yields the partial line
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, else a plain line.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
