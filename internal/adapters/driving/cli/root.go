// Package cli provides the topictrend command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var verbose bool

// Services wired by the composition root.
var (
	analysisService  driving.AnalysisService
	duplicateService driving.DuplicateService
	cacheService     driving.CacheService
	settingsService  driving.SettingsService
	envOverrides     func() []string
	reportWriters    map[string]driven.ReportWriter
)

// Services holds the driving ports the commands call.
type Services struct {
	Analysis   driving.AnalysisService
	Duplicates driving.DuplicateService
	Cache      driving.CacheService
	Settings   driving.SettingsService

	// EnvOverrides lists environment variables overriding the config file.
	EnvOverrides func() []string

	// ReportWriters are the export formats offered by analyze and runs show.
	ReportWriters []driven.ReportWriter
}

var rootCmd = &cobra.Command{
	Use:   "topictrend",
	Short: "Consolidate app review topics into canonical trends",
	Long: `topictrend merges the many phrasings of review topics into a small set of
canonical topics, maps every dated topic onto them, and reports per-day
trend counts.

Consolidation tries embedding clustering, then a generative model, then
keyword rules, falling back automatically when a backend is unavailable.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	analysisService = s.Analysis
	duplicateService = s.Duplicates
	cacheService = s.Cache
	settingsService = s.Settings
	envOverrides = s.EnvOverrides
	reportWriters = make(map[string]driven.ReportWriter, len(s.ReportWriters))
	for _, w := range s.ReportWriters {
		reportWriters[w.Format()] = w
	}
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
