// Command topictrend consolidates app review topics into canonical trends.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/custodia-labs/topictrend/internal/adapters/driven/ai"
	"github.com/custodia-labs/topictrend/internal/adapters/driven/config/env"
	"github.com/custodia-labs/topictrend/internal/adapters/driven/config/file"
	"github.com/custodia-labs/topictrend/internal/adapters/driven/report"
	"github.com/custodia-labs/topictrend/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/topictrend/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/topictrend/internal/adapters/driving/cli"
	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
	"github.com/custodia-labs/topictrend/internal/core/services"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Wiring logs before cobra parses --verbose.
	logger.SetVerbose(slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	app, err := wire()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer app.close()

	cli.SetVersion(version)
	cli.SetServices(app.services)
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// app holds the wired services and the resources to release on exit.
type app struct {
	services cli.Services
	closers  []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// stores are the persistent caches and run store.
type stores struct {
	embeddings driven.EmbeddingCache
	responses  driven.ResponseCache
	runs       driven.RunStore
}

func wire() (*app, error) {
	a := &app{}

	if err := env.LoadDotEnv(); err != nil {
		logger.Warn("reading .env: %v", err)
	}

	fileStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	configStore := env.NewConfigStore(fileStore)
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	st := openStores(a)

	backends := ai.Initialize(*settings, st.responses)
	a.closers = append(a.closers, backends.Close)

	analysis := settings.Analysis
	encoder := services.NewTopicEncoder(backends.EmbeddingService, st.embeddings, services.EncoderConfig{
		BatchSize: analysis.EmbeddingBatchSize,
	})

	chain := services.NewConsolidationChain(analysis.EffectiveStrategy(),
		services.ClusteringTier(services.NewEmbeddingClusterer(encoder, services.ClusterConfig{
			MinClusterSize: analysis.MinClusterSize,
			BatchSize:      analysis.EmbeddingBatchSize,
		})),
		services.GenerativeTier(services.NewGenerativeConsolidator(backends.LLMService, openPrompts(), services.GenerativeConfig{
			RepresentativeLimit: analysis.RepresentativeLimit,
		})),
		services.HeuristicTier(services.NewHeuristicConsolidator(loadRules())),
	)

	mapper := services.NewTopicMapper(encoder, services.MapperConfig{
		SimilarityThreshold: analysis.SimilarityThreshold,
		BatchSize:           analysis.EmbeddingBatchSize,
	})

	a.services = cli.Services{
		Analysis: services.NewAnalysisService(chain, mapper, st.runs),
		Duplicates: services.NewDuplicateDetector(encoder, services.DuplicateConfig{
			Threshold: analysis.DuplicateThreshold,
			BatchSize: analysis.EmbeddingBatchSize,
		}),
		Cache:         services.NewCacheService(st.embeddings, st.responses),
		Settings:      settingsService,
		EnvOverrides:  configStore.Overrides,
		ReportWriters: []driven.ReportWriter{report.NewJSONWriter(), report.NewCSVWriter()},
	}
	return a, nil
}

// openStores opens the SQLite store, falling back to in-memory stores that
// last for this process only.
func openStores(a *app) stores {
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("persistent store unavailable, caching in memory: %v", err)
		return stores{
			embeddings: memory.NewEmbeddingCache(),
			responses:  memory.NewResponseCache(),
			runs:       memory.NewRunStore(),
		}
	}
	a.closers = append(a.closers, func() { _ = store.Close() })
	return stores{
		embeddings: store.EmbeddingCache(),
		responses:  store.ResponseCache(),
		runs:       store.RunStore(),
	}
}

func openPrompts() driven.PromptStore {
	prompts, err := file.NewPromptStore("")
	if err != nil {
		logger.Warn("prompt directory unavailable, using built-in prompt: %v", err)
		return nil
	}
	return prompts
}

func loadRules() []domain.HeuristicRule {
	store, err := file.NewRuleStore("")
	if err != nil {
		logger.Warn("rules file unavailable, using built-in rules: %v", err)
		return domain.DefaultHeuristicRules()
	}
	rules, err := store.Load()
	if err != nil || len(rules) == 0 {
		logger.Warn("loading %s: %v; using built-in rules", store.Path(), err)
		return domain.DefaultHeuristicRules()
	}
	logger.Debug("loaded %d heuristic rules from %s", len(rules), store.Path())
	return rules
}
