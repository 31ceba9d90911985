package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// ConsolidationTier is one strategy of the consolidation fallback chain.
type ConsolidationTier interface {
	// Strategy identifies the tier.
	Strategy() domain.ConsolidationStrategy

	// Run consolidates topics and reports success or failure as a value.
	Run(ctx context.Context, topics []string, scope string) domain.TierOutcome
}

type clusteringTier struct{ clusterer *EmbeddingClusterer }

// ClusteringTier adapts an EmbeddingClusterer to the chain.
func ClusteringTier(c *EmbeddingClusterer) ConsolidationTier { return clusteringTier{clusterer: c} }

func (t clusteringTier) Strategy() domain.ConsolidationStrategy {
	return domain.StrategyEmbeddingClustering
}

func (t clusteringTier) Run(ctx context.Context, topics []string, scope string) domain.TierOutcome {
	mapping, err := t.clusterer.Cluster(ctx, topics, scope)
	return domain.TierOutcome{Strategy: t.Strategy(), Mapping: mapping, Err: err}
}

type generativeTier struct{ consolidator *GenerativeConsolidator }

// GenerativeTier adapts a GenerativeConsolidator to the chain.
func GenerativeTier(g *GenerativeConsolidator) ConsolidationTier {
	return generativeTier{consolidator: g}
}

func (t generativeTier) Strategy() domain.ConsolidationStrategy { return domain.StrategyGenerative }

func (t generativeTier) Run(ctx context.Context, topics []string, _ string) domain.TierOutcome {
	mapping, err := t.consolidator.Consolidate(ctx, topics)
	return domain.TierOutcome{Strategy: t.Strategy(), Mapping: mapping, Err: err}
}

type heuristicTier struct{ consolidator *HeuristicConsolidator }

// HeuristicTier adapts a HeuristicConsolidator to the chain.
func HeuristicTier(h *HeuristicConsolidator) ConsolidationTier {
	return heuristicTier{consolidator: h}
}

func (t heuristicTier) Strategy() domain.ConsolidationStrategy { return domain.StrategyHeuristic }

func (t heuristicTier) Run(_ context.Context, topics []string, _ string) domain.TierOutcome {
	return domain.TierOutcome{Strategy: t.Strategy(), Mapping: t.consolidator.Consolidate(topics)}
}

// ConsolidationChain tries consolidation tiers in fallback order, starting at
// a configured strategy, until one succeeds.
type ConsolidationChain struct {
	start    domain.ConsolidationStrategy
	tiers    map[domain.ConsolidationStrategy]ConsolidationTier
	fallback ConsolidationTier
}

// NewConsolidationChain creates a chain starting at start. Tiers missing from
// the list are recorded as failed attempts. A heuristic tier over the built-in
// rules ends the chain when none is given, so Consolidate always produces a mapping.
func NewConsolidationChain(start domain.ConsolidationStrategy, tiers ...ConsolidationTier) *ConsolidationChain {
	c := &ConsolidationChain{
		start:    start,
		tiers:    make(map[domain.ConsolidationStrategy]ConsolidationTier),
		fallback: HeuristicTier(NewHeuristicConsolidator(nil)),
	}
	for _, t := range tiers {
		if t != nil {
			c.tiers[t.Strategy()] = t
		}
	}
	if _, ok := c.tiers[domain.StrategyHeuristic]; !ok {
		c.tiers[domain.StrategyHeuristic] = c.fallback
	}
	return c
}

// Start returns the first strategy tried.
func (c *ConsolidationChain) Start() domain.ConsolidationStrategy {
	return c.start
}

// Consolidate runs the chain. It never fails: the heuristic tier is pure
// computation and always succeeds.
func (c *ConsolidationChain) Consolidate(ctx context.Context, topics []string, scope string) domain.ConsolidationResult {
	var attempts []domain.TierAttempt

	for _, strategy := range c.start.FallbackChain() {
		tier, ok := c.tiers[strategy]
		if !ok {
			attempts = append(attempts, domain.TierAttempt{
				Strategy: strategy,
				Error:    fmt.Errorf("%w: %s tier not configured", domain.ErrNoStrategy, strategy).Error(),
			})
			logger.Warn("Skipping %s: not configured", strategy)
			continue
		}

		outcome := tier.Run(ctx, topics, scope)
		attempts = append(attempts, domain.AttemptFromOutcome(outcome))
		if outcome.Succeeded() {
			logger.Info("Consolidation tier %s succeeded with %d canonical topics", strategy, len(outcome.Mapping))
			return domain.ConsolidationResult{Mapping: outcome.Mapping, Strategy: strategy, Attempts: attempts}
		}
		logger.Warn("Consolidation tier %s failed, falling back: %v", strategy, outcome.Err)
	}

	// Only reachable when a caller-supplied heuristic tier reports failure.
	outcome := c.fallback.Run(ctx, topics, scope)
	attempts = append(attempts, domain.AttemptFromOutcome(outcome))
	return domain.ConsolidationResult{Mapping: outcome.Mapping, Strategy: outcome.Strategy, Attempts: attempts}
}
