// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawler runs one aggregation pass: every expression in the plan
// is fetched in order, the results are merged by identifier, scored
// against the taxonomy, and packaged as a snapshot.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-crawler/internal/logging"
	"github.com/pdiddy/paper-crawler/internal/metrics"
	"github.com/pdiddy/paper-crawler/internal/plan"
	"github.com/pdiddy/paper-crawler/internal/rank"
	"github.com/pdiddy/paper-crawler/internal/snapshot"
	"github.com/pdiddy/paper-crawler/pkg/types"
)

// ErrNoPapers is returned when no entry scored above zero.
var ErrNoPapers = errors.New("no relevant papers found")

// Fetcher retrieves the entries for one search expression. Implementations
// absorb their own failures and return an empty slice instead.
type Fetcher interface {
	Fetch(ctx context.Context, expr plan.Expression, maxResults int) []types.RawEntry
}

// Crawler holds the collaborators of a run. Now and Sleep default to the
// wall clock and a context-aware timer.
type Crawler struct {
	Fetcher Fetcher
	Log     *zap.Logger
	Metrics *metrics.Recorder
	Now     func() time.Time
	Sleep   func(ctx context.Context, d time.Duration) error
}

// Run executes p and returns the resulting snapshot. The snapshot is not
// written; callers persist it. A cancelled context aborts the run and no
// snapshot is returned.
func (c *Crawler) Run(ctx context.Context, p plan.Plan, cfg types.CrawlConfig) (types.Snapshot, error) {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("generating run id: %w", err)
	}
	log := logging.OrNop(c.Log).With(zap.String("run_id", runID.String()))

	start := now()
	log.Info("crawl started",
		zap.Int("expressions", len(p.Expressions)),
		zap.Int("taxonomy", len(p.Taxonomy)),
		zap.Int("max_results", cfg.Fetch.MaxResults))

	set := rank.Merge()
	for i, expr := range p.Expressions {
		if i > 0 {
			if err := sleep(ctx, cfg.Fetch.Delay); err != nil {
				return types.Snapshot{}, fmt.Errorf("crawl canceled: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return types.Snapshot{}, fmt.Errorf("crawl canceled: %w", err)
		}

		entries := c.Fetcher.Fetch(ctx, expr, cfg.Fetch.MaxResults)
		before := set.Len()
		set = set.With(entries)
		log.Debug("merged expression",
			zap.String("expression", expr.Label),
			zap.Int("entries", len(entries)),
			zap.Int("new", set.Len()-before))
	}
	if err := ctx.Err(); err != nil {
		return types.Snapshot{}, fmt.Errorf("crawl canceled: %w", err)
	}

	c.Metrics.ObserveDuplicates(set.Dropped())
	papers := rank.ScoreAndRank(set.Entries(), p.Taxonomy, cfg.Rank.Cap)
	c.Metrics.ObserveRun(len(papers), now().Sub(start))

	log.Info("crawl finished",
		zap.Int("unique", set.Len()),
		zap.Int("duplicates", set.Dropped()),
		zap.Int("papers", len(papers)),
		zap.Duration("elapsed", now().Sub(start)))

	if len(papers) == 0 {
		return types.Snapshot{}, ErrNoPapers
	}
	return snapshot.New(papers, p.Taxonomy, now()), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
