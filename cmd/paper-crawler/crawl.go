// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-crawler/internal/crawler"
	"github.com/pdiddy/paper-crawler/internal/fetch"
	"github.com/pdiddy/paper-crawler/internal/logging"
	"github.com/pdiddy/paper-crawler/internal/metrics"
	"github.com/pdiddy/paper-crawler/internal/plan"
	"github.com/pdiddy/paper-crawler/internal/report"
	"github.com/pdiddy/paper-crawler/internal/secrets"
	"github.com/pdiddy/paper-crawler/internal/snapshot"
	"github.com/pdiddy/paper-crawler/pkg/types"
)

// pushTimeout bounds the Pushgateway export at the end of a run.
const pushTimeout = 10 * time.Second

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return crawl(ctx, cfg, log, cmd.OutOrStdout())
}

// crawl runs the pipeline with cfg, persists the snapshot, and prints the
// digest to out. It returns an error when nothing was persisted.
func crawl(ctx context.Context, cfg types.CrawlConfig, log *zap.Logger, out io.Writer) error {
	p, err := plan.Resolve(cfg.Plan.File)
	if err != nil {
		return err
	}

	transport, err := fetch.NewTransport(cfg.Fetch)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	c := &crawler.Crawler{
		Fetcher: fetch.New(transport, cfg.Fetch.BaseURL, log, rec),
		Log:     log,
		Metrics: rec,
	}

	snap, err := c.Run(ctx, p, cfg)
	if err == nil {
		err = persist(snap, cfg, rec, log, out)
	}
	if err != nil {
		log.Error("crawl failed", zap.Error(err))
	}

	pushMetrics(rec, cfg.Metrics, log)
	return err
}

func persist(snap types.Snapshot, cfg types.CrawlConfig, rec *metrics.Recorder, log *zap.Logger, out io.Writer) error {
	if err := snapshot.Write(snap, cfg.Output.Path); err != nil {
		return err
	}
	rec.MarkSuccess(time.Now())
	log.Info("snapshot written",
		zap.String("path", cfg.Output.Path),
		zap.Int("papers", snap.TotalPapers))

	fmt.Fprint(out, report.Summarize(snap.Papers, cfg.Report.TopN))
	return nil
}

// pushMetrics exports run metrics when a Pushgateway is configured. Push
// failures are logged only. Credentials come from the secrets directory.
func pushMetrics(rec *metrics.Recorder, cfg types.MetricsConfig, log *zap.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	creds := secrets.Pushgateway(secrets.DefaultDir, log)

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	target := metrics.PushTarget{
		URL:      cfg.PushgatewayURL,
		Job:      cfg.Job,
		Username: creds.Username,
		Password: creds.Password,
	}
	if err := rec.Push(ctx, target); err != nil {
		log.Warn("metrics push failed", zap.String("url", cfg.PushgatewayURL), zap.Error(err))
		return
	}
	log.Debug("metrics pushed", zap.String("url", cfg.PushgatewayURL))
}
