// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics collects Prometheus metrics for a crawl run. A crawl is a
// batch job, so metrics live in a per-run registry that can be pushed to a
// Pushgateway when the run ends.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Fetch outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed_feed"
)

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "paper_crawler"

// Recorder holds the collectors for one run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	fetchesTotal     *prometheus.CounterVec
	fetchDuration    prometheus.Histogram
	entriesTotal     *prometheus.CounterVec
	duplicatesTotal  prometheus.Counter
	papersRanked     prometheus.Gauge
	runDuration      prometheus.Gauge
	lastSuccessStamp prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paper_crawler_fetches_total",
				Help: "Search expression fetches, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "paper_crawler_fetch_duration_seconds",
				Help:    "Latency of remote API requests.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		entriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paper_crawler_entries_total",
				Help: "Feed entries seen, labeled by parse result.",
			},
			[]string{"result"},
		),
		duplicatesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "paper_crawler_duplicates_total",
				Help: "Entries discarded as duplicates across search expressions.",
			},
		),
		papersRanked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "paper_crawler_papers_ranked",
				Help: "Papers in the final ranked snapshot.",
			},
		),
		runDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "paper_crawler_run_duration_seconds",
				Help: "Wall-clock duration of the last run.",
			},
		),
		lastSuccessStamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "paper_crawler_last_success_timestamp_seconds",
				Help: "Unix time of the last run that persisted a snapshot.",
			},
		),
	}
	r.registry.MustRegister(
		r.fetchesTotal,
		r.fetchDuration,
		r.entriesTotal,
		r.duplicatesTotal,
		r.papersRanked,
		r.runDuration,
		r.lastSuccessStamp,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveFetch records one fetch with its outcome and latency.
func (r *Recorder) ObserveFetch(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.fetchesTotal.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(d.Seconds())
}

// ObserveEntries records parse results for one response.
func (r *Recorder) ObserveEntries(parsed, untitled, skipped int) {
	if r == nil {
		return
	}
	r.entriesTotal.WithLabelValues("parsed").Add(float64(parsed))
	r.entriesTotal.WithLabelValues("untitled").Add(float64(untitled))
	r.entriesTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// ObserveDuplicates adds n discarded duplicates.
func (r *Recorder) ObserveDuplicates(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.duplicatesTotal.Add(float64(n))
}

// ObserveRun records the size of the ranked set and the run duration.
func (r *Recorder) ObserveRun(papers int, d time.Duration) {
	if r == nil {
		return
	}
	r.papersRanked.Set(float64(papers))
	r.runDuration.Set(d.Seconds())
}

// MarkSuccess records that a snapshot was persisted at t.
func (r *Recorder) MarkSuccess(t time.Time) {
	if r == nil {
		return
	}
	r.lastSuccessStamp.Set(float64(t.Unix()))
}

// PushTarget addresses a Pushgateway job. Username and Password enable
// basic auth when Username is set.
type PushTarget struct {
	URL      string
	Job      string
	Username string
	Password string
}

// Push sends all collected metrics to the Pushgateway, replacing the job's
// previous metrics.
func (r *Recorder) Push(ctx context.Context, target PushTarget) error {
	if r == nil {
		return nil
	}
	if target.URL == "" {
		return fmt.Errorf("pushgateway url is empty")
	}
	job := target.Job
	if job == "" {
		job = DefaultJob
	}
	pusher := push.New(target.URL, job).Gatherer(r.registry)
	if target.Username != "" {
		pusher = pusher.BasicAuth(target.Username, target.Password)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
