// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch queries the arXiv export API, one request per search
// expression, and hands the response to the feed parser. Failures are
// absorbed here: a failed expression contributes no entries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-crawler/internal/feed"
	"github.com/pdiddy/paper-crawler/internal/logging"
	"github.com/pdiddy/paper-crawler/internal/metrics"
	"github.com/pdiddy/paper-crawler/internal/plan"
	"github.com/pdiddy/paper-crawler/pkg/types"
)

// DefaultBaseURL is the arXiv search endpoint.
const DefaultBaseURL = "https://export.arxiv.org/api/query"

// DefaultUserAgent identifies the crawler to the remote service.
const DefaultUserAgent = "paper-crawler/0.1 (+https://github.com/pdiddy/paper-crawler)"

// Transport retrieves a response body for a URL. Non-2xx responses and
// transport failures are returned as errors.
type Transport interface {
	Name() string
	Get(ctx context.Context, url string) ([]byte, error)
}

// NewTransport builds the transport selected by cfg.Engine.
func NewTransport(cfg types.FetchConfig) (Transport, error) {
	switch cfg.Engine {
	case "", "http":
		return NewHTTPTransport(cfg.HTTPConfig), nil
	case "colly":
		return NewCollyTransport(cfg.HTTPConfig), nil
	default:
		return nil, fmt.Errorf("unknown fetch engine %q", cfg.Engine)
	}
}

// BuildURL returns the query URL for one search expression.
func BuildURL(base, searchQuery string, maxResults int) string {
	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	return base + "?" + params.Encode()
}

// Fetcher turns search expressions into parsed entries.
type Fetcher struct {
	Transport Transport
	BaseURL   string
	Log       *zap.Logger
	Metrics   *metrics.Recorder
}

// New returns a Fetcher using t against baseURL (DefaultBaseURL if empty).
func New(t Transport, baseURL string, log *zap.Logger, rec *metrics.Recorder) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		Transport: t,
		BaseURL:   baseURL,
		Log:       logging.OrNop(log),
		Metrics:   rec,
	}
}

// Fetch queries the API for expr and returns the parsed entries. Transport
// failures, non-2xx responses, and malformed feeds are logged and yield an
// empty result; Fetch never fails past this boundary.
func (f *Fetcher) Fetch(ctx context.Context, expr plan.Expression, maxResults int) []types.RawEntry {
	log := logging.OrNop(f.Log).With(zap.String("expression", expr.Label))
	u := BuildURL(f.BaseURL, expr.Query, maxResults)

	start := time.Now()
	body, err := f.Transport.Get(ctx, u)
	elapsed := time.Since(start)
	if err != nil {
		f.Metrics.ObserveFetch(metrics.OutcomeTransport, elapsed)
		log.Warn("fetch failed",
			zap.String("url", u),
			zap.String("transport", f.Transport.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil
	}

	entries, stats, err := feed.Parse(body, log)
	if err != nil {
		f.Metrics.ObserveFetch(metrics.OutcomeMalformed, elapsed)
		log.Warn("discarding malformed feed",
			zap.String("url", u),
			zap.Int("bytes", len(body)),
			zap.Bool("malformed", errors.Is(err, feed.ErrMalformedFeed)),
			zap.Error(err))
		return nil
	}

	f.Metrics.ObserveFetch(metrics.OutcomeOK, elapsed)
	f.Metrics.ObserveEntries(stats.Parsed, stats.Untitled, stats.Skipped)
	log.Info("fetched expression",
		zap.Int("entries", len(entries)),
		zap.Int("skipped", stats.Skipped),
		zap.Int("untitled", stats.Untitled),
		zap.Duration("elapsed", elapsed))
	return entries
}
