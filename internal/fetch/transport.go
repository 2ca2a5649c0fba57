// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/pdiddy/paper-crawler/internal/httputil"
	"github.com/pdiddy/paper-crawler/pkg/types"
)

// HTTPTransport fetches with a plain net/http client.
type HTTPTransport struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPTransport returns an HTTPTransport with cfg's timeout and agent.
func NewHTTPTransport(cfg types.HTTPConfig) *HTTPTransport {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &HTTPTransport{
		Client:    httputil.NewClient(cfg.Timeout),
		UserAgent: ua,
	}
}

// Name returns the transport identifier.
func (t *HTTPTransport) Name() string { return "http" }

// Get performs the request.
func (t *HTTPTransport) Get(ctx context.Context, url string) ([]byte, error) {
	return httputil.Get(ctx, t.Client, url, t.UserAgent)
}

// CollyTransport fetches through a gocolly collector. A fresh collector is
// built per request so no visited-URL state leaks between runs.
type CollyTransport struct {
	UserAgent string
	Timeout   time.Duration
	transport http.RoundTripper
}

// NewCollyTransport returns a CollyTransport with cfg's timeout and agent.
func NewCollyTransport(cfg types.HTTPConfig) *CollyTransport {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = httputil.DefaultTimeout
	}
	return &CollyTransport{
		UserAgent: ua,
		Timeout:   timeout,
		transport: httputil.NewTransport(),
	}
}

// Name returns the transport identifier.
func (t *CollyTransport) Name() string { return "colly" }

// Get performs the request.
func (t *CollyTransport) Get(ctx context.Context, url string) ([]byte, error) {
	c := colly.NewCollector(colly.Async(false), colly.StdlibContext(ctx))
	c.UserAgent = t.UserAgent
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(t.Timeout)
	c.WithTransport(t.transport)

	var (
		body     []byte
		status   int
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("colly fetch canceled: %w", ctxErr)
		}
		if err != nil {
			return nil, fmt.Errorf("colly visit: %w", err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("colly response: %w", fetchErr)
		}
		if !httputil.IsSuccess(status) {
			return nil, &httputil.StatusError{StatusCode: status, URL: url}
		}
		return body, nil
	}
}
