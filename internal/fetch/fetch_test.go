// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/paper-crawler/internal/httputil"
	"github.com/pdiddy/paper-crawler/internal/metrics"
	"github.com/pdiddy/paper-crawler/internal/plan"
	"github.com/pdiddy/paper-crawler/pkg/types"
)

func atomFeed(ids ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><feed xmlns="http://www.w3.org/2005/Atom">`
	for _, id := range ids {
		body += fmt.Sprintf(`<entry><id>http://arxiv.org/abs/%s</id><title>Paper %s</title>`+
			`<summary>robot grasping</summary><published>2024-01-01T00:00:00Z</published>`+
			`<author><name>Author %s</name></author><category term="cs.RO"/></entry>`, id, id, id)
	}
	return body + `</feed>`
}

var testExpr = plan.Expression{Label: "test", Query: `cat:cs.RO AND abs:"adaptive control"`}

func testConfig() types.HTTPConfig {
	return types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "paper-crawler/test"}
}

func TestBuildURL(t *testing.T) {
	raw := BuildURL("https://export.arxiv.org/api/query", testExpr.Query, 50)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "export.arxiv.org", u.Host)
	assert.Equal(t, "/api/query", u.Path)
	q := u.Query()
	assert.Equal(t, testExpr.Query, q.Get("search_query"))
	assert.Equal(t, "0", q.Get("start"))
	assert.Equal(t, "50", q.Get("max_results"))
	assert.Equal(t, "submittedDate", q.Get("sortBy"))
	assert.Equal(t, "descending", q.Get("sortOrder"))
}

func TestFetch_Success(t *testing.T) {
	var gotQuery url.Values
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, atomFeed("2401.00001v1", "2401.00002v1"))
	}))
	defer ts.Close()

	rec := metrics.NewRecorder()
	f := New(NewHTTPTransport(testConfig()), ts.URL, nil, rec)
	entries := f.Fetch(context.Background(), testExpr, 25)

	require.Len(t, entries, 2)
	assert.Equal(t, "2401.00001v1", entries[0].ArxivID)
	assert.Equal(t, []string{"Author 2401.00001v1"}, entries[0].Authors)
	assert.Equal(t, testExpr.Query, gotQuery.Get("search_query"))
	assert.Equal(t, "25", gotQuery.Get("max_results"))
	assert.Equal(t, "paper-crawler/test", gotUA)

	assert.Equal(t, 1.0, fetchCount(t, rec, metrics.OutcomeOK))
}

// fetchCount reads the fetch counter for outcome from the recorder's registry.
func fetchCount(t *testing.T, rec *metrics.Recorder, outcome string) float64 {
	t.Helper()
	mfs, err := rec.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "paper_crawler_fetches_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestFetch_Non2xxReturnsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	rec := metrics.NewRecorder()
	f := New(NewHTTPTransport(testConfig()), ts.URL, zap.New(core), rec)

	entries := f.Fetch(context.Background(), testExpr, 10)
	assert.Empty(t, entries)
	assert.Equal(t, 1, logs.FilterMessage("fetch failed").Len())
	assert.Equal(t, 1.0, fetchCount(t, rec, metrics.OutcomeTransport))
}

func TestFetch_ConnectionRefusedReturnsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	f := New(NewHTTPTransport(testConfig()), base, nil, nil)
	assert.Empty(t, f.Fetch(context.Background(), testExpr, 10))
}

func TestFetch_TimeoutReturnsEmpty(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	f := New(NewHTTPTransport(types.HTTPConfig{Timeout: 50 * time.Millisecond}), ts.URL, nil, nil)
	assert.Empty(t, f.Fetch(context.Background(), testExpr, 10))
}

func TestFetch_MalformedFeedReturnsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>Rate exceeded.</body></html>")
	}))
	defer ts.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	rec := metrics.NewRecorder()
	f := New(NewHTTPTransport(testConfig()), ts.URL, zap.New(core), rec)

	assert.Empty(t, f.Fetch(context.Background(), testExpr, 10))
	assert.Equal(t, 1, logs.FilterMessage("discarding malformed feed").Len())
	assert.Equal(t, 1.0, fetchCount(t, rec, metrics.OutcomeMalformed))
}

func TestNew_DefaultBaseURL(t *testing.T) {
	f := New(NewHTTPTransport(testConfig()), "", nil, nil)
	assert.Equal(t, DefaultBaseURL, f.BaseURL)
	assert.NotNil(t, f.Log)
}

func TestNewTransport(t *testing.T) {
	tests := []struct {
		engine  string
		want    string
		wantErr bool
	}{
		{"", "http", false},
		{"http", "http", false},
		{"colly", "colly", false},
		{"chrome", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			tr, err := NewTransport(types.FetchConfig{HTTPConfig: testConfig(), Engine: tt.engine})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Name())
		})
	}
}

func TestHTTPTransport_DefaultUserAgent(t *testing.T) {
	tr := NewHTTPTransport(types.HTTPConfig{})
	assert.Equal(t, DefaultUserAgent, tr.UserAgent)
	assert.Equal(t, httputil.DefaultTimeout, tr.Client.Timeout)
}

func TestCollyTransport_Success(t *testing.T) {
	var gotUA string
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query()
		fmt.Fprint(w, atomFeed("2402.00001v1"))
	}))
	defer ts.Close()

	f := New(NewCollyTransport(testConfig()), ts.URL, nil, nil)
	entries := f.Fetch(context.Background(), testExpr, 5)

	require.Len(t, entries, 1)
	assert.Equal(t, "2402.00001v1", entries[0].ArxivID)
	assert.Equal(t, "paper-crawler/test", gotUA)
	assert.Equal(t, testExpr.Query, gotQuery.Get("search_query"))

	// A second visit of the same URL is not suppressed.
	assert.Len(t, f.Fetch(context.Background(), testExpr, 5), 1)
}

func TestCollyTransport_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewCollyTransport(testConfig()).Get(context.Background(), ts.URL)
	require.Error(t, err)
	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestCollyTransport_ContextCancelled(t *testing.T) {
	aborted := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(aborted)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewCollyTransport(testConfig()).Get(ctx, ts.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The in-flight request is abandoned with the context, well before the
	// collector's own request timeout.
	select {
	case <-aborted:
	case <-time.After(2 * time.Second):
		t.Fatal("request still in flight after context expired")
	}
}
