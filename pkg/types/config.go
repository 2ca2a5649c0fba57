package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used for remote API requests.
type HTTPConfig struct {
	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with every request
	// (e.g. "paper-crawler/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetchConfig holds settings for the remote fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the max_results parameter sent per search expression.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Delay is the cool-down between consecutive expressions (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// Engine selects the transport: "http" or "colly".
	Engine string `json:"engine" yaml:"engine" mapstructure:"engine"`
}

// RankConfig holds settings for scoring and ranking.
type RankConfig struct {
	// Cap is the maximum number of papers kept in the snapshot.
	Cap int `json:"cap" yaml:"cap" mapstructure:"cap"`
}

// OutputConfig holds snapshot destination settings.
type OutputConfig struct {
	// Path is the snapshot file, overwritten on every run.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ReportConfig holds settings for the console digest.
type ReportConfig struct {
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`
}

// PlanConfig points at an optional YAML plan replacing the compiled-in one.
type PlanConfig struct {
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// MetricsConfig controls the optional Pushgateway export of run metrics.
type MetricsConfig struct {
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url" mapstructure:"pushgateway_url"`
	Job            string `json:"job" yaml:"job" mapstructure:"job"`
}

// CrawlConfig groups all settings for a crawl run.
type CrawlConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Rank    RankConfig    `json:"rank" yaml:"rank" mapstructure:"rank"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	Report  ReportConfig  `json:"report" yaml:"report" mapstructure:"report"`
	Plan    PlanConfig    `json:"plan" yaml:"plan" mapstructure:"plan"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// Validate rejects settings the crawler cannot run with.
func (c CrawlConfig) Validate() error {
	if c.Fetch.BaseURL == "" {
		return fmt.Errorf("fetch.base_url must be set")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Fetch.MaxResults <= 0 {
		return fmt.Errorf("fetch.max_results must be > 0")
	}
	if c.Fetch.Delay < 0 {
		return fmt.Errorf("fetch.delay must be >= 0")
	}
	switch c.Fetch.Engine {
	case "http", "colly":
	default:
		return fmt.Errorf("fetch.engine must be \"http\" or \"colly\", got %q", c.Fetch.Engine)
	}
	if c.Rank.Cap <= 0 {
		return fmt.Errorf("rank.cap must be > 0")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	return nil
}
