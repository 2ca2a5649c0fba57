// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-crawler/internal/fetch"
	"github.com/pdiddy/paper-crawler/internal/metrics"
	"github.com/pdiddy/paper-crawler/pkg/types"
)

const (
	configName = "paper-crawler"
	envPrefix  = "PAPER_CRAWLER"
)

// setDefaults registers every configuration key so that env overrides and
// Unmarshal see keys that no config file mentions.
func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.base_url", fetch.DefaultBaseURL)
	v.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.delay", time.Second)
	v.SetDefault("fetch.max_results", 50)
	v.SetDefault("fetch.engine", "http")
	v.SetDefault("rank.cap", 25)
	v.SetDefault("output.path", "papers.json")
	v.SetDefault("report.top_n", 5)
	v.SetDefault("plan.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", metrics.DefaultJob)
}

// configureViper wires defaults, the config file search path, and the
// environment into v.
func configureViper(v *viper.Viper, cfgFile string) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	configureViper(viper.GetViper(), cfgFile)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

// bindFlags maps the root command's flags onto their configuration keys.
func bindFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("plan.file", cmd.Flags().Lookup("plan"))
}

// loadConfig decodes v into a validated CrawlConfig.
func loadConfig(v *viper.Viper) (types.CrawlConfig, error) {
	var cfg types.CrawlConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.CrawlConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.CrawlConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
