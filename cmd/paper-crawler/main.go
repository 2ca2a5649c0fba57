// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-crawler CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs one crawl. It needs no flags: every setting has a default.
var rootCmd = &cobra.Command{
	Use:   "paper-crawler",
	Short: "Aggregate recent arXiv papers on adaptive robot control",
	Long: `paper-crawler queries the arXiv export API with a fixed set of search
expressions, merges the results by arXiv identifier, scores each paper
against a keyword taxonomy, and writes the top papers to a JSON snapshot.

The snapshot file is replaced on every run. A short digest of the top
papers is printed to stdout; logs go to stderr.`,
	SilenceUsage: true,
	RunE:         runCrawl,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-crawler.yaml or ~/.config/paper-crawler/paper-crawler.yaml)")
	rootCmd.Flags().String("output", "", "snapshot file (default papers.json)")
	rootCmd.Flags().String("plan", "", "YAML plan replacing the built-in search expressions and taxonomy")

	bindFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
