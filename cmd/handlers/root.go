/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newslens/internal/config"
	"newslens/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newslens",
		Short: "Group Korean news articles into stories and issues",
		Long: `newslens groups a corpus of news articles two ways:

  • cluster: same-story detection with sentence embeddings and DBSCAN,
    run inside consecutive temporal windows
  • issues:  main-issue extraction for a period and category with TF-IDF
    noun vectors and cosine similarity

Articles come from a JSON file (--input) or from the article database,
which is filled with 'newslens import' (CSV exports) or 'newslens collect'
(press RSS feeds).

Examples:
  # Import archive exports into the local database
  newslens import 'data/*.csv'

  # Same-story clusters of a JSON batch
  newslens cluster --input articles.json

  # Top issues of a week of politics coverage
  newslens issues --start 2024-03-01 --end 2024-03-07 --category 정치`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .newslens.yaml in . or $HOME)")

	rootCmd.AddCommand(NewClusterCmd())
	rootCmd.AddCommand(NewIssuesCmd())
	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewCollectCmd())
	rootCmd.AddCommand(NewBiasCmd())
	rootCmd.AddCommand(NewSentimentCmd())
	rootCmd.AddCommand(NewStatsCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewMigrateCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initConfig loads configuration and configures the logger from it.
func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if cfg.App.Debug {
		level = "debug"
	}
	logger.Configure(level, cfg.Logging.Format, os.Stderr)
	return nil
}
