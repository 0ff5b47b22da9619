package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"newslens/internal/config"
	"newslens/internal/issues"
	"newslens/internal/logger"
	"newslens/internal/tui"
)

// NewBrowseCmd creates the interactive issue browser command
func NewBrowseCmd() *cobra.Command {
	var sel articleSelection

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the issues of a period interactively",
		Long: `Extract issues the same way as the issues command and open them in a
terminal browser that lists each issue keyword with its member articles.

Examples:
  newslens browse --start 2024-03-01 --end 2024-03-07
  newslens browse --input articles.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			articles, err := sel.load(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if limit := cfg.Issues.MaxBatch; limit > 0 && len(articles) > limit {
				return fmt.Errorf("batch of %d articles exceeds issues.max_batch (%d); narrow the period or category", len(articles), limit)
			}

			tokenizer, err := newTokenizer(cfg.Tokenizer)
			if err != nil {
				return err
			}
			extractor, err := issues.NewExtractor(tokenizer, issuesConfig(cfg.Issues))
			if err != nil {
				return err
			}
			result, err := extractor.ExtractIssues(cmd.Context(), articles)
			if err != nil {
				return fmt.Errorf("issue extraction failed: %w", err)
			}
			logger.Info("Opening issue browser", "issues", len(result.Issues), "articles", len(articles))

			return tui.Run(result.Issues, articles)
		},
	}

	sel.bind(cmd)
	return cmd
}
