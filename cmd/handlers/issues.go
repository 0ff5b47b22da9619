package handlers

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/issues"
	"newslens/internal/logger"
	"newslens/internal/render"
)

// NewIssuesCmd creates the issue extraction command
func NewIssuesCmd() *cobra.Command {
	var (
		sel        articleSelection
		out        outputOptions
		nIssues    int
		threshold  float64
		transitive bool
	)

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Extract the main issues of a period and category",
		Long: `Build TF-IDF vectors of the nouns of each article, link pairs whose cosine
similarity exceeds the threshold and emit groups from the best connected
article down, each named after the top term of its mean vector.

Similarity is quadratic in the batch size, so narrow the batch with --start,
--end and --category. Batches over issues.max_batch are refused.

Examples:
  newslens issues --start 2024-03-01 --end 2024-03-07 --category 정치
  newslens issues --input articles.json --n-issues 5 -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			issueCfg := issuesConfig(cfg.Issues)
			if cmd.Flags().Changed("n-issues") {
				issueCfg.NIssues = nIssues
			}
			if cmd.Flags().Changed("threshold") {
				issueCfg.SimilarityThreshold = threshold
			}
			if cmd.Flags().Changed("transitive") {
				issueCfg.Transitive = transitive
			}

			articles, err := sel.load(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if limit := cfg.Issues.MaxBatch; limit > 0 && len(articles) > limit {
				return fmt.Errorf("batch of %d articles exceeds issues.max_batch (%d); narrow the period or category", len(articles), limit)
			}
			logger.Info("Loaded articles", "count", len(articles))

			tokenizer, err := newTokenizer(cfg.Tokenizer)
			if err != nil {
				return err
			}
			extractor, err := issues.NewExtractor(tokenizer, issueCfg)
			if err != nil {
				return err
			}
			result, err := extractor.ExtractIssues(cmd.Context(), articles)
			if err != nil {
				return fmt.Errorf("issue extraction failed: %w", err)
			}

			return out.write(cmd, func(w io.Writer) error {
				switch out.format {
				case formatJSON:
					return render.JSON(w, result.Map())
				case formatTable:
					return render.Issues(w, result.Issues, titleIndex(articles))
				default:
					return fmt.Errorf("unknown format: %s", out.format)
				}
			})
		},
	}

	sel.bind(cmd)
	out.bind(cmd, "table or json")
	cmd.Flags().IntVarP(&nIssues, "n-issues", "n", 0, "number of distinct issue keywords (default from config)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "cosine similarity a pair must exceed (default from config)")
	cmd.Flags().BoolVar(&transitive, "transitive", false, "group whole connected components instead of direct neighbours")

	return cmd
}

func issuesConfig(c config.Issues) issues.Config {
	return issues.Config{
		SimilarityThreshold: c.SimilarityThreshold,
		NIssues:             c.NIssues,
		MinDF:               c.MinDF,
		MaxDF:               c.MaxDF,
		Transitive:          c.Transitive,
	}
}

func titleIndex(articles []core.Article) map[string]string {
	titles := make(map[string]string, len(articles))
	for _, a := range articles {
		titles[a.ID] = a.Title
	}
	return titles
}
