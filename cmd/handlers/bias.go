package handlers

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"newslens/internal/bias"
	"newslens/internal/config"
	"newslens/internal/render"
	"newslens/internal/sentiment"
)

// NewBiasCmd creates the press bias command
func NewBiasCmd() *cobra.Command {
	var (
		sel   articleSelection
		out   outputOptions
		topic string
	)

	cmd := &cobra.Command{
		Use:   "bias",
		Short: "Estimate press bias from ideology keyword usage",
		Long: `For every press outlet average the share of conservative and progressive
keywords its articles use. The bias index is conservative minus progressive.
Keywords and declared press leanings come from bias.lexicon_file when set.

Example:
  newslens bias --start 2024-03-01 --end 2024-03-31 --topic 부동산`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			lexicon := bias.DefaultLexicon()
			if cfg.Bias.LexiconFile != "" {
				l, err := bias.LoadLexicon(cfg.Bias.LexiconFile)
				if err != nil {
					return err
				}
				lexicon = l
			}

			articles, err := sel.load(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			rows := bias.NewAnalyzer(lexicon).PressBias(articles, topic)

			return out.write(cmd, func(w io.Writer) error {
				switch out.format {
				case formatJSON:
					return render.JSON(w, rows)
				case formatTable:
					return render.PressBias(w, rows)
				default:
					return fmt.Errorf("unknown format: %s", out.format)
				}
			})
		},
	}

	sel.bind(cmd)
	out.bind(cmd, "table or json")
	cmd.Flags().StringVar(&topic, "topic", "", "only articles whose title or content mentions this text")

	return cmd
}

// NewSentimentCmd creates the press sentiment command
func NewSentimentCmd() *cobra.Command {
	var (
		sel articleSelection
		out outputOptions
	)

	cmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Average lexicon sentiment per press outlet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			articles, err := sel.load(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			tokenizer, err := newTokenizer(cfg.Tokenizer)
			if err != nil {
				return err
			}
			rows, err := sentiment.NewSentimentAnalyzer(tokenizer).AnalyzeByPress(cmd.Context(), articles)
			if err != nil {
				return fmt.Errorf("sentiment analysis failed: %w", err)
			}

			return out.write(cmd, func(w io.Writer) error {
				switch out.format {
				case formatJSON:
					return render.JSON(w, rows)
				case formatTable:
					return render.PressSentiment(w, rows)
				default:
					return fmt.Errorf("unknown format: %s", out.format)
				}
			})
		},
	}

	sel.bind(cmd)
	out.bind(cmd, "table or json")

	return cmd
}
