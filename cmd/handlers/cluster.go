package handlers

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"newslens/internal/clustering"
	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/logger"
	"newslens/internal/render"
)

// clusterReport is the JSON shape of the cluster command.
type clusterReport struct {
	Articles []core.ClusteredArticle `json:"articles"`
	Summary  []core.ClusterSummary   `json:"summary"`
	Windows  int                     `json:"windows"`
	Dropped  int                     `json:"dropped"`
	Noise    int                     `json:"noise"`
}

// NewClusterCmd creates the same-story clustering command
func NewClusterCmd() *cobra.Command {
	var (
		sel        articleSelection
		out        outputOptions
		eps        float64
		minSamples int
		windowDays int
	)

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group articles that report the same story",
		Long: `Split articles into consecutive windows of --window-days days, embed each
window in one batch and run DBSCAN inside it. Articles labelled noise are left
out; the others get a cluster id of the form cluster_<window>_<label>.

Examples:
  newslens cluster --input articles.json
  newslens cluster --start 2024-03-01 --end 2024-03-31 --category 사회 -f csv -o clusters.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			dbscanCfg := clusteringConfig(cfg.Clustering)
			if cmd.Flags().Changed("eps") {
				dbscanCfg.Eps = eps
			}
			if cmd.Flags().Changed("min-samples") {
				dbscanCfg.MinSamples = minSamples
			}
			if cmd.Flags().Changed("window-days") {
				dbscanCfg.WindowDays = windowDays
			}

			articles, err := sel.load(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			logger.Info("Loaded articles", "count", len(articles))

			embedder, closeEmbedder, err := newEmbedder(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeEmbedder()

			clusterer, err := clustering.NewArticleClusterer(embedder, dbscanCfg)
			if err != nil {
				return err
			}
			result, err := clusterer.ClusterArticles(cmd.Context(), articles)
			if err != nil {
				return fmt.Errorf("clustering failed: %w", err)
			}

			report := clusterReport{
				Articles: result.Articles,
				Summary:  clustering.AnalyzeClusters(result.Articles),
				Windows:  result.Windows,
				Dropped:  result.Dropped,
				Noise:    result.Noise,
			}
			return out.write(cmd, func(w io.Writer) error {
				switch out.format {
				case formatJSON:
					return render.JSON(w, report)
				case formatCSV:
					return render.ClusteredCSV(w, report.Articles)
				case formatTable:
					return render.ClusterSummaries(w, report.Summary)
				default:
					return fmt.Errorf("unknown format: %s", out.format)
				}
			})
		},
	}

	sel.bind(cmd)
	out.bind(cmd, "table, json or csv")
	cmd.Flags().Float64Var(&eps, "eps", 0, "DBSCAN neighbourhood radius (default from config)")
	cmd.Flags().IntVar(&minSamples, "min-samples", 0, "points required for a core point (default from config)")
	cmd.Flags().IntVar(&windowDays, "window-days", 0, "temporal window size in days (default from config)")

	return cmd
}

func clusteringConfig(c config.Clustering) clustering.DBSCANConfig {
	return clustering.DBSCANConfig{
		Eps:           c.Eps,
		MinSamples:    c.MinSamples,
		WindowDays:    c.WindowDays,
		Metric:        c.Metric,
		Normalize:     c.Normalize,
		ContentPrefix: c.ContentPrefix,
	}
}
