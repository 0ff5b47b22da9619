package clustering

import (
	"context"
	"fmt"

	"newslens/internal/core"
	"newslens/internal/logger"
	"newslens/internal/nlp"
)

// Supported distance metrics.
const (
	MetricEuclidean = "euclidean"
	MetricCosine    = "cosine"
)

// DBSCANConfig holds configuration for windowed article clustering
type DBSCANConfig struct {
	Eps           float64 // Neighbourhood radius in embedding space
	MinSamples    int     // Points (self included) required for a core point
	WindowDays    int     // Temporal window size in days
	Metric        string  // "euclidean" or "cosine"
	Normalize     bool    // L2-normalise embeddings before measuring distance
	ContentPrefix int     // Runes of content appended to the title for embedding
}

// DefaultDBSCANConfig returns the defaults for same-story detection
func DefaultDBSCANConfig() DBSCANConfig {
	return DBSCANConfig{
		Eps:           0.3,
		MinSamples:    2,
		WindowDays:    3,
		Metric:        MetricEuclidean,
		Normalize:     true,
		ContentPrefix: 200,
	}
}

// Result is the outcome of one clustering run.
type Result struct {
	Articles []core.ClusteredArticle // Non-noise articles in window order
	Windows  int                     // Number of non-empty windows
	Dropped  int                     // Articles skipped for unparseable timestamps
	Noise    int                     // Articles labelled noise and excluded
}

// ArticleClusterer groups articles that report the same story. It embeds each
// temporal window in one batch and runs DBSCAN inside the window.
type ArticleClusterer struct {
	embedder nlp.Embedder
	config   DBSCANConfig
}

// NewArticleClusterer creates a clusterer; the embedder is shared by reference.
func NewArticleClusterer(embedder nlp.Embedder, config DBSCANConfig) (*ArticleClusterer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if config.Eps <= 0 {
		return nil, fmt.Errorf("eps must be positive, got %v", config.Eps)
	}
	if config.MinSamples < 1 {
		return nil, fmt.Errorf("min samples must be at least 1, got %d", config.MinSamples)
	}
	if config.WindowDays <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, config.WindowDays)
	}
	switch config.Metric {
	case "":
		config.Metric = MetricEuclidean
	case MetricEuclidean, MetricCosine:
	default:
		return nil, fmt.Errorf("unknown distance metric: %s", config.Metric)
	}
	if config.ContentPrefix < 0 {
		config.ContentPrefix = 0
	}
	return &ArticleClusterer{embedder: embedder, config: config}, nil
}

// ClusterArticles windows the articles by publication time and clusters each
// window. Noise articles are left out of the result.
func (c *ArticleClusterer) ClusterArticles(ctx context.Context, articles []core.Article) (*Result, error) {
	windows, dropped, err := GroupByWindow(articles, c.config.WindowDays)
	if err != nil {
		return nil, err
	}

	result := &Result{Dropped: dropped}
	dbscan := DBSCAN{Eps: c.config.Eps, MinSamples: c.config.MinSamples, Distance: c.distance()}

	for windowIndex, window := range windows {
		texts := make([]string, len(window))
		for i, article := range window {
			texts[i] = EmbeddingText(article, c.config.ContentPrefix)
		}

		embeddings, err := c.embedder.Encode(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed window %d: %w", windowIndex, err)
		}
		if len(embeddings) != len(window) {
			return nil, fmt.Errorf("window %d: %w: sent %d, got %d", windowIndex, nlp.ErrLengthMismatch, len(window), len(embeddings))
		}
		if c.config.Normalize {
			for i := range embeddings {
				embeddings[i] = nlp.Normalize(append([]float64(nil), embeddings[i]...))
			}
		}

		labels := dbscan.Fit(embeddings)

		clusters := make(map[int]struct{})
		for i, label := range labels {
			if label == Noise {
				result.Noise++
				continue
			}
			clusters[label] = struct{}{}
			result.Articles = append(result.Articles, core.ClusteredArticle{
				Article:     window[i],
				ClusterID:   ClusterID(windowIndex, label),
				WindowIndex: windowIndex,
				Label:       label,
			})
		}

		logger.Debug("Clustered window",
			"window", windowIndex,
			"articles", len(window),
			"clusters", len(clusters))
	}
	result.Windows = len(windows)

	logger.Info("Article clustering complete",
		"articles", len(articles),
		"windows", result.Windows,
		"clustered", len(result.Articles),
		"noise", result.Noise,
		"dropped", result.Dropped)

	return result, nil
}

func (c *ArticleClusterer) distance() DistanceFunc {
	if c.config.Metric == MetricCosine {
		return cosineDistance
	}
	return euclideanDistance
}

// ClusterID builds the composite identifier of a local cluster label.
func ClusterID(windowIndex, label int) string {
	return fmt.Sprintf("cluster_%d_%d", windowIndex, label)
}

// EmbeddingText is the text embedded for an article: the title followed by
// the first prefix runes of the content.
func EmbeddingText(article core.Article, prefix int) string {
	content := []rune(article.Content)
	if len(content) > prefix {
		content = content[:prefix]
	}
	return article.Title + " " + string(content)
}
