// Package issues extracts the main issues of a period: groups of articles
// whose TF-IDF vectors are similar, each named after its strongest term.
package issues

import (
	"context"
	"fmt"

	"newslens/internal/core"
	"newslens/internal/logger"
	"newslens/internal/nlp"
)

// Config holds configuration for issue extraction
type Config struct {
	SimilarityThreshold float64 // Cosine similarity a pair must exceed to be linked
	NIssues             int     // Maximum number of distinct issue keywords
	MinDF               int     // Minimum document frequency of a vocabulary term
	MaxDF               float64 // Maximum document frequency ratio of a vocabulary term
	Transitive          bool    // Group whole connected components
}

// DefaultConfig returns the default issue extraction settings
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.3,
		NIssues:             10,
		MinDF:               2,
		MaxDF:               0.9,
	}
}

// Result is the outcome of one extraction run.
type Result struct {
	Issues     []core.Issue // One group per keyword, in first-seen order
	Documents  int
	Vocabulary int
}

// Map returns the keyword -> article ids mapping.
func (r *Result) Map() map[string][]string {
	return core.IssueMap(r.Issues)
}

// Extractor groups a filtered batch of articles into issues.
type Extractor struct {
	tokenizer nlp.Tokenizer
	config    Config
}

// NewExtractor creates an issue extractor.
func NewExtractor(tokenizer nlp.Tokenizer, config Config) (*Extractor, error) {
	if tokenizer == nil {
		return nil, fmt.Errorf("tokenizer is required")
	}
	if config.NIssues < 1 {
		return nil, fmt.Errorf("n issues must be at least 1, got %d", config.NIssues)
	}
	if config.MinDF < 1 {
		config.MinDF = 1
	}
	if config.MaxDF <= 0 || config.MaxDF > 1 {
		return nil, fmt.Errorf("max df must be in (0, 1], got %v", config.MaxDF)
	}
	return &Extractor{tokenizer: tokenizer, config: config}, nil
}

// ExtractIssues groups articles that are more similar than the threshold and
// names each group by the top term of its mean vector. The batch should be
// filtered by period and category first; similarity is quadratic in its size.
// An empty batch yields an empty result.
func (e *Extractor) ExtractIssues(ctx context.Context, articles []core.Article) (*Result, error) {
	result := &Result{Documents: len(articles)}
	if len(articles) == 0 {
		return result, nil
	}

	texts := make([]string, len(articles))
	for i, article := range articles {
		texts[i] = article.Title + " " + article.Content
	}

	vectorizer := NewVectorizer(e.tokenizer, e.config.MinDF, e.config.MaxDF)
	matrix, err := vectorizer.FitTransform(ctx, texts)
	if err != nil {
		return nil, err
	}
	result.Vocabulary = len(matrix.Vocabulary)
	if matrix.Weights == nil {
		logger.Warn("No vocabulary terms left after document frequency pruning",
			"documents", len(articles),
			"min_df", e.config.MinDF,
			"max_df", e.config.MaxDF)
		return result, nil
	}

	grouper := Grouper{Threshold: e.config.SimilarityThreshold, Transitive: e.config.Transitive}
	// keyword -> position in result.Issues
	index := make(map[string]int)
	shadowed := 0

	grouper.Groups(matrix.CosineSimilarity(), func(members []int) bool {
		keyword := matrix.TopTerm(matrix.Centroid(members))
		ids := make([]string, len(members))
		for i, doc := range members {
			ids[i] = articles[doc].ID
		}
		issue := core.Issue{Keyword: keyword, ArticleIDs: ids}

		// A later group with the same keyword replaces the earlier one.
		if pos, seen := index[keyword]; seen {
			logger.Debug("Group replaces earlier group with the same keyword",
				"keyword", keyword,
				"replaced", len(result.Issues[pos].ArticleIDs),
				"members", len(ids))
			result.Issues[pos] = issue
			shadowed++
			return true
		}
		index[keyword] = len(result.Issues)
		result.Issues = append(result.Issues, issue)
		return len(result.Issues) < e.config.NIssues
	})

	logger.Info("Issue extraction complete",
		"documents", result.Documents,
		"vocabulary", result.Vocabulary,
		"issues", len(result.Issues),
		"shadowed", shadowed)

	return result, nil
}
