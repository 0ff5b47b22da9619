// Package persistence provides storage for the news_articles table
package persistence

import (
	"context"
	"time"

	"newslens/internal/core"
)

// ArticleRepository handles article persistence operations
type ArticleRepository interface {
	// SaveBatch inserts articles in one transaction, skipping ids that
	// already exist. It returns the number of rows inserted.
	SaveBatch(ctx context.Context, articles []core.Article) (int, error)

	// ExistingIDs reports which of ids are already stored
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)

	// ListByPeriod retrieves articles dated within [start, end] whose category
	// is one of categories. Empty categories match every article.
	ListByPeriod(ctx context.Context, start, end time.Time, categories []string) ([]core.Article, error)

	// ListAll retrieves every stored article
	ListAll(ctx context.Context) ([]core.Article, error)

	// Ping verifies the connection is alive
	Ping(ctx context.Context) error

	// Close closes the underlying connection
	Close() error
}
