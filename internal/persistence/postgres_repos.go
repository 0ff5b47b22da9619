package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"newslens/internal/core"
)

// postgresArticleRepo implements ArticleRepository for PostgreSQL
type postgresArticleRepo struct {
	db      *sql.DB
	queries Queries
}

var _ ArticleRepository = (*postgresArticleRepo)(nil)

func newPostgresArticleRepo(db *sql.DB) *postgresArticleRepo {
	return &postgresArticleRepo{db: db, queries: NewQueries(sq.Dollar)}
}

func (r *postgresArticleRepo) SaveBatch(ctx context.Context, articles []core.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	stmts, err := r.queries.Insert(articles)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, stmt := range stmts {
		res, err := stmt.RunWith(tx).ExecContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("insert articles: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit articles: %w", err)
	}
	return inserted, nil
}

// ExistingIDs returns a map with the ids that already exist in storage.
func (r *postgresArticleRepo) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query := `SELECT news_id FROM news_articles WHERE news_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.StringArray(ids))
	if err != nil {
		return nil, fmt.Errorf("query existing ids: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

func (r *postgresArticleRepo) ListByPeriod(ctx context.Context, start, end time.Time, categories []string) ([]core.Article, error) {
	return r.list(ctx, r.queries.ByPeriod(start, end, categories))
}

func (r *postgresArticleRepo) ListAll(ctx context.Context) ([]core.Article, error) {
	return r.list(ctx, r.queries.All())
}

func (r *postgresArticleRepo) list(ctx context.Context, query sq.SelectBuilder) ([]core.Article, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return ScanArticles(rows)
}

func (r *postgresArticleRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *postgresArticleRepo) Close() error {
	return r.db.Close()
}
