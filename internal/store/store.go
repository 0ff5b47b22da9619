package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"newslens/internal/core"
	"newslens/internal/persistence"
)

// Store is a local SQLite article store with the same schema as the
// Postgres news_articles table.
type Store struct {
	db      *sql.DB
	path    string
	queries persistence.Queries
}

var _ persistence.ArticleRepository = (*Store)(nil)

// NewStore opens (and creates if needed) the SQLite database at dbPath
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:      db,
		path:    dbPath,
		queries: persistence.NewQueries(sq.Question),
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	articlesTable := `
	CREATE TABLE IF NOT EXISTS news_articles (
		news_id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		media TEXT,
		author TEXT,
		title TEXT,
		category1 TEXT,
		category2 TEXT,
		category3 TEXT,
		people TEXT,
		location TEXT,
		organization TEXT,
		keywords TEXT,
		characteristics TEXT,
		content TEXT,
		source TEXT,
		url TEXT
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_news_articles_date ON news_articles (date);`,
		`CREATE INDEX IF NOT EXISTS idx_news_articles_category1 ON news_articles (category1, date);`,
	}

	for _, stmt := range append([]string{articlesTable}, indexes...) {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch inserts articles in one transaction; existing ids are skipped
func (s *Store) SaveBatch(ctx context.Context, articles []core.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	stmts, err := s.queries.Insert(articles)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
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
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit articles: %w", err)
	}
	return inserted, nil
}

// ExistingIDs reports which of ids are already stored
func (s *Store) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	const chunk = 500
	for start := 0; start < len(ids); start += chunk {
		end := min(start+chunk, len(ids))

		sqlStr, args, err := s.queries.IDsIn(ids[start:end]).ToSql()
		if err != nil {
			return nil, err
		}
		rows, err := s.db.QueryContext(ctx, sqlStr, args...)
		if err != nil {
			return nil, fmt.Errorf("query existing ids: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan id: %w", err)
			}
			result[id] = true
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListByPeriod retrieves articles dated within [start, end]
func (s *Store) ListByPeriod(ctx context.Context, start, end time.Time, categories []string) ([]core.Article, error) {
	return s.list(ctx, s.queries.ByPeriod(start, end, categories))
}

// ListAll retrieves every stored article
func (s *Store) ListAll(ctx context.Context) ([]core.Article, error) {
	return s.list(ctx, s.queries.All())
}

func (s *Store) list(ctx context.Context, query sq.SelectBuilder) ([]core.Article, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return persistence.ScanArticles(rows)
}

// GetStats returns the number of stored articles per press, most first
func (s *Store) GetStats(ctx context.Context) ([]core.PressCount, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT COALESCE(media, ''), COUNT(*) FROM news_articles
	GROUP BY media ORDER BY COUNT(*) DESC, media`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []core.PressCount
	for rows.Next() {
		var pc core.PressCount
		if err := rows.Scan(&pc.Press, &pc.Count); err != nil {
			return nil, err
		}
		stats = append(stats, pc)
	}
	return stats, rows.Err()
}
