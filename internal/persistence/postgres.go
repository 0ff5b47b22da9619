package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// PostgresDB holds a Postgres connection pool
type PostgresDB struct {
	db       *sql.DB
	articles *postgresArticleRepo
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newPostgresDB(db), nil
}

func newPostgresDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db, articles: newPostgresArticleRepo(db)}
}

// Articles returns the article repository
func (p *PostgresDB) Articles() ArticleRepository { return p.articles }

// Migrate applies pending schema migrations
func (p *PostgresDB) Migrate(ctx context.Context) error {
	return NewMigrationManager(p).Migrate(ctx)
}

func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
