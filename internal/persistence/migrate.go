package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"newslens/internal/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = "schema_migrations"

// Migration is one embedded schema change, e.g. 001_create_news_articles.sql.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// MigrationStatus reports whether a migration has been applied.
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
}

// MigrationManager applies the embedded migrations to a Postgres database.
type MigrationManager struct {
	db      *PostgresDB
	builder sq.StatementBuilderType
}

// NewMigrationManager creates a migration manager for db.
func NewMigrationManager(db *PostgresDB) *MigrationManager {
	return &MigrationManager{db: db, builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Migrate applies every pending migration, each in its own transaction.
func (m *MigrationManager) Migrate(ctx context.Context) error {
	status, err := m.Status(ctx)
	if err != nil {
		return err
	}
	migrations, err := LoadMigrations()
	if err != nil {
		return err
	}

	pending := Pending(migrations, status)
	if len(pending) == 0 {
		logger.Debug("No pending migrations")
		return nil
	}
	logger.Info("Found pending migrations", "count", len(pending))

	for _, migration := range pending {
		if err := m.apply(ctx, migration); err != nil {
			return fmt.Errorf("migration %03d (%s): %w", migration.Version, migration.Description, err)
		}
	}

	logger.Info("Migrations applied", "count", len(pending))
	return nil
}

// Status lists every embedded migration with its applied flag.
func (m *MigrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	if _, err := m.db.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
		version INT PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return nil, fmt.Errorf("create %s: %w", migrationsTable, err)
	}

	query, args, err := m.builder.Select("version").From(migrationsTable).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := m.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	migrations, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	return statusOf(migrations, applied), nil
}

func (m *MigrationManager) apply(ctx context.Context, migration Migration) error {
	logger.Info("Applying migration", "version", migration.Version, "description", migration.Description)

	record, args, err := m.builder.Insert(migrationsTable).
		Columns("version", "description").
		Values(migration.Version, migration.Description).
		Suffix("ON CONFLICT (version) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}

	tx, err := m.db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}

// LoadMigrations returns the embedded migrations in version order.
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, description, ok := parseMigrationName(entry.Name())
		if !ok {
			logger.Warn("Ignoring file in migrations directory", "file", entry.Name())
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Description: description, SQL: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationName splits "001_create_news_articles.sql" into 1 and
// "create news articles".
func parseMigrationName(name string) (int, string, bool) {
	base, isSQL := strings.CutSuffix(name, ".sql")
	if !isSQL {
		return 0, "", false
	}
	num, rest, found := strings.Cut(base, "_")
	if !found || rest == "" {
		return 0, "", false
	}
	version, err := strconv.Atoi(num)
	if err != nil || version < 1 {
		return 0, "", false
	}
	return version, strings.ReplaceAll(rest, "_", " "), true
}

func statusOf(migrations []Migration, applied map[int]bool) []MigrationStatus {
	status := make([]MigrationStatus, len(migrations))
	for i, mig := range migrations {
		status[i] = MigrationStatus{Version: mig.Version, Description: mig.Description, Applied: applied[mig.Version]}
	}
	return status
}

// Pending returns the migrations not marked applied in status.
func Pending(migrations []Migration, status []MigrationStatus) []Migration {
	done := make(map[int]bool, len(status))
	for _, s := range status {
		done[s.Version] = s.Applied
	}
	var pending []Migration
	for _, mig := range migrations {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending
}
