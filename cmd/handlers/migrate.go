package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newslens/internal/config"
	"newslens/internal/logger"
	"newslens/internal/persistence"
)

// NewMigrateCmd creates the migrate command for database migrations
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage PostgreSQL schema migrations",
		Long: `Manage the PostgreSQL schema of the article database.

Subcommands:
  up       Apply all pending migrations
  status   Show migration status

The migration system tracks applied migrations in the schema_migrations table
and applies new migrations in sequential order. The sqlite store creates its
schema on open and needs no migrations.

Examples:
  newslens migrate up
  newslens migrate status`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateUp(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateStatus(cmd)
		},
	})

	return cmd
}

func openPostgres() (*persistence.PostgresDB, error) {
	dbCfg := config.Get().Database
	if dbCfg.URL == "" {
		return nil, fmt.Errorf("database connection string not configured (set database.url in config or DATABASE_URL env var)")
	}
	db, err := persistence.NewPostgresDB(dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runMigrateUp(ctx context.Context) error {
	logger.Info("Starting database migration")

	db, err := openPostgres()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("All migrations applied successfully")
	return nil
}

func runMigrateStatus(cmd *cobra.Command) error {
	db, err := openPostgres()
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := persistence.NewMigrationManager(db).Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(status) == 0 {
		fmt.Fprintln(w, "No migrations found")
		return nil
	}

	fmt.Fprintf(w, "%-10s %-10s %s\n", "Version", "Status", "Description")

	pending := 0
	for _, m := range status {
		state := "applied"
		if !m.Applied {
			state = "pending"
			pending++
		}
		fmt.Fprintf(w, "%-10d %-10s %s\n", m.Version, state, m.Description)
	}

	fmt.Fprintf(w, "\nApplied: %d | Pending: %d | Total: %d\n", len(status)-pending, pending, len(status))
	if pending > 0 {
		fmt.Fprintln(w, "Run 'newslens migrate up' to apply pending migrations")
	}
	return nil
}
