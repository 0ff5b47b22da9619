package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"newslens/internal/config"
	"newslens/internal/ingest"
	"newslens/internal/render"
)

// NewImportCmd creates the archive import command
func NewImportCmd() *cobra.Command {
	var (
		batchSize   int
		validateIDs bool
	)

	cmd := &cobra.Command{
		Use:   "import <glob>",
		Short: "Import news archive CSV and Excel exports into the article database",
		Long: `Import every CSV or .xlsx file matching the glob pattern. Rows whose
뉴스식별자 is already stored are skipped, malformed rows are logged and counted,
and a file that cannot be read is reported without stopping the others.

일자 may be written as 2024-01-01 or 20240101. News ids of Excel files are
checked against the 언론사코드.YYYYMMDDHHmmSSnnn pattern (date-only ids are
completed with 000001, others rejected); --validate-ids applies the same check
to CSV files.

Examples:
  newslens import 'data/NewsResult_*.csv'
  newslens import 'data/*.xlsx'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			if !cmd.Flags().Changed("batch-size") {
				batchSize = cfg.Database.BatchSize
			}

			repo, err := openRepository(cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			stats, err := ingest.NewCSVImporter(repo, batchSize).WithIDValidation(validateIDs).ImportFiles(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return render.ImportStats(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", ingest.DefaultBatchSize, "rows committed per transaction")
	cmd.Flags().BoolVar(&validateIDs, "validate-ids", false, "check and repair news ids of CSV files too")

	return cmd
}
