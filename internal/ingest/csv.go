// Package ingest bulk-loads news article exports into an article repository.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"newslens/internal/core"
	"newslens/internal/logger"
	"newslens/internal/persistence"
)

// Column names of the news archive export.
const (
	ColumnDate      = "일자"
	ColumnID        = "뉴스식별자"
	ColumnIDSpaced  = "뉴스 식별자" // spelling used by the spreadsheet exports
	ColumnPress     = "언론사"
	ColumnAuthor    = "기고자"
	ColumnTitle     = "제목"
	ColumnCategory1 = "분류1"
	ColumnCategory2 = "분류2"
	ColumnCategory3 = "분류3"
	ColumnContent   = "본문"
	ColumnSource    = "출처"
	ColumnURL       = "URL"
)

// DefaultBatchSize is the number of rows committed per transaction.
const DefaultBatchSize = 1000

// ErrNoFiles is returned when a pattern matches no files.
var ErrNoFiles = errors.New("no CSV files matched")

// ImportStats counts the outcome of an import.
type ImportStats struct {
	Files    int `json:"files"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"` // Rows whose id is already stored
	Failed   int `json:"failed"`  // Malformed rows
}

func (s *ImportStats) add(o ImportStats) {
	s.Files += o.Files
	s.Imported += o.Imported
	s.Skipped += o.Skipped
	s.Failed += o.Failed
}

// CSVImporter loads CSV and Excel exports into a repository.
type CSVImporter struct {
	repo        persistence.ArticleRepository
	batchSize   int
	validateIDs bool
}

// NewCSVImporter creates an importer committing every batchSize rows.
func NewCSVImporter(repo persistence.ArticleRepository, batchSize int) *CSVImporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &CSVImporter{repo: repo, batchSize: batchSize}
}

// WithIDValidation makes CSV imports check news ids with NormalizeNewsID.
// Excel imports always do.
func (c *CSVImporter) WithIDValidation(enabled bool) *CSVImporter {
	c.validateIDs = enabled
	return c
}

// recordReader yields one row of cells per call and io.EOF at the end.
type recordReader interface {
	Read() ([]string, error)
}

// ImportFiles imports every file matching the glob pattern. Files ending in
// .xlsx are read as spreadsheets, everything else as CSV. A file that cannot
// be processed is logged and the next one is tried.
func (c *CSVImporter) ImportFiles(ctx context.Context, pattern string) (ImportStats, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return ImportStats{}, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return ImportStats{}, fmt.Errorf("%w: %s", ErrNoFiles, pattern)
	}

	logger.Info("Found import files", "count", len(files), "pattern", pattern)

	var total ImportStats
	for _, file := range files {
		importFile := c.ImportFile
		if strings.EqualFold(filepath.Ext(file), ".xlsx") {
			importFile = c.ImportExcelFile
		}
		stats, err := importFile(ctx, file)
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			logger.Error("Failed to import file", err, "file", filepath.Base(file))
			continue
		}
		total.add(stats)
	}

	logger.Info("Import complete",
		"files", total.Files,
		"imported", total.Imported,
		"skipped", total.Skipped,
		"failed", total.Failed)
	return total, nil
}

// ImportFile imports a single CSV file.
func (c *CSVImporter) ImportFile(ctx context.Context, path string) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, err
	}
	defer f.Close()

	stats, err := c.Import(ctx, f)
	return finishFile(path, stats, err)
}

func finishFile(path string, stats ImportStats, err error) (ImportStats, error) {
	if err != nil {
		return stats, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	stats.Files = 1
	logger.Info("Imported file",
		"file", filepath.Base(path),
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	return stats, nil
}

// Import reads CSV rows from r. Rows with an id that is already stored,
// or repeated earlier in the input, are skipped. Malformed rows are logged
// and counted, never fatal.
func (c *CSVImporter) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return c.importRecords(ctx, reader, c.validateIDs)
}

// importRecords runs the row pipeline shared by the CSV and Excel readers:
// header lookup, per-row parsing, de-duplication and batched saves.
func (c *CSVImporter) importRecords(ctx context.Context, reader recordReader, validateIDs bool) (ImportStats, error) {
	var stats ImportStats

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("failed to read header: %w", err)
	}
	columns, err := indexColumns(header)
	if err != nil {
		return stats, err
	}

	var rows []core.Article
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn("Skipping malformed row", "line", line, "error", err.Error())
				stats.Failed++
				continue
			}
			return stats, err
		}

		article, err := columns.article(record, validateIDs)
		if err != nil {
			logger.Warn("Skipping malformed row", "line", line, "error", err.Error())
			stats.Failed++
			continue
		}
		rows = append(rows, article)
	}

	ids := make([]string, len(rows))
	for i, a := range rows {
		ids[i] = a.ID
	}
	known, err := c.repo.ExistingIDs(ctx, ids)
	if err != nil {
		return stats, fmt.Errorf("failed to load existing ids: %w", err)
	}

	batch := make([]core.Article, 0, c.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.repo.SaveBatch(ctx, batch)
		if err != nil {
			return err
		}
		stats.Imported += n
		stats.Skipped += len(batch) - n
		logger.Debug("Committed batch", "rows", n, "imported", stats.Imported)
		batch = batch[:0]
		return nil
	}

	for _, article := range rows {
		if known[article.ID] {
			stats.Skipped++
			continue
		}
		known[article.ID] = true
		batch = append(batch, article)
		if len(batch) == c.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	columns := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		columns[name] = i
	}
	if _, ok := columns[ColumnID]; !ok {
		if i, spaced := columns[ColumnIDSpaced]; spaced {
			columns[ColumnID] = i
		}
	}
	for _, required := range []string{ColumnDate, ColumnID} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return columns, nil
}

func (c columnIndex) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columnIndex) article(record []string, validateID bool) (core.Article, error) {
	id := c.get(record, ColumnID)
	if id == "" {
		return core.Article{}, fmt.Errorf("empty %s", ColumnID)
	}
	if validateID {
		normalized, err := NormalizeNewsID(id)
		if err != nil {
			return core.Article{}, err
		}
		id = normalized
	}
	date, err := NormalizeDate(c.get(record, ColumnDate))
	if err != nil {
		return core.Article{}, fmt.Errorf("%s: %w", ColumnDate, err)
	}

	return core.Article{
		ID:          id,
		PublishedAt: date,
		Press:       c.get(record, ColumnPress),
		Author:      c.get(record, ColumnAuthor),
		Title:       c.get(record, ColumnTitle),
		Category:    c.get(record, ColumnCategory1),
		Content:     c.get(record, ColumnContent),
		Source:      c.get(record, ColumnSource),
		URL:         c.get(record, ColumnURL),
	}, nil
}
