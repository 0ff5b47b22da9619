package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportExcelFile imports the first sheet of an .xlsx export.
func (c *CSVImporter) ImportExcelFile(ctx context.Context, path string) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, err
	}
	defer f.Close()

	stats, err := c.ImportExcel(ctx, f)
	return finishFile(path, stats, err)
}

// ImportExcel reads the first sheet of a workbook through the same row
// pipeline as Import. News ids are always validated with NormalizeNewsID,
// since spreadsheet tools mangle them into numbers.
func (c *CSVImporter) ImportExcel(ctx context.Context, r io.Reader) (ImportStats, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = book.Close() }()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return ImportStats{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := book.Rows(sheets[0])
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	defer func() { _ = rows.Close() }()

	return c.importRecords(ctx, &sheetReader{rows: rows}, true)
}

// sheetReader adapts excelize rows to recordReader, skipping blank rows.
type sheetReader struct {
	rows *excelize.Rows
}

func (s *sheetReader) Read() ([]string, error) {
	for s.rows.Next() {
		cells, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}
		if !blank(cells) {
			return cells, nil
		}
	}
	if err := s.rows.Error(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func blank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
