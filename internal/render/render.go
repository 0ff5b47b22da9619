// Package render formats grouping results for the terminal and for files.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"newslens/internal/bias"
	"newslens/internal/core"
	"newslens/internal/ingest"
	"newslens/internal/sentiment"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeSection(w io.Writer, title string, body string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(title), body)
	return err
}

// ClusterSummaries writes one row per cluster.
func ClusterSummaries(w io.Writer, summaries []core.ClusterSummary) error {
	if len(summaries) == 0 {
		return writeSection(w, "Clusters", mutedStyle.Render("No clusters found."))
	}
	t := newTable("Cluster", "Articles", "Press", "Sample titles")
	for _, s := range summaries {
		t.Row(s.ClusterID, strconv.Itoa(s.ArticleCount), formatPress(s.PressDistribution), strings.Join(s.SampleTitles, "\n"))
	}
	return writeSection(w, fmt.Sprintf("Clusters (%d)", len(summaries)), t.String())
}

func formatPress(dist []core.PressCount) string {
	parts := make([]string, len(dist))
	for i, pc := range dist {
		parts[i] = fmt.Sprintf("%s %d", pc.Press, pc.Count)
	}
	return strings.Join(parts, "\n")
}

// Issues writes one row per issue. titles maps article ids to headlines;
// ids missing from it are printed as-is.
func Issues(w io.Writer, issues []core.Issue, titles map[string]string) error {
	if len(issues) == 0 {
		return writeSection(w, "Issues", mutedStyle.Render("No issues found."))
	}
	t := newTable("#", "Keyword", "Articles", "Headlines")
	for i, issue := range issues {
		heads := make([]string, 0, len(issue.ArticleIDs))
		for _, id := range issue.ArticleIDs {
			if title, ok := titles[id]; ok && title != "" {
				heads = append(heads, title)
			} else {
				heads = append(heads, id)
			}
		}
		t.Row(strconv.Itoa(i+1), issue.Keyword, strconv.Itoa(len(issue.ArticleIDs)), strings.Join(heads, "\n"))
	}
	return writeSection(w, fmt.Sprintf("Issues (%d)", len(issues)), t.String())
}

// PressBias writes the bias table, one row per press.
func PressBias(w io.Writer, rows []bias.PressBias) error {
	if len(rows) == 0 {
		return writeSection(w, "Press bias", mutedStyle.Render("No articles matched."))
	}
	t := newTable("Press", "Leaning", "Articles", "Conservative", "Progressive", "Bias index")
	for _, r := range rows {
		t.Row(r.Press, r.Leaning, strconv.Itoa(r.ArticleCount),
			formatFloat(r.Conservative), formatFloat(r.Progressive), formatFloat(r.BiasIndex))
	}
	return writeSection(w, "Press bias", t.String())
}

// PressSentiment writes averaged sentiment per press.
func PressSentiment(w io.Writer, rows []sentiment.PressSentiment) error {
	if len(rows) == 0 {
		return writeSection(w, "Sentiment", mutedStyle.Render("No articles matched."))
	}
	t := newTable("Press", "Articles", "Positive", "Negative", "Neutral")
	for _, r := range rows {
		t.Row(r.Press, strconv.Itoa(r.Articles),
			formatFloat(r.Score.Positive), formatFloat(r.Score.Negative), formatFloat(r.Score.Neutral))
	}
	return writeSection(w, "Sentiment", t.String())
}

// ImportStats writes a one-line import summary.
func ImportStats(w io.Writer, stats ingest.ImportStats) error {
	_, err := fmt.Fprintf(w, "%s files=%d imported=%d skipped=%d failed=%d\n",
		titleStyle.Render("Import"), stats.Files, stats.Imported, stats.Skipped, stats.Failed)
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// clusteredHeader is the column order of ClusteredCSV.
var clusteredHeader = []string{"id", "cluster_id", "window_index", "label", "press", "published_at", "category", "title"}

// ClusteredCSV writes clustered articles as CSV with a header row.
func ClusteredCSV(w io.Writer, articles []core.ClusteredArticle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clusteredHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, a := range articles {
		record := []string{
			a.ID, a.ClusterID, strconv.Itoa(a.WindowIndex), strconv.Itoa(a.Label),
			a.Press, a.PublishedAt, a.Category, a.Title,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteToFile writes content to filename inside outputDir, creating the
// directory when needed, and returns the written path.
func WriteToFile(content []byte, outputDir, filename string) (string, error) {
	if outputDir == "" {
		outputDir = "reports"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, filename)
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file %s: %w", filePath, err)
	}

	return filePath, nil
}
