package persistence

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"newslens/internal/core"
)

// ArticlesTable is the table holding imported and collected articles.
const ArticlesTable = "news_articles"

// DateLayout is the layout of the date column.
const DateLayout = "2006-01-02"

// insertChunk keeps a single INSERT well below the Postgres parameter limit.
const insertChunk = 500

var articleColumns = []string{
	"news_id", "date", "media", "author", "title", "category1", "content", "source", "url",
}

// Queries builds the article statements shared by the Postgres and SQLite
// repositories. Only the placeholder format differs between them.
type Queries struct {
	builder sq.StatementBuilderType
}

// NewQueries creates a builder using the given placeholder format
// (sq.Dollar for Postgres, sq.Question for SQLite).
func NewQueries(format sq.PlaceholderFormat) Queries {
	return Queries{builder: sq.StatementBuilder.PlaceholderFormat(format)}
}

// Insert builds INSERT statements for articles, at most insertChunk rows
// each. Existing ids are left untouched.
func (q Queries) Insert(articles []core.Article) ([]sq.InsertBuilder, error) {
	var out []sq.InsertBuilder
	for start := 0; start < len(articles); start += insertChunk {
		end := min(start+insertChunk, len(articles))

		stmt := q.builder.Insert(ArticlesTable).Columns(articleColumns...)
		for _, a := range articles[start:end] {
			ts, err := core.ParsePublished(a.PublishedAt)
			if err != nil {
				return nil, fmt.Errorf("article %s: invalid date %q: %w", a.ID, a.PublishedAt, err)
			}
			stmt = stmt.Values(a.ID, ts.Format(DateLayout), a.Press, a.Author, a.Title, a.Category, a.Content, a.Source, a.URL)
		}
		out = append(out, stmt.Suffix("ON CONFLICT (news_id) DO NOTHING"))
	}
	return out, nil
}

// ByPeriod selects articles dated within [start, end], optionally limited
// to the given category tags.
func (q Queries) ByPeriod(start, end time.Time, categories []string) sq.SelectBuilder {
	where := sq.And{
		sq.GtOrEq{"date": start.Format(DateLayout)},
		sq.LtOrEq{"date": end.Format(DateLayout)},
	}
	if len(categories) > 0 {
		where = append(where, sq.Eq{"category1": categories})
	}
	return q.All().Where(where)
}

// All selects every article, oldest first.
func (q Queries) All() sq.SelectBuilder {
	return q.builder.Select(articleColumns...).From(ArticlesTable).OrderBy("date", "news_id")
}

// IDsIn selects the stored ids among ids.
func (q Queries) IDsIn(ids []string) sq.SelectBuilder {
	return q.builder.Select("news_id").From(ArticlesTable).Where(sq.Eq{"news_id": ids})
}

// dateValue scans DATE columns returned as time.Time (Postgres) or text (SQLite).
type dateValue string

func (d *dateValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = dateValue(v.Format(DateLayout))
	case string:
		*d = dateValue(truncateDate(v))
	case []byte:
		*d = dateValue(truncateDate(string(v)))
	default:
		return fmt.Errorf("unsupported date value %T", src)
	}
	return nil
}

func truncateDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// ScanArticles reads rows selected with the article columns.
func ScanArticles(rows *sql.Rows) ([]core.Article, error) {
	defer rows.Close()

	var articles []core.Article
	for rows.Next() {
		var id string
		var date dateValue
		var media, author, title, category, content, source, url sql.NullString
		if err := rows.Scan(&id, &date, &media, &author, &title, &category, &content, &source, &url); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, core.Article{
			ID:          id,
			PublishedAt: string(date),
			Press:       media.String,
			Author:      author.String,
			Title:       title.String,
			Category:    category.String,
			Content:     content.String,
			Source:      source.String,
			URL:         url.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}
