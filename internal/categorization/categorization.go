package categorization

import (
	"fmt"
	"time"

	"newslens/internal/core"
)

// Filter selects the articles of one period and category.
type Filter struct {
	Start    time.Time // Inclusive, compared by calendar date
	End      time.Time // Inclusive, compared by calendar date
	Category string    // Coarse group or exact tag; empty matches every tag
}

// ParseFilter builds a Filter from YYYY-MM-DD date strings.
func ParseFilter(start, end, category string) (Filter, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return Filter{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return Filter{Start: s, End: e, Category: category}, nil
}

// FilterArticles returns the articles inside f, preserving input order.
// Articles whose timestamp cannot be parsed never match.
func (h Hierarchy) FilterArticles(articles []core.Article, f Filter) []core.Article {
	start := dateOnly(f.Start)
	end := dateOnly(f.End)

	var out []core.Article
	for _, article := range articles {
		if f.Category != "" && !h.Matches(f.Category, article.Category) {
			continue
		}
		ts, err := core.ParsePublished(article.PublishedAt)
		if err != nil {
			continue
		}
		day := dateOnly(ts)
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, article)
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
