package clustering

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"newslens/internal/core"
	"newslens/internal/logger"
)

// ErrInvalidWindow is returned for a non-positive window size.
var ErrInvalidWindow = errors.New("window days must be positive")

// Window is a run of articles whose timestamps lie within the window size of
// the first article's timestamp.
type Window []core.Article

type datedArticle struct {
	at      time.Time
	article core.Article
}

// GroupByWindow partitions articles into contiguous time windows of at most
// windowDays measured from each window's first article. Articles whose
// timestamp cannot be parsed are skipped and counted in dropped.
func GroupByWindow(articles []core.Article, windowDays int) (windows []Window, dropped int, err error) {
	if windowDays <= 0 {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidWindow, windowDays)
	}

	dated := make([]datedArticle, 0, len(articles))
	for _, article := range articles {
		at, err := core.ParsePublished(article.PublishedAt)
		if err != nil {
			dropped++
			logger.Debug("Skipping article with unparseable timestamp", "article_id", article.ID, "published_at", article.PublishedAt)
			continue
		}
		dated = append(dated, datedArticle{at: at, article: article})
	}

	if len(dated) == 0 {
		return nil, dropped, nil
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].at.Before(dated[j].at)
	})

	span := time.Duration(windowDays) * 24 * time.Hour
	start := dated[0].at
	var current Window

	for _, d := range dated {
		if d.at.Sub(start) <= span {
			current = append(current, d.article)
			continue
		}
		windows = append(windows, current)
		current = Window{d.article}
		start = d.at
	}
	windows = append(windows, current)

	return windows, dropped, nil
}
