// Package feeds collects articles from press RSS/Atom feeds and scrapes
// the article body from each item's page.
package feeds

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"newslens/internal/core"
	"newslens/internal/logger"
)

// SourceRSS marks articles that came from a feed.
const SourceRSS = "rss"

// bodySelectors are tried in order; the first non-empty match wins.
var bodySelectors = []string{"article", ".article_body", ".article-content", ".news_body"}

// Source is one press outlet and its feed URL.
type Source struct {
	Press string `yaml:"press"`
	URL   string `yaml:"url"`
}

// FeedList is the YAML layout of the feed file:
//
//	feeds:
//	  - press: 한겨레
//	    url: https://www.hani.co.kr/rss/
type FeedList struct {
	Feeds []Source `yaml:"feeds"`
}

// DefaultSources returns the feeds of the four national dailies.
func DefaultSources() []Source {
	return []Source{
		{Press: "조선일보", URL: "https://www.chosun.com/arc/outboundfeeds/rss/?outputType=xml"},
		{Press: "한겨레", URL: "https://www.hani.co.kr/rss/"},
		{Press: "중앙일보", URL: "https://rss.joins.com/joins_news_list.xml"},
		{Press: "동아일보", URL: "https://www.donga.com/news/rss/rss.xml"},
	}
}

// LoadSources reads a feed list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed list %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var list FeedList
	if err := yaml.NewDecoder(f).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode feed list %s: %w", path, err)
	}
	for i, src := range list.Feeds {
		if src.Press == "" || src.URL == "" {
			return nil, fmt.Errorf("feed list %s: entry %d needs both press and url", path, i)
		}
	}
	return list.Feeds, nil
}

// Options configures a Collector.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	MaxItemsPerFeed int // 0 means no limit
	Concurrency     int // Feeds fetched at once
}

// DefaultOptions returns conservative collection settings.
func DefaultOptions() Options {
	return Options{
		UserAgent:       "newslens/1.0",
		Timeout:         30 * time.Second,
		MaxItemsPerFeed: 50,
		Concurrency:     4,
	}
}

// Collector fetches feeds and their article pages.
type Collector struct {
	client *http.Client
	parser *gofeed.Parser
	opts   Options
}

// NewCollector creates a collector with its own HTTP client.
func NewCollector(opts Options) *Collector {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	client := &http.Client{Timeout: opts.Timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = opts.UserAgent
	return &Collector{client: client, parser: parser, opts: opts}
}

// Collect fetches every source and returns the articles in source order.
// A feed that cannot be fetched is logged and skipped.
func (c *Collector) Collect(ctx context.Context, sources []Source) ([]core.Article, error) {
	results := make([][]core.Article, len(sources))
	sem := make(chan struct{}, c.opts.Concurrency)
	var wg sync.WaitGroup

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, src Source) {
			defer wg.Done()
			defer func() { <-sem }()

			articles, err := c.CollectFeed(ctx, src)
			if err != nil {
				logger.Error("Failed to collect feed", err, "press", src.Press, "url", src.URL)
				return
			}
			results[i] = articles
		}(i, src)
	}
	wg.Wait()

	var all []core.Article
	for _, articles := range results {
		all = append(all, articles...)
	}
	logger.Info("Feed collection completed", "feeds", len(sources), "articles", len(all))
	return all, ctx.Err()
}

// CollectFeed parses one feed and scrapes the body of each item.
func (c *Collector) CollectFeed(ctx context.Context, src Source) ([]core.Article, error) {
	feed, err := c.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", src.URL, err)
	}

	items := feed.Items
	if c.opts.MaxItemsPerFeed > 0 && len(items) > c.opts.MaxItemsPerFeed {
		items = items[:c.opts.MaxItemsPerFeed]
	}

	articles := make([]core.Article, 0, len(items))
	for _, item := range items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		article := c.itemToArticle(item, src.Press)
		if article.URL != "" {
			content, err := c.FetchBody(ctx, article.URL)
			if err != nil {
				logger.Warn("Failed to fetch article body", "url", article.URL, "error", err.Error())
			}
			article.Content = content
		}
		articles = append(articles, article)
	}

	logger.Debug("Collected feed", "press", src.Press, "items", len(articles))
	return articles, nil
}

func (c *Collector) itemToArticle(item *gofeed.Item, press string) core.Article {
	article := core.Article{
		ID:     itemID(item),
		Title:  strings.TrimSpace(item.Title),
		Press:  press,
		URL:    strings.TrimSpace(item.Link),
		Source: SourceRSS,
	}
	if item.PublishedParsed != nil {
		article.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else {
		article.PublishedAt = item.Published
	}
	if len(item.Categories) > 0 {
		article.Category = item.Categories[0]
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		article.Author = item.Authors[0].Name
	}
	return article
}

// itemID prefers the feed GUID, then a UUID derived from the link so
// re-collecting the same item yields the same id.
func itemID(item *gofeed.Item) string {
	if guid := strings.TrimSpace(item.GUID); guid != "" {
		return guid
	}
	if link := strings.TrimSpace(item.Link); link != "" {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
	}
	return uuid.NewString()
}

// FetchBody downloads a page and returns its article text, or "" when no
// body container is found.
func (c *Collector) FetchBody(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status code %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return ExtractBody(doc), nil
}

// ExtractBody returns the stripped text of the first body container.
func ExtractBody(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()
	for _, selector := range bodySelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
			return text
		}
	}
	return ""
}
