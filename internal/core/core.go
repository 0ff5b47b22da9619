package core

// Article is a single news article as it enters the grouping engine.
type Article struct {
	ID          string `json:"id"`           // Unique identifier within a batch (뉴스식별자 for imported rows)
	Title       string `json:"title"`        // Headline
	Content     string `json:"content"`      // Body text
	Press       string `json:"press"`        // Outlet name
	PublishedAt string `json:"published_at"` // Raw publication timestamp, parsed lazily by the windower
	Category    string `json:"category"`     // Category tag, e.g. "정치>외교"
	Author      string `json:"author,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"` // Where the row came from ("rss", "csv", ...)
}

// ClusteredArticle is an article that survived density clustering.
type ClusteredArticle struct {
	Article
	ClusterID   string `json:"cluster_id"`   // Composite "cluster_<window>_<label>"
	WindowIndex int    `json:"window_index"` // Position of the temporal window the article fell into
	Label       int    `json:"label"`        // Local DBSCAN label inside the window
}

// PressCount is one entry of an ordered press distribution.
type PressCount struct {
	Press string `json:"press"`
	Count int    `json:"count"`
}

// ClusterSummary aggregates one cluster for reporting.
type ClusterSummary struct {
	ClusterID         string       `json:"cluster_id"`
	ArticleCount      int          `json:"article_count"`
	PressDistribution []PressCount `json:"press_distribution"` // Insertion ordered
	SampleTitles      []string     `json:"sample_titles"`      // Up to three titles, insertion ordered
}

// Issue is one group of lexically similar articles with its representative keyword.
type Issue struct {
	Keyword    string   `json:"keyword"`
	ArticleIDs []string `json:"article_ids"`
}

// IssueMap converts ordered issues into the keyword -> article ids mapping.
// A later issue with the same keyword replaces the earlier entry.
func IssueMap(issues []Issue) map[string][]string {
	out := make(map[string][]string, len(issues))
	for _, issue := range issues {
		out[issue.Keyword] = issue.ArticleIDs
	}
	return out
}
