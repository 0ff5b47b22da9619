package clustering

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newslens/internal/core"
	"newslens/internal/nlp"
)

// topicEmbedder puts every text mentioning marker on one axis and the rest on another.
func topicEmbedder(marker string, calls *int) nlp.Embedder {
	return nlp.EmbedderFunc(func(_ context.Context, texts []string) ([][]float64, error) {
		*calls++
		out := make([][]float64, len(texts))
		for i, text := range texts {
			if strings.Contains(text, marker) {
				out[i] = []float64{2, 0}
			} else {
				out[i] = []float64{0, 3}
			}
		}
		return out, nil
	})
}

func TestClusterArticles_SameStory(t *testing.T) {
	calls := 0
	clusterer, err := NewArticleClusterer(topicEmbedder("코로나", &calls), DefaultDBSCANConfig())
	if err != nil {
		t.Fatalf("NewArticleClusterer failed: %v", err)
	}

	articles := []core.Article{
		{ID: "a1", Title: "코로나 확진자 급증", Press: "조선일보", PublishedAt: "2024-01-01T09:00:00"},
		{ID: "a2", Title: "코로나 신규 확진 최다", Press: "한겨레", PublishedAt: "2024-01-01T10:00:00"},
		{ID: "a3", Title: "프로야구 개막", Press: "경향신문", PublishedAt: "2024-01-01T11:00:00"},
	}

	result, err := clusterer.ClusterArticles(context.Background(), articles)
	if err != nil {
		t.Fatalf("ClusterArticles failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected one embedding call per window, got %d", calls)
	}
	if result.Windows != 1 || result.Noise != 1 || result.Dropped != 0 {
		t.Errorf("Unexpected counters: windows=%d noise=%d dropped=%d", result.Windows, result.Noise, result.Dropped)
	}
	if len(result.Articles) != 2 {
		t.Fatalf("Expected 2 clustered articles, got %d", len(result.Articles))
	}
	for _, a := range result.Articles {
		if a.ClusterID != "cluster_0_0" {
			t.Errorf("Expected cluster_0_0 for %s, got %s", a.ID, a.ClusterID)
		}
		if a.ID == "a3" {
			t.Error("Unrelated article should be noise")
		}
	}
}

func TestClusterArticles_WindowIndexInClusterID(t *testing.T) {
	calls := 0
	clusterer, err := NewArticleClusterer(topicEmbedder("선거", &calls), DefaultDBSCANConfig())
	if err != nil {
		t.Fatalf("NewArticleClusterer failed: %v", err)
	}

	articles := []core.Article{
		{ID: "a1", Title: "선거 유세 시작", PublishedAt: "2024-04-01"},
		{ID: "a2", Title: "선거 여론조사", PublishedAt: "2024-04-02"},
		{ID: "b1", Title: "선거 사전투표", PublishedAt: "2024-04-08"},
		{ID: "b2", Title: "선거 투표율", PublishedAt: "2024-04-09"},
		{ID: "x", Title: "날짜 없음", PublishedAt: "unknown"},
	}

	result, err := clusterer.ClusterArticles(context.Background(), articles)
	if err != nil {
		t.Fatalf("ClusterArticles failed: %v", err)
	}

	if calls != 2 || result.Windows != 2 {
		t.Errorf("Expected 2 windows and 2 embedding calls, got %d windows and %d calls", result.Windows, calls)
	}
	if result.Dropped != 1 {
		t.Errorf("Expected 1 dropped article, got %d", result.Dropped)
	}

	want := map[string]string{"a1": "cluster_0_0", "a2": "cluster_0_0", "b1": "cluster_1_0", "b2": "cluster_1_0"}
	if len(result.Articles) != len(want) {
		t.Fatalf("Expected %d clustered articles, got %d", len(want), len(result.Articles))
	}
	for _, a := range result.Articles {
		if want[a.ID] != a.ClusterID {
			t.Errorf("Article %s: expected %s, got %s", a.ID, want[a.ID], a.ClusterID)
		}
		if a.ClusterID != ClusterID(a.WindowIndex, a.Label) {
			t.Errorf("Article %s: cluster id %s does not match window %d label %d", a.ID, a.ClusterID, a.WindowIndex, a.Label)
		}
	}
}

func TestClusterArticles_LengthMismatch(t *testing.T) {
	short := nlp.EmbedderFunc(func(_ context.Context, texts []string) ([][]float64, error) {
		return [][]float64{{1, 0}}, nil
	})
	clusterer, err := NewArticleClusterer(short, DefaultDBSCANConfig())
	if err != nil {
		t.Fatalf("NewArticleClusterer failed: %v", err)
	}

	articles := []core.Article{
		{ID: "1", Title: "a", PublishedAt: "2024-01-01"},
		{ID: "2", Title: "b", PublishedAt: "2024-01-01"},
	}
	_, err = clusterer.ClusterArticles(context.Background(), articles)
	if !errors.Is(err, nlp.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestClusterArticles_EmbedderError(t *testing.T) {
	failing := nlp.EmbedderFunc(func(context.Context, []string) ([][]float64, error) {
		return nil, errors.New("model offline")
	})
	clusterer, _ := NewArticleClusterer(failing, DefaultDBSCANConfig())

	_, err := clusterer.ClusterArticles(context.Background(), []core.Article{{ID: "1", PublishedAt: "2024-01-01"}})
	if err == nil || !strings.Contains(err.Error(), "model offline") {
		t.Errorf("Expected wrapped embedder error, got %v", err)
	}
}

func TestClusterArticles_Empty(t *testing.T) {
	calls := 0
	clusterer, _ := NewArticleClusterer(topicEmbedder("x", &calls), DefaultDBSCANConfig())

	result, err := clusterer.ClusterArticles(context.Background(), nil)
	if err != nil {
		t.Fatalf("ClusterArticles failed: %v", err)
	}
	if len(result.Articles) != 0 || result.Windows != 0 || calls != 0 {
		t.Errorf("Expected empty result without embedding calls, got %+v (calls=%d)", result, calls)
	}
}

func TestNewArticleClusterer_Validation(t *testing.T) {
	calls := 0
	embedder := topicEmbedder("x", &calls)

	tests := []struct {
		name   string
		mutate func(*DBSCANConfig)
	}{
		{"zero eps", func(c *DBSCANConfig) { c.Eps = 0 }},
		{"zero min samples", func(c *DBSCANConfig) { c.MinSamples = 0 }},
		{"zero window", func(c *DBSCANConfig) { c.WindowDays = 0 }},
		{"unknown metric", func(c *DBSCANConfig) { c.Metric = "manhattan" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultDBSCANConfig()
			tt.mutate(&config)
			if _, err := NewArticleClusterer(embedder, config); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if _, err := NewArticleClusterer(nil, DefaultDBSCANConfig()); err == nil {
		t.Error("Expected error for nil embedder")
	}
}

func TestEmbeddingText(t *testing.T) {
	article := core.Article{Title: "제목", Content: "가나다라마"}
	if got := EmbeddingText(article, 3); got != "제목 가나다" {
		t.Errorf("Expected rune-truncated content, got %q", got)
	}
	if got := EmbeddingText(article, 200); got != "제목 가나다라마" {
		t.Errorf("Expected full content, got %q", got)
	}
}
