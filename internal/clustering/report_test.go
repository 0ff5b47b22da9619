package clustering

import (
	"testing"

	"newslens/internal/core"
)

func clustered(id, cluster, press, title string) core.ClusteredArticle {
	return core.ClusteredArticle{
		Article:   core.Article{ID: id, Press: press, Title: title},
		ClusterID: cluster,
	}
}

func TestAnalyzeClusters(t *testing.T) {
	articles := []core.ClusteredArticle{
		clustered("1", "cluster_1_0", "한겨레", "t1"),
		clustered("2", "cluster_0_0", "조선일보", "t2"),
		clustered("3", "cluster_1_0", "조선일보", "t3"),
		clustered("4", "cluster_1_0", "한겨레", "t4"),
		clustered("5", "cluster_1_0", "한겨레", "t5"),
	}

	summaries := AnalyzeClusters(articles)
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	first := summaries[0]
	if first.ClusterID != "cluster_1_0" {
		t.Errorf("Expected first-seen cluster first, got %s", first.ClusterID)
	}
	if first.ArticleCount != 4 {
		t.Errorf("Expected 4 articles, got %d", first.ArticleCount)
	}
	if len(first.PressDistribution) != 2 ||
		first.PressDistribution[0] != (core.PressCount{Press: "한겨레", Count: 3}) ||
		first.PressDistribution[1] != (core.PressCount{Press: "조선일보", Count: 1}) {
		t.Errorf("Unexpected press distribution: %v", first.PressDistribution)
	}
	if len(first.SampleTitles) != 3 || first.SampleTitles[2] != "t4" {
		t.Errorf("Expected first 3 titles, got %v", first.SampleTitles)
	}

	if summaries[1].ArticleCount != 1 || summaries[1].SampleTitles[0] != "t2" {
		t.Errorf("Unexpected second summary: %+v", summaries[1])
	}
}

func TestAnalyzeClusters_Empty(t *testing.T) {
	if got := AnalyzeClusters(nil); len(got) != 0 {
		t.Errorf("Expected no summaries, got %v", got)
	}
}
