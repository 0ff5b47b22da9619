package clustering

import (
	"newslens/internal/core"
)

const maxSampleTitles = 3

// AnalyzeClusters aggregates clustered articles per cluster id. Clusters,
// press entries and sample titles keep the order in which they first appear.
func AnalyzeClusters(articles []core.ClusteredArticle) []core.ClusterSummary {
	var summaries []core.ClusterSummary
	index := make(map[string]int)
	pressIndex := make(map[string]map[string]int)

	for _, article := range articles {
		pos, ok := index[article.ClusterID]
		if !ok {
			pos = len(summaries)
			index[article.ClusterID] = pos
			pressIndex[article.ClusterID] = make(map[string]int)
			summaries = append(summaries, core.ClusterSummary{ClusterID: article.ClusterID})
		}

		summary := &summaries[pos]
		summary.ArticleCount++

		presses := pressIndex[article.ClusterID]
		if p, seen := presses[article.Press]; seen {
			summary.PressDistribution[p].Count++
		} else {
			presses[article.Press] = len(summary.PressDistribution)
			summary.PressDistribution = append(summary.PressDistribution, core.PressCount{Press: article.Press, Count: 1})
		}

		if len(summary.SampleTitles) < maxSampleTitles {
			summary.SampleTitles = append(summary.SampleTitles, article.Title)
		}
	}

	return summaries
}
