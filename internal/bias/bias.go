// Package bias estimates the political leaning of press outlets from the
// share of ideology keywords their articles use.
package bias

import (
	"strings"

	"newslens/internal/core"
)

// KeywordScores holds the share of each ideology lexicon found in a text.
type KeywordScores struct {
	Conservative float64 `json:"conservative"`
	Progressive  float64 `json:"progressive"`
}

// PressBias is the averaged keyword bias of one press outlet.
type PressBias struct {
	Press        string  `json:"press"`
	Leaning      string  `json:"leaning,omitempty"` // Declared leaning from the lexicon, if any
	Conservative float64 `json:"conservative"`
	Progressive  float64 `json:"progressive"`
	BiasIndex    float64 `json:"bias_index"` // Conservative minus progressive
	ArticleCount int     `json:"article_count"`
}

// Analyzer computes keyword bias scores.
type Analyzer struct {
	lexicon Lexicon
}

// NewAnalyzer creates an analyzer for the given lexicon.
func NewAnalyzer(lexicon Lexicon) *Analyzer {
	return &Analyzer{lexicon: lexicon}
}

// KeywordBias returns, for each ideology, matched/len(keywords) over the
// whitespace separated words of text.
func (a *Analyzer) KeywordBias(text string) KeywordScores {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		words[w] = struct{}{}
	}
	return KeywordScores{
		Conservative: ratio(words, a.lexicon.Keywords[Conservative]),
		Progressive:  ratio(words, a.lexicon.Keywords[Progressive]),
	}
}

// PressBias averages the content keyword bias per press, in order of first
// appearance. A non-empty topic keeps only articles whose title or content
// contains it, ignoring case.
func (a *Analyzer) PressBias(articles []core.Article, topic string) []PressBias {
	topic = strings.ToLower(topic)

	var out []PressBias
	index := make(map[string]int)
	for _, article := range articles {
		if topic != "" &&
			!strings.Contains(strings.ToLower(article.Title), topic) &&
			!strings.Contains(strings.ToLower(article.Content), topic) {
			continue
		}

		pos, ok := index[article.Press]
		if !ok {
			pos = len(out)
			index[article.Press] = pos
			out = append(out, PressBias{Press: article.Press, Leaning: a.lexicon.Press[article.Press]})
		}

		scores := a.KeywordBias(article.Content)
		p := &out[pos]
		p.Conservative += scores.Conservative
		p.Progressive += scores.Progressive
		p.ArticleCount++
	}

	for i := range out {
		n := float64(out[i].ArticleCount)
		out[i].Conservative /= n
		out[i].Progressive /= n
		out[i].BiasIndex = out[i].Conservative - out[i].Progressive
	}
	return out
}

func ratio(words map[string]struct{}, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, k := range keywords {
		if _, ok := words[k]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}
