package sentiment

import (
	"context"
	"fmt"

	"newslens/internal/core"
	"newslens/internal/nlp"
)

// SentimentScore represents the keyword ratio sentiment of a text
type SentimentScore struct {
	Positive float64 `json:"positive"` // Share of the positive lexicon present (0.0 to 1.0)
	Negative float64 `json:"negative"` // Share of the negative lexicon present (0.0 to 1.0)
	Neutral  float64 `json:"neutral"`  // 1 - (positive + negative)
}

// SentimentClassification represents the discrete sentiment category
type SentimentClassification string

const (
	SentimentPositive SentimentClassification = "positive"
	SentimentNeutral  SentimentClassification = "neutral"
	SentimentNegative SentimentClassification = "negative"
	SentimentMixed    SentimentClassification = "mixed"
)

// ArticleSentiment contains sentiment analysis for an article
type ArticleSentiment struct {
	ArticleID      string                  `json:"article_id"`
	Press          string                  `json:"press"`
	Title          string                  `json:"title"`
	Score          SentimentScore          `json:"score"`
	Classification SentimentClassification `json:"classification"`
}

// PressSentiment averages article scores for one press outlet
type PressSentiment struct {
	Press    string         `json:"press"`
	Articles int            `json:"articles"`
	Score    SentimentScore `json:"score"`
}

// DefaultPositiveWords and DefaultNegativeWords are the built-in lexicons.
var (
	DefaultPositiveWords = []string{"좋다", "훌륭하다", "긍정", "발전", "성공"}
	DefaultNegativeWords = []string{"나쁘다", "실패", "부정", "문제", "위기"}
)

// SentimentAnalyzer scores texts by the share of each lexicon they contain.
type SentimentAnalyzer struct {
	tokenizer nlp.Tokenizer
	positive  map[string]struct{}
	negative  map[string]struct{}
}

// NewSentimentAnalyzer creates an analyzer with the built-in lexicons
func NewSentimentAnalyzer(tokenizer nlp.Tokenizer) *SentimentAnalyzer {
	return NewSentimentAnalyzerWithLexicon(tokenizer, DefaultPositiveWords, DefaultNegativeWords)
}

// NewSentimentAnalyzerWithLexicon creates an analyzer with custom word lists
func NewSentimentAnalyzerWithLexicon(tokenizer nlp.Tokenizer, positive, negative []string) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		tokenizer: tokenizer,
		positive:  toSet(positive),
		negative:  toSet(negative),
	}
}

// AnalyzeArticle performs sentiment analysis on the content of an article
func (sa *SentimentAnalyzer) AnalyzeArticle(ctx context.Context, article core.Article) (*ArticleSentiment, error) {
	score, err := sa.Score(ctx, article.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to score article %s: %w", article.ID, err)
	}
	return &ArticleSentiment{
		ArticleID:      article.ID,
		Press:          article.Press,
		Title:          article.Title,
		Score:          score,
		Classification: classifySentiment(score),
	}, nil
}

// Score computes positive = |words ∩ P|/|P| and negative = |words ∩ N|/|N|
// over the distinct tokens of text.
func (sa *SentimentAnalyzer) Score(ctx context.Context, text string) (SentimentScore, error) {
	tokens, err := sa.tokenizer.Nouns(ctx, text)
	if err != nil {
		return SentimentScore{}, err
	}
	words := toSet(tokens)

	score := SentimentScore{
		Positive: overlap(words, sa.positive),
		Negative: overlap(words, sa.negative),
	}
	score.Neutral = 1 - (score.Positive + score.Negative)
	return score, nil
}

// AnalyzeByPress scores every article and averages the scores per press,
// in order of first appearance.
func (sa *SentimentAnalyzer) AnalyzeByPress(ctx context.Context, articles []core.Article) ([]PressSentiment, error) {
	var out []PressSentiment
	index := make(map[string]int)

	for _, article := range articles {
		result, err := sa.AnalyzeArticle(ctx, article)
		if err != nil {
			return nil, err
		}
		pos, ok := index[article.Press]
		if !ok {
			pos = len(out)
			index[article.Press] = pos
			out = append(out, PressSentiment{Press: article.Press})
		}
		p := &out[pos]
		p.Articles++
		p.Score.Positive += result.Score.Positive
		p.Score.Negative += result.Score.Negative
		p.Score.Neutral += result.Score.Neutral
	}

	for i := range out {
		n := float64(out[i].Articles)
		out[i].Score.Positive /= n
		out[i].Score.Negative /= n
		out[i].Score.Neutral /= n
	}
	return out, nil
}

// classifySentiment converts a sentiment score to a classification
func classifySentiment(score SentimentScore) SentimentClassification {
	switch {
	case score.Positive > 0 && score.Positive == score.Negative:
		return SentimentMixed
	case score.Positive > score.Negative:
		return SentimentPositive
	case score.Negative > score.Positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func overlap(words, lexicon map[string]struct{}) float64 {
	if len(lexicon) == 0 {
		return 0
	}
	matched := 0
	for w := range lexicon {
		if _, ok := words[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(lexicon))
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
