package bias

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/core"
)

func sampleArticles() []core.Article {
	return []core.Article{
		{ID: "1", Press: "조선일보", Title: "북한 도발 우려", Content: "안보 위기 속 북한 도발이 우려된다. 자유 민주주의 수호가 중요하다."},
		{ID: "2", Press: "한겨레", Title: "재벌 개혁 시급", Content: "경제 민주화와 재벌 개혁 이 시급하다. 노동 권리 보호가 필요하다."},
	}
}

func TestKeywordBias(t *testing.T) {
	a := NewAnalyzer(DefaultLexicon())

	scores := a.KeywordBias("안보 시장 복지 그리고 기타")
	assert.InDelta(t, 2.0/7.0, scores.Conservative, 1e-12)
	assert.InDelta(t, 1.0/7.0, scores.Progressive, 1e-12)

	// Whitespace tokens only: a keyword glued to a particle does not count.
	scores = a.KeywordBias("안보가 중요하다")
	assert.Zero(t, scores.Conservative)
}

func TestPressBias_Sign(t *testing.T) {
	a := NewAnalyzer(DefaultLexicon())

	result := a.PressBias(sampleArticles(), "")
	require.Len(t, result, 2)

	assert.Equal(t, "조선일보", result[0].Press)
	assert.Equal(t, Conservative, result[0].Leaning)
	assert.Greater(t, result[0].BiasIndex, 0.0)

	assert.Equal(t, "한겨레", result[1].Press)
	assert.Less(t, result[1].BiasIndex, 0.0)
	assert.Equal(t, 1, result[1].ArticleCount)
}

func TestPressBias_Averages(t *testing.T) {
	a := NewAnalyzer(DefaultLexicon())
	articles := []core.Article{
		{Press: "동아일보", Content: "안보"},
		{Press: "동아일보", Content: "기타"},
	}

	result := a.PressBias(articles, "")
	require.Len(t, result, 1)
	assert.Equal(t, 2, result[0].ArticleCount)
	assert.InDelta(t, 1.0/14.0, result[0].Conservative, 1e-12)
	assert.InDelta(t, 1.0/14.0, result[0].BiasIndex, 1e-12)
}

func TestPressBias_TopicFilter(t *testing.T) {
	a := NewAnalyzer(DefaultLexicon())

	result := a.PressBias(sampleArticles(), "재벌")
	require.Len(t, result, 1)
	assert.Equal(t, "한겨레", result[0].Press)

	assert.Empty(t, a.PressBias(sampleArticles(), "반도체"))
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := "press:\n  경향신문: progressive\nkeywords:\n  conservative: [안보]\n  progressive: [복지, 평등]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	assert.Equal(t, Progressive, lex.Press["경향신문"])
	assert.Equal(t, []string{"복지", "평등"}, lex.Keywords[Progressive])

	scores := NewAnalyzer(lex).KeywordBias("복지 예산")
	assert.InDelta(t, 0.5, scores.Progressive, 1e-12)
}

func TestLoadLexicon_MissingKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("press: {}\n"), 0o644))

	_, err := LoadLexicon(path)
	assert.Error(t, err)
}
