package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/core"
)

func sampleModel() Model {
	issues := []core.Issue{
		{Keyword: "코로나", ArticleIDs: []string{"n1", "n2"}},
		{Keyword: "반도체", ArticleIDs: []string{"n5", "missing"}},
	}
	articles := []core.Article{
		{ID: "n1", Title: "코로나 백신", Press: "한겨레", PublishedAt: "2024-03-01"},
		{ID: "n2", Title: "코로나 백신 공급", Press: "조선일보", PublishedAt: "2024-03-01"},
		{ID: "n5", Title: "반도체 수출 호조", Press: "중앙일보", PublishedAt: "2024-03-02"},
	}
	return NewModel(issues, articles)
}

func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(key)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Navigation(t *testing.T) {
	m := sampleModel()

	issue, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "코로나", issue.Keyword)

	m = press(t, m, runes("k"))
	issue, _ = m.Selected()
	assert.Equal(t, "코로나", issue.Keyword, "cursor stays on the first issue")

	m = press(t, m, runes("j"))
	m = press(t, m, runes("j"))
	issue, _ = m.Selected()
	assert.Equal(t, "반도체", issue.Keyword, "cursor stops on the last issue")

	m = press(t, m, runes("g"))
	issue, _ = m.Selected()
	assert.Equal(t, "코로나", issue.Keyword)
}

func TestModel_ViewShowsMembers(t *testing.T) {
	m := sampleModel()
	m = press(t, m, runes("j"))

	view := m.View()
	assert.Contains(t, view, "반도체 (2)")
	assert.Contains(t, view, "반도체 수출 호조")
	assert.Contains(t, view, "missing")
}

func TestModel_Quit(t *testing.T) {
	m := sampleModel()
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestModel_Empty(t *testing.T) {
	m := NewModel(nil, nil)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No issues found.")
	m = press(t, m, runes("G"))
	_, ok = m.Selected()
	assert.False(t, ok)
}
