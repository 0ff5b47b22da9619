package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"newslens/internal/core"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
)

// Model browses extracted issues and the articles grouped under each one.
type Model struct {
	issues      []core.Issue
	articles    map[string]core.Article
	selectedIdx int
	width       int
	height      int
	quitting    bool
}

// NewModel builds a browser over issues. Member ids missing from articles
// are shown as bare ids.
func NewModel(issues []core.Issue, articles []core.Article) Model {
	index := make(map[string]core.Article, len(articles))
	for _, a := range articles {
		index[a.ID] = a
	}
	return Model{issues: issues, articles: index, width: 100}
}

// Selected returns the issue under the cursor.
func (m Model) Selected() (core.Issue, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.issues) {
		return core.Issue{}, false
	}
	return m.issues[m.selectedIdx], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.issues)-1 {
				m.selectedIdx++
			}
		case "home", "g":
			m.selectedIdx = 0
		case "end", "G":
			if len(m.issues) > 0 {
				m.selectedIdx = len(m.issues) - 1
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	paneWidth := m.width/2 - 4
	if paneWidth < 20 {
		paneWidth = 20
	}

	var list strings.Builder
	list.WriteString(titleStyle.Render("Issues") + "\n\n")
	if len(m.issues) == 0 {
		list.WriteString(mutedStyle.Render("No issues found."))
	}
	for i, issue := range m.issues {
		line := fmt.Sprintf("%s (%d)", issue.Keyword, len(issue.ArticleIDs))
		if i == m.selectedIdx {
			list.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			list.WriteString("  " + line + "\n")
		}
	}

	var detail strings.Builder
	if issue, ok := m.Selected(); ok {
		detail.WriteString(titleStyle.Render(issue.Keyword) + "\n\n")
		for _, id := range issue.ArticleIDs {
			a, found := m.articles[id]
			if !found {
				detail.WriteString(mutedStyle.Render(id) + "\n")
				continue
			}
			detail.WriteString(fmt.Sprintf("%s\n  %s\n", a.Title, mutedStyle.Render(strings.TrimSpace(a.Press+" "+a.PublishedAt))))
		}
	}

	left := paneStyle.Width(paneWidth).Render(list.String())
	right := paneStyle.Width(paneWidth).Render(detail.String())
	help := mutedStyle.Render("[↑/k] up  [↓/j] down  [g/G] first/last  [q] quit")

	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, left, right), help)
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(issues []core.Issue, articles []core.Article, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(NewModel(issues, articles), opts...).Run(); err != nil {
		return fmt.Errorf("running issue browser: %w", err)
	}
	return nil
}
