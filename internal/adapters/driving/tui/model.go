// Package tui provides an interactive terminal interface for searching the
// article index.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driving"
)

// resultLimit is how many articles one search pulls into the view.
const resultLimit = 10

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the Bubble Tea model for the search screen.
type Model struct {
	searcher driving.Searcher
	ctx      context.Context

	input    textinput.Model
	viewport viewport.Model
	results  []domain.RankedResult
	cursor   int
	status   string
	ready    bool
}

// New creates a new search TUI model.
func New(ctx context.Context, searcher driving.Searcher) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a query and press Enter"
	ti.Focus()

	return Model{
		searcher: searcher,
		ctx:      ctx,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameHeight := boxStyle.GetFrameSize()
		height := msg.Height - frameHeight - 5
		if height < 3 {
			height = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = height
		m.viewport.SetContent(m.renderResults())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.runSearch(), nil
		case tea.KeyDown:
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderResults())
			}
			return m, nil
		case tea.KeyUp:
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderResults())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the search screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("newsearch")
	results := boxStyle.Render(m.viewport.View())
	input := boxStyle.Render(m.input.View())

	style := statusStyle
	if strings.HasPrefix(m.status, "Error") {
		style = errorStyle
	}
	return header + "\n" + results + "\n" + input + "\n" + style.Render(m.status)
}

func (m Model) runSearch() Model {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m
	}

	results, err := m.searcher.Search(m.ctx, query, resultLimit)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else if len(results) == 0 {
		m.status = fmt.Sprintf("No results for %q", query)
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d results for %q", len(results), query)
		m.results = results
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderResults())
	return m
}

func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return "No results yet."
	}

	var b strings.Builder
	for i, r := range m.results {
		line := fmt.Sprintf("[%d] %s  (distance %.3f)", i+1, r.Article.Title, r.Distance)
		if i == m.cursor {
			b.WriteString(currentStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")

		if i == m.cursor {
			if r.Article.Preview != "" {
				b.WriteString("    " + r.Article.Preview + "\n")
			}
			if r.Article.URL != "" {
				b.WriteString(faintStyle.Render("    "+r.Article.URL) + "\n")
			}
		}
	}
	return b.String()
}
