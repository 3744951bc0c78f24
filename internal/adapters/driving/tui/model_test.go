package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

type stubSearcher struct {
	results []domain.RankedResult
	err     error
	lastK   int
}

func (s *stubSearcher) Search(_ context.Context, _ string, k int) ([]domain.RankedResult, error) {
	s.lastK = k
	return s.results, s.err
}

func typeQuery(m Model, query string) Model {
	for _, r := range query {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestUpdate_EnterRunsSearch(t *testing.T) {
	searcher := &stubSearcher{results: []domain.RankedResult{
		{Article: domain.ArticleRecord{ID: 1, Title: "Hit One"}, Distance: 0.1},
		{Article: domain.ArticleRecord{ID: 2, Title: "Hit Two"}, Distance: 0.4},
	}}
	m := New(context.Background(), searcher)
	m = typeQuery(m, "climate")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Equal(t, resultLimit, searcher.lastK)
	require.Len(t, m.results, 2)
	assert.Contains(t, m.status, "2 results")
	assert.Contains(t, m.renderResults(), "Hit One")
}

func TestUpdate_EnterWithEmptyInputDoesNothing(t *testing.T) {
	searcher := &stubSearcher{}
	m := New(context.Background(), searcher)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Equal(t, "Ready.", m.status)
	assert.Zero(t, searcher.lastK)
}

func TestUpdate_SearchErrorShownInStatus(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("index down")}
	m := New(context.Background(), searcher)
	m = typeQuery(m, "anything")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.True(t, strings.HasPrefix(m.status, "Error"))
	assert.Empty(t, m.results)
}

func TestUpdate_CursorWrapsAround(t *testing.T) {
	searcher := &stubSearcher{results: []domain.RankedResult{
		{Article: domain.ArticleRecord{ID: 1, Title: "A"}},
		{Article: domain.ArticleRecord{ID: 2, Title: "B"}},
	}}
	m := New(context.Background(), searcher)
	m = typeQuery(m, "q")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := New(context.Background(), &stubSearcher{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
