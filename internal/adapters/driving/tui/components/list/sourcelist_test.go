package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

func sampleSources() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{
			Chunk: domain.Chunk{
				Content:  "Mitosis produces two identical daughter cells.",
				Metadata: map[string]any{domain.MetadataSource: "biology.pdf", domain.MetadataPage: 2},
			},
			Score: 0.91,
		},
		{
			Chunk: domain.Chunk{
				Content:  "Meiosis halves the chromosome number.",
				Metadata: map[string]any{domain.MetadataSource: "https://example.com/meiosis"},
			},
			Score: 0.84,
		},
		{
			Chunk: domain.Chunk{Content: "Untracked passage."},
			Score: 0.5,
		},
	}
}

func TestNewSourceList(t *testing.T) {
	l := NewSourceList(styles.DefaultStyles())

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Selected())
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedSource())
}

func TestNewSourceList_NilStyles(t *testing.T) {
	l := NewSourceList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Nil(t, l.Init())
}

func TestSourceList_SetSourcesResetsSelection(t *testing.T) {
	l := NewSourceList(nil)
	l.SetSources(sampleSources())
	l.SetSelected(2)

	l.SetSources(sampleSources()[:2])

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 0, l.Selected())
}

func TestSourceList_SetSelected(t *testing.T) {
	l := NewSourceList(nil)
	l.SetSources(sampleSources())

	l.SetSelected(1)
	assert.Equal(t, 1, l.Selected())

	l.SetSelected(5)
	assert.Equal(t, 1, l.Selected())

	l.SetSelected(-1)
	assert.Equal(t, 1, l.Selected())

	require.NotNil(t, l.SelectedSource())
	assert.InDelta(t, 0.84, l.SelectedSource().Score, 1e-9)
}

func TestSourceList_MoveBounds(t *testing.T) {
	l := NewSourceList(nil)
	l.SetSources(sampleSources())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
}

func TestSourceList_UpdateKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want int
	}{
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, 2},
		{"j", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 2},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, 0},
		{"k", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewSourceList(nil)
			l.SetSources(sampleSources())
			l.SetSelected(1)

			updated, cmd := l.Update(tt.msg)

			assert.Equal(t, l, updated)
			assert.Nil(t, cmd)
			assert.Equal(t, tt.want, l.Selected())
		})
	}
}

func TestSourceList_View_Empty(t *testing.T) {
	l := NewSourceList(nil)

	assert.Contains(t, l.View(), "No sources yet")
}

func TestSourceList_View_Citations(t *testing.T) {
	l := NewSourceList(nil)
	l.SetDimensions(100, 20)
	l.SetSources(sampleSources())

	view := l.View()

	assert.Contains(t, view, "Sources (3)")
	assert.Contains(t, view, "[1] biology.pdf (page 3)")
	assert.Contains(t, view, "[2] https://example.com/meiosis")
	assert.Contains(t, view, "[3] unknown source")
	assert.Contains(t, view, "0.91")
	assert.Contains(t, view, "Mitosis produces two identical daughter cells.")
	assert.Contains(t, view, "> [1]")
}

func TestSourceList_View_ScrollsToSelection(t *testing.T) {
	l := NewSourceList(nil)
	l.SetDimensions(100, 4) // room for one entry
	l.SetSources(sampleSources())
	l.SetSelected(2)

	view := l.View()

	assert.Contains(t, view, "[3]")
	assert.NotContains(t, view, "[1]")
}

func TestSourceList_Dimensions(t *testing.T) {
	l := NewSourceList(nil)
	assert.Equal(t, 80, l.Width())
	assert.Equal(t, 10, l.Height())

	l.SetDimensions(120, 40)

	assert.Equal(t, 120, l.Width())
	assert.Equal(t, 40, l.Height())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcdef", 6, "abcdef"},
		{"cut", "abcdefghij", 6, "abc..."},
		{"multibyte", "ééééééé", 5, "éé..."},
		{"tiny max clamps", "abcdefgh", 1, "a..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestSourceList_View_CollapsesWhitespace(t *testing.T) {
	l := NewSourceList(nil)
	l.SetDimensions(100, 20)
	l.SetSources([]domain.ScoredChunk{{Chunk: domain.Chunk{Content: "line one\n\nline   two"}}})

	view := l.View()

	assert.Contains(t, view, "line one line two")
	assert.False(t, strings.Contains(view, "line one\n\nline"))
}
