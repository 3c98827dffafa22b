package sources

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

func testAnswer() *domain.Answer {
	return &domain.Answer{
		Question: "What is photosynthesis?",
		Text:     "Notes",
		Sources: []domain.ScoredChunk{
			{
				Chunk: domain.Chunk{
					Content:  "Photosynthesis converts light energy into chemical energy.",
					Metadata: map[string]any{domain.MetadataSource: "plants.pdf", domain.MetadataPage: 4},
				},
				Score: 0.93,
			},
			{
				Chunk: domain.Chunk{
					Content:  "Chlorophyll absorbs red and blue light.",
					Metadata: map[string]any{domain.MetadataSource: "https://example.com/leaf"},
				},
				Score: 0.81,
			},
		},
	}
}

func newTestView() *View {
	v := NewView(styles.DefaultStyles(), nil)
	v.SetDimensions(100, 30)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.Equal(t, 0, v.Count())
	assert.Nil(t, v.Answer())
	assert.Nil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_SetAnswer(t *testing.T) {
	v := newTestView()

	v.SetAnswer(testAnswer())

	assert.Equal(t, 2, v.Count())
	assert.Equal(t, 0, v.Selected())
	assert.Contains(t, v.Preview(), "Photosynthesis converts light energy")

	view := v.View()
	assert.Contains(t, view, `Sources for "What is photosynthesis?"`)
	assert.Contains(t, view, "[1] plants.pdf (page 5)")
	assert.Contains(t, view, "[2] https://example.com/leaf")
	assert.Contains(t, view, "esc: back")
}

func TestView_SetAnswerNil(t *testing.T) {
	v := newTestView()
	v.SetAnswer(testAnswer())

	v.SetAnswer(nil)

	assert.Equal(t, 0, v.Count())
	assert.Empty(t, v.Preview())
	assert.Contains(t, v.View(), "No sources yet")
}

func TestView_NavigateUpdatesPreview(t *testing.T) {
	v := newTestView()
	v.SetAnswer(testAnswer())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyDown})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.SourceSelected{Index: 1}, cmd())
	assert.Equal(t, 1, v.Selected())
	assert.Contains(t, v.Preview(), "Chlorophyll absorbs")
}

func TestView_NavigateAtBoundary(t *testing.T) {
	v := newTestView()
	v.SetAnswer(testAnswer())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyUp})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, v.Selected())
}

func TestView_BackToChat(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView()

			_, cmd := v.Update(tt.msg)

			require.NotNil(t, cmd)
			assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())
		})
	}
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, v.Ready())
	assert.Equal(t, 120, v.Width())
	assert.Equal(t, 40, v.Height())
}

func TestView_UnknownKeyIgnored(t *testing.T) {
	v := newTestView()
	v.SetAnswer(testAnswer())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, v.Selected())
}
