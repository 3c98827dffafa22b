// Package sources provides the view listing the passages behind an answer.
package sources

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// View shows the retrieved passages of the last answer and the full text
// of the selected one.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.SourceList
	preview   viewport.Model
	statusbar *status.Bar

	answer *domain.Answer
	width  int
	height int
	ready  bool
}

// NewView creates a new sources view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateSources)

	v := &View{
		styles:    s,
		keymap:    km,
		list:      list.NewSourceList(s),
		preview:   viewport.New(80, 8),
		statusbar: bar,
		width:     80,
		height:    24,
	}
	v.refreshPreview()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetAnswer shows the passages retrieved for answer. A nil answer clears the view.
func (v *View) SetAnswer(answer *domain.Answer) {
	v.answer = answer
	if answer == nil {
		v.list.SetSources(nil)
	} else {
		v.list.SetSources(answer.Sources)
	}
	v.refreshPreview()
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back, v.keymap.Sources):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}

	case key.Matches(msg, v.keymap.Up, v.keymap.Down):
		before := v.list.Selected()
		v.list, _ = v.list.Update(msg)
		if v.list.Selected() == before {
			return v, nil
		}
		v.refreshPreview()
		index := v.list.Selected()
		return v, func() tea.Msg {
			return messages.SourceSelected{Index: index}
		}

	case key.Matches(msg, v.keymap.ScrollUp, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.preview, cmd = v.preview.Update(msg)
		return v, cmd
	}

	return v, nil
}

// refreshPreview shows the full text of the selected passage.
func (v *View) refreshPreview() {
	sc := v.list.SelectedSource()
	if sc == nil {
		v.preview.SetContent("")
		return
	}
	v.preview.SetContent(lipgloss.NewStyle().Width(v.preview.Width).Render(sc.Chunk.Content))
	v.preview.GotoTop()
}

// View renders the sources view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	title := "Sources"
	if v.answer != nil && v.answer.Question != "" {
		title = fmt.Sprintf("Sources for %q", list.Truncate(v.answer.Question, v.width-16))
	}

	parts := []string{v.styles.Title.Render(title), "", v.list.View()}
	if sc := v.list.SelectedSource(); sc != nil {
		parts = append(parts,
			"",
			v.styles.Border.Width(v.width-2).Render(
				v.styles.Citation.Render(domain.CitationLabel(&sc.Chunk))+"\n"+v.preview.View(),
			),
		)
	}
	body := strings.Join(parts, "\n")

	// Pin the status bar to the bottom
	if gap := v.height - lipgloss.Height(body) - 1; gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, v.statusbar.View())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Split the space between the list and the preview box
	listHeight := (height - 4) / 2
	if listHeight < 4 {
		listHeight = 4
	}
	previewHeight := height - listHeight - 8
	if previewHeight < 3 {
		previewHeight = 3
	}
	v.list.SetDimensions(width, listHeight)
	v.preview.Width = width - 4
	v.preview.Height = previewHeight
	v.statusbar.SetWidth(width)
	v.refreshPreview()
}

// Answer returns the answer whose sources are shown.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Selected returns the index of the selected passage.
func (v *View) Selected() int {
	return v.list.Selected()
}

// Count returns the number of passages shown.
func (v *View) Count() int {
	return v.list.Count()
}

// Preview returns the rendered text of the selected passage.
func (v *View) Preview() string {
	return v.preview.View()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
