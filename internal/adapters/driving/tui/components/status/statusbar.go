// Package status provides the status bar component for the chat UI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
)

// State represents the session state for display.
type State string

const (
	StateEmpty      State = "empty"
	StateReady      State = "ready"
	StateProcessing State = "processing"
	StateThinking   State = "thinking"
	StateError      State = "error"
	StateSources    State = "sources"
	StateHelp       State = "help"
)

// Bar displays session status and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	spinner   string
	documents int
	chunks    int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateEmpty,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state or message.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateProcessing:
		return s.styles.Muted.Render(s.withSpinner("Processing study materials..."))
	case StateThinking:
		return s.styles.Muted.Render(s.withSpinner("Thinking..."))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateSources:
		return s.styles.Normal.Render("Sources")
	case StateReady:
		if s.message != "" {
			return s.styles.Success.Render(s.message)
		}
		return s.styles.Normal.Render(fmt.Sprintf("%d documents, %d chunks", s.documents, s.chunks))
	case StateEmpty:
	}
	if s.message != "" {
		return s.styles.Warning.Render(s.message)
	}
	return s.styles.Muted.Render("No study materials processed")
}

func (s *Bar) withSpinner(text string) string {
	if s.spinner == "" {
		return text
	}
	return s.spinner + " " + text
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateSources {
		bindings = s.keymap.SourcesHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetSpinner sets the spinner frame shown while busy.
func (s *Bar) SetSpinner(frame string) {
	s.spinner = frame
}

// SetCounts sets the indexed document and chunk counts.
func (s *Bar) SetCounts(documents, chunks int) {
	s.documents = documents
	s.chunks = chunks
}

// Counts returns the indexed document and chunk counts.
func (s *Bar) Counts() (documents, chunks int) {
	return s.documents, s.chunks
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the message while keeping counts.
func (s *Bar) Clear() {
	if s.documents > 0 || s.chunks > 0 {
		s.state = StateReady
	} else {
		s.state = StateEmpty
	}
	s.message = ""
	s.spinner = ""
}
