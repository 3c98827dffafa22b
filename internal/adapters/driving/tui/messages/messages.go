// Package messages defines Bubbletea message types for the chat UI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// QuestionSubmitted is sent when the user presses enter on a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReady carries the answer to a submitted question.
type AnswerReady struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// ProcessStarted is sent when study materials start processing.
type ProcessStarted struct {
	Request domain.ProcessRequest
}

// ProcessCompleted carries the outcome of processing study materials.
// Report is set even when Err is non-nil so per-source failures can be shown.
type ProcessCompleted struct {
	Report *domain.ProcessReport
	Err    error
}

// StatusRefreshed carries a fresh snapshot of the session.
type StatusRefreshed struct {
	Status domain.SessionStatus
}

// SourceSelected is sent when a passage is highlighted in the sources view.
type SourceSelected struct {
	Index int
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question input and answer transcript.
	ViewChat ViewType = iota
	// ViewSources lists the passages retrieved for the last answer.
	ViewSources
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewSources:
		return "sources"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
