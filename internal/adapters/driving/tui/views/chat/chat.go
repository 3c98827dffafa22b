// Package chat provides the question and answer view of the chat UI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// ErrNoSessionService indicates that no session service was provided.
var ErrNoSessionService = errors.New("session service is required")

// noticeKind classifies transcript notices.
type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeWarning
	noticeError
)

// entry is one item of the transcript: a question with its answer, or a notice.
type entry struct {
	question string
	answer   *domain.Answer
	err      error
	pending  bool

	notice string
	kind   noticeKind
}

// View is the chat view: a scrolling transcript above a question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	viewport  viewport.Model
	spinner   spinner.Model
	statusbar *status.Bar

	session driving.SessionService
	ctx     context.Context

	transcript []entry
	lastAnswer *domain.Answer
	sources    []string
	busy       bool
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(s.Theme().Primary)),
	)

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		viewport:  viewport.New(80, 14),
		spinner:   sp,
		statusbar: status.NewBar(s, km),
		session:   session,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.refresh()
	return v
}

// WithContext sets the context for session calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Process starts processing study materials in the background.
func (v *View) Process(req domain.ProcessRequest) tea.Cmd {
	if v.busy {
		return nil
	}
	v.busy = true
	v.statusbar.SetState(status.StateProcessing)
	v.statusbar.SetMessage("")

	session, ctx := v.session, v.ctx
	run := func() tea.Msg {
		if session == nil {
			return messages.ProcessCompleted{Err: ErrNoSessionService}
		}
		report, err := session.Process(ctx, req)
		return messages.ProcessCompleted{Report: report, Err: err}
	}
	return tea.Batch(v.spinner.Tick, run)
}

// RefreshStatus returns a command that reads the session status.
func (v *View) RefreshStatus() tea.Cmd {
	session := v.session
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		return messages.StatusRefreshed{Status: session.Status()}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.statusbar.SetSpinner(v.spinner.View())
		return v, cmd

	case messages.AnswerReady:
		v.handleAnswer(msg)
		return v, nil

	case messages.ProcessCompleted:
		v.handleProcessed(msg)
		return v, v.RefreshStatus()

	case messages.StatusRefreshed:
		v.applyStatus(msg.Status)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(domain.UserMessage(msg.Err))
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Ask):
		return v, v.submit()

	case key.Matches(msg, v.keymap.ScrollUp, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case key.Matches(msg, v.keymap.Clear):
		v.transcript = nil
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit asks the typed question. Empty input and a busy session are ignored.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.busy {
		return nil
	}
	v.input.Reset()
	v.busy = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	v.transcript = append(v.transcript, entry{question: question, pending: true})
	v.refresh()

	session, ctx := v.session, v.ctx
	ask := func() tea.Msg {
		if session == nil {
			return messages.AnswerReady{Question: question, Err: ErrNoSessionService}
		}
		answer, err := session.Ask(ctx, question, 0)
		return messages.AnswerReady{Question: question, Answer: answer, Err: err}
	}
	return tea.Batch(v.spinner.Tick, ask)
}

// handleAnswer fills in the pending transcript entry.
func (v *View) handleAnswer(msg messages.AnswerReady) {
	v.busy = false
	v.statusbar.SetSpinner("")

	for i := len(v.transcript) - 1; i >= 0; i-- {
		if v.transcript[i].pending {
			v.transcript[i].pending = false
			v.transcript[i].answer = msg.Answer
			v.transcript[i].err = msg.Err
			break
		}
	}

	switch {
	case msg.Err == nil:
		v.err = nil
		v.lastAnswer = msg.Answer
		v.statusbar.Clear()
	case errors.Is(msg.Err, domain.ErrNotProcessed):
		v.err = msg.Err
		v.statusbar.SetState(status.StateEmpty)
		v.statusbar.SetMessage(domain.NotProcessedMessage)
	default:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(domain.UserMessage(msg.Err))
	}
	v.refresh()
}

// handleProcessed reports a processing run in the transcript.
func (v *View) handleProcessed(msg messages.ProcessCompleted) {
	v.busy = false
	v.statusbar.SetSpinner("")

	if msg.Report != nil {
		for _, f := range msg.Report.Failures() {
			v.addNotice(f.Err.Error(), noticeWarning)
		}
	}

	switch {
	case msg.Err == nil && msg.Report != nil:
		v.err = nil
		summary := msg.Report.Summary()
		v.addNotice(summary, noticeInfo)
		v.statusbar.SetCounts(msg.Report.Documents, msg.Report.Chunks)
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(summary)
	case errors.Is(msg.Err, domain.ErrNoDocuments):
		v.err = msg.Err
		v.addNotice(domain.NoDocumentsMessage, noticeWarning)
		v.statusbar.Clear()
		v.statusbar.SetMessage(domain.NoDocumentsMessage)
	default:
		v.err = msg.Err
		v.addNotice(domain.UserMessage(msg.Err), noticeError)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(domain.UserMessage(msg.Err))
	}
	v.refresh()
}

// applyStatus syncs counts and the source list with the session.
func (v *View) applyStatus(st domain.SessionStatus) {
	v.sources = st.Sources
	v.statusbar.SetCounts(st.Documents, st.Chunks)
	if v.busy {
		return
	}
	if st.Processed && v.statusbar.State() == status.StateEmpty {
		v.statusbar.SetState(status.StateReady)
	}
}

func (v *View) addNotice(text string, kind noticeKind) {
	v.transcript = append(v.transcript, entry{notice: text, kind: kind})
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.transcript) == 0 {
		return v.styles.Muted.Render("Ask anything about your study materials. Answers are written as study notes.")
	}

	width := v.width - 2
	parts := make([]string, 0, len(v.transcript))
	for i := range v.transcript {
		parts = append(parts, v.renderEntry(&v.transcript[i], width))
	}
	return strings.Join(parts, "\n\n")
}

func (v *View) renderEntry(e *entry, width int) string {
	if e.notice != "" {
		switch e.kind {
		case noticeWarning:
			return v.styles.Warning.Render(e.notice)
		case noticeError:
			return v.styles.Error.Render("Error: " + e.notice)
		case noticeInfo:
		}
		return v.styles.Success.Render(e.notice)
	}

	lines := []string{v.styles.Question.Render(e.question)}
	switch {
	case e.pending:
		lines = append(lines, v.styles.Muted.Render("..."))
	case errors.Is(e.err, domain.ErrNotProcessed):
		lines = append(lines, v.styles.Warning.Render(domain.NotProcessedMessage))
	case e.err != nil:
		lines = append(lines, v.styles.Error.Render("Error: "+domain.UserMessage(e.err)))
	case e.answer != nil:
		lines = append(lines, v.styles.RenderNotes(e.answer.Text, width))
		if labels := e.answer.SourceLabels(); len(labels) > 0 {
			cites := make([]string, len(labels))
			for i, l := range labels {
				cites[i] = fmt.Sprintf("[%d] %s", i+1, l)
			}
			lines = append(lines, v.styles.Citation.Render("Sources: "+strings.Join(cites, "  ")))
		}
	}
	return strings.Join(lines, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("Studymate")
	if len(v.sources) > 0 {
		header += "  " + v.styles.Muted.Render(strings.Join(v.sources, ", "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.viewport.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// header, spacers, input box and status bar
	vpHeight := height - 8
	if vpHeight < 3 {
		vpHeight = 3
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
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

// Busy returns true while a question or processing run is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Question returns the text currently typed.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the typed text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// LastAnswer returns the most recent successful answer, or nil.
func (v *View) LastAnswer() *domain.Answer {
	return v.lastAnswer
}

// TranscriptLen returns the number of transcript entries.
func (v *View) TranscriptLen() int {
	return len(v.transcript)
}

// Transcript returns the rendered transcript.
func (v *View) Transcript() string {
	return v.renderTranscript()
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
