// Package list provides list display components for the chat UI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// SourceList displays the passages retrieved for an answer in a navigable list.
type SourceList struct {
	sources  []domain.ScoredChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *SourceList) View() string {
	if len(l.sources) == 0 {
		return l.styles.Muted.Render("No sources yet. Ask a question first.")
	}

	lines := make([]string, 0, len(l.sources)+2)
	header := l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.sources)))
	lines = append(lines, header, "")

	// Each entry takes two lines
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.sources) {
		end = len(l.sources)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSource(i, &l.sources[i]))
	}

	return strings.Join(lines, "\n")
}

// renderSource formats one passage as a citation line and a preview line.
func (l *SourceList) renderSource(index int, sc *domain.ScoredChunk) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	labelWidth := l.width - 12
	if labelWidth < 10 {
		labelWidth = 10
	}
	label := Truncate(fmt.Sprintf("[%d] %s", index+1, domain.CitationLabel(&sc.Chunk)), labelWidth)
	score := fmt.Sprintf("%.2f", sc.Score)

	var title string
	if index == l.selected {
		title = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, labelWidth, label, score))
	} else {
		title = l.styles.Citation.Render(fmt.Sprintf("%s%-*s  ", indicator, labelWidth, label)) +
			l.styles.Muted.Render(score)
	}

	preview := strings.Join(strings.Fields(sc.Chunk.Content), " ")
	preview = l.styles.Muted.Render("    " + Truncate(preview, l.width-6))

	return title + "\n" + preview
}

// SetSources replaces the list content and resets the selection.
func (l *SourceList) SetSources(sources []domain.ScoredChunk) {
	l.sources = sources
	l.selected = 0
}

// Sources returns the current passages.
func (l *SourceList) Sources() []domain.ScoredChunk {
	return l.sources
}

// Selected returns the index of the selected passage.
func (l *SourceList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *SourceList) SetSelected(index int) {
	if index >= 0 && index < len(l.sources) {
		l.selected = index
	}
}

// SelectedSource returns the selected passage, or nil if the list is empty.
func (l *SourceList) SelectedSource() *domain.ScoredChunk {
	if l.selected < 0 || l.selected >= len(l.sources) {
		return nil
	}
	return &l.sources[l.selected]
}

// MoveUp moves selection up.
func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SourceList) MoveDown() {
	if l.selected < len(l.sources)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *SourceList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *SourceList) Height() int {
	return l.height
}

// Count returns the number of passages.
func (l *SourceList) Count() int {
	return len(l.sources)
}

// IsEmpty returns whether the list is empty.
func (l *SourceList) IsEmpty() bool {
	return len(l.sources) == 0
}

// Truncate shortens s to at most maxRunes runes, ending in "..." when cut.
func Truncate(s string, maxRunes int) string {
	if maxRunes < 4 {
		maxRunes = 4
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes-3]) + "..."
}
