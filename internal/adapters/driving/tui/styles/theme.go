// Package styles provides colour themes and styling for the chat UI and
// styled terminal output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette.
type Theme struct {
	// Primary is the main accent colour, used for headings.
	Primary lipgloss.Color

	// Secondary is used for subheadings and citations.
	Secondary lipgloss.Color

	// Background is the background colour.
	Background lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Emphasis highlights bolded key terms in answers.
	Emphasis lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2F80ED"), // Blue
		Secondary:  lipgloss.Color("#14B8A6"), // Teal
		Background: lipgloss.Color("#1B1D23"), // Near black
		Foreground: lipgloss.Color("#D8DEE9"), // Light gray
		Muted:      lipgloss.Color("#6B7280"), // Medium gray
		Emphasis:   lipgloss.Color("#F2C94C"), // Amber
		Success:    lipgloss.Color("#6FCF97"), // Green
		Warning:    lipgloss.Color("#F2994A"), // Orange
		Error:      lipgloss.Color("#EB5757"), // Red
		Border:     lipgloss.Color("#3B4252"), // Slate
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title renders level-two headings and the app header.
	Title lipgloss.Style

	// Subtitle renders level-three headings.
	Subtitle lipgloss.Style

	// Normal renders body text.
	Normal lipgloss.Style

	// Muted renders less important text.
	Muted lipgloss.Style

	// Bold renders **key terms**.
	Bold lipgloss.Style

	// Question renders the user's question in the transcript.
	Question lipgloss.Style

	// Citation renders source labels under an answer.
	Citation lipgloss.Style

	// Selected renders the highlighted list item.
	Selected lipgloss.Style

	// Error renders error messages.
	Error lipgloss.Style

	// Success renders success messages.
	Success lipgloss.Style

	// Warning renders soft failures such as "process materials first".
	Warning lipgloss.Style

	// InputField wraps the question input.
	InputField lipgloss.Style

	// StatusBar renders the bottom status line.
	StatusBar lipgloss.Style

	// Help renders key hints.
	Help lipgloss.Style

	// Border wraps bordered panels.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Emphasis),

		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary).
			PaddingLeft(1),

		Citation: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Secondary),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Background).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
