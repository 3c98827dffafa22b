package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderNotes styles a study-notes answer for the terminal.
// "#"/"##" lines become titles, "###" lines subtitles, and **spans** are
// emphasised. Everything else passes through unchanged. A positive width
// word-wraps the result.
func (s *Styles) RenderNotes(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = s.renderNotesLine(line)
	}
	out := strings.Join(lines, "\n")

	if width > 0 {
		out = lipgloss.NewStyle().Width(width).Render(out)
	}
	return out
}

func (s *Styles) renderNotesLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "### "):
		return s.Subtitle.Render(stripBold(strings.TrimPrefix(trimmed, "### ")))
	case strings.HasPrefix(trimmed, "## "):
		return s.Title.Render(stripBold(strings.TrimPrefix(trimmed, "## ")))
	case strings.HasPrefix(trimmed, "# "):
		return s.Title.Render(stripBold(strings.TrimPrefix(trimmed, "# ")))
	}
	return s.renderBold(line)
}

// renderBold styles each closed **span**; an unclosed marker is left as typed.
func (s *Styles) renderBold(line string) string {
	var b strings.Builder
	rest := line
	for {
		start := strings.Index(rest, "**")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+2:], "**")
		if end < 0 {
			break
		}
		inner := rest[start+2 : start+2+end]
		b.WriteString(rest[:start])
		b.WriteString(s.Bold.Render(inner))
		rest = rest[start+2+end+2:]
	}
	b.WriteString(rest)
	return b.String()
}

func stripBold(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
