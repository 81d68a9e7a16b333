// Package render formats corpus data for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 100

var (
	accentColor = lipgloss.AdaptiveColor{Light: "25", Dark: "75"}
	faintColor  = lipgloss.AdaptiveColor{Light: "245", Dark: "242"}
	hintColor   = lipgloss.AdaptiveColor{Light: "136", Dark: "221"}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(14)
	faintStyle  = lipgloss.NewStyle().Foreground(faintColor)
	hintStyle   = lipgloss.NewStyle().Foreground(hintColor)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// Truncate shortens s to at most width display cells, ending in "…" when
// cut. Newlines are folded into spaces.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Hint renders a "💡" line the user can act on.
func Hint(text string) string {
	return hintStyle.Render("💡 " + text)
}

// Faint renders secondary text.
func Faint(text string) string {
	return faintStyle.Render(text)
}
