package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/related"
)

// Details writes the detail panel for a tool followed by its related
// tools, if any.
func Details(w io.Writer, tool catalog.ToolRecord, rel []related.Scored, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	inner := max(width-4, 30)

	lines := []string{titleStyle.Render(tool.Name)}
	if tool.Version != "" {
		lines[0] += " " + Faint(tool.Version)
	}
	lines = append(lines,
		field("Category", tool.Category),
		field("Description", wrap(orNone(tool.Description), inner-14)),
	)
	if tool.LongDescription != "" && tool.LongDescription != tool.Description {
		lines = append(lines, field("About", wrap(tool.LongDescription, inner-14)))
	}
	if len(tool.Groups) > 0 {
		lines = append(lines, field("Groups", strings.Join(tool.Groups, ", ")))
	}
	lines = append(lines, field("Dependencies", wrap(joinOrNone(tool.Dependencies), inner-14)))
	if len(tool.OptionalDependencies) > 0 {
		lines = append(lines, field("Optional", wrap(strings.Join(tool.OptionalDependencies, ", "), inner-14)))
	}
	if tool.URL != "" {
		lines = append(lines, field("URL", tool.URL))
	}
	if tool.Path != "" {
		lines = append(lines, field("Path", tool.Path))
	}
	lines = append(lines, field("Help", tool.HelpCmd()))

	panel := panelStyle.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if _, err := fmt.Fprintln(w, panel); err != nil {
		return err
	}

	if len(rel) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, titleStyle.Render("Related tools")); err != nil {
		return err
	}
	for _, r := range rel {
		line := fmt.Sprintf("  %s %s %s",
			r.Tool.Name,
			Faint(fmt.Sprintf("(%s, %.2f)", r.Tool.Category, r.Score)),
			Truncate(r.Tool.Description, max(inner-len(r.Tool.Name)-30, 20)))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return Faint("(none)")
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return Faint("(none)")
	}
	return strings.Join(items, ", ")
}
