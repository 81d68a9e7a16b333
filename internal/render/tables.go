package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/related"
	"github.com/bapanel/bapanel/internal/search"
)

// Page selects a window of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Bounds returns the half-open range of n items shown by p and the total
// page count. A non-positive Size shows everything; Number is clamped.
func (p Page) Bounds(n int) (start, end, pages int) {
	if p.Size <= 0 || n == 0 {
		return 0, n, 1
	}
	pages = (n + p.Size - 1) / p.Size
	number := min(max(p.Number, 1), pages)
	start = (number - 1) * p.Size
	end = min(start+p.Size, n)
	return start, end, pages
}

func newTable(width int, headers ...string) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(faintStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if width > 0 {
		t.Width(width)
	}
	return t
}

// Categories writes every category with its tool count.
func Categories(w io.Writer, idx *catalog.CategoryIndex) error {
	t := newTable(0, "Category", "Tools")
	for _, c := range idx.Counts() {
		t.Row(c.Name, strconv.Itoa(c.Count))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), Faint(fmt.Sprintf("%d categories", idx.Len())))
	return err
}

// Tools writes one page of tools with truncated descriptions.
func Tools(w io.Writer, tools []catalog.ToolRecord, page Page, width int) error {
	start, end, pages := page.Bounds(len(tools))
	descWidth := descriptionWidth(width, 24+22)

	t := newTable(0, "Name", "Category", "Description")
	for _, tool := range tools[start:end] {
		t.Row(tool.Name, tool.Category, Truncate(tool.Description, descWidth))
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	footer := fmt.Sprintf("%d tools", len(tools))
	if pages > 1 {
		number := start/max(page.Size, 1) + 1
		footer = fmt.Sprintf("showing %d-%d of %d tools (page %d/%d)", start+1, end, len(tools), number, pages)
	}
	_, err := fmt.Fprintln(w, Faint(footer))
	return err
}

// Matches writes search hits with the tier that produced each.
func Matches(w io.Writer, matches []search.Match, width int) error {
	descWidth := descriptionWidth(width, 24+22+18)

	t := newTable(0, "Name", "Category", "Match", "Description")
	for _, m := range matches {
		t.Row(m.Tool.Name, m.Tool.Category, m.Tier.String(), Truncate(m.Tool.Description, descWidth))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), Faint(fmt.Sprintf("%d matches", len(matches))))
	return err
}

// Ranked writes BM25 results.
func Ranked(w io.Writer, results []search.Result, width int) error {
	descWidth := descriptionWidth(width, 24+22+10)

	t := newTable(0, "Name", "Category", "Score", "Description")
	for _, r := range results {
		t.Row(r.Tool.Name, r.Tool.Category, fmt.Sprintf("%.3f", r.Score), Truncate(r.Tool.Description, descWidth))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// Related writes related tools. With explain, the weighted parts of each
// score are shown too.
func Related(w io.Writer, scored []related.Scored, explain bool) error {
	headers := []string{"Name", "Category", "Score"}
	if explain {
		headers = append(headers, "Category", "Description", "Dependency")
	}

	t := newTable(0, headers...)
	for _, s := range scored {
		row := []string{s.Tool.Name, s.Tool.Category, fmt.Sprintf("%.3f", s.Score)}
		if explain {
			row = append(row,
				fmt.Sprintf("%.3f", s.CategoryScore),
				fmt.Sprintf("%.3f", s.DescriptionScore),
				fmt.Sprintf("%.3f", s.DependencyScore))
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// Stats writes the corpus summary.
func Stats(w io.Writer, s catalog.Stats) error {
	lines := []string{
		titleStyle.Render("Corpus"),
		field("Tools", strconv.Itoa(s.Tools)),
		field("Categories", strconv.Itoa(len(s.Categories))),
		field("Dependencies", strconv.Itoa(s.DependencyRefs)),
		field("Dangling", strconv.Itoa(len(s.Dangling))),
	}
	if _, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...)); err != nil {
		return err
	}

	if len(s.Dangling) > 0 {
		t := newTable(0, "Dependency", "Referenced by")
		for _, d := range s.Dangling {
			t.Row(d.Name, strconv.Itoa(d.References))
		}
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	return nil
}

func descriptionWidth(total, used int) int {
	if total <= 0 {
		total = DefaultWidth
	}
	return max(total-used, 20)
}
