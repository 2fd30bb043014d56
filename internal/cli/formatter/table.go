package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is an aligned text table with a header separator line. Columns
// listed in Right are right-aligned, which suits amounts.
type Table struct {
	Headers []string
	Rows    [][]string
	Right   map[int]bool
}

const colGap = 2

// RenderTable renders a left-aligned table.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}

func (t Table) Render() string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}

	// Widths are measured on visible text so ANSI styling does not count.
	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	header := make([]string, cols)
	for i, h := range t.Headers {
		header[i] = StyleHeader.Render(h)
	}
	t.writeRow(&b, header, widths)

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		t.writeRow(&b, row, widths)
	}
	return b.String()
}

func (t Table) writeRow(b *strings.Builder, row []string, widths []int) {
	cols := len(widths)
	for i := 0; i < cols; i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := max(widths[i]-lipgloss.Width(cell), 0)
		last := i == cols-1
		if t.Right[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			if !last {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if !last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}
