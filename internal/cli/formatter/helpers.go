package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lani-platform/lani/internal/money"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(1).
		PaddingRight(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + strings.TrimRight(content, "\n"))
	}
	return boxStyle.Render(strings.TrimRight(content, "\n"))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Day formats an optional calendar date, "--" when unset.
func Day(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format("2006-01-02")
}

// Money renders an amount, red when negative.
func Money(a money.Amount) string {
	if a.IsNegative() {
		return StyleRed.Render(a.String())
	}
	return a.String()
}

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45%. pct is 0..100.
// Green above 66, yellow from 33, red below.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := min(int(pct/100*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 33 {
		style = StyleRed
	} else if pct < 66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}

// KeyValues renders label/value pairs with the labels aligned.
func KeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		pad := width - lipgloss.Width(p[0])
		b.WriteString(Dim(p[0]) + strings.Repeat(" ", pad+2) + p[1] + "\n")
	}
	return b.String()
}
