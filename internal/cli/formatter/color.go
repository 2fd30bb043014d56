package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
)

var (
	StyleGreen  lipgloss.Style
	StyleYellow lipgloss.Style
	StyleOrange lipgloss.Style
	StyleRed    lipgloss.Style
	StyleBlue   lipgloss.Style
	StyleDim    lipgloss.Style
	StyleFg     lipgloss.Style
	StyleHeader lipgloss.Style
	StyleBold   lipgloss.Style
)

func init() { SetPlain(false) }

// SetPlain switches every style to uncolored output. The CLI calls it when
// stdout is not a terminal.
func SetPlain(plain bool) {
	fg := func(c lipgloss.Color) lipgloss.Style {
		if plain {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	StyleGreen = fg(ColorGreen)
	StyleYellow = fg(ColorYellow)
	StyleOrange = fg(ColorOrange)
	StyleRed = fg(ColorRed)
	StyleBlue = fg(ColorBlue)
	StyleDim = fg(ColorDim)
	StyleFg = fg(ColorFg)
	StyleHeader = fg(ColorOrange).Bold(!plain)
	StyleBold = fg(ColorFg).Bold(!plain)
}

// BudgetStatusStyle maps budget.StatusColor onto the palette.
func BudgetStatusStyle(s budget.Status) lipgloss.Style {
	switch budget.StatusColor(s) {
	case "red":
		return StyleRed
	case "orange":
		return StyleOrange
	case "yellow":
		return StyleYellow
	}
	return StyleGreen
}

// BudgetStatusPill renders a status such as "● over budget".
func BudgetStatusPill(s budget.Status) string {
	return BudgetStatusStyle(s).Render("● " + strings.ReplaceAll(string(s), "_", " "))
}

func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● active")
	case domain.ProjectPlanning:
		return StyleBlue.Render("◌ planning")
	case domain.ProjectOnHold:
		return StyleYellow.Render("○ on hold")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ completed")
	case domain.ProjectCancelled:
		return StyleDim.Render("✖ cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

func TaskStatusPill(status domain.TaskStatus) string {
	label := strings.ReplaceAll(string(status), "_", " ")
	switch status {
	case domain.TaskInProgress, domain.TaskReview:
		return StyleYellow.Render("◐ " + label)
	case domain.TaskCompleted:
		return StyleGreen.Render("✔ " + label)
	case domain.TaskCancelled:
		return StyleDim.Render("✖ " + label)
	default:
		return StyleFg.Render("○ " + label)
	}
}

func PriorityBadge(p domain.TaskPriority) string {
	switch p {
	case domain.PriorityUrgent:
		return StyleRed.Render(string(p))
	case domain.PriorityHigh:
		return StyleOrange.Render(string(p))
	case domain.PriorityLow:
		return StyleDim.Render(string(p))
	}
	return StyleFg.Render(string(p))
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
