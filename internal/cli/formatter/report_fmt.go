package formatter

import (
	"fmt"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/domain"
)

// PortfolioRow is one project line of the portfolio report.
type PortfolioRow struct {
	Project    *domain.Project
	Financials *budget.Financials
	Progress   float64
	Overdue    int
}

func FormatPortfolio(rows []PortfolioRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		overdue := Dim("0")
		if r.Overdue > 0 {
			overdue = StyleRed.Render(fmt.Sprintf("%d", r.Overdue))
		}
		total, remaining := Dim("n/a"), Dim("n/a")
		if r.Financials != nil {
			total, remaining = r.Financials.TotalBudget.String(), Money(r.Financials.Remaining)
		}
		out = append(out, []string{
			Bold(r.Project.Name),
			ProjectStatusPill(r.Project.Status),
			RenderProgress(r.Progress, 10),
			overdue,
			total,
			remaining,
		})
	}
	t := Table{
		Headers: []string{"PROJECT", "STATUS", "PROGRESS", "OVERDUE", "BUDGET", "REMAINING"},
		Rows:    out,
		Right:   map[int]bool{3: true, 4: true, 5: true},
	}
	return RenderBox("Portfolio", t.Render())
}
