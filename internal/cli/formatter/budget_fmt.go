package formatter

import (
	"fmt"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/domain"
)

func FormatBudgetList(budgets []*domain.Budget) string {
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, []string{
			TruncID(b.ID),
			Bold(b.Name),
			string(b.Category),
			b.Amount.String(),
			b.PeriodStart.Format("2006-01-02") + " → " + b.PeriodEnd.Format("2006-01-02"),
		})
	}
	t := Table{
		Headers: []string{"ID", "NAME", "CATEGORY", "AMOUNT", "PERIOD"},
		Rows:    rows,
		Right:   map[int]bool{3: true},
	}
	return RenderBox("Budgets", t.Render())
}

func FormatBudgetSummary(b *domain.Budget, s budget.Summary) string {
	active := "no"
	if s.Active {
		active = fmt.Sprintf("yes, %d days left", s.DaysRemaining)
	}
	body := KeyValues([][2]string{
		{"amount", s.Amount.String()},
		{"spent", s.Spent.String()},
		{"remaining", Money(s.Remaining)},
		{"used", s.PercentageUsed.String() + "%"},
		{"status", BudgetStatusPill(s.Status)},
		{"active", active},
	})
	return RenderBox(b.Name, body)
}
