package formatter

import (
	"fmt"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/domain"
)

// FormatTransactionList renders transactions. budgets resolves categories;
// transactions outside it show as uncategorized.
func FormatTransactionList(txs []*domain.Transaction, budgets map[string]*domain.Budget) string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		var b *domain.Budget
		if tx.BudgetID != nil {
			b = budgets[*tx.BudgetID]
		}
		amount := tx.Amount.String()
		if tx.IsIncome() {
			amount = StyleGreen.Render("+" + amount)
		}
		rows = append(rows, []string{
			TruncID(tx.ID),
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Category(b),
			amount,
		})
	}
	t := Table{
		Headers: []string{"ID", "DATE", "DESCRIPTION", "CATEGORY", "AMOUNT"},
		Rows:    rows,
		Right:   map[int]bool{4: true},
	}
	return RenderBox("Transactions", t.Render())
}

// FormatBudgetAlert describes a status escalation in one line.
func FormatBudgetAlert(previous, current budget.Status, published bool) string {
	line := fmt.Sprintf("Budget moved from %s to %s", previous, BudgetStatusPill(current))
	if !published {
		line += Dim(" (alert not delivered)")
	}
	return line
}
