package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/lani-platform/lani/internal/money"
)

// Budget caps spending for one category of a project over a period. Its spent
// amount is never stored; see package budget.
type Budget struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	Amount      money.Amount
	Category    BudgetCategory
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *Budget) OwningProjectID() string { return b.ProjectID }

func ValidBudgetCategory(c BudgetCategory) bool {
	for _, v := range BudgetCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (b *Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("budget name is required")
	}
	if b.ProjectID == "" {
		return fmt.Errorf("budget project is required")
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidBudgetCategory(b.Category) {
		return fmt.Errorf("budget category %q is invalid", b.Category)
	}
	if b.PeriodStart.IsZero() || b.PeriodEnd.IsZero() {
		return fmt.Errorf("budget period start and end are required")
	}
	if !Day(b.PeriodEnd).After(Day(b.PeriodStart)) {
		return ErrInvalidPeriod
	}
	return nil
}
