package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/lani-platform/lani/internal/money"
)

// Transaction records money moving in or out of a project. Amount is always
// positive; direction is carried by Type.
type Transaction struct {
	ID          string
	ProjectID   string
	BudgetID    *string
	UserID      string
	Description string
	Amount      money.Amount
	Type        TransactionType
	Date        time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Transaction) OwningProjectID() string { return t.ProjectID }

func (t *Transaction) IsExpense() bool { return t.Type == TransactionExpense }
func (t *Transaction) IsIncome() bool  { return t.Type == TransactionIncome }

// RecordedBy reports whether userID recorded the transaction.
func (t *Transaction) RecordedBy(userID string) bool {
	return userID != "" && t.UserID == userID
}

// InBudget reports whether the transaction is linked to budgetID.
func (t *Transaction) InBudget(budgetID string) bool {
	return t.BudgetID != nil && *t.BudgetID == budgetID
}

// AffectsBudget reports whether the transaction counts against its budget.
func (t *Transaction) AffectsBudget() bool {
	return t.BudgetID != nil && t.IsExpense()
}

func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("transaction description is required")
	}
	if t.ProjectID == "" || t.UserID == "" {
		return fmt.Errorf("transaction project and recorder are required")
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Type != TransactionIncome && t.Type != TransactionExpense {
		return fmt.Errorf("transaction type %q is invalid", t.Type)
	}
	return nil
}

// Uncategorized is reported for transactions outside any budget.
const Uncategorized = "uncategorized"

// Category returns the category of b when the transaction belongs to it.
func (t *Transaction) Category(b *Budget) string {
	if b == nil || !t.InBudget(b.ID) {
		return Uncategorized
	}
	return string(b.Category)
}
