package domain

import (
	"testing"
	"time"

	"github.com/lani-platform/lani/internal/money"
	"github.com/stretchr/testify/assert"
)

func TestBudgetValidate(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	good := Budget{
		ProjectID:   "p1",
		Name:        "Concrete",
		Amount:      money.New(100000, money.USD),
		Category:    CategoryMaterials,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 3, 0),
	}
	assert.NoError(t, good.Validate())

	sameDay := good
	sameDay.PeriodEnd = start
	assert.ErrorIs(t, sameDay.Validate(), ErrInvalidPeriod)

	zero := good
	zero.Amount = money.Zero(money.USD)
	assert.ErrorIs(t, zero.Validate(), ErrInvalidAmount)

	unknown := good
	unknown.Category = "snacks"
	assert.Error(t, unknown.Validate())
}

func TestTransactionAffectsBudget(t *testing.T) {
	b := "b1"
	expense := &Transaction{Type: TransactionExpense, BudgetID: &b}
	income := &Transaction{Type: TransactionIncome, BudgetID: &b}
	unlinked := &Transaction{Type: TransactionExpense}

	assert.True(t, expense.AffectsBudget())
	assert.False(t, income.AffectsBudget())
	assert.False(t, unlinked.AffectsBudget())
	assert.True(t, income.InBudget("b1"))
	assert.False(t, unlinked.InBudget("b1"))
}

func TestTransactionValidate(t *testing.T) {
	tx := Transaction{
		ProjectID:   "p1",
		UserID:      "u1",
		Description: "Rebar",
		Amount:      money.New(500, money.USD),
		Type:        TransactionExpense,
	}
	assert.NoError(t, tx.Validate())

	tx.Type = "refund"
	assert.Error(t, tx.Validate())

	tx.Type = TransactionIncome
	tx.Amount = money.New(-5, money.USD)
	assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)
}
