package budget

import (
	"errors"
	"testing"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func usd(cents int64) money.Amount { return money.New(cents, money.USD) }

func newBudget(cents int64) *domain.Budget {
	return &domain.Budget{
		ID:          "b1",
		ProjectID:   "p1",
		Name:        "Materials",
		Amount:      usd(cents),
		Category:    domain.CategoryMaterials,
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func expense(id, budgetID string, cents int64) *domain.Transaction {
	tx := &domain.Transaction{ID: id, ProjectID: "p1", UserID: "u1", Amount: usd(cents), Type: domain.TransactionExpense}
	if budgetID != "" {
		tx.BudgetID = &budgetID
	}
	return tx
}

func income(id, budgetID string, cents int64) *domain.Transaction {
	tx := expense(id, budgetID, cents)
	tx.Type = domain.TransactionIncome
	return tx
}

func TestSummarize_OverBudget(t *testing.T) {
	b := newBudget(100000)
	txs := []*domain.Transaction{expense("x1", "b1", 30000), expense("x2", "b1", 80000)}

	s, err := Summarize(b, txs, today)
	require.NoError(t, err)
	assert.Equal(t, int64(110000), s.Spent.Cents)
	assert.Equal(t, int64(-10000), s.Remaining.Cents)
	assert.Equal(t, StatusOverBudget, s.Status)
	assert.Equal(t, "-$100.00", s.Remaining.String())
}

func TestSummarize_Warning(t *testing.T) {
	b := newBudget(50000)
	s, err := Summarize(b, []*domain.Transaction{expense("x1", "b1", 46000)}, today)
	require.NoError(t, err)
	assert.Equal(t, Percentage(9200), s.PercentageUsed)
	assert.Equal(t, "92.00", s.PercentageUsed.String())
	assert.Equal(t, StatusWarning, s.Status)
}

func TestSpent_IgnoresIncomeAndOtherBudgets(t *testing.T) {
	b := newBudget(50000)
	txs := []*domain.Transaction{
		expense("x1", "b1", 1000),
		income("x2", "b1", 99999),
		expense("x3", "b2", 5000),
		expense("x4", "", 7000),
	}
	spent, err := Spent(b, txs)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), spent.Cents)
}

func TestPercentageUsed(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		spent  int64
		want   Percentage
	}{
		{"zero amount", 0, 5000, 0},
		{"zero amount zero spent", 0, 0, 0},
		{"nothing spent", 10000, 0, 0},
		{"exact half", 10000, 5000, 5000},
		{"rounds half up", 20000, 1, 1},
		{"rounds down below half", 300, 1, 33},
		{"one third", 3, 1, 3333},
		{"two thirds", 3, 2, 6667},
		{"over", 10000, 15000, 15000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PercentageUsed(usd(tc.amount), usd(tc.spent)))
		})
	}
}

func TestStatusOf_Thresholds(t *testing.T) {
	tests := []struct {
		spent int64
		want  Status
	}{
		{0, StatusGood},
		{7499, StatusGood},
		{7500, StatusCaution},
		{8999, StatusCaution},
		{9000, StatusWarning},
		{10000, StatusWarning},
		{10001, StatusOverBudget},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StatusOf(usd(10000), usd(tc.spent)), "spent %d", tc.spent)
	}
	assert.Equal(t, StatusOverBudget, StatusOf(usd(0), usd(1)))
	assert.Equal(t, StatusGood, StatusOf(usd(0), usd(0)))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "red", StatusColor(StatusOverBudget))
	assert.Equal(t, "orange", StatusColor(StatusWarning))
	assert.Equal(t, "yellow", StatusColor(StatusCaution))
	assert.Equal(t, "green", StatusColor(StatusGood))
	assert.Greater(t, StatusOverBudget.Severity(), StatusWarning.Severity())
	assert.Greater(t, StatusCaution.Severity(), StatusGood.Severity())
}

func TestRemaining_ExactCents(t *testing.T) {
	b := newBudget(123457)
	txs := []*domain.Transaction{expense("x1", "b1", 1), expense("x2", "b1", 33333), expense("x3", "b1", 11)}
	s, err := Summarize(b, txs, today)
	require.NoError(t, err)
	assert.Equal(t, b.Amount.Cents-s.Spent.Cents, s.Remaining.Cents)
	assert.Equal(t, int64(90112), s.Remaining.Cents)
}

func TestSummarize_Idempotent(t *testing.T) {
	b := newBudget(50000)
	txs := []*domain.Transaction{expense("x1", "b1", 12345)}
	first, err := Summarize(b, txs, today)
	require.NoError(t, err)
	second, err := Summarize(b, txs, today)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummarize_CurrencyMismatch(t *testing.T) {
	b := newBudget(50000)
	tx := expense("x1", "b1", 100)
	tx.Amount = money.New(100, money.EUR)

	_, err := Summarize(b, []*domain.Transaction{tx}, today)
	var mismatch *money.CurrencyMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, money.USD, mismatch.Left)
	assert.Equal(t, money.EUR, mismatch.Right)
}

func TestActiveAndDaysRemaining(t *testing.T) {
	b := newBudget(100)

	assert.True(t, Active(b, today))
	assert.True(t, Active(b, b.PeriodStart))
	assert.True(t, Active(b, b.PeriodEnd.Add(23*time.Hour)), "end day is inclusive")
	assert.False(t, Active(b, b.PeriodEnd.AddDate(0, 0, 1)))
	assert.False(t, Active(b, b.PeriodStart.AddDate(0, 0, -1)))

	assert.Equal(t, 15, DaysRemaining(b, today))
	assert.Equal(t, 0, DaysRemaining(b, b.PeriodEnd))
	assert.Equal(t, 0, DaysRemaining(b, b.PeriodEnd.AddDate(0, 1, 0)))
}

func TestOverBudgetImpact(t *testing.T) {
	b := newBudget(10000)
	x1 := expense("x1", "b1", 8000)
	x2 := expense("x2", "b1", 4500)
	txs := []*domain.Transaction{x1, x2}

	impact, err := OverBudgetImpact(x2, b, txs)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), impact.Cents)

	within, err := OverBudgetImpact(x1, b, txs[:1])
	require.NoError(t, err)
	assert.True(t, within.IsZero())

	inc := income("x3", "b1", 500)
	none, err := OverBudgetImpact(inc, b, txs)
	require.NoError(t, err)
	assert.True(t, none.IsZero(), "income never affects a budget")
}

func TestProjectFinancials_CountsEveryTransaction(t *testing.T) {
	b1 := newBudget(100000)
	b2 := newBudget(50000)
	b2.ID = "b2"
	txs := []*domain.Transaction{
		expense("x1", "b1", 30000),
		income("x2", "b1", 20000),
		expense("x3", "", 5000),
	}

	f, err := ProjectFinancials("p1", money.USD, []*domain.Budget{b1, b2}, txs)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), f.TotalBudget.Cents)
	assert.Equal(t, int64(55000), f.TotalSpent.Cents, "income is included in project spend")
	assert.Equal(t, int64(95000), f.Remaining.Cents)
	assert.Equal(t, int64(20000), f.TotalIncome.Cents)
	assert.Equal(t, int64(35000), f.TotalExpense.Cents)

	budgetSpent, err := Spent(b1, txs)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), budgetSpent.Cents, "budget spend stays narrower")
}

func TestProjectFinancials_Empty(t *testing.T) {
	f, err := ProjectFinancials("p1", money.EUR, nil, nil)
	require.NoError(t, err)
	assert.True(t, f.TotalBudget.IsZero())
	assert.Equal(t, money.EUR, f.Remaining.Currency)
}

func TestTransactionCategory(t *testing.T) {
	b := newBudget(100)
	assert.Equal(t, "materials", expense("x1", "b1", 1).Category(b))
	assert.Equal(t, domain.Uncategorized, expense("x2", "", 1).Category(b))
	assert.Equal(t, domain.Uncategorized, expense("x3", "b1", 1).Category(nil))
}
