// Package budget derives spend figures from budgets and their transactions.
// Nothing here is stored: every figure is recomputed from its inputs.
package budget

import (
	"fmt"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusGood       Status = "good"
	StatusCaution    Status = "caution"
	StatusWarning    Status = "warning"
	StatusOverBudget Status = "over_budget"
)

const (
	warningThreshold Percentage = 9000
	cautionThreshold Percentage = 7500
)

// Severity orders statuses from good (0) to over_budget (3).
func (s Status) Severity() int {
	switch s {
	case StatusCaution:
		return 1
	case StatusWarning:
		return 2
	case StatusOverBudget:
		return 3
	}
	return 0
}

// Percentage is a percentage in hundredths: 9200 means 92.00%.
type Percentage int64

func (p Percentage) Float() float64 { return float64(p) / 100 }

func (p Percentage) Decimal() decimal.Decimal { return decimal.New(int64(p), -2) }

func (p Percentage) String() string { return p.Decimal().StringFixed(2) }

// Spent sums the expense transactions linked to b. Income and unlinked
// transactions are ignored.
func Spent(b *domain.Budget, txs []*domain.Transaction) (money.Amount, error) {
	spent := money.Zero(b.Amount.Currency)
	for _, tx := range txs {
		if !tx.IsExpense() || !tx.InBudget(b.ID) {
			continue
		}
		var err error
		spent, err = spent.Add(tx.Amount)
		if err != nil {
			return money.Amount{}, fmt.Errorf("summing budget %s: %w", b.ID, err)
		}
	}
	return spent, nil
}

// Remaining is amount minus spent. It goes negative once over budget.
func Remaining(amount, spent money.Amount) (money.Amount, error) {
	return amount.Sub(spent)
}

// PercentageUsed is spent/amount*100 rounded half-up to two places, or 0
// when amount is zero.
func PercentageUsed(amount, spent money.Amount) Percentage {
	if amount.Cents == 0 {
		return 0
	}
	pct := decimal.NewFromInt(spent.Cents).
		Mul(decimal.NewFromInt(10000)).
		Div(decimal.NewFromInt(amount.Cents)).
		Round(0)
	return Percentage(pct.IntPart())
}

// StatusOf grades spend against amount. Overspending wins over the
// percentage thresholds.
func StatusOf(amount, spent money.Amount) Status {
	if spent.Cents > amount.Cents {
		return StatusOverBudget
	}
	pct := PercentageUsed(amount, spent)
	switch {
	case pct >= warningThreshold:
		return StatusWarning
	case pct >= cautionThreshold:
		return StatusCaution
	}
	return StatusGood
}

// StatusColor is the display color for s.
func StatusColor(s Status) string {
	switch s {
	case StatusOverBudget:
		return "red"
	case StatusWarning:
		return "orange"
	case StatusCaution:
		return "yellow"
	}
	return "green"
}

// Active reports whether today falls within the budget period, both ends
// inclusive.
func Active(b *domain.Budget, today time.Time) bool {
	d := domain.Day(today)
	return !d.Before(domain.Day(b.PeriodStart)) && !d.After(domain.Day(b.PeriodEnd))
}

// DaysRemaining counts whole days until the period ends, or 0 once it has.
func DaysRemaining(b *domain.Budget, today time.Time) int {
	d := domain.Day(today)
	end := domain.Day(b.PeriodEnd)
	if end.Before(d) {
		return 0
	}
	return int(end.Sub(d).Hours() / 24)
}

type Summary struct {
	BudgetID       string
	Amount         money.Amount
	Spent          money.Amount
	Remaining      money.Amount
	PercentageUsed Percentage
	Status         Status
	Active         bool
	DaysRemaining  int
}

// Summarize computes every derived figure for b from txs.
func Summarize(b *domain.Budget, txs []*domain.Transaction, today time.Time) (Summary, error) {
	spent, err := Spent(b, txs)
	if err != nil {
		return Summary{}, err
	}
	remaining, err := Remaining(b.Amount, spent)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		BudgetID:       b.ID,
		Amount:         b.Amount,
		Spent:          spent,
		Remaining:      remaining,
		PercentageUsed: PercentageUsed(b.Amount, spent),
		Status:         StatusOf(b.Amount, spent),
		Active:         Active(b, today),
		DaysRemaining:  DaysRemaining(b, today),
	}, nil
}

// OverBudgetImpact is how far tx's budget is over its amount, or zero when
// the transaction does not count against a budget or the budget is not
// overspent.
func OverBudgetImpact(tx *domain.Transaction, b *domain.Budget, txs []*domain.Transaction) (money.Amount, error) {
	zero := money.Zero(tx.Amount.Currency)
	if !tx.AffectsBudget() || b == nil || !tx.InBudget(b.ID) {
		return zero, nil
	}
	spent, err := Spent(b, txs)
	if err != nil {
		return money.Amount{}, err
	}
	remaining, err := Remaining(b.Amount, spent)
	if err != nil {
		return money.Amount{}, err
	}
	if !remaining.IsNegative() {
		return zero, nil
	}
	return money.New(-remaining.Cents, remaining.Currency), nil
}

// Financials is the project-level rollup.
type Financials struct {
	ProjectID   string
	TotalBudget money.Amount
	// TotalSpent sums every transaction of the project whatever its type or
	// budget link. It is deliberately broader than a budget's Spent.
	TotalSpent   money.Amount
	Remaining    money.Amount
	TotalIncome  money.Amount
	TotalExpense money.Amount
}

// ProjectFinancials rolls budgets and transactions up to project totals.
// Every amount must share cur.
func ProjectFinancials(projectID string, cur money.Currency, budgets []*domain.Budget, txs []*domain.Transaction) (Financials, error) {
	f := Financials{
		ProjectID:    projectID,
		TotalBudget:  money.Zero(cur),
		TotalSpent:   money.Zero(cur),
		TotalIncome:  money.Zero(cur),
		TotalExpense: money.Zero(cur),
	}
	var err error
	for _, b := range budgets {
		if f.TotalBudget, err = f.TotalBudget.Add(b.Amount); err != nil {
			return Financials{}, fmt.Errorf("budget %s: %w", b.ID, err)
		}
	}
	for _, tx := range txs {
		if f.TotalSpent, err = f.TotalSpent.Add(tx.Amount); err != nil {
			return Financials{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		if tx.IsIncome() {
			f.TotalIncome, err = f.TotalIncome.Add(tx.Amount)
		} else {
			f.TotalExpense, err = f.TotalExpense.Add(tx.Amount)
		}
		if err != nil {
			return Financials{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}
	if f.Remaining, err = Remaining(f.TotalBudget, f.TotalSpent); err != nil {
		return Financials{}, err
	}
	return f, nil
}
