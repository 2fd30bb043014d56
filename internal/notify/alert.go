// Package notify publishes budget alerts when a write pushes a budget into a
// worse spend status.
package notify

import (
	"encoding/json"
	"time"

	"github.com/lani-platform/lani/internal/budget"
)

// BudgetAlert reports a budget whose status got worse after a transaction
// write.
type BudgetAlert struct {
	BudgetID       string        `json:"budget_id"`
	ProjectID      string        `json:"project_id"`
	TransactionID  string        `json:"transaction_id,omitempty"`
	Previous       budget.Status `json:"previous_status"`
	Current        budget.Status `json:"current_status"`
	Currency       string        `json:"currency"`
	SpentCents     int64         `json:"spent_cents"`
	AmountCents    int64         `json:"amount_cents"`
	PercentageUsed string        `json:"percentage_used"`
	At             time.Time     `json:"at"`
}

// Escalated reports whether the move from before to after should raise an
// alert: the status got strictly worse and is no longer good.
func Escalated(before, after budget.Status) bool {
	return after != budget.StatusGood && after.Severity() > before.Severity()
}

// NewBudgetAlert builds an alert from the summaries taken before and after a
// write. ok is false when the change does not escalate.
func NewBudgetAlert(projectID string, before, after budget.Summary, at time.Time) (BudgetAlert, bool) {
	if !Escalated(before.Status, after.Status) {
		return BudgetAlert{}, false
	}
	return BudgetAlert{
		BudgetID:       after.BudgetID,
		ProjectID:      projectID,
		Previous:       before.Status,
		Current:        after.Status,
		Currency:       string(after.Amount.Currency),
		SpentCents:     after.Spent.Cents,
		AmountCents:    after.Amount.Cents,
		PercentageUsed: after.PercentageUsed.String(),
		At:             at.UTC(),
	}, true
}

func (a BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

func BudgetAlertFromJSON(data []byte) (BudgetAlert, error) {
	var a BudgetAlert
	if err := json.Unmarshal(data, &a); err != nil {
		return BudgetAlert{}, err
	}
	return a, nil
}
