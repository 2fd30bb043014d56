package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSampler(samples ...BudgetSample) BudgetSampler {
	return func(context.Context) ([]BudgetSample, error) { return samples, nil }
}

func TestBudgetCollector_EmitsGaugesPerBudget(t *testing.T) {
	c := NewBudgetCollector(staticSampler(BudgetSample{
		ProjectID: "p1", BudgetID: "b1", Budget: "Materials", Currency: "USD",
		Status: "caution", AmountCents: 100000, SpentCents: 75000, RemainingCents: 25000,
		Utilization: 0.75, Active: true,
	}))

	expected := `
# HELP lani_budget_spent_cents Expenses charged to the budget in minor units.
# TYPE lani_budget_spent_cents gauge
lani_budget_spent_cents{budget="Materials",budget_id="b1",currency="USD",project_id="p1"} 75000
# HELP lani_budget_remaining_cents Amount minus spent; negative when over budget.
# TYPE lani_budget_remaining_cents gauge
lani_budget_remaining_cents{budget="Materials",budget_id="b1",currency="USD",project_id="p1"} 25000
# HELP lani_budget_utilization_ratio Spent divided by amount.
# TYPE lani_budget_utilization_ratio gauge
lani_budget_utilization_ratio{budget="Materials",budget_id="b1",currency="USD",project_id="p1"} 0.75
# HELP lani_budget_status Always 1; the status label carries the budget status.
# TYPE lani_budget_status gauge
lani_budget_status{budget="Materials",budget_id="b1",currency="USD",project_id="p1",status="caution"} 1
# HELP lani_budget_snapshot_up 1 if the last budget snapshot succeeded.
# TYPE lani_budget_snapshot_up gauge
lani_budget_snapshot_up 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"lani_budget_spent_cents", "lani_budget_remaining_cents", "lani_budget_utilization_ratio",
		"lani_budget_status", "lani_budget_snapshot_up")
	require.NoError(t, err)
	assert.Equal(t, 7, testutil.CollectAndCount(c))
}

func TestBudgetCollector_ReflectsLedgerOnEveryScrape(t *testing.T) {
	spent := int64(0)
	c := NewBudgetCollector(func(context.Context) ([]BudgetSample, error) {
		return []BudgetSample{{ProjectID: "p1", BudgetID: "b1", Budget: "Labor", Currency: "EUR", Status: "good", SpentCents: spent}}, nil
	})
	for _, cents := range []int64{0, 1250, 99000} {
		spent = cents
		expected := `
# HELP lani_budget_spent_cents Expenses charged to the budget in minor units.
# TYPE lani_budget_spent_cents gauge
lani_budget_spent_cents{budget="Labor",budget_id="b1",currency="EUR",project_id="p1"} ` + strconv.FormatInt(cents, 10) + "\n"
		require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "lani_budget_spent_cents"))
	}
}

func TestBudgetCollector_SnapshotFailure(t *testing.T) {
	c := NewBudgetCollector(func(context.Context) ([]BudgetSample, error) {
		return nil, errors.New("database is locked")
	})
	expected := `
# HELP lani_budget_snapshot_up 1 if the last budget snapshot succeeded.
# TYPE lani_budget_snapshot_up gauge
lani_budget_snapshot_up 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestHandlerWith_ServesBudgetGauges(t *testing.T) {
	h, err := HandlerWith(NewBudgetCollector(staticSampler(BudgetSample{
		ProjectID: "p1", BudgetID: "b1", Budget: "Permits", Currency: "USD", Status: "over_budget",
		AmountCents: 1000, SpentCents: 1500, RemainingCents: -500, Utilization: 1.5,
	})))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `lani_budget_remaining_cents{budget="Permits",budget_id="b1",currency="USD",project_id="p1"} -500`)
	assert.Contains(t, string(body), `status="over_budget"`)
	assert.Contains(t, string(body), "go_goroutines", "package collectors are served alongside")
}
