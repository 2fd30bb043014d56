package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lani-platform/lani/internal/metrics"
)

func TestBudgetSampler_ReadsLedger(t *testing.T) {
	app, _ := seeded(t)
	samples, err := budgetSampler(app.Reports)(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)

	s := samples[0]
	assert.Equal(t, "Building materials", s.Budget)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, "caution", s.Status)
	assert.Equal(t, int64(100000), s.AmountCents)
	assert.Equal(t, int64(75000), s.SpentCents)
	assert.Equal(t, int64(25000), s.RemainingCents)
	assert.InDelta(t, 0.75, s.Utilization, 1e-9)
}

func TestBudgetGauges_FollowNewTransactions(t *testing.T) {
	app, _ := seeded(t)
	h, err := metrics.HandlerWith(metrics.NewBudgetCollector(budgetSampler(app.Reports)))
	require.NoError(t, err)

	scrape := func() string {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		return string(body)
	}

	assert.Contains(t, scrape(), `status="caution"`)

	ctx := context.Background()
	id := projectID(t, app, "bob@example.com")
	bob, err := app.Users.ByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	budgets, err := app.Budgets.ListByProject(ctx, bob, id)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	mustRun(t, app, "--as", "bob@example.com", "tx", "add", id,
		"--description", "Studs", "--amount", "300", "--budget", budgets[0].ID)

	body := scrape()
	assert.Contains(t, body, `status="over_budget"`)
	assert.Contains(t, body, "lani_budget_snapshot_up 1")
}

func TestServeMetrics_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := serveMetrics(ctx, "127.0.0.1:0", http.NotFoundHandler(), func(string) {})
	assert.NoError(t, err)
}
