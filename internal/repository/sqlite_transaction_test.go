package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
	"github.com/lani-platform/lani/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepo_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := testutil.NewTestBudget(f.depot.ID, "Materials", 100000)
	require.NoError(t, f.store.Budgets.Create(ctx, b))

	day := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	tx := testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 30000, testutil.InBudget(b.ID), testutil.OnDate(day))
	tx.Notes = "rebar"
	require.NoError(t, f.store.Transactions.Create(ctx, tx))

	fetched, err := f.store.Transactions.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.BudgetID)
	assert.Equal(t, b.ID, *fetched.BudgetID)
	assert.Equal(t, int64(30000), fetched.Amount.Cents)
	assert.Equal(t, domain.TransactionExpense, fetched.Type)
	assert.True(t, day.Equal(fetched.Date))
	assert.Equal(t, "rebar", fetched.Notes)
}

func TestTransactionRepo_ListingsByBudgetAndProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1 := testutil.NewTestBudget(f.depot.ID, "Materials", 100000)
	b2 := testutil.NewTestBudget(f.depot.ID, "Labor", 100000)
	b3 := testutil.NewTestBudget(f.depot.ID, "Travel", 100000)
	for _, b := range []*domain.Budget{b1, b2, b3} {
		require.NoError(t, f.store.Budgets.Create(ctx, b))
	}
	txs := []*domain.Transaction{
		testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 100, testutil.InBudget(b1.ID)),
		testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 200, testutil.InBudget(b1.ID), testutil.AsIncome()),
		testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 300, testutil.InBudget(b2.ID)),
		testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 400, testutil.InBudget(b3.ID)),
		testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 500),
	}
	for _, tx := range txs {
		require.NoError(t, f.store.Transactions.Create(ctx, tx))
	}

	forB1, err := f.store.ListTransactionsForBudget(ctx, b1.ID)
	require.NoError(t, err)
	assert.Len(t, forB1, 2, "income rows are listed; filtering by type is the aggregator's job")

	several, err := f.store.Transactions.ListByBudgets(ctx, []string{b1.ID, b2.ID})
	require.NoError(t, err)
	assert.Len(t, several, 3)

	empty, err := f.store.Transactions.ListByBudgets(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	all, err := f.store.ListTransactionsForProject(ctx, f.depot.ID)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestTransactionRepo_ListScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Transactions.Create(ctx, testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 100)))
	require.NoError(t, f.store.Transactions.Create(ctx, testutil.NewTestTransaction(f.bridge.ID, f.other.ID, 200)))

	memberView, err := f.store.Transactions.List(ctx, policy.Scope(f.member, domain.KindTransaction))
	require.NoError(t, err)
	require.Len(t, memberView, 1)
	assert.Equal(t, f.bridge.ID, memberView[0].ProjectID)
}

func TestTransactionRepo_UpdateUnlinksBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := testutil.NewTestBudget(f.depot.ID, "Materials", 100000)
	require.NoError(t, f.store.Budgets.Create(ctx, b))
	tx := testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 100, testutil.InBudget(b.ID))
	require.NoError(t, f.store.Transactions.Create(ctx, tx))

	tx.BudgetID = nil
	tx.Type = domain.TransactionIncome
	require.NoError(t, f.store.Transactions.Update(ctx, tx))

	fetched, err := f.store.Transactions.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.BudgetID)
	assert.Equal(t, domain.TransactionIncome, fetched.Type)

	require.NoError(t, f.store.Transactions.Delete(ctx, tx.ID))
	assert.ErrorIs(t, f.store.Transactions.Delete(ctx, tx.ID), domain.ErrNotFound)
}
