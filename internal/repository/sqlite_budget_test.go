package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/policy"
	"github.com/lani-platform/lani/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetRepo_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	b := testutil.NewTestBudget(f.depot.ID, "Concrete", 250000,
		testutil.WithCategory(domain.CategoryLabor),
		testutil.WithPeriod(start, end),
		testutil.WithBudgetCurrency(money.EUR))
	require.NoError(t, f.store.Budgets.Create(ctx, b))

	fetched, err := f.store.FindBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, money.New(250000, money.EUR), fetched.Amount)
	assert.Equal(t, domain.CategoryLabor, fetched.Category)
	assert.True(t, start.Equal(fetched.PeriodStart))
	assert.True(t, end.Equal(fetched.PeriodEnd))

	_, err = f.store.FindBudget(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBudgetRepo_InvalidPeriodRejectedBySchema(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := testutil.NewTestBudget(f.depot.ID, "Flat", 100, testutil.WithPeriod(day, day))
	assert.Error(t, f.store.Budgets.Create(context.Background(), b))
}

func TestBudgetRepo_ListScopedAndByProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Budgets.Create(ctx, testutil.NewTestBudget(f.depot.ID, "Depot materials", 1000)))
	require.NoError(t, f.store.Budgets.Create(ctx, testutil.NewTestBudget(f.bridge.ID, "Bridge steel", 2000)))

	byProject, err := f.store.ListBudgetsForProject(ctx, f.depot.ID)
	require.NoError(t, err)
	require.Len(t, byProject, 1)
	assert.Equal(t, "Depot materials", byProject[0].Name)

	scoped, err := f.store.Budgets.List(ctx, policy.Scope(f.member, domain.KindBudget))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Bridge steel", scoped[0].Name)

	all, err := f.store.Budgets.List(ctx, policy.Scope(testutil.NewTestUser("root@example.com", testutil.WithRole(domain.RoleAdmin)), domain.KindBudget))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBudgetRepo_UpdateAndDeleteCascadesTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := testutil.NewTestBudget(f.depot.ID, "Tools", 5000)
	require.NoError(t, f.store.Budgets.Create(ctx, b))
	tx := testutil.NewTestTransaction(f.depot.ID, f.owner.ID, 700, testutil.InBudget(b.ID))
	require.NoError(t, f.store.Transactions.Create(ctx, tx))

	b.Amount = money.New(9000, money.USD)
	b.Category = domain.CategoryEquipment
	require.NoError(t, f.store.Budgets.Update(ctx, b))
	fetched, err := f.store.Budgets.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), fetched.Amount.Cents)
	assert.Equal(t, domain.CategoryEquipment, fetched.Category)

	require.NoError(t, f.store.Budgets.Delete(ctx, b.ID))
	_, err = f.store.Transactions.GetByID(ctx, tx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
