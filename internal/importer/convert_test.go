package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
)

func convertTestdata(t *testing.T) *Generated {
	t.Helper()
	seed, err := LoadSeedFile("testdata/seed.yaml")
	require.NoError(t, err)
	require.Empty(t, ValidateSeed(seed))
	gen, err := Convert(seed, money.USD, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return gen
}

func TestConvert_Counts(t *testing.T) {
	gen := convertTestdata(t)
	assert.Len(t, gen.Users, 3)
	assert.Len(t, gen.Projects, 1)
	assert.Len(t, gen.Memberships, 1)
	assert.Len(t, gen.Tasks, 2)
	assert.Len(t, gen.Budgets, 1)
	assert.Len(t, gen.Transactions, 2)
}

func TestConvert_ResolvesReferences(t *testing.T) {
	gen := convertTestdata(t)
	ada, bob := gen.Users[0], gen.Users[1]
	project := gen.Projects[0]

	assert.Equal(t, domain.RoleProjectManager, ada.Role)
	assert.Equal(t, domain.RoleMember, bob.Role, "role defaults to member")
	assert.True(t, bob.Active)

	assert.Equal(t, ada.ID, project.OwnerID)
	assert.Equal(t, domain.ProjectActive, project.Status)
	assert.Equal(t, []float64{9.19, 45.4642}, project.Coordinates())
	require.NotNil(t, project.StartDate)
	assert.Equal(t, "2026-01-05", project.StartDate.Format(domain.DateLayout))

	assert.Equal(t, bob.ID, gen.Memberships[0].UserID)
	assert.Equal(t, project.ID, gen.Memberships[0].ProjectID)

	drywall := gen.Tasks[0]
	require.NotNil(t, drywall.AssigneeID)
	assert.Equal(t, bob.ID, *drywall.AssigneeID)
	assert.Equal(t, domain.PriorityHigh, drywall.Priority)
	survey := gen.Tasks[1]
	assert.Equal(t, domain.TaskCompleted, survey.Status)
	assert.NotNil(t, survey.CompletedAt)

	b := gen.Budgets[0]
	assert.Equal(t, money.New(100000, money.USD), b.Amount)
	expense := gen.Transactions[0]
	require.NotNil(t, expense.BudgetID)
	assert.Equal(t, b.ID, *expense.BudgetID)
	assert.Equal(t, bob.ID, expense.UserID)
	assert.True(t, expense.AffectsBudget())

	income := gen.Transactions[1]
	assert.Nil(t, income.BudgetID)
	assert.Equal(t, "2026-03-01", income.Date.Format(domain.DateLayout), "date defaults to the conversion day")
	assert.Equal(t, int64(500000), income.Amount.Cents)
}

func TestConvert_ProducesValidDomainObjects(t *testing.T) {
	gen := convertTestdata(t)
	for _, u := range gen.Users {
		assert.NoError(t, u.Validate())
	}
	for _, p := range gen.Projects {
		assert.NoError(t, p.Validate())
	}
	for _, task := range gen.Tasks {
		assert.NoError(t, task.Validate())
	}
	for _, b := range gen.Budgets {
		assert.NoError(t, b.Validate())
	}
	for _, tx := range gen.Transactions {
		assert.NoError(t, tx.Validate())
	}
}

func TestConvert_TransactionInheritsBudgetCurrency(t *testing.T) {
	seed := validMinimalSeed()
	seed.Projects[0].Budgets = []BudgetSeed{
		{Ref: "m", Name: "Materials", Amount: "100", Currency: "eur", Category: "materials", PeriodStart: "2026-01-01", PeriodEnd: "2026-12-31"},
	}
	seed.Projects[0].Transactions = []TransactionSeed{
		{Description: "Bricks", Amount: "10,50", Type: "expense", Budget: "m", RecordedBy: "owner@example.com"},
	}
	require.Empty(t, ValidateSeed(seed))

	gen, err := Convert(seed, money.USD, time.Now())
	require.NoError(t, err)
	assert.Equal(t, money.EUR, gen.Budgets[0].Amount.Currency)
	assert.Equal(t, money.New(1050, money.EUR), gen.Transactions[0].Amount)
}
