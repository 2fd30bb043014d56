package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/service"
	"github.com/lani-platform/lani/internal/notify/notifytest"
	"github.com/lani-platform/lani/internal/testutil"
)

func TestMain(m *testing.M) {
	formatter.SetPlain(true)
	m.Run()
}

// testApp wires a full App backed by an in-memory DB for CLI tests.
func testApp(t *testing.T) (*App, *notifytest.MemoryPublisher) {
	t.Helper()
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	pub := &notifytest.MemoryPublisher{}
	opts := []service.Option{service.WithAlertPublisher(pub)}

	return &App{
		Users:        service.NewUserService(uow, opts...),
		Projects:     service.NewProjectService(uow, opts...),
		Members:      service.NewMembershipService(uow, opts...),
		Tasks:        service.NewTaskService(uow, opts...),
		Budgets:      service.NewBudgetService(uow, opts...),
		Transactions: service.NewTransactionService(uow, opts...),
		Reports:      service.NewReportService(uow, opts...),
		Seed:         service.NewSeedService(uow, opts...),
	}, pub
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

func seeded(t *testing.T) (*App, *notifytest.MemoryPublisher) {
	t.Helper()
	app, pub := testApp(t)
	mustRun(t, app, "seed", "../importer/testdata/seed.yaml")
	return app, pub
}

func projectID(t *testing.T, app *App, as string) string {
	t.Helper()
	u, err := app.Users.ByEmail(context.Background(), as)
	require.NoError(t, err)
	projects, err := app.Projects.List(context.Background(), u)
	require.NoError(t, err)
	require.NotEmpty(t, projects)
	return projects[0].ID
}

func TestSeedCmd(t *testing.T) {
	app, _ := testApp(t)
	out := mustRun(t, app, "seed", "../importer/testdata/seed.yaml")
	assert.Contains(t, out, "Seeded 3 users, 1 projects")
}

func TestUserCmd_BootstrapAdmin(t *testing.T) {
	app, _ := testApp(t)
	mustRun(t, app, "user", "add", "--email", "root@lani.test", "--role", "admin")

	_, err := executeCmd(t, app, "user", "add", "--email", "eve@lani.test", "--role", "admin")
	assert.ErrorIs(t, err, service.ErrForbidden)

	mustRun(t, app, "--as", "root@lani.test", "user", "add", "--email", "pm@lani.test", "--role", "project_manager")
	out := mustRun(t, app, "--as", "root@lani.test", "user", "list")
	assert.Contains(t, out, "pm@lani.test")
	assert.Contains(t, out, "project_manager")
}

func TestAsUnknownUser(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "--as", "ghost@lani.test", "project", "list")
	assert.ErrorContains(t, err, "ghost@lani.test")
}

func TestProjectCmd_AddRequiresGlobalProjectManager(t *testing.T) {
	app, _ := seeded(t)

	out := mustRun(t, app, "--as", "ada@example.com", "project", "add", "--name", "Depot", "--start", "2026-04-01")
	assert.Contains(t, out, "Created project Depot")

	_, err := executeCmd(t, app, "--as", "bob@example.com", "project", "add", "--name", "Shed")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = executeCmd(t, app, "project", "add", "--name", "Anon")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestProjectCmd_ShowAndList(t *testing.T) {
	app, _ := seeded(t)
	id := projectID(t, app, "bob@example.com")

	out := mustRun(t, app, "--as", "bob@example.com", "project", "show", id[:8])
	assert.Contains(t, out, "RIVERSIDE CLINIC")
	assert.Contains(t, out, "Milan")
	assert.Contains(t, out, "$1,000.00")

	out = mustRun(t, app, "--as", "bob@example.com", "project", "list")
	assert.Contains(t, out, "Riverside Clinic")

	_, err := executeCmd(t, app, "project", "list")
	assert.ErrorIs(t, err, service.ErrForbidden, "anonymous actors are denied everything")

	mustRun(t, app, "--as", "root@example.com", "user", "add", "--email", "new@example.com")
	out = mustRun(t, app, "--as", "new@example.com", "project", "list")
	assert.Contains(t, out, "No projects found.")

	// A global project manager can open any listed project, without its money.
	mustRun(t, app, "--as", "root@example.com", "user", "add", "--email", "lead@example.com", "--role", "project_manager")
	out = mustRun(t, app, "--as", "lead@example.com", "project", "show", id[:8])
	assert.Contains(t, out, "RIVERSIDE CLINIC")
	assert.NotContains(t, out, "$1,000.00")
	_, err = executeCmd(t, app, "--as", "lead@example.com", "project", "financials", id[:8])
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestTxCmd_AddReportsAlert(t *testing.T) {
	app, pub := seeded(t)
	ctx := context.Background()
	id := projectID(t, app, "bob@example.com")
	bob, err := app.Users.ByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	budgets, err := app.Budgets.ListByProject(ctx, bob, id)
	require.NoError(t, err)
	require.Len(t, budgets, 1)

	out := mustRun(t, app, "--as", "bob@example.com", "tx", "add", id,
		"--description", "Paint", "--amount", "200", "--budget", budgets[0].ID)
	assert.Contains(t, out, "Recorded expense $200.00")
	assert.Contains(t, out, "95.00% of $1,000.00 used")
	assert.Contains(t, out, "Budget moved from caution to")
	require.Len(t, pub.Alerts(), 1)

	out = mustRun(t, app, "--as", "bob@example.com", "tx", "list", "--project", id)
	assert.Contains(t, out, "Paint")
	assert.Contains(t, out, "uncategorized", "the grant has no budget")
}

func TestTxCmd_CurrencyMismatch(t *testing.T) {
	app, _ := seeded(t)
	ctx := context.Background()
	id := projectID(t, app, "bob@example.com")
	bob, err := app.Users.ByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	budgets, err := app.Budgets.ListByProject(ctx, bob, id)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "--as", "bob@example.com", "tx", "add", id,
		"--description", "Tiles", "--amount", "10", "--currency", "EUR", "--budget", budgets[0].ID)
	assert.ErrorContains(t, err, "currency")
}

func TestCanCmd(t *testing.T) {
	app, _ := seeded(t)
	id := projectID(t, app, "ada@example.com")

	out := mustRun(t, app, "--as", "bob@example.com", "can", "show", "project", id)
	assert.Equal(t, "allowed\n", out)

	out = mustRun(t, app, "--as", "bob@example.com", "can", "destroy", "project", id)
	assert.Equal(t, "denied\n", out)

	out = mustRun(t, app, "--as", "bob@example.com", "can", "index", "budget")
	assert.Equal(t, "denied\n", out)

	_, err := executeCmd(t, app, "can", "fly", "project")
	assert.ErrorContains(t, err, "unknown action")

	_, err = executeCmd(t, app, "can", "show", "invoice")
	assert.ErrorContains(t, err, "unknown resource type")
}

func TestReportCmd(t *testing.T) {
	app, _ := seeded(t)

	out := mustRun(t, app, "--as", "root@example.com", "report")
	assert.Contains(t, out, "Riverside Clinic")
	assert.Contains(t, out, "PORTFOLIO")

	out = mustRun(t, app, "--as", "bob@example.com", "task", "overdue")
	assert.Contains(t, out, "Order drywall")
}

func TestMemberCmd(t *testing.T) {
	app, _ := seeded(t)
	id := projectID(t, app, "ada@example.com")
	mustRun(t, app, "--as", "root@example.com", "user", "add", "--email", "cy@example.com", "--first", "Cy")

	_, err := executeCmd(t, app, "--as", "bob@example.com", "member", "add", id, "cy@example.com")
	assert.ErrorIs(t, err, service.ErrForbidden)

	out := mustRun(t, app, "--as", "ada@example.com", "member", "add", id, "cy@example.com", "--role", "project_manager")
	assert.Contains(t, out, "Added cy@example.com as project_manager")

	out = mustRun(t, app, "--as", "cy@example.com", "member", "list", id)
	assert.Contains(t, out, "Cy")
	assert.Contains(t, out, "Bob")
}

func TestServeMetricsCmd_NotConfigured(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "serve-metrics")
	assert.ErrorContains(t, err, "not configured")
}
