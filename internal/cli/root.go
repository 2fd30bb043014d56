package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/service"
)

// App holds the services the commands call and the state resolved for one
// invocation.
type App struct {
	Users        service.UserService
	Projects     service.ProjectService
	Members      service.MembershipService
	Tasks        service.TaskService
	Budgets      service.BudgetService
	Transactions service.TransactionService
	Reports      service.ReportService
	Seed         service.SeedService

	// Metrics builds the /metrics handler for serve-metrics from the
	// process collectors plus extra.
	Metrics     func(extra ...prometheus.Collector) (http.Handler, error)
	MetricsAddr string

	Now func() time.Time

	actor *domain.User
}

// NewRootCmd creates the top-level "lani" command. The --as flag names the
// acting user by email; without it every command runs anonymously.
func NewRootCmd(app *App) *cobra.Command {
	var as string

	root := &cobra.Command{
		Use:           "lani",
		Short:         "Projects, budgets and spending with per-project permissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.actor = nil
			if as == "" {
				return nil
			}
			u, err := app.Users.ByEmail(cmd.Context(), as)
			if err != nil {
				return fmt.Errorf("--as %s: %w", as, err)
			}
			app.actor = u
			return nil
		},
	}
	root.PersistentFlags().StringVar(&as, "as", "", "act as the user with this email")

	root.AddCommand(
		newUserCmd(app),
		newProjectCmd(app),
		newMemberCmd(app),
		newTaskCmd(app),
		newBudgetCmd(app),
		newTxCmd(app),
		newCanCmd(app),
		newReportCmd(app),
		newSeedCmd(app),
		newServeMetricsCmd(app),
	)
	return root
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) today() time.Time { return domain.Day(a.now()) }

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
