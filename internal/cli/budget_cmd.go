package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/domain"
)

func newBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage budgets",
	}
	cmd.AddCommand(
		newBudgetAddCmd(app),
		newBudgetListCmd(app),
		newBudgetSummaryCmd(app),
		newBudgetRemoveCmd(app),
	)
	return cmd
}

func newBudgetAddCmd(app *App) *cobra.Command {
	var name, description, amount, currency, category, start, end string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Create a budget for one category of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			projectID, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			amt, err := parseAmount(amount, currency)
			if err != nil {
				return err
			}
			from, err := parseDay("start", start)
			if err != nil {
				return err
			}
			to, err := parseDay("end", end)
			if err != nil {
				return err
			}
			b := &domain.Budget{
				ProjectID:   projectID,
				Name:        name,
				Description: description,
				Amount:      amt,
				Category:    domain.BudgetCategory(category),
				PeriodStart: deref(from),
				PeriodEnd:   deref(to),
			}
			if err := app.Budgets.Create(ctx, app.actor, b); err != nil {
				return err
			}
			printf(cmd, "Created budget %s (%s) %s\n", b.Name, b.Amount, formatter.TruncID(b.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Budget name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 1500.00")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default from LANI_CURRENCY)")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryOther), "materials, labor, equipment, services, travel, marketing or other")
	cmd.Flags().StringVar(&start, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Period end (YYYY-MM-DD)")
	for _, f := range []string{"name", "amount", "start", "end"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func newBudgetListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			var budgets []*domain.Budget
			var err error
			if project != "" {
				projectID, err := app.resolveProjectID(ctx, project)
				if err != nil {
					return err
				}
				budgets, err = app.Budgets.ListByProject(ctx, app.actor, projectID)
				if err != nil {
					return err
				}
			} else if budgets, err = app.Budgets.List(ctx, app.actor); err != nil {
				return err
			}
			if len(budgets) == 0 {
				outln(cmd, "No budgets found.")
				return nil
			}
			outln(cmd, formatter.FormatBudgetList(budgets))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Only budgets of this project")
	return cmd
}

func newBudgetSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary BUDGET",
		Short: "Show spent, remaining and status of a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			b, err := app.Budgets.Get(ctx, app.actor, args[0])
			if err != nil {
				return err
			}
			s, err := app.Budgets.Summary(ctx, app.actor, b.ID)
			if err != nil {
				return err
			}
			outln(cmd, formatter.FormatBudgetSummary(b, s))
			return nil
		},
	}
}

func newBudgetRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm BUDGET",
		Short: "Delete a budget and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Budgets.Delete(ctxOf(cmd), app.actor, args[0]); err != nil {
				return err
			}
			printf(cmd, "Deleted budget %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}
