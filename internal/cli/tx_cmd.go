package cli

import (
	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/service"
)

func newTxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and list transactions",
	}
	cmd.AddCommand(
		newTxAddCmd(app),
		newTxListCmd(app),
		newTxRemoveCmd(app),
		newTxImpactCmd(app),
	)
	return cmd
}

func newTxAddCmd(app *App) *cobra.Command {
	var description, amount, currency, kind, budgetID, date, notes string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Record a transaction with the acting user as recorder",
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
			day, err := parseDay("date", date)
			if err != nil {
				return err
			}
			tx := &domain.Transaction{
				ProjectID:   projectID,
				Description: description,
				Amount:      amt,
				Type:        domain.TransactionType(kind),
				Date:        deref(day),
				Notes:       notes,
			}
			if budgetID != "" {
				tx.BudgetID = &budgetID
			}
			res, err := app.Transactions.Record(ctx, app.actor, tx)
			if err != nil {
				return err
			}
			printRecordResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "What the money was for")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 49.90")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default: the budget's)")
	cmd.Flags().StringVar(&kind, "type", string(domain.TransactionExpense), "expense or income")
	cmd.Flags().StringVar(&budgetID, "budget", "", "Budget ID to count against")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func printRecordResult(cmd *cobra.Command, res *service.RecordResult) {
	tx := res.Transaction
	printf(cmd, "Recorded %s %s %s\n", tx.Type, tx.Amount, formatter.TruncID(tx.ID))
	if res.Summary != nil {
		printf(cmd, "Budget: %s of %s used, %s\n",
			res.Summary.PercentageUsed.String()+"%", res.Summary.Amount, formatter.BudgetStatusPill(res.Summary.Status))
	}
	if res.Alert != nil {
		outln(cmd, formatter.FormatBudgetAlert(res.Alert.Previous, res.Alert.Current, res.Alert.Published))
	}
}

func newTxListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			var txs []*domain.Transaction
			var budgets []*domain.Budget
			var err error
			if project != "" {
				projectID, err := app.resolveProjectID(ctx, project)
				if err != nil {
					return err
				}
				if txs, err = app.Transactions.ListByProject(ctx, app.actor, projectID); err != nil {
					return err
				}
				if budgets, err = app.Budgets.ListByProject(ctx, app.actor, projectID); err != nil {
					return err
				}
			} else {
				if txs, err = app.Transactions.List(ctx, app.actor); err != nil {
					return err
				}
				if budgets, err = app.Budgets.List(ctx, app.actor); err != nil {
					return err
				}
			}
			if len(txs) == 0 {
				outln(cmd, "No transactions found.")
				return nil
			}
			byID := make(map[string]*domain.Budget, len(budgets))
			for _, b := range budgets {
				byID[b.ID] = b
			}
			outln(cmd, formatter.FormatTransactionList(txs, byID))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Only transactions of this project")
	return cmd
}

func newTxRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TX",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Transactions.Delete(ctxOf(cmd), app.actor, args[0]); err != nil {
				return err
			}
			printf(cmd, "Deleted transaction %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newTxImpactCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "impact TX",
		Short: "Show how far the transaction's budget is overspent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			impact, err := app.Transactions.OverBudgetImpact(ctxOf(cmd), app.actor, args[0])
			if err != nil {
				return err
			}
			if impact.IsZero() {
				outln(cmd, "Budget not overspent.")
				return nil
			}
			printf(cmd, "Budget overspent by %s\n", formatter.Money(impact))
			return nil
		},
	}
}
