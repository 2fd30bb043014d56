package cli

import (
	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/policy"
)

func newCanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "can ACTION KIND [ID]",
		Short: "Ask whether the acting user may perform an action",
		Long: `Ask the policy engine without performing anything.

ACTION is index, show, create, update, destroy, manage_members or assign.
KIND is project, task, budget or transaction. For index and create on
tasks, budgets and transactions, ID names the parent project.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := policy.ParseAction(args[0])
			if err != nil {
				return err
			}
			kind, err := policy.ParseKind(args[1])
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 3 {
				id = args[2]
			}
			ok, err := app.Reports.Can(ctxOf(cmd), app.actor, action, kind, id)
			if err != nil {
				return err
			}
			if ok {
				outln(cmd, "allowed")
			} else {
				outln(cmd, "denied")
			}
			return nil
		},
	}
}
