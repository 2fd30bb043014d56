package cli

import (
	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load users, projects and ledgers from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Seed.SeedFile(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "Seeded %d users, %d projects, %d memberships, %d tasks, %d budgets, %d transactions\n",
				res.Users, res.Projects, res.Memberships, res.Tasks, res.Budgets, res.Transactions)
			return nil
		},
	}
}
