package cli

import (
	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/cli/formatter"
)

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report [PROJECT...]",
		Short: "Portfolio report: progress, overdue tasks and money per project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			ids := make([]string, 0, len(args))
			for _, a := range args {
				id, err := app.resolveProjectID(ctx, a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			lines, err := app.Reports.Portfolio(ctx, app.actor, ids...)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				outln(cmd, "No projects to report on.")
				return nil
			}
			rows := make([]formatter.PortfolioRow, 0, len(lines))
			for _, l := range lines {
				rows = append(rows, formatter.PortfolioRow{
					Project:    l.Project,
					Financials: l.Financials,
					Progress:   l.Progress,
					Overdue:    l.Overdue,
				})
			}
			outln(cmd, formatter.FormatPortfolio(rows))
			return nil
		},
	}
}
