package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/service"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
		newProjectTransferCmd(app),
		newProjectFinancialsCmd(app),
	)
	return cmd
}

type projectFlags struct {
	name, description, status, start, end, location string
	lat, lng                                        float64
}

func (f *projectFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Project name")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.StringVar(&f.status, "status", "", "planning, active, on_hold, completed or cancelled")
	fs.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	fs.StringVar(&f.location, "location", "", "Location name")
	fs.Float64Var(&f.lat, "lat", 0, "Latitude")
	fs.Float64Var(&f.lng, "lng", 0, "Longitude")
}

// apply copies the flags the user set onto p.
func (f *projectFlags) apply(fs *pflag.FlagSet, p *domain.Project) error {
	changed := fs.Changed
	if changed("name") {
		p.Name = f.name
	}
	if changed("description") {
		p.Description = f.description
	}
	if changed("status") {
		p.Status = domain.ProjectStatus(f.status)
	}
	if changed("start") {
		d, err := parseDay("start", f.start)
		if err != nil {
			return err
		}
		p.StartDate = d
	}
	if changed("end") {
		d, err := parseDay("end", f.end)
		if err != nil {
			return err
		}
		p.EndDate = d
	}
	if changed("location") {
		p.LocationName = f.location
	}
	if changed("lat") && changed("lng") {
		lat, lng := f.lat, f.lng
		p.Latitude, p.Longitude = &lat, &lng
	}
	return nil
}

func newProjectAddCmd(app *App) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project owned by the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{}
			if err := f.apply(cmd.Flags(), p); err != nil {
				return err
			}
			if err := app.Projects.Create(ctxOf(cmd), app.actor, p); err != nil {
				return err
			}
			printf(cmd, "Created project %s %s\n", p.Name, formatter.TruncID(p.ID))
			return nil
		},
	}
	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the projects visible to the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(ctxOf(cmd), app.actor)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				outln(cmd, "No projects found.")
				return nil
			}
			outln(cmd, formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project with its progress and financials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(ctx, app.actor, id)
			if err != nil {
				return err
			}
			progress, err := app.Projects.Progress(ctx, app.actor, id)
			if err != nil {
				return err
			}
			var fin *budget.Financials
			switch f, err := app.Reports.ProjectFinancials(ctx, app.actor, id); {
			case err == nil:
				fin = &f
			case !errors.Is(err, service.ErrForbidden):
				return err
			}
			members, err := app.Members.List(ctx, app.actor, id)
			if err != nil {
				return err
			}
			owner, _ := app.Users.Get(ctx, p.OwnerID)
			outln(cmd, formatter.FormatProjectDetail(formatter.ProjectDetail{
				Project:    p,
				Owner:      owner,
				Progress:   progress,
				Financials: fin,
				Members:    len(members),
			}))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Change project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(ctx, app.actor, id)
			if err != nil {
				return err
			}
			if err := f.apply(cmd.Flags(), p); err != nil {
				return err
			}
			if err := app.Projects.Update(ctx, app.actor, p); err != nil {
				return err
			}
			printf(cmd, "Updated project %s\n", p.Name)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PROJECT",
		Short: "Delete a project with its tasks, budgets and transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, app.actor, id); err != nil {
				return err
			}
			printf(cmd, "Deleted project %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newProjectTransferCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer PROJECT EMAIL",
		Short: "Hand a project to another owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			userID, err := app.userID(ctx, args[1])
			if err != nil {
				return err
			}
			if err := app.Users.TransferOwnership(ctx, app.actor, id, userID); err != nil {
				return err
			}
			printf(cmd, "Project %s now owned by %s\n", formatter.TruncID(id), args[1])
			return nil
		},
	}
}

func newProjectFinancialsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "financials PROJECT",
		Short: "Show a project's budget and spending totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			fin, err := app.Reports.ProjectFinancials(ctx, app.actor, id)
			if err != nil {
				return err
			}
			outln(cmd, formatter.RenderBox("Financials", formatter.FormatFinancials(fin)))
			return nil
		},
	}
}
