package cli

import (
	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/domain"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project members",
	}
	cmd.AddCommand(
		newMemberAddCmd(app),
		newMemberRemoveCmd(app),
		newMemberRoleCmd(app),
		newMemberListCmd(app),
	)
	return cmd
}

func newMemberAddCmd(app *App) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add PROJECT EMAIL",
		Short: "Add a user to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			projectID, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			userID, err := app.userID(ctx, args[1])
			if err != nil {
				return err
			}
			m, err := app.Members.Add(ctx, app.actor, projectID, userID, domain.MembershipRole(role))
			if err != nil {
				return err
			}
			printf(cmd, "Added %s as %s\n", args[1], m.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.MembershipMember), "member or project_manager")
	return cmd
}

func newMemberRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PROJECT EMAIL",
		Short: "Remove a user from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			projectID, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			userID, err := app.userID(ctx, args[1])
			if err != nil {
				return err
			}
			if err := app.Members.Remove(ctx, app.actor, projectID, userID); err != nil {
				return err
			}
			printf(cmd, "Removed %s\n", args[1])
			return nil
		},
	}
}

func newMemberRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role PROJECT EMAIL ROLE",
		Short: "Change a member's project role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			projectID, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			userID, err := app.userID(ctx, args[1])
			if err != nil {
				return err
			}
			if err := app.Members.SetRole(ctx, app.actor, projectID, userID, domain.MembershipRole(args[2])); err != nil {
				return err
			}
			printf(cmd, "%s is now %s\n", args[1], args[2])
			return nil
		},
	}
}

func newMemberListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			projectID, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			members, err := app.Members.List(ctx, app.actor, projectID)
			if err != nil {
				return err
			}
			users := make(map[string]*domain.User, len(members))
			for _, m := range members {
				if u, err := app.Users.Get(ctx, m.UserID); err == nil {
					users[u.ID] = u
				}
			}
			outln(cmd, formatter.FormatMemberList(members, users))
			return nil
		},
	}
}
