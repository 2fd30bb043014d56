package cli

import (
	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/domain"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserRemoveCmd(app),
	)
	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var email, first, last, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{
				Email:     email,
				FirstName: first,
				LastName:  last,
				Role:      domain.Role(role),
			}
			if err := app.Users.Create(ctxOf(cmd), app.actor, u); err != nil {
				return err
			}
			printf(cmd, "Created user %s (%s) %s\n", u.Email, u.Role, formatter.TruncID(u.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "viewer, member, project_manager or admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(ctxOf(cmd), app.actor)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				outln(cmd, "No users found.")
				return nil
			}
			outln(cmd, formatter.FormatUserList(users))
			return nil
		},
	}
}

func newUserRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm EMAIL",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := app.userID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Users.Delete(ctx, app.actor, id); err != nil {
				return err
			}
			printf(cmd, "Deleted user %s\n", args[0])
			return nil
		},
	}
}
