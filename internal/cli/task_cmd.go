package cli

import (
	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/service"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskUpdateCmd(app),
		newTaskAssignCmd(app),
		newTaskRemoveCmd(app),
		newTaskOverdueCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var title, description, priority, due, assignee string
	var estimate int

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			projectID, err := app.resolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			t := &domain.Task{
				ProjectID:   projectID,
				Title:       title,
				Description: description,
				Priority:    domain.TaskPriority(priority),
			}
			if t.DueDate, err = parseDay("due", due); err != nil {
				return err
			}
			if cmd.Flags().Changed("estimate") {
				t.EstimatedHours = &estimate
			}
			if assignee != "" {
				id, err := app.userID(ctx, assignee)
				if err != nil {
					return err
				}
				t.AssigneeID = &id
			}
			if err := app.Tasks.Create(ctx, app.actor, t); err != nil {
				return err
			}
			printf(cmd, "Created task %s %s\n", t.Title, formatter.TruncID(t.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high or urgent")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee email")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated hours")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			projectID := ""
			if project != "" {
				var err error
				if projectID, err = app.resolveProjectID(ctx, project); err != nil {
					return err
				}
			}
			tasks, err := app.Tasks.List(ctx, app.actor, projectID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				outln(cmd, "No tasks found.")
				return nil
			}
			outln(cmd, formatter.FormatTaskList(tasks, app.today()))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Only tasks of this project")
	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var title, description, status, priority, due string
	var estimate, actual int

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Change task fields; --due \"\" clears the due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			var c service.TaskChanges
			if changed("title") {
				c.Title = &title
			}
			if changed("description") {
				c.Description = &description
			}
			if changed("status") {
				s := domain.TaskStatus(status)
				c.Status = &s
			}
			if changed("priority") {
				p := domain.TaskPriority(priority)
				c.Priority = &p
			}
			if changed("due") {
				c.DueDate = &due
			}
			if changed("estimate") {
				c.EstimatedHours = &estimate
			}
			if changed("actual") {
				c.ActualHours = &actual
			}
			t, err := app.Tasks.Update(ctxOf(cmd), app.actor, args[0], c)
			if err != nil {
				return err
			}
			printf(cmd, "Updated task %s (%s)\n", t.Title, t.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&status, "status", "", "todo, in_progress, review, completed or cancelled")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high or urgent")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated hours")
	cmd.Flags().IntVar(&actual, "actual", 0, "Actual hours")
	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	var unassign bool

	cmd := &cobra.Command{
		Use:   "assign TASK [EMAIL]",
		Short: "Assign a task, or unassign it with --clear",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			var assignee *string
			if !unassign {
				if len(args) < 2 {
					return cmd.Usage()
				}
				id, err := app.userID(ctx, args[1])
				if err != nil {
					return err
				}
				assignee = &id
			}
			t, err := app.Tasks.Assign(ctx, app.actor, args[0], assignee)
			if err != nil {
				return err
			}
			if assignee == nil {
				printf(cmd, "Unassigned task %s\n", t.Title)
			} else {
				printf(cmd, "Assigned task %s to %s\n", t.Title, args[1])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unassign, "clear", false, "Remove the assignee")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.Delete(ctxOf(cmd), app.actor, args[0]); err != nil {
				return err
			}
			printf(cmd, "Deleted task %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newTaskOverdueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List open tasks past their due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.Overdue(ctxOf(cmd), app.actor)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				outln(cmd, "Nothing overdue.")
				return nil
			}
			outln(cmd, formatter.FormatTaskList(tasks, app.today()))
			return nil
		},
	}
}
