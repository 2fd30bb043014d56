package formatter

import (
	"time"

	"github.com/lani-platform/lani/internal/domain"
)

// FormatTaskList renders tasks; overdue due dates are shown in red.
func FormatTaskList(tasks []*domain.Task, today time.Time) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := Day(t.DueDate)
		if t.Overdue(today) {
			due = StyleRed.Render(due + " overdue")
		}
		assignee := Dim("--")
		if t.AssigneeID != nil {
			assignee = TruncID(*t.AssigneeID)
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			t.Title,
			TaskStatusPill(t.Status),
			PriorityBadge(t.Priority),
			due,
			assignee,
		})
	}
	return RenderBox("Tasks", RenderTable([]string{"ID", "TITLE", "STATUS", "PRIORITY", "DUE", "ASSIGNEE"}, rows))
}
