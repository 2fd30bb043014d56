package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

type taskRow struct {
	ID             string         `db:"id"`
	ProjectID      string         `db:"project_id"`
	AssigneeID     sql.NullString `db:"assignee_id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	Status         string         `db:"status"`
	Priority       string         `db:"priority"`
	DueDate        sql.NullString `db:"due_date"`
	CompletedAt    sql.NullString `db:"completed_at"`
	EstimatedHours sql.NullInt64  `db:"estimated_hours"`
	ActualHours    sql.NullInt64  `db:"actual_hours"`
	CreatedAt      string         `db:"created_at"`
	UpdatedAt      string         `db:"updated_at"`
}

func (r taskRow) toDomain() (*domain.Task, error) {
	t := &domain.Task{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		AssigneeID:     nullableString(r.AssigneeID),
		Title:          r.Title,
		Description:    r.Description,
		Status:         domain.TaskStatus(r.Status),
		Priority:       domain.TaskPriority(r.Priority),
		DueDate:        parseNullableTime(r.DueDate, dateLayout),
		CompletedAt:    parseNullableTime(r.CompletedAt, time.RFC3339),
		EstimatedHours: nullableInt(r.EstimatedHours),
		ActualHours:    nullableInt(r.ActualHours),
	}
	var err error
	if t.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}

func tasksFromRows(rows []taskRow) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

const taskColumns = `t.id, t.project_id, t.assignee_id, t.title, t.description, t.status, t.priority,
	t.due_date, t.completed_at, t.estimated_hours, t.actual_hours, t.created_at, t.updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, project_id, assignee_id, title, description, status, priority,
		due_date, completed_at, estimated_hours, actual_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableStringToValue(t.AssigneeID),
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		nullableIntToValue(t.EstimatedHours),
		nullableIntToValue(t.ActualHours),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row, err := getRow[taskRow](ctx, r.db, "task", id,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// List returns the tasks scope admits. A non-empty projectID narrows the
// result to that project.
func (r *SQLiteTaskRepo) List(ctx context.Context, scope policy.QueryFilter, projectID string) ([]*domain.Task, error) {
	where, args := scopeClause(scope, "t.assignee_id")
	if projectID != "" {
		where += " AND t.project_id = ?"
		args = append(args, projectID)
	}
	rows, err := selectRows[taskRow](ctx, r.db,
		`SELECT `+taskColumns+` FROM tasks t JOIN projects p ON p.id = t.project_id
		WHERE `+where+` ORDER BY t.due_date IS NULL, t.due_date, t.created_at, t.title`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasksFromRows(rows)
}

// ListOverdue returns open tasks due before today.
func (r *SQLiteTaskRepo) ListOverdue(ctx context.Context, scope policy.QueryFilter, today time.Time) ([]*domain.Task, error) {
	where, args := scopeClause(scope, "t.assignee_id")
	args = append(args, domain.Day(today).Format(dateLayout))
	rows, err := selectRows[taskRow](ctx, r.db,
		`SELECT `+taskColumns+` FROM tasks t JOIN projects p ON p.id = t.project_id
		WHERE `+where+` AND t.due_date < ? AND t.status NOT IN ('completed', 'cancelled')
		ORDER BY t.due_date, t.title`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing overdue tasks: %w", err)
	}
	return tasksFromRows(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET assignee_id = ?, title = ?, description = ?, status = ?, priority = ?,
		due_date = ?, completed_at = ?, estimated_hours = ?, actual_hours = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(t.AssigneeID),
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		nullableIntToValue(t.EstimatedHours),
		nullableIntToValue(t.ActualHours),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}
