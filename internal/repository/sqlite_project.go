package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

type projectRow struct {
	ID           string          `db:"id"`
	OwnerID      string          `db:"owner_id"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	Status       string          `db:"status"`
	Latitude     sql.NullFloat64 `db:"latitude"`
	Longitude    sql.NullFloat64 `db:"longitude"`
	LocationName string          `db:"location_name"`
	StartDate    sql.NullString  `db:"start_date"`
	EndDate      sql.NullString  `db:"end_date"`
	CreatedAt    string          `db:"created_at"`
	UpdatedAt    string          `db:"updated_at"`
}

func (r projectRow) toDomain() (*domain.Project, error) {
	p := &domain.Project{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Name:         r.Name,
		Description:  r.Description,
		Status:       domain.ProjectStatus(r.Status),
		Latitude:     nullableFloat(r.Latitude),
		Longitude:    nullableFloat(r.Longitude),
		LocationName: r.LocationName,
		StartDate:    parseNullableTime(r.StartDate, dateLayout),
		EndDate:      parseNullableTime(r.EndDate, dateLayout),
	}
	var err error
	if p.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return p, nil
}

func projectsFromRows(rows []projectRow) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

const projectColumns = `p.id, p.owner_id, p.name, p.description, p.status, p.latitude, p.longitude,
	p.location_name, p.start_date, p.end_date, p.created_at, p.updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (id, owner_id, name, description, status, latitude, longitude,
		location_name, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		p.Name,
		p.Description,
		string(p.Status),
		nullableFloatToValue(p.Latitude),
		nullableFloatToValue(p.Longitude),
		p.LocationName,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row, err := getRow[projectRow](ctx, r.db, "project", id,
		`SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// List returns the projects scope admits, oldest first.
func (r *SQLiteProjectRepo) List(ctx context.Context, scope policy.QueryFilter) ([]*domain.Project, error) {
	where, args := scopeClause(scope, "")
	rows, err := selectRows[projectRow](ctx, r.db,
		`SELECT `+projectColumns+` FROM projects p WHERE `+where+` ORDER BY p.created_at, p.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projectsFromRows(rows)
}

func (r *SQLiteProjectRepo) ListOwnedBy(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := selectRows[projectRow](ctx, r.db,
		`SELECT `+projectColumns+` FROM projects p WHERE p.owner_id = ? ORDER BY p.created_at, p.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing owned projects: %w", err)
	}
	return projectsFromRows(rows)
}

func (r *SQLiteProjectRepo) CountOwnedBy(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE owner_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting owned projects: %w", err)
	}
	return n, nil
}

func (r *SQLiteProjectRepo) IsOwner(ctx context.Context, userID, projectID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE id = ? AND owner_id = ?`, projectID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking project owner: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET owner_id = ?, name = ?, description = ?, status = ?, latitude = ?, longitude = ?,
		location_name = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.OwnerID,
		p.Name,
		p.Description,
		string(p.Status),
		nullableFloatToValue(p.Latitude),
		nullableFloatToValue(p.Longitude),
		p.LocationName,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// Delete removes the project. Memberships, tasks, budgets and transactions
// go with it through ON DELETE CASCADE.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireAffected(res, "project", id)
}
