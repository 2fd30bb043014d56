package repository

import (
	"context"
	"fmt"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
)

type SQLiteMembershipRepo struct {
	db db.DBTX
}

func NewSQLiteMembershipRepo(db db.DBTX) *SQLiteMembershipRepo {
	return &SQLiteMembershipRepo{db: db}
}

type membershipRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	ProjectID string `db:"project_id"`
	Role      string `db:"role"`
	JoinedAt  string `db:"joined_at"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r membershipRow) toDomain() (*domain.Membership, error) {
	m := &domain.Membership{
		ID:        r.ID,
		UserID:    r.UserID,
		ProjectID: r.ProjectID,
		Role:      domain.MembershipRole(r.Role),
	}
	var err error
	if m.JoinedAt, err = parseTime(r.JoinedAt); err != nil {
		return nil, fmt.Errorf("parsing joined_at: %w", err)
	}
	if m.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if m.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return m, nil
}

func membershipsFromRows(rows []membershipRow) ([]*domain.Membership, error) {
	out := make([]*domain.Membership, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

const membershipColumns = `id, user_id, project_id, role, joined_at, created_at, updated_at`

func (r *SQLiteMembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO project_memberships (` + membershipColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.UserID,
		m.ProjectID,
		string(m.Role),
		formatTime(m.JoinedAt),
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting membership: %w", err)
	}
	return nil
}

func (r *SQLiteMembershipRepo) Get(ctx context.Context, userID, projectID string) (*domain.Membership, error) {
	row, err := getRow[membershipRow](ctx, r.db, "membership", userID+"@"+projectID,
		`SELECT `+membershipColumns+` FROM project_memberships WHERE user_id = ? AND project_id = ?`,
		userID, projectID)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteMembershipRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	rows, err := selectRows[membershipRow](ctx, r.db,
		`SELECT `+membershipColumns+` FROM project_memberships WHERE project_id = ? ORDER BY joined_at, user_id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	return membershipsFromRows(rows)
}

func (r *SQLiteMembershipRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	rows, err := selectRows[membershipRow](ctx, r.db,
		`SELECT `+membershipColumns+` FROM project_memberships WHERE user_id = ? ORDER BY joined_at, project_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	return membershipsFromRows(rows)
}

func (r *SQLiteMembershipRepo) UpdateRole(ctx context.Context, userID, projectID string, role domain.MembershipRole) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE project_memberships SET role = ?, updated_at = ? WHERE user_id = ? AND project_id = ?`,
		string(role), formatTime(nowUTC()), userID, projectID)
	if err != nil {
		return fmt.Errorf("updating membership role: %w", err)
	}
	return requireAffected(res, "membership", userID+"@"+projectID)
}

func (r *SQLiteMembershipRepo) Delete(ctx context.Context, userID, projectID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_memberships WHERE user_id = ? AND project_id = ?`, userID, projectID)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}
	return requireAffected(res, "membership", userID+"@"+projectID)
}
