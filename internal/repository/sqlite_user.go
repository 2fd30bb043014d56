package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
)

type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(db db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

type userRow struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Role      string `db:"role"`
	Active    int    `db:"active"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r userRow) toDomain() (*domain.User, error) {
	u := &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      domain.Role(r.Role),
		Active:    intToBool(r.Active),
	}
	var err error
	if u.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return u, nil
}

const userColumns = `id, email, first_name, last_name, role, active, created_at, updated_at`

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.FirstName,
		u.LastName,
		string(u.Role),
		boolToInt(u.Active),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row, err := getRow[userRow](ctx, r.db, "user", id,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// GetByEmail matches case-insensitively.
func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row, err := getRow[userRow](ctx, r.db, "user", email,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := selectRows[userRow](ctx, r.db, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		u, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = ?, first_name = ?, last_name = ?, role = ?, active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.FirstName,
		u.LastName,
		string(u.Role),
		boolToInt(u.Active),
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return requireAffected(res, "user", u.ID)
}

func (r *SQLiteUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return requireAffected(res, "user", id)
}
