package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayvista/backend/internal/models"
)

const userColumns = `id, email, COALESCE(name,''), COALESCE(image,''), role, COALESCE(status,''), timestamp_ms, created_at`

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Image, &role, &u.Status, &u.Timestamp, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// GetByEmail returns a user by email or models.ErrNotFound.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// List returns all users, oldest first.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// Insert stores a new user. An existing email is left untouched and reported as inserted=false.
func (r *Repository) Insert(ctx context.Context, u *models.User) (bool, error) {
	const q = `INSERT INTO users (email, name, image, role, status, timestamp_ms)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), $4, NULLIF($5,''), $6)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, u.Email, u.Name, u.Image, string(u.Role), u.Status, u.Timestamp).Scan(&u.ID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatus overwrites the status of the user with email.
func (r *Repository) SetStatus(ctx context.Context, email, status string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET status = $1 WHERE email = $2`, status, email)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Update sets the provided role and/or status and refreshes the timestamp.
func (r *Repository) Update(ctx context.Context, email string, f UpdateFields, timestamp int64) (int64, error) {
	var role *string
	if f.Role != nil {
		s := string(*f.Role)
		role = &s
	}
	const q = `UPDATE users SET role = COALESCE($1, role), status = COALESCE($2, status), timestamp_ms = $3 WHERE email = $4`
	tag, err := r.pool.Exec(ctx, q, role, f.Status, timestamp, email)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
