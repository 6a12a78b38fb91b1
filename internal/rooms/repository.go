package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayvista/backend/internal/models"
)

const roomColumns = `id, title, location, category, description, image, price, guests, bedrooms, bathrooms,
	from_date, to_date, host_name, host_email, host_image, booked, created_at`

// Repository handles room persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a room repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var r models.Room
	err := row.Scan(&r.ID, &r.Title, &r.Location, &r.Category, &r.Description, &r.Image, &r.Price,
		&r.Guests, &r.Bedrooms, &r.Bathrooms, &r.From, &r.To,
		&r.Host.Name, &r.Host.Email, &r.Host.Image, &r.Booked, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *Repository) query(ctx context.Context, q string, args ...interface{}) ([]models.Room, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *room)
	}
	return list, rows.Err()
}

// List returns rooms, filtered by exact category when category is non-empty.
func (r *Repository) List(ctx context.Context, category string) ([]models.Room, error) {
	if category == "" {
		return r.query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY created_at`)
	}
	return r.query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE category = $1 ORDER BY created_at`, category)
}

// ListByHost returns the rooms owned by hostEmail.
func (r *Repository) ListByHost(ctx context.Context, hostEmail string) ([]models.Room, error) {
	return r.query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE host_email = $1 ORDER BY created_at`, hostEmail)
}

// GetByID returns a room or models.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return scanRoom(r.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
}

// Insert stores a new room and fills its id.
func (r *Repository) Insert(ctx context.Context, room *models.Room) error {
	const q = `INSERT INTO rooms (title, location, category, description, image, price, guests, bedrooms, bathrooms,
		from_date, to_date, host_name, host_email, host_image, booked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, room.Title, room.Location, room.Category, room.Description, room.Image, room.Price,
		room.Guests, room.Bedrooms, room.Bathrooms, room.From, room.To,
		room.Host.Name, room.Host.Email, room.Host.Image, room.Booked).
		Scan(&room.ID, &room.CreatedAt)
}

// UpdateOwned overwrites the patched columns of a room owned by hostEmail.
func (r *Repository) UpdateOwned(ctx context.Context, id uuid.UUID, hostEmail string, p Patch) (int64, error) {
	cols, args := p.assignments()
	if len(cols) == 0 {
		return 0, fmt.Errorf("%w: no updatable fields", models.ErrValidation)
	}
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, id, hostEmail)
	q := fmt.Sprintf(`UPDATE rooms SET %s WHERE id = $%d AND host_email = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetBooked sets the availability flag.
func (r *Repository) SetBooked(ctx context.Context, id uuid.UUID, booked bool) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE rooms SET booked = $1 WHERE id = $2`, booked, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteOwned removes a room owned by hostEmail.
func (r *Repository) DeleteOwned(ctx context.Context, id uuid.UUID, hostEmail string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1 AND host_email = $2`, id, hostEmail)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of rooms; a non-empty hostEmail limits it to that host.
func (r *Repository) Count(ctx context.Context, hostEmail string) (int, error) {
	var n int
	var err error
	if hostEmail == "" {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms WHERE host_email = $1`, hostEmail).Scan(&n)
	}
	return n, err
}
