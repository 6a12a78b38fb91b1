package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayvista/backend/internal/models"
)

const bookingColumns = `id, room_id, title, location, category, image, from_date, to_date,
	guest_name, guest_email, guest_image, host_name, host_email, host_image,
	price, transaction_id, date_raw, created_at`

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a booking repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.RoomID, &b.Title, &b.Location, &b.Category, &b.Image, &b.From, &b.To,
		&b.Guest.Name, &b.Guest.Email, &b.Guest.Image, &b.Host.Name, &b.Host.Email, &b.Host.Image,
		&b.Price, &b.TransactionID, &b.Date, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) query(ctx context.Context, q string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// Insert stores a booking as given and fills its id.
func (r *Repository) Insert(ctx context.Context, b *models.Booking) error {
	const q = `INSERT INTO bookings (room_id, title, location, category, image, from_date, to_date,
		guest_name, guest_email, guest_image, host_name, host_email, host_image, price, transaction_id, date_raw)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, b.RoomID, b.Title, b.Location, b.Category, b.Image, b.From, b.To,
		b.Guest.Name, b.Guest.Email, b.Guest.Image, b.Host.Name, b.Host.Email, b.Host.Image,
		b.Price, b.TransactionID, b.Date).
		Scan(&b.ID, &b.CreatedAt)
}

// GetByID returns a booking or models.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

// Delete removes the booking with id and reports how many rows went.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByGuest returns the bookings made by guestEmail in insertion order.
func (r *Repository) ListByGuest(ctx context.Context, guestEmail string) ([]models.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE guest_email = $1 ORDER BY created_at`, guestEmail)
}

// ListByHost returns the bookings on rooms of hostEmail in insertion order.
func (r *Repository) ListByHost(ctx context.Context, hostEmail string) ([]models.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE host_email = $1 ORDER BY created_at`, hostEmail)
}

// ListAll returns every booking in insertion order.
func (r *Repository) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at`)
}
