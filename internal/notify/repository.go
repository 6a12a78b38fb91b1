package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayvista/backend/internal/models"
)

// LogRepository handles notification_logs persistence.
type LogRepository struct {
	pool *pgxpool.Pool
}

// NewLogRepository creates a notification log repository.
func NewLogRepository(pool *pgxpool.Pool) *LogRepository {
	return &LogRepository{pool: pool}
}

// Insert records one delivery attempt.
func (r *LogRepository) Insert(ctx context.Context, l *models.NotificationLog) error {
	const q = `INSERT INTO notification_logs (booking_id, kind, recipient, subject, status, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''))
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, l.BookingID, l.Kind, l.Recipient, l.Subject, l.Status, l.Error).
		Scan(&l.ID, &l.CreatedAt)
}

// List returns the most recent delivery logs, newest first.
func (r *LogRepository) List(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	const q = `SELECT id, booking_id, kind, recipient, subject, status, error_message, created_at
		FROM notification_logs
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.NotificationLog{}
	for rows.Next() {
		var l models.NotificationLog
		var subject, errMsg *string
		if err := rows.Scan(&l.ID, &l.BookingID, &l.Kind, &l.Recipient, &subject, &l.Status, &errMsg, &l.CreatedAt); err != nil {
			return nil, err
		}
		if subject != nil {
			l.Subject = *subject
		}
		if errMsg != nil {
			l.Error = *errMsg
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
