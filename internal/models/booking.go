package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a guest's reservation against a room. Host and guest are copies taken at booking time.
type Booking struct {
	ID            uuid.UUID  `json:"_id"`
	RoomID        *uuid.UUID `json:"roomId,omitempty"`
	Title         string     `json:"title,omitempty"`
	Location      string     `json:"location,omitempty"`
	Category      string     `json:"category,omitempty"`
	Image         string     `json:"image,omitempty"`
	From          string     `json:"from,omitempty"`
	To            string     `json:"to,omitempty"`
	Guest         Party      `json:"guest"`
	Host          Party      `json:"host"`
	Price         float64    `json:"price"`
	TransactionID string     `json:"transactionId"`
	Date          string     `json:"date,omitempty"` // as sent by the client; may be empty or unparsable
	CreatedAt     time.Time  `json:"created_at"`
}
