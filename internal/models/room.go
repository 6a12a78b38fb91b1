package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is a listing owned by exactly one host.
type Room struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Price       float64   `json:"price"`
	Guests      int       `json:"guests"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Host        Party     `json:"host"`
	Booked      bool      `json:"booked"`
	CreatedAt   time.Time `json:"created_at"`
}
