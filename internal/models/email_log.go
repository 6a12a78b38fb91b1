package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds sent on booking creation.
const (
	NotificationGuestConfirmation = "guest_confirmation"
	NotificationHostNotice        = "host_notice"
)

// Notification delivery outcomes.
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationLog records one delivery attempt made by the worker.
type NotificationLog struct {
	ID        uuid.UUID  `json:"id"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Kind      string     `json:"kind"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject,omitempty"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
