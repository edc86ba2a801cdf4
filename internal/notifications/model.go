package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification for client-side rendering.
type Type string

const (
	TypeBooking Type = "booking"
	TypeSystem  Type = "system"
)

// Notification is a per-user in-app message, written when a booking is
// created or cancelled.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Announcement is a salon-wide broadcast shown to every visitor.
type Announcement struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}
