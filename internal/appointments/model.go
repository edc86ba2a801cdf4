package appointments

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment. Created as pending,
// promoted to confirmed by staff, then completed or cancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ServiceLine is one billed line item on an appointment. The name doubles as
// the matching key for legacy rows that carry no category slug.
type ServiceLine struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// Appointment is the authoritative booking record.
type Appointment struct {
	ID              uuid.UUID     `json:"id"`
	OrderNumber     string        `json:"order_number"`
	UserID          uuid.UUID     `json:"user_id"`
	CategorySlug    string        `json:"category_slug,omitempty"`
	Services        []ServiceLine `json:"services"`
	AppointmentDate string        `json:"appointment_date"`
	AppointmentTime string        `json:"appointment_time"`
	Status          Status        `json:"status"`
	TotalCents      int64         `json:"total_cents"`
	PaymentMethod   string        `json:"payment_method"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// DateFormat is the wire format of AppointmentDate.
const DateFormat = "2006-01-02"

// ValidDate reports whether the date is a well-formed calendar date.
func ValidDate(date string) bool {
	date = strings.TrimSpace(date)
	if date == "" {
		return false
	}
	_, err := time.Parse(DateFormat, date)
	return err == nil
}
