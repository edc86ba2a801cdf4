package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/serenatasalon/booking-api/internal/scheduling"
)

// Category groups services and add-ons with independent slot occupancy.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service is a bookable service within a category.
type Service struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"category_id"`
	Name         string    `json:"name"`
	Subtitle     string    `json:"subtitle,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
}

// Addon is an optional extra sold alongside a category's services.
type Addon struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"category_id"`
	Name         string    `json:"name"`
	PriceCents   int64     `json:"price_cents"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
}

// CategoryDetail is a category with its full price list.
type CategoryDetail struct {
	Category Category  `json:"category"`
	Services []Service `json:"services"`
	Addons   []Addon   `json:"addons"`
}

// ServiceNames returns the normalized names of every service and add-on in
// the category. This set feeds the legacy slot-matching fallback.
func (d *CategoryDetail) ServiceNames() []string {
	out := make([]string, 0, len(d.Services)+len(d.Addons))
	for _, s := range d.Services {
		out = append(out, scheduling.NormalizeName(s.Name))
	}
	for _, a := range d.Addons {
		out = append(out, scheduling.NormalizeName(a.Name))
	}
	return out
}
