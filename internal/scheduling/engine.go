package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/serenatasalon/booking-api/internal/appointments"
	"github.com/serenatasalon/booking-api/internal/observability/metrics"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

var schedulingTracer = otel.Tracer("salon.internal.scheduling")

// AppointmentSource is the engine's read view of the appointment store.
type AppointmentSource interface {
	FindByDateAndStatus(ctx context.Context, date string, status appointments.Status) ([]appointments.Appointment, error)
}

// SlotSet is a set of canonical "HH:MM AM|PM" strings.
type SlotSet map[string]struct{}

// Has reports membership of the canonical slot string.
func (s SlotSet) Has(slot string) bool {
	_, ok := s[slot]
	return ok
}

// Strings returns the members in unspecified order.
func (s SlotSet) Strings() []string {
	out := make([]string, 0, len(s))
	for slot := range s {
		out = append(out, slot)
	}
	return out
}

// Engine computes occupied time slots for a (date, category) pair and
// validates slot choices before submission. It holds no cache: each call
// reflects store state at call time, and invalidation belongs to whatever
// caches the result (driven by the change feed).
type Engine struct {
	store   AppointmentSource
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
}

// NewEngine constructs a slot availability engine.
func NewEngine(store AppointmentSource, logger *logging.Logger, m *metrics.BookingMetrics) *Engine {
	if store == nil {
		panic("scheduling: appointment source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{store: store, logger: logger, metrics: m}
}

// NormalizeName lower-cases and trims a service name for matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ComputeOccupiedSlots returns the set of slot strings held by confirmed
// appointments in the given category on the given date.
//
// An appointment belongs to the category when its category_slug matches
// exactly, or — for legacy rows without a slug — when any of its service
// names appears in the category's service/add-on catalog. Confirmed
// appointments of other categories never block the slot.
//
// A store failure is returned as-is (wrapping ErrStoreUnavailable): an
// unknown slot state must not be presented as a free calendar.
func (e *Engine) ComputeOccupiedSlots(ctx context.Context, date, categorySlug string, categoryServiceNames []string) (SlotSet, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.compute_occupied")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.appointment_date", date),
		attribute.String("salon.category", categorySlug),
	)
	start := time.Now()

	confirmed, err := e.store.FindByDateAndStatus(ctx, date, appointments.StatusConfirmed)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: load confirmed appointments: %w", err)
	}

	names := make(map[string]struct{}, len(categoryServiceNames))
	for _, n := range categoryServiceNames {
		names[NormalizeName(n)] = struct{}{}
	}

	occupied := make(SlotSet)
	for _, appt := range confirmed {
		if belongsToCategory(appt, categorySlug, names) {
			occupied[appt.AppointmentTime] = struct{}{}
		}
	}

	e.metrics.ObserveRecompute(categorySlug, time.Since(start).Seconds())
	e.logger.Debug("occupied slots computed",
		"date", date,
		"category", categorySlug,
		"confirmed_total", len(confirmed),
		"occupied", len(occupied),
	)
	return occupied, nil
}

// belongsToCategory decides whether a confirmed appointment blocks slots in
// the target category. Exact slug match takes precedence over the legacy
// service-name fallback; a row tagged with a different slug never falls
// through to name matching.
func belongsToCategory(appt appointments.Appointment, categorySlug string, names map[string]struct{}) bool {
	if appt.CategorySlug != "" {
		return appt.CategorySlug == categorySlug
	}
	for _, line := range appt.Services {
		if _, ok := names[NormalizeName(line.Name)]; ok {
			return true
		}
	}
	return false
}

// IsSlotOccupied formats the triple and tests membership. Pure, no I/O.
func IsSlotOccupied(hour, minute int, period Period, occupied SlotSet) bool {
	return occupied.Has(FormatSlot(hour, minute, period))
}

// ValidateBookingSlot recomputes occupancy from the store immediately before
// submission and rejects the request if the chosen slot is taken. This is a
// recheck-before-commit, not a transactional guarantee: two users can still
// race while neither appointment is confirmed (see the partial unique index
// on confirmed slots for the store-side backstop).
func (e *Engine) ValidateBookingSlot(ctx context.Context, date, categorySlug string, categoryServiceNames []string, slot Slot) error {
	if !slot.Bookable() {
		return fmt.Errorf("%w: %s", ErrSlotNotBookable, slot)
	}
	occupied, err := e.ComputeOccupiedSlots(ctx, date, categorySlug, categoryServiceNames)
	if err != nil {
		return err
	}
	if occupied.Has(slot.String()) {
		e.metrics.ObserveSlotConflict()
		return fmt.Errorf("%w: %s on %s", ErrSlotConflict, slot, date)
	}
	return nil
}
