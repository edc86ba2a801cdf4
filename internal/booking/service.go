package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/serenatasalon/booking-api/internal/accounts"
	"github.com/serenatasalon/booking-api/internal/appointments"
	"github.com/serenatasalon/booking-api/internal/catalog"
	"github.com/serenatasalon/booking-api/internal/notify"
	"github.com/serenatasalon/booking-api/internal/observability/metrics"
	"github.com/serenatasalon/booking-api/internal/scheduling"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

var bookingTracer = otel.Tracer("salon.internal.booking")

const orderNumberAttempts = 3

// CatalogSource resolves a category to its price list.
type CatalogSource interface {
	GetCategoryDetail(ctx context.Context, slug string) (*catalog.CategoryDetail, error)
}

// UserSource resolves a user for notification purposes.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*accounts.User, error)
}

// Notifier fans a booking event out to in-app notifications and email.
type Notifier interface {
	BookingCreated(ctx context.Context, rcpt notify.Recipient, appt *appointments.Appointment) error
	BookingCancelled(ctx context.Context, rcpt notify.Recipient, appt *appointments.Appointment) error
}

// Request is a booking submission.
type Request struct {
	CategorySlug  string
	ServiceNames  []string
	Date          string
	Hour          int
	Minute        int
	Period        scheduling.Period
	PaymentMethod string
	Notes         string
}

// Service orchestrates booking submission, slot queries and cancellation.
type Service struct {
	appts    appointments.Repository
	catalog  CatalogSource
	engine   *scheduling.Engine
	users    UserSource
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService creates a booking service. users and notifier may be nil, in
// which case booking events produce no notifications.
func NewService(
	appts appointments.Repository,
	cat CatalogSource,
	engine *scheduling.Engine,
	users UserSource,
	notifier Notifier,
	m *metrics.BookingMetrics,
	logger *logging.Logger,
) *Service {
	if appts == nil {
		panic("booking: appointment repository required")
	}
	if cat == nil {
		panic("booking: catalog source required")
	}
	if engine == nil {
		panic("booking: scheduling engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		appts:    appts,
		catalog:  cat,
		engine:   engine,
		users:    users,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// OccupiedSlots returns the canonical slot strings held by confirmed
// appointments in the category on the given date, sorted.
func (s *Service) OccupiedSlots(ctx context.Context, date, categorySlug string) ([]string, error) {
	if strings.TrimSpace(date) == "" {
		return nil, ErrMissingDate
	}
	if !appointments.ValidDate(date) {
		return nil, ErrInvalidDate
	}
	detail, err := s.categoryDetail(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	occupied, err := s.engine.ComputeOccupiedSlots(ctx, date, categorySlug, detail.ServiceNames())
	if err != nil {
		return nil, err
	}
	out := occupied.Strings()
	sort.Strings(out)
	return out, nil
}

// Book validates a submission, rechecks the slot against confirmed
// appointments and stores the appointment as pending.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, req Request) (*appointments.Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.Book")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.category", req.CategorySlug),
		attribute.String("booking.date", req.Date),
	)

	appt, err := s.book(ctx, userID, req)
	s.metrics.ObserveBooking(req.CategorySlug, outcomeLabel(err))
	return appt, err
}

func (s *Service) book(ctx context.Context, userID uuid.UUID, req Request) (*appointments.Appointment, error) {
	if strings.TrimSpace(req.Date) == "" {
		return nil, ErrMissingDate
	}
	if !appointments.ValidDate(req.Date) {
		return nil, ErrInvalidDate
	}
	if !strings.EqualFold(strings.TrimSpace(req.PaymentMethod), "cash") {
		return nil, ErrPaymentMethod
	}
	if len(req.ServiceNames) == 0 {
		return nil, ErrNoServices
	}

	detail, err := s.categoryDetail(ctx, req.CategorySlug)
	if err != nil {
		return nil, err
	}
	lines, total, err := resolveLines(detail, req.ServiceNames)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, ErrZeroTotal
	}

	slot := scheduling.Slot{Hour: req.Hour, Minute: req.Minute, Period: req.Period}
	if err := s.engine.ValidateBookingSlot(ctx, req.Date, req.CategorySlug, detail.ServiceNames(), slot); err != nil {
		return nil, err
	}

	appt := &appointments.Appointment{
		UserID:          userID,
		CategorySlug:    req.CategorySlug,
		Services:        lines,
		AppointmentDate: strings.TrimSpace(req.Date),
		AppointmentTime: slot.String(),
		Status:          appointments.StatusPending,
		TotalCents:      total,
		PaymentMethod:   "Cash",
		Notes:           strings.TrimSpace(req.Notes),
	}

	var stored *appointments.Appointment
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		appt.OrderNumber = newOrderNumber(s.now())
		stored, err = s.appts.Insert(ctx, appt)
		if err == nil {
			break
		}
		if !errors.Is(err, appointments.ErrDuplicateOrderNumber) {
			return nil, err
		}
		time.Sleep(time.Millisecond)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		"order_number", stored.OrderNumber,
		"category", stored.CategorySlug,
		"date", stored.AppointmentDate,
		"time", stored.AppointmentTime,
		"user_id", userID,
	)
	s.sendNotification(ctx, userID, stored, false)
	return stored, nil
}

// categoryDetail resolves the category and rejects one with no price list.
// A category without services cannot price a booking and has no service
// names to match occupied slots against.
func (s *Service) categoryDetail(ctx context.Context, slug string) (*catalog.CategoryDetail, error) {
	detail, err := s.catalog.GetCategoryDetail(ctx, slug)
	if err != nil {
		return nil, err
	}
	if len(detail.Services) == 0 && len(detail.Addons) == 0 {
		return nil, fmt.Errorf("%w: %s", catalog.ErrEmptyCategory, slug)
	}
	return detail, nil
}

// ListForUser returns the user's bookings, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]appointments.Appointment, error) {
	return s.appts.ListByUser(ctx, userID)
}

// Cancel cancels the user's appointment if the eligibility policy allows it.
// Confirmed appointments are locked inside the 24-hour window.
func (s *Service) Cancel(ctx context.Context, userID, apptID uuid.UUID) error {
	appt, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return err
	}
	// Cross-user IDs look like missing rows.
	if appt.UserID != userID {
		return appointments.ErrNotFound
	}
	if !scheduling.CanCancel(*appt, s.now()) {
		return ErrNotCancellable
	}
	if err := s.appts.UpdateStatus(ctx, apptID, appointments.StatusCancelled); err != nil {
		return err
	}

	s.logger.Info("booking cancelled",
		"order_number", appt.OrderNumber,
		"date", appt.AppointmentDate,
		"time", appt.AppointmentTime,
		"user_id", userID,
	)
	appt.Status = appointments.StatusCancelled
	s.sendNotification(ctx, userID, appt, true)
	return nil
}

// sendNotification is best-effort: booking outcomes never depend on it.
func (s *Service) sendNotification(ctx context.Context, userID uuid.UUID, appt *appointments.Appointment, cancelled bool) {
	if s.notifier == nil {
		return
	}
	rcpt := notify.Recipient{UserID: userID}
	if s.users != nil {
		if user, err := s.users.GetByID(ctx, userID); err == nil {
			rcpt.Email = user.Email
			rcpt.Name = user.FullName
		}
	}
	var err error
	if cancelled {
		err = s.notifier.BookingCancelled(ctx, rcpt, appt)
	} else {
		err = s.notifier.BookingCreated(ctx, rcpt, appt)
	}
	if err != nil {
		s.logger.Warn("booking notification failed", "error", err, "order_number", appt.OrderNumber)
	}
}

func resolveLines(detail *catalog.CategoryDetail, names []string) ([]appointments.ServiceLine, int64, error) {
	prices := make(map[string]int64, len(detail.Services)+len(detail.Addons))
	display := make(map[string]string, len(detail.Services)+len(detail.Addons))
	for _, svc := range detail.Services {
		key := scheduling.NormalizeName(svc.Name)
		prices[key] = svc.PriceCents
		display[key] = svc.Name
	}
	for _, addon := range detail.Addons {
		key := scheduling.NormalizeName(addon.Name)
		prices[key] = addon.PriceCents
		display[key] = addon.Name
	}

	var lines []appointments.ServiceLine
	var total int64
	for _, name := range names {
		key := scheduling.NormalizeName(name)
		price, ok := prices[key]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownService, strings.TrimSpace(name))
		}
		lines = append(lines, appointments.ServiceLine{Name: display[key], PriceCents: price})
		total += price
	}
	return lines, total, nil
}

// newOrderNumber derives an order number from the last eight digits of the
// millisecond timestamp.
func newOrderNumber(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "ORD-" + ms
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, scheduling.ErrSlotConflict):
		return "conflict"
	case errors.Is(err, appointments.ErrStoreUnavailable):
		return "error"
	default:
		return "rejected"
	}
}
