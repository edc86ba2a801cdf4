package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/serenatasalon/booking-api/internal/appointments"
	"github.com/serenatasalon/booking-api/internal/catalog"
	"github.com/serenatasalon/booking-api/internal/notify"
	"github.com/serenatasalon/booking-api/internal/scheduling"
)

type recordingNotifier struct {
	created   []notify.Recipient
	cancelled []notify.Recipient
	err       error
}

func (n *recordingNotifier) BookingCreated(ctx context.Context, rcpt notify.Recipient, appt *appointments.Appointment) error {
	n.created = append(n.created, rcpt)
	return n.err
}

func (n *recordingNotifier) BookingCancelled(ctx context.Context, rcpt notify.Recipient, appt *appointments.Appointment) error {
	n.cancelled = append(n.cancelled, rcpt)
	return n.err
}

type fixture struct {
	svc   *Service
	appts *appointments.InMemoryRepository
	cat   *catalog.InMemoryRepository
	notif *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := catalog.NewInMemoryRepository()
	cat.Put(catalog.CategoryDetail{
		Category: catalog.Category{ID: uuid.New(), Slug: "nails", Name: "Nails", IsActive: true},
		Services: []catalog.Service{
			{ID: uuid.New(), Name: "Classic Manicure", PriceCents: 3500, IsActive: true},
			{ID: uuid.New(), Name: "Gel Polish", PriceCents: 4500, IsActive: true},
		},
		Addons: []catalog.Addon{{ID: uuid.New(), Name: "Nail Art", PriceCents: 1000, IsActive: true}},
	})
	cat.Put(catalog.CategoryDetail{
		Category: catalog.Category{ID: uuid.New(), Slug: "hair", Name: "Hair", IsActive: true},
		Services: []catalog.Service{{ID: uuid.New(), Name: "Classic Cut", PriceCents: 5500, IsActive: true}},
	})

	appts := appointments.NewInMemoryRepository()
	engine := scheduling.NewEngine(appts, nil, nil)
	notif := &recordingNotifier{}
	svc := NewService(appts, cat, engine, nil, notif, nil, nil)
	return &fixture{svc: svc, appts: appts, cat: cat, notif: notif}
}

func validRequest() Request {
	return Request{
		CategorySlug:  "nails",
		ServiceNames:  []string{"Classic Manicure", "Nail Art"},
		Date:          "2026-09-12",
		Hour:          2,
		Minute:        0,
		Period:        scheduling.PM,
		PaymentMethod: "Cash",
	}
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	appt, err := f.svc.Book(context.Background(), userID, validRequest())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if appt.Status != appointments.StatusPending {
		t.Fatalf("expected pending status, got %s", appt.Status)
	}
	if appt.TotalCents != 4500 {
		t.Fatalf("expected total 4500, got %d", appt.TotalCents)
	}
	if appt.AppointmentTime != "02:00 PM" {
		t.Fatalf("expected canonical time, got %q", appt.AppointmentTime)
	}
	if !strings.HasPrefix(appt.OrderNumber, "ORD-") || len(appt.OrderNumber) != 12 {
		t.Fatalf("unexpected order number %q", appt.OrderNumber)
	}
	if len(f.notif.created) != 1 {
		t.Fatalf("expected creation notification, got %d", len(f.notif.created))
	}
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	cases := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"missing date", func(r *Request) { r.Date = "" }, ErrMissingDate},
		{"malformed date", func(r *Request) { r.Date = "09/12/2026" }, ErrInvalidDate},
		{"card payment", func(r *Request) { r.PaymentMethod = "Card" }, ErrPaymentMethod},
		{"no services", func(r *Request) { r.ServiceNames = nil }, ErrNoServices},
		{"unknown service", func(r *Request) { r.ServiceNames = []string{"Back Massage"} }, ErrUnknownService},
		{"outside hours", func(r *Request) { r.Hour = 9; r.Period = scheduling.AM }, scheduling.ErrSlotNotBookable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			if _, err := f.svc.Book(context.Background(), userID, req); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBookUnknownCategory(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.CategorySlug = "spa"
	if _, err := f.svc.Book(context.Background(), uuid.New(), req); !errors.Is(err, catalog.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestEmptyCategoryIsFatal(t *testing.T) {
	// an active category with no price list cannot price a booking and
	// has no service names to recognize occupied slots by
	f := newFixture(t)
	f.cat.Put(catalog.CategoryDetail{
		Category: catalog.Category{ID: uuid.New(), Slug: "massage", Name: "Massage", IsActive: true},
	})

	req := validRequest()
	req.CategorySlug = "massage"
	if _, err := f.svc.Book(context.Background(), uuid.New(), req); !errors.Is(err, catalog.ErrEmptyCategory) {
		t.Fatalf("Book: expected ErrEmptyCategory, got %v", err)
	}
	if _, err := f.svc.OccupiedSlots(context.Background(), "2026-09-12", "massage"); !errors.Is(err, catalog.ErrEmptyCategory) {
		t.Fatalf("OccupiedSlots: expected ErrEmptyCategory, got %v", err)
	}
}

func TestBookConflictWithConfirmedSlot(t *testing.T) {
	f := newFixture(t)
	if _, err := f.appts.Insert(context.Background(), &appointments.Appointment{
		OrderNumber:     "ORD-00000001",
		UserID:          uuid.New(),
		CategorySlug:    "nails",
		AppointmentDate: "2026-09-12",
		AppointmentTime: "02:00 PM",
		Status:          appointments.StatusConfirmed,
	}); err != nil {
		t.Fatalf("seed confirmed appointment: %v", err)
	}

	if _, err := f.svc.Book(context.Background(), uuid.New(), validRequest()); !errors.Is(err, scheduling.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	// Same slot, different category: no conflict.
	req := validRequest()
	req.CategorySlug = "hair"
	req.ServiceNames = []string{"Classic Cut"}
	if _, err := f.svc.Book(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("expected cross-category booking to succeed, got %v", err)
	}
}

func TestBookLegacyRowBlocksByServiceName(t *testing.T) {
	f := newFixture(t)
	// Legacy row: no category slug, matched by service-name overlap.
	if _, err := f.appts.Insert(context.Background(), &appointments.Appointment{
		OrderNumber:     "ORD-00000002",
		UserID:          uuid.New(),
		Services:        []appointments.ServiceLine{{Name: "  classic manicure  ", PriceCents: 3500}},
		AppointmentDate: "2026-09-12",
		AppointmentTime: "02:00 PM",
		Status:          appointments.StatusConfirmed,
	}); err != nil {
		t.Fatalf("seed legacy appointment: %v", err)
	}

	if _, err := f.svc.Book(context.Background(), uuid.New(), validRequest()); !errors.Is(err, scheduling.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict via legacy fallback, got %v", err)
	}
}

func TestOccupiedSlotsSorted(t *testing.T) {
	f := newFixture(t)
	for _, slot := range []string{"03:00 PM", "10:05 AM"} {
		if _, err := f.appts.Insert(context.Background(), &appointments.Appointment{
			OrderNumber:     "ORD-" + slot,
			UserID:          uuid.New(),
			CategorySlug:    "nails",
			AppointmentDate: "2026-09-12",
			AppointmentTime: slot,
			Status:          appointments.StatusConfirmed,
		}); err != nil {
			t.Fatalf("seed appointment: %v", err)
		}
	}

	occupied, err := f.svc.OccupiedSlots(context.Background(), "2026-09-12", "nails")
	if err != nil {
		t.Fatalf("OccupiedSlots returned error: %v", err)
	}
	if len(occupied) != 2 || occupied[0] != "03:00 PM" || occupied[1] != "10:05 AM" {
		t.Fatalf("unexpected occupied slots %v", occupied)
	}
}

func TestCancelPendingAlwaysAllowed(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	appt, err := f.svc.Book(context.Background(), userID, validRequest())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	if err := f.svc.Cancel(context.Background(), userID, appt.ID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	got, err := f.appts.GetByID(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Status != appointments.StatusCancelled {
		t.Fatalf("expected cancelled status, got %s", got.Status)
	}
	if len(f.notif.cancelled) != 1 {
		t.Fatalf("expected cancellation notification")
	}
}

func TestCancelConfirmedInsideWindow(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	tomorrow := time.Now().Add(6 * time.Hour)
	appt, err := f.appts.Insert(context.Background(), &appointments.Appointment{
		OrderNumber:     "ORD-00000003",
		UserID:          userID,
		CategorySlug:    "nails",
		AppointmentDate: tomorrow.Format(appointments.DateFormat),
		AppointmentTime: "02:00 PM",
		Status:          appointments.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	// A confirmed appointment within 24 hours cannot be cancelled; the
	// fixture date may fall just outside depending on wall clock, so pin
	// the service clock instead.
	f.svc.now = func() time.Time {
		at, _ := time.ParseInLocation(appointments.DateFormat, appt.AppointmentDate, time.Local)
		return at.Add(-2 * time.Hour)
	}
	if err := f.svc.Cancel(context.Background(), userID, appt.ID); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable, got %v", err)
	}
}

func TestCancelForeignBookingHidden(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	appt, err := f.svc.Book(context.Background(), owner, validRequest())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	if err := f.svc.Cancel(context.Background(), uuid.New(), appt.ID); !errors.Is(err, appointments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign booking, got %v", err)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	at := time.UnixMilli(1757668800123)
	got := newOrderNumber(at)
	if len(got) != 12 || !strings.HasPrefix(got, "ORD-") {
		t.Fatalf("unexpected order number %q", got)
	}
	if got[4:] != "68800123" {
		t.Fatalf("expected last eight millisecond digits, got %q", got[4:])
	}
}
