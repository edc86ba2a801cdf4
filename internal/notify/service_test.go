package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenatasalon/booking-api/internal/appointments"
	"github.com/serenatasalon/booking-api/internal/notifications"
)

type mockEmailSender struct {
	sent   []EmailMessage
	failOn string // fail if To matches this
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.failOn != "" && msg.To == m.failOn {
		return errors.New("mock email error")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:              uuid.New(),
		OrderNumber:     "ORD-12345678",
		CategorySlug:    "nails",
		Services:        []appointments.ServiceLine{{Name: "Classic Manicure", PriceCents: 3500}},
		AppointmentDate: "2026-09-12",
		AppointmentTime: "02:00 PM",
		Status:          appointments.StatusPending,
		TotalCents:      3500,
		PaymentMethod:   "Cash",
	}
}

func TestBookingCreatedWritesNotificationAndEmails(t *testing.T) {
	email := &mockEmailSender{}
	repo := notifications.NewInMemoryRepository()
	svc := NewService(email, repo, "owner@salon.example", nil)

	rcpt := Recipient{UserID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, svc.BookingCreated(context.Background(), rcpt, testAppointment()))

	notifs, err := repo.ListByUser(context.Background(), rcpt.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Booking Received", notifs[0].Title)
	assert.Equal(t, notifications.TypeBooking, notifs[0].Type)

	require.Len(t, email.sent, 2)
	assert.Equal(t, "alice@example.com", email.sent[0].To)
	assert.Equal(t, "owner@salon.example", email.sent[1].To)
	assert.Contains(t, email.sent[0].Body, "ORD-12345678")
	assert.Contains(t, email.sent[0].Body, "$35.00")
	assert.Contains(t, email.sent[1].Body, "Classic Manicure")
}

func TestBookingCreatedEmailFailureStillWritesNotification(t *testing.T) {
	email := &mockEmailSender{failOn: "owner@salon.example"}
	repo := notifications.NewInMemoryRepository()
	svc := NewService(email, repo, "owner@salon.example", nil)

	rcpt := Recipient{UserID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
	err := svc.BookingCreated(context.Background(), rcpt, testAppointment())
	require.Error(t, err)

	notifs, listErr := repo.ListByUser(context.Background(), rcpt.UserID)
	require.NoError(t, listErr)
	assert.Len(t, notifs, 1, "notification row should survive a failed email")
}

func TestBookingCreatedNoEmailSender(t *testing.T) {
	repo := notifications.NewInMemoryRepository()
	svc := NewService(nil, repo, "owner@salon.example", nil)

	rcpt := Recipient{UserID: uuid.New(), Email: "alice@example.com"}
	require.NoError(t, svc.BookingCreated(context.Background(), rcpt, testAppointment()))
}

func TestBookingCancelledEmailsOwner(t *testing.T) {
	email := &mockEmailSender{}
	repo := notifications.NewInMemoryRepository()
	svc := NewService(email, repo, "owner@salon.example", nil)

	rcpt := Recipient{UserID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, svc.BookingCancelled(context.Background(), rcpt, testAppointment()))

	require.Len(t, email.sent, 1)
	assert.Equal(t, "owner@salon.example", email.sent[0].To)
	assert.Contains(t, email.sent[0].Body, "02:00 PM")

	notifs, err := repo.ListByUser(context.Background(), rcpt.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Booking Cancelled", notifs[0].Title)
}
