package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/serenatasalon/booking-api/internal/appointments"
	"github.com/serenatasalon/booking-api/internal/notifications"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

// Recipient identifies the customer a notification is about.
type Recipient struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// Service writes in-app notifications and sends booking emails. All failures
// are surfaced to the caller but bookings never fail because of them.
type Service struct {
	email      EmailSender
	notifRepo  notifications.Repository
	ownerEmail string
	logger     *logging.Logger
}

// NewService creates a notification service. email may be nil when outbound
// mail is disabled.
func NewService(email EmailSender, notifRepo notifications.Repository, ownerEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		notifRepo:  notifRepo,
		ownerEmail: ownerEmail,
		logger:     logger,
	}
}

// BookingCreated records an in-app notification for the customer and emails
// both the customer and the salon owner.
func (s *Service) BookingCreated(ctx context.Context, rcpt Recipient, appt *appointments.Appointment) error {
	var errs []error

	if s.notifRepo != nil {
		_, err := s.notifRepo.Insert(ctx, &notifications.Notification{
			UserID: rcpt.UserID,
			Title:  "Booking Received",
			Message: fmt.Sprintf("Your booking %s for %s at %s is pending confirmation.",
				appt.OrderNumber, appt.AppointmentDate, appt.AppointmentTime),
			Type: notifications.TypeBooking,
		})
		if err != nil {
			s.logger.Error("failed to write booking notification", "error", err, "order_number", appt.OrderNumber)
			errs = append(errs, err)
		}
	}

	if s.email != nil && rcpt.Email != "" {
		msg := EmailMessage{
			To:      rcpt.Email,
			ToName:  rcpt.Name,
			Subject: fmt.Sprintf("Booking Received - %s", appt.OrderNumber),
			Body:    customerBookingBody(rcpt.Name, appt),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}

	if s.email != nil && s.ownerEmail != "" {
		msg := EmailMessage{
			To:      s.ownerEmail,
			Subject: fmt.Sprintf("New Booking - %s", appt.OrderNumber),
			Body:    ownerBookingBody(rcpt, appt),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// BookingCancelled records the cancellation in-app and emails the salon
// owner so the slot can be re-offered.
func (s *Service) BookingCancelled(ctx context.Context, rcpt Recipient, appt *appointments.Appointment) error {
	var errs []error

	if s.notifRepo != nil {
		_, err := s.notifRepo.Insert(ctx, &notifications.Notification{
			UserID: rcpt.UserID,
			Title:  "Booking Cancelled",
			Message: fmt.Sprintf("Your booking %s for %s at %s has been cancelled.",
				appt.OrderNumber, appt.AppointmentDate, appt.AppointmentTime),
			Type: notifications.TypeBooking,
		})
		if err != nil {
			s.logger.Error("failed to write cancellation notification", "error", err, "order_number", appt.OrderNumber)
			errs = append(errs, err)
		}
	}

	if s.email != nil && s.ownerEmail != "" {
		msg := EmailMessage{
			To:      s.ownerEmail,
			Subject: fmt.Sprintf("Booking Cancelled - %s", appt.OrderNumber),
			Body: fmt.Sprintf("The %s slot on %s is free again.\n\nOrder: %s\nCustomer: %s",
				appt.AppointmentTime, appt.AppointmentDate, appt.OrderNumber, rcpt.Name),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func customerBookingBody(name string, appt *appointments.Appointment) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`Hi %s,

We received your booking and will confirm it shortly.

Order: %s
Date: %s
Time: %s
Services: %s
Total: %s
Payment: %s

See you soon!
Serenata Salon`,
		name, appt.OrderNumber, appt.AppointmentDate, appt.AppointmentTime,
		serviceList(appt), formatCents(appt.TotalCents), appt.PaymentMethod)
}

func ownerBookingBody(rcpt Recipient, appt *appointments.Appointment) string {
	name := rcpt.Name
	if name == "" {
		name = "A customer"
	}
	return fmt.Sprintf(`%s booked an appointment.

Order: %s
Date: %s
Time: %s
Services: %s
Total: %s
Contact: %s

Confirm it from the dashboard.`,
		name, appt.OrderNumber, appt.AppointmentDate, appt.AppointmentTime,
		serviceList(appt), formatCents(appt.TotalCents), rcpt.Email)
}

func serviceList(appt *appointments.Appointment) string {
	names := make([]string, 0, len(appt.Services))
	for _, svc := range appt.Services {
		names = append(names, svc.Name)
	}
	return strings.Join(names, ", ")
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
