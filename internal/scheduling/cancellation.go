package scheduling

import (
	"time"

	"github.com/serenatasalon/booking-api/internal/appointments"
)

// cancellationWindow is how far ahead a confirmed appointment must be for
// the owner to cancel it.
const cancellationWindow = 24 * time.Hour

// CanCancel reports whether the owner may cancel the appointment at the
// given instant.
//
// Pending appointments are always cancellable. Confirmed ones only while
// more than 24 hours remain before the appointment. When the stored date or
// time cannot be parsed the policy fails open and allows the cancellation:
// a data-format defect must not trap a user in a booking they cannot exit.
func CanCancel(appt appointments.Appointment, now time.Time) bool {
	switch appt.Status {
	case appointments.StatusPending:
		return true
	case appointments.StatusConfirmed:
		// fall through to the time check
	default:
		return false
	}

	day, err := time.ParseInLocation(appointments.DateFormat, appt.AppointmentDate, now.Location())
	if err != nil {
		return true
	}
	slot, err := ParseSlot(appt.AppointmentTime)
	if err != nil {
		return true
	}

	at := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour24(), slot.Minute, 0, 0, now.Location())
	return at.Sub(now) > cancellationWindow
}
