package scheduling

import "errors"

var (
	// ErrSlotConflict is returned when the requested slot is already held
	// by a confirmed appointment in the same category
	ErrSlotConflict = errors.New("time slot already confirmed by another booking")

	// ErrSlotNotBookable is returned for times outside the salon's
	// bookable grid
	ErrSlotNotBookable = errors.New("time slot outside bookable hours")

	// ErrMalformedSlot is returned when a time string does not match the
	// HH:MM AM|PM format
	ErrMalformedSlot = errors.New("malformed time slot")
)
