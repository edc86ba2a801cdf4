package appointments

import "errors"

var (
	// ErrStoreUnavailable is returned when the backing store cannot be
	// reached. Callers must treat this as "slot state unknown", never as
	// "no slots occupied".
	ErrStoreUnavailable = errors.New("appointment store unavailable")

	// ErrNotFound is returned when an appointment does not exist
	ErrNotFound = errors.New("appointment not found")

	// ErrDuplicateOrderNumber is returned when an insert collides on the
	// order number unique index
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)
