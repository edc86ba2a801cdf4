package booking

import "errors"

var (
	// ErrMissingDate is returned when no appointment date was chosen.
	ErrMissingDate = errors.New("booking: appointment date required")
	// ErrInvalidDate is returned for a malformed calendar date.
	ErrInvalidDate = errors.New("booking: invalid appointment date")
	// ErrNoServices is returned when nothing was selected.
	ErrNoServices = errors.New("booking: at least one service required")
	// ErrZeroTotal is returned when the selection sums to nothing.
	ErrZeroTotal = errors.New("booking: order total must be positive")
	// ErrPaymentMethod is returned for any payment method except cash.
	ErrPaymentMethod = errors.New("booking: only cash payment is accepted")
	// ErrUnknownService is returned when a selected service is not on the
	// category's price list.
	ErrUnknownService = errors.New("booking: service not offered in this category")
	// ErrNotCancellable is returned when the cancellation window has
	// passed or the appointment is already terminal.
	ErrNotCancellable = errors.New("booking: appointment can no longer be cancelled")
)
