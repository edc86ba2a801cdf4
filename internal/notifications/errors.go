package notifications

import "errors"

var (
	// ErrNotFound indicates the notification does not exist or belongs to
	// a different user.
	ErrNotFound = errors.New("notifications: not found")
	// ErrStoreUnavailable indicates the backing store could not be reached.
	ErrStoreUnavailable = errors.New("notifications: store unavailable")
)
