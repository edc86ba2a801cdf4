package accounts

import "errors"

var (
	// ErrNotFound indicates no user with the given identifier.
	ErrNotFound = errors.New("accounts: user not found")
	// ErrEmailTaken indicates a signup attempt with an email already in use.
	ErrEmailTaken = errors.New("accounts: email already registered")
	// ErrInvalidCredentials indicates a failed login or password change.
	ErrInvalidCredentials = errors.New("accounts: invalid credentials")
	// ErrStoreUnavailable indicates the backing store could not be reached.
	ErrStoreUnavailable = errors.New("accounts: store unavailable")
)
