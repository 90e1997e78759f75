package repositories

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned for lookups that match nothing.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUser is returned when registering an email that already
	// exists (case-insensitive match).
	ErrDuplicateUser = errors.New("user already exists")
)

// IsNotFoundError reports whether err is a missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is a duplicate-registration error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateUser)
}

// Store aggregates the two logical collections behind the key-value blob
// persistence boundary.
type Store interface {
	Users() UserStore
	Sessions() SessionStore

	Ping(ctx context.Context) error
	Close() error
}
