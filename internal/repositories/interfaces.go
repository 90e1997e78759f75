package repositories

import (
	"context"

	"github.com/preppal-app/coaching-service/internal/models"
)

// SessionFilters narrows session listings. Order is always storage order,
// which the store keeps most-recent-first.
type SessionFilters struct {
	UserID string                // empty means all owners
	Status *models.SessionStatus // nil means any status
}

// UserStore manages the users collection. Users are immutable after
// registration; there is no update or delete.
type UserStore interface {
	// List returns all users in storage order. An absent or corrupt
	// collection blob yields an empty slice, never an error.
	List(ctx context.Context) ([]*models.User, error)

	// Create registers a new user. Returns ErrDuplicateUser when the email
	// already exists under case-insensitive comparison.
	Create(ctx context.Context, name, email, secret string) (*models.User, error)

	// Authenticate looks the user up by case-insensitive email. When the
	// account was registered with a secret, the given secret must match
	// exactly; accounts without one accept any credential. Returns
	// ErrNotFound on any mismatch.
	Authenticate(ctx context.Context, email, secret string) (*models.User, error)
}

// SessionStore manages the sessions collection.
type SessionStore interface {
	// List returns sessions in storage order (most-recent-first), optionally
	// filtered. An absent or corrupt blob yields an empty slice.
	List(ctx context.Context, filters SessionFilters) ([]*models.Session, error)

	// Upsert replaces a stored session in place when the id exists, keeping
	// its position, and inserts at the front otherwise. Write failures are
	// logged and swallowed; the call never fails the turn loop.
	Upsert(ctx context.Context, session *models.Session)

	// Create builds a fresh active session with no messages and persists it.
	Create(ctx context.Context, prefs models.UserPreferences, userID string) (*models.Session, error)

	// GetByID returns ErrNotFound when no session has the id.
	GetByID(ctx context.Context, id string) (*models.Session, error)
}
