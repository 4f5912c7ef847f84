package domain

import (
	"context"
)

// SessionRepository is the abstraction for any kind of database intended to
// persist the wallet session across runs. Only the wallet details and the
// owner set are persisted, the smart account is derived again when loading.
type SessionRepository interface {
	// GetSession returns the persisted session record, or nil if none.
	GetSession(ctx context.Context) (*SessionRecord, error)
	// SaveSession replaces the persisted session record.
	SaveSession(ctx context.Context, record SessionRecord) error
	// DeleteSession removes the persisted session record, if any.
	DeleteSession(ctx context.Context) error

	// GetReadOnlySession returns the stored read-only session, or nil if
	// none.
	GetReadOnlySession(ctx context.Context) (*ReadOnlySession, error)
	// SaveReadOnlySession replaces the stored read-only session.
	SaveReadOnlySession(ctx context.Context, session ReadOnlySession) error
	// DeleteReadOnlySession removes the stored read-only session, if any.
	DeleteReadOnlySession(ctx context.Context) error
}
