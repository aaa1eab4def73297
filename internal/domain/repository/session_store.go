package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps per-user POS session state that outlives a single request:
// the selected till, the short-lived close-till re-authentication grant and the
// forced re-authentication flag set after a till is closed.
type SessionStore interface {
	SetSelectedTill(ctx context.Context, userID, tillID uuid.UUID) error
	// GetSelectedTill returns nil when no till is selected
	GetSelectedTill(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	ClearSelectedTill(ctx context.Context, userID uuid.UUID) error

	GrantCloseReauth(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	HasCloseReauth(ctx context.Context, userID uuid.UUID) (bool, error)
	RevokeCloseReauth(ctx context.Context, userID uuid.UUID) error

	SetForceReauth(ctx context.Context, userID uuid.UUID) error
	IsForceReauth(ctx context.Context, userID uuid.UUID) (bool, error)
	ClearForceReauth(ctx context.Context, userID uuid.UUID) error

	// Destroy removes all session state for the user
	Destroy(ctx context.Context, userID uuid.UUID) error
}
