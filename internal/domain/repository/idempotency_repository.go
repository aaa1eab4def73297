package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
)

// IdempotencyRepository keeps replayable responses for retried POS requests.
// A key is scoped to its owner and route, so a terminal may reuse the same
// key on checkout and on a cash drop without one replaying the other.
type IdempotencyRepository interface {
	// Find returns the entry stored for the owner's key on route, or nil
	Find(ctx context.Context, ownerID uuid.UUID, route, key string) (*entity.IdempotencyKey, error)
	// Save stores an entry, replacing an expired one in the same scope
	Save(ctx context.Context, ikey *entity.IdempotencyKey) error
	// PurgeExpired drops entries that expired before now and returns how many
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
