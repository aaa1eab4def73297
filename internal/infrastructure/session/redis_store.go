// Package session stores per-user POS session state outside the database.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
)

const keyPrefix = "pos:session:"

type redisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a session store backed by Redis
func NewRedisStore(client *redis.Client) domainRepo.SessionStore {
	return &redisStore{redis: client}
}

func tillKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s:till", keyPrefix, userID)
}

func closeReauthKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s:close_reauth", keyPrefix, userID)
}

func forceReauthKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s:force_reauth", keyPrefix, userID)
}

func (s *redisStore) SetSelectedTill(ctx context.Context, userID, tillID uuid.UUID) error {
	return s.redis.Set(ctx, tillKey(userID), tillID.String(), 0).Err()
}

func (s *redisStore) GetSelectedTill(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	val, err := s.redis.Get(ctx, tillKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tillID, err := uuid.Parse(val)
	if err != nil {
		// Stale or corrupt value; treat as no selection.
		_ = s.redis.Del(ctx, tillKey(userID))
		return nil, nil
	}
	return &tillID, nil
}

func (s *redisStore) ClearSelectedTill(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Del(ctx, tillKey(userID)).Err()
}

func (s *redisStore) GrantCloseReauth(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	return s.redis.Set(ctx, closeReauthKey(userID), "1", ttl).Err()
}

func (s *redisStore) HasCloseReauth(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.exists(ctx, closeReauthKey(userID))
}

func (s *redisStore) RevokeCloseReauth(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Del(ctx, closeReauthKey(userID)).Err()
}

func (s *redisStore) SetForceReauth(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Set(ctx, forceReauthKey(userID), "1", 0).Err()
}

func (s *redisStore) IsForceReauth(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.exists(ctx, forceReauthKey(userID))
}

func (s *redisStore) ClearForceReauth(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Del(ctx, forceReauthKey(userID)).Err()
}

func (s *redisStore) Destroy(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Del(ctx, tillKey(userID), closeReauthKey(userID), forceReauthKey(userID)).Err()
}

func (s *redisStore) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
