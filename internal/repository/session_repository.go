package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores the admin session flag in Redis, keyed by token
// id. The flag value is the operator role; its TTL matches the token expiry.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// Put writes the session flag with the provided TTL.
func (r *SessionRepository) Put(ctx context.Context, tokenID, role string, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKeyPrefix+tokenID, role, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the stored role for a token id, or "" when no session exists.
// A missing or malformed entry is "no session", not an error.
func (r *SessionRepository) Get(ctx context.Context, tokenID string) (string, error) {
	role, err := r.client.Get(ctx, sessionKeyPrefix+tokenID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return role, nil
}

// Delete clears the session flag unconditionally.
func (r *SessionRepository) Delete(ctx context.Context, tokenID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+tokenID).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
