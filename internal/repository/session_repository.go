package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRepository remembers the latest token issued to each email in
// redis. A nil client disables it.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

// Enabled reports whether sessions are being recorded.
func (r *SessionRepository) Enabled() bool {
	return r != nil && r.rdb != nil
}

func (r *SessionRepository) SaveSession(ctx context.Context, email, token string) error {
	if !r.Enabled() {
		return nil
	}
	// ttl of zero keeps the key until the next login overwrites it
	return r.rdb.Set(ctx, sessionKey(email), token, r.ttl).Err()
}

func (r *SessionRepository) GetSession(ctx context.Context, email string) (string, error) {
	if !r.Enabled() {
		return "", ErrNotFound
	}

	token, err := r.rdb.Get(ctx, sessionKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: session for %s", ErrNotFound, email)
		}
		return "", err
	}

	return token, nil
}

func sessionKey(email string) string {
	return "session:" + email
}
