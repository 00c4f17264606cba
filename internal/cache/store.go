package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix    = "user:%d"
	revokedKeyPrefix = "session:revoked:%s"
)

// UserTTL bounds how long a resolved user stays cached.
const UserTTL = 5 * time.Minute

// UserKey is the cache key of a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func revokedKey(jti string) string {
	return fmt.Sprintf(revokedKeyPrefix, jti)
}

// Store wraps an optional Redis client. The zero value and a nil *Store are
// valid and behave as an always-missing cache.
type Store struct {
	rdb *redis.Client
}

// New returns a Store over rdb, which may be nil.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Client returns the underlying Redis client, or nil.
func (s *Store) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.rdb
}

// Available reports whether a Redis client is configured.
func (s *Store) Available() bool {
	return s.Client() != nil
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !s.Available() {
		return false, nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on a miss (or a Redis failure) it calls fetch, which
// must populate dest, then stores dest with ttl on a best-effort basis.
func (s *Store) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if found, err := s.GetJSON(ctx, key, dest); err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = s.SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate deletes key.
func (s *Store) Invalidate(ctx context.Context, key string) {
	if s.Available() {
		s.rdb.Del(ctx, key)
	}
}

// InvalidateUser drops the cached record of userID.
func (s *Store) InvalidateUser(ctx context.Context, userID uint) {
	s.Invalidate(ctx, UserKey(userID))
}

// RevokeSession marks a session token ID as revoked until ttl elapses.
func (s *Store) RevokeSession(ctx context.Context, jti string, ttl time.Duration) error {
	if !s.Available() || jti == "" || ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

// SessionRevoked reports whether jti was revoked. Redis failures read as not revoked.
func (s *Store) SessionRevoked(ctx context.Context, jti string) bool {
	if !s.Available() || jti == "" {
		return false
	}
	n, err := s.rdb.Exists(ctx, revokedKey(jti)).Result()
	return err == nil && n > 0
}
