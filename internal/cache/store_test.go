package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb)
}

func TestStore_Aside(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 7, Name: "ada"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, s.Aside(ctx, UserKey(7), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "ada", first.Name)

	var second cachedUser
	require.NoError(t, s.Aside(ctx, UserKey(7), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "ada", second.Name)
	assert.Equal(t, 1, calls, "second read should be served from cache")

	s.InvalidateUser(ctx, 7)
	var third cachedUser
	require.NoError(t, s.Aside(ctx, UserKey(7), &third, UserTTL, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestStore_AsidePropagatesFetchError(t *testing.T) {
	_, s := newTestStore(t)
	want := errors.New("db down")

	var dest cachedUser
	err := s.Aside(context.Background(), UserKey(1), &dest, UserTTL, func() error { return want })
	assert.ErrorIs(t, err, want)
}

func TestStore_NilIsSafe(t *testing.T) {
	var s *Store
	ctx := context.Background()

	assert.False(t, s.Available())
	found, err := s.GetJSON(ctx, "k", &cachedUser{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, s.SetJSON(ctx, "k", cachedUser{}, time.Minute))
	assert.NoError(t, s.RevokeSession(ctx, "jti", time.Minute))
	assert.False(t, s.SessionRevoked(ctx, "jti"))
	s.InvalidateUser(ctx, 1)

	var dest cachedUser
	require.NoError(t, s.Aside(ctx, "k", &dest, time.Minute, func() error {
		dest.Name = "direct"
		return nil
	}))
	assert.Equal(t, "direct", dest.Name)
}

func TestStore_RevokeSession(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	assert.False(t, s.SessionRevoked(ctx, "abc"))
	require.NoError(t, s.RevokeSession(ctx, "abc", time.Hour))
	assert.True(t, s.SessionRevoked(ctx, "abc"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, s.SessionRevoked(ctx, "abc"))
}
