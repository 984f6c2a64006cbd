package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

func newStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb), mr
}

func TestSessionLifecycle(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Save(ctx, entity.Session{UserID: "u1", SessionID: "s1", Email: "a@example.com", Name: "A"}, time.Hour))
	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "a@example.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, time.Hour, mr.TTL("user:session:u1"))

	require.NoError(t, s.Save(ctx, entity.Session{UserID: "u1", SessionID: "s2"}, time.Minute))
	got, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s2", got.SessionID)
	assert.Empty(t, got.Email, "save replaces the whole hash")

	require.NoError(t, s.Delete(ctx, "u1"))
	_, err = s.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, entity.Session{UserID: "u1", SessionID: "s1"}, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
