package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(now time.Time, ttl time.Duration) *Session {
	return &Session{UserID: 7, OrganizationID: 3, CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Save(ctx, "abc", newTestSession(now, time.Hour)))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, int64(3), got.OrganizationID)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_ExpiredSessionIsDropped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "old", newTestSession(now.Add(-2*time.Hour), time.Hour)))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "live", newTestSession(now, time.Hour)))
	require.NoError(t, store.Save(ctx, "dead1", newTestSession(now.Add(-time.Hour), time.Minute)))
	require.NoError(t, store.Save(ctx, "dead2", newTestSession(now.Add(-time.Hour), time.Minute)))

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CleanupStopsWithContext(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	require.NoError(t, store.Save(context.Background(), "dead", newTestSession(now.Add(-time.Hour), time.Minute)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.CleanupExpiredSessions(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "abc", newTestSession(time.Now(), time.Hour)))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	got.UserID = 99

	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(7), again.UserID)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.Save(ctx, "abc", newTestSession(now, time.Hour)))
	assert.True(t, mr.Exists(redisKeyPrefix+"abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, int64(3), got.OrganizationID)
	assert.True(t, now.Equal(got.CreatedAt))

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_TTLFollowsExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, "abc", newTestSession(time.Now(), time.Hour)))
	ttl := mr.TTL(redisKeyPrefix + "abc")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_AlreadyExpiredIsNotSaved(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, "old", newTestSession(time.Now().Add(-2*time.Hour), time.Hour)))
	assert.False(t, mr.Exists(redisKeyPrefix+"old"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set(redisKeyPrefix+"bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestDialRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	client.Close()

	_, err = DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}
