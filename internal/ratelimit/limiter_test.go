package ratelimit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, limit int, now *time.Time) (*ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := ratelimit.NewLimiter(client, limit).WithClock(func() time.Time { return *now })
	return l, mr
}

func TestAllow_WithinAndOverLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(t, 3, &now)
	ctx := context.Background()

	for i := 2; i >= 0; i-- {
		allowed, remaining, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, remaining)
	}

	allowed, _, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// other clients have their own budget
	allowed, _, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_NewWindowResets(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(t, 1, &now)
	ctx := context.Background()

	allowed, _, _ := l.Allow(ctx, "client")
	require.True(t, allowed)
	allowed, _, _ = l.Allow(ctx, "client")
	require.False(t, allowed)

	now = now.Add(time.Minute)
	allowed, _, err := l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_SetsExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l, mr := newTestLimiter(t, 5, &now)

	_, _, err := l.Allow(context.Background(), "client")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))
}

func TestAllow_EveryHitKeepsExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l, mr := newTestLimiter(t, 5, &now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := l.Allow(ctx, "client")
		require.NoError(t, err)

		keys := mr.Keys()
		require.Len(t, keys, 1)
		assert.Equal(t, time.Minute, mr.TTL(keys[0]))
	}

	// a key whose TTL was lost still picks one up on the next hit
	keys := mr.Keys()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	require.NoError(t, client.Persist(ctx, keys[0]).Err())
	require.Zero(t, mr.TTL(keys[0]))

	allowed, remaining, err := l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))

	// expired windows free their keys
	mr.FastForward(time.Minute)
	assert.Empty(t, mr.Keys())
}

func TestMiddleware(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(t, 1, &now)

	handler := l.Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/simulate", nil)
	req.RemoteAddr = "192.0.2.7:51234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestMiddleware_FailsOpen(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l, mr := newTestLimiter(t, 1, &now)
	mr.Close()

	handler := l.Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/simulate", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
