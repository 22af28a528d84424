// Package ratelimit caps simulation requests per client using Redis counters.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter is a fixed-window counter per client key
type Limiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewLimiter allows limit requests per client each minute
func NewLimiter(client *redis.Client, limit int) *Limiter {
	return &Limiter{
		client: client,
		prefix: "simulator:ratelimit",
		limit:  limit,
		window: time.Minute,
		now:    time.Now,
	}
}

// WithClock replaces the time source (for testing)
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow consumes one request for key and reports whether it is within the limit,
// along with the requests left in the current window
func (l *Limiter) Allow(ctx context.Context, key string) (bool, int, error) {
	windowKey := l.windowKey(key)

	// Counter and TTL go in one MULTI so no key is left without an expiry
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.Expire(ctx, windowKey, l.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	count := incr.Val()

	remaining := l.limit - int(count)
	if remaining < 0 {
		return false, 0, nil
	}

	return true, remaining, nil
}

func (l *Limiter) windowKey(key string) string {
	slot := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)
}

// Middleware rejects requests over the limit with 429. Redis failures let the request through.
func (l *Limiter) Middleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			allowed, remaining, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable, allowing request", zap.String("client", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error:   http.StatusText(http.StatusTooManyRequests),
					Message: fmt.Sprintf("limit of %d simulations per minute reached", l.limit),
					Code:    http.StatusTooManyRequests,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller; RealIP middleware has already rewritten RemoteAddr when proxied
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
