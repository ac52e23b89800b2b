package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed login attempts per school over a sliding
// window. With a redis client the count is shared across processes via
// INCR+EXPIRE; without one, an in-memory counter keeps the same window
// semantics for a single process.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration

	mu    sync.Mutex
	local map[string]*attemptWindow
	now   func() time.Time
}

type attemptWindow struct {
	count   int
	resetAt time.Time
}

// NewLoginLimiter builds a limiter. client may be nil.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &LoginLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
		local:       make(map[string]*attemptWindow),
		now:         time.Now,
	}
}

// Allow reports whether a login attempt for the school may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, schoolID string) bool {
	if l.client != nil {
		count, err := l.client.Get(ctx, l.key(schoolID)).Int()
		if err == nil {
			return count < l.maxAttempts
		}
		if err == redis.Nil {
			return true
		}
		// redis unreachable: fall through to the local counter so an
		// outage degrades to per-process limiting instead of lockout
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.local[schoolID]
	if !ok || !l.now().Before(w.resetAt) {
		return true
	}
	return w.count < l.maxAttempts
}

// RecordFailure registers a failed attempt for the school.
func (l *LoginLimiter) RecordFailure(ctx context.Context, schoolID string) {
	if l.client != nil {
		key := l.key(schoolID)
		pipe := l.client.TxPipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		if _, err := pipe.Exec(ctx); err == nil {
			return
		}
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.local[schoolID]
	if !ok || !now.Before(w.resetAt) {
		l.local[schoolID] = &attemptWindow{count: 1, resetAt: now.Add(l.window)}
		return
	}
	w.count++
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, schoolID string) {
	if l.client != nil {
		_ = l.client.Del(ctx, l.key(schoolID)).Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.local, schoolID)
}

func (l *LoginLimiter) key(schoolID string) string {
	return "login_failures:" + schoolID
}
