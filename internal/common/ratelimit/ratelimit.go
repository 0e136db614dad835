// Package ratelimit implements a fixed-window request limiter keyed by an
// arbitrary string (the webhook token). The window state lives in Redis so
// limits hold across instances; when no Redis address is configured the
// limiter falls back to per-instance in-memory counting, which is sufficient
// for basic protection.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Result reports whether a request is allowed and how many requests remain
// in the current window.
type Result struct {
	Allowed   bool
	Remaining int
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter counts requests per key in one-minute fixed windows using
// INCR + EXPIRE.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, requestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		max:    requestsPerMinute,
		window: time.Minute,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, err
	}

	// First hit in the window owns setting the expiry.
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Result{}, err
		}
	}

	if int(count) > l.max {
		return Result{Allowed: false, Remaining: 0}, nil
	}

	return Result{Allowed: true, Remaining: l.max - int(count)}, nil
}

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the in-process fallback. Each instance keeps its own
// counters, so the effective global limit is max * instances.
type MemoryLimiter struct {
	mu     sync.Mutex
	store  map[string]*memoryEntry
	max    int
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(requestsPerMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		store:  make(map[string]*memoryEntry),
		max:    requestsPerMinute,
		window: time.Minute,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	entry, ok := l.store[key]
	if ok && now.After(entry.resetAt) {
		delete(l.store, key)
		ok = false
	}

	if !ok {
		l.store[key] = &memoryEntry{count: 1, resetAt: now.Add(l.window)}
		return Result{Allowed: true, Remaining: l.max - 1}, nil
	}

	if entry.count >= l.max {
		return Result{Allowed: false, Remaining: 0}, nil
	}

	entry.count++
	return Result{Allowed: true, Remaining: l.max - entry.count}, nil
}

// Cleanup drops expired windows. Callers run it on a ticker to keep the map
// from growing with one-off keys.
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, entry := range l.store {
		if now.After(entry.resetAt) {
			delete(l.store, key)
		}
	}
}
