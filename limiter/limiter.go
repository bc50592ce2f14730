// Package limiter throttles repeated failed login attempts per username.
package limiter

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	// Allow reports whether another attempt for key is permitted.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt for key.
	Fail(ctx context.Context, key string) error
	// Reset forgets all failures for key.
	Reset(ctx context.Context, key string) error
}

type attempts struct {
	count     int
	resetTime time.Time
}

type InMemoryLimiter struct {
	mu          sync.Mutex
	clients     map[string]*attempts
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

func NewInMemoryLimiter(maxAttempts int, window time.Duration) *InMemoryLimiter {
	return &InMemoryLimiter{
		clients:     make(map[string]*attempts),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

func (l *InMemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, exists := l.clients[key]
	if !exists {
		return true, nil
	}
	if l.now().After(client.resetTime) {
		delete(l.clients, key)
		return true, nil
	}
	return client.count < l.maxAttempts, nil
}

func (l *InMemoryLimiter) Fail(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	client, exists := l.clients[key]
	if !exists || now.After(client.resetTime) {
		l.clients[key] = &attempts{count: 1, resetTime: now.Add(l.window)}
		return nil
	}
	client.count++
	return nil
}

func (l *InMemoryLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.clients, key)
	return nil
}
