// Package distlock serializes work on a key within one process. Locks are
// non-blocking and expire after a ttl.
package distlock

import (
	"context"
	"sync"
	"time"
)

// DistLock is one lock on one key.
// Implementations must be safe for use from a single goroutine;
// concurrent use across goroutines requires separate lock instances.
type DistLock interface {
	// Acquire tries to acquire the lock without blocking. Returns true if
	// successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// Factory hands out locks by key.
type Factory interface {
	NewLock(key string, ttl time.Duration) DistLock
}

// LocalFactory keeps lock state in memory. Held keys still expire after
// their ttl so a lost Release cannot wedge a key forever.
type LocalFactory struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalFactory() *LocalFactory {
	return &LocalFactory{held: make(map[string]time.Time), now: time.Now}
}

func (f *LocalFactory) NewLock(key string, ttl time.Duration) DistLock {
	return &localLock{f: f, key: key, ttl: ttl}
}

type localLock struct {
	f     *LocalFactory
	key   string
	ttl   time.Duration
	until time.Time
}

func (l *localLock) Acquire(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.f.mu.Lock()
	defer l.f.mu.Unlock()
	now := l.f.now()
	if until, ok := l.f.held[l.key]; ok && now.Before(until) {
		return false, nil
	}
	l.until = now.Add(l.ttl)
	l.f.held[l.key] = l.until
	return true, nil
}

func (l *localLock) Release(ctx context.Context) error {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()
	// Only clear the entry this lock wrote.
	if until, ok := l.f.held[l.key]; ok && until.Equal(l.until) {
		delete(l.f.held, l.key)
	}
	return nil
}
