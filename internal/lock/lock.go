// Package lock provides the mutual exclusion used to keep publication runs
// from overlapping and to serialize ledger writes per category.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrLocked is returned by TryLock when the key is already held.
var ErrLocked = errors.New("lock already held")

// Unlock releases a held lock.
type Unlock func(ctx context.Context) error

// Locker acquires named locks.
type Locker interface {
	// Lock blocks until key is acquired or ctx is done.
	Lock(ctx context.Context, key string) (Unlock, error)
	// TryLock acquires key without waiting, returning ErrLocked if it is held.
	TryLock(ctx context.Context, key string) (Unlock, error)
}

// LocalLocker is an in-process Locker. It only excludes goroutines of the
// same process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker returns an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Lock blocks until key is free.
func (l *LocalLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		return releaser(ch), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryLock acquires key if it is free.
func (l *LocalLocker) TryLock(_ context.Context, key string) (Unlock, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		return releaser(ch), nil
	default:
		return nil, ErrLocked
	}
}

func releaser(ch chan struct{}) Unlock {
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}
}
