package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wikiracer/application/ports"
)

// TitleLocker is an in-process per-title locker. It honors the same Acquire
// contract as the DynamoDB implementation but only serializes fills within a
// single process.
type TitleLocker struct {
	mu   sync.Mutex
	held map[string]string // title -> owner
}

// NewTitleLocker creates an in-process title locker
func NewTitleLocker() *TitleLocker {
	return &TitleLocker{
		held: make(map[string]string),
	}
}

// Acquire takes the per-title lock, polling until the timeout elapses. The
// ttl parameter is ignored: an in-process lock dies with its process.
func (tl *TitleLocker) Acquire(ctx context.Context, title, owner string, ttl, timeout time.Duration) (ports.TitleLock, error) {
	deadline := time.Now().Add(timeout)

	for {
		tl.mu.Lock()
		if _, taken := tl.held[title]; !taken {
			tl.held[title] = owner
			tl.mu.Unlock()
			return &memoryLock{locker: tl, title: title}, nil
		}
		tl.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timeout acquiring lock for title: %s", title)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

type memoryLock struct {
	locker *TitleLocker
	title  string
}

// Release releases the lock
func (l *memoryLock) Release(ctx context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	delete(l.locker.held, l.title)
	return nil
}
