package service

import (
	"context"
	"sync"
	"time"
)

// refresher is a revision counter whose waiters wake on every bump.
type refresher struct {
	mu      sync.Mutex
	rev     uint64
	changed chan struct{}
}

func newRefresher() *refresher {
	return &refresher{changed: make(chan struct{})}
}

func (r *refresher) bump() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rev++
	close(r.changed)
	r.changed = make(chan struct{})
	return r.rev
}

func (r *refresher) current() (uint64, <-chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rev, r.changed
}

// await returns as soon as the revision passes since, or with the
// unchanged revision once timeout elapses.
func (r *refresher) await(ctx context.Context, since uint64, timeout time.Duration) (uint64, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		rev, changed := r.current()
		if rev > since {
			return rev, nil
		}
		select {
		case <-changed:
		case <-timer.C:
			return rev, nil
		case <-ctx.Done():
			return rev, ctx.Err()
		}
	}
}
