package tx

import (
	"context"
	"errors"
	"sync"
)

// Manager wraps transactional boundaries for multi-adapter operations.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

var ErrClosed = errors.New("serial manager closed")

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// SerialManager runs every Within call on one worker goroutine in FIFO
// order. Read-modify-write sequences against a store without compare-and-swap
// are safe as long as all writers go through the same manager. Within must
// not be called re-entrantly from inside fn.
type SerialManager struct {
	jobs    chan job
	closing chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewSerialManager() *SerialManager {
	m := &SerialManager{
		jobs:    make(chan job),
		closing: make(chan struct{}),
	}
	m.wg.Add(1)
	go m.loop()
	return m
}

func (m *SerialManager) loop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.closing:
			return
		case j := <-m.jobs:
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			j.done <- j.fn(j.ctx)
		}
	}
}

func (m *SerialManager) Within(ctx context.Context, fn func(context.Context) error) error {
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case m.jobs <- j:
	case <-m.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// Once queued the job always runs to completion, so wait for it even
	// if ctx is cancelled meanwhile; fn observes the cancellation itself.
	return <-j.done
}

// Close stops the worker after the in-flight job finishes.
func (m *SerialManager) Close() {
	m.once.Do(func() { close(m.closing) })
	m.wg.Wait()
}
