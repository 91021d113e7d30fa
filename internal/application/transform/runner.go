package transform

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned when work is submitted to a stopped runner.
var ErrStopped = errors.New("runner stopped")

// Runner serialises closures onto a single goroutine. It implements Scheduler
// by posting timer callbacks back onto that goroutine, so an Engine driven by a
// Runner never sees concurrent calls.
type Runner struct {
	ops  chan func()
	done chan struct{}

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewRunner starts the runner goroutine. Stop must be called to release it.
func NewRunner(queue int) *Runner {
	if queue <= 0 {
		queue = 64
	}
	r := &Runner{
		ops:     make(chan func(), queue),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Runner) loop() {
	defer close(r.done)
	for {
		select {
		case op := <-r.ops:
			op()
		case <-r.stopped:
			return
		}
	}
}

// Post enqueues op, blocking while the queue is full. It returns false once the
// runner is stopped.
func (r *Runner) Post(op func()) bool {
	select {
	case <-r.stopped:
		return false
	default:
	}
	select {
	case r.ops <- op:
		return true
	case <-r.stopped:
		return false
	}
}

// TryPost enqueues op without blocking. It returns false when the queue is
// full or the runner is stopped.
func (r *Runner) TryPost(op func()) bool {
	select {
	case <-r.stopped:
		return false
	default:
	}
	select {
	case r.ops <- op:
		return true
	default:
		return false
	}
}

// Do runs op on the runner goroutine and waits for it to finish.
func (r *Runner) Do(ctx context.Context, op func()) error {
	finished := make(chan struct{})
	if !r.Post(func() {
		defer close(finished)
		op()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		// The op may have been queued behind the stop signal.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// AfterFunc implements Scheduler.
func (r *Runner) AfterFunc(d time.Duration, f func()) func() bool {
	t := time.AfterFunc(d, func() {
		r.Post(f)
	})
	return t.Stop
}

// Stop terminates the runner goroutine and waits for it to exit. Queued ops
// that have not started are dropped.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopped) })
	<-r.done
}
