package audio

import (
	"context"
	"sync"
)

// Future is the result of an asynchronous audio operation. It settles
// exactly once.
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future already settled with err.
func Resolved(err error) *Future {
	f := newFuture()
	f.resolve(err)
	return f
}

// resolve settles the future. Later calls are ignored and report false.
func (f *Future) resolve(err error) bool {
	settled := false
	f.once.Do(func() {
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err returns the settled error, or nil while pending.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the future settles or ctx is done.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
