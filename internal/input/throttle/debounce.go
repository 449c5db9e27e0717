package throttle

import (
	"sync"
	"time"
)

// Debouncer delivers the most recent value after a quiet period.
//
// Thread-safety: All methods are safe for concurrent use. The callback is
// never called concurrently with itself and must not call back into the
// debouncer.
type Debouncer[T any] struct {
	mu       sync.Mutex
	fire     sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	value    T
	seq      uint64 // sequence number to detect stale callbacks
	callback func(T)
}

// NewDebouncer creates a debouncer that calls callback with the latest value
// once no new value has arrived for delay.
func NewDebouncer[T any](delay time.Duration, callback func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:    delay,
		callback: callback,
	}
}

// Call records v and restarts the quiet period.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.value = v
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if !d.pending || d.seq != currentSeq {
			d.mu.Unlock()
			return
		}
		d.pending = false
		v := d.value
		d.fire.Lock()
		d.mu.Unlock()
		defer d.fire.Unlock()
		if d.callback != nil {
			d.callback(v)
		}
	})
}

// Flush delivers a pending value immediately and cancels the timer. It
// returns after any delivery in progress has finished.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	if !d.pending {
		d.mu.Unlock()
		// wait out a delivery already in flight
		d.fire.Lock()
		d.fire.Unlock()
		return
	}
	d.pending = false
	v := d.value
	d.mu.Unlock()
	d.deliver(v)
}

// Cancel drops any pending value.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending returns true if a value is waiting for delivery.
func (d *Debouncer[T]) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[T]) deliver(v T) {
	d.fire.Lock()
	defer d.fire.Unlock()
	if d.callback != nil {
		d.callback(v)
	}
}
