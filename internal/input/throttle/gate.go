package throttle

import (
	"sync"
	"time"
)

// Gate accepts at most one event per window.
//
// Thread-safety: All methods are safe for concurrent use.
type Gate struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
	now    func() time.Time
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithClock sets the time source used for events without a timestamp.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate creates a gate with the given window. A window of zero or less
// accepts every event.
func NewGate(window time.Duration, opts ...GateOption) *Gate {
	g := &Gate{
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow reports whether an event stamped at ts should be processed.
// A zero ts is replaced by the gate's clock. Events stamped before the last
// accepted one are treated as fresh so that clock skew never blocks input.
func (g *Gate) Allow(ts time.Time) bool {
	if g.window <= 0 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if ts.IsZero() {
		ts = g.now()
	}
	if !g.last.IsZero() {
		elapsed := ts.Sub(g.last)
		if elapsed >= 0 && elapsed < g.window {
			return false
		}
	}
	g.last = ts
	return true
}

// Window returns the coalescing window.
func (g *Gate) Window() time.Duration {
	return g.window
}

// Reset forgets the last accepted event.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = time.Time{}
}
