package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/engine/audio"
)

// DefaultThrottle is a reasonable key-repeat window for interactive hosts.
const DefaultThrottle = 20 * time.Millisecond

// Option configures an Engine during creation.
type Option func(*Engine)

// WithTimeline binds the audio timeline used by Listen units. Without one,
// Listen units advance silently.
func WithTimeline(tl *audio.Timeline) Option {
	return func(e *Engine) {
		e.timeline = tl
	}
}

// WithResume seeds the cursor at a persisted offset. Units before the
// offset are committed as correct. An offset past the last unit resumes a
// completed exercise.
func WithResume(offset int) Option {
	return func(e *Engine) {
		if offset >= 0 {
			e.resume = offset
		}
	}
}

// WithThrottle coalesces keys arriving within window of each other.
func WithThrottle(window time.Duration) Option {
	return func(e *Engine) {
		e.window = window
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers fn to receive every change.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// WithClock sets the time source for keys without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
