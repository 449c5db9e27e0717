package audio

import (
	"context"
	"sync"
	"time"
)

// Default clock player settings.
const (
	DefaultTick = 50 * time.Millisecond
	DefaultRate = 1.0
)

// ClockPlayer advances its position with the wall clock. It makes no sound.
//
// Thread-safety: All methods are safe for concurrent use. Ticks are
// delivered from a single goroutine per play run.
type ClockPlayer struct {
	mu sync.Mutex

	tick     time.Duration
	rate     float64
	now      func() time.Time
	duration float64

	opened  bool
	closed  bool
	playing bool
	base    float64   // position when anchor was taken
	anchor  time.Time // wall time of the last play or seek while playing
	stop    chan struct{}

	onTick func(float64)
}

// ClockOption configures a ClockPlayer.
type ClockOption func(*ClockPlayer)

// WithTick sets the time-update interval.
func WithTick(d time.Duration) ClockOption {
	return func(p *ClockPlayer) {
		if d > 0 {
			p.tick = d
		}
	}
}

// WithRate sets the playback rate. 2.0 plays twice as fast.
func WithRate(rate float64) ClockOption {
	return func(p *ClockPlayer) {
		if rate > 0 {
			p.rate = rate
		}
	}
}

// WithDuration stops playback once the position reaches d seconds.
func WithDuration(seconds float64) ClockOption {
	return func(p *ClockPlayer) {
		if seconds > 0 {
			p.duration = seconds
		}
	}
}

// WithTimeSource replaces time.Now.
func WithTimeSource(now func() time.Time) ClockOption {
	return func(p *ClockPlayer) {
		if now != nil {
			p.now = now
		}
	}
}

// NewClockPlayer creates a silent clock-driven player.
func NewClockPlayer(opts ...ClockOption) *ClockPlayer {
	p := &ClockPlayer{
		tick: DefaultTick,
		rate: DefaultRate,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open marks the player ready. The asset itself is not read.
func (p *ClockPlayer) Open(_ context.Context, _ Asset) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.opened = true
	p.base = 0
	return nil
}

// Seek moves the position.
func (p *ClockPlayer) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if seconds < 0 {
		seconds = 0
	}
	p.base = seconds
	if p.playing {
		p.anchor = p.now()
	}
	return nil
}

// Play starts the tick loop.
func (p *ClockPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.closed:
		return ErrClosed
	case !p.opened:
		return ErrNotReady
	case p.playing:
		return nil
	}
	p.playing = true
	p.anchor = p.now()
	p.stop = make(chan struct{})
	go p.loop(p.stop)
	return nil
}

// Pause stops the tick loop and freezes the position.
func (p *ClockPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

func (p *ClockPlayer) pauseLocked() {
	if !p.playing {
		return
	}
	p.base = p.positionLocked()
	p.playing = false
	close(p.stop)
}

// Playing reports whether the tick loop runs.
func (p *ClockPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Position returns the current position in seconds.
func (p *ClockPlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *ClockPlayer) positionLocked() float64 {
	pos := p.base
	if p.playing {
		pos += p.now().Sub(p.anchor).Seconds() * p.rate
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	return pos
}

// Duration returns the configured length in seconds, or 0 if unbounded.
func (p *ClockPlayer) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// OnTimeUpdate sets the tick receiver.
func (p *ClockPlayer) OnTimeUpdate(fn func(seconds float64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTick = fn
}

// Close stops playback. The player cannot be reopened.
func (p *ClockPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
	p.closed = true
	return nil
}

func (p *ClockPlayer) loop(stop chan struct{}) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if !p.playing || p.stop != stop {
			p.mu.Unlock()
			return
		}
		pos := p.positionLocked()
		fn := p.onTick
		atEnd := p.duration > 0 && pos >= p.duration
		if atEnd {
			p.pauseLocked()
		}
		p.mu.Unlock()

		if fn != nil {
			fn(pos)
		}
		if atEnd {
			return
		}
	}
}
