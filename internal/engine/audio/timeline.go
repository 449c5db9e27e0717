package audio

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// Timeline binds one audio asset to an ordered list of word timestamps.
//
// Thread-safety: All methods are safe for concurrent use. Listeners run on
// the player's tick goroutine without the timeline lock held, in the order
// they subscribed.
type Timeline struct {
	mu sync.Mutex

	player Player
	loader *Loader
	logger *zap.Logger

	ready   bool
	loadErr error
	closed  bool
	loads   uint64

	stamps []Timestamp
	valid  []bool

	listeners []listener
	nextID    uint64

	pending *playback
}

type listener struct {
	id uint64
	fn func(float64)
}

type playback struct {
	future *Future
	end    float64
	unsub  func()
}

// TimelineOption configures a Timeline.
type TimelineOption func(*Timeline)

// WithLoader sets the asset loader used by Load.
func WithLoader(l *Loader) TimelineOption {
	return func(t *Timeline) {
		if l != nil {
			t.loader = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) TimelineOption {
	return func(t *Timeline) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTimeline creates a timeline driving player.
func NewTimeline(player Player, opts ...TimelineOption) *Timeline {
	t := &Timeline{
		player: player,
		loader: NewLoader(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	player.OnTimeUpdate(t.dispatch)
	return t
}

// Load fetches and opens src in the background. The returned future
// settles once the asset is ready to play or failed to load. A failed load
// leaves the timeline not ready; callers degrade to silent advance.
func (t *Timeline) Load(ctx context.Context, src string) *Future {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Resolved(ErrClosed)
	}
	t.loads++
	gen := t.loads
	t.ready = false
	t.loadErr = nil
	t.mu.Unlock()

	f := newFuture()
	go func() {
		err := t.open(ctx, src)

		t.mu.Lock()
		if gen == t.loads && !t.closed {
			t.ready = err == nil
			t.loadErr = err
		}
		t.mu.Unlock()

		if err != nil {
			t.logger.Warn("audio load failed", zap.String("source", src), zap.Error(err))
		} else {
			t.logger.Debug("audio ready", zap.String("source", src))
		}
		f.resolve(err)
	}()
	return f
}

func (t *Timeline) open(ctx context.Context, src string) error {
	asset, err := t.loader.Fetch(ctx, src)
	if err != nil {
		return err
	}
	if err := t.player.Open(ctx, asset); err != nil {
		return fmt.Errorf("open %s: %w", asset.Path, err)
	}
	return nil
}

// Ready reports whether an asset is loaded.
func (t *Timeline) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready
}

// Err returns the last load error.
func (t *Timeline) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadErr
}

// SetTimestamps binds the word timestamps. Entry i belongs to word index i.
// Invalid entries stay in place and report no timestamp.
func (t *Timeline) SetTimestamps(stamps []Timestamp) {
	valid := make([]bool, len(stamps))
	bad := 0
	for i, ts := range stamps {
		valid[i] = ts.Valid()
		if !valid[i] {
			bad++
		}
	}

	t.mu.Lock()
	t.stamps = append([]Timestamp(nil), stamps...)
	t.valid = valid
	t.mu.Unlock()

	if bad > 0 {
		t.logger.Warn("invalid timestamps ignored", zap.Int("count", bad), zap.Int("total", len(stamps)))
	}
}

// Timestamp returns the timestamp of word.
func (t *Timeline) Timestamp(word int) (Timestamp, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timestampLocked(word)
}

func (t *Timeline) timestampLocked(word int) (Timestamp, bool) {
	if word < 0 || word >= len(t.stamps) || !t.valid[word] {
		return Timestamp{}, false
	}
	return t.stamps[word], true
}

// HasTimestamps reports whether any timestamps are bound.
func (t *Timeline) HasTimestamps() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stamps) > 0
}

// SetCurrentTime seeks to the start of word without playing.
func (t *Timeline) SetCurrentTime(word int) error {
	t.mu.Lock()
	ts, ok := t.timestampLocked(word)
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoTimestamp, word)
	}
	return t.Seek(ts.Start)
}

// Seek moves the playback position.
func (t *Timeline) Seek(seconds float64) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if !t.ready {
		t.mu.Unlock()
		return ErrNotReady
	}
	t.mu.Unlock()
	return t.player.Seek(seconds)
}

// Position returns the playback position in seconds.
func (t *Timeline) Position() float64 {
	return t.player.Position()
}

// PlayUntil plays from the current position and settles once the position
// reaches end. It settles with ErrInterrupted if Pause, Reset or a newer
// PlayUntil gets there first.
func (t *Timeline) PlayUntil(end float64) *Future {
	if math.IsNaN(end) {
		return Resolved(fmt.Errorf("%w: end time", ErrNoTimestamp))
	}

	t.mu.Lock()
	switch {
	case t.closed:
		t.mu.Unlock()
		return Resolved(ErrClosed)
	case !t.ready:
		t.mu.Unlock()
		return Resolved(ErrNotReady)
	}
	if d, ok := t.player.(interface{ Duration() float64 }); ok {
		if max := d.Duration(); max > 0 && end > max {
			end = max
		}
	}
	t.mu.Unlock()

	if t.player.Position() >= end {
		return Resolved(nil)
	}

	pb := &playback{future: newFuture(), end: end}
	pb.unsub = t.Subscribe(func(pos float64) {
		if pos >= pb.end {
			t.finish(pb, nil, true)
		}
	})

	t.mu.Lock()
	prev := t.pending
	t.pending = pb
	t.mu.Unlock()
	if prev != nil {
		t.settle(prev, ErrInterrupted)
	}

	if err := t.player.Play(); err != nil {
		t.finish(pb, fmt.Errorf("play: %w", err), false)
	}
	return pb.future
}

// finish settles pb if it is still the current playback.
func (t *Timeline) finish(pb *playback, err error, pause bool) {
	t.mu.Lock()
	current := t.pending == pb
	if current {
		t.pending = nil
	}
	t.mu.Unlock()

	if current && pause {
		t.player.Pause()
	}
	t.settle(pb, err)
}

func (t *Timeline) settle(pb *playback, err error) {
	pb.unsub()
	pb.future.resolve(err)
}

// Pause stops playback and interrupts a pending PlayUntil.
func (t *Timeline) Pause() {
	t.mu.Lock()
	pb := t.pending
	t.pending = nil
	t.mu.Unlock()

	t.player.Pause()
	if pb != nil {
		t.settle(pb, ErrInterrupted)
	}
}

// Reset pauses, drops every listener and rewinds to zero.
func (t *Timeline) Reset() {
	t.Pause()

	t.mu.Lock()
	t.listeners = nil
	ready := t.ready
	t.mu.Unlock()

	if ready {
		if err := t.player.Seek(0); err != nil {
			t.logger.Debug("rewind failed", zap.Error(err))
		}
	}
}

// Subscribe registers fn for time updates and returns its unsubscribe func.
// Unsubscribing twice is a no-op.
func (t *Timeline) Subscribe(fn func(seconds float64)) func() {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listener{id: id, fn: fn})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, l := range t.listeners {
				if l.id == id {
					t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Listeners returns the number of registered time-update listeners.
func (t *Timeline) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

func (t *Timeline) dispatch(pos float64) {
	t.mu.Lock()
	ls := make([]listener, len(t.listeners))
	copy(ls, t.listeners)
	t.mu.Unlock()

	for _, l := range ls {
		l.fn(pos)
	}
}

// Close stops playback and releases the player.
func (t *Timeline) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.ready = false
	t.mu.Unlock()

	t.Reset()
	return t.player.Close()
}
