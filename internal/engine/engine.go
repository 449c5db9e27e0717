package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/engine/audio"
	"github.com/dshills/sensetype/internal/engine/cursor"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/input/key"
	"github.com/dshills/sensetype/internal/input/throttle"
)

// Engine walks a unit sequence with a single cursor.
//
// An Engine is built once per exercise load and discarded when the content
// changes; it is never re-seeded with a different sequence.
type Engine struct {
	mu sync.Mutex

	seq    *unit.Sequence
	cursor cursor.Cursor

	// gen is bumped by every external cursor placement so that a playback
	// started earlier never moves the cursor again.
	gen uint64

	phase  atomic.Int32
	closed atomic.Bool

	session   string
	timeline  *audio.Timeline
	gate      *throttle.Gate
	observers []Observer
	logger    *zap.Logger

	// Construction parameters
	resume int
	window time.Duration
	now    func() time.Time
}

// changes accumulates the changes of one locked operation.
type changes []Change

func (c *changes) add(ch Change) {
	*c = append(*c, ch)
}

// New creates an engine over seq. The cursor starts at the resume offset
// if one was given, otherwise at the first navigable unit.
func New(seq *unit.Sequence, opts ...Option) *Engine {
	e := &Engine{
		seq:     seq,
		cursor:  cursor.None(),
		session: uuid.NewString(),
		logger:  zap.NewNop(),
		resume:  -1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.gate = throttle.NewGate(e.window, throttle.WithClock(e.now))
	e.logger = e.logger.With(zap.String("session", e.session))
	e.seed()
	return e
}

func (e *Engine) seed() {
	first := e.seq.First()
	if first == unit.None {
		return
	}
	if e.resume <= 0 {
		e.cursor = cursor.At(first)
		e.seq.SetActive(first, true)
		return
	}

	target := e.seq.Seek(e.resume)
	for id := first; id != unit.None && (target == unit.None || id < target); id = e.seq.NextNavigable(id) {
		e.seq.Commit(id, true)
	}
	if target == unit.None {
		e.cursor = cursor.End(e.seq.Len())
		return
	}
	e.cursor = cursor.At(target)
	e.seq.SetActive(target, true)
	e.logger.Debug("resumed", zap.Int("offset", e.resume), zap.Int("cursor", target))
}

// Session returns the unique id of this engine instance.
func (e *Engine) Session() string {
	return e.session
}

// Sequence returns the unit sequence. Marks must only be read through the
// engine while it is in use.
func (e *Engine) Sequence() *unit.Sequence {
	return e.seq
}

// Cursor returns the current cursor.
func (e *Engine) Cursor() cursor.Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Complete reports whether the cursor reached the end of the sequence.
func (e *Engine) Complete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor.IsEnd()
}

// Phase returns the key-processing phase.
func (e *Engine) Phase() Phase {
	return Phase(e.phase.Load())
}

// Offset returns the cursor as a resume offset.
func (e *Engine) Offset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cursor.IsSet() {
		return 0
	}
	return e.cursor.ID()
}

// MoveCursor steps the cursor one navigable unit. Moving backward clears
// the commit state of the unit landed on. It reports false, leaving the
// cursor unchanged, at either boundary.
func (e *Engine) MoveCursor(forward bool) bool {
	if e.closed.Load() {
		return false
	}

	var ch changes
	e.mu.Lock()
	moved := e.moveLocked(forward, &ch)
	if moved {
		e.gen++
	}
	e.mu.Unlock()

	if moved {
		e.interrupt()
		e.emit(ch)
	}
	return moved
}

func (e *Engine) moveLocked(forward bool, ch *changes) bool {
	if !e.cursor.IsSet() {
		id := e.seq.First()
		if !forward {
			id = e.seq.Last()
		}
		if id == unit.None {
			return false
		}
		e.placeLocked(cursor.At(id), ch)
		return true
	}

	if !forward {
		return e.retreatLocked(ch)
	}
	id, ok := e.cursor.Unit()
	if !ok {
		return false
	}
	next := e.seq.NextNavigable(id)
	if next == unit.None {
		return false
	}
	e.placeLocked(cursor.At(next), ch)
	return true
}

// SetCursor places the cursor directly on id. In-flight playback is
// stopped. No commit state is cleared.
func (e *Engine) SetCursor(id int) error {
	if e.closed.Load() {
		return ErrClosed
	}
	u, ok := e.seq.Unit(id)
	if !ok {
		return ErrInvalidUnit
	}
	if !u.Navigable() {
		return ErrNotNavigable
	}

	var ch changes
	e.mu.Lock()
	e.gen++
	e.placeLocked(cursor.At(id), &ch)
	e.mu.Unlock()

	e.interrupt()
	e.emit(ch)
	return nil
}

// Pause stops in-flight playback. The cursor stays where it is.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.gen++
	e.mu.Unlock()
	e.interrupt()
}

func (e *Engine) interrupt() {
	if e.timeline != nil {
		e.timeline.Pause()
	}
}

// HandleKey dispatches ev to the handler for the modality under the
// cursor. It returns ErrBusy if another key is being handled and
// ErrThrottled if ev arrived inside the throttle window. For Listen units
// it blocks until playback of the span ends, is interrupted, or ctx is
// done.
func (e *Engine) HandleKey(ctx context.Context, ev key.Event) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if !e.phase.CompareAndSwap(int32(Idle), int32(Processing)) {
		e.logger.Debug("key dropped while busy", zap.Stringer("key", ev))
		return ErrBusy
	}
	defer e.phase.Store(int32(Idle))

	if !e.gate.Allow(ev.Timestamp) {
		return ErrThrottled
	}

	e.mu.Lock()
	cur := e.cursor
	e.mu.Unlock()

	switch {
	case !cur.IsSet():
		return ErrNoCursor
	case cur.IsEnd():
		if ev.IsBackspace() {
			e.update(func(ch *changes) { e.retreatLocked(ch) })
		}
		return nil
	}

	id, _ := cur.Unit()
	h := unit.Visit[handler](e.seq.At(id).Modality, dispatcher{e})
	return h(ctx, ev)
}

// update runs fn under the lock and emits its changes afterwards.
func (e *Engine) update(fn func(ch *changes)) {
	var ch changes
	e.mu.Lock()
	fn(&ch)
	e.mu.Unlock()
	e.emit(ch)
}

// placeLocked moves the cursor and its active decoration.
func (e *Engine) placeLocked(c cursor.Cursor, ch *changes) {
	if id, ok := e.cursor.Unit(); ok {
		e.seq.SetActive(id, false)
	}
	wasEnd := e.cursor.IsEnd()
	e.cursor = c

	if id, ok := c.Unit(); ok {
		e.seq.SetActive(id, true)
		ch.add(Change{Kind: ChangeCursor, Unit: id, Cursor: c})
		return
	}
	ch.add(Change{Kind: ChangeCursor, Unit: c.ID(), Cursor: c})
	if c.IsEnd() && !wasEnd {
		ch.add(Change{Kind: ChangeComplete, Unit: c.ID(), Cursor: c})
	}
}

// advanceLocked moves to the next navigable unit, or to the end.
func (e *Engine) advanceLocked(ch *changes) {
	id, ok := e.cursor.Unit()
	if !ok {
		return
	}
	next := e.seq.NextNavigable(id)
	if next == unit.None {
		e.placeLocked(cursor.End(e.seq.Len()), ch)
		return
	}
	e.placeLocked(cursor.At(next), ch)
}

// retreatLocked moves to the previous navigable unit and clears its commit.
func (e *Engine) retreatLocked(ch *changes) bool {
	var prev int
	if e.cursor.IsEnd() {
		prev = e.seq.Last()
	} else {
		id, ok := e.cursor.Unit()
		if !ok {
			return false
		}
		prev = e.seq.PrevNavigable(id)
	}
	if prev == unit.None {
		return false
	}

	e.uncommitLocked(prev, ch)
	e.placeLocked(cursor.At(prev), ch)
	return true
}

func (e *Engine) commitLocked(id int, correct bool, ch *changes) {
	e.seq.Commit(id, correct)
	ch.add(Change{Kind: ChangeCommit, Unit: id, Cursor: e.cursor, Correct: correct})
}

func (e *Engine) uncommitLocked(id int, ch *changes) {
	if !e.seq.Mark(id).Committed {
		return
	}
	e.seq.Uncommit(id)
	ch.add(Change{Kind: ChangeUncommit, Unit: id, Cursor: e.cursor})
}

func (e *Engine) emit(ch changes) {
	for _, c := range ch {
		for _, fn := range e.observers {
			fn(c)
		}
	}
}

// Highlights returns the committed units in id order.
func (e *Engine) Highlights() []Highlight {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.highlightsLocked()
}

func (e *Engine) highlightsLocked() []Highlight {
	var out []Highlight
	for id := 0; id < e.seq.Len(); id++ {
		if m := e.seq.Mark(id); m.Committed {
			out = append(out, Highlight{ID: id, Correct: m.Correct})
		}
	}
	return out
}

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Session:    e.session,
		Cursor:     e.cursor,
		Phase:      e.Phase(),
		Complete:   e.cursor.IsEnd(),
		Highlights: e.highlightsLocked(),
	}
}

// Mark returns the commit state of a unit.
func (e *Engine) Mark(id int) unit.Mark {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq.Mark(id)
}

// Stats counts commits over the navigable units.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{ByModality: make(map[unit.Modality]Tally)}
	for _, u := range e.seq.Units() {
		if !u.Navigable() {
			continue
		}
		t := s.ByModality[u.Modality]
		t.Units++
		s.Units++

		if m := e.seq.Mark(u.ID); m.Committed {
			t.Committed++
			s.Committed++
			if m.Correct {
				s.Correct++
			} else {
				s.Incorrect++
			}
		}
		s.ByModality[u.Modality] = t
	}
	return s
}

// Close stops playback and rejects further input. The timeline is reset so
// no listener outlives the engine.
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.mu.Lock()
	e.gen++
	e.mu.Unlock()

	if e.timeline != nil {
		e.timeline.Reset()
	}
	e.logger.Debug("engine closed")
}
