package engine

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/engine/audio"
	"github.com/dshills/sensetype/internal/engine/cursor"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/input/key"
)

// handleListen plays the remaining contiguous Listen span and lets the
// audio position drive the cursor. Backspace retreats one spoken word.
func (e *Engine) handleListen(ctx context.Context, ev key.Event) error {
	if ev.IsBackspace() {
		e.update(e.wordBackLocked)
		return nil
	}
	return e.play(ctx)
}

// span describes the playback for the Listen run under the cursor.
type span struct {
	gen   uint64
	word  int
	end   float64
	audio bool
}

func (e *Engine) play(ctx context.Context) error {
	var ch changes
	e.mu.Lock()
	sp := e.spanLocked()
	if !sp.audio {
		// No sound: every unit counts as heard.
		e.walkLocked(math.Inf(1), true, &ch)
		e.mu.Unlock()
		e.emit(ch)
		return nil
	}
	if sp.word == unit.None {
		// Only gaps left in the span.
		e.walkLocked(math.Inf(1), false, &ch)
		e.mu.Unlock()
		e.emit(ch)
		return nil
	}
	e.mu.Unlock()

	tl := e.timeline
	if err := tl.SetCurrentTime(sp.word); err != nil {
		e.logger.Warn("seek failed, advancing silently", zap.Int("word", sp.word), zap.Error(err))
		return e.settle(sp.gen, sp.end, err)
	}

	ticks := make(chan float64, 1)
	unsubscribe := tl.Subscribe(func(pos float64) {
		latest(ticks, pos)
	})
	defer unsubscribe()

	if e.superseded(sp.gen) {
		return nil
	}
	f := tl.PlayUntil(sp.end)
	e.logger.Debug("listen playback",
		zap.Int("word", sp.word),
		zap.Float64("end", sp.end))

	for {
		select {
		case pos := <-ticks:
			e.tick(sp.gen, pos)
		case <-f.Done():
			select {
			case pos := <-ticks:
				e.tick(sp.gen, pos)
			default:
			}
			return e.settle(sp.gen, sp.end, f.Err())
		case <-ctx.Done():
			tl.Pause()
			<-f.Done()
			return ctx.Err()
		}
	}
}

func (e *Engine) superseded(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen != e.gen
}

// latest replaces any unread value in a single-slot channel.
func latest(ch chan float64, v float64) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// spanLocked resolves the start word and end time of the Listen run that
// begins at the cursor. audio is false when there is nothing to play with.
func (e *Engine) spanLocked() span {
	sp := span{gen: e.gen, word: unit.None, end: math.Inf(-1)}
	tl := e.timeline
	if tl == nil || !tl.Ready() || !tl.HasTimestamps() {
		return sp
	}
	sp.audio = true

	id, ok := e.cursor.Unit()
	for ok && id != unit.None {
		u := e.seq.At(id)
		if u.Modality != unit.Listen {
			break
		}
		if u.HasWordIndex() {
			if ts, found := tl.Timestamp(u.WordIndex); found {
				if sp.word == unit.None {
					sp.word = u.WordIndex
				}
				sp.end = math.Max(sp.end, ts.End)
			}
		}
		id = e.seq.NextNavigable(id)
	}
	return sp
}

// tick applies one audio position if the playback is still current.
func (e *Engine) tick(gen uint64, pos float64) {
	var ch changes
	e.mu.Lock()
	if gen == e.gen {
		e.walkLocked(pos, false, &ch)
	}
	e.mu.Unlock()
	e.emit(ch)
}

// walkLocked advances over consecutive Listen units whose word has been
// reached at pos. Units of a word without a timestamp are passed over
// without a commit. With silent set, every unit that belongs to a word is
// committed.
func (e *Engine) walkLocked(pos float64, silent bool, ch *changes) {
	for {
		id, ok := e.cursor.Unit()
		if !ok || e.seq.At(id).Modality != unit.Listen {
			return
		}

		word, owned := e.seq.OwningWord(id)
		switch {
		case !owned:
		case silent:
			e.commitLocked(id, true, ch)
		default:
			ts, found := e.timeline.Timestamp(word)
			if found {
				if ts.Start > pos {
					return
				}
				e.commitLocked(id, true, ch)
			}
		}
		e.advanceLocked(ch)
	}
}

// settle finishes a playback. A superseded playback changes nothing. A
// failed one degrades to a silent advance. Otherwise a cursor left on the
// span is walked up to the playback position, capped at end, then jumps
// to the first unit after it.
func (e *Engine) settle(gen uint64, end float64, err error) error {
	var ch changes
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		e.emit(ch)
	}()

	if gen != e.gen {
		return nil
	}
	switch {
	case err == nil:
	case errors.Is(err, audio.ErrInterrupted):
		return nil
	default:
		e.logger.Warn("playback failed, advancing silently", zap.Error(err))
		e.walkLocked(math.Inf(1), true, &ch)
		return nil
	}

	// PlayUntil resolves without a tick when end is already reached.
	e.walkLocked(math.Min(end, e.timeline.Position()), false, &ch)

	id, ok := e.cursor.Unit()
	if !ok || e.seq.At(id).Modality != unit.Listen {
		return nil
	}
	for id != unit.None && e.seq.At(id).Modality == unit.Listen {
		id = e.seq.NextNavigable(id)
	}
	if id == unit.None {
		e.placeLocked(cursor.End(e.seq.Len()), &ch)
		return nil
	}
	e.placeLocked(cursor.At(id), &ch)
	return nil
}

// wordBackLocked retreats to the start of the spoken word before the
// cursor. Every step clears the commit of the unit it lands on.
func (e *Engine) wordBackLocked(ch *changes) {
	id, ok := e.cursor.Unit()
	if !ok {
		return
	}

	// Start of the current word.
	if u := e.seq.At(id); !u.IsBlank() {
		if word, owned := e.seq.OwningWord(id); owned {
			start, _ := e.seq.WordStart(word)
			for e.cursor.ID() > start && e.retreatLocked(ch) {
			}
		}
	}

	if !e.retreatLocked(ch) {
		return
	}
	for e.onListen() && e.seq.At(e.cursor.ID()).IsBlank() && e.retreatLocked(ch) {
	}

	if !e.onListen() {
		return
	}
	word, owned := e.seq.OwningWord(e.cursor.ID())
	if !owned {
		return
	}
	start, _ := e.seq.WordStart(word)
	for e.cursor.ID() > start && e.retreatLocked(ch) {
	}
}

func (e *Engine) onListen() bool {
	id, ok := e.cursor.Unit()
	return ok && e.seq.At(id).Modality == unit.Listen
}
