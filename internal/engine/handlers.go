package engine

import (
	"context"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/sensetype/internal/engine/cursor"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/input/key"
)

// handler processes one key for the unit under the cursor.
type handler func(ctx context.Context, ev key.Event) error

// dispatcher selects the handler for a modality.
type dispatcher struct {
	e *Engine
}

func (d dispatcher) VisitType() handler    { return d.e.handleType }
func (d dispatcher) VisitWrite() handler   { return d.e.handleWrite }
func (d dispatcher) VisitListen() handler  { return d.e.handleListen }
func (d dispatcher) VisitDiagram() handler { return d.e.handleDiagram }

// handleType compares the key with the unit content. The cursor advances
// on a mismatch too; the unit is only flagged incorrect.
func (e *Engine) handleType(_ context.Context, ev key.Event) error {
	switch {
	case ev.IsBackspace():
		e.update(func(ch *changes) { e.retreatLocked(ch) })
		return nil
	case ev.IsTab():
		e.update(e.completeWordLocked)
		return nil
	}

	text, ok := ev.Text()
	if !ok {
		return nil
	}
	e.update(func(ch *changes) {
		id, ok := e.cursor.Unit()
		if !ok {
			return
		}
		correct := norm.NFC.String(text) == norm.NFC.String(e.seq.At(id).Content)
		e.commitLocked(id, correct, ch)
		e.advanceLocked(ch)
	})
	return nil
}

// completeWordLocked commits the rest of the current word as correct and
// lands on the blank that ends it. On a blank the blank itself is
// committed.
func (e *Engine) completeWordLocked(ch *changes) {
	id, ok := e.cursor.Unit()
	if !ok {
		return
	}
	if e.seq.At(id).IsBlank() {
		e.commitLocked(id, true, ch)
		e.advanceLocked(ch)
		return
	}

	for id != unit.None {
		u := e.seq.At(id)
		if u.Navigable() {
			if u.IsBlank() {
				break
			}
			e.commitLocked(id, true, ch)
		}
		id = u.Next
	}

	if id == unit.None {
		e.placeLocked(cursor.End(e.seq.Len()), ch)
		return
	}
	e.placeLocked(cursor.At(id), ch)
}

// handleWrite accepts any key as the written content.
func (e *Engine) handleWrite(_ context.Context, ev key.Event) error {
	e.update(func(ch *changes) {
		if ev.IsBackspace() {
			e.retreatLocked(ch)
			return
		}
		id, ok := e.cursor.Unit()
		if !ok {
			return
		}
		e.commitLocked(id, true, ch)
		e.advanceLocked(ch)
	})
	return nil
}

// handleDiagram moves off a display-only unit without committing it.
func (e *Engine) handleDiagram(_ context.Context, ev key.Event) error {
	e.update(func(ch *changes) {
		if ev.IsBackspace() {
			e.retreatLocked(ch)
			return
		}
		e.advanceLocked(ch)
	})
	return nil
}
