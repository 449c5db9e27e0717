package engine

import (
	"github.com/dshills/sensetype/internal/engine/cursor"
	"github.com/dshills/sensetype/internal/engine/unit"
)

// Phase is the key-processing state of an engine.
type Phase int32

const (
	// Idle accepts the next key.
	Idle Phase = iota
	// Processing rejects keys until the current one is handled.
	Processing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Processing:
		return "processing"
	default:
		return "unknown"
	}
}

// ChangeKind identifies what a Change describes.
type ChangeKind uint8

const (
	// ChangeCursor reports a cursor move. Unit is the new unit id, or the
	// sequence length at the end.
	ChangeCursor ChangeKind = iota + 1
	// ChangeCommit reports a unit committed with Correct.
	ChangeCommit
	// ChangeUncommit reports a commit cleared by a retreat.
	ChangeUncommit
	// ChangeComplete reports that the cursor reached the end.
	ChangeComplete
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCursor:
		return "cursor"
	case ChangeCommit:
		return "commit"
	case ChangeUncommit:
		return "uncommit"
	case ChangeComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Change is one observable state change.
type Change struct {
	Kind    ChangeKind
	Unit    int
	Cursor  cursor.Cursor
	Correct bool
}

// Observer receives changes.
type Observer func(Change)

// Highlight is a committed unit as seen by the presentation layer.
type Highlight struct {
	ID      int
	Correct bool
}

// State is a point-in-time copy of the engine state.
type State struct {
	Session    string
	Cursor     cursor.Cursor
	Phase      Phase
	Complete   bool
	Highlights []Highlight
}

// Stats counts commits over the navigable units.
type Stats struct {
	Units      int
	Committed  int
	Correct    int
	Incorrect  int
	ByModality map[unit.Modality]Tally
}

// Tally counts one modality.
type Tally struct {
	Units     int
	Committed int
}

// Progress returns the committed fraction of units in [0, 1].
func (s Stats) Progress() float64 {
	if s.Units == 0 {
		return 1
	}
	return float64(s.Committed) / float64(s.Units)
}

// Accuracy returns the correct fraction of committed units in [0, 1].
func (s Stats) Accuracy() float64 {
	if s.Committed == 0 {
		return 1
	}
	return float64(s.Correct) / float64(s.Committed)
}
