package unit

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// None marks an absent link, word index or unit id.
const None = -1

// Unit is one atomic element of an exercise: a character or a token such as
// a line of diagram source. Units are immutable once built.
type Unit struct {
	// ID is the dense sequence index of the unit.
	ID int

	// Content is the text value the unit stands for.
	Content string

	// Modality is the interaction the unit requires.
	Modality Modality

	// WordIndex maps a Listen word start onto the audio timestamps.
	// It is None for every other unit.
	WordIndex int

	// Prev and Next link the unit to its neighbours, or None at the ends.
	Prev int
	Next int
}

// HasWordIndex reports whether the unit starts a spoken word.
func (u Unit) HasWordIndex() bool {
	return u.WordIndex != None
}

// IsBlank reports whether the unit content is whitespace (space or newline).
func (u Unit) IsBlank() bool {
	return isBlank(u.Content)
}

// Navigable reports whether the cursor may rest on the unit.
func (u Unit) Navigable() bool {
	return u.Modality.Navigable()
}

// String returns a debug representation such as `3:listen"c"#1`.
func (u Unit) String() string {
	if u.HasWordIndex() {
		return fmt.Sprintf("%d:%s%q#%d", u.ID, u.Modality, u.Content, u.WordIndex)
	}
	return fmt.Sprintf("%d:%s%q", u.ID, u.Modality, u.Content)
}

// Mark is the mutable commit state of a unit.
type Mark struct {
	// Committed is set once the unit was typed, written or heard.
	Committed bool

	// Correct records whether a Type unit matched. Other modalities commit
	// as correct.
	Correct bool

	// Active is the cursor decoration.
	Active bool
}

func isBlank(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// startsWord reports whether tok can open a spoken word: its first rune is a
// letter or a digit.
func startsWord(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
