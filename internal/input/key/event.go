package key

import (
	"strings"
	"time"
	"unicode"
)

// Event is one key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Timestamp time.Time
}

// NewRuneEvent returns a press of a character key, stamped now.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent returns a press of a named key, stamped now.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods, Timestamp: time.Now()}
}

// IsModified reports whether Ctrl, Alt or Meta is held. Shift is part of
// the character for rune presses.
func (e Event) IsModified() bool {
	if e.Key == KeyRune {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// IsBackspace reports whether this is Backspace.
func (e Event) IsBackspace() bool {
	return e.Key == KeyBackspace
}

// IsTab reports whether this is Tab with no modifiers.
func (e Event) IsTab() bool {
	return e.Key == KeyTab && e.Modifiers == ModNone
}

// Text returns what the press types: " " for the space bar, "\n" for
// Enter, and the character for an unmodified printable rune.
func (e Event) Text() (string, bool) {
	switch {
	case e.Key == KeySpace, e.Key == KeyRune && e.Rune == ' ':
		return " ", true
	case e.Key == KeyEnter:
		return "\n", true
	case e.Key == KeyRune && !e.IsModified() && unicode.IsPrint(e.Rune):
		return string(e.Rune), true
	}
	return "", false
}

// Equals compares key, rune and modifiers. Timestamps are ignored.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String returns the event in script form, so that ParseSequence of the
// result yields an equal event.
func (e Event) String() string {
	if e.Key == KeyRune && !e.IsModified() {
		switch e.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(e.Rune)
	}

	var b strings.Builder
	b.WriteByte('<')
	for _, p := range modPrefixes {
		if !e.Modifiers.Has(p.mod) {
			continue
		}
		if p.mod == ModShift && e.Key == KeyRune {
			continue
		}
		b.WriteString(p.prefix)
		b.WriteByte('-')
	}
	if e.Key == KeyRune {
		b.WriteRune(e.Rune)
	} else {
		b.WriteString(e.Key.String())
	}
	b.WriteByte('>')
	return b.String()
}
