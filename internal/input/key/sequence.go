package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmptySpec        = errors.New("empty key name")
	ErrInvalidSpec      = errors.New("invalid key name")
	ErrUnmatchedBracket = errors.New("unmatched '<' in key script")
)

// Sequence is an ordered script of key presses.
type Sequence struct {
	Events []Event
}

// Len returns the number of events.
func (s *Sequence) Len() int {
	return len(s.Events)
}

// String returns the events in script form, separated by spaces.
func (s *Sequence) String() string {
	parts := make([]string, len(s.Events))
	for i, e := range s.Events {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// ParseSequence parses a key script. Bare characters are rune presses;
// whitespace between them only separates. Named keys, modified keys and
// a literal space use angle brackets.
func ParseSequence(s string) (*Sequence, error) {
	seq := &Sequence{}
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
		case r == '<':
			end := i + 1
			for end < len(runes) && runes[end] != '>' {
				end++
			}
			if end == len(runes) {
				return nil, fmt.Errorf("%w at %d", ErrUnmatchedBracket, i)
			}
			ev, err := Parse(string(runes[i+1 : end]))
			if err != nil {
				return nil, fmt.Errorf("at %d: %w", i, err)
			}
			seq.Events = append(seq.Events, ev)
			i = end
		default:
			seq.Events = append(seq.Events, runeEvent(r, ModNone))
		}
	}
	return seq, nil
}

// Parse parses the inside of one bracketed name, such as "CR", "C-p" or
// "S-Tab". A single character is a rune press.
func Parse(name string) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, ErrEmptySpec
	}
	if r := []rune(name); len(r) == 1 {
		return runeEvent(r[0], ModNone), nil
	}

	var mods Modifier
	parts := strings.Split(name, "-")
	// "C--" presses '-' with Ctrl
	if strings.HasSuffix(name, "--") {
		parts = append(strings.Split(strings.TrimSuffix(name, "--"), "-"), "-")
	}
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierOf(p)
		if !ok {
			return Event{}, fmt.Errorf("%w: modifier %q", ErrInvalidSpec, p)
		}
		mods |= mod
	}

	last := parts[len(parts)-1]
	switch strings.ToLower(last) {
	case "lt":
		return runeEvent('<', mods), nil
	case "gt":
		return runeEvent('>', mods), nil
	case "space":
		return runeEvent(' ', mods), nil
	}
	if r := []rune(last); len(r) == 1 {
		return runeEvent(r[0], mods), nil
	}
	if k, ok := byName[strings.ToLower(last)]; ok {
		return NewSpecialEvent(k, mods), nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, last)
}

// runeEvent marks upper-case letters as shifted and folds Ctrl letters to
// lower case, the way a terminal reports them.
func runeEvent(r rune, mods Modifier) Event {
	switch {
	case mods.Has(ModCtrl):
		r = unicode.ToLower(r)
	case unicode.IsUpper(r):
		mods |= ModShift
	}
	return NewRuneEvent(r, mods)
}
