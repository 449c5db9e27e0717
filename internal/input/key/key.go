package key

import (
	"fmt"
	"strings"
)

// Key identifies a key. Character keys are KeyRune with Event.Rune set.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

// names lists the script name of each special key first, then aliases.
var names = map[Key][]string{
	KeyEscape:    {"Esc", "Escape"},
	KeyEnter:     {"CR", "Enter", "Return"},
	KeyTab:       {"Tab"},
	KeyBackspace: {"BS", "Backspace"},
	KeyDelete:    {"Del", "Delete"},
	KeySpace:     {"Space"},
	KeyUp:        {"Up"},
	KeyDown:      {"Down"},
	KeyLeft:      {"Left"},
	KeyRight:     {"Right"},
	KeyHome:      {"Home"},
	KeyEnd:       {"End"},
}

var byName = func() map[string]Key {
	m := make(map[string]Key)
	for k, aliases := range names {
		for _, a := range aliases {
			m[strings.ToLower(a)] = k
		}
	}
	return m
}()

// String returns the script name of the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	}
	if n, ok := names[k]; ok {
		return n[0]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// script prefixes, in the order String emits them
var modPrefixes = []struct {
	mod    Modifier
	prefix string
}{
	{ModCtrl, "C"},
	{ModAlt, "A"},
	{ModMeta, "M"},
	{ModShift, "S"},
}

// Has reports whether m holds mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

func modifierOf(prefix string) (Modifier, bool) {
	for _, p := range modPrefixes {
		if strings.EqualFold(p.prefix, prefix) {
			return p.mod, true
		}
	}
	return ModNone, false
}
