package tui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sensetype/internal/input/key"
)

// ConvertKey translates a tcell key event. It reports false for keys the
// engine has no use for.
func ConvertKey(ev *tcell.EventKey) (key.Event, bool) {
	out := key.Event{
		Modifiers: convertMod(ev.Modifiers()),
		Timestamp: ev.When(),
	}

	switch ev.Key() {
	case tcell.KeyRune:
		out.Key = key.KeyRune
		out.Rune = ev.Rune()
		// tcell folds Shift into the rune; report it the way key scripts do
		if unicode.IsUpper(out.Rune) {
			out.Modifiers |= key.ModShift
		} else {
			out.Modifiers &^= key.ModShift
		}
	case tcell.KeyEnter:
		out.Key = key.KeyEnter
	case tcell.KeyTab:
		out.Key = key.KeyTab
	case tcell.KeyBacktab:
		out.Key = key.KeyTab
		out.Modifiers |= key.ModShift
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = key.KeyBackspace
		// terminals report Backspace as Ctrl-H
		out.Modifiers &^= key.ModCtrl
	case tcell.KeyDelete:
		out.Key = key.KeyDelete
	case tcell.KeyEscape:
		out.Key = key.KeyEscape
	case tcell.KeyUp:
		out.Key = key.KeyUp
	case tcell.KeyDown:
		out.Key = key.KeyDown
	case tcell.KeyLeft:
		out.Key = key.KeyLeft
	case tcell.KeyRight:
		out.Key = key.KeyRight
	case tcell.KeyHome:
		out.Key = key.KeyHome
	case tcell.KeyEnd:
		out.Key = key.KeyEnd
	default:
		return key.Event{}, false
	}
	return out, true
}

func convertMod(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= key.ModMeta
	}
	return out
}
