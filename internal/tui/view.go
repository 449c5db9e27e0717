package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/engine/unit"
)

// Theme holds the styles the view draws with.
type Theme struct {
	Type      tcell.Style
	Write     tcell.Style
	Listen    tcell.Style
	Diagram   tcell.Style
	Correct   tcell.Style
	Incorrect tcell.Style
	Status    tcell.Style
}

// DefaultTheme returns the built-in styles.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Type:      base.Foreground(tcell.ColorGray),
		Write:     base.Foreground(tcell.ColorGray).Italic(true),
		Listen:    base.Foreground(tcell.ColorTeal).Underline(true),
		Diagram:   base.Foreground(tcell.ColorOlive).Dim(true),
		Correct:   base.Foreground(tcell.ColorGreen),
		Incorrect: base.Foreground(tcell.ColorRed).Underline(true),
		Status:    base.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite),
	}
}

// Frame is everything one redraw needs.
type Frame struct {
	Title string
	Seq   *unit.Sequence
	State engine.State
	Stats engine.Stats
}

// View draws frames onto a screen.
type View struct {
	screen tcell.Screen
	theme  Theme

	layout *Layout
	seq    *unit.Sequence
	top    int
}

// NewView creates a view over screen.
func NewView(screen tcell.Screen, theme Theme) *View {
	return &View{screen: screen, theme: theme}
}

// Draw renders f and shows the screen.
func (v *View) Draw(f Frame) {
	w, h := v.screen.Size()
	v.screen.Clear()
	if w <= 0 || h <= 0 || f.Seq == nil {
		v.screen.Show()
		return
	}

	if v.layout == nil || v.seq != f.Seq || v.layout.Width() != w {
		v.layout = NewLayout(f.Seq, w)
		v.seq = f.Seq
		v.top = 0
	}
	body := max(h-1, 0)
	v.scroll(f.State, body)

	marks := make(map[int]bool, len(f.State.Highlights))
	for _, hl := range f.State.Highlights {
		marks[hl.ID] = hl.Correct
	}
	current, hasCurrent := f.State.Cursor.Unit()

	for row := 0; row < body; row++ {
		for _, id := range v.layout.Row(v.top + row) {
			u := f.Seq.At(id)
			c, _ := v.layout.Cell(id)

			style := v.base(u.Modality)
			if correct, ok := marks[id]; ok {
				if correct {
					style = v.theme.Correct
				} else {
					style = v.theme.Incorrect
				}
			}
			if hasCurrent && id == current {
				style = style.Reverse(true)
			}
			v.put(c.X, row, u.Content, c.Width, style)
		}
	}

	v.status(f, w, h-1)
	v.screen.Show()
}

// UnitAt maps a screen position to the unit drawn there.
func (v *View) UnitAt(x, y int) (int, bool) {
	if v.layout == nil {
		return unit.None, false
	}
	_, h := v.screen.Size()
	if y >= h-1 {
		return unit.None, false
	}
	return v.layout.UnitAt(x, v.top+y)
}

func (v *View) base(m unit.Modality) tcell.Style {
	switch m {
	case unit.Write:
		return v.theme.Write
	case unit.Listen:
		return v.theme.Listen
	case unit.Diagram:
		return v.theme.Diagram
	default:
		return v.theme.Type
	}
}

// scroll keeps the cursor row inside the body.
func (v *View) scroll(s engine.State, body int) {
	if body == 0 {
		return
	}
	id, ok := s.Cursor.Unit()
	if !ok {
		return
	}
	c, _ := v.layout.Cell(id)
	switch {
	case c.Y < v.top:
		v.top = c.Y
	case c.Y >= v.top+body:
		v.top = c.Y - body + 1
	}
}

// put draws content starting at column x, clipped to width columns.
// Blank content still gets a styled cell so the cursor stays visible.
func (v *View) put(x, y int, content string, width int, style tcell.Style) {
	if content == "\n" || content == " " || content == "" {
		v.screen.SetContent(x, y, ' ', nil, style)
		return
	}
	col := x
	g := uniseg.NewGraphemes(content)
	for g.Next() {
		runes := g.Runes()
		gw := max(g.Width(), 1)
		if col+gw > x+width {
			break
		}
		v.screen.SetContent(col, y, runes[0], runes[1:], style)
		col += gw
	}
}

func (v *View) status(f Frame, w, y int) {
	state := f.State.Phase.String()
	if f.State.Complete {
		state = "complete"
	}
	line := fmt.Sprintf(" %s  %d/%d  %3.0f%% correct  [%s]",
		f.Title, f.Stats.Committed, f.Stats.Units, f.Stats.Accuracy()*100, state)

	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, v.theme.Status)
	}
	v.put(0, y, line, w, v.theme.Status)
}
