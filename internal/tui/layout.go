package tui

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/sensetype/internal/engine/unit"
)

// Cell is the screen position of one unit in layout coordinates.
type Cell struct {
	X, Y  int
	Width int
}

// Layout places every unit of a sequence on a grid of a fixed width.
type Layout struct {
	width int
	cells []Cell
	rows  [][]int
}

// NewLayout lays seq out for width columns.
func NewLayout(seq *unit.Sequence, width int) *Layout {
	if width < 1 {
		width = 1
	}
	l := &Layout{width: width, cells: make([]Cell, seq.Len())}

	x, y := 0, 0
	newline := func() {
		x = 0
		y++
	}
	for _, u := range seq.Units() {
		switch {
		case u.Modality == unit.Diagram:
			if x > 0 {
				newline()
			}
			l.place(u.ID, Cell{X: 0, Y: y, Width: min(uniseg.StringWidth(u.Content), width)})
			newline()

		case u.Content == "\n":
			l.place(u.ID, Cell{X: x, Y: y, Width: 1})
			newline()

		default:
			w := max(uniseg.StringWidth(u.Content), 1)
			if x > 0 && x+w > width {
				newline()
			}
			l.place(u.ID, Cell{X: x, Y: y, Width: w})
			x += w
		}
	}
	return l
}

func (l *Layout) place(id int, c Cell) {
	l.cells[id] = c
	for len(l.rows) <= c.Y {
		l.rows = append(l.rows, nil)
	}
	l.rows[c.Y] = append(l.rows[c.Y], id)
}

// Width returns the column count the layout was built for.
func (l *Layout) Width() int {
	return l.width
}

// Rows returns the number of rows in use.
func (l *Layout) Rows() int {
	return len(l.rows)
}

// Cell returns the position of unit id.
func (l *Layout) Cell(id int) (Cell, bool) {
	if id < 0 || id >= len(l.cells) {
		return Cell{}, false
	}
	return l.cells[id], true
}

// Row returns the unit ids on row y in column order.
func (l *Layout) Row(y int) []int {
	if y < 0 || y >= len(l.rows) {
		return nil
	}
	return l.rows[y]
}

// UnitAt returns the unit covering column x of row y.
func (l *Layout) UnitAt(x, y int) (int, bool) {
	for _, id := range l.Row(y) {
		c := l.cells[id]
		w := max(c.Width, 1)
		if x >= c.X && x < c.X+w {
			return id, true
		}
	}
	return unit.None, false
}
