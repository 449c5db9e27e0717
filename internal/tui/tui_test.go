package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/input/key"
)

func chars(s string) []string {
	return strings.Split(s, "")
}

func build(t *testing.T, sections ...unit.Section) *unit.Sequence {
	t.Helper()
	seq, err := unit.Build(sections)
	require.NoError(t, err)
	return seq
}

func simScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, comb, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
		for _, c := range comb {
			b.WriteRune(c)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

type session struct {
	mu  sync.Mutex
	eng *engine.Engine
}

func (s *session) Engine() *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng
}

func (s *session) Title() string { return "demo" }

func TestLayoutWraps(t *testing.T) {
	seq := build(t,
		unit.Section{Modality: unit.Type, Tokens: chars("abcdef")},
	)
	l := NewLayout(seq, 4)
	assert.Equal(t, 2, l.Rows())
	assert.Equal(t, []int{0, 1, 2, 3}, l.Row(0))
	c, ok := l.Cell(5)
	require.True(t, ok)
	assert.Equal(t, Cell{X: 1, Y: 1, Width: 1}, c)
}

func TestLayoutNewlinesAndDiagrams(t *testing.T) {
	seq := build(t,
		unit.Section{Modality: unit.Type, Tokens: chars("ab\nc")},
		unit.Section{Modality: unit.Diagram, Tokens: []string{"A-->B"}},
		unit.Section{Modality: unit.Listen, Tokens: chars("d")},
	)
	l := NewLayout(seq, 10)

	// row 0: a b \n, row 1: c, row 2: diagram, row 3: d
	assert.Equal(t, 4, l.Rows())
	assert.Equal(t, []int{0, 1, 2}, l.Row(0))
	assert.Equal(t, []int{3}, l.Row(1))
	assert.Equal(t, []int{4}, l.Row(2))
	assert.Equal(t, []int{5}, l.Row(3))

	c, _ := l.Cell(4)
	assert.Equal(t, Cell{X: 0, Y: 2, Width: 5}, c)

	id, ok := l.UnitAt(3, 2)
	require.True(t, ok)
	assert.Equal(t, 4, id)
	_, ok = l.UnitAt(7, 2)
	assert.False(t, ok)
}

func TestLayoutWideGraphemes(t *testing.T) {
	seq := build(t, unit.Section{Modality: unit.Type, Tokens: []string{"日", "本", "x"}})
	l := NewLayout(seq, 4)
	c, _ := l.Cell(1)
	assert.Equal(t, Cell{X: 2, Y: 0, Width: 2}, c)
	c, _ = l.Cell(2)
	assert.Equal(t, Cell{X: 0, Y: 1, Width: 1}, c)
}

func TestViewDraw(t *testing.T) {
	s := simScreen(t, 40, 4)
	seq := build(t,
		unit.Section{Modality: unit.Type, Tokens: chars("Hi")},
		unit.Section{Modality: unit.Diagram, Tokens: []string{"graph TD"}},
	)
	eng := engine.New(seq, engine.WithThrottle(0))
	require.NoError(t, eng.HandleKey(context.Background(), key.NewRuneEvent('H', key.ModShift)))
	require.NoError(t, eng.HandleKey(context.Background(), key.NewRuneEvent('x', key.ModNone)))

	theme := DefaultTheme()
	v := NewView(s, theme)
	v.Draw(Frame{Title: "t", Seq: seq, State: eng.Snapshot(), Stats: eng.Stats()})

	assert.Equal(t, "Hi", rowText(s, 0))
	assert.Equal(t, "graph TD", rowText(s, 1))
	assert.Contains(t, rowText(s, 3), "2/2")
	assert.Contains(t, rowText(s, 3), "50% correct")
	assert.Contains(t, rowText(s, 3), "[complete]")

	_, _, style, _ := s.GetContent(0, 0)
	assert.Equal(t, theme.Correct, style)
	_, _, style, _ = s.GetContent(1, 0)
	assert.Equal(t, theme.Incorrect, style)
	_, _, style, _ = s.GetContent(0, 1)
	assert.Equal(t, theme.Diagram, style)
}

func TestViewHighlightsCursor(t *testing.T) {
	s := simScreen(t, 20, 3)
	seq := build(t, unit.Section{Modality: unit.Listen, Tokens: chars("ab")})
	eng := engine.New(seq)

	theme := DefaultTheme()
	v := NewView(s, theme)
	v.Draw(Frame{Seq: seq, State: eng.Snapshot(), Stats: eng.Stats()})

	_, _, style, _ := s.GetContent(0, 0)
	assert.Equal(t, theme.Listen.Reverse(true), style)
	_, _, style, _ = s.GetContent(1, 0)
	assert.Equal(t, theme.Listen, style)

	id, ok := v.UnitAt(1, 0)
	require.True(t, ok)
	assert.Equal(t, 1, id)
	_, ok = v.UnitAt(0, 2)
	assert.False(t, ok, "status line holds no units")
}

func TestViewScrollsToCursor(t *testing.T) {
	s := simScreen(t, 2, 3)
	seq := build(t, unit.Section{Modality: unit.Type, Tokens: chars("abcdef")})
	eng := engine.New(seq, engine.WithResume(5))

	v := NewView(s, DefaultTheme())
	v.Draw(Frame{Seq: seq, State: eng.Snapshot(), Stats: eng.Stats()})

	// rows: ab cd ef, body of two rows shows the cursor row last
	assert.Equal(t, "cd", rowText(s, 0))
	assert.Equal(t, "ef", rowText(s, 1))
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Event
		ok   bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), key.Event{Key: key.KeyRune, Rune: 'a'}, true},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), key.Event{Key: key.KeyRune, Rune: 'A', Modifiers: key.ModShift}, true},
		{"upper rune without shift", tcell.NewEventKey(tcell.KeyRune, 'B', tcell.ModNone), key.Event{Key: key.KeyRune, Rune: 'B', Modifiers: key.ModShift}, true},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), key.Event{Key: key.KeyTab}, true},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), key.Event{Key: key.KeyTab, Modifiers: key.ModShift}, true},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.Event{Key: key.KeyBackspace}, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.Event{Key: key.KeyEnter}, true},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), key.Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertKey(tt.ev)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.True(t, tt.want.Equals(got), "got %v", got)
			assert.Equal(t, tt.ev.When(), got.Timestamp)
		})
	}
}

func runUI(t *testing.T, s tcell.SimulationScreen, sess Session) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	ch := make(chan error, 1)
	u := New(s, sess)
	go func() { ch <- u.Run(ctx) }()
	t.Cleanup(cancelCtx)
	return cancelCtx, ch
}

func TestUITypesAndQuits(t *testing.T) {
	s := simScreen(t, 20, 3)
	seq := build(t, unit.Section{Modality: unit.Type, Tokens: chars("Hi")})
	sess := &session{eng: engine.New(seq, engine.WithThrottle(0))}
	_, done := runUI(t, s, sess)

	s.InjectKey(tcell.KeyRune, 'H', tcell.ModShift)
	require.Eventually(t, func() bool { return sess.Engine().Cursor().ID() == 1 }, time.Second, 5*time.Millisecond)
	s.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	require.Eventually(t, sess.Engine().Complete, time.Second, 5*time.Millisecond)

	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("UI did not quit")
	}
	assert.Equal(t, 2, sess.Engine().Stats().Correct)
}

func TestUIArrowsAndClicks(t *testing.T) {
	s := simScreen(t, 20, 3)
	seq := build(t, unit.Section{Modality: unit.Type, Tokens: chars("abc")})
	sess := &session{eng: engine.New(seq)}
	cancel, done := runUI(t, s, sess)

	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	require.Eventually(t, func() bool { return sess.Engine().Cursor().ID() == 1 }, time.Second, 5*time.Millisecond)

	s.InjectMouse(2, 0, tcell.Button1, tcell.ModNone)
	require.Eventually(t, func() bool { return sess.Engine().Cursor().ID() == 2 }, time.Second, 5*time.Millisecond)

	s.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	require.Eventually(t, func() bool { return sess.Engine().Cursor().ID() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("UI did not stop on cancel")
	}
}

func TestUIDropsKeysTypedDuringPlayback(t *testing.T) {
	s := simScreen(t, 20, 3)
	seq := build(t,
		unit.Section{Modality: unit.Listen, Tokens: chars("ab")},
		unit.Section{Modality: unit.Type, Tokens: chars("cd")},
	)
	sess := &session{eng: engine.New(seq, engine.WithThrottle(0))}
	u := New(s, sess)

	// queued behind the Listen key before the worker picks it up
	u.submit(key.NewRuneEvent('x', key.ModNone))
	u.submit(key.NewRuneEvent('c', key.ModNone))
	u.submit(key.NewRuneEvent('d', key.ModNone))

	u.done.Add(1)
	go u.work(context.Background())
	require.Eventually(t, func() bool { return len(u.keys) == 0 }, time.Second, 5*time.Millisecond)

	u.submit(key.NewRuneEvent('c', key.ModNone))
	close(u.keys)
	u.done.Wait()

	eng := sess.Engine()
	assert.True(t, eng.Mark(0).Committed)
	assert.True(t, eng.Mark(2).Committed, "key after playback applies")
	assert.False(t, eng.Mark(3).Committed, "keys typed during playback are dropped")
	assert.Equal(t, 3, eng.Cursor().ID())
}
