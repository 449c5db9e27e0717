package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/input/key"
)

// Session is the exercise being presented. The engine behind it may be
// replaced between calls when the exercise reloads.
type Session interface {
	Engine() *engine.Engine
	Title() string
}

// UI runs the terminal event loop for one session.
type UI struct {
	screen  tcell.Screen
	view    *View
	session Session
	logger  *zap.Logger

	keys      chan queued
	submitted atomic.Uint64
	done      sync.WaitGroup
}

// queued is a key waiting for the worker, numbered in submit order.
type queued struct {
	ev  key.Event
	seq uint64
}

// Option configures a UI.
type Option func(*UI)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(u *UI) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithTheme replaces the default styles.
func WithTheme(t Theme) Option {
	return func(u *UI) {
		u.view.theme = t
	}
}

// New creates a UI over an initialized screen. The caller owns the screen
// and finalizes it after Run returns.
func New(screen tcell.Screen, s Session, opts ...Option) *UI {
	u := &UI{
		screen:  screen,
		view:    NewView(screen, DefaultTheme()),
		session: s,
		logger:  zap.NewNop(),
		keys:    make(chan queued, 64),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// NewScreen creates and initializes a terminal screen with mouse support.
func NewScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.EnableMouse()
	return s, nil
}

// Refresh schedules a redraw. It is safe to call from any goroutine.
func (u *UI) Refresh() {
	_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run processes terminal events until the user quits or ctx is done.
func (u *UI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		close(u.keys)
		u.done.Wait()
	}()

	u.done.Add(1)
	go u.work(ctx)

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go u.screen.ChannelEvents(events, quit)

	u.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if u.handle(ev) {
				return nil
			}
		}
	}
}

// handle reacts to one event and reports whether the user quit.
func (u *UI) handle(ev tcell.Event) bool {
	eng := u.session.Engine()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyCtrlP:
			eng.Pause()
		case tcell.KeyLeft:
			eng.MoveCursor(false)
		case tcell.KeyRight:
			eng.MoveCursor(true)
		default:
			if ke, ok := ConvertKey(ev); ok {
				u.submit(ke)
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return false
		}
		x, y := ev.Position()
		if id, ok := u.view.UnitAt(x, y); ok {
			if err := eng.SetCursor(id); err != nil {
				u.logger.Debug("click ignored", zap.Int("unit", id), zap.Error(err))
			}
		}

	case *tcell.EventResize:
		u.screen.Sync()
	}
	u.draw()
	return false
}

// submit queues ev for the worker.
func (u *UI) submit(ev key.Event) {
	q := queued{ev: ev, seq: u.submitted.Add(1)}
	select {
	case u.keys <- q:
	default:
		u.logger.Debug("key queue full", zap.Stringer("key", ev))
	}
}

func (u *UI) listening(eng *engine.Engine) bool {
	id, ok := eng.Cursor().Unit()
	if !ok {
		return false
	}
	un, ok := eng.Sequence().Unit(id)
	return ok && un.Modality == unit.Listen
}

// work applies queued keys in order. Keys submitted while a Listen span
// was playing are dropped once it ends, as the engine would have dropped
// them had they arrived during playback.
func (u *UI) work(ctx context.Context) {
	defer u.done.Done()
	var stale uint64
	for q := range u.keys {
		if q.seq <= stale {
			u.logger.Debug("key dropped after playback", zap.Stringer("key", q.ev))
			continue
		}
		eng := u.session.Engine()
		playback := !q.ev.IsBackspace() && u.listening(eng)
		err := eng.HandleKey(ctx, q.ev)
		if playback && err == nil {
			stale = u.submitted.Load()
		}
		switch {
		case err == nil,
			errors.Is(err, engine.ErrBusy),
			errors.Is(err, engine.ErrThrottled),
			errors.Is(err, context.Canceled):
		default:
			u.logger.Warn("key failed", zap.Stringer("key", q.ev), zap.Error(err))
		}
		u.Refresh()
	}
}

func (u *UI) draw() {
	eng := u.session.Engine()
	u.view.Draw(Frame{
		Title: u.session.Title(),
		Seq:   eng.Sequence(),
		State: eng.Snapshot(),
		Stats: eng.Stats(),
	})
}
