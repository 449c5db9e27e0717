package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/input/key"
	"github.com/dshills/sensetype/internal/logging"
	"github.com/dshills/sensetype/internal/tui"
)

// Run presents the session in the terminal until the user quits or ctx is
// done.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	screen, err := tui.NewScreen()
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer screen.Fini()

	ui := tui.New(screen, app, tui.WithLogger(logging.Component(app.logger, "tui")))
	app.OnRefresh(ui.Refresh)
	defer app.OnRefresh(func() {})

	return ui.Run(ctx)
}

// Replay feeds keys to the engine one at a time, as a headless host would,
// and returns the resulting state. Reentrant and throttled keys are
// skipped; any other engine error stops the replay.
func (app *Application) Replay(ctx context.Context, keys *key.Sequence) (engine.State, error) {
	if !app.running.CompareAndSwap(false, true) {
		return engine.State{}, ErrAlreadyRunning
	}
	defer app.running.Store(false)

	eng := app.Engine()
	for i, ev := range keys.Events {
		var err error
		switch ev.Key {
		case key.KeyLeft:
			eng.MoveCursor(false)
		case key.KeyRight:
			eng.MoveCursor(true)
		default:
			err = eng.HandleKey(ctx, ev)
		}
		switch {
		case err == nil:
		case errors.Is(err, engine.ErrBusy), errors.Is(err, engine.ErrThrottled):
			app.logger.Debug("replay key skipped", zap.Int("index", i), zap.Stringer("key", ev), zap.Error(err))
		default:
			return eng.Snapshot(), fmt.Errorf("key %d (%s): %w", i, ev, err)
		}
	}
	app.Save()
	return eng.Snapshot(), nil
}
