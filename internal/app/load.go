package app

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/engine/audio"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/event"
	"github.com/dshills/sensetype/internal/event/topic"
	"github.com/dshills/sensetype/internal/exercise"
	"github.com/dshills/sensetype/internal/logging"
)

const source = "app"

// Reload rebuilds the engine from the exercise file. The old engine is
// closed, never mutated. Progress of the old engine is flushed first.
func (app *Application) Reload(ctx context.Context) error {
	if app.closed.Load() {
		return ErrClosed
	}
	app.saver.Flush()
	if err := app.load(ctx, true); err != nil {
		return err
	}
	app.notify()
	return nil
}

// load reads the exercise, then fetches its timestamps, saved progress and
// audio concurrently before swapping in a new engine.
func (app *Application) load(ctx context.Context, reload bool) error {
	op := "load"
	if reload {
		op = "reload"
	}
	path := app.opts.Path

	x, err := exercise.Load(path)
	if err != nil {
		return opError(op, path, err)
	}
	seq, err := x.Build()
	if err != nil {
		return opError(op, path, err)
	}

	app.mu.RLock()
	prev, prevEngine := app.exercise, app.engine
	app.mu.RUnlock()

	var (
		stamps []audio.Timestamp
		offset = -1
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := x.LoadTimestamps()
		if err != nil {
			return opError("timestamps", x.Timestamps, err)
		}
		stamps = s
		return nil
	})

	switch {
	case app.opts.Fresh:
	case prev != nil && prev.ID == x.ID && prevEngine != nil:
		// Same content, only metadata changed: keep the cursor.
		offset = prevEngine.Offset()
	case app.store != nil:
		g.Go(func() error {
			rec, ok, err := app.store.Load(gctx, x.ID)
			if err != nil {
				return opError("progress", x.ID, err)
			}
			if ok {
				offset = rec.Offset
			}
			return nil
		})
	}

	if x.Audio != "" && (prev == nil || prev.Audio != x.Audio) {
		fut := app.timeline.Load(ctx, x.Audio)
		g.Go(func() error {
			app.awaitAudio(gctx, x.Audio, fut)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	eng := app.newEngine(x, seq, offset)

	app.mu.Lock()
	old := app.engine
	app.exercise, app.engine = x, eng
	app.mu.Unlock()
	if old != nil {
		old.Close()
	}
	app.timeline.SetTimestamps(stamps)

	app.logger.Info("exercise loaded",
		zap.String("id", x.ID),
		zap.String("path", x.Path),
		zap.Int("units", seq.Len()),
		zap.Int("resume", offset),
		zap.Bool("reload", reload))
	publish(ctx, app, event.TopicExerciseLoaded, event.ExerciseLoaded{
		ID:     x.ID,
		Title:  x.Title,
		Path:   x.Path,
		Units:  seq.Len(),
		Reload: reload,
	})
	return nil
}

func (app *Application) newEngine(x *exercise.Exercise, seq *unit.Sequence, offset int) *engine.Engine {
	window := app.cfg.Input.Throttle.Duration
	if app.opts.Headless {
		window = 0
	}

	var eng *engine.Engine
	opts := []engine.Option{
		engine.WithTimeline(app.timeline),
		engine.WithThrottle(window),
		engine.WithLogger(logging.Component(app.logger, "engine")),
		engine.WithObserver(func(c engine.Change) { app.observe(eng, x, c) }),
	}
	if offset > 0 {
		opts = append(opts, engine.WithResume(offset))
	}
	eng = engine.New(seq, opts...)
	return eng
}

func (app *Application) awaitAudio(ctx context.Context, src string, fut *audio.Future) {
	if err := fut.Wait(ctx); err != nil {
		publish(ctx, app, event.TopicAudioFailed, event.AudioStatus{Source: src, Err: err})
		return
	}
	publish(ctx, app, event.TopicAudioReady, event.AudioStatus{Source: src})
}

// publish delivers an event. Handler failures are already logged by the
// bus and never stop the session.
func publish[T any](ctx context.Context, app *Application, t topic.Topic, payload T) {
	if err := event.Publish(ctx, app.bus, t, payload, source); err != nil {
		app.logger.Debug("publish failed", zap.String("topic", t.String()), zap.Error(err))
	}
}
