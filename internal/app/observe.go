package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/event"
	"github.com/dshills/sensetype/internal/exercise"
	"github.com/dshills/sensetype/internal/progress"
)

// saveTimeout bounds one progress write.
const saveTimeout = 5 * time.Second

// observe turns engine changes into bus events and schedules a progress
// save. It runs on whichever goroutine mutated the engine, outside the
// engine lock.
func (app *Application) observe(eng *engine.Engine, x *exercise.Exercise, c engine.Change) {
	if eng == nil || app.closed.Load() {
		return
	}
	ctx := context.Background()
	session := eng.Session()

	switch c.Kind {
	case engine.ChangeCursor:
		publish(ctx, app, event.TopicCursorMoved, event.CursorMoved{
			Session: session,
			Unit:    c.Cursor.ID(),
			End:     c.Cursor.IsEnd(),
		})
		app.saver.Call(app.record(eng, x))

	case engine.ChangeCommit:
		u := eng.Sequence().At(c.Unit)
		publish(ctx, app, event.TopicUnitCommitted, event.UnitCommitted{
			Session: session,
			Unit:    c.Unit,
			Content: u.Content,
			Correct: c.Correct,
		})

	case engine.ChangeUncommit:
		publish(ctx, app, event.TopicUnitUncommitted, event.UnitUncommitted{
			Session: session,
			Unit:    c.Unit,
		})

	case engine.ChangeComplete:
		s := eng.Stats()
		publish(ctx, app, event.TopicCompleted, event.Completed{
			Session:   session,
			Units:     s.Units,
			Committed: s.Committed,
			Correct:   s.Correct,
			Incorrect: s.Incorrect,
		})
		app.saver.Call(app.record(eng, x))
	}
	app.notify()
}

func (app *Application) record(eng *engine.Engine, x *exercise.Exercise) progress.Record {
	s := eng.Stats()
	return progress.Record{
		Exercise:  x.ID,
		Title:     x.Title,
		Offset:    eng.Offset(),
		Committed: s.Committed,
		Correct:   s.Correct,
		Incorrect: s.Incorrect,
		Complete:  eng.Complete(),
	}
}

// save persists r. It is the debouncer callback.
func (app *Application) save(r progress.Record) {
	if app.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := app.store.Save(ctx, r); err != nil {
		app.logger.Warn("progress save failed", zap.String("exercise", r.Exercise), zap.Error(err))
		return
	}
	publish(ctx, app, event.TopicProgressSaved, event.ProgressSaved{Exercise: r.Exercise, Offset: r.Offset})
}

// Save writes any pending progress now.
func (app *Application) Save() {
	app.saver.Flush()
}

func (app *Application) notify() {
	if fn := app.refresh.Load(); fn != nil {
		(*fn)()
	}
}
