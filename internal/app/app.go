package app

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/config"
	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/engine/audio"
	"github.com/dshills/sensetype/internal/event"
	"github.com/dshills/sensetype/internal/event/topic"
	"github.com/dshills/sensetype/internal/exercise"
	"github.com/dshills/sensetype/internal/input/throttle"
	"github.com/dshills/sensetype/internal/logging"
	"github.com/dshills/sensetype/internal/progress"
	"github.com/dshills/sensetype/internal/script"
	"github.com/dshills/sensetype/internal/watch"
)

// Application is one exercise session. It owns every component and
// replaces the engine when the exercise file changes.
type Application struct {
	mu sync.RWMutex

	// Current content
	exercise *exercise.Exercise
	engine   *engine.Engine

	// Core infrastructure
	cfg    config.Config
	logger *zap.Logger
	bus    *event.Bus

	// Audio
	player   audio.Player
	timeline *audio.Timeline

	// Optional components, nil when disabled
	store        *progress.Store
	host         *script.Host
	detachScript func()
	watcher      *watch.Watcher

	saver   *throttle.Debouncer[progress.Record]
	refresh atomic.Pointer[func()]

	running atomic.Bool
	closed  atomic.Bool
	opts    Options
}

// Options configures the application.
type Options struct {
	// Path is the exercise file.
	Path string

	// Config holds the loaded settings.
	Config config.Config

	// Logger is the root logger. Defaults to a no-op logger.
	Logger *zap.Logger

	// Player overrides the player chosen from Config.Audio.
	Player audio.Player

	// Fresh ignores saved progress.
	Fresh bool

	// Headless disables file watching and key throttling, for scripted
	// replays.
	Headless bool
}

// New loads the exercise and starts every configured component.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{
		cfg:    opts.Config,
		logger: opts.Logger,
		opts:   opts,
	}
	if app.logger == nil {
		app.logger = zap.NewNop()
	}

	if err := app.bootstrap(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(ctx context.Context) error {
	// 1. Event bus
	app.bus = event.NewBus(event.WithLogger(logging.Component(app.logger, "event")))
	trace := logging.Component(app.logger, "trace")
	if _, err := app.bus.Subscribe(topic.AnyDepth, func(_ context.Context, env event.Envelope) error {
		trace.Debug("event", zap.String("topic", env.Topic.String()), zap.Any("payload", env.Payload))
		return nil
	}); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}

	// 2. Progress store
	if path := app.cfg.Progress.Path; path != "" {
		store, err := progress.Open(ctx, path)
		if err != nil {
			return &InitError{Component: "progress", Err: err}
		}
		app.store = store
	}
	app.saver = throttle.NewDebouncer(app.cfg.Progress.SaveDelay.Duration, app.save)

	// 3. Script hooks
	if path := app.cfg.Script.Path; path != "" {
		host := script.New(script.WithLogger(logging.Component(app.logger, "script")))
		app.host = host
		if err := host.LoadFile(path); err != nil {
			return &InitError{Component: "script", Err: err}
		}
		detach, err := host.Attach(app.bus)
		if err != nil {
			return &InitError{Component: "script", Err: err}
		}
		app.detachScript = detach
	}

	// 4. Audio
	player, err := app.newPlayer()
	if err != nil {
		return &InitError{Component: "audio", Err: err}
	}
	app.player = player
	audioLog := logging.Component(app.logger, "audio")
	app.timeline = audio.NewTimeline(player,
		audio.WithLogger(audioLog),
		audio.WithLoader(audio.NewLoader(audio.WithCacheDir(app.cfg.Audio.CacheDir))),
	)

	// 5. Content and engine
	if err := app.load(ctx, false); err != nil {
		return err
	}

	// 6. Hot reload
	if app.cfg.Watch.Enabled && !app.opts.Headless {
		w, err := watch.New(app.onFileChange,
			watch.WithDelay(app.cfg.Watch.Delay.Duration),
			watch.WithLogger(logging.Component(app.logger, "watch")),
		)
		if err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		app.watcher = w
		app.watchFiles()
	}
	return nil
}

func (app *Application) newPlayer() (audio.Player, error) {
	if app.opts.Player != nil {
		return app.opts.Player, nil
	}
	opts := []audio.ClockOption{
		audio.WithTick(app.cfg.Audio.Tick.Duration),
		audio.WithRate(app.cfg.Audio.Rate),
	}
	if len(app.cfg.Audio.Command) > 0 {
		return audio.NewCommandPlayer(app.cfg.Audio.Command, logging.Component(app.logger, "player"), opts...)
	}
	return audio.NewClockPlayer(opts...), nil
}

// watchFiles tracks the exercise and its local timestamp file.
func (app *Application) watchFiles() {
	x := app.Exercise()
	for _, path := range []string{x.Path, x.Timestamps} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := app.watcher.Add(path); err != nil {
			app.logger.Warn("watch failed", zap.String("path", path), zap.Error(err))
		}
	}
}

func (app *Application) onFileChange(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	app.logger.Info("exercise changed", zap.String("path", path))
	if err := app.Reload(ctx); err != nil {
		app.logger.Warn("reload failed", zap.Error(err))
	}
}

// Engine returns the current engine.
func (app *Application) Engine() *engine.Engine {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.engine
}

// Exercise returns the current exercise.
func (app *Application) Exercise() *exercise.Exercise {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.exercise
}

// Title returns the exercise title, falling back to the file name.
func (app *Application) Title() string {
	x := app.Exercise()
	if x == nil {
		return ""
	}
	if x.Title != "" {
		return x.Title
	}
	return x.Path
}

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Timeline returns the audio timeline.
func (app *Application) Timeline() *audio.Timeline {
	return app.timeline
}

// Progress returns the progress store, or nil when persistence is off.
func (app *Application) Progress() *progress.Store {
	return app.store
}

// OnRefresh sets the callback run after every engine change, used by the
// presentation layer to redraw.
func (app *Application) OnRefresh(fn func()) {
	app.refresh.Store(&fn)
}

// Close flushes pending progress and shuts components down in reverse
// order.
func (app *Application) Close() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.saver != nil {
		app.saver.Flush()
	}
	if app.detachScript != nil {
		app.detachScript()
	}
	if app.host != nil {
		app.host.Close()
	}

	app.mu.Lock()
	eng := app.engine
	app.mu.Unlock()
	if eng != nil {
		eng.Close()
	}
	if app.timeline != nil {
		_ = app.timeline.Close()
	}
	if app.store != nil {
		_ = app.store.Close()
	}
	if app.bus != nil {
		app.bus.Close()
	}
	_ = app.logger.Sync()
}
