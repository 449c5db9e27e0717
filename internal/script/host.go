package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/event"
	"github.com/dshills/sensetype/internal/event/topic"
)

// Hook names.
const (
	HookCommit   = "on_commit"
	HookCursor   = "on_cursor"
	HookComplete = "on_complete"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 250 * time.Millisecond

// Host owns one sandboxed Lua state.
//
// gopher-lua states are not goroutine-safe; every call goes through mu.
type Host struct {
	mu      sync.Mutex
	L       *lua.LState
	logger  *zap.Logger
	timeout time.Duration
	closed  bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger that sensetype.log and hook failures write to.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTimeout bounds each hook call.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// New creates a host with an empty sandboxed state.
func New(opts ...Option) *Host {
	h := &Host{
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.L.SetGlobal("sensetype", h.L.SetFuncs(h.L.NewTable(), map[string]lua.LGFunction{
		"log": h.luaLog,
	}))
	return h
}

func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// LoadFile runs the script at path to define its hooks.
func (h *Host) LoadFile(path string) error {
	return h.do(func() error { return h.L.DoFile(path) })
}

// LoadString runs code to define hooks.
func (h *Host) LoadString(code string) error {
	return h.do(func() error { return h.L.DoString(code) })
}

func (h *Host) do(fn func() error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Has reports whether the script defines hook.
func (h *Host) Has(hook string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	return h.L.GetGlobal(hook).Type() == lua.LTFunction
}

// Call invokes hook with args. A hook the script does not define is a
// no-op.
func (h *Host) Call(hook string, args ...lua.LValue) error {
	return h.do(func() error {
		fn := h.L.GetGlobal(hook)
		switch fn.Type() {
		case lua.LTNil:
			return nil
		case lua.LTFunction:
		default:
			return fmt.Errorf("%w: %s is %s", ErrNotFunction, hook, fn.Type())
		}
		return h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	})
}

// OnCommit calls on_commit(id, content, correct).
func (h *Host) OnCommit(id int, content string, correct bool) error {
	return h.Call(HookCommit, lua.LNumber(id), lua.LString(content), lua.LBool(correct))
}

// OnCursor calls on_cursor(id).
func (h *Host) OnCursor(id int) error {
	return h.Call(HookCursor, lua.LNumber(id))
}

// OnComplete calls on_complete(stats).
func (h *Host) OnComplete(c event.Completed) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	t := h.L.NewTable()
	t.RawSetString("units", lua.LNumber(c.Units))
	t.RawSetString("committed", lua.LNumber(c.Committed))
	t.RawSetString("correct", lua.LNumber(c.Correct))
	t.RawSetString("incorrect", lua.LNumber(c.Incorrect))
	h.mu.Unlock()

	return h.Call(HookComplete, t)
}

// Attach subscribes the hooks to engine events on bus. The returned func
// detaches them.
func (h *Host) Attach(bus *event.Bus) (func(), error) {
	var subs []*event.Subscription
	detach := func() {
		for _, s := range subs {
			_ = bus.Unsubscribe(s)
		}
	}

	add := func(name string, t topicHandler) error {
		if !h.Has(name) {
			return nil
		}
		s, err := bus.Subscribe(t.topic, t.fn)
		if err != nil {
			return err
		}
		subs = append(subs, s)
		return nil
	}

	for name, t := range map[string]topicHandler{
		HookCommit:   {event.TopicUnitCommitted, h.commitHandler},
		HookCursor:   {event.TopicCursorMoved, h.cursorHandler},
		HookComplete: {event.TopicCompleted, h.completeHandler},
	} {
		if err := add(name, t); err != nil {
			detach()
			return nil, err
		}
	}
	return detach, nil
}

func (h *Host) commitHandler(_ context.Context, env event.Envelope) error {
	c, ok := event.PayloadAs[event.UnitCommitted](env)
	if !ok {
		return nil
	}
	return h.OnCommit(c.Unit, c.Content, c.Correct)
}

func (h *Host) cursorHandler(_ context.Context, env event.Envelope) error {
	c, ok := event.PayloadAs[event.CursorMoved](env)
	if !ok {
		return nil
	}
	return h.OnCursor(c.Unit)
}

func (h *Host) completeHandler(_ context.Context, env event.Envelope) error {
	c, ok := event.PayloadAs[event.Completed](env)
	if !ok {
		return nil
	}
	return h.OnComplete(c)
}

// luaLog implements sensetype.log(level, message).
func (h *Host) luaLog(L *lua.LState) int {
	level := L.CheckString(1)
	msg := L.CheckString(2)
	switch level {
	case "debug":
		h.logger.Debug(msg)
	case "warn":
		h.logger.Warn(msg)
	case "error":
		h.logger.Error(msg)
	default:
		h.logger.Info(msg)
	}
	return 0
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.L.Close()
}

type topicHandler struct {
	topic topic.Topic
	fn    event.Handler
}
