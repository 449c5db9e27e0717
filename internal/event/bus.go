package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/sensetype/internal/event/topic"
)

// Handler processes one event.
type Handler func(ctx context.Context, env Envelope) error

// Subscription is a registered handler.
type Subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	once    bool
	active  atomic.Bool
}

// ID returns the unique subscription id.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed pattern.
func (s *Subscription) Topic() topic.Topic { return s.pattern }

// IsActive reports whether the subscription still receives events.
func (s *Subscription) IsActive() bool { return s.active.Load() }

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// Once cancels the subscription after its first delivery.
func Once() SubscriptionOption {
	return func(s *Subscription) { s.once = true }
}

// Stats counts bus activity.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerErrors uint64
	Panics        uint64
	Subscriptions int
}

// Bus delivers events synchronously to matching subscriptions.
//
// Thread-safety: All methods are safe for concurrent use. Handlers may
// subscribe and unsubscribe from inside a delivery.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	logger *zap.Logger
	closed atomic.Bool

	published     atomic.Uint64
	delivered     atomic.Uint64
	handlerErrors atomic.Uint64
	panics        atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used for handler failures.
func WithLogger(logger *zap.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for topics matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, h Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	if !pattern.Valid() {
		return nil, ErrInvalidTopic
	}
	if h == nil {
		return nil, ErrNilHandler
	}

	sub := &Subscription{id: uuid.NewString(), pattern: pattern, handler: h}
	for _, opt := range opts {
		opt(sub)
	}
	sub.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil || !sub.active.Swap(false) {
		return ErrSubscriptionNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
	return nil
}

// Publish delivers env to every matching subscription. Handler failures
// are joined into the returned error; delivery continues regardless.
func (b *Bus) Publish(ctx context.Context, env Envelope) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	if !env.Topic.Valid() || env.Topic.IsPattern() {
		return ErrInvalidTopic
	}
	b.published.Add(1)

	b.mu.RLock()
	matched := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if env.Topic.Matches(s.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, s := range matched {
		if !s.active.Load() {
			continue
		}
		if s.once {
			_ = b.Unsubscribe(s)
		}
		if err := b.deliver(ctx, s, env); err != nil {
			errs = append(errs, err)
			continue
		}
		b.delivered.Add(1)
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, s *Subscription, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			err = &PanicError{SubscriptionID: s.id, Topic: env.Topic.String(), Value: r}
			b.logger.Error("event handler panicked",
				zap.String("topic", env.Topic.String()),
				zap.Any("panic", r))
		}
	}()

	if herr := s.handler(ctx, env); herr != nil {
		b.handlerErrors.Add(1)
		b.logger.Warn("event handler failed",
			zap.String("topic", env.Topic.String()),
			zap.Error(herr))
		return &HandlerError{SubscriptionID: s.id, Topic: env.Topic.String(), Err: herr}
	}
	return nil
}

// Publish creates a typed event and delivers it on b.
func Publish[T any](ctx context.Context, b *Bus, t topic.Topic, payload T, source string) error {
	return b.Publish(ctx, NewEvent(t, payload, source).Envelope())
}

// Stats returns delivery counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subs)
	b.mu.RUnlock()
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerErrors: b.handlerErrors.Load(),
		Panics:        b.panics.Load(),
		Subscriptions: n,
	}
}

// Close drops all subscriptions and rejects further use.
func (b *Bus) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	b.mu.Lock()
	for _, s := range b.subs {
		s.active.Store(false)
	}
	b.subs = nil
	b.mu.Unlock()
}
