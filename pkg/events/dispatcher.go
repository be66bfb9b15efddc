package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/guardkit/guardkit/pkg/logger"
)

// Listener handles a dispatched event.
type Listener func(ctx context.Context, e Event)

// Dispatcher delivers events to interested listeners.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Event)
}

// Bus is a synchronous in-process Dispatcher. Listeners run in registration
// order on the dispatching goroutine; a panicking listener is logged and
// skipped so authentication flows never break on observer failures.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	all       []Listener
	log       *slog.Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithBusLogger sets a custom logger.
func WithBusLogger(log *slog.Logger) BusOption {
	return func(b *Bus) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBus creates an empty event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		listeners: make(map[string][]Listener),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Listen registers a listener for the named event.
func (b *Bus) Listen(name string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], l)
}

// ListenAll registers a listener for every event.
func (b *Bus) ListenAll(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, l)
}

func (b *Bus) Dispatch(ctx context.Context, e Event) {
	b.mu.RLock()
	named := b.listeners[e.Name()]
	all := b.all
	b.mu.RUnlock()

	for _, l := range named {
		b.call(ctx, e, l)
	}
	for _, l := range all {
		b.call(ctx, e, l)
	}
}

func (b *Bus) call(ctx context.Context, e Event, l Listener) {
	defer func() {
		if r := recover(); r != nil {
			b.log.ErrorContext(ctx, "event listener panicked",
				logger.Component("events"),
				logger.Event(e.Name()),
				slog.Any("panic", r),
			)
		}
	}()
	l(ctx, e)
}

// Discard is a Dispatcher that drops every event, used as the default when
// no bus is wired.
type Discard struct{}

func (Discard) Dispatch(context.Context, Event) {}
