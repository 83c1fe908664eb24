package events

import (
	"context"
	"log/slog"
	"sync"
)

// Event is a domain fact carried across module boundaries in process.
type Event interface {
	Name() string
	Fields() map[string]any
}

// Handler consumes one event. Returned errors are logged, not retried.
type Handler func(ctx context.Context, event Event) error

// Publisher is the producer-facing side of the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus fans events out to in-process subscribers. Delivery is asynchronous:
// publishing never blocks the domain operation that raised the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
		logger:      logger,
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[name] = append(b.subscribers[name], h)
	b.logger.Debug("event subscriber registered",
		"event", name,
		"subscribers", len(b.subscribers[name]))
}

func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.subscribers[event.Name()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	for _, h := range handlers {
		go func(h Handler) {
			if err := h(ctx, event); err != nil {
				b.logger.Error("event subscriber failed",
					"event", event.Name(),
					"fields", event.Fields(),
					"error", err)
			}
		}(h)
	}

	return nil
}
