package host

import (
	"sync"

	"github.com/rs/zerolog"
)

// DimensionID identifies a dimension, e.g. "minecraft:the_end"
type DimensionID string

// Server is the handle a dimension listener receives
type Server interface {
	// WorldDir is the root directory of the active save
	WorldDir() string

	// LevelName is the active save's name, for logs
	LevelName() string

	// Execute schedules task on the server thread and returns immediately
	Execute(task func())

	// Dispatch runs one command. It must be called on the server thread.
	Dispatch(command string) error
}

// DimensionLoadListener is called each time a dimension becomes active
type DimensionLoadListener func(server Server, dim DimensionID)

// EventBus delivers dimension-load events to registered listeners
type EventBus struct {
	mu        sync.RWMutex
	listeners []DimensionLoadListener
	logger    zerolog.Logger
}

// NewEventBus creates an empty bus
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{logger: logger}
}

// OnDimensionLoad registers a listener
func (b *EventBus) OnDimensionLoad(listener DimensionLoadListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

// Len returns the number of registered listeners
func (b *EventBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Publish calls every listener in registration order on the caller's
// goroutine. A panicking listener is logged and does not stop the others.
func (b *EventBus) Publish(server Server, dim DimensionID) {
	b.mu.RLock()
	listeners := make([]DimensionLoadListener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	b.logger.Debug().
		Str("dimension", string(dim)).
		Str("world", server.WorldDir()).
		Int("listeners", len(listeners)).
		Msg("Dimension loaded")

	for _, listener := range listeners {
		b.call(listener, server, dim)
	}
}

func (b *EventBus) call(listener DimensionLoadListener, server Server, dim DimensionID) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("dimension", string(dim)).
				Msg("Dimension listener panicked")
		}
	}()
	listener(server, dim)
}
