package host

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Loop is the server thread: one goroutine running queued tasks in order
type Loop struct {
	mu       sync.Mutex
	pending  []func()
	closed   bool
	wake     chan struct{}
	inFlight sync.WaitGroup
	logger   zerolog.Logger
}

// NewLoop creates a loop; call Run to start processing
func NewLoop(logger zerolog.Logger) *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Execute queues task and returns without waiting for it. Tasks handed to a
// stopped loop are dropped.
func (l *Loop) Execute(task func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Warn().Msg("Server loop stopped, dropping task")
		return
	}
	l.pending = append(l.pending, task)
	l.inFlight.Add(1)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled. Tasks still queued at that
// point are dropped and the loop cannot be restarted.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.close()
			return ctx.Err()
		case <-l.wake:
			if ctx.Err() != nil {
				l.close()
				return ctx.Err()
			}
			for _, task := range l.drain() {
				l.run(task)
			}
		}
	}
}

// Drain blocks until every task queued so far, and any task those queue,
// has run or been dropped. Run must have been started in another goroutine.
func (l *Loop) Drain() {
	l.inFlight.Wait()
}

func (l *Loop) close() {
	l.mu.Lock()
	l.closed = true
	dropped := l.pending
	l.pending = nil
	l.mu.Unlock()

	if len(dropped) > 0 {
		l.logger.Warn().Int("tasks", len(dropped)).Msg("Server loop stopped with tasks queued")
	}
	for range dropped {
		l.inFlight.Done()
	}
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	tasks := l.pending
	l.pending = nil
	return tasks
}

func (l *Loop) run(task func()) {
	defer l.inFlight.Done()
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("Server task panicked")
		}
	}()
	task()
}
