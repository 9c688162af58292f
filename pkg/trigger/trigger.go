// Package trigger fires the deferred end-island reset once a repaired
// world's end dimension is loaded again.
package trigger

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/host"
	"github.com/arthur-debert/endfix/pkg/logging"
	"github.com/arthur-debert/endfix/pkg/paths"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/rs/zerolog"
)

// Trigger reacts to dimension loads for worlds that carry a reset marker
type Trigger struct {
	fs             types.FS
	target         host.DimensionID
	layout         paths.Layout
	command        string
	retryOnFailure bool
	logger         zerolog.Logger

	mu        sync.Mutex
	scheduled map[string]bool
}

// New creates a Trigger from the fix and trigger configuration
func New(fsys types.FS, cfg *config.Config, logger zerolog.Logger) *Trigger {
	return &Trigger{
		fs:             fsys,
		target:         host.DimensionID(cfg.Fix.Dimension),
		layout:         cfg.Layout(),
		command:        cfg.Trigger.Command,
		retryOnFailure: cfg.Trigger.RetryOnFailure,
		logger:         logger,
		scheduled:      map[string]bool{},
	}
}

// Register subscribes the trigger to dimension loads on bus
func (t *Trigger) Register(bus *host.EventBus) {
	bus.OnDimensionLoad(t.OnDimensionLoad)
	t.logger.Info().Str("dimension", string(t.target)).Msg("Registered dimension load listener")
}

// OnDimensionLoad checks for a marker on the calling goroutine, then hands
// the command and the marker removal to the server thread. A marker that
// already has a task queued is not scheduled again.
func (t *Trigger) OnDimensionLoad(server host.Server, dim host.DimensionID) {
	if dim != t.target {
		return
	}

	worldDir := server.WorldDir()
	logger := logging.ForWorld(t.logger, worldDir)
	marker := t.layout.MarkerFile(worldDir)

	pending, err := filesystem.Exists(t.fs, marker)
	if err != nil {
		logger.Warn().Err(err).Str("marker", marker).Msg("Cannot check reset marker")
		return
	}
	if !pending {
		return
	}

	if !t.claim(marker) {
		logger.Debug().Str("marker", marker).Msg("Reset already scheduled")
		return
	}

	logger.Info().Str("save", server.LevelName()).Msg("Detected end island reset marker, scheduling reset")
	server.Execute(func() {
		defer t.release(marker)
		t.fire(server, marker, logger)
	})
}

// fire runs on the server thread
func (t *Trigger) fire(server host.Server, marker string, logger zerolog.Logger) {
	err := dispatch(server, t.command)
	if err != nil {
		logger.Error().Err(err).Str("command", t.command).Msg("Reset command failed")
		if t.retryOnFailure {
			logger.Warn().Str("marker", marker).Msg("Keeping marker; reset will be retried on next load")
			return
		}
	} else {
		logger.Info().Str("command", t.command).Msg("Reset command executed")
	}

	removed, err := filesystem.RemoveIfExists(t.fs, marker)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("marker", marker).Msg("Could not delete marker")
	case removed:
		logger.Info().Str("marker", marker).Msg("Deleted marker")
	}
}

// dispatch turns a panicking dispatcher into an error
func dispatch(server host.Server, command string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCommandDispatch, fmt.Sprintf("dispatcher panicked: %v", r))
		}
	}()
	return server.Dispatch(command)
}

func (t *Trigger) claim(marker string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scheduled[marker] {
		return false
	}
	t.scheduled[marker] = true
	return true
}

func (t *Trigger) release(marker string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.scheduled, marker)
}
