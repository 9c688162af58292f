package core

import (
	"bufio"
	"context"
	"io"
	"path/filepath"

	"github.com/arthur-debert/endfix/pkg/detector"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/host"
	"github.com/arthur-debert/endfix/pkg/logging"
	"github.com/arthur-debert/endfix/pkg/scanner"
	"github.com/arthur-debert/endfix/pkg/trigger"
	"github.com/rs/zerolog"
)

// Serve runs the startup pass and then acts as the host: each line read from
// in is a dimension load ("<world-dir> <dimension>" or "<dimension>" for the
// default save) and every dispatched command is written to out as a line.
// Relative world directories are taken from the game directory. Serve
// returns when in is exhausted or ctx is cancelled.
func Serve(ctx context.Context, opts Options, in io.Reader, out io.Writer) (*Report, error) {
	if opts.FS == nil || opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "serve needs a filesystem and a configuration")
	}
	logger := logging.GetLogger("core.serve")

	bus := host.NewEventBus(logging.GetLogger("host"))
	opts.Bus = bus
	opts.DryRun = false
	report := Run(opts)

	loop, stop := startLoop(ctx)
	defer stop()

	server := host.NewLocalServer(DefaultWorld(opts), loop, host.NewLineDispatcher(out))
	logger.Info().
		Str("world", server.WorldDir()).
		Bool("listening", bus.Len() > 0).
		Msg("Waiting for dimension loads")

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping host session")
			return report, nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return report, errors.Wrap(err, errors.ErrInternal, "failed to read dimension loads")
				}
				return report, nil
			}
			relay(server, bus, opts.GameDir, line, logger)
			loop.Drain()
		}
	}
}

// relay publishes one activation line on bus
func relay(server *host.LocalServer, bus *host.EventBus, gameDir, line string, logger zerolog.Logger) {
	act, ok, err := host.ParseActivation(line)
	if err != nil {
		logger.Warn().Err(err).Msg("Ignoring line")
		return
	}
	if !ok {
		return
	}

	target := server
	if act.WorldDir != "" {
		dir := act.WorldDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(gameDir, dir)
		}
		target = server.ForWorld(dir)
	}
	bus.Publish(target, act.Dimension)
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. lines is closed at end of input, after the scan error (nil
// on a clean EOF) has been sent on the second channel. Once done is closed
// the goroutine exits at its next line; until then it stays parked in Read.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()
	return lines, errc
}

// Activate delivers a single dimension load for worldDir to the reset
// trigger, whether or not a startup pass would have registered it. It
// reports whether a pending reset was handled and its marker cleared.
func Activate(ctx context.Context, opts Options, worldDir string, dim host.DimensionID, out io.Writer) (bool, error) {
	if opts.FS == nil || opts.Config == nil {
		return false, errors.New(errors.ErrInvalidInput, "activate needs a filesystem and a configuration")
	}
	if worldDir == "" {
		worldDir = DefaultWorld(opts)
	}

	marker := opts.Config.Layout().MarkerFile(worldDir)
	pending, err := filesystem.Exists(opts.FS, marker)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrUnreadableSource, "cannot check %s", marker)
	}

	loop, stop := startLoop(ctx)
	defer stop()

	server := host.NewLocalServer(worldDir, loop, host.NewLineDispatcher(out))
	trigger.New(opts.FS, opts.Config, logging.GetLogger("trigger")).OnDimensionLoad(server, dim)
	loop.Drain()

	if !pending {
		return false, nil
	}
	// a kept marker means the command was not dispatched or failed and will be retried
	remaining, err := filesystem.Exists(opts.FS, marker)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrUnreadableSource, "cannot check %s", marker)
	}
	return !remaining, nil
}

// DefaultWorld is the save a dedicated server in the game dir would load
func DefaultWorld(opts Options) string {
	det := detector.New(opts.FS, opts.Config.Fix, logging.GetLogger("detector"))
	return scanner.New(opts.FS, opts.GameDir, opts.Config, det, logging.GetLogger("scanner")).LevelDir()
}

// startLoop runs a server thread until stop is called. stop lets queued
// tasks finish first.
func startLoop(ctx context.Context) (*host.Loop, func()) {
	loop := host.NewLoop(logging.GetLogger("host.loop"))
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()
	return loop, func() {
		loop.Drain()
		cancel()
		<-done
	}
}
