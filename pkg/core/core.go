package core

import (
	"fmt"

	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/detector"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/fixer"
	"github.com/arthur-debert/endfix/pkg/host"
	"github.com/arthur-debert/endfix/pkg/logging"
	"github.com/arthur-debert/endfix/pkg/scanner"
	"github.com/arthur-debert/endfix/pkg/trigger"
	"github.com/arthur-debert/endfix/pkg/types"
)

// Status is a world's state at the end of the pass
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusSkipped  Status = "skipped"
	StatusNeedsFix Status = "needs_fix"
	StatusFixed    Status = "fixed"
	StatusFailed   Status = "failed"
)

// Options configure a startup pass
type Options struct {
	FS      types.FS
	Config  *config.Config
	GameDir string

	// Bus receives the trigger when registration is warranted. Nil skips
	// registration.
	Bus *host.EventBus

	// DryRun inspects without repairing
	DryRun bool
}

// WorldReport is the outcome for one world
type WorldReport struct {
	scanner.World `yaml:",inline"`
	Status        Status         `json:"status" yaml:"status" toml:"status"`
	Outcome       *fixer.Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty" toml:"outcome,omitempty"`
	Error         string         `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Step          string         `json:"step,omitempty" yaml:"step,omitempty" toml:"step,omitempty"`
}

// Report summarises a startup pass
type Report struct {
	GameDir           string        `json:"game_dir" yaml:"game_dir" toml:"game_dir"`
	DryRun            bool          `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Worlds            []WorldReport `json:"worlds" yaml:"worlds" toml:"worlds"`
	Fixed             int           `json:"fixed" yaml:"fixed" toml:"fixed"`
	Failed            int           `json:"failed" yaml:"failed" toml:"failed"`
	PendingMarkers    int           `json:"pending_markers" yaml:"pending_markers" toml:"pending_markers"`
	TriggerRegistered bool          `json:"trigger_registered" yaml:"trigger_registered" toml:"trigger_registered"`
	Error             string        `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// NeedsFix counts worlds still carrying the defect
func (r *Report) NeedsFix() int {
	n := 0
	for _, w := range r.Worlds {
		if w.Status == StatusNeedsFix || w.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Run performs the startup pass. It never fails: problems end up in the log
// and in the returned report.
func Run(opts Options) (report *Report) {
	logger := logging.GetLogger("core")
	report = &Report{GameDir: opts.GameDir, DryRun: opts.DryRun}

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Unexpected error during startup pass")
			report.Error = fmt.Sprintf("unexpected error: %v", r)
		}
	}()

	if opts.FS == nil || opts.Config == nil {
		err := errors.New(errors.ErrInvalidInput, "startup pass needs a filesystem and a configuration")
		logger.Error().Err(err).Msg("Cannot run startup pass")
		report.Error = err.Error()
		return report
	}

	cfg := opts.Config
	det := detector.New(opts.FS, cfg.Fix, logging.GetLogger("detector"))
	scan := scanner.New(opts.FS, opts.GameDir, cfg, det, logging.GetLogger("scanner"))
	applier := fixer.New(opts.FS, cfg, logging.GetLogger("fixer"))

	logger.Info().Str("gameDir", opts.GameDir).Msg("Scanning for worlds that need fixing")
	worlds := scan.Survey()

	for _, w := range worlds {
		wr := WorldReport{World: w}
		switch {
		case !w.Result.NeedsFix && w.Result.Reason == detector.ReasonHealthy:
			wr.Status = StatusHealthy
		case !w.Result.NeedsFix:
			wr.Status = StatusSkipped
			if w.Result.Err != nil {
				wr.Error = w.Result.Err.Error()
			}
		case opts.DryRun:
			wr.Status = StatusNeedsFix
		default:
			out, err := applier.Apply(w.SaveCandidate)
			if err != nil {
				wl := logging.ForWorld(logger, w.WorldDir)
				wl.Error().Err(err).Msg("Failed to fix world")
				wr.Status = StatusFailed
				wr.Error = err.Error()
				if step, ok := errors.GetErrorDetails(err)["step"].(string); ok {
					wr.Step = step
				}
				report.Failed++
			} else {
				wr.Status = StatusFixed
				wr.Outcome = &out
				wr.MarkerPending = true
				report.Fixed++
			}
		}
		if wr.MarkerPending {
			report.PendingMarkers++
		}
		report.Worlds = append(report.Worlds, wr)
	}

	if report.NeedsFix() == 0 && report.Fixed == 0 {
		logger.Info().Msg("No worlds need fixing")
	} else if !opts.DryRun {
		logger.Info().Int("fixed", report.Fixed).Int("failed", report.Failed).Msg("Completed")
	}

	if opts.Bus != nil && !opts.DryRun && (report.Fixed > 0 || report.PendingMarkers > 0) {
		trigger.New(opts.FS, cfg, logging.GetLogger("trigger")).Register(opts.Bus)
		report.TriggerRegistered = true
	}
	return report
}
