package fixer

import (
	"bytes"
	"path/filepath"

	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/logging"
	"github.com/arthur-debert/endfix/pkg/nbt"
	"github.com/arthur-debert/endfix/pkg/paths"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/rs/zerolog"
)

// Step names one stage of the repair, reported in the "step" error detail
type Step string

const (
	StepParse     Step = "parse"
	StepBackup    Step = "backup"
	StepDimension Step = "dimension"
	StepGenerator Step = "generator"
	StepArchive   Step = "archive"
	StepMarker    Step = "marker"
	StepWrite     Step = "write"
)

// Outcome records the artifacts a successful repair left behind
type Outcome struct {
	Backup   string        `json:"backup" yaml:"backup" toml:"backup"`
	Archive  string        `json:"archive,omitempty" yaml:"archive,omitempty" toml:"archive,omitempty"`
	Archived *ArchiveStats `json:"archived,omitempty" yaml:"archived,omitempty" toml:"archived,omitempty"`
	Marker   string        `json:"marker" yaml:"marker" toml:"marker"`
}

// Applier repairs candidates on a filesystem
type Applier struct {
	fs     types.FS
	fix    config.Fix
	layout paths.Layout
	logger zerolog.Logger
}

// New creates an Applier
func New(fsys types.FS, cfg *config.Config, logger zerolog.Logger) *Applier {
	return &Applier{
		fs:     fsys,
		fix:    cfg.Fix,
		layout: cfg.Layout(),
		logger: logger,
	}
}

// Apply repairs one world. Any failure is a *errors.Error with code
// REPAIR_IO and "step" and "world" details; level.dat is only replaced if
// every step succeeded.
func (a *Applier) Apply(c types.SaveCandidate) (Outcome, error) {
	logger := logging.ForWorld(a.logger, c.WorldDir)
	defer logging.LogOperationStart(logger, "repair")()
	logger.Info().Msg("Fixing world")

	var out Outcome
	fail := func(step Step, err error, msg string) (Outcome, error) {
		return out, errors.Wrap(err, errors.ErrRepairIO, msg).
			WithDetail("step", string(step)).
			WithDetail("world", c.WorldDir)
	}

	// 1. Re-read the tree; detection may have run long ago
	original, err := a.fs.ReadFile(c.MetadataFile)
	if err != nil {
		return fail(StepParse, err, "cannot read level metadata")
	}
	name, root, err := nbt.ReadCompressed(bytes.NewReader(original))
	if err != nil {
		return fail(StepParse, err, "cannot parse level metadata")
	}

	// 2. Backup
	out.Backup = a.layout.BackupFile(c.MetadataFile)
	logger.Info().Str("backup", out.Backup).Msg("Backing up level metadata")
	if err := a.fs.WriteFile(out.Backup, original, 0644); err != nil {
		return fail(StepBackup, err, "cannot write backup")
	}

	// 3. Dimension shape
	dimension, err := EnsureDimension(root, a.fix)
	if err != nil {
		return fail(StepDimension, err, "cannot locate end dimension")
	}

	// 4. Generator
	ReplaceGenerator(dimension, a.fix)
	logger.Debug().Str("generator", dimension.String()).Msg("Replaced end generator")

	// 5. Archive and purge generated data
	dataDir := a.layout.DataDirPath(c.WorldDir)
	if filesystem.IsDir(a.fs, dataDir) {
		out.Archive = a.layout.ArchiveFile(c.WorldDir)
		logger.Info().Str("archive", out.Archive).Msg("Archiving end data")
		stats, err := ArchiveDir(a.fs, dataDir, out.Archive)
		if err != nil {
			return fail(StepArchive, err, "cannot archive end data")
		}
		out.Archived = &stats

		logger.Info().Str("dir", dataDir).Msg("Deleting end data to force regeneration")
		if err := filesystem.RemoveTree(a.fs, dataDir); err != nil {
			return fail(StepArchive, err, "cannot delete end data")
		}
	}

	// 6. Marker
	out.Marker = a.layout.MarkerFile(c.WorldDir)
	if err := a.fs.WriteFile(out.Marker, nil, 0644); err != nil {
		return fail(StepMarker, err, "cannot write reset marker")
	}
	logger.Info().Str("marker", out.Marker).Msg("Created end island reset marker")

	// 7. Atomic writeback
	if err := a.writeBack(c.MetadataFile, name, root); err != nil {
		return fail(StepWrite, err, "cannot replace level metadata")
	}
	logger.Info().Str("file", c.MetadataFile).Msg("Wrote repaired level metadata")

	return out, nil
}

// writeBack stages the tree in a temp file and renames it over target, then
// syncs the containing directory where the platform allows it. The temp file
// is removed on any failure.
func (a *Applier) writeBack(target, name string, root *nbt.Compound) (err error) {
	tmp := a.layout.TempFile(target)

	f, err := a.fs.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_, _ = filesystem.RemoveIfExists(a.fs, tmp)
		}
	}()

	if err = nbt.WriteCompressed(f, name, root); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = a.fs.Rename(tmp, target); err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if syncErr := filesystem.SyncDir(a.fs, dir); syncErr != nil {
		a.logger.Debug().Err(syncErr).Str("dir", dir).Msg("Could not sync directory after rename")
	}
	return nil
}
