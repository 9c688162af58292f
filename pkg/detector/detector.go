package detector

import (
	"bytes"

	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/nbt"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/rs/zerolog"
)

// Reason explains a detection result
type Reason string

const (
	ReasonHealthy          Reason = "healthy"
	ReasonUnreadable       Reason = "unreadable"
	ReasonUnsupported      Reason = "unsupported_structure"
	ReasonMissingDimension Reason = "missing_dimension"
	ReasonMissingGenerator Reason = "missing_generator"
	ReasonBadGenerator     Reason = "bad_generator"
)

// Result is the outcome of inspecting one metadata file
type Result struct {
	NeedsFix      bool   `json:"needs_fix" yaml:"needs_fix" toml:"needs_fix"`
	Reason        Reason `json:"reason" yaml:"reason" toml:"reason"`
	GeneratorType string `json:"generator_type,omitempty" yaml:"generator_type,omitempty" toml:"generator_type,omitempty"`
	Err           error  `json:"-" yaml:"-" toml:"-"`
}

// Detector checks metadata files against the configured defect signature
type Detector struct {
	fs     types.FS
	fix    config.Fix
	logger zerolog.Logger
}

// New creates a Detector
func New(fsys types.FS, fix config.Fix, logger zerolog.Logger) *Detector {
	return &Detector{fs: fsys, fix: fix, logger: logger}
}

// NeedsFix reports whether metadataFile exhibits the defect
func (d *Detector) NeedsFix(metadataFile string) bool {
	return d.Inspect(metadataFile).NeedsFix
}

// Inspect reads metadataFile and classifies it. Unreadable files and files
// without world generation settings are logged and never need a fix.
func (d *Detector) Inspect(metadataFile string) Result {
	logger := d.logger.With().Str("file", metadataFile).Logger()

	_, root, err := Load(d.fs, metadataFile)
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot read level metadata, skipping")
		return Result{Reason: ReasonUnreadable, Err: err}
	}

	result := Evaluate(root, d.fix)
	switch result.Reason {
	case ReasonUnsupported:
		logger.Error().Err(result.Err).Msg("Level metadata has no usable world generation settings, skipping")
	case ReasonHealthy:
		logger.Debug().Str("generator", result.GeneratorType).Msg("End generator is healthy")
	default:
		logger.Info().Str("reason", string(result.Reason)).Str("generator", result.GeneratorType).Msg("Save needs repair")
	}
	return result
}

// Evaluate classifies an already decoded tree
func Evaluate(root *nbt.Compound, fix config.Fix) Result {
	worldGen, ok := root.Lookup("Data", "WorldGenSettings")
	if !ok {
		return unsupported("Data.WorldGenSettings is missing")
	}

	// A node of the wrong kind reads as absent, the way the game reads it
	dimensions, ok := worldGen.GetCompound("dimensions")
	if !ok {
		return Result{NeedsFix: true, Reason: ReasonMissingDimension}
	}

	if !dimensions.Has(fix.Dimension) {
		return Result{NeedsFix: true, Reason: ReasonMissingDimension}
	}
	dimension, ok := dimensions.GetCompound(fix.Dimension)
	if !ok {
		return Result{NeedsFix: true, Reason: ReasonMissingGenerator}
	}

	generator, ok := dimension.GetCompound("generator")
	if !ok {
		return Result{NeedsFix: true, Reason: ReasonMissingGenerator}
	}

	genType, _ := generator.GetString("type")
	if genType == fix.BadGenerator {
		return Result{NeedsFix: true, Reason: ReasonBadGenerator, GeneratorType: genType}
	}
	return Result{Reason: ReasonHealthy, GeneratorType: genType}
}

func unsupported(format string, args ...interface{}) Result {
	return Result{Reason: ReasonUnsupported, Err: errors.Newf(errors.ErrUnsupportedStructure, format, args...)}
}

// Load reads and decodes a gzip-compressed metadata file
func Load(fsys types.FS, metadataFile string) (string, *nbt.Compound, error) {
	data, err := fsys.ReadFile(metadataFile)
	if err != nil {
		return "", nil, errors.Wrapf(err, errors.ErrUnreadableSource, "cannot read %s", metadataFile)
	}
	name, root, err := nbt.ReadCompressed(bytes.NewReader(data))
	if err != nil {
		return "", nil, errors.Wrapf(err, errors.ErrUnreadableSource, "cannot parse %s", metadataFile)
	}
	return name, root, nil
}
