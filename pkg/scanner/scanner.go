package scanner

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/detector"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/logging"
	"github.com/arthur-debert/endfix/pkg/paths"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/rs/zerolog"
)

// Source says how a world directory was reached
type Source string

const (
	SourceLevelName Source = "level-name"
	SourceRoot      Source = "root"
	SourceSaves     Source = "saves"
)

// World is one directory that holds a level file
type World struct {
	types.SaveCandidate `yaml:",inline"`
	Source              Source          `json:"source" yaml:"source" toml:"source"`
	Result              detector.Result `json:"result" yaml:"result" toml:"result"`
	MarkerPending       bool            `json:"marker_pending" yaml:"marker_pending" toml:"marker_pending"`
}

// Scanner enumerates worlds below a game directory
type Scanner struct {
	fs       types.FS
	gameDir  string
	game     config.Game
	layout   paths.Layout
	detector *detector.Detector
	logger   zerolog.Logger
}

// New creates a Scanner rooted at gameDir
func New(fsys types.FS, gameDir string, cfg *config.Config, det *detector.Detector, logger zerolog.Logger) *Scanner {
	return &Scanner{
		fs:       fsys,
		gameDir:  gameDir,
		game:     cfg.Game,
		layout:   cfg.Layout(),
		detector: det,
		logger:   logger,
	}
}

// Scan returns the worlds whose level file needs repair, each at most once
func (s *Scanner) Scan() []types.SaveCandidate {
	var candidates []types.SaveCandidate
	for _, w := range s.Survey() {
		if w.Result.NeedsFix {
			candidates = append(candidates, w.SaveCandidate)
		}
	}
	return candidates
}

// Survey tests every reachable world and returns all of them, healthy or not
func (s *Scanner) Survey() []World {
	defer logging.LogOperationStart(s.logger, "scan")()

	seen := map[string]bool{}
	var worlds []World

	test := func(dir string, source Source) {
		key := s.key(dir)
		if seen[key] {
			s.logger.Debug().Str("dir", dir).Str("source", string(source)).Msg("Already scanned, skipping")
			return
		}
		seen[key] = true

		if w, ok := s.test(dir, source); ok {
			worlds = append(worlds, w)
		}
	}

	if dir, ok := s.levelNameDir(); ok {
		test(dir, SourceLevelName)
	}
	test(s.gameDir, SourceRoot)
	for _, dir := range s.saveDirs() {
		test(dir, SourceSaves)
	}

	need := 0
	for _, w := range worlds {
		if w.Result.NeedsFix {
			need++
		}
	}
	s.logger.Info().
		Str("gameDir", s.gameDir).
		Int("worlds", len(worlds)).
		Int("needFix", need).
		Msg("Scan complete")
	return worlds
}

func (s *Scanner) key(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

func (s *Scanner) test(dir string, source Source) (World, bool) {
	candidate := types.NewSaveCandidate(dir, s.game.LevelFile)
	if !filesystem.IsFile(s.fs, candidate.MetadataFile) {
		return World{}, false
	}

	logger := logging.ForWorld(s.logger, dir)
	w := World{
		SaveCandidate: candidate,
		Source:        source,
		Result:        s.detector.Inspect(candidate.MetadataFile),
	}

	pending, err := filesystem.Exists(s.fs, s.layout.MarkerFile(dir))
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot check reset marker")
	}
	w.MarkerPending = pending

	logger.Debug().
		Str("source", string(source)).
		Bool("needsFix", w.Result.NeedsFix).
		Bool("markerPending", pending).
		Msg("Tested world")
	return w, true
}

// levelNameDir resolves the world named in server.properties. An absent
// properties file yields nothing; an unreadable one is logged.
func (s *Scanner) levelNameDir() (string, bool) {
	props := filepath.Join(s.gameDir, s.game.Properties)
	if !filesystem.IsFile(s.fs, props) {
		return "", false
	}

	name, err := config.ReadLevelName(s.fs, props, s.game.DefaultLevelName)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", props).Msg("Could not read server properties")
		return "", false
	}

	dir, err := paths.ResolveLevelDir(s.gameDir, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("levelName", name).Msg("Ignoring invalid level-name")
		return "", false
	}
	return dir, true
}

// saveDirs lists the immediate subdirectories of the saves folder, following
// symlinked entries. An unreadable folder is logged and yields nothing.
func (s *Scanner) saveDirs() []string {
	saves := filepath.Join(s.gameDir, s.game.Saves)
	if !filesystem.IsDir(s.fs, saves) {
		return nil
	}

	entries, err := s.fs.ReadDir(saves)
	if err != nil {
		s.logger.Error().Err(err).Str("dir", saves).Msg("Error scanning saves folder")
		return nil
	}

	var dirs []string
	for _, entry := range entries {
		full := filepath.Join(saves, entry.Name())
		if entry.IsDir() || (entry.Type()&fs.ModeSymlink != 0 && filesystem.IsDir(s.fs, full)) {
			dirs = append(dirs, full)
		}
	}
	return dirs
}

// LevelDir is the save a dedicated server would load: the level named in
// server.properties, or the default level name below the game directory.
func (s *Scanner) LevelDir() string {
	if dir, ok := s.levelNameDir(); ok {
		return dir
	}
	return filepath.Join(s.gameDir, s.game.DefaultLevelName)
}
