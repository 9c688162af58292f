package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/endfix/pkg/errors"
)

// Environment variable names
const (
	// EnvGameDir is the environment variable for the game directory
	EnvGameDir = "ENDFIX_GAME_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for endfix-specific files
	AppDirName = "endfix"

	// ConfigFileName is the optional per-game-dir and per-user config file
	ConfigFileName = "endfix.toml"
)

// GameDir resolves the directory to scan. Priority: explicit value,
// ENDFIX_GAME_DIR, current working directory. The result is absolute.
func GameDir(explicit string) (string, error) {
	dir := explicit
	if dir == "" {
		dir = os.Getenv(EnvGameDir)
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to get working directory")
		}
		dir = cwd
	}

	abs, err := filepath.Abs(expandHome(dir))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", dir)
	}
	return abs, nil
}

// UserConfigFile returns the per-user configuration file path.
// XDG_CONFIG_HOME is consulted at call time, then the xdg default.
func UserConfigFile() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, AppDirName, ConfigFileName)
}

// Layout names every file the fixer writes inside a world directory
type Layout struct {
	LevelFile     string
	BackupSuffix  string
	TempSuffix    string
	DataDir       string
	ArchiveSuffix string
	Marker        string
}

// MetadataFile is the world's level.dat
func (l Layout) MetadataFile(worldDir string) string {
	return filepath.Join(worldDir, l.LevelFile)
}

// BackupFile is the sibling copy of the original metadata file
func (l Layout) BackupFile(metadataFile string) string {
	return metadataFile + l.BackupSuffix
}

// TempFile is where the rewritten metadata is staged before the rename
func (l Layout) TempFile(metadataFile string) string {
	return metadataFile + l.TempSuffix
}

// DataDirPath is the generated per-dimension data directory
func (l Layout) DataDirPath(worldDir string) string {
	return filepath.Join(worldDir, l.DataDir)
}

// ArchiveFile sits next to the data directory it preserves
func (l Layout) ArchiveFile(worldDir string) string {
	return filepath.Join(worldDir, l.DataDir+l.ArchiveSuffix)
}

// MarkerFile signals a pending corrective action for the world
func (l Layout) MarkerFile(worldDir string) string {
	return filepath.Join(worldDir, l.Marker)
}

// Validate checks that every name is a plain file name
func (l Layout) Validate() error {
	names := map[string]string{
		"level_file":     l.LevelFile,
		"data_dir":       l.DataDir,
		"marker":         l.Marker,
		"backup_suffix":  l.BackupSuffix,
		"temp_suffix":    l.TempSuffix,
		"archive_suffix": l.ArchiveSuffix,
	}
	for key, name := range names {
		if err := ValidateFileName(name); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid %s", key)
		}
	}
	if l.BackupSuffix == l.TempSuffix {
		return errors.New(errors.ErrConfigValid, "backup_suffix and temp_suffix must differ")
	}
	return nil
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
