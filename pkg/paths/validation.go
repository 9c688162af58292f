package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/endfix/pkg/errors"
)

// ValidatePath performs basic validation on a path.
// It checks for empty paths, null bytes and excessive length.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// Check path length (common filesystem limit)
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateFileName ensures a name is usable as a single path element.
// Names must:
// - Not be empty
// - Not contain path separators
// - Not be reserved names (. or ..)
// - Not contain control characters
func ValidateFileName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return errors.New(errors.ErrInvalidInput, "name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return errors.New(errors.ErrInvalidInput, "name cannot be '.' or '..'")
	}

	for _, r := range name {
		if r < 32 {
			return errors.New(errors.ErrInvalidInput, "name contains control characters")
		}
	}

	return nil
}

// ResolveLevelDir joins a level name from server.properties onto the game
// directory. Relative names may contain subdirectories; absolute names are
// used as-is.
func ResolveLevelDir(gameDir, levelName string) (string, error) {
	if err := ValidatePath(levelName); err != nil {
		return "", err
	}
	if filepath.IsAbs(levelName) {
		return filepath.Clean(levelName), nil
	}
	return filepath.Join(gameDir, levelName), nil
}
