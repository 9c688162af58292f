package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/paths"
	"github.com/arthur-debert/endfix/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment is a game directory plus the filesystem it lives on
type TestEnvironment struct {
	GameDir    string
	HomeDir    string
	StateHome  string
	ConfigHome string

	FS   types.FS
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment. XDG and game-dir
// variables are pointed into the environment so nothing leaks into the
// real user directories.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	var base string
	switch envType {
	case EnvMemoryOnly:
		base = "/virtual"
		env.FS = NewTestFS()
	case EnvIsolated:
		base = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	env.GameDir = filepath.Join(base, "game")
	env.HomeDir = filepath.Join(base, "home")
	env.StateHome = filepath.Join(env.HomeDir, ".local", "state")
	env.ConfigHome = filepath.Join(env.HomeDir, ".config")

	for _, dir := range []string{env.GameDir, env.HomeDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigHome)
	t.Setenv(paths.EnvGameDir, "")

	return env
}

// Config returns the default configuration pointed at the game directory
func (env *TestEnvironment) Config() *config.Config {
	cfg := config.Default()
	cfg.Game.Dir = env.GameDir
	return cfg
}

// SaveDir returns the path of a world under the saves folder
func (env *TestEnvironment) SaveDir(name string) string {
	return filepath.Join(env.GameDir, "saves", name)
}

// WriteLevel writes a level.dat built by b into worldDir and returns its path
func (env *TestEnvironment) WriteLevel(worldDir string, b *LevelBuilder) string {
	env.t.Helper()
	path := filepath.Join(worldDir, "level.dat")
	b.WriteTo(env.t, env.FS, path)
	return path
}

// WriteProperties writes server.properties into the game directory
func (env *TestEnvironment) WriteProperties(content string) {
	env.t.Helper()
	path := filepath.Join(env.GameDir, "server.properties")
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// WithFileTree creates a file tree below base
func (env *TestEnvironment) WithFileTree(base string, tree FileTree) {
	env.t.Helper()
	CreateFileTree(env.t, env.FS, base, tree)
}

// FileTree represents a directory structure for testing. Values are either
// file contents (string) or nested FileTrees.
type FileTree map[string]interface{}

// CreateFileTree recursively creates a file tree
func CreateFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	if err := fs.MkdirAll(basePath, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", basePath, err)
	}

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			CreateFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
