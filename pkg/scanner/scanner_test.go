package scanner

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/endfix/pkg/detector"
	"github.com/arthur-debert/endfix/pkg/testutil"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanner(env *testutil.TestEnvironment, fsys types.FS) *Scanner {
	cfg := env.Config()
	logger := zerolog.Nop()
	det := detector.New(fsys, cfg.Fix, logger)
	return New(fsys, env.GameDir, cfg, det, logger)
}

func worldDirs(candidates []types.SaveCandidate) []string {
	dirs := make([]string, len(candidates))
	for i, c := range candidates {
		dirs[i] = c.WorldDir
	}
	return dirs
}

func TestScanSources(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	server := filepath.Join(env.GameDir, "survival")
	env.WriteProperties("level-name=survival\n")
	env.WriteLevel(server, testutil.NewLevel().Defective())
	env.WriteLevel(env.SaveDir("broken"), testutil.NewLevel().Defective())
	env.WriteLevel(env.SaveDir("fine"), testutil.NewLevel())
	env.WithFileTree(env.SaveDir("empty"), testutil.FileTree{"notes.txt": "no level here"})

	candidates := newScanner(env, env.FS).Scan()

	assert.Equal(t, []string{server, env.SaveDir("broken")}, worldDirs(candidates))
	assert.Equal(t, filepath.Join(server, "level.dat"), candidates[0].MetadataFile)
}

func TestScanFlatRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteLevel(env.GameDir, testutil.NewLevel().WithoutEnd())

	worlds := newScanner(env, env.FS).Survey()
	require.Len(t, worlds, 1)
	assert.Equal(t, SourceRoot, worlds[0].Source)
	assert.True(t, worlds[0].Result.NeedsFix)
}

func TestScanDeduplicates(t *testing.T) {
	tests := []struct {
		name      string
		levelName string
	}{
		{"level-name is the root", "."},
		{"level-name points into saves", "saves/only"},
		{"level-name with trailing slash", "saves/only/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			env.WriteProperties("level-name=" + tt.levelName + "\n")

			dir := filepath.Join(env.GameDir, tt.levelName)
			env.WriteLevel(dir, testutil.NewLevel().Defective())

			candidates := newScanner(env, env.FS).Scan()
			require.Len(t, candidates, 1)
			assert.Equal(t, filepath.Clean(dir), filepath.Clean(candidates[0].WorldDir))
		})
	}
}

func TestScanDefaultLevelName(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteProperties("motd=A Minecraft Server\n")
	env.WriteLevel(filepath.Join(env.GameDir, "world"), testutil.NewLevel().Defective())

	worlds := newScanner(env, env.FS).Survey()
	require.Len(t, worlds, 1)
	assert.Equal(t, SourceLevelName, worlds[0].Source)
}

func TestScanUnreadableSources(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteProperties("level-name=survival\n")
	env.WriteLevel(filepath.Join(env.GameDir, "survival"), testutil.NewLevel().Defective())
	env.WriteLevel(env.SaveDir("broken"), testutil.NewLevel().Defective())
	env.WriteLevel(env.GameDir, testutil.NewLevel().Defective())

	fsys := testutil.NewFaultyFS(env.FS).
		FailOn(testutil.OpReadFile, "server.properties").
		FailOn(testutil.OpReadDir, "saves")

	candidates := newScanner(env, fsys).Scan()
	assert.Equal(t, []string{env.GameDir}, worldDirs(candidates),
		"failing sources yield nothing but the scan goes on")
}

func TestScanGarbageLevelIsNotACandidate(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(env.SaveDir("junk"), testutil.FileTree{"level.dat": "garbage"})

	worlds := newScanner(env, env.FS).Survey()
	require.Len(t, worlds, 1)
	assert.False(t, worlds[0].Result.NeedsFix)
	assert.Equal(t, detector.ReasonUnreadable, worlds[0].Result.Reason)
}

func TestSurveyReportsPendingMarker(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteLevel(env.SaveDir("done"), testutil.NewLevel())
	env.WithFileTree(env.SaveDir("done"), testutil.FileTree{"endfix.reset_end_island": ""})

	worlds := newScanner(env, env.FS).Survey()
	require.Len(t, worlds, 1)
	assert.True(t, worlds[0].MarkerPending)
	assert.False(t, worlds[0].Result.NeedsFix)
}

func TestScanIsolatedFilesystem(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.WriteLevel(env.SaveDir("a"), testutil.NewLevel().Defective())
	env.WriteLevel(env.SaveDir("b"), testutil.NewLevel().Defective())

	candidates := newScanner(env, env.FS).Scan()
	assert.Equal(t, []string{env.SaveDir("a"), env.SaveDir("b")}, worldDirs(candidates))
}

func TestLevelDir(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	s := newScanner(env, env.FS)
	assert.Equal(t, filepath.Join(env.GameDir, "world"), s.LevelDir())

	env.WriteProperties("level-name=survival\n")
	assert.Equal(t, filepath.Join(env.GameDir, "survival"), s.LevelDir())
}
