package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/endfix/pkg/core"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func markerPath(env *testutil.TestEnvironment, worldDir string) string {
	return env.Config().Layout().MarkerFile(worldDir)
}

func TestScanDoesNotWrite(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	world := env.SaveDir("alpha")
	level := env.WriteLevel(world, testutil.NewLevel().Defective())
	before, err := env.FS.ReadFile(level)
	require.NoError(t, err)

	res := execute(t, nil, "scan", "--game-dir", env.GameDir, "--format", "json")
	require.NoError(t, res.err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, true, report["dry_run"])
	worlds := report["worlds"].([]interface{})
	require.Len(t, worlds, 1)
	assert.Equal(t, "needs_fix", worlds[0].(map[string]interface{})["status"])

	after, err := env.FS.ReadFile(level)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.False(t, filesystem.IsFile(env.FS, markerPath(env, world)))
}

func TestFixRepairsWorlds(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	world := env.SaveDir("alpha")
	level := env.WriteLevel(world, testutil.NewLevel().Defective())
	env.WithFileTree(filepath.Join(world, "DIM1"), testutil.FileTree{"region": testutil.FileTree{"r.0.0.mca": "chunk"}})

	res := execute(t, nil, "fix", "--game-dir", env.GameDir, "--format", "text")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "alpha")
	assert.Contains(t, res.stdout, "fixed")
	assert.Contains(t, res.stdout, "1 fixed, 1 checked")

	gen, ok := testutil.EndGenerator(testutil.ReadLevel(t, env.FS, level))
	require.True(t, ok)
	typ, _ := gen.GetString("type")
	assert.Equal(t, testutil.NoiseGenerator, typ)
	assert.True(t, filesystem.IsFile(env.FS, markerPath(env, world)))
	assert.False(t, filesystem.IsDir(env.FS, filepath.Join(world, "DIM1")))
}

func TestFixDryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	world := env.SaveDir("alpha")
	env.WriteLevel(world, testutil.NewLevel().Defective())

	res := execute(t, nil, "fix", "--dry-run", "--game-dir", env.GameDir, "--format", "yaml")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "status: needs_fix")
	assert.False(t, filesystem.IsFile(env.FS, markerPath(env, world)))
}

func TestRunRelaysDimensionLoads(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.WriteProperties("level-name=world\n")
	world := filepath.Join(env.GameDir, "world")
	env.WriteLevel(world, testutil.NewLevel().Defective())

	loads := strings.NewReader("minecraft:overworld\nminecraft:the_end\nminecraft:the_end\n")
	res := execute(t, loads, "run", "--game-dir", env.GameDir, "--format", "json")
	require.NoError(t, res.err)

	assert.Equal(t, "end_island reset\n", res.stdout, "one reset, on the first End load only")
	assert.False(t, filesystem.IsFile(env.FS, markerPath(env, world)))

	var report core.Report
	require.NoError(t, json.Unmarshal([]byte(res.stderr), &report))
	assert.Equal(t, 1, report.Fixed)
	assert.True(t, report.TriggerRegistered)
}

func TestActivate(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	world := env.SaveDir("alpha")
	env.WriteLevel(world, testutil.NewLevel().Defective())
	require.NoError(t, execute(t, nil, "fix", "--game-dir", env.GameDir, "--format", "text").err)

	t.Run("other dimension leaves the marker", func(t *testing.T) {
		res := execute(t, nil, "activate", "minecraft:overworld", "--world", "saves/alpha", "--game-dir", env.GameDir, "--format", "json")
		require.NoError(t, res.err)
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, `"fired": false`)
		assert.True(t, filesystem.IsFile(env.FS, markerPath(env, world)))
	})

	t.Run("end dispatches once", func(t *testing.T) {
		res := execute(t, nil, "activate", "minecraft:the_end", "--world", "saves/alpha", "--game-dir", env.GameDir, "--format", "json")
		require.NoError(t, res.err)
		assert.Equal(t, "end_island reset\n", res.stdout)
		assert.Contains(t, res.stderr, `"fired": true`)
		assert.Contains(t, res.stderr, world)
		assert.False(t, filesystem.IsFile(env.FS, markerPath(env, world)))
	})

	t.Run("nothing pending afterwards", func(t *testing.T) {
		res := execute(t, nil, "activate", "minecraft:the_end", "--world", world, "--game-dir", env.GameDir, "--format", "text")
		require.NoError(t, res.err)
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, "Nothing pending for alpha")
	})
}

func TestConfigCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	t.Run("defaults", func(t *testing.T) {
		res := execute(t, nil, "config", "--game-dir", env.GameDir)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "bad_generator = 'bclib:betterx'")
		assert.Contains(t, res.stdout, "dir = '"+env.GameDir+"'")
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv("ENDFIX_FIX__BAD_GENERATOR", "othermod:broken")
		res := execute(t, nil, "config", "--game-dir", env.GameDir)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "bad_generator = 'othermod:broken'")
	})

	t.Run("game dir file", func(t *testing.T) {
		env.WithFileTree(env.GameDir, testutil.FileTree{
			"endfix.toml": "[trigger]\ncommand = \"say reset\"\n",
		})
		res := execute(t, nil, "config", "--game-dir", env.GameDir)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "command = 'say reset'")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		res := execute(t, nil, "config", "--config", filepath.Join(env.HomeDir, "nope.toml"))
		require.Error(t, res.err)
		assert.True(t, errors.IsErrorCode(res.err, errors.ErrConfigLoad))
	})
}

func TestGlobalFlagErrors(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no command", []string{}, "no command specified"},
		{"bad format", []string{"scan", "--format", "xml"}, "unknown format"},
		{"activate needs a dimension", []string{"activate"}, "accepts 1 arg"},
		{"bad completion shell", []string{"completion", "tcsh"}, "invalid argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, nil, tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.wantErr)
		})
	}
}

func TestVersionAndCompletion(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	res := execute(t, nil, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "endfix version dev")

	res = execute(t, nil, "completion", "bash")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "endfix")
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name   string
		report *core.Report
		code   errors.ErrorCode
	}{
		{"clean", &core.Report{}, ""},
		{"aborted", &core.Report{Error: "boom"}, errors.ErrInternal},
		{"failures", &core.Report{Failed: 2}, errors.ErrRepairIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reportError(tt.report)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsErrorCode(err, tt.code))
		})
	}
}
