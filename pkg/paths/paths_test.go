package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() Layout {
	return Layout{
		LevelFile:     "level.dat",
		BackupSuffix:  ".endfixbackup",
		TempSuffix:    ".endfixtmp",
		DataDir:       "DIM1",
		ArchiveSuffix: "_endfixbackup.zip",
		Marker:        "endfix.reset_end_island",
	}
}

func TestGameDir(t *testing.T) {
	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv(EnvGameDir, "/from/env")
		dir, err := GameDir("/explicit")
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean("/explicit"), dir)
	})

	t.Run("environment next", func(t *testing.T) {
		t.Setenv(EnvGameDir, "/from/env")
		dir, err := GameDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean("/from/env"), dir)
	})

	t.Run("working directory last", func(t *testing.T) {
		t.Setenv(EnvGameDir, "")
		cwd, err := os.Getwd()
		require.NoError(t, err)
		dir, err := GameDir("")
		require.NoError(t, err)
		assert.Equal(t, cwd, dir)
	})

	t.Run("home expansion", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(EnvHome, home)
		dir, err := GameDir("~/server")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "server"), dir)
	})
}

func TestLayout(t *testing.T) {
	l := testLayout()
	world := filepath.Join("/srv", "world")
	meta := l.MetadataFile(world)

	assert.Equal(t, filepath.Join(world, "level.dat"), meta)
	assert.Equal(t, meta+".endfixbackup", l.BackupFile(meta))
	assert.Equal(t, meta+".endfixtmp", l.TempFile(meta))
	assert.Equal(t, filepath.Join(world, "DIM1"), l.DataDirPath(world))
	assert.Equal(t, filepath.Join(world, "DIM1_endfixbackup.zip"), l.ArchiveFile(world))
	assert.Equal(t, filepath.Join(world, "endfix.reset_end_island"), l.MarkerFile(world))
	assert.NoError(t, l.Validate())
}

func TestLayoutValidate(t *testing.T) {
	l := testLayout()
	l.Marker = "../escape"
	assert.Error(t, l.Validate())

	l = testLayout()
	l.TempSuffix = l.BackupSuffix
	assert.Error(t, l.Validate())

	l = testLayout()
	l.LevelFile = ""
	assert.Error(t, l.Validate())
}

func TestResolveLevelDir(t *testing.T) {
	dir, err := ResolveLevelDir("/game", "world")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/game", "world"), dir)

	dir, err = ResolveLevelDir("/game", "/elsewhere/world")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/elsewhere/world"), dir)

	_, err = ResolveLevelDir("/game", "")
	assert.Error(t, err)
}
