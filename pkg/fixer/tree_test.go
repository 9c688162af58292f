package fixer

import (
	"testing"

	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/nbt"
	"github.com/arthur-debert/endfix/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDimension(t *testing.T) {
	fix := config.Default().Fix

	t.Run("existing dimension keeps its fields", func(t *testing.T) {
		root := testutil.NewLevel().Defective().Root()
		end, _ := root.Lookup("Data", "WorldGenSettings", "dimensions", fix.Dimension)
		end.Put("custom", nbt.Int(7))

		got, err := EnsureDimension(root, fix)
		require.NoError(t, err)
		assert.Same(t, end, got)
		assert.Equal(t, []string{"type", "generator", "custom"}, got.Keys())
	})

	t.Run("type is added when missing", func(t *testing.T) {
		root := testutil.NewLevel().Root()
		end, _ := root.Lookup("Data", "WorldGenSettings", "dimensions", fix.Dimension)
		end.Delete("type")

		got, err := EnsureDimension(root, fix)
		require.NoError(t, err)
		typ, _ := got.GetString("type")
		assert.Equal(t, fix.DimensionType, typ)
	})

	t.Run("new dimension is attached to the tree", func(t *testing.T) {
		root := testutil.NewLevel().WithEmptyEnd().Root()

		got, err := EnsureDimension(root, fix)
		require.NoError(t, err)
		attached, _ := root.Lookup("Data", "WorldGenSettings", "dimensions", fix.Dimension)
		assert.Same(t, attached, got)
		assert.Equal(t, `{type:"minecraft:the_end",generator:{}}`, got.String())
	})

	t.Run("non-compound dimension is rebuilt", func(t *testing.T) {
		root := testutil.NewLevel().Root()
		dims, _ := root.Lookup("Data", "WorldGenSettings", "dimensions")
		dims.Put(fix.Dimension, nbt.String("oops"))

		got, err := EnsureDimension(root, fix)
		require.NoError(t, err)
		attached, ok := root.Lookup("Data", "WorldGenSettings", "dimensions", fix.Dimension)
		require.True(t, ok)
		assert.Same(t, attached, got)
		assert.Equal(t, `{type:"minecraft:the_end",generator:{}}`, got.String())
		assert.Equal(t, []string{"minecraft:overworld", fix.Dimension}, dims.Keys(), "entry keeps its position")
	})

	t.Run("non-compound dimensions is rebuilt", func(t *testing.T) {
		root := testutil.NewLevel().Root()
		worldGen, _ := root.Lookup("Data", "WorldGenSettings")
		worldGen.Put("dimensions", nbt.Int(3))

		got, err := EnsureDimension(root, fix)
		require.NoError(t, err)
		attached, ok := root.Lookup("Data", "WorldGenSettings", "dimensions", fix.Dimension)
		require.True(t, ok)
		assert.Same(t, attached, got)
	})

	t.Run("world gen settings missing", func(t *testing.T) {
		root := testutil.NewLevel().WithoutWorldGenSettings().Root()

		_, err := EnsureDimension(root, fix)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedStructure))
	})
}

func TestReplaceGeneratorKeepsPosition(t *testing.T) {
	fix := config.Default().Fix
	root := testutil.NewLevel().Defective().Root()
	end, _ := root.Lookup("Data", "WorldGenSettings", "dimensions", fix.Dimension)
	old, _ := end.GetCompound("generator")

	ReplaceGenerator(end, fix)

	gen, _ := end.GetCompound("generator")
	assert.NotSame(t, old, gen, "a fresh compound is swapped in")
	assert.Equal(t, []string{"type", "generator"}, end.Keys())
	assert.Equal(t, []string{"type", "biome_source", "settings"}, gen.Keys())
}
