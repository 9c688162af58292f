package fixer

import (
	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/nbt"
)

// EnsureDimension returns the target dimension compound, creating it with
// the minimal {type, generator} shape when it is absent, empty or not a
// compound. A non-compound dimensions node is replaced the same way.
func EnsureDimension(root *nbt.Compound, fix config.Fix) (*nbt.Compound, error) {
	worldGen, ok := root.Lookup("Data", "WorldGenSettings")
	if !ok {
		return nil, errors.New(errors.ErrUnsupportedStructure, "Data.WorldGenSettings is missing")
	}

	dimensions, ok := worldGen.GetCompound("dimensions")
	if !ok {
		dimensions = nbt.NewCompound()
		worldGen.Put("dimensions", dimensions)
	}

	dimension, ok := dimensions.GetCompound(fix.Dimension)
	if !ok || dimension.IsEmpty() {
		dimension = nbt.NewCompound()
		dimension.PutString("type", fix.DimensionType)
		dimension.Put("generator", nbt.NewCompound())
		dimensions.Put(fix.Dimension, dimension)
		return dimension, nil
	}

	if !dimension.Has("type") {
		dimension.PutString("type", fix.DimensionType)
	}
	return dimension, nil
}

// NewGenerator builds the replacement generator subtree
func NewGenerator(fix config.Fix) *nbt.Compound {
	biomeSource := nbt.NewCompound()
	biomeSource.PutString("type", fix.DimensionType)

	generator := nbt.NewCompound()
	generator.PutString("type", fix.GeneratorType)
	generator.Put("biome_source", biomeSource)
	generator.PutString("settings", fix.GeneratorSettings)
	return generator
}

// ReplaceGenerator swaps the dimension's generator for a fresh one. The old
// subtree is dropped whole; the entry keeps its position in the compound.
func ReplaceGenerator(dimension *nbt.Compound, fix config.Fix) {
	dimension.Put("generator", NewGenerator(fix))
}
