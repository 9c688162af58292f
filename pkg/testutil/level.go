package testutil

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/endfix/pkg/nbt"
	"github.com/arthur-debert/endfix/pkg/types"
)

// Identifiers used by the default configuration
const (
	EndDimension       = "minecraft:the_end"
	EndDimensionType   = "minecraft:the_end"
	BadGenerator       = "bclib:betterx"
	NoiseGenerator     = "minecraft:noise"
	EndNoiseSettings   = "minecraft:end"
	OverworldDimension = "minecraft:overworld"
)

// LevelBuilder builds level.dat trees. NewLevel starts from a healthy save;
// the With* methods introduce the shapes the detector has to recognise.
type LevelBuilder struct {
	root *nbt.Compound
}

// NewLevel returns a builder for a healthy save with a vanilla end generator
func NewLevel() *LevelBuilder {
	overworldGen := nbt.NewCompound()
	overworldGen.PutString("type", NoiseGenerator)
	overworldGen.PutString("settings", "minecraft:overworld")
	overworldBiomes := nbt.NewCompound()
	overworldBiomes.PutString("type", "minecraft:multi_noise")
	overworldBiomes.PutString("preset", "minecraft:overworld")
	overworldGen.Put("biome_source", overworldBiomes)

	overworld := nbt.NewCompound()
	overworld.PutString("type", "minecraft:overworld")
	overworld.Put("generator", overworldGen)

	dimensions := nbt.NewCompound()
	dimensions.Put(OverworldDimension, overworld)
	dimensions.Put(EndDimension, vanillaEnd())

	worldGen := nbt.NewCompound()
	worldGen.Put("bonus_chest", nbt.Byte(0))
	worldGen.Put("seed", nbt.Long(-4172144997902289642))
	worldGen.Put("generate_features", nbt.Byte(1))
	worldGen.Put("dimensions", dimensions)

	gameRules := nbt.NewCompound()
	gameRules.PutString("doDaylightCycle", "true")
	gameRules.PutString("keepInventory", "false")

	dataPacks := nbt.NewCompound()
	enabled := nbt.NewList(nbt.TagString)
	_ = enabled.Append(nbt.String("vanilla"))
	_ = enabled.Append(nbt.String("file/bclib"))
	dataPacks.Put("Enabled", enabled)
	dataPacks.Put("Disabled", nbt.NewList(nbt.TagEnd))

	data := nbt.NewCompound()
	data.PutString("LevelName", "New World")
	data.Put("DataVersion", nbt.Int(3465))
	data.Put("version", nbt.Int(19133))
	data.Put("SpawnX", nbt.Int(-48))
	data.Put("SpawnY", nbt.Int(71))
	data.Put("SpawnZ", nbt.Int(112))
	data.Put("Time", nbt.Long(1204332))
	data.Put("BorderSize", nbt.Double(5.9999968e7))
	data.Put("SpawnAngle", nbt.Float(0.0))
	data.Put("GameRules", gameRules)
	data.Put("DataPacks", dataPacks)
	data.Put("WorldGenSettings", worldGen)
	data.Put("WanderingTraderId", nbt.IntArray{1204, -77, 9001, 42})
	data.Put("ServerBrands", stringList("fabric"))

	root := nbt.NewCompound()
	root.Put("Data", data)
	return &LevelBuilder{root: root}
}

func vanillaEnd() *nbt.Compound {
	biomes := nbt.NewCompound()
	biomes.PutString("type", EndDimensionType)

	gen := nbt.NewCompound()
	gen.PutString("type", NoiseGenerator)
	gen.Put("biome_source", biomes)
	gen.PutString("settings", EndNoiseSettings)

	end := nbt.NewCompound()
	end.PutString("type", EndDimensionType)
	end.Put("generator", gen)
	return end
}

func stringList(values ...string) *nbt.List {
	l := nbt.NewList(nbt.TagString)
	for _, v := range values {
		_ = l.Append(nbt.String(v))
	}
	return l
}

func (b *LevelBuilder) dimensions() *nbt.Compound {
	dims, _ := b.root.Lookup("Data", "WorldGenSettings", "dimensions")
	return dims
}

// Defective sets the end generator to the known-bad signature, carrying the
// extra fields such a generator has in the wild.
func (b *LevelBuilder) Defective() *LevelBuilder {
	biomes := nbt.NewCompound()
	biomes.PutString("type", "bclib:end_biome_source")
	biomes.Put("seed", nbt.Long(-4172144997902289642))
	biomes.Put("version", nbt.Int(18000))

	gen := nbt.NewCompound()
	gen.PutString("type", BadGenerator)
	gen.Put("biome_source", biomes)
	gen.PutString("settings", EndNoiseSettings)
	gen.Put("bclib_version", nbt.String("3.0.14"))

	end := nbt.NewCompound()
	end.PutString("type", EndDimensionType)
	end.Put("generator", gen)
	b.dimensions().Put(EndDimension, end)
	return b
}

// WithEndGenerator sets the end generator's type
func (b *LevelBuilder) WithEndGenerator(generatorType string) *LevelBuilder {
	gen, _ := b.dimensions().Lookup(EndDimension, "generator")
	gen.PutString("type", generatorType)
	return b
}

// WithoutEnd removes the end dimension entirely
func (b *LevelBuilder) WithoutEnd() *LevelBuilder {
	b.dimensions().Delete(EndDimension)
	return b
}

// WithEmptyEnd keeps the end dimension key with no fields
func (b *LevelBuilder) WithEmptyEnd() *LevelBuilder {
	b.dimensions().Put(EndDimension, nbt.NewCompound())
	return b
}

// WithEndWithoutGenerator keeps the end dimension's type but drops its generator
func (b *LevelBuilder) WithEndWithoutGenerator() *LevelBuilder {
	end, _ := b.dimensions().GetCompound(EndDimension)
	end.Delete("generator")
	return b
}

// WithoutDimensions removes the dimensions compound
func (b *LevelBuilder) WithoutDimensions() *LevelBuilder {
	worldGen, _ := b.root.Lookup("Data", "WorldGenSettings")
	worldGen.Delete("dimensions")
	return b
}

// WithoutWorldGenSettings removes the whole world generation section
func (b *LevelBuilder) WithoutWorldGenSettings() *LevelBuilder {
	data, _ := b.root.GetCompound("Data")
	data.Delete("WorldGenSettings")
	return b
}

// Root returns the tree being built
func (b *LevelBuilder) Root() *nbt.Compound {
	return b.root
}

// Bytes returns the gzip-compressed encoding
func (b *LevelBuilder) Bytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := nbt.WriteCompressed(&buf, "", b.root); err != nil {
		t.Fatalf("Failed to encode level: %v", err)
	}
	return buf.Bytes()
}

// WriteTo writes the compressed level to path, creating parent directories
func (b *LevelBuilder) WriteTo(t *testing.T, fsys types.FS, path string) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := fsys.WriteFile(path, b.Bytes(t), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadLevel decodes a compressed level file
func ReadLevel(t *testing.T, fsys types.FS, path string) *nbt.Compound {
	t.Helper()
	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	_, root, err := nbt.ReadCompressed(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", path, err)
	}
	return root
}

// EndGenerator returns the end generator compound of a decoded level
func EndGenerator(root *nbt.Compound) (*nbt.Compound, bool) {
	return root.Lookup("Data", "WorldGenSettings", "dimensions", EndDimension, "generator")
}
