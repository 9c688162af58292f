package nbt_test

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/nbt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTree exercises every tag kind
func sampleTree(t *testing.T) *nbt.Compound {
	t.Helper()

	root := nbt.NewCompound()
	data := nbt.NewCompound()
	data.Put("Difficulty", nbt.Byte(2))
	data.Put("DataVersion", nbt.Int(3465))
	data.Put("Time", nbt.Long(-1234567890123))
	data.Put("SpawnAngle", nbt.Float(90.5))
	data.Put("BorderCenterX", nbt.Double(-0.25))
	data.Put("WanderingTraderSpawnChance", nbt.Short(25))
	data.PutString("LevelName", "Survival é")
	data.Put("Seeds", nbt.LongArray{1, -2, 3})
	data.Put("Cookie", nbt.ByteArray{0x00, 0xff, 0x10})
	data.Put("UUID", nbt.IntArray{1, 2, 3, -4})

	enabled := nbt.NewList(nbt.TagString)
	require.NoError(t, enabled.Append(nbt.String("vanilla")))
	require.NoError(t, enabled.Append(nbt.String("fabric")))
	packs := nbt.NewCompound()
	packs.Put("Enabled", enabled)
	packs.Put("Disabled", nbt.NewList(nbt.TagEnd))
	data.Put("DataPacks", packs)

	dims := nbt.NewCompound()
	end := nbt.NewCompound()
	end.PutString("type", "minecraft:the_end")
	gen := nbt.NewCompound()
	gen.PutString("type", "bclib:betterx")
	end.Put("generator", gen)
	dims.Put("minecraft:the_end", end)
	wgs := nbt.NewCompound()
	wgs.Put("seed", nbt.Long(42))
	wgs.Put("dimensions", dims)
	data.Put("WorldGenSettings", wgs)

	root.Put("Data", data)
	return root
}

func TestRoundTrip(t *testing.T) {
	root := sampleTree(t)

	encoded, err := nbt.Encode("", root)
	require.NoError(t, err)

	name, decoded, err := nbt.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "", name)
	assert.Equal(t, root.Keys(), decoded.Keys())

	reencoded, err := nbt.Encode(name, decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded, "decode then encode must be byte-exact")

	data, ok := decoded.GetCompound("Data")
	require.True(t, ok)
	levelName, ok := data.GetString("LevelName")
	require.True(t, ok)
	assert.Equal(t, "Survival é", levelName)

	gen, ok := decoded.Lookup("Data", "WorldGenSettings", "dimensions", "minecraft:the_end", "generator")
	require.True(t, ok)
	typ, _ := gen.GetString("type")
	assert.Equal(t, "bclib:betterx", typ)
}

func TestCompressedRoundTrip(t *testing.T) {
	root := sampleTree(t)

	var buf bytes.Buffer
	require.NoError(t, nbt.WriteCompressed(&buf, "root", root))

	name, decoded, err := nbt.ReadCompressed(&buf)
	require.NoError(t, err)
	assert.Equal(t, "root", name)

	want, err := nbt.Encode("root", root)
	require.NoError(t, err)
	got, err := nbt.Encode(name, decoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRawStringBytesSurvive(t *testing.T) {
	// Modified UTF-8 encodes NUL as C0 80, which is not valid UTF-8
	raw := string([]byte{'a', 0xC0, 0x80, 'b'})
	root := nbt.NewCompound()
	root.PutString("weird", raw)

	encoded, err := nbt.Encode("", root)
	require.NoError(t, err)
	_, decoded, err := nbt.Decode(encoded)
	require.NoError(t, err)

	got, ok := decoded.GetString("weird")
	require.True(t, ok)
	assert.Equal(t, raw, got)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"root not a compound", []byte{byte(nbt.TagString), 0, 0, 0, 1, 'x'}},
		{"truncated name", []byte{byte(nbt.TagCompound), 0, 5, 'a'}},
		{"missing end", []byte{byte(nbt.TagCompound), 0, 0, byte(nbt.TagByte), 0, 1, 'a', 7}},
		{"unknown tag", []byte{byte(nbt.TagCompound), 0, 0, 99, 0, 0}},
		{"huge list", []byte{byte(nbt.TagCompound), 0, 0, byte(nbt.TagList), 0, 1, 'l', byte(nbt.TagLong), 0x7f, 0xff, 0xff, 0xff, 0}},
		{"negative array", []byte{byte(nbt.TagCompound), 0, 0, byte(nbt.TagIntArray), 0, 1, 'a', 0xff, 0xff, 0xff, 0xff, 0}},
		{"untyped non-empty list", []byte{byte(nbt.TagCompound), 0, 0, byte(nbt.TagList), 0, 1, 'l', 0, 0, 0, 0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := nbt.Decode(tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrNBTDecode))
		})
	}
}

func TestReadCompressedRejectsPlainBytes(t *testing.T) {
	_, _, err := nbt.ReadCompressed(bytes.NewReader([]byte("definitely not a level.dat")))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNBTDecode))
}

func TestReadCompressedRejectsGzippedGarbage(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, _, err = nbt.ReadCompressed(&buf)
	assert.Error(t, err)
}

func TestDecodeRejectsDeepNesting(t *testing.T) {
	var data []byte
	data = append(data, byte(nbt.TagCompound), 0, 0)
	for i := 0; i < nbt.MaxDepth+1; i++ {
		data = append(data, byte(nbt.TagCompound), 0, 1, 'c')
	}
	for i := 0; i < nbt.MaxDepth+2; i++ {
		data = append(data, byte(nbt.TagEnd))
	}

	_, _, err := nbt.Decode(data)
	assert.Error(t, err)
}

func TestEncodeRejectsInvalidLists(t *testing.T) {
	root := nbt.NewCompound()
	root.Put("mixed", &nbt.List{ElemType: nbt.TagInt, Items: []nbt.Tag{nbt.Int(1), nbt.String("x")}})

	_, err := nbt.Encode("", root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNBTEncode))
}
