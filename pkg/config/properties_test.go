package config

import (
	"testing"

	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLevelName(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"plain", "level-name=survival\n", "survival"},
		{"colon separator", "level-name: creative\n", "creative"},
		{"comments and other keys", "#Minecraft server properties\nmotd=A Server\nlevel-name=hardcore\nrcon.port=25575\n", "hardcore"},
		{"key absent", "motd=hi\n", "world"},
		{"blank value", "level-name=\n", "world"},
		{"escaped space", "level-name=my\\ world\n", "my world"},
		{"continuation line", "level-name=long\\\n    name\n", "longname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
			require.NoError(t, fsys.WriteFile("/game/server.properties", []byte(tt.content), 0644))

			name, err := ReadLevelName(fsys, "/game/server.properties", "world")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
		_, err := ReadLevelName(fsys, "/game/server.properties", "world")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnreadableSource))
	})
}

func TestPropertiesParserMarshal(t *testing.T) {
	p := PropertiesParser()
	out, err := p.Marshal(map[string]interface{}{"level-name": "world", "max-players": 20})
	require.NoError(t, err)

	back, err := p.Unmarshal(out)
	require.NoError(t, err)
	assert.Equal(t, "world", back["level-name"])
	assert.Equal(t, "20", back["max-players"])
}
