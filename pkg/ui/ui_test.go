package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/endfix/pkg/core"
	"github.com/arthur-debert/endfix/pkg/detector"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/scanner"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/arthur-debert/endfix/pkg/ui"
	"github.com/arthur-debert/endfix/pkg/ui/display"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *core.Report {
	return &core.Report{
		GameDir: "/game",
		Worlds: []core.WorldReport{
			{
				World: scanner.World{
					SaveCandidate: types.NewSaveCandidate("/game/saves/alpha", "level.dat"),
					Source:        scanner.SourceSaves,
					Result:        detector.Result{NeedsFix: true, Reason: detector.ReasonBadGenerator, GeneratorType: "bclib:betterx"},
					MarkerPending: true,
				},
				Status: core.StatusFixed,
			},
		},
		Fixed:             1,
		PendingMarkers:    1,
		TriggerRegistered: true,
	}
}

func TestNewRenderer(t *testing.T) {
	formats := []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON, ui.FormatYAML, ui.FormatTOML}
	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			r, err := ui.NewRenderer(f, &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}

	_, err := ui.NewRenderer(ui.Format(999), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	tests := []struct {
		name     string
		format   ui.Format
		contains []string
	}{
		{
			name:     "text",
			format:   ui.FormatText,
			contains: []string{"Game directory: /game", "alpha", "fixed", "bad_generator", "1 fixed, 1 checked"},
		},
		{
			name:     "terminal",
			format:   ui.FormatTerminal,
			contains: []string{"/game", "alpha", "fixed", "trigger registered"},
		},
		{
			name:     "yaml",
			format:   ui.FormatYAML,
			contains: []string{"game_dir: /game", "world_dir: /game/saves/alpha", "status: fixed"},
		},
		{
			name:     "toml",
			format:   ui.FormatTOML,
			contains: []string{"game_dir = '/game'", "status = 'fixed'", "[[worlds]]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r, err := ui.NewRenderer(tt.format, &buf)
			require.NoError(t, err)
			require.NoError(t, r.RenderResult(sampleReport()))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRenderReportMachineReadable(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := ui.NewRenderer(ui.FormatJSON, &buf)
		require.NoError(t, err)
		require.NoError(t, r.RenderResult(sampleReport()))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "/game", decoded["game_dir"])
		worlds := decoded["worlds"].([]interface{})
		require.Len(t, worlds, 1)
		w := worlds[0].(map[string]interface{})
		assert.Equal(t, "/game/saves/alpha", w["world_dir"])
		assert.Equal(t, true, w["marker_pending"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := ui.NewRenderer(ui.FormatYAML, &buf)
		require.NoError(t, err)
		require.NoError(t, r.RenderResult(sampleReport()))

		var decoded core.Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Worlds, 1)
		assert.Equal(t, core.StatusFixed, decoded.Worlds[0].Status)
		assert.Equal(t, detector.ReasonBadGenerator, decoded.Worlds[0].Result.Reason)
	})

	t.Run("toml", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := ui.NewRenderer(ui.FormatTOML, &buf)
		require.NoError(t, err)
		require.NoError(t, r.RenderResult(sampleReport()))

		var decoded map[string]interface{}
		require.NoError(t, gotoml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, int64(1), decoded["fixed"])
	})
}

func TestRenderActivation(t *testing.T) {
	act := &display.Activation{WorldDir: "/game/saves/alpha", Dimension: "minecraft:the_end", Fired: true}

	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(act))
	assert.Equal(t, "Reset command dispatched for alpha on minecraft:the_end\n", buf.String())

	buf.Reset()
	r, err = ui.NewRenderer(ui.FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(act))
	assert.Contains(t, buf.String(), `"fired": true`)
}

func TestRenderError(t *testing.T) {
	failure := errors.New(errors.ErrConfigLoad, "no such file")

	tests := []struct {
		name     string
		format   ui.Format
		contains []string
	}{
		{"text", ui.FormatText, []string{"Error: [CONFIG_LOAD] no such file"}},
		{"terminal", ui.FormatTerminal, []string{"no such file", "CONFIG_LOAD"}},
		{"json", ui.FormatJSON, []string{`"code": "CONFIG_LOAD"`, `"error": "[CONFIG_LOAD] no such file"`}},
		{"yaml", ui.FormatYAML, []string{"code: CONFIG_LOAD"}},
		{"toml", ui.FormatTOML, []string{"code = 'CONFIG_LOAD'"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r, err := ui.NewRenderer(tt.format, &buf)
			require.NoError(t, err)
			require.NoError(t, r.RenderError(failure))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRenderMessage(t *testing.T) {
	tests := []struct {
		format   ui.Format
		expected string
	}{
		{ui.FormatText, "hello\n"},
		{ui.FormatJSON, "{\n  \"message\": \"hello\"\n}\n"},
		{ui.FormatYAML, "message: hello\n"},
		{ui.FormatTOML, "message = 'hello'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			r, err := ui.NewRenderer(tt.format, &buf)
			require.NoError(t, err)
			require.NoError(t, r.RenderMessage("hello"))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}
