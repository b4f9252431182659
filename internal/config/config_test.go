package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dice-reader/internal/dice"
	"dice-reader/internal/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dice-reader.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesPipelineDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	got, err := cfg.ToPipeline()
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultConfig(), got)
	assert.Equal(t, []string{"tirada_*.mp4"}, cfg.Input.Videos)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, pipeline.StrategyBuffer, cfg.Strategy)
}

func TestLoadOverrides(t *testing.T) {
	outDir := t.TempDir()
	path := writeConfig(t, `
strategy = " Window "

[input]
videos = ["a.mp4", " ", "b.mp4"]

[output]
dir = "`+filepath.ToSlash(outDir)+`"
still = true
still_format = ".TIFF"

[logging]
level = "DEBUG"
format = " JSON "

[segment]
red_low = { hue_min = 0, hue_max = 8, sat_min = 100, sat_max = 255, val_min = 90, val_max = 255 }

[window]
size = 6

[pips]
mode = "RAW"
`)

	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	assert.Equal(t, pipeline.StrategyWindow, cfg.Strategy)
	assert.Equal(t, []string{"a.mp4", "b.mp4"}, cfg.Input.Videos)
	assert.Equal(t, outDir, cfg.Output.Dir)
	assert.Equal(t, "tiff", cfg.Output.StillFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	p, err := cfg.ToPipeline()
	require.NoError(t, err)
	assert.Equal(t, 6, p.Window.Size)
	assert.Equal(t, dice.PipModeRaw, p.Dice.PipMode)
	assert.Equal(t, 8.0, p.Segment.RedLow.HueMax)
	assert.Equal(t, 175.0, p.Segment.RedHigh.HueMin, "untouched keys keep defaults")
	assert.Equal(t, "-annotated", p.Output.Suffix)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[buffer]
diff_treshold = 40
`)
	_, _, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diff_treshold")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"strategy":   `strategy = "median"`,
		"pip mode":   "[pips]\nmode = \"exact\"",
		"hue band":   "[segment]\nwhite = { hue_min = 0, hue_max = 200, sat_min = 0, sat_max = 60, val_min = 180, val_max = 255 }",
		"log level":  "[logging]\nlevel = \"loud\"",
		"log format": "[logging]\nformat = \"yaml\"",
		"window":     "[window]\nsize = 0",
		"area band":  "[dice]\narea_min = 20000.0",
		"slack":      "[buffer]\nmax_slack = -1",
		"kernel":     "[segment]\nopen_kernel = -3",
		"still kind": "[output]\nstill = true\nstill_format = \"gif\"",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, CreateSample(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, toml.Unmarshal(contents, &decoded))

	cfg, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	want := Default()
	require.NoError(t, want.normalize())
	assert.Equal(t, want, *cfg, "sample documents the defaults")
}
