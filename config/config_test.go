package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-edgecam/frame"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edgecam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.ProcessorOptions()
	require.NoError(t, err)
	assert.Equal(t, frame.DefaultOptions(), opts)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
processing:
  low_threshold: 40
  high_threshold: 120
  edge_mask: opaque
  rotation: "90"
server:
  addr: "127.0.0.1:9000"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format, "unset keys keep their defaults")
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 1280, cfg.Preview.MaxWidth)

	p, err := cfg.Processor()
	require.NoError(t, err)
	assert.Equal(t, frame.Options{
		LowThreshold:  40,
		HighThreshold: 120,
		EdgeMask:      frame.EdgeMaskOpaque,
		Rotation:      frame.Rotate90Clockwise,
	}, p.Options())
}

func TestLoadFromFileRejectsBadValues(t *testing.T) {
	testCases := map[string]string{
		"inverted thresholds": "processing:\n  low_threshold: 200\n  high_threshold: 100\n",
		"unknown rotation":    "processing:\n  rotation: sideways\n",
		"unknown edge mask":   "processing:\n  edge_mask: neon\n",
		"zero preview":        "preview:\n  max_width: 0\n",
		"not yaml":            "processing: [",
	}
	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
