package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-edgecam/images"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"edgecam", "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFrame(t *testing.T, dir string, width, height int) string {
	t.Helper()
	buf := make([]byte, images.NV21Size(width, height))
	for i := range buf {
		buf[i] = 128
	}
	path := filepath.Join(dir, "frame.nv21")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestSizesCommand(t *testing.T) {
	out, err := run(t, "sizes", "--max-width", "800", "--max-height", "600")
	require.NoError(t, err)

	assert.Contains(t, out, "VGA")
	assert.Contains(t, out, "preview for 800x600: 640x360")

	var marked int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasSuffix(strings.TrimSpace(line), "*") {
			marked++
			assert.Contains(t, line, "640x360")
		}
	}
	assert.Equal(t, 1, marked)
}

func TestProcessCommandPNG(t *testing.T) {
	dir := t.TempDir()
	in := writeFrame(t, dir, 8, 6)
	outPath := filepath.Join(dir, "out.png")

	_, err := run(t, "process", "--in", in, "--width", "8", "--height", "6", "--out", outPath)
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestProcessCommandRawEdges(t *testing.T) {
	dir := t.TempDir()
	in := writeFrame(t, dir, 4, 4)
	outPath := filepath.Join(dir, "out.rgba")

	_, err := run(t, "process", "--in", in, "--width", "4", "--height", "4", "--edges", "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 4*4*4), data)
}

func TestProcessCommandMaxWidth(t *testing.T) {
	dir := t.TempDir()
	in := writeFrame(t, dir, 16, 8)
	outPath := filepath.Join(dir, "small.png")

	_, err := run(t, "process", "--in", in, "--width", "16", "--height", "8", "--max-width", "8", "--out", outPath)
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestProcessCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFrame(t, dir, 4, 4)

	_, err := run(t, "process", "--in", in, "--width", "8", "--height", "8", "--out", filepath.Join(dir, "a.png"))
	assert.Error(t, err, "frame file too short")

	_, err = run(t, "process", "--in", in, "--width", "4", "--height", "4", "--out", filepath.Join(dir, "a.gif"))
	assert.Error(t, err, "unknown output extension")

	_, err = run(t, "process", "--in", in, "--width", "4", "--height", "4", "--input-format", "rgba", "--out", filepath.Join(dir, "a.png"))
	assert.Error(t, err, "unsupported input layout")

	_, err = run(t, "process", "--in", filepath.Join(dir, "missing"), "--width", "4", "--height", "4", "--out", filepath.Join(dir, "a.png"))
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "edgecam.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("preview:\n  max_width: 320\n  max_height: 240\n"), 0o644))

	out, err := run(t, "--config", cfgPath, "sizes")
	require.NoError(t, err)
	assert.Contains(t, out, "preview for 320x240: 320x240")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("processing:\n  edge_mask: glowing\n"), 0o644))
	_, err = run(t, "--config", bad, "sizes")
	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(inDir, 0o755))
	frame := make([]byte, images.NV21Size(4, 2))
	for i := range frame {
		frame[i] = 128
	}
	for _, name := range []string{"frame-1.nv21", "frame-2.nv21", "frame-3.i420"} {
		require.NoError(t, os.WriteFile(filepath.Join(inDir, name), frame, 0o644))
	}
	outDir := filepath.Join(dir, "out")

	_, err := run(t, "batch", "--in-dir", inDir, "--out-dir", outDir, "--width", "4", "--height", "2", "--format", "raw", "--workers", "2")
	require.NoError(t, err)

	for _, n := range []int{1, 2, 3} {
		data, err := os.ReadFile(filepath.Join(outDir, "frame-"+strconv.Itoa(n)+".rgba"))
		require.NoError(t, err, "frame %d", n)
		assert.Len(t, data, 4*2*4)
	}
}
