// Package util loads recorded camera frames from disk.
package util

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-edgecam/images"
)

// FrameFile is one raw frame read from a capture directory.
type FrameFile struct {
	// Path is the path to the frame file.
	Path string
	// Data is the raw frame bytes.
	Data []byte
	// Frame is the frame number parsed from the file name.
	Frame int
	// Format is the layout implied by the extension.
	Format images.ImageFormat
}

// frameExtensions maps recorded frame extensions to their layout.
var frameExtensions = map[string]images.ImageFormat{
	".nv21": images.FormatNV21,
	".yuv":  images.FormatNV21,
	".i420": images.FormatI420,
}

// FrameNumber parses names such as "frame-12.nv21" or "12.nv21".
func FrameNumber(name string) (int, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	n, err := strconv.Atoi(strings.TrimPrefix(base, "frame-"))
	if err != nil {
		return 0, errors.Wrapf(err, "frame number in %q", name)
	}
	return n, nil
}

// LoadDirectoryFrameFiles reads all raw frame files from a directory.
//
// Arguments:
// - dir: Directory path containing frame-<n>.nv21, .yuv or .i420 files.
//
// Returns:
// - []FrameFile: Frames ordered by frame number.
// - error: Error if the directory or a file cannot be read, or a name has no frame number.
func LoadDirectoryFrameFiles(dir string) ([]FrameFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read frame directory %s", dir)
	}

	var frames []FrameFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		format, ok := frameExtensions[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}

		n, err := FrameNumber(entry.Name())
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read frame %s", path)
		}
		frames = append(frames, FrameFile{
			Path:   path,
			Data:   data,
			Frame:  n,
			Format: format,
		})
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Frame < frames[j].Frame
	})

	return frames, nil
}

// NV21 returns the frame as NV21, repacking I420 files.
func (f FrameFile) NV21(width, height int) ([]byte, error) {
	if f.Format == images.FormatI420 {
		return images.I420ToNV21(f.Data, width, height)
	}
	return f.Data, nil
}
