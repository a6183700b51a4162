// Package images - frame containers and raw pixel layout helpers for the
// camera pipeline.
package images

import (
	"github.com/pkg/errors"
)

var (
	// ErrBadDimensions is returned when a width or height is not positive.
	ErrBadDimensions = errors.New("dimensions must be positive")
	// ErrShortBuffer is returned when a buffer is smaller than its layout requires.
	ErrShortBuffer = errors.New("buffer too small for dimensions")
	// ErrUnknownFormat is returned for formats without a fixed raw layout.
	ErrUnknownFormat = errors.New("unknown raw format")
)

// Image represents an image with a format, data, width, and height.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The data of the image.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// FrameSize returns the minimum number of bytes a raw frame of the given
// format and dimensions occupies.
//
// Arguments:
//   - format: A raw format (nv21, i420, rgba, gray).
//   - width: The frame width in pixels.
//   - height: The frame height in pixels.
//
// Returns:
//   - int: The byte count.
//   - error: ErrBadDimensions or ErrUnknownFormat.
func FrameSize(format ImageFormat, width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, errors.Wrapf(ErrBadDimensions, "%dx%d", width, height)
	}
	switch format {
	case FormatNV21:
		return NV21Size(width, height), nil
	case FormatI420:
		return I420Size(width, height), nil
	case FormatRGBA:
		return RGBASize(width, height), nil
	case FormatGray:
		return width * height, nil
	default:
		return 0, errors.Wrapf(ErrUnknownFormat, "format %q", format)
	}
}

// Validate checks that the image has positive dimensions and, for raw
// formats, enough data to cover them. Encoded formats only need data.
func (i Image) Validate() error {
	if !i.Format.Raw() {
		if len(i.Data) == 0 {
			return errors.Wrapf(ErrShortBuffer, "%s image has no data", i.Format)
		}
		return nil
	}
	need, err := FrameSize(i.Format, i.Width, i.Height)
	if err != nil {
		return err
	}
	if len(i.Data) < need {
		return errors.Wrapf(ErrShortBuffer, "%s %dx%d needs %d bytes, got %d",
			i.Format, i.Width, i.Height, need, len(i.Data))
	}
	return nil
}
