// Package encode writes processed frames as still images.
package encode

import (
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format names a still image encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	// WEBP is lossless WebP; transparent edge backgrounds survive exactly.
	WEBP Format = "webp"
	// Raw writes the packed RGBA bytes with no header.
	Raw Format = "raw"
)

// ErrUnsupportedFormat is returned for unknown format names or extensions.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case WEBP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat accepts png, bmp, tiff/tif, webp and raw/rgba.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "webp":
		return WEBP, nil
	case "raw", "rgba":
		return Raw, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.Wrapf(ErrUnsupportedFormat, "no extension on %q", path)
	}
	return ParseFormat(ext)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case WEBP:
		err = webp.Encode(w, img, &webp.Options{Lossless: true, Exact: true})
	case Raw:
		err = writeRaw(w, img)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	return errors.Wrapf(err, "encode %s", format)
}

func writeRaw(w io.Writer, img image.Image) error {
	rgba, ok := img.(*image.RGBA)
	b := img.Bounds()
	if !ok || rgba.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	_, err := w.Write(rgba.Pix[:b.Dx()*b.Dy()*4])
	return err
}
