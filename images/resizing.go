package images

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ToRGBAImage wraps a packed RGBA buffer in an *image.RGBA without copying.
//
// Arguments:
//   - rgba: The packed RGBA bytes, at least width*height*4 long.
//   - width: The width of the frame.
//   - height: The height of the frame.
//
// Returns:
//   - *image.RGBA: An image sharing rgba as its Pix slice.
//   - error: ErrBadDimensions or ErrShortBuffer.
func ToRGBAImage(rgba []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrBadDimensions, "%dx%d", width, height)
	}
	size := RGBASize(width, height)
	if len(rgba) < size {
		return nil, errors.Wrapf(ErrShortBuffer, "rgba %dx%d needs %d bytes, got %d", width, height, size, len(rgba))
	}
	return &image.RGBA{
		Pix:    rgba[:size:size],
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// FromImage converts any image into an Image with Format rgba.
func FromImage(img image.Image) Image {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return Image{
		Format: FormatRGBA,
		Data:   rgba.Pix[:RGBASize(b.Dx(), b.Dy())],
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// ScaleToWidth downsizes img so it is at most maxWidth pixels wide, keeping
// the aspect ratio. Images already narrow enough, or a non-positive
// maxWidth, return img unchanged.
func ScaleToWidth(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	// A zero height lets resize preserve the aspect ratio.
	return resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
}

// Thumbnail fits img inside maxWidth x maxHeight, keeping the aspect ratio.
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	if maxWidth <= 0 || maxHeight <= 0 {
		return img
	}
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, resize.Bilinear)
}
