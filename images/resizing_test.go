package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}
	return img
}

func TestToRGBAImage(t *testing.T) {
	buf := make([]byte, RGBASize(2, 2)+4)
	buf[4], buf[5], buf[6], buf[7] = 1, 2, 3, 4

	img, err := ToRGBAImage(buf, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBA{1, 2, 3, 4}, img.RGBAAt(1, 0))
	assert.Len(t, img.Pix, 16, "trailing bytes should not be part of the image")

	_, err = ToRGBAImage(buf[:15], 2, 2)
	assert.True(t, errors.Is(err, ErrShortBuffer))

	_, err = ToRGBAImage(buf, 0, 2)
	assert.True(t, errors.Is(err, ErrBadDimensions))
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.NRGBA{10, 20, 30, 255})

	out := FromImage(src)
	assert.Equal(t, FormatRGBA, out.Format)
	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 1, out.Height)
	assert.Equal(t, []byte{10, 20, 30, 255}, out.Data[:4])
	assert.NoError(t, out.Validate())
}

func TestScaleToWidth(t *testing.T) {
	img := getTestImage()

	scaled := ScaleToWidth(img, 50)
	assert.Equal(t, 50, scaled.Bounds().Dx())
	assert.Equal(t, 25, scaled.Bounds().Dy(), "aspect ratio should be preserved")

	assert.Same(t, img, ScaleToWidth(img, 200), "narrow images should be returned as is")
	assert.Same(t, img, ScaleToWidth(img, 0))
}

func TestThumbnail(t *testing.T) {
	thumb := Thumbnail(getTestImage(), 40, 40)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 40)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), 40)
}
