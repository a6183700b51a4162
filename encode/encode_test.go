package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(2, 1, color.RGBA{0, 0, 255, 255})
	return img
}

func TestEncodeDecodeFormats(t *testing.T) {
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		PNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		BMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		TIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		WEBP: func(r *bytes.Reader) (image.Image, error) { return webp.Decode(r) },
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, testImage(), format))

			got, err := decode(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())

			r, g, b, _ := got.At(0, 0).RGBA()
			assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
			r, g, b, _ = got.At(2, 1).RGBA()
			assert.Equal(t, []uint32{0, 0, 0xffff}, []uint32{r, g, b})
		})
	}
}

func TestEncodeRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(), Raw))
	assert.Equal(t, 24, buf.Len())
	assert.Equal(t, []byte{255, 0, 0, 255}, buf.Bytes()[:4])

	buf.Reset()
	sub := testImage().SubImage(image.Rect(1, 1, 3, 2))
	require.NoError(t, Encode(&buf, sub, Raw))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 255, 255}, buf.Bytes())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"PNG": PNG, ".bmp": BMP, "tif": TIFF, "tiff": TIFF, "WebP": WEBP, "rgba": Raw} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("gif")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Error(t, Encode(&bytes.Buffer{}, testImage(), Format("gif")))
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/out.PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = FormatFromPath("/tmp/out")
	assert.Error(t, err)
}
