package images

import (
	"github.com/pkg/errors"
)

// ErrShortPlane is returned when a capture plane is too small for its strides.
var ErrShortPlane = errors.New("plane too small for strides")

// ChromaSize returns the dimensions of a 4:2:0 chroma plane. Odd sizes
// round up so the last column and row still have a chroma sample.
func ChromaSize(width, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}

// NV21Size returns the minimum byte length of an NV21 frame.
func NV21Size(width, height int) int {
	cw, ch := ChromaSize(width, height)
	return width*height + 2*cw*ch
}

// I420Size returns the minimum byte length of an I420 frame.
func I420Size(width, height int) int {
	return NV21Size(width, height)
}

// RGBASize returns the byte length of a packed RGBA frame.
func RGBASize(width, height int) int {
	return width * height * 4
}

// PadNV21 grows an NV21 frame with odd dimensions to the next even size by
// replicating the last luma column and row. The chroma plane already covers
// the padded size and is copied as is. Even frames are returned unchanged
// (trimmed to their exact size) without copying.
//
// The caller must have validated len(data) >= NV21Size(width, height).
func PadNV21(data []byte, width, height int) ([]byte, int, int) {
	if width%2 == 0 && height%2 == 0 {
		return data[:NV21Size(width, height)], width, height
	}

	cw, ch := ChromaSize(width, height)
	pw, ph := cw*2, ch*2
	out := make([]byte, pw*ph+pw*ch)

	for y := 0; y < ph; y++ {
		src := y
		if src >= height {
			src = height - 1
		}
		row := data[src*width : src*width+width]
		dst := out[y*pw : y*pw+pw]
		copy(dst, row)
		for x := width; x < pw; x++ {
			dst[x] = row[width-1]
		}
	}

	chroma := data[width*height : width*height+2*cw*ch]
	copy(out[pw*ph:], chroma)
	return out, pw, ph
}

// I420ToNV21 repacks a contiguous I420 frame (Y, U, V planes) into NV21
// (Y, interleaved V/U).
func I420ToNV21(data []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrBadDimensions, "%dx%d", width, height)
	}
	size := I420Size(width, height)
	if len(data) < size {
		return nil, errors.Wrapf(ErrShortBuffer, "i420 %dx%d needs %d bytes, got %d", width, height, size, len(data))
	}

	cw, ch := ChromaSize(width, height)
	n := cw * ch
	luma := width * height
	u := data[luma : luma+n]
	v := data[luma+n : luma+2*n]

	out := make([]byte, size)
	copy(out, data[:luma])
	vu := out[luma:]
	for i := 0; i < n; i++ {
		vu[2*i] = v[i]
		vu[2*i+1] = u[i]
	}
	return out, nil
}

// Plane is one plane of a strided YUV 4:2:0 capture, as delivered by camera
// APIs that expose row and pixel strides.
type Plane struct {
	Data        []byte
	RowStride   int
	PixelStride int
}

// last returns the index of the last byte read for a cols x rows walk.
func (p Plane) last(cols, rows int) int {
	return (rows-1)*p.RowStride + (cols-1)*p.PixelStride
}

// PlanesToNV21 packs a three-plane YUV 4:2:0 capture into a contiguous NV21
// frame: the Y plane, then V and U samples interleaved. Row and pixel
// strides of every plane are honoured, so padded or semi-planar captures
// both work.
//
// Arguments:
//   - y, u, v: The capture planes.
//   - width, height: The luma dimensions.
//
// Returns:
//   - []byte: NV21Size(width, height) bytes.
//   - error: ErrBadDimensions or ErrShortPlane.
func PlanesToNV21(y, u, v Plane, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrBadDimensions, "%dx%d", width, height)
	}
	cw, ch := ChromaSize(width, height)

	for _, c := range []struct {
		name       string
		p          Plane
		cols, rows int
	}{
		{"y", y, width, height},
		{"u", u, cw, ch},
		{"v", v, cw, ch},
	} {
		if c.p.PixelStride <= 0 || c.p.RowStride <= 0 {
			return nil, errors.Wrapf(ErrShortPlane, "%s plane has non-positive stride", c.name)
		}
		if last := c.p.last(c.cols, c.rows); last >= len(c.p.Data) {
			return nil, errors.Wrapf(ErrShortPlane, "%s plane needs index %d, has %d bytes", c.name, last, len(c.p.Data))
		}
	}

	out := make([]byte, NV21Size(width, height))
	for row := 0; row < height; row++ {
		dst := out[row*width : row*width+width]
		if y.PixelStride == 1 {
			copy(dst, y.Data[row*y.RowStride:])
			continue
		}
		for col := range dst {
			dst[col] = y.Data[row*y.RowStride+col*y.PixelStride]
		}
	}

	vu := out[width*height:]
	for row := 0; row < ch; row++ {
		for col := 0; col < cw; col++ {
			i := 2 * (row*cw + col)
			vu[i] = v.Data[row*v.RowStride+col*v.PixelStride]
			vu[i+1] = u.Data[row*u.RowStride+col*u.PixelStride]
		}
	}
	return out, nil
}
