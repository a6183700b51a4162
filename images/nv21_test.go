package images

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNV21Size(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
		expected      int
	}{
		{"1x1", 1, 1, 3},
		{"2x2", 2, 2, 6},
		{"3x3", 3, 3, 9 + 8},
		{"VGA", 640, 480, 640 * 480 * 3 / 2},
		{"odd width", 5, 4, 20 + 2*3*2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NV21Size(tc.width, tc.height))
		})
	}
}

func TestPadNV21EvenIsNoCopy(t *testing.T) {
	data := make([]byte, NV21Size(4, 2)+10)
	out, w, h := PadNV21(data, 4, 2)
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Len(t, out, NV21Size(4, 2), "trailing bytes should be trimmed")
	assert.Same(t, &data[0], &out[0], "even frames should not be copied")
}

func TestPadNV21OddReplicatesEdges(t *testing.T) {
	// 3x3: Y rows 1 2 3 / 4 5 6 / 7 8 9, chroma 2x2 pairs.
	data := []byte{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		100, 101, 102, 103,
		104, 105, 106, 107,
	}
	out, w, h := PadNV21(data, 3, 3)
	require.Equal(t, 4, w)
	require.Equal(t, 4, h)
	require.Len(t, out, NV21Size(4, 4))

	assert.Equal(t, []byte{
		1, 2, 3, 3,
		4, 5, 6, 6,
		7, 8, 9, 9,
		7, 8, 9, 9,
	}, out[:16], "luma should replicate the last column and row")
	assert.Equal(t, data[9:], out[16:], "chroma plane should be copied unchanged")
}

func TestPadNV21SinglePixel(t *testing.T) {
	out, w, h := PadNV21([]byte{50, 60, 70}, 1, 1)
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, []byte{50, 50, 50, 50, 60, 70}, out)
}

func TestI420ToNV21(t *testing.T) {
	// 2x2: Y 4 bytes, U 1 byte, V 1 byte.
	out, err := I420ToNV21([]byte{1, 2, 3, 4, 10, 20}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 20, 10}, out, "NV21 stores V before U")

	_, err = I420ToNV21([]byte{1, 2, 3}, 2, 2)
	assert.True(t, errors.Is(err, ErrShortBuffer))

	_, err = I420ToNV21(nil, 0, 2)
	assert.True(t, errors.Is(err, ErrBadDimensions))
}

func TestPlanesToNV21Planar(t *testing.T) {
	// 4x2 luma with a padded row stride of 6.
	y := Plane{Data: []byte{
		1, 2, 3, 4, 0, 0,
		5, 6, 7, 8, 0, 0,
	}, RowStride: 6, PixelStride: 1}
	u := Plane{Data: []byte{10, 11}, RowStride: 2, PixelStride: 1}
	v := Plane{Data: []byte{20, 21}, RowStride: 2, PixelStride: 1}

	out, err := PlanesToNV21(y, u, v, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 20, 10, 21, 11}, out)
}

func TestPlanesToNV21SemiPlanar(t *testing.T) {
	// Semi-planar capture: U and V views share an interleaved buffer with pixel stride 2.
	interleaved := []byte{10, 20, 11, 21}
	y := Plane{Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}, RowStride: 4, PixelStride: 1}
	u := Plane{Data: interleaved[0:3], RowStride: 4, PixelStride: 2}
	v := Plane{Data: interleaved[1:4], RowStride: 4, PixelStride: 2}

	out, err := PlanesToNV21(y, u, v, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 20, 10, 21, 11}, out)
}

func TestPlanesToNV21ShortPlane(t *testing.T) {
	y := Plane{Data: make([]byte, 7), RowStride: 4, PixelStride: 1}
	u := Plane{Data: []byte{10, 11}, RowStride: 2, PixelStride: 1}
	v := Plane{Data: []byte{20, 21}, RowStride: 2, PixelStride: 1}

	_, err := PlanesToNV21(y, u, v, 4, 2)
	assert.True(t, errors.Is(err, ErrShortPlane), "short luma plane should be rejected, got %v", err)

	y.Data = make([]byte, 8)
	v.RowStride = 0
	_, err = PlanesToNV21(y, u, v, 4, 2)
	assert.True(t, errors.Is(err, ErrShortPlane), "zero stride should be rejected")
}
