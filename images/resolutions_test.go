package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoosePreviewSize(t *testing.T) {
	testCases := []struct {
		name     string
		sizes    []Size
		expected Size
	}{
		{
			name:     "empty list falls back to VGA",
			sizes:    nil,
			expected: DefaultPreviewSize,
		},
		{
			name:     "largest fitting size",
			sizes:    []Size{{320, 240}, {1920, 1080}, {1280, 720}, {640, 480}},
			expected: Size{1280, 720},
		},
		{
			name:     "needs to be larger in both dimensions",
			sizes:    []Size{{960, 720}, {1280, 720}},
			expected: Size{960, 720},
		},
		{
			name:     "nothing fits picks smallest area",
			sizes:    []Size{{3840, 2160}, {1920, 1440}, {1920, 1080}},
			expected: Size{1920, 1080},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChoosePreviewSize(tc.sizes, DefaultPreviewBound.Width, DefaultPreviewBound.Height)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestResolution_GetMegaPixels(t *testing.T) {
	fhd, ok := GetResolutionByType(ResolutionTypeFHD)
	assert.True(t, ok)
	assert.Equal(t, 2.07, fhd.GetMegaPixels())

	assert.Equal(t, 0.0, Resolution{Pixels: Size{0, 1080}}.GetMegaPixels())
	assert.Equal(t, 0.0, Resolution{Pixels: Size{-1920, 1080}}.GetMegaPixels())
}

func TestGetAllResolutionsSorted(t *testing.T) {
	all := GetAllResolutions()
	assert.Len(t, all, len(resolutions))
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Pixels.Area(), all[i].Pixels.Area())
	}
}

func TestGetHighestResolutionUnderDimensions(t *testing.T) {
	res, ok := GetHighestResolutionUnderDimensions(1280, 720)
	assert.True(t, ok)
	assert.Equal(t, ResolutionTypeHD720p, res.Name)
	assert.Equal(t, 1280*720*3/2, res.NV21Bytes())

	_, ok = GetHighestResolutionUnderDimensions(100, 100)
	assert.False(t, ok)
}
