// Package images - camera preview sizes and the selection rule used when a
// device advertises several YUV output sizes.
package images

import (
	"fmt"
	"math"
	"sort"
)

// Size is a frame size in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Area returns the pixel count.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Fits reports whether s fits inside a maxW x maxH box.
func (s Size) Fits(maxW, maxH int) bool {
	return s.Width <= maxW && s.Height <= maxH
}

// String returns "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

var (
	// DefaultPreviewSize is used when a device reports no YUV sizes.
	DefaultPreviewSize = Size{Width: 640, Height: 480}
	// DefaultPreviewBound is the largest preview size picked by default.
	DefaultPreviewBound = Size{Width: 1280, Height: 720}
)

// ChoosePreviewSize picks the camera preview size from the sizes a device
// supports.
//
// Among the sizes that fit inside maxW x maxH, a candidate only replaces the
// current pick when it is strictly larger in both dimensions, so the first
// of two incomparable sizes wins. If nothing fits, the smallest size by area
// is returned. An empty list yields DefaultPreviewSize.
//
// Arguments:
//   - sizes: Sizes advertised by the device, in device order.
//   - maxW, maxH: The bounding box.
//
// Returns:
//   - Size: The chosen size.
func ChoosePreviewSize(sizes []Size, maxW, maxH int) Size {
	if len(sizes) == 0 {
		return DefaultPreviewSize
	}

	var chosen *Size
	for i := range sizes {
		s := sizes[i]
		if !s.Fits(maxW, maxH) {
			continue
		}
		if chosen == nil || (s.Width > chosen.Width && s.Height > chosen.Height) {
			chosen = &sizes[i]
		}
	}
	if chosen != nil {
		return *chosen
	}

	smallest := sizes[0]
	for _, s := range sizes[1:] {
		if s.Area() < smallest.Area() {
			smallest = s
		}
	}
	return smallest
}

// AspectRatio represents an aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Common camera sensor aspect ratios.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio11  AspectRatio = "1:1"
)

// ResolutionType is the common name of a camera output size.
type ResolutionType string

// Camera output sizes seen on phone and USB camera YUV streams.
const (
	ResolutionTypeQCIF   ResolutionType = "QCIF"
	ResolutionTypeQVGA   ResolutionType = "QVGA"
	ResolutionTypeCIF    ResolutionType = "CIF"
	ResolutionTypeNHD    ResolutionType = "nHD"
	ResolutionTypeVGA    ResolutionType = "VGA"
	ResolutionTypeSquare ResolutionType = "Square 720"
	ResolutionTypeQHD540 ResolutionType = "qHD 540p"
	ResolutionTypeHD720p ResolutionType = "HD 720p"
	ResolutionTypeFHD    ResolutionType = "Full HD 1080p"
	ResolutionType4KUHD  ResolutionType = "4K UHD"
)

// Resolution describes a named camera output size.
type Resolution struct {
	Name        ResolutionType `json:"name"`
	AspectRatio AspectRatio    `json:"aspectRatio"`
	Pixels      Size           `json:"pixels"`
}

// GetMegaPixels returns the megapixel count rounded to two decimals.
func (r Resolution) GetMegaPixels() float64 {
	if r.Pixels.Width <= 0 || r.Pixels.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Pixels.Area()) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%s, %.2fMP)", r.Name, r.Pixels, r.GetMegaPixels())
}

// NV21Bytes is the size of one NV21 frame at this resolution.
func (r Resolution) NV21Bytes() int {
	return NV21Size(r.Pixels.Width, r.Pixels.Height)
}

var resolutions = map[ResolutionType]Resolution{
	ResolutionTypeQCIF:   {ResolutionTypeQCIF, AspectRatio43, Size{176, 144}},
	ResolutionTypeQVGA:   {ResolutionTypeQVGA, AspectRatio43, Size{320, 240}},
	ResolutionTypeCIF:    {ResolutionTypeCIF, AspectRatio43, Size{352, 288}},
	ResolutionTypeNHD:    {ResolutionTypeNHD, AspectRatio169, Size{640, 360}},
	ResolutionTypeVGA:    {ResolutionTypeVGA, AspectRatio43, Size{640, 480}},
	ResolutionTypeSquare: {ResolutionTypeSquare, AspectRatio11, Size{720, 720}},
	ResolutionTypeQHD540: {ResolutionTypeQHD540, AspectRatio169, Size{960, 540}},
	ResolutionTypeHD720p: {ResolutionTypeHD720p, AspectRatio169, Size{1280, 720}},
	ResolutionTypeFHD:    {ResolutionTypeFHD, AspectRatio169, Size{1920, 1080}},
	ResolutionType4KUHD:  {ResolutionType4KUHD, AspectRatio169, Size{3840, 2160}},
}

// GetAllResolutions returns every known resolution ordered by pixel count.
func GetAllResolutions() []Resolution {
	all := make([]Resolution, 0, len(resolutions))
	for _, res := range resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Pixels.Area() == all[j].Pixels.Area() {
			return all[i].Name < all[j].Name
		}
		return all[i].Pixels.Area() < all[j].Pixels.Area()
	})
	return all
}

// GetResolutionByType retrieves a specific resolution by its type.
func GetResolutionByType(t ResolutionType) (Resolution, bool) {
	res, ok := resolutions[t]
	return res, ok
}

// GetHighestResolutionUnderDimensions retrieves the largest known resolution
// that fits within width x height.
//
// Returns:
//   - Resolution: The highest resolution that fits.
//   - bool: True if a resolution was found, otherwise false.
func GetHighestResolutionUnderDimensions(width, height int) (Resolution, bool) {
	var highest Resolution
	var found bool

	for _, res := range GetAllResolutions() {
		if res.Pixels.Fits(width, height) {
			if !found || res.Pixels.Area() > highest.Pixels.Area() {
				highest = res
				found = true
			}
		}
	}
	return highest, found
}

// Sizes returns the pixel sizes of the given resolutions, preserving order.
func Sizes(rs []Resolution) []Size {
	out := make([]Size, len(rs))
	for i, r := range rs {
		out[i] = r.Pixels
	}
	return out
}
