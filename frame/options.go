package frame

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Canny hysteresis thresholds used when Options leaves them unset.
const (
	DefaultLowThreshold  float32 = 80
	DefaultHighThreshold float32 = 150
)

// EdgeMask selects how the single channel edge map is expanded to RGBA.
type EdgeMask int

const (
	// EdgeMaskTransparent writes 255 to all four channels on edges and 0 to
	// all four channels elsewhere.
	EdgeMaskTransparent EdgeMask = iota
	// EdgeMaskOpaque writes gray to R, G and B and keeps alpha at 255, so
	// non-edge pixels are opaque black.
	EdgeMaskOpaque
)

func (m EdgeMask) String() string {
	switch m {
	case EdgeMaskTransparent:
		return "transparent"
	case EdgeMaskOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("EdgeMask(%d)", int(m))
	}
}

// ParseEdgeMask parses "transparent" or "opaque". An empty string is transparent.
func ParseEdgeMask(s string) (EdgeMask, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "transparent":
		return EdgeMaskTransparent, nil
	case "opaque":
		return EdgeMaskOpaque, nil
	default:
		return 0, errors.Errorf("unknown edge mask %q", s)
	}
}

// Rotation is applied to the output image after conversion.
type Rotation int

const (
	RotateNone Rotation = iota
	Rotate90Clockwise
	Rotate180
	Rotate90CounterClockwise
)

func (r Rotation) String() string {
	switch r {
	case RotateNone:
		return "none"
	case Rotate90Clockwise:
		return "90cw"
	case Rotate180:
		return "180"
	case Rotate90CounterClockwise:
		return "90ccw"
	default:
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
}

// Swaps reports whether the rotation exchanges width and height.
func (r Rotation) Swaps() bool {
	return r == Rotate90Clockwise || r == Rotate90CounterClockwise
}

// ParseRotation accepts none, 0, 90, 90cw, 180, 270, 90ccw and -90.
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "0":
		return RotateNone, nil
	case "90", "90cw", "cw":
		return Rotate90Clockwise, nil
	case "180":
		return Rotate180, nil
	case "270", "90ccw", "ccw", "-90":
		return Rotate90CounterClockwise, nil
	default:
		return 0, errors.Errorf("unknown rotation %q", s)
	}
}

// Options configures a Processor. The zero value uses the default thresholds,
// a transparent edge mask and no rotation.
type Options struct {
	// LowThreshold is the lower Canny hysteresis threshold.
	LowThreshold float32
	// HighThreshold is the upper Canny hysteresis threshold.
	HighThreshold float32
	// EdgeMask controls how edges are written to the RGBA output.
	EdgeMask EdgeMask
	// Rotation is applied to the output image.
	Rotation Rotation
}

// DefaultOptions returns the options used by the package level Process.
func DefaultOptions() Options {
	return Options{
		LowThreshold:  DefaultLowThreshold,
		HighThreshold: DefaultHighThreshold,
	}
}

func (o Options) withDefaults() Options {
	if o.LowThreshold == 0 && o.HighThreshold == 0 {
		o.LowThreshold = DefaultLowThreshold
		o.HighThreshold = DefaultHighThreshold
	}
	return o
}

// Validate checks threshold ordering and enum ranges after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.LowThreshold < 0 || o.HighThreshold <= 0 {
		return errors.Errorf("thresholds must be positive, got low=%v high=%v", o.LowThreshold, o.HighThreshold)
	}
	if o.LowThreshold > o.HighThreshold {
		return errors.Errorf("low threshold %v exceeds high threshold %v", o.LowThreshold, o.HighThreshold)
	}
	if o.EdgeMask < EdgeMaskTransparent || o.EdgeMask > EdgeMaskOpaque {
		return errors.Errorf("invalid edge mask %d", o.EdgeMask)
	}
	if o.Rotation < RotateNone || o.Rotation > Rotate90CounterClockwise {
		return errors.Errorf("invalid rotation %d", o.Rotation)
	}
	return nil
}
