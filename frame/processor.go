// Package frame converts raw NV21 camera frames into packed RGBA frames
// using OpenCV (via gocv), optionally replacing the color image with a Canny
// edge map.
//
// Pipeline Overview:
//
// ┌───────────────────────┐
// │ NV21 bytes + W x H    │
// └──────┬────────────────┘
// ┌───────────────────────────────────────────┐
// │ Validate (dimensions, minimum NV21 size)  │
// └──────┬────────────────────────────────────┘
// ┌───────────────────────────────────────────┐
// │ Pad odd sizes to even, YUV2RGBA_NV21      │
// └──────┬────────────────────────────────────┘
// ┌───────────────────────────────────────────┐
// │ showEdges: RGBA2GRAY -> Canny -> 4 channel│
// └──────┬────────────────────────────────────┘
// ┌───────────────────────────────────────────┐
// │ Optional rotation, copy W*H*4 bytes out   │
// └───────────────────────────────────────────┘
//
// Usage:
//
//	rgba, err := frame.Process(nv21, 640, 480, true)
//	if errors.Is(err, frame.ErrInvalidFrameSize) {
//	    // drop the frame
//	}
//
// A Processor keeps no per-frame state: every call allocates and releases
// its own native matrices, so one Processor can serve many goroutines.
package frame

import (
	"image"
	"runtime"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-edgecam/images"
)

// Processor converts NV21 frames to RGBA with a fixed set of Options.
type Processor struct {
	opts Options
}

var defaultProcessor = &Processor{opts: DefaultOptions()}

// NewProcessor validates opts, fills in defaults and returns a Processor.
func NewProcessor(opts Options) (*Processor, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid processor options")
	}
	return &Processor{opts: opts.withDefaults()}, nil
}

// Options returns the effective options, defaults included.
func (p *Processor) Options() Options {
	return p.opts
}

// Process converts an NV21 frame with the default options.
// See Processor.Process.
func Process(yuv []byte, width, height int, showEdges bool) ([]byte, error) {
	return defaultProcessor.Process(yuv, width, height, showEdges)
}

// ValidateFrame checks the dimensions and the minimum NV21 buffer length.
//
// Returns:
//   - ErrUnsupportedDimensions if width or height is not positive.
//   - ErrInvalidFrameSize if yuv is shorter than images.NV21Size(width, height).
func ValidateFrame(yuv []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrUnsupportedDimensions, "%dx%d", width, height)
	}
	need := images.NV21Size(width, height)
	if len(yuv) < need {
		return errors.Wrapf(ErrInvalidFrameSize, "nv21 %dx%d needs %d bytes, got %d", width, height, need, len(yuv))
	}
	return nil
}

// Process converts an NV21 frame to RGBA.
//
// When showEdges is false the result is the color image. When it is true the
// color image is reduced to gray, run through Canny with the configured
// thresholds, and the binary edge map is expanded back to four channels.
//
// Arguments:
//   - yuv: The NV21 frame. Bytes past images.NV21Size(width, height) are ignored.
//   - width: The frame width in pixels.
//   - height: The frame height in pixels.
//   - showEdges: Replace the color image with its edge map.
//
// Returns:
//   - []byte: Exactly width*height*4 bytes owned by the caller.
//   - error: ErrUnsupportedDimensions, ErrInvalidFrameSize or ErrProcessingFailure.
func (p *Processor) Process(yuv []byte, width, height int, showEdges bool) ([]byte, error) {
	out, _, _, err := p.process(yuv, width, height, showEdges)
	return out, err
}

// ProcessFrame is Process for an images.Image in nv21 format. The result is
// an rgba image whose dimensions account for the configured rotation.
func (p *Processor) ProcessFrame(in images.Image, showEdges bool) (images.Image, error) {
	if in.Format != images.FormatNV21 {
		return images.Image{}, errors.Wrapf(ErrUnsupportedDimensions, "expected %s frame, got %q", images.FormatNV21, in.Format)
	}
	data, w, h, err := p.process(in.Data, in.Width, in.Height, showEdges)
	if err != nil {
		return images.Image{}, err
	}
	return images.Image{
		Format: images.FormatRGBA,
		Data:   data,
		Width:  w,
		Height: h,
	}, nil
}

func (p *Processor) process(yuv []byte, width, height int, showEdges bool) ([]byte, int, int, error) {
	if err := ValidateFrame(yuv, width, height); err != nil {
		return nil, 0, 0, err
	}

	var mats scratch
	defer mats.close()

	rgba, err := toRGBA(&mats, yuv, width, height)
	if err != nil {
		return nil, 0, 0, err
	}

	result := rgba
	if showEdges {
		if result, err = p.edges(&mats, rgba); err != nil {
			return nil, 0, 0, err
		}
	}

	outW, outH := width, height
	if p.opts.Rotation != RotateNone {
		if result, err = rotate(&mats, result, p.opts.Rotation); err != nil {
			return nil, 0, 0, err
		}
		if p.opts.Rotation.Swaps() {
			outW, outH = height, width
		}
	}

	out := result.ToBytes()
	if want := images.RGBASize(width, height); len(out) != want {
		return nil, 0, 0, errors.Wrapf(ErrProcessingFailure, "output has %d bytes, expected %d", len(out), want)
	}
	return out, outW, outH, nil
}

// toRGBA decodes the NV21 buffer into a continuous width x height RGBA Mat.
func toRGBA(mats *scratch, yuv []byte, width, height int) (gocv.Mat, error) {
	padded, pw, ph := images.PadNV21(yuv, width, height)

	src, err := gocv.NewMatFromBytes(ph+ph/2, pw, gocv.MatTypeCV8UC1, padded)
	if err != nil {
		return gocv.Mat{}, processingFailure("wrap nv21 buffer", err)
	}
	mats.track(src)

	rgba := mats.track(gocv.NewMat())
	err = gocv.CvtColor(src, &rgba, gocv.ColorYUVToRGBANV21)
	// The Mat header borrows padded until the conversion has copied it out.
	runtime.KeepAlive(padded)
	if err != nil {
		return gocv.Mat{}, processingFailure("convert nv21 to rgba", err)
	}

	if pw == width && ph == height {
		return rgba, nil
	}
	roi := mats.track(rgba.Region(image.Rect(0, 0, width, height)))
	return mats.track(roi.Clone()), nil
}

// edges runs gray reduction and Canny on rgba and expands the edge map
// according to the edge mask.
func (p *Processor) edges(mats *scratch, rgba gocv.Mat) (gocv.Mat, error) {
	gray := mats.track(gocv.NewMat())
	if err := gocv.CvtColor(rgba, &gray, gocv.ColorRGBAToGray); err != nil {
		return gocv.Mat{}, processingFailure("convert rgba to gray", err)
	}

	edges := mats.track(gocv.NewMat())
	if err := gocv.Canny(gray, &edges, p.opts.LowThreshold, p.opts.HighThreshold); err != nil {
		return gocv.Mat{}, processingFailure("canny", err)
	}

	out := mats.track(gocv.NewMat())
	switch p.opts.EdgeMask {
	case EdgeMaskOpaque:
		if err := gocv.CvtColor(edges, &out, gocv.ColorGrayToRGBA); err != nil {
			return gocv.Mat{}, processingFailure("expand edges", err)
		}
	default:
		if err := gocv.Merge([]gocv.Mat{edges, edges, edges, edges}, &out); err != nil {
			return gocv.Mat{}, processingFailure("expand edges", err)
		}
	}
	return out, nil
}

func rotate(mats *scratch, src gocv.Mat, r Rotation) (gocv.Mat, error) {
	var flag gocv.RotateFlag
	switch r {
	case Rotate90Clockwise:
		flag = gocv.Rotate90Clockwise
	case Rotate180:
		flag = gocv.Rotate180Clockwise
	case Rotate90CounterClockwise:
		flag = gocv.Rotate90CounterClockwise
	default:
		return src, nil
	}

	dst := mats.track(gocv.NewMat())
	if err := gocv.Rotate(src, &dst, flag); err != nil {
		return gocv.Mat{}, processingFailure("rotate "+r.String(), err)
	}
	return dst, nil
}

// scratch releases every native matrix allocated during one call.
type scratch struct {
	mats []gocv.Mat
}

func (s *scratch) track(m gocv.Mat) gocv.Mat {
	s.mats = append(s.mats, m)
	return m
}

func (s *scratch) close() {
	for i := range s.mats {
		s.mats[i].Close()
	}
}
