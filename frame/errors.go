package frame

import (
	"github.com/pkg/errors"
)

// Errors returned by Process. Match them with errors.Is; the wrapped message
// carries the dimensions, lengths or library diagnostic involved.
var (
	// ErrInvalidFrameSize means the input buffer is shorter than an NV21
	// frame of the stated dimensions.
	ErrInvalidFrameSize = errors.New("invalid frame size")
	// ErrUnsupportedDimensions means width or height is not positive, or the
	// frame is not in a supported format.
	ErrUnsupportedDimensions = errors.New("unsupported dimensions")
	// ErrProcessingFailure wraps a failure reported by the vision library.
	ErrProcessingFailure = errors.New("processing failure")
)

func processingFailure(step string, err error) error {
	return errors.Wrapf(ErrProcessingFailure, "%s: %v", step, err)
}
