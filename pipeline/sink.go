package pipeline

import (
	"sync"

	"github.com/nvr-ai/go-edgecam/images"
)

// LatestFrame is a Sink that keeps only the newest RGBA frame for a
// renderer. Its buffer is reused across frames and reallocated only when the
// frame dimensions change.
type LatestFrame struct {
	mu     sync.RWMutex
	buf    []byte
	width  int
	height int
	seq    uint64
	edges  bool
	notify chan struct{}
}

// NewLatestFrame creates an empty LatestFrame.
func NewLatestFrame() *LatestFrame {
	return &LatestFrame{notify: make(chan struct{}, 1)}
}

// Update copies r into the frame buffer. Frames with no data are ignored.
func (l *LatestFrame) Update(r Result) {
	if r.Image.Width <= 0 || r.Image.Height <= 0 {
		return
	}
	size := images.RGBASize(r.Image.Width, r.Image.Height)
	if len(r.Image.Data) < size {
		return
	}

	l.mu.Lock()
	if l.buf == nil || l.width != r.Image.Width || l.height != r.Image.Height {
		l.width = r.Image.Width
		l.height = r.Image.Height
		l.buf = make([]byte, size)
	}
	copy(l.buf, r.Image.Data[:size])
	l.seq = r.Seq
	l.edges = r.ShowEdges
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Updated signals, without blocking the writer, that a new frame arrived.
// Several updates may collapse into one signal.
func (l *LatestFrame) Updated() <-chan struct{} {
	return l.notify
}

// Snapshot returns a copy of the newest frame, its sequence number and
// whether it is an edge map. ok is false until the first frame arrives.
func (l *LatestFrame) Snapshot() (img images.Image, seq uint64, edges bool, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.buf == nil {
		return images.Image{}, 0, false, false
	}
	data := make([]byte, len(l.buf))
	copy(data, l.buf)
	return images.Image{
		Format: images.FormatRGBA,
		Data:   data,
		Width:  l.width,
		Height: l.height,
	}, l.seq, l.edges, true
}
