// Package pipeline runs camera frames through a frame processor at camera
// cadence.
//
// Frames arrive through Submit from the capture callback and are handed to a
// single worker goroutine through a one-slot inbox. A frame that arrives
// before the worker picked up the previous one replaces it and counts as a
// drop, so the worker always processes the newest frame and capture never
// blocks. Every result is passed to a Sink, typically a LatestFrame that a
// renderer reads from.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nvr-ai/go-edgecam/images"
	edgelog "github.com/nvr-ai/go-edgecam/internal/log"
)

// Processor converts one NV21 frame. *frame.Processor implements it.
type Processor interface {
	ProcessFrame(in images.Image, showEdges bool) (images.Image, error)
}

// Frame is one NV21 camera frame.
type Frame struct {
	// Seq is assigned by Submit.
	Seq      uint64
	Data     []byte
	Width    int
	Height   int
	Captured time.Time
}

// Result is a processed frame delivered to a Sink.
type Result struct {
	Seq       uint64
	Image     images.Image
	ShowEdges bool
	Captured  time.Time
	Latency   time.Duration
}

// Sink receives results from the worker goroutine. Update must not retain
// r.Image.Data beyond the call unless it owns a copy.
type Sink interface {
	Update(r Result)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Result)

// Update calls f(r).
func (f SinkFunc) Update(r Result) { f(r) }

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithShowEdges sets the initial edge toggle.
func WithShowEdges(on bool) Option {
	return func(p *Pipeline) { p.showEdges.Store(on) }
}

// Pipeline moves frames from a capture source to a Sink through a Processor.
type Pipeline struct {
	id        uuid.UUID
	proc      Processor
	sink      Sink
	logger    *slog.Logger
	showEdges atomic.Bool

	mu     sync.Mutex
	cond   *sync.Cond
	inbox  *Frame
	closed bool

	seq     atomic.Uint64
	running atomic.Bool
	stats   stats
}

// New creates a Pipeline. Call Run to start processing.
func New(proc Processor, sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		id:     uuid.New(),
		proc:   proc,
		sink:   sink,
		logger: edgelog.Discard(),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("stream", p.id.String())
	p.stats.start(time.Now())
	return p
}

// ID identifies this pipeline in logs.
func (p *Pipeline) ID() uuid.UUID {
	return p.id
}

// ShowEdges reports the current edge toggle.
func (p *Pipeline) ShowEdges() bool {
	return p.showEdges.Load()
}

// SetShowEdges sets the edge toggle. It applies to the next frame processed.
func (p *Pipeline) SetShowEdges(on bool) {
	p.showEdges.Store(on)
}

// ToggleEdges flips the edge toggle and returns the new value.
func (p *Pipeline) ToggleEdges() bool {
	for {
		old := p.showEdges.Load()
		if p.showEdges.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Submit queues a frame and returns its sequence number. It never blocks.
// If the previous frame has not been picked up yet it is replaced and
// counted as dropped. Submit after Close returns 0 and discards the frame.
//
// The pipeline takes ownership of f.Data.
func (p *Pipeline) Submit(f Frame) uint64 {
	if f.Captured.IsZero() {
		f.Captured = time.Now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}

	f.Seq = p.seq.Add(1)
	p.stats.submitted.Add(1)
	if p.inbox != nil {
		p.stats.dropped.Add(1)
		p.logger.Debug("frame dropped", "seq", p.inbox.Seq)
	}
	p.inbox = &f
	p.cond.Signal()
	return f.Seq
}

// Close stops the worker after the frame in progress. Pending frames are
// discarded. Close is idempotent.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.closed = true
	p.inbox = nil
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Run processes frames until ctx is cancelled or Close is called.
// It must not be called more than once at a time.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	stop := context.AfterFunc(ctx, p.Close)
	defer stop()

	p.logger.Info("pipeline started", "show_edges", p.ShowEdges())
	defer func() {
		s := p.Stats()
		p.logger.Info("pipeline stopped",
			"processed", s.Processed, "dropped", s.Dropped, "failed", s.Failed)
	}()

	for {
		f, ok := p.next()
		if !ok {
			return ctx.Err()
		}
		p.handle(f)
	}
}

// next blocks until a frame is available or the pipeline is closed.
func (p *Pipeline) next() (*Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.inbox == nil && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return nil, false
	}
	f := p.inbox
	p.inbox = nil
	return f, true
}

func (p *Pipeline) handle(f *Frame) {
	edges := p.ShowEdges()
	in := images.Image{Format: images.FormatNV21, Data: f.Data, Width: f.Width, Height: f.Height}

	start := time.Now()
	out, err := p.proc.ProcessFrame(in, edges)
	latency := time.Since(start)
	if err != nil {
		p.stats.failed.Add(1)
		p.logger.Warn("frame processing failed", "seq", f.Seq, "width", f.Width, "height", f.Height, "error", err)
		return
	}

	if want := images.RGBASize(f.Width, f.Height); len(out.Data) != want {
		p.stats.failed.Add(1)
		p.logger.Error("rgba buffer has wrong length", "seq", f.Seq, "got", len(out.Data), "want", want)
		return
	}

	p.stats.record(time.Now(), latency)
	p.logger.Debug("frame processed", "seq", f.Seq, "bytes", len(out.Data), "latency", latency, "show_edges", edges)

	if p.sink != nil {
		p.sink.Update(Result{
			Seq:       f.Seq,
			Image:     out,
			ShowEdges: edges,
			Captured:  f.Captured,
			Latency:   latency,
		})
	}
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return p.stats.snapshot()
}
