package pipeline

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats is a snapshot of pipeline counters.
type Stats struct {
	Submitted   uint64        `json:"submitted"`
	Processed   uint64        `json:"processed"`
	Dropped     uint64        `json:"dropped"`
	Failed      uint64        `json:"failed"`
	LastLatency time.Duration `json:"last_latency"`
	// FPS is the processing rate over the last complete one second window.
	FPS    float64       `json:"fps"`
	Uptime time.Duration `json:"uptime"`
}

// stats holds counters read without locks; fps bookkeeping sits behind mu.
type stats struct {
	submitted atomic.Uint64
	processed atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
	latency   atomic.Int64

	mu          sync.Mutex
	started     time.Time
	windowStart time.Time
	windowCount int
	fps         float64
}

func (s *stats) start(now time.Time) {
	s.mu.Lock()
	s.started = now
	s.windowStart = now
	s.mu.Unlock()
}

func (s *stats) record(now time.Time, latency time.Duration) {
	s.processed.Add(1)
	s.latency.Store(int64(latency))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowCount++
	if elapsed := now.Sub(s.windowStart).Seconds(); elapsed >= 1.0 {
		s.fps = float64(s.windowCount) / elapsed
		s.windowCount = 0
		s.windowStart = now
	}
}

func (s *stats) snapshot() Stats {
	s.mu.Lock()
	fps := s.fps
	started := s.started
	s.mu.Unlock()

	return Stats{
		Submitted:   s.submitted.Load(),
		Processed:   s.processed.Load(),
		Dropped:     s.dropped.Load(),
		Failed:      s.failed.Load(),
		LastLatency: time.Duration(s.latency.Load()),
		FPS:         fps,
		Uptime:      time.Since(started),
	}
}
