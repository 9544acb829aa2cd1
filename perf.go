package reactfx

import (
	"time"
)

// PerformanceMetrics is a snapshot of frame timing and load.
type PerformanceMetrics struct {
	// FPS is 1s divided by the rolling average frame time; 0 before any sample.
	FPS float64
	// FrameTime is the rolling average frame time.
	FrameTime     time.Duration
	MemoryUsage   int64
	ActiveEffects int
	// DroppedFrames counts frames whose delta exceeded the dropped-frame
	// threshold since construction or the last Reset.
	DroppedFrames int
}

// PerformanceMonitor keeps a fixed window of inter-frame deltas.
type PerformanceMonitor struct {
	clock     Clock
	last      time.Time
	samples   []time.Duration // ring buffer
	next      int
	count     int
	sum       time.Duration
	dropped   int
	threshold time.Duration
	lowFPS    float64

	memory int64
	active int
}

// NewPerformanceMonitor returns a monitor configured from cfg. The first
// RecordFrame measures from construction time.
func NewPerformanceMonitor(cfg Config) *PerformanceMonitor {
	cfg = cfg.withDefaults()
	m := &PerformanceMonitor{
		clock:     cfg.Clock,
		samples:   make([]time.Duration, cfg.SampleWindow),
		threshold: cfg.DroppedFrameThreshold.Std(),
		lowFPS:    cfg.LowFPSThreshold,
	}
	m.last = m.clock.Now()
	return m
}

// RecordFrame records the time since the previous call (or since
// construction or Resync).
func (m *PerformanceMonitor) RecordFrame() {
	now := m.clock.Now()
	d := now.Sub(m.last)
	m.last = now
	m.RecordFrameDelta(d)
}

// RecordFrameDelta records one frame of length d. Hosts with a fixed tick
// can call this directly instead of RecordFrame.
func (m *PerformanceMonitor) RecordFrameDelta(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if m.count == len(m.samples) {
		m.sum -= m.samples[m.next]
	} else {
		m.count++
	}
	m.samples[m.next] = d
	m.sum += d
	m.next = (m.next + 1) % len(m.samples)
	if d > m.threshold {
		m.dropped++
	}
}

// Resync restarts delta measurement at the current time without recording a
// frame. Call it when frames resume after an idle period.
func (m *PerformanceMonitor) Resync() {
	m.last = m.clock.Now()
}

// FrameTime returns the rolling average frame time.
func (m *PerformanceMonitor) FrameTime() time.Duration {
	if m.count == 0 {
		return 0
	}
	return m.sum / time.Duration(m.count)
}

// FPS returns the rolling average frame rate, or 0 with no samples.
func (m *PerformanceMonitor) FPS() float64 {
	ft := m.FrameTime()
	if ft <= 0 {
		return 0
	}
	return float64(time.Second) / float64(ft)
}

// ShouldReduceQuality reports whether the rolling frame rate has fallen
// below the low-fps threshold. It is false until a sample exists.
func (m *PerformanceMonitor) ShouldReduceQuality() bool {
	if m.count == 0 {
		return false
	}
	return m.FPS() < m.lowFPS
}

// SetMemoryUsage records the latest memory estimate for Metrics.
func (m *PerformanceMonitor) SetMemoryUsage(bytes int64) { m.memory = bytes }

// SetActiveEffects records the latest active-effect count for Metrics.
func (m *PerformanceMonitor) SetActiveEffects(n int) { m.active = n }

// Metrics returns the current snapshot.
func (m *PerformanceMonitor) Metrics() PerformanceMetrics {
	return PerformanceMetrics{
		FPS:           m.FPS(),
		FrameTime:     m.FrameTime(),
		MemoryUsage:   m.memory,
		ActiveEffects: m.active,
		DroppedFrames: m.dropped,
	}
}

// Reset discards every sample and counter.
func (m *PerformanceMonitor) Reset() {
	clear(m.samples)
	m.next = 0
	m.count = 0
	m.sum = 0
	m.dropped = 0
	m.memory = 0
	m.active = 0
	m.last = m.clock.Now()
}
