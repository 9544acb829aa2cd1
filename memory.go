package reactfx

import (
	"runtime"
	"time"
)

// MemorySource reports an estimated memory footprint in bytes.
type MemorySource interface {
	MemoryUsage() int64
}

// MemorySourceFunc adapts a function to MemorySource.
type MemorySourceFunc func() int64

func (f MemorySourceFunc) MemoryUsage() int64 { return f() }

// MemoryPressure is broadcast when sampled usage exceeds the threshold.
type MemoryPressure struct {
	Usage     int64
	Threshold int64
	At        time.Time
}

type memorySubscriber struct {
	id int
	fn func(MemoryPressure)
}

// MemoryManager periodically samples memory usage and broadcasts a
// MemoryPressure signal to subscribers while usage is above threshold.
// Polling is cooperative: call Poll once per frame and it samples at most
// once per interval.
type MemoryManager struct {
	clock       Clock
	logger      Logger
	interval    time.Duration
	threshold   int64
	measureHeap bool

	sources []MemorySource
	subs    []memorySubscriber
	nextSub int

	lastPoll time.Time
	usage    int64
}

// NewMemoryManager returns a manager configured from cfg.
func NewMemoryManager(cfg Config) *MemoryManager {
	cfg = cfg.withDefaults()
	m := &MemoryManager{
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		interval:    cfg.CleanupInterval.Std(),
		threshold:   cfg.MemoryThreshold,
		measureHeap: cfg.MeasureHeap,
	}
	m.lastPoll = m.clock.Now()
	return m
}

// Threshold returns the pressure threshold in bytes.
func (m *MemoryManager) Threshold() int64 { return m.threshold }

// AddSource registers a source whose estimate is summed into Sample.
func (m *MemoryManager) AddSource(src MemorySource) {
	if src != nil {
		m.sources = append(m.sources, src)
	}
}

// Subscribe registers fn to receive pressure broadcasts and returns a
// function that unregisters it.
func (m *MemoryManager) Subscribe(fn func(MemoryPressure)) (unsubscribe func()) {
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, memorySubscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Sample measures current usage: the Go heap when MeasureHeap is set,
// otherwise the sum of registered sources.
func (m *MemoryManager) Sample() int64 {
	if m.measureHeap {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		m.usage = int64(ms.HeapAlloc)
		return m.usage
	}
	var total int64
	for _, src := range m.sources {
		total += src.MemoryUsage()
	}
	m.usage = total
	return total
}

// Usage returns the most recent sample.
func (m *MemoryManager) Usage() int64 { return m.usage }

// Poll samples if the interval has elapsed since the last poll and
// broadcasts pressure if usage is over threshold. Reports whether a
// broadcast happened.
func (m *MemoryManager) Poll() bool {
	now := m.clock.Now()
	if now.Sub(m.lastPoll) < m.interval {
		return false
	}
	m.lastPoll = now
	return m.Check()
}

// Check samples immediately and broadcasts if over threshold.
func (m *MemoryManager) Check() bool {
	usage := m.Sample()
	if usage <= m.threshold {
		return false
	}
	p := MemoryPressure{Usage: usage, Threshold: m.threshold, At: m.clock.Now()}
	// Subscribers may unsubscribe while being notified.
	subs := append([]memorySubscriber(nil), m.subs...)
	for _, s := range subs {
		if err := guard(func() { s.fn(p) }); err != nil {
			m.logger.Printf("reactfx: memory pressure subscriber: %v", err)
		}
	}
	if after := m.Sample(); after > m.threshold {
		m.logger.Printf("reactfx: memory usage %d still above threshold %d after cleanup", after, m.threshold)
	}
	return true
}
