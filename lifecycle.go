package reactfx

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// LifecycleEvent describes one state transition of an instance.
type LifecycleEvent struct {
	ID       InstanceID
	Type     EffectType
	From     State
	To       State
	Progress float64
	At       time.Time
	// Err is set on transitions into StateError.
	Err error
}

// EventSink receives every lifecycle transition a Manager performs.
type EventSink interface {
	Publish(ev LifecycleEvent)
}

// Manager drives effect instances through their lifecycle independently of
// any drawing surface. All methods must be called from the goroutine that
// runs the frame loop; Update is the per-frame entry point.
type Manager struct {
	registry *Registry
	cfg      Config
	clock    Clock
	logger   Logger

	instances []*Instance // insertion order
	byID      map[InstanceID]*Instance
	nextID    InstanceID
	scratch   []*Instance

	timers      timerQueue
	pool        *Pool
	perf        *PerformanceMonitor
	memory      *MemoryManager
	unsubscribe func()
	sink        EventSink

	closed bool
}

// NewManager returns a manager that looks renderers up in reg. A nil reg
// leaves every instance without a renderer; instances still run their
// duration.
func NewManager(reg *Registry, cfg Config) *Manager {
	cfg = cfg.withDefaults()
	m := &Manager{
		registry: reg,
		cfg:      cfg,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		byID:     make(map[InstanceID]*Instance),
		pool:     NewPool(cfg.PoolMaxSize),
		perf:     NewPerformanceMonitor(cfg),
		memory:   NewMemoryManager(cfg),
	}
	m.memory.AddSource(MemorySourceFunc(m.estimatedUsage))
	m.unsubscribe = m.memory.Subscribe(m.onPressure)
	return m
}

// SetEventSink routes lifecycle transitions to sink. Nil disables publishing.
func (m *Manager) SetEventSink(sink EventSink) { m.sink = sink }

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// Pool returns the manager's instance pool.
func (m *Manager) Pool() *Pool { return m.pool }

// Performance returns the manager's performance monitor.
func (m *Manager) Performance() *PerformanceMonitor { return m.perf }

// Memory returns the manager's memory manager. Additional sources and
// subscribers may be registered on it.
func (m *Manager) Memory() *MemoryManager { return m.memory }

// Closed reports whether Cleanup has run.
func (m *Manager) Closed() bool { return m.closed }

// Len returns the number of tracked instances, including completed ones
// still inside their grace period.
func (m *Manager) Len() int { return len(m.instances) }

// AddEffect creates an instance for d and activates it. A non-positive
// duration asks the registered renderer for one, falling back to the
// configured default when no renderer is registered for d's type.
func (m *Manager) AddEffect(d Descriptor, duration time.Duration, cb Callbacks) (InstanceID, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if d == nil {
		return 0, fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}

	inst := &Instance{}
	if pooled, ok := m.pool.Get(d.EffectType()); ok {
		*inst = pooled
	}
	if ver := m.registryVersion(); inst.renderer == nil || inst.rendererVersion != ver {
		r, err := m.registry.Lookup(d.EffectType())
		if err != nil && globalDebug {
			m.logger.Printf("reactfx: %v; effect runs without a renderer", err)
		}
		inst.renderer = r
		inst.rendererVersion = ver
	}
	if duration <= 0 {
		duration = m.defaultDuration(d, inst.renderer)
	}

	m.nextID++
	inst.ID = m.nextID
	inst.Descriptor = d
	inst.Callbacks = cb
	inst.State = StatePending
	inst.Duration = duration

	if len(m.instances) == 0 {
		m.perf.Resync()
	}
	m.instances = append(m.instances, inst)
	m.byID[inst.ID] = inst

	inst.Start = m.clock.Now()
	if err := m.transition(inst, StateActive); err != nil {
		m.fail(inst, "state", err)
	}
	return inst.ID, nil
}

func (m *Manager) registryVersion() uint64 {
	if m.registry == nil {
		return 0
	}
	return m.registry.version
}

func (m *Manager) defaultDuration(d Descriptor, r Renderer) time.Duration {
	if r != nil {
		var dur time.Duration
		err := guard(func() { dur = r.Duration(d) })
		if err != nil {
			m.logger.Printf("reactfx: duration for %s: %v", d.EffectType(), err)
		} else if dur > 0 {
			return dur
		}
	}
	if u, ok := d.(UnknownEffect); ok {
		return seconds(u.Duration, m.cfg.Tuning.FallbackDuration)
	}
	return m.cfg.Tuning.FallbackDuration.Std()
}

// RemoveEffect removes the instance immediately from any state, skipping
// the grace period. Instances that had not finished become cancelled;
// onComplete is not called. Unknown IDs are ignored.
func (m *Manager) RemoveEffect(id InstanceID) {
	inst := m.byID[id]
	if inst == nil {
		return
	}
	m.teardown(inst)
}

// CancelEffect cancels a pending, active, or paused instance: it is removed
// and its cleanup runs before CancelEffect returns. onComplete is not
// called. Unknown IDs and finished instances are ignored.
func (m *Manager) CancelEffect(id InstanceID) {
	inst := m.byID[id]
	if inst == nil || inst.State.Terminal() {
		return
	}
	m.teardown(inst)
}

func (m *Manager) teardown(inst *Instance) {
	m.cancelRemoval(inst)
	if !inst.State.Terminal() {
		if err := m.transition(inst, StateCancelled); err != nil {
			m.fail(inst, "state", err)
			return
		}
	}
	if err := m.runCleanup(inst); err != nil {
		m.fail(inst, "cleanup", err)
		return
	}
	m.remove(inst)
}

// PauseEffect freezes an active instance's progress. Other states and
// unknown IDs are ignored.
func (m *Manager) PauseEffect(id InstanceID) {
	inst := m.byID[id]
	if inst == nil || inst.State != StateActive {
		return
	}
	inst.PausedAt = m.clock.Now()
	if err := m.transition(inst, StatePaused); err != nil {
		m.fail(inst, "state", err)
	}
}

// ResumeEffect reactivates a paused instance. Its start time moves forward
// by the time spent paused, so its remaining duration is unchanged.
func (m *Manager) ResumeEffect(id InstanceID) {
	inst := m.byID[id]
	if inst == nil || inst.State != StatePaused {
		return
	}
	inst.Start = inst.Start.Add(m.clock.Now().Sub(inst.PausedAt))
	inst.PausedAt = time.Time{}
	if err := m.transition(inst, StateActive); err != nil {
		m.fail(inst, "state", err)
	}
}

// EffectState returns the state of id. ok is false once the instance has
// been removed.
func (m *Manager) EffectState(id InstanceID) (s State, ok bool) {
	inst := m.byID[id]
	if inst == nil {
		return 0, false
	}
	return inst.State, true
}

// Effect returns a snapshot of id.
func (m *Manager) Effect(id InstanceID) (EffectInfo, bool) {
	inst := m.byID[id]
	if inst == nil {
		return EffectInfo{}, false
	}
	return inst.info(), true
}

// ActiveEffects returns snapshots of the instances in StateActive, in
// insertion order.
func (m *Manager) ActiveEffects() []EffectInfo {
	var out []EffectInfo
	for _, inst := range m.instances {
		if inst.State == StateActive {
			out = append(out, inst.info())
		}
	}
	return out
}

// Effects returns snapshots of every tracked instance, in insertion order.
func (m *Manager) Effects() []EffectInfo {
	out := make([]EffectInfo, 0, len(m.instances))
	for _, inst := range m.instances {
		out = append(out, inst.info())
	}
	return out
}

// MemoryUsage returns the estimated memory held by tracked instances:
// instance count times the per-instance cost. With MeasureHeap it is the
// Go heap size at the last memory poll.
func (m *Manager) MemoryUsage() int64 {
	if m.cfg.MeasureHeap {
		return m.memory.Usage()
	}
	return m.estimatedUsage()
}

func (m *Manager) estimatedUsage() int64 {
	return int64(len(m.instances)) * m.cfg.PerInstanceCost
}

// PerformanceMetrics returns the current performance snapshot.
func (m *Manager) PerformanceMetrics() PerformanceMetrics {
	m.perf.SetActiveEffects(m.countActive())
	m.perf.SetMemoryUsage(m.MemoryUsage())
	return m.perf.Metrics()
}

func (m *Manager) countActive() int {
	n := 0
	for _, inst := range m.instances {
		if inst.State == StateActive {
			n++
		}
	}
	return n
}

// Update runs one frame: due grace removals fire, then every active
// instance is advanced in insertion order. Instances added during the frame
// wait for the next one. A failing instance moves to StateError and is
// removed; the others are unaffected.
func (m *Manager) Update() {
	if m.closed {
		return
	}
	now := m.clock.Now()
	m.timers.fire(now)

	m.scratch = append(m.scratch[:0], m.instances...)
	for _, inst := range m.scratch {
		if !m.tracked(inst) || inst.State != StateActive {
			continue
		}
		m.advance(inst, now)
	}
	clear(m.scratch)

	usage := m.MemoryUsage()
	m.perf.SetActiveEffects(m.countActive())
	m.perf.SetMemoryUsage(usage)
	m.perf.RecordFrame()

	if usage > m.cfg.MemoryThreshold {
		n := m.evict()
		if after := m.MemoryUsage(); after > m.cfg.MemoryThreshold {
			m.logger.Printf("reactfx: memory usage %d above threshold %d after evicting %d completed effects",
				after, m.cfg.MemoryThreshold, n)
		}
	}
	m.memory.Poll()
}

func (m *Manager) tracked(inst *Instance) bool {
	return m.byID[inst.ID] == inst
}

func (m *Manager) advance(inst *Instance, now time.Time) {
	p := progressAt(now.Sub(inst.Start), inst.Duration)
	if p < inst.Progress {
		p = inst.Progress
	}
	inst.Progress = p

	if cb := inst.Callbacks.OnProgress; cb != nil {
		if err := guard(func() { cb(inst.ID, p) }); err != nil {
			m.fail(inst, "progress", err)
			return
		}
		// The callback may have paused or removed the instance.
		if !m.tracked(inst) || inst.State != StateActive {
			return
		}
	}
	if p >= 1 {
		m.complete(inst, now)
	}
}

func (m *Manager) complete(inst *Instance, now time.Time) {
	inst.completedAt = now
	if err := m.transition(inst, StateCompleted); err != nil {
		m.fail(inst, "state", err)
		return
	}
	if cb := inst.Callbacks.OnComplete; cb != nil {
		if err := guard(func() { cb(inst.ID) }); err != nil {
			m.fail(inst, "complete", err)
			return
		}
	}
	if !m.tracked(inst) || inst.State != StateCompleted {
		return
	}
	inst.removal = m.timers.after(now.Add(m.cfg.GracePeriod.Std()), func() {
		inst.removal = 0
		m.finish(inst)
	})
}

// finish removes a completed instance at the end of its grace period.
func (m *Manager) finish(inst *Instance) {
	if !m.tracked(inst) {
		return
	}
	if err := m.runCleanup(inst); err != nil {
		m.fail(inst, "cleanup", err)
		return
	}
	m.remove(inst)
}

// evict removes the older half of the completed instances still waiting
// out their grace period. Active and paused instances are never touched.
func (m *Manager) evict() int {
	var done []*Instance
	for _, inst := range m.instances {
		if inst.State == StateCompleted {
			done = append(done, inst)
		}
	}
	if len(done) == 0 {
		return 0
	}
	slices.SortStableFunc(done, func(a, b *Instance) int {
		return a.completedAt.Compare(b.completedAt)
	})
	n := (len(done) + 1) / 2
	for _, inst := range done[:n] {
		m.cancelRemoval(inst)
		m.finish(inst)
	}
	return n
}

func (m *Manager) onPressure(MemoryPressure) {
	m.evict()
	m.pool.Clear()
}

// transition moves inst to state to, publishes the event, and runs
// OnStateChange. The returned error is a recovered callback panic.
func (m *Manager) transition(inst *Instance, to State) error {
	from := inst.State
	inst.State = to
	m.publish(inst, from, to, nil)
	if cb := inst.Callbacks.OnStateChange; cb != nil {
		return guard(func() { cb(inst.ID, from, to) })
	}
	return nil
}

// fail moves inst to StateError, runs its cleanup, reports through OnError
// and the logger, and removes it.
func (m *Manager) fail(inst *Instance, op string, cause error) {
	if !m.tracked(inst) {
		return
	}
	m.cancelRemoval(inst)
	ferr := &EffectError{ID: inst.ID, Type: inst.effectType(), Op: op, Err: cause}

	from := inst.State
	inst.State = StateError
	if cerr := m.runCleanup(inst); cerr != nil {
		ferr.Err = errors.Join(cause, fmt.Errorf("cleanup: %w", cerr))
	}
	m.publish(inst, from, StateError, ferr)
	if cb := inst.Callbacks.OnStateChange; cb != nil && from != StateError {
		if err := guard(func() { cb(inst.ID, from, StateError) }); err != nil {
			m.logger.Printf("reactfx: effect %s state callback: %v", inst.ID, err)
		}
	}
	if cb := inst.Callbacks.OnError; cb != nil {
		if err := guard(func() { cb(inst.ID, ferr) }); err != nil {
			m.logger.Printf("reactfx: effect %s error callback: %v", inst.ID, err)
		}
	}
	m.logger.Printf("%v", ferr)
	m.remove(inst)
}

// runCleanup runs the instance's owned cleanup at most once.
func (m *Manager) runCleanup(inst *Instance) error {
	fn := inst.Callbacks.Cleanup
	if fn == nil {
		return nil
	}
	inst.Callbacks.Cleanup = nil
	var err error
	if perr := guard(func() { err = fn() }); perr != nil {
		return perr
	}
	return err
}

func (m *Manager) cancelRemoval(inst *Instance) {
	if inst.removal != 0 {
		m.timers.cancel(inst.removal)
		inst.removal = 0
	}
}

// remove drops inst from the tracked set and retires it to the pool.
func (m *Manager) remove(inst *Instance) {
	if !m.tracked(inst) {
		return
	}
	m.cancelRemoval(inst)
	delete(m.byID, inst.ID)
	if i := slices.Index(m.instances, inst); i >= 0 {
		m.instances = slices.Delete(m.instances, i, i+1)
	}
	m.pool.Put(*inst)
}

func (m *Manager) publish(inst *Instance, from, to State, err error) {
	if m.sink == nil {
		return
	}
	ev := LifecycleEvent{
		ID:       inst.ID,
		Type:     inst.effectType(),
		From:     from,
		To:       to,
		Progress: inst.Progress,
		At:       m.clock.Now(),
		Err:      err,
	}
	if perr := guard(func() { m.sink.Publish(ev) }); perr != nil {
		m.logger.Printf("reactfx: event sink: %v", perr)
	}
}

// Cleanup tears the manager down: every unfinished instance is cancelled
// without onComplete, every owned cleanup runs, pending grace removals are
// dropped, and the pool is emptied. Cleanup errors are joined and returned.
// Calling Cleanup again is a no-op. AddEffect fails with ErrClosed afterwards.
func (m *Manager) Cleanup() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	for _, inst := range slices.Clone(m.instances) {
		if !inst.State.Terminal() {
			if err := m.transition(inst, StateCancelled); err != nil {
				errs = append(errs, &EffectError{ID: inst.ID, Type: inst.effectType(), Op: "state", Err: err})
			}
		}
		if err := m.runCleanup(inst); err != nil {
			ferr := &EffectError{ID: inst.ID, Type: inst.effectType(), Op: "cleanup", Err: err}
			errs = append(errs, ferr)
			if cb := inst.Callbacks.OnError; cb != nil {
				_ = guard(func() { cb(inst.ID, ferr) })
			}
		}
		delete(m.byID, inst.ID)
	}
	clear(m.instances)
	m.instances = m.instances[:0]
	m.timers.clear()
	m.pool.Clear()
	m.perf.Reset()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}

	err := errors.Join(errs...)
	if err != nil {
		m.logger.Printf("reactfx: cleanup: %v", err)
	}
	return err
}
