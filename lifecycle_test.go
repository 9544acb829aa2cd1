package reactfx

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, reg *Registry, cfg Config) (*Manager, *ManualClock) {
	t.Helper()
	clk := NewManualClock(epoch)
	cfg.Clock = clk
	cfg.Logger = DiscardLogger
	return NewManager(reg, cfg), clk
}

// advance moves the clock by d and runs one frame.
func advance(m *Manager, clk *ManualClock, d time.Duration) {
	clk.Advance(d)
	m.Update()
}

func mustAdd(t *testing.T, m *Manager, d Descriptor, dur time.Duration, cb Callbacks) InstanceID {
	t.Helper()
	id, err := m.AddEffect(d, dur, cb)
	if err != nil {
		t.Fatalf("AddEffect: %v", err)
	}
	return id
}

func assertState(t *testing.T, m *Manager, id InstanceID, want State) {
	t.Helper()
	got, ok := m.EffectState(id)
	if !ok {
		t.Fatalf("%s is no longer tracked, want %s", id, want)
	}
	if got != want {
		t.Fatalf("%s state = %s, want %s", id, got, want)
	}
}

func assertGone(t *testing.T, m *Manager, id InstanceID) {
	t.Helper()
	if st, ok := m.EffectState(id); ok {
		t.Fatalf("%s still tracked in state %s", id, st)
	}
}

// transitions collects OnStateChange calls.
type transitions []State

func (tr *transitions) record(_ InstanceID, _, to State) { *tr = append(*tr, to) }

func TestAddEffectStartsActive(t *testing.T) {
	m, _ := newTestManager(t, nil, Config{})
	var tr transitions
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{OnStateChange: tr.record})
	if id == 0 {
		t.Fatal("zero id assigned")
	}
	assertState(t, m, id, StateActive)
	if len(tr) != 1 || tr[0] != StateActive {
		t.Errorf("transitions = %v", tr)
	}
	id2 := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{})
	if id2 == id {
		t.Error("ids must be unique")
	}
}

func TestAddEffectNilDescriptor(t *testing.T) {
	m, _ := newTestManager(t, nil, Config{})
	if _, err := m.AddEffect(nil, 0, Callbacks{}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("err = %v, want ErrInvalidDescriptor", err)
	}
}

func TestDefaultDurations(t *testing.T) {
	reg := NewRegistry()
	reg.Register("fixed", stubFactory("fixed", 750*time.Millisecond))
	reg.Register("zero", stubFactory("zero", 0))
	reg.Register("broken", func() Renderer { return panicDurationRenderer{} })
	m, _ := newTestManager(t, reg, Config{})

	tests := []struct {
		name string
		d    Descriptor
		want time.Duration
	}{
		{"renderer duration", UnknownEffect{Type: "fixed"}, 750 * time.Millisecond},
		{"descriptor seconds", UnknownEffect{Type: "zero", Duration: 1.5}, 1500 * time.Millisecond},
		{"unregistered", UnknownEffect{Type: "nothing"}, DefaultFallbackDuration},
		{"panicking renderer", UnknownEffect{Type: "broken"}, DefaultFallbackDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := mustAdd(t, m, tt.d, 0, Callbacks{})
			info, _ := m.Effect(id)
			if info.Duration != tt.want {
				t.Errorf("Duration = %v, want %v", info.Duration, tt.want)
			}
		})
	}
}

type panicDurationRenderer struct{}

func (panicDurationRenderer) Render(Descriptor, AnimationContext) *Node { return nil }

func (panicDurationRenderer) Duration(Descriptor) time.Duration { panic("no duration") }

func TestCompletionAndGracePeriod(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	completed := 0
	cleaned := 0
	var tr transitions
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		OnStateChange: tr.record,
		OnComplete:    func(InstanceID) { completed++ },
		Cleanup:       func() error { cleaned++; return nil },
	})

	advance(m, clk, 500*time.Millisecond)
	info, _ := m.Effect(id)
	if info.Progress != 0.5 {
		t.Errorf("Progress = %v, want 0.5", info.Progress)
	}

	advance(m, clk, 500*time.Millisecond)
	assertState(t, m, id, StateCompleted)
	if completed != 1 {
		t.Errorf("OnComplete called %d times", completed)
	}
	if cleaned != 0 {
		t.Error("cleanup should wait for the grace period")
	}

	advance(m, clk, DefaultGracePeriod/2)
	assertState(t, m, id, StateCompleted)

	advance(m, clk, DefaultGracePeriod/2)
	assertGone(t, m, id)
	if cleaned != 1 || completed != 1 {
		t.Errorf("cleaned = %d, completed = %d, want 1 and 1", cleaned, completed)
	}
	want := transitions{StateActive, StateCompleted}
	if len(tr) != len(want) || tr[0] != want[0] || tr[1] != want[1] {
		t.Errorf("transitions = %v, want %v", tr, want)
	}
}

func TestProgressIsMonotone(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	var seen []float64
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		OnProgress: func(_ InstanceID, p float64) { seen = append(seen, p) },
	})
	advance(m, clk, 600*time.Millisecond)
	clk.Set(epoch.Add(200 * time.Millisecond))
	m.Update()

	info, _ := m.Effect(id)
	if info.Progress != 0.6 {
		t.Errorf("Progress went backwards: %v", info.Progress)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Errorf("OnProgress not monotone: %v", seen)
		}
	}
}

func TestPauseResumeShiftsCompletion(t *testing.T) {
	tests := []struct {
		name     string
		pause    time.Duration
		resume   time.Duration
		complete time.Duration
	}{
		{"one second pause", 500 * time.Millisecond, 1500 * time.Millisecond, 4000 * time.Millisecond},
		{"one and a half second pause", 500 * time.Millisecond, 2000 * time.Millisecond, 4500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, clk := newTestManager(t, nil, Config{})
			id := mustAdd(t, m, UnknownEffect{Type: "x"}, 3*time.Second, Callbacks{})

			clk.Set(epoch.Add(tt.pause))
			m.Update()
			m.PauseEffect(id)
			assertState(t, m, id, StatePaused)
			before, _ := m.Effect(id)

			clk.Set(epoch.Add(tt.resume))
			m.Update()
			during, _ := m.Effect(id)
			if during.Progress != before.Progress {
				t.Errorf("progress moved while paused: %v -> %v", before.Progress, during.Progress)
			}
			m.ResumeEffect(id)
			assertState(t, m, id, StateActive)

			clk.Set(epoch.Add(tt.complete - time.Millisecond))
			m.Update()
			assertState(t, m, id, StateActive)

			clk.Set(epoch.Add(tt.complete))
			m.Update()
			assertState(t, m, id, StateCompleted)
		})
	}
}

func TestPauseResumeIgnoredInWrongState(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{})
	m.ResumeEffect(id) // not paused
	assertState(t, m, id, StateActive)

	advance(m, clk, time.Second)
	m.PauseEffect(id) // completed
	assertState(t, m, id, StateCompleted)
}

func TestCancelSkipsOnComplete(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	completed := false
	cleaned := 0
	var tr transitions
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		OnStateChange: tr.record,
		OnComplete:    func(InstanceID) { completed = true },
		Cleanup:       func() error { cleaned++; return nil },
	})
	advance(m, clk, 100*time.Millisecond)
	m.CancelEffect(id)

	assertGone(t, m, id)
	if completed {
		t.Error("OnComplete must not run on cancel")
	}
	if cleaned != 1 {
		t.Errorf("cleanup ran %d times, want 1", cleaned)
	}
	if tr[len(tr)-1] != StateCancelled {
		t.Errorf("transitions = %v, want final cancelled", tr)
	}

	advance(m, clk, 2*time.Second)
	if completed || cleaned != 1 {
		t.Error("cancelled instance must not run again")
	}
}

func TestCancelPausedInstance(t *testing.T) {
	m, _ := newTestManager(t, nil, Config{})
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{})
	m.PauseEffect(id)
	m.CancelEffect(id)
	assertGone(t, m, id)
}

func TestRemoveCompletedSkipsGrace(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	cleaned := 0
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		Cleanup: func() error { cleaned++; return nil },
	})
	advance(m, clk, time.Second)
	m.CancelEffect(id) // terminal: ignored
	assertState(t, m, id, StateCompleted)

	m.RemoveEffect(id)
	assertGone(t, m, id)
	advance(m, clk, time.Second)
	if cleaned != 1 {
		t.Errorf("cleanup ran %d times, want 1", cleaned)
	}
}

func TestUnknownIDsAreIgnored(t *testing.T) {
	m, _ := newTestManager(t, nil, Config{})
	const bogus InstanceID = 999
	m.PauseEffect(bogus)
	m.ResumeEffect(bogus)
	m.CancelEffect(bogus)
	m.RemoveEffect(bogus)
	if _, ok := m.EffectState(bogus); ok {
		t.Error("bogus id reported as tracked")
	}
	if _, ok := m.Effect(bogus); ok {
		t.Error("bogus id returned a snapshot")
	}
}

func TestCallbackPanicIsContained(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	var gotErr error
	cleaned := 0
	bad := mustAdd(t, m, UnknownEffect{Type: "bad"}, time.Second, Callbacks{
		OnProgress: func(InstanceID, float64) { panic("progress exploded") },
		OnError:    func(_ InstanceID, err error) { gotErr = err },
		Cleanup:    func() error { cleaned++; return nil },
	})
	good := mustAdd(t, m, UnknownEffect{Type: "good"}, time.Second, Callbacks{})

	advance(m, clk, 100*time.Millisecond)

	assertGone(t, m, bad)
	var ferr *EffectError
	if !errors.As(gotErr, &ferr) {
		t.Fatalf("OnError got %v, want *EffectError", gotErr)
	}
	if ferr.ID != bad || ferr.Op != "progress" || ferr.Type != "bad" {
		t.Errorf("EffectError = %+v", ferr)
	}
	if cleaned != 1 {
		t.Errorf("cleanup ran %d times, want 1", cleaned)
	}

	assertState(t, m, good, StateActive)
	advance(m, clk, 900*time.Millisecond)
	assertState(t, m, good, StateCompleted)
}

func TestOnCompletePanicMovesToError(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	var states transitions
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		OnStateChange: states.record,
		OnComplete:    func(InstanceID) { panic("done exploded") },
	})
	advance(m, clk, time.Second)
	assertGone(t, m, id)
	if states[len(states)-1] != StateError {
		t.Errorf("transitions = %v, want final error", states)
	}
}

func TestCleanupErrorReported(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	boom := errors.New("release failed")
	var gotErr error
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		OnError: func(_ InstanceID, err error) { gotErr = err },
		Cleanup: func() error { return boom },
	})
	advance(m, clk, time.Second)
	advance(m, clk, DefaultGracePeriod)
	assertGone(t, m, id)
	if !errors.Is(gotErr, boom) {
		t.Errorf("OnError got %v, want %v", gotErr, boom)
	}
}

func TestCallbackMayPauseItself(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	var id InstanceID
	id = mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		OnProgress: func(_ InstanceID, p float64) {
			if p >= 1 {
				m.PauseEffect(id)
			}
		},
	})
	advance(m, clk, time.Second)
	assertState(t, m, id, StatePaused)
}

func TestEvictionTouchesOnlyCompleted(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{PerInstanceCost: 1, MemoryThreshold: 4})
	done1 := mustAdd(t, m, UnknownEffect{Type: "a"}, 100*time.Millisecond, Callbacks{})
	done2 := mustAdd(t, m, UnknownEffect{Type: "a"}, 100*time.Millisecond, Callbacks{})
	done3 := mustAdd(t, m, UnknownEffect{Type: "a"}, 100*time.Millisecond, Callbacks{})
	active := mustAdd(t, m, UnknownEffect{Type: "b"}, 10*time.Second, Callbacks{})
	paused := mustAdd(t, m, UnknownEffect{Type: "b"}, 10*time.Second, Callbacks{})
	m.PauseEffect(paused)

	if got := m.MemoryUsage(); got != 5 {
		t.Fatalf("MemoryUsage = %d, want 5", got)
	}
	advance(m, clk, 100*time.Millisecond)

	assertGone(t, m, done1)
	assertGone(t, m, done2)
	assertState(t, m, done3, StateCompleted)
	assertState(t, m, active, StateActive)
	assertState(t, m, paused, StatePaused)
	if got := m.MemoryUsage(); got != 3 {
		t.Errorf("MemoryUsage after eviction = %d, want 3", got)
	}
}

func TestPoolReuseRefreshesRenderer(t *testing.T) {
	reg := NewRegistry()
	reg.Register("fizz", stubFactory("first", time.Second))
	m, clk := newTestManager(t, reg, Config{})

	id := mustAdd(t, m, UnknownEffect{Type: "fizz"}, 0, Callbacks{})
	m.RemoveEffect(id)
	if m.Pool().Len("fizz") != 1 {
		t.Fatalf("pool Len = %d, want 1", m.Pool().Len("fizz"))
	}

	id = mustAdd(t, m, UnknownEffect{Type: "fizz"}, 0, Callbacks{})
	if m.Pool().Len("fizz") != 0 {
		t.Error("AddEffect should draw from the pool")
	}
	m.RemoveEffect(id)

	reg.Register("fizz", stubFactory("second", 2*time.Second))
	id = mustAdd(t, m, UnknownEffect{Type: "fizz"}, 0, Callbacks{})
	info, _ := m.Effect(id)
	if info.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want the re-registered renderer's 2s", info.Duration)
	}
	advance(m, clk, time.Second)
	assertState(t, m, id, StateActive)
}

func TestActiveEffectsAndMetrics(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	a := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{})
	b := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{})
	m.PauseEffect(b)
	advance(m, clk, 16*time.Millisecond)

	act := m.ActiveEffects()
	if len(act) != 1 || act[0].ID != a {
		t.Errorf("ActiveEffects = %+v", act)
	}
	if all := m.Effects(); len(all) != 2 || all[0].ID != a || all[1].ID != b {
		t.Errorf("Effects = %+v", all)
	}
	pm := m.PerformanceMetrics()
	if pm.ActiveEffects != 1 || pm.MemoryUsage != 2*DefaultPerInstanceCost {
		t.Errorf("metrics = %+v", pm)
	}
}

type eventLog []LifecycleEvent

func (l *eventLog) Publish(ev LifecycleEvent) { *l = append(*l, ev) }

func TestEventSinkSeesEveryTransition(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	var log eventLog
	m.SetEventSink(&log)
	id := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{})
	m.PauseEffect(id)
	m.ResumeEffect(id)
	advance(m, clk, time.Second)

	want := []State{StateActive, StatePaused, StateActive, StateCompleted}
	if len(log) != len(want) {
		t.Fatalf("events = %+v", log)
	}
	for i, ev := range log {
		if ev.To != want[i] || ev.ID != id {
			t.Errorf("event %d = %+v, want to=%s", i, ev, want[i])
		}
	}
	if log[3].From != StateActive || log[3].Progress != 1 {
		t.Errorf("completion event = %+v", log[3])
	}
}

func TestManagerCleanup(t *testing.T) {
	m, clk := newTestManager(t, nil, Config{})
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	completed := false
	cleaned := 0
	mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		OnComplete: func(InstanceID) { completed = true },
		Cleanup:    func() error { cleaned++; return errA },
	})
	paused := mustAdd(t, m, UnknownEffect{Type: "x"}, time.Second, Callbacks{
		Cleanup: func() error { cleaned++; return errB },
	})
	m.PauseEffect(paused)
	mustAdd(t, m, UnknownEffect{Type: "x"}, 10*time.Millisecond, Callbacks{
		Cleanup: func() error { cleaned++; return nil },
	})
	advance(m, clk, 10*time.Millisecond) // third completes, awaiting grace

	err := m.Cleanup()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Cleanup err = %v, want both cleanup errors", err)
	}
	if cleaned != 3 {
		t.Errorf("cleanups ran %d times, want 3", cleaned)
	}
	if completed {
		t.Error("OnComplete must not run during teardown")
	}
	if m.Len() != 0 || m.Pool().Size() != 0 || !m.Closed() {
		t.Errorf("Len = %d, pool = %d, closed = %v", m.Len(), m.Pool().Size(), m.Closed())
	}

	if err := m.Cleanup(); err != nil {
		t.Errorf("second Cleanup = %v, want nil", err)
	}
	if cleaned != 3 {
		t.Error("second Cleanup ran cleanups again")
	}
	if _, err := m.AddEffect(UnknownEffect{Type: "x"}, 0, Callbacks{}); !errors.Is(err, ErrClosed) {
		t.Errorf("AddEffect after Cleanup = %v, want ErrClosed", err)
	}
	advance(m, clk, time.Second) // must not panic
}
