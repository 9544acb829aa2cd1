package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/reactfx"

	"github.com/yohamta/donburi"
)

func newTestManager(t *testing.T) (*reactfx.Manager, *reactfx.ManualClock) {
	t.Helper()
	clk := reactfx.NewManualClock(time.Unix(0, 0))
	cfg := reactfx.DefaultConfig()
	cfg.Clock = clk
	cfg.Logger = reactfx.DiscardLogger
	return reactfx.NewManager(nil, cfg), clk
}

func TestNewBridge(t *testing.T) {
	b := NewBridge(donburi.NewWorld())
	if b == nil {
		t.Fatal("NewBridge returned nil")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d, want 0", b.Len())
	}
}

func TestBridge_ImplementsEventSink(t *testing.T) {
	var sink reactfx.EventSink = NewBridge(donburi.NewWorld())
	_ = sink // compile-time interface check
}

func TestBridge_PublishQueuesEvents(t *testing.T) {
	world := donburi.NewWorld()
	b := NewBridge(world)

	var received []reactfx.LifecycleEvent
	LifecycleEventType.Subscribe(world, func(w donburi.World, e reactfx.LifecycleEvent) {
		received = append(received, e)
	})

	m, clk := newTestManager(t)
	m.SetEventSink(b)
	id, err := m.AddEffect(reactfx.UnknownEffect{Type: "sparks"}, time.Second, reactfx.Callbacks{})
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)
	m.Update()

	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	LifecycleEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.ID != id || e0.From != reactfx.StatePending || e0.To != reactfx.StateActive {
		t.Errorf("event 0: %+v", e0)
	}
	e1 := received[1]
	if e1.To != reactfx.StateCompleted || e1.Progress != 1 || e1.Type != "sparks" {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestBridge_SyncMirrorsInstances(t *testing.T) {
	world := donburi.NewWorld()
	b := NewBridge(world)
	m, clk := newTestManager(t)

	a, _ := m.AddEffect(reactfx.UnknownEffect{Type: "a"}, time.Second, reactfx.Callbacks{})
	c, _ := m.AddEffect(reactfx.UnknownEffect{Type: "c"}, 4*time.Second, reactfx.Callbacks{})
	clk.Advance(500 * time.Millisecond)
	m.Update()
	b.Sync(m.Effects())

	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	e, ok := b.Entity(a)
	if !ok {
		t.Fatal("no entity for first instance")
	}
	data := Effect.Get(world.Entry(e))
	if data.ID != a || data.Type != "a" || data.State != reactfx.StateActive || data.Progress != 0.5 {
		t.Errorf("component = %+v", *data)
	}

	m.PauseEffect(c)
	b.Sync(m.Effects())
	e, _ = b.Entity(c)
	if got := Effect.Get(world.Entry(e)).State; got != reactfx.StatePaused {
		t.Errorf("state = %v, want paused", got)
	}

	m.RemoveEffect(a)
	b.Sync(m.Effects())
	if _, ok := b.Entity(a); ok {
		t.Error("entity still mirrored after removal")
	}
	if world.Valid(e) == false {
		t.Error("surviving entity removed")
	}
	if b.Len() != 1 {
		t.Errorf("Len = %d, want 1", b.Len())
	}
}

func TestBridge_SyncEmptyClearsWorld(t *testing.T) {
	world := donburi.NewWorld()
	b := NewBridge(world)
	b.Sync([]reactfx.EffectInfo{{ID: 1, Type: "x"}, {ID: 2, Type: "y"}})
	if world.Len() != 2 {
		t.Fatalf("world.Len = %d, want 2", world.Len())
	}
	b.Sync(nil)
	if world.Len() != 0 || b.Len() != 0 {
		t.Errorf("world.Len = %d, bridge.Len = %d, want 0", world.Len(), b.Len())
	}
}
