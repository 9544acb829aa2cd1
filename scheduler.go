package reactfx

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// fragment is one instance's output for the current frame.
type fragment struct {
	id   InstanceID
	node *Node
}

// Scheduler plays submitted descriptors on one drawing surface. It owns a
// Manager for lifecycle bookkeeping and renders every tracked instance each
// frame. Wire Update and Draw into the host's ebiten.Game:
//
//	func (g *Game) Update() error              { return g.fx.Update() }
//	func (g *Game) Draw(screen *ebiten.Image) { g.fx.Draw(screen) }
type Scheduler struct {
	mgr      *Manager
	composer Composer
	logger   Logger

	anchor        Vec2
	bounds        Rect
	reducedMotion bool

	onComplete func(id InstanceID, d Descriptor)

	frags []fragment
	stats FrameStats
}

// NewScheduler returns a scheduler drawing renderers from reg.
func NewScheduler(reg *Registry, cfg Config) *Scheduler {
	cfg = cfg.withDefaults()
	s := &Scheduler{
		mgr:           NewManager(reg, cfg),
		logger:        cfg.Logger,
		reducedMotion: cfg.ResolveReducedMotion(),
	}
	s.mgr.Memory().Subscribe(s.onPressure)
	return s
}

// Manager exposes the underlying lifecycle manager for pause, resume, and
// cancel control of individual instances.
func (s *Scheduler) Manager() *Manager { return s.mgr }

// SetAnchor sets the point effects emanate from, in surface coordinates.
func (s *Scheduler) SetAnchor(p Vec2) { s.anchor = p }

// SetBounds sets the surface rectangle. A zero anchor defaults to its center.
func (s *Scheduler) SetBounds(r Rect) {
	s.bounds = r
	if s.anchor == (Vec2{}) {
		s.anchor = r.Center()
	}
}

// SetReducedMotion overrides the reduced-motion setting resolved at
// construction.
func (s *Scheduler) SetReducedMotion(on bool) { s.reducedMotion = on }

// ReducedMotion reports whether static renderings are in use.
func (s *Scheduler) ReducedMotion() bool { return s.reducedMotion }

// OnComplete sets a hook called once per instance when it completes.
func (s *Scheduler) OnComplete(fn func(id InstanceID, d Descriptor)) { s.onComplete = fn }

// Submit starts one instance per descriptor. Earlier instances keep playing.
// Each instance runs for its renderer's duration; descriptors with no
// registered renderer still run their duration and draw nothing.
func (s *Scheduler) Submit(descs ...Descriptor) ([]InstanceID, error) {
	ids := make([]InstanceID, 0, len(descs))
	for _, d := range descs {
		id, err := s.SubmitWith(d, 0, Callbacks{})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SubmitWith starts one instance with an explicit duration (<= 0 uses the
// renderer's) and callbacks. The scheduler's completion hook runs after
// cb.OnComplete.
func (s *Scheduler) SubmitWith(d Descriptor, duration time.Duration, cb Callbacks) (InstanceID, error) {
	user := cb.OnComplete
	cb.OnComplete = func(id InstanceID) {
		if user != nil {
			user(id)
		}
		if s.onComplete != nil {
			s.onComplete(id, d)
		}
	}
	return s.mgr.AddEffect(d, duration, cb)
}

// Idle reports whether no instances remain. An idle scheduler's Update does
// no work.
func (s *Scheduler) Idle() bool { return s.mgr.Len() == 0 }

// Active returns snapshots of the instances still playing.
func (s *Scheduler) Active() []EffectInfo { return s.mgr.ActiveEffects() }

// Fragments returns the fragments rendered by the last Update, in instance
// insertion order. They stay valid until the next Update.
func (s *Scheduler) Fragments() []*Node {
	out := make([]*Node, 0, len(s.frags))
	for _, f := range s.frags {
		out = append(out, f.node)
	}
	return out
}

// Fragment returns the fragment rendered for id by the last Update.
func (s *Scheduler) Fragment(id InstanceID) *Node {
	for _, f := range s.frags {
		if f.id == id {
			return f.node
		}
	}
	return nil
}

// Stats returns the timing of the last frame. Populated in debug mode only.
func (s *Scheduler) Stats() FrameStats { return s.stats }

// Metrics returns the current performance snapshot.
func (s *Scheduler) Metrics() PerformanceMetrics { return s.mgr.PerformanceMetrics() }

// Update advances every instance, retires finished ones, and renders the
// survivors. It never returns a per-instance failure; failures are
// contained to the failing instance. The error return satisfies
// ebiten.Game and reports use after Close.
func (s *Scheduler) Update() error {
	if s.mgr.Closed() {
		return ErrClosed
	}
	s.releaseFragments()
	if s.Idle() {
		return nil
	}

	var t0 time.Time
	if globalDebug {
		s.stats = FrameStats{}
		t0 = time.Now()
	}

	s.mgr.Update()

	if globalDebug {
		t1 := time.Now()
		s.stats.UpdateTime = t1.Sub(t0)
		t0 = t1
	}

	s.render()

	if globalDebug {
		s.stats.RenderTime = time.Since(t0)
		s.stats.Instances = s.mgr.Len()
		s.stats.Completed = s.mgr.Len() - len(s.mgr.ActiveEffects())
	}
	return nil
}

// render builds this frame's fragment for every tracked instance. A renderer
// panic moves that instance to StateError.
func (s *Scheduler) render() {
	ctx := AnimationContext{
		Anchor:        s.anchor,
		Bounds:        s.bounds,
		ReducedMotion: s.reducedMotion,
		LowQuality:    s.mgr.perf.ShouldReduceQuality(),
	}
	s.mgr.scratch = append(s.mgr.scratch[:0], s.mgr.instances...)
	for _, inst := range s.mgr.scratch {
		if inst.renderer == nil || !s.mgr.tracked(inst) {
			continue
		}
		ctx.Progress = inst.Progress
		ctx.Seed = uint64(inst.ID)
		var node *Node
		if err := guard(func() { node = inst.renderer.Render(inst.Descriptor, ctx) }); err != nil {
			s.mgr.fail(inst, "render", err)
			continue
		}
		if node != nil {
			s.frags = append(s.frags, fragment{id: inst.ID, node: node})
		}
	}
	clear(s.mgr.scratch)
}

// Draw composes the current fragments onto dst.
func (s *Scheduler) Draw(dst *ebiten.Image) {
	if len(s.frags) == 0 {
		return
	}
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}

	cmds := s.compose()

	if globalDebug {
		t1 := time.Now()
		s.stats.ComposeTime = t1.Sub(t0)
		s.stats.CommandCount = len(cmds)
		t0 = t1
	}

	calls := s.composer.Submit(dst)

	if globalDebug {
		s.stats.SubmitTime = time.Since(t0)
		s.stats.DrawCallCount = calls
		logFrameStats(s.logger, s.stats)
	}
}

// compose flattens the current fragments into draw commands.
func (s *Scheduler) compose() []DrawCommand {
	roots := make([]*Node, 0, len(s.frags))
	for _, f := range s.frags {
		roots = append(roots, f.node)
	}
	return s.composer.Compose(roots...)
}

// onPressure drops fragments of completed instances; the manager evicts
// the instances themselves.
func (s *Scheduler) onPressure(MemoryPressure) {
	kept := s.frags[:0]
	for _, f := range s.frags {
		if st, ok := s.mgr.EffectState(f.id); ok && st != StateCompleted {
			kept = append(kept, f)
		} else {
			f.node.Dispose()
		}
	}
	clear(s.frags[len(kept):])
	s.frags = kept
}

func (s *Scheduler) releaseFragments() {
	for i := range s.frags {
		s.frags[i].node.Dispose()
		s.frags[i] = fragment{}
	}
	s.frags = s.frags[:0]
}

// Close cancels every instance, running owned cleanups immediately, and
// releases the fragments. Close is idempotent.
func (s *Scheduler) Close() error {
	s.releaseFragments()
	return s.mgr.Cleanup()
}
