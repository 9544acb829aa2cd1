// Package reactfx animates the visible outcome of a simulated chemical
// reaction on an [Ebitengine] surface.
//
// A reaction collaborator supplies effect descriptors (gas production, light
// emission, temperature change, foam, state change, volume change, spill,
// texture change). reactfx schedules one instance per descriptor, advances
// it every frame through its lifecycle, renders it with the renderer
// registered for its effect type, and retires it when its duration elapses.
//
// # Quick start
//
// Build a registry, create a [Scheduler], and drive it from your
// [ebiten.Game]:
//
//	reg := reactfx.NewDefaultRegistry(reactfx.DefaultRenderTuning())
//	fx := reactfx.NewScheduler(reg, reactfx.DefaultConfig())
//	fx.SetBounds(reactfx.Rect{Width: 640, Height: 480})
//
//	descs, _ := reactfx.ParseDescriptors(payload)
//	fx.Submit(descs...)
//
//	func (g *Game) Update() error         { return g.fx.Update() }
//	func (g *Game) Draw(s *ebiten.Image)  { g.fx.Draw(s) }
//
// # Lifecycle
//
// Instances move through pending, active, paused, and one of completed,
// cancelled, or error. [Manager] exposes the state machine directly for
// hosts that drive effects without a surface: add, pause, resume, cancel,
// remove, per-instance callbacks, and a cleanup owned by the instance.
// Completed instances linger for a short grace period so exit animations
// finish. A panic in any callback or renderer is contained to its instance.
//
// # Rendering
//
// A [Renderer] is a pure function from a descriptor and an
// [AnimationContext] to a small tree of [Node] shapes. Rendering the same
// descriptor at the same progress always yields the same tree. Under
// reduced motion every renderer returns a static shape and a label. When
// the [PerformanceMonitor] reports a low frame rate, renderers shed half of
// their particles.
//
// # Resources
//
// Retired instances are recycled per effect type through a bounded [Pool].
// A [MemoryManager] samples estimated usage and, above the threshold,
// signals subscribers to evict completed instances.
//
// Lifecycle events can be mirrored into a Donburi world with the adapter
// in reactfx/ecs.
//
// [Ebitengine]: https://ebitengine.org
package reactfx
