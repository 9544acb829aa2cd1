// Package ecs provides a Donburi adapter for reactfx.
//
// [NewBridge] returns a [Bridge] that receives every lifecycle transition a
// reactfx Manager performs and queues it in a [Donburi] world as a typed
// event. Subscribe to [LifecycleEventType] in your ECS systems to receive
// them. [Bridge.Sync] mirrors the manager's live instances as entities
// carrying the [Effect] component.
//
// Usage:
//
//	bridge := ecs.NewBridge(world)
//	fx.Manager().SetEventSink(bridge)
//
//	// each tick, after fx.Update():
//	bridge.Sync(fx.Manager().Effects())
//	ecs.LifecycleEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
