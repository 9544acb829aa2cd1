package ecs

import (
	"github.com/phanxgames/reactfx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LifecycleEventType is the Donburi event type for reactfx lifecycle
// transitions. Subscribe to it in your ECS systems and drain it with
// ProcessEvents once per tick.
var LifecycleEventType = events.NewEventType[reactfx.LifecycleEvent]()

// EffectData is the component mirrored onto one entity per live instance.
type EffectData struct {
	ID       reactfx.InstanceID
	Type     reactfx.EffectType
	State    reactfx.State
	Progress float64
}

// Effect is the component type holding EffectData.
var Effect = donburi.NewComponentType[EffectData]()

// Bridge connects a reactfx Manager to a Donburi world. As a
// reactfx.EventSink it queues every transition on LifecycleEventType; Sync
// mirrors the manager's tracked instances as entities.
type Bridge struct {
	world    donburi.World
	entities map[reactfx.InstanceID]donburi.Entity
}

// NewBridge creates a bridge publishing into world. Attach it with
// Manager.SetEventSink.
func NewBridge(world donburi.World) *Bridge {
	return &Bridge{
		world:    world,
		entities: make(map[reactfx.InstanceID]donburi.Entity),
	}
}

// Publish implements reactfx.EventSink.
func (b *Bridge) Publish(ev reactfx.LifecycleEvent) {
	LifecycleEventType.Publish(b.world, ev)
}

// Sync creates an entity for every new instance in effects, refreshes the
// component of known ones, and removes entities whose instance is gone.
func (b *Bridge) Sync(effects []reactfx.EffectInfo) {
	seen := make(map[reactfx.InstanceID]struct{}, len(effects))
	for _, info := range effects {
		seen[info.ID] = struct{}{}
		e, ok := b.entities[info.ID]
		if !ok || !b.world.Valid(e) {
			e = b.world.Create(Effect)
			b.entities[info.ID] = e
		}
		Effect.SetValue(b.world.Entry(e), EffectData{
			ID:       info.ID,
			Type:     info.Type,
			State:    info.State,
			Progress: info.Progress,
		})
	}
	for id, e := range b.entities {
		if _, ok := seen[id]; ok {
			continue
		}
		if b.world.Valid(e) {
			b.world.Remove(e)
		}
		delete(b.entities, id)
	}
}

// Entity returns the entity mirroring id.
func (b *Bridge) Entity(id reactfx.InstanceID) (donburi.Entity, bool) {
	e, ok := b.entities[id]
	if !ok || !b.world.Valid(e) {
		return 0, false
	}
	return e, true
}

// Len returns the number of mirrored instances.
func (b *Bridge) Len() int { return len(b.entities) }
