package reactfx

import (
	"fmt"
	"time"
)

// InstanceID identifies one effect instance. IDs are assigned from a
// per-manager counter and never reused; the zero ID is never assigned.
type InstanceID uint64

func (id InstanceID) String() string {
	return fmt.Sprintf("fx-%d", uint64(id))
}

// State is the lifecycle state of an effect instance.
//
//	pending -> active -> {paused <-> active} -> {completed | cancelled | error}
type State uint8

const (
	StatePending State = iota
	StateActive
	StatePaused
	StateCompleted
	StateCancelled
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Terminal reports whether no further transitions can leave s.
func (s State) Terminal() bool {
	return s >= StateCompleted
}

// Callbacks observe one instance. Every field is optional. Callbacks run on
// the frame loop; a panic in any of them moves the instance to StateError
// and is reported through OnError without disturbing other instances.
type Callbacks struct {
	OnStateChange func(id InstanceID, from, to State)
	OnProgress    func(id InstanceID, progress float64)
	OnComplete    func(id InstanceID)
	OnError       func(id InstanceID, err error)
	// Cleanup releases resources the instance owns. It runs exactly once,
	// when the instance is removed, whatever its final state.
	Cleanup func() error
}

// Instance is the runtime record of one playing descriptor.
type Instance struct {
	ID         InstanceID
	Descriptor Descriptor
	State      State
	// Start is when the instance became active, shifted forward by the time
	// spent paused.
	Start    time.Time
	Duration time.Duration
	Progress float64
	// PausedAt is set while the instance is paused.
	PausedAt  time.Time
	Callbacks Callbacks

	// Descriptor-independent fields survive pooling.
	renderer        Renderer
	rendererVersion uint64

	completedAt time.Time
	removal     uint64 // grace timer handle; 0 when none pending
}

// progressAt returns min(elapsed/duration, 1), treating a non-positive
// duration as already elapsed.
func progressAt(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(duration)
	if p > 1 {
		return 1
	}
	return p
}

// EffectInfo is a read-only snapshot of an instance.
type EffectInfo struct {
	ID         InstanceID
	Type       EffectType
	Descriptor Descriptor
	State      State
	Progress   float64
	Start      time.Time
	Duration   time.Duration
}

func (inst *Instance) info() EffectInfo {
	return EffectInfo{
		ID:         inst.ID,
		Type:       inst.effectType(),
		Descriptor: inst.Descriptor,
		State:      inst.State,
		Progress:   inst.Progress,
		Start:      inst.Start,
		Duration:   inst.Duration,
	}
}

func (inst *Instance) effectType() EffectType {
	if inst.Descriptor == nil {
		return ""
	}
	return inst.Descriptor.EffectType()
}
