package reactfx

import (
	"fmt"
	"slices"
)

// Registry maps effect-type tags to renderer factories. Build one at startup,
// register every variant, then hand it to a Scheduler or Manager.
//
// Registry is not safe for concurrent use; registration is expected to
// finish before effects are scheduled.
type Registry struct {
	factories map[EffectType]RendererFactory
	version   uint64 // bumped on every Register
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[EffectType]RendererFactory)}
}

// NewDefaultRegistry returns a registry with the eight shipped variants
// registered using tuning.
func NewDefaultRegistry(tuning RenderTuning) *Registry {
	reg := NewRegistry()
	RegisterDefaults(reg, tuning)
	return reg
}

// Register stores factory under tag. Registering a tag again replaces the
// previous factory. A nil factory removes the tag.
func (r *Registry) Register(tag EffectType, factory RendererFactory) {
	r.version++
	if factory == nil {
		delete(r.factories, tag)
		return
	}
	r.factories[tag] = factory
}

// Get instantiates a renderer for tag, or returns nil when none is registered.
func (r *Registry) Get(tag EffectType) Renderer {
	if r == nil {
		return nil
	}
	f, ok := r.factories[tag]
	if !ok {
		return nil
	}
	return f()
}

// Lookup is Get with an error wrapping ErrUnknownEffectType when tag has
// no registered factory.
func (r *Registry) Lookup(tag EffectType) (Renderer, error) {
	if rd := r.Get(tag); rd != nil {
		return rd, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEffectType, tag)
}

// Has reports whether tag has a registered factory.
func (r *Registry) Has(tag EffectType) bool {
	if r == nil {
		return false
	}
	_, ok := r.factories[tag]
	return ok
}

// Registered returns the registered tags in sorted order.
func (r *Registry) Registered() []EffectType {
	if r == nil {
		return nil
	}
	tags := make([]EffectType, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// RegisterDefaults registers the shipped renderer for every known effect type.
func RegisterDefaults(reg *Registry, tuning RenderTuning) {
	tuning = tuning.withDefaults()
	ctors := map[EffectType]func(RenderTuning) Renderer{
		EffectGasProduction:     NewGasRenderer,
		EffectLightEmission:     NewLightRenderer,
		EffectTemperatureChange: NewTemperatureRenderer,
		EffectFoamProduction:    NewFoamRenderer,
		EffectStateChange:       NewStateRenderer,
		EffectVolumeChange:      NewVolumeRenderer,
		EffectSpill:             NewSpillRenderer,
		EffectTextureChange:     NewTextureRenderer,
	}
	for tag, ctor := range ctors {
		reg.Register(tag, func() Renderer { return ctor(tuning) })
	}
}
