package reactfx

import (
	"math"
)

// particle holds the birth parameters of one particle. Its state at any
// progress is computed in closed form, so a field can be evaluated at an
// arbitrary instant without stepping a simulation.
type particle struct {
	origin     Vec2
	vx, vy     float64 // pixels per unit of local lifetime
	phase      float64 // turbulence phase offset
	delay      float64 // progress at which the particle is born
	life       float64 // span of progress the particle lives for
	startScale float64
	endScale   float64
	startAlpha float64
	endAlpha   float64
}

// fieldConfig controls how a particle field is spawned and how it evolves
// over an effect's progress. Distances are in pixels, times are fractions of
// the effect's progress.
type fieldConfig struct {
	// Count is the number of particles.
	Count int
	// SpawnRadius is the radius of the disc around the origin particles are born in.
	SpawnRadius Range
	// Angle is the range of launch angles in radians.
	Angle Range
	// Speed is the distance travelled over one lifetime at the launch velocity.
	Speed Range
	// Delay is the range of birth times.
	Delay Range
	// Lifetime is the range of lifetimes.
	Lifetime Range
	// Radius is the base circle radius scaled by StartScale..EndScale.
	Radius float64
	// StartScale and EndScale bound the scale at birth and at death.
	StartScale Range
	EndScale   Range
	// StartAlpha and EndAlpha bound the alpha at birth and at death.
	StartAlpha Range
	EndAlpha   Range
	// Gravity is the displacement from constant acceleration over one lifetime.
	Gravity Vec2
	// Turbulence is the horizontal sway amplitude; TurbulenceFreq its cycles per lifetime.
	Turbulence     float64
	TurbulenceFreq float64
	// StartColor is the tint at birth, interpolated to EndColor over the lifetime.
	StartColor Color
	EndColor   Color
	// BlendMode is the compositing operation for the particles.
	BlendMode BlendMode
}

// spawnField draws the birth parameters of every particle from g.
func spawnField(cfg fieldConfig, g rng) []particle {
	ps := make([]particle, cfg.Count)
	for i := range ps {
		p := &ps[i]
		a := g.Float() * 2 * math.Pi
		r := g.In(cfg.SpawnRadius)
		p.origin = Vec2{r * math.Cos(a), r * math.Sin(a)}

		angle := g.In(cfg.Angle)
		speed := g.In(cfg.Speed)
		p.vx = math.Cos(angle) * speed
		p.vy = math.Sin(angle) * speed
		p.phase = g.Float() * 2 * math.Pi

		p.delay = g.In(cfg.Delay)
		p.life = g.In(cfg.Lifetime)
		if p.life <= 0 {
			p.life = 1
		}
		p.startScale = g.In(cfg.StartScale)
		p.endScale = g.In(cfg.EndScale)
		p.startAlpha = g.In(cfg.StartAlpha)
		p.endAlpha = g.In(cfg.EndAlpha)
	}
	return ps
}

// particleState is a particle evaluated at one instant.
type particleState struct {
	pos   Vec2
	scale float64
	alpha float64
	t     float64 // local lifetime fraction
}

// at evaluates p at effect progress. ok is false before birth or after death.
func (p *particle) at(cfg *fieldConfig, progress float64) (s particleState, ok bool) {
	t := (progress - p.delay) / p.life
	if t < 0 || t > 1 {
		return s, false
	}
	s.t = t
	s.pos = Vec2{
		X: p.origin.X + p.vx*t + 0.5*cfg.Gravity.X*t*t + Wave(t, cfg.TurbulenceFreq, cfg.Turbulence, p.phase),
		Y: p.origin.Y + p.vy*t + 0.5*cfg.Gravity.Y*t*t,
	}
	s.scale = lerp(p.startScale, p.endScale, t)
	s.alpha = lerp(p.startAlpha, p.endAlpha, t)
	return s, true
}

// buildField appends one circle per live particle to a new container.
// alphaScale multiplies every particle's alpha (the effect's envelope).
func buildField(name string, cfg fieldConfig, ps []particle, progress, alphaScale float64) *Node {
	field := NewContainer(name)
	for i := range ps {
		s, ok := ps[i].at(&cfg, progress)
		if !ok {
			continue
		}
		c := LerpColor(cfg.StartColor, cfg.EndColor, s.t)
		dot := NewCircle("particle", s.pos.X, s.pos.Y, cfg.Radius*s.scale, c)
		dot.Alpha = clamp01(s.alpha * alphaScale)
		dot.BlendMode = cfg.BlendMode
		field.AddChild(dot)
	}
	return field
}

// ringLayout places n points evenly on a circle of radius r starting at
// angle start. Used by static reduced-motion renderings, which must not draw
// from the random stream.
func ringLayout(n int, r, start float64) []Vec2 {
	pts := make([]Vec2, n)
	for i := range pts {
		a := start + 2*math.Pi*float64(i)/float64(n)
		pts[i] = Vec2{r * math.Cos(a), r * math.Sin(a)}
	}
	return pts
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
