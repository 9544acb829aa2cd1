package reactfx

import (
	"math"
	"strings"
	"time"
)

// phase groups final-state labels by how their particles move.
type phase uint8

const (
	phaseOther phase = iota
	phaseSolid
	phaseLiquid
	phaseGas
)

func classifyState(s string) phase {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid", "precipitate", "crystal", "crystals", "powder", "s":
		return phaseSolid
	case "liquid", "solution", "aqueous", "aq", "l":
		return phaseLiquid
	case "gas", "vapor", "vapour", "g":
		return phaseGas
	default:
		return phaseOther
	}
}

var stateFromColor = Color{0.55, 0.65, 0.8, 1}

func stateColor(ph phase) Color {
	switch ph {
	case phaseSolid:
		return Color{0.92, 0.92, 0.88, 1}
	case phaseLiquid:
		return Color{0.2, 0.5, 0.95, 1}
	case phaseGas:
		return Color{0.85, 0.9, 1, 1}
	default:
		return Color{0.75, 0.6, 0.9, 1}
	}
}

const (
	stateBodyRadius   = 26.0
	stateBodyVertices = 24
	stateMaxParticles = 16
)

type stateRenderer struct {
	tuning RenderTuning
}

// NewStateRenderer returns the state change renderer: a central body that
// morphs from a round blob toward the final state's silhouette while
// particles settle, fall, or disperse.
func NewStateRenderer(tuning RenderTuning) Renderer {
	return stateRenderer{tuning: tuning.withDefaults()}
}

func (r stateRenderer) Duration(Descriptor) time.Duration {
	return r.tuning.StateDuration.Std()
}

func (r stateRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	sc, ok := d.(StateChange)
	if !ok {
		return nil
	}
	ph := classifyState(sc.FinalState)
	if ctx.ReducedMotion {
		root := newFragment("state", ctx)
		root.AddChild(stateBody(ph, 1))
		addLabel(root, stateLabel(sc), ColorWhite, 1)
		return root
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.1, 0.2)
	root := newFragment("state", ctx)

	body := stateBody(ph, EaseInOut(p))
	body.Alpha = env
	root.AddChild(body)

	cfg := stateField(ph, ctx.LowQuality)
	root.AddChild(buildField("particles", cfg, spawnField(cfg, newRNG(d, ctx.Seed)), p, env))

	addLabel(root, stateLabel(sc), ColorWhite, env)
	return root
}

func stateLabel(sc StateChange) string {
	if sc.FinalState == "" {
		return "state change"
	}
	return "-> " + sc.FinalState
}

// stateBody morphs a circle toward the final phase's outline. t in [0, 1].
func stateBody(ph phase, t float64) *Node {
	var lobes, depth, squash float64
	switch ph {
	case phaseSolid:
		lobes, depth = 6, 0.18 // faceted crystal
	case phaseLiquid:
		squash = 0.35 // flattens into a puddle
	case phaseGas:
		lobes, depth = 9, 0.12 // billowing cloud
	default:
		lobes, depth = 4, 0.1
	}
	pts := make([]Vec2, stateBodyVertices)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / stateBodyVertices
		r := stateBodyRadius * (1 + depth*t*math.Cos(lobes*a))
		pts[i] = Vec2{r * math.Cos(a), r * math.Sin(a) * (1 - squash*t)}
	}
	return NewPolygon("body", pts, BlendLab(stateFromColor, stateColor(ph), t))
}

func stateField(ph phase, lowQuality bool) fieldConfig {
	cfg := fieldConfig{
		Count:       particleCount(1, stateMaxParticles, lowQuality),
		SpawnRadius: Range{0, stateBodyRadius},
		Delay:       Range{0, 0.5},
		Lifetime:    Range{0.3, 0.5},
		Radius:      2.5,
		StartScale:  Range{0.8, 1.2},
		EndScale:    Range{0.8, 1.2},
		StartAlpha:  Range{0.8, 1},
		EndAlpha:    Range{0.2, 0.4},
		StartColor:  stateFromColor,
		EndColor:    stateColor(ph),
	}
	switch ph {
	case phaseSolid:
		cfg.Angle = Range{math.Pi * 0.45, math.Pi * 0.55}
		cfg.Speed = Range{10, 25}
		cfg.Gravity = Vec2{0, 25}
		cfg.EndAlpha = Range{0.8, 1}
	case phaseLiquid:
		cfg.Angle = Range{math.Pi * 0.4, math.Pi * 0.6}
		cfg.Speed = Range{20, 40}
		cfg.Gravity = Vec2{0, 60}
	case phaseGas:
		cfg.Angle = Range{-math.Pi * 0.9, -math.Pi * 0.1}
		cfg.Speed = Range{30, 70}
		cfg.Gravity = Vec2{0, -20}
		cfg.Turbulence = 6
		cfg.TurbulenceFreq = 1
		cfg.EndAlpha = Range{0, 0.1}
		cfg.EndScale = Range{1.5, 2.5}
	default:
		cfg.Angle = Range{0, 2 * math.Pi}
		cfg.Speed = Range{15, 35}
	}
	return cfg
}
