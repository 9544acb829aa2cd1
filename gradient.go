package reactfx

// radialGlow approximates a radial gradient with concentric circles whose
// alpha falls off toward the edge. Drawn additively, overlapping rings sum to
// a bright core.
func radialGlow(name string, radius float64, c Color, alpha float64, rings int) *Node {
	glow := NewContainer(name)
	if rings < 1 {
		rings = 1
	}
	for i := 0; i < rings; i++ {
		f := 1 - float64(i)/float64(rings)
		ring := NewCircle("glow-ring", 0, 0, radius*f, c.Lighten(0.5*(1-f)))
		ring.Alpha = clamp01(alpha * (1.2 - f) * 2 / float64(rings))
		ring.BlendMode = BlendAdd
		glow.AddChild(ring)
	}
	return glow
}

// verticalGradient stacks horizontal bands from top color to bottom color.
func verticalGradient(name string, x, y, w, h float64, top, bottom Color, bands int) *Node {
	g := NewContainer(name)
	if bands < 1 {
		bands = 1
	}
	bh := h / float64(bands)
	for i := 0; i < bands; i++ {
		c := BlendLab(top, bottom, float64(i)/float64(max(bands-1, 1)))
		g.AddChild(NewRect("band", x, y+float64(i)*bh, w, bh+0.5, c))
	}
	return g
}
