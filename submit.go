package reactfx

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Label metrics of basicfont.Face7x13.
const (
	labelGlyphWidth = 7
	labelAscent     = 11
)

// Curve tessellation bounds for circles and ellipses.
const (
	minCurveSegments = 12
	maxCurveSegments = 48
)

// Submit draws the commands of the last Compose onto dst in order and
// returns the number of draw calls issued.
func (c *Composer) Submit(dst *ebiten.Image) int {
	calls := 0
	for i := range c.commands {
		cmd := &c.commands[i]
		switch cmd.Type {
		case CommandFill, CommandStroke:
			if c.submitShape(dst, cmd) {
				calls++
			}
		case CommandText:
			submitText(dst, cmd)
			calls++
		}
	}
	return calls
}

// submitShape tessellates the command's outline with a vector path and draws
// it as triangles over the shared white pixel.
func (c *Composer) submitShape(dst *ebiten.Image, cmd *DrawCommand) bool {
	n := cmd.Node
	closed := c.outline(n, affineScale(cmd.Transform))
	if len(c.points) < 2 {
		return false
	}

	var path vector.Path
	for i, p := range c.points {
		x, y := transformPoint(cmd.Transform, p.X, p.Y)
		if i == 0 {
			path.MoveTo(float32(x), float32(y))
		} else {
			path.LineTo(float32(x), float32(y))
		}
	}
	if closed {
		path.Close()
	}

	op := &ebiten.DrawTrianglesOptions{
		Blend:     cmd.BlendMode.EbitenBlend(),
		AntiAlias: true,
	}
	if cmd.Type == CommandStroke {
		sw := &vector.StrokeOptions{
			Width:    float32(n.StrokeWidth * affineScale(cmd.Transform)),
			LineJoin: vector.LineJoinRound,
			LineCap:  vector.LineCapRound,
		}
		c.verts, c.inds = path.AppendVerticesAndIndicesForStroke(c.verts[:0], c.inds[:0], sw)
		op.FillRule = ebiten.FillAll
	} else {
		c.verts, c.inds = path.AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
		op.FillRule = ebiten.NonZero
	}
	if len(c.inds) == 0 {
		return false
	}

	a := cmd.Color.A
	for i := range c.verts {
		v := &c.verts[i]
		v.SrcX, v.SrcY = 0.5, 0.5
		v.ColorR = cmd.Color.R * a
		v.ColorG = cmd.Color.G * a
		v.ColorB = cmd.Color.B * a
		v.ColorA = a
	}
	dst.DrawTriangles(c.verts, c.inds, ensureWhitePixel(), op)
	return true
}

// outline writes the node's local-space outline into c.points and reports
// whether it is closed.
func (c *Composer) outline(n *Node, scale float64) bool {
	c.points = c.points[:0]
	switch n.Type {
	case NodeTypeCircle:
		c.points = appendEllipse(c.points, n.Radius, n.Radius, scale)
	case NodeTypeEllipse:
		c.points = appendEllipse(c.points, n.Radius, n.RadiusY, scale)
	case NodeTypeRect:
		c.points = append(c.points,
			Vec2{0, 0}, Vec2{n.Width, 0}, Vec2{n.Width, n.Height}, Vec2{0, n.Height})
	case NodeTypeLine:
		c.points = append(c.points, n.Points[0], n.Points[1])
		return false
	case NodeTypePolygon:
		c.points = append(c.points, n.Points...)
	}
	return true
}

// appendEllipse approximates an ellipse with a segment count that grows with
// its on-screen size.
func appendEllipse(dst []Vec2, rx, ry, scale float64) []Vec2 {
	segs := int(math.Max(rx, ry) * scale / 2)
	segs = max(minCurveSegments, min(segs, maxCurveSegments))
	for i := 0; i < segs; i++ {
		a := 2 * math.Pi * float64(i) / float64(segs)
		dst = append(dst, Vec2{rx * math.Cos(a), ry * math.Sin(a)})
	}
	return dst
}

func submitText(dst *ebiten.Image, cmd *DrawCommand) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(0, labelAscent)
	op.GeoM.Concat(commandGeoM(cmd.Transform))
	a := cmd.Color.A
	op.ColorScale.Scale(cmd.Color.R*a, cmd.Color.G*a, cmd.Color.B*a, a)
	op.Blend = cmd.BlendMode.EbitenBlend()
	text.DrawWithOptions(dst, cmd.Node.Text, basicfont.Face7x13, &op)
}

// commandGeoM converts an affine matrix to an ebiten.GeoM.
func commandGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

// --- White pixel singleton (no sync.Once, the engine is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source of every shape.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}
