package reactfx

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandFill   CommandType = iota // filled shape
	CommandStroke                    // outlined shape or line
	CommandText                      // text label
)

// color32 is a compact RGBA color using float32, for draw commands only.
type color32 struct {
	R, G, B, A float32
}

// DrawCommand is a single draw instruction emitted while flattening
// fragments. Geometry is read from Node at submission time.
type DrawCommand struct {
	Type      CommandType
	Node      *Node
	Transform [6]float64
	Color     color32 // not premultiplied; alpha includes inherited alpha
	BlendMode BlendMode
	ZIndex    int
	treeOrder int // assigned during traversal for stable sort
}

// Composer flattens fragment trees into an ordered command list and submits
// it to an ebiten image. A Composer reuses its buffers across frames and is
// not safe for concurrent use.
type Composer struct {
	commands []DrawCommand
	sortBuf  []DrawCommand

	// Submission scratch.
	points []Vec2
	verts  []ebiten.Vertex
	inds   []uint16
}

// Compose flattens roots into draw commands sorted by ZIndex, ties broken by
// tree order (roots first to last, depth-first within each). Invisible
// subtrees and nodes with zero effective alpha emit nothing. The returned
// slice is owned by the Composer and valid until the next Compose.
func (c *Composer) Compose(roots ...*Node) []DrawCommand {
	c.commands = c.commands[:0]
	treeOrder := 0
	for _, root := range roots {
		if root == nil || root.disposed {
			continue
		}
		c.traverse(root, identityTransform, 1, &treeOrder)
	}
	c.mergeSort()
	return c.commands
}

// Commands returns the result of the last Compose.
func (c *Composer) Commands() []DrawCommand { return c.commands }

// traverse walks the node tree depth-first, updating transforms and emitting
// commands for visible, drawable nodes.
func (c *Composer) traverse(n *Node, parentTransform [6]float64, parentAlpha float64, treeOrder *int) {
	if !n.Visible {
		return
	}
	n.worldTransform = multiplyAffine(parentTransform, computeLocalTransform(n))
	n.worldAlpha = parentAlpha * n.Alpha
	if n.worldAlpha <= 0 {
		return
	}

	if typ, ok := commandTypeFor(n); ok {
		a := n.Color.A * n.worldAlpha
		if a > 0 {
			*treeOrder++
			c.commands = append(c.commands, DrawCommand{
				Type:      typ,
				Node:      n,
				Transform: n.worldTransform,
				Color:     color32{float32(n.Color.R), float32(n.Color.G), float32(n.Color.B), float32(a)},
				BlendMode: n.BlendMode,
				ZIndex:    n.ZIndex,
				treeOrder: *treeOrder,
			})
		}
	}

	for _, child := range n.children {
		c.traverse(child, n.worldTransform, n.worldAlpha, treeOrder)
	}
}

// commandTypeFor reports how n is drawn, or false when it draws nothing.
func commandTypeFor(n *Node) (CommandType, bool) {
	stroke := n.StrokeWidth > 0
	switch n.Type {
	case NodeTypeCircle:
		if n.Radius <= 0 {
			return 0, false
		}
	case NodeTypeEllipse:
		if n.Radius <= 0 || n.RadiusY <= 0 {
			return 0, false
		}
	case NodeTypeRect:
		if n.Width <= 0 || n.Height <= 0 {
			return 0, false
		}
	case NodeTypeLine:
		if len(n.Points) < 2 || n.StrokeWidth <= 0 {
			return 0, false
		}
		return CommandStroke, true
	case NodeTypePolygon:
		if len(n.Points) < 3 {
			return 0, false
		}
	case NodeTypeText:
		if n.Text == "" {
			return 0, false
		}
		return CommandText, true
	default:
		return 0, false
	}
	if stroke {
		return CommandStroke, true
	}
	return CommandFill, true
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same position as b.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b DrawCommand) bool {
	if a.ZIndex != b.ZIndex {
		return a.ZIndex < b.ZIndex
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts c.commands in-place using c.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (c *Composer) mergeSort() {
	n := len(c.commands)
	if n <= 1 {
		return
	}
	if cap(c.sortBuf) < n {
		c.sortBuf = make([]DrawCommand, n)
	}
	c.sortBuf = c.sortBuf[:n]

	a := c.commands
	b := c.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(c.commands, c.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []DrawCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
