package reactfx

// nodeIDCounter is a plain counter; the engine is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is one element of a drawable fragment. Renderers build small trees of
// nodes and the composer flattens them into draw commands. A single flat
// struct is used for every shape to avoid interface dispatch when composing.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	// Computed during composition.
	worldTransform [6]float64
	worldAlpha     float64

	// Appearance
	Alpha     float64
	Visible   bool
	Color     Color
	BlendMode BlendMode
	ZIndex    int

	// Shape fields. A positive StrokeWidth outlines the shape instead of filling it.
	Radius      float64
	RadiusY     float64
	Width       float64
	Height      float64
	Points      []Vec2
	StrokeWidth float64

	// Text fields (NodeTypeText)
	Text string

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewCircle creates a filled circle centered at (x, y).
func NewCircle(name string, x, y, radius float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeCircle, Radius: radius}
	nodeDefaults(n)
	n.X, n.Y = x, y
	n.Color = c
	return n
}

// NewRing creates an outlined circle centered at (x, y).
func NewRing(name string, x, y, radius, width float64, c Color) *Node {
	n := NewCircle(name, x, y, radius, c)
	n.StrokeWidth = width
	return n
}

// NewEllipse creates a filled ellipse centered at (x, y).
func NewEllipse(name string, x, y, rx, ry float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeEllipse, Radius: rx, RadiusY: ry}
	nodeDefaults(n)
	n.X, n.Y = x, y
	n.Color = c
	return n
}

// NewRect creates a filled rectangle with its top-left corner at (x, y).
func NewRect(name string, x, y, w, h float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeRect, Width: w, Height: h}
	nodeDefaults(n)
	n.X, n.Y = x, y
	n.Color = c
	return n
}

// NewLine creates a stroked segment between two local points.
func NewLine(name string, from, to Vec2, width float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeLine, Points: []Vec2{from, to}, StrokeWidth: width}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewPolygon creates a filled polygon. Points are in local space.
func NewPolygon(name string, points []Vec2, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypePolygon, Points: points}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewText creates a single-line text node positioned at (x, y).
func NewText(name string, x, y float64, content string, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content}
	nodeDefaults(n)
	n.X, n.Y = x, y
	n.Color = c
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("reactfx: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("reactfx: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("reactfx: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for i, child := range n.children {
		child.Parent = nil
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Walk visits n and every descendant depth-first in child order. Returning
// false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// Count returns the number of nodes of type t in the subtree rooted at n.
func (n *Node) Count(t NodeType) int {
	count := 0
	n.Walk(func(c *Node) bool {
		if c.Type == t {
			count++
		}
		return true
	})
	return count
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Points = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
