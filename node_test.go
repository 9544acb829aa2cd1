package reactfx

import (
	"testing"
)

// --- Constructors ---

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("c")
	assertNodeDefaults(t, n, "c", NodeTypeContainer)
}

func TestShapeConstructors(t *testing.T) {
	red := Color{1, 0, 0, 1}
	tests := []struct {
		name string
		node *Node
		typ  NodeType
	}{
		{"circle", NewCircle("circle", 1, 2, 3, red), NodeTypeCircle},
		{"ring", NewRing("ring", 1, 2, 3, 1, red), NodeTypeCircle},
		{"ellipse", NewEllipse("ellipse", 1, 2, 3, 4, red), NodeTypeEllipse},
		{"rect", NewRect("rect", 1, 2, 3, 4, red), NodeTypeRect},
		{"line", NewLine("line", Vec2{}, Vec2{1, 1}, 2, red), NodeTypeLine},
		{"polygon", NewPolygon("polygon", []Vec2{{0, 0}, {1, 0}, {0, 1}}, red), NodeTypePolygon},
		{"text", NewText("text", 1, 2, "hi", red), NodeTypeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNodeDefaults(t, tt.node, tt.name, tt.typ)
			if tt.node.Color != red {
				t.Errorf("Color = %v, want %v", tt.node.Color, red)
			}
		})
	}
}

func TestNewRingStrokes(t *testing.T) {
	n := NewRing("ring", 0, 0, 10, 2, ColorWhite)
	if n.StrokeWidth != 2 || n.Radius != 10 {
		t.Errorf("ring = radius %v stroke %v", n.Radius, n.StrokeWidth)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		n := NewContainer("")
		if seen[n.ID] {
			t.Fatalf("duplicate ID %d", n.ID)
		}
		seen[n.ID] = true
	}
}

// --- Tree manipulation ---

func TestAddChildBasic(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != child {
		t.Error("parent should contain child")
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")
	p1.AddChild(child)
	p2.AddChild(child)

	if p1.NumChildren() != 0 {
		t.Errorf("p1 children = %d, want 0", p1.NumChildren())
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	a.AddChild(b)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for cycle")
		}
	}()
	b.AddChild(a)
}

func TestAddChildNilPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child")
		}
	}()
	NewContainer("a").AddChild(nil)
}

func TestRemoveChild(t *testing.T) {
	parent := NewContainer("parent")
	a := NewContainer("a")
	b := NewContainer("b")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.RemoveChild(a)

	if a.Parent != nil {
		t.Error("removed child should have nil parent")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != b {
		t.Error("remaining child should be b")
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic removing child from wrong parent")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveFromParentNoOp(t *testing.T) {
	n := NewContainer("orphan")
	n.RemoveFromParent() // must not panic
	if n.Parent != nil {
		t.Error("orphan should have no parent")
	}
}

func TestRemoveChildren(t *testing.T) {
	parent := NewContainer("parent")
	kids := []*Node{NewContainer("a"), NewContainer("b"), NewContainer("c")}
	for _, k := range kids {
		parent.AddChild(k)
	}
	parent.RemoveChildren()

	if parent.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", parent.NumChildren())
	}
	for _, k := range kids {
		if k.Parent != nil {
			t.Errorf("%s still has a parent", k.Name)
		}
		if k.IsDisposed() {
			t.Errorf("%s should not be disposed", k.Name)
		}
	}
}

// --- Walk / Count ---

func TestWalkOrder(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewContainer("b")
	a1 := NewContainer("a1")
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)

	var got []string
	root.Walk(func(n *Node) bool {
		got = append(got, n.Name)
		return true
	})
	want := []string{"root", "a", "a1", "b"}
	if len(got) != len(want) {
		t.Fatalf("walk = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk = %v, want %v", got, want)
		}
	}
}

func TestWalkSkipSubtree(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	root.AddChild(a)
	a.AddChild(NewContainer("hidden"))

	visited := 0
	root.Walk(func(n *Node) bool {
		visited++
		return n.Name != "a"
	})
	if visited != 2 {
		t.Errorf("visited = %d, want 2", visited)
	}
}

func TestCount(t *testing.T) {
	root := NewContainer("root")
	root.AddChild(NewCircle("c1", 0, 0, 1, ColorWhite))
	sub := NewContainer("sub")
	sub.AddChild(NewCircle("c2", 0, 0, 1, ColorWhite))
	sub.AddChild(NewText("t", 0, 0, "x", ColorWhite))
	root.AddChild(sub)

	if got := root.Count(NodeTypeCircle); got != 2 {
		t.Errorf("circles = %d, want 2", got)
	}
	if got := root.Count(NodeTypeText); got != 1 {
		t.Errorf("texts = %d, want 1", got)
	}
	if got := root.Count(NodeTypeContainer); got != 2 {
		t.Errorf("containers = %d, want 2", got)
	}
}

// --- Disposal ---

func TestDispose(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	grandchild := NewCircle("gc", 0, 0, 1, ColorWhite)
	parent.AddChild(child)
	child.AddChild(grandchild)

	child.Dispose()

	if !child.IsDisposed() || !grandchild.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if parent.NumChildren() != 0 {
		t.Error("disposed child should be detached from parent")
	}
	if child.ID != 0 {
		t.Error("disposed node ID should be zeroed")
	}
	if parent.IsDisposed() {
		t.Error("parent should not be disposed")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := NewContainer("n")
	n.Dispose()
	n.Dispose() // must not panic
	if !n.IsDisposed() {
		t.Error("node should be disposed")
	}
}
