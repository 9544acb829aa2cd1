package reactfx

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func commandNames(cmds []DrawCommand) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Node.Name
	}
	return out
}

func assertNames(t *testing.T, got []DrawCommand, want ...string) {
	t.Helper()
	names := commandNames(got)
	if len(names) != len(want) {
		t.Fatalf("commands = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("commands = %v, want %v", names, want)
		}
	}
}

func TestComposeTreeOrder(t *testing.T) {
	root := NewContainer("root")
	root.AddChild(NewCircle("a", 0, 0, 5, ColorWhite))
	sub := NewContainer("sub")
	sub.AddChild(NewRect("b", 0, 0, 5, 5, ColorWhite))
	root.AddChild(sub)
	root.AddChild(NewText("c", 0, 0, "label", ColorWhite))

	var c Composer
	cmds := c.Compose(root)
	assertNames(t, cmds, "a", "b", "c")
}

func TestComposeZIndexStable(t *testing.T) {
	root := NewContainer("root")
	a := NewCircle("a", 0, 0, 5, ColorWhite)
	b := NewCircle("b", 0, 0, 5, ColorWhite)
	c := NewCircle("c", 0, 0, 5, ColorWhite)
	d := NewCircle("d", 0, 0, 5, ColorWhite)
	a.ZIndex = 2
	c.ZIndex = -1
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)
	root.AddChild(d)

	var comp Composer
	assertNames(t, comp.Compose(root), "c", "b", "d", "a")
}

func TestComposeMultipleRoots(t *testing.T) {
	r1 := NewCircle("first", 0, 0, 5, ColorWhite)
	r2 := NewCircle("second", 0, 0, 5, ColorWhite)
	disposed := NewCircle("gone", 0, 0, 5, ColorWhite)
	disposed.Dispose()

	var c Composer
	assertNames(t, c.Compose(r1, nil, disposed, r2), "first", "second")
	if got := len(c.Commands()); got != 2 {
		t.Errorf("Commands() = %d, want 2", got)
	}
}

func TestComposeSkipsInvisibleSubtree(t *testing.T) {
	root := NewContainer("root")
	hidden := NewContainer("hidden")
	hidden.Visible = false
	hidden.AddChild(NewCircle("inner", 0, 0, 5, ColorWhite))
	root.AddChild(hidden)
	root.AddChild(NewCircle("shown", 0, 0, 5, ColorWhite))

	var c Composer
	assertNames(t, c.Compose(root), "shown")
}

func TestComposeSkipsZeroAlpha(t *testing.T) {
	root := NewContainer("root")
	faded := NewContainer("faded")
	faded.Alpha = 0
	faded.AddChild(NewCircle("inner", 0, 0, 5, ColorWhite))
	root.AddChild(faded)
	root.AddChild(NewCircle("clear", 0, 0, 5, ColorWhite.WithAlpha(0)))
	root.AddChild(NewCircle("shown", 0, 0, 5, ColorWhite))

	var c Composer
	assertNames(t, c.Compose(root), "shown")
}

func TestComposeInheritsAlpha(t *testing.T) {
	root := NewContainer("root")
	root.Alpha = 0.5
	child := NewCircle("dot", 0, 0, 5, Color{1, 0, 0, 0.5})
	root.AddChild(child)

	var c Composer
	cmds := c.Compose(root)
	if len(cmds) != 1 {
		t.Fatalf("commands = %d, want 1", len(cmds))
	}
	if got := cmds[0].Color.A; got != 0.25 {
		t.Errorf("alpha = %v, want 0.25", got)
	}
}

func TestComposeCommandTypes(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		typ  CommandType
		ok   bool
	}{
		{"circle", NewCircle("n", 0, 0, 5, ColorWhite), CommandFill, true},
		{"ring", NewRing("n", 0, 0, 5, 1, ColorWhite), CommandStroke, true},
		{"zero radius", NewCircle("n", 0, 0, 0, ColorWhite), 0, false},
		{"flat ellipse", NewEllipse("n", 0, 0, 5, 0, ColorWhite), 0, false},
		{"empty rect", NewRect("n", 0, 0, 0, 5, ColorWhite), 0, false},
		{"line", NewLine("n", Vec2{}, Vec2{5, 5}, 1, ColorWhite), CommandStroke, true},
		{"hairline", NewLine("n", Vec2{}, Vec2{5, 5}, 0, ColorWhite), 0, false},
		{"degenerate polygon", NewPolygon("n", []Vec2{{0, 0}, {1, 1}}, ColorWhite), 0, false},
		{"text", NewText("n", 0, 0, "x", ColorWhite), CommandText, true},
		{"empty text", NewText("n", 0, 0, "", ColorWhite), 0, false},
		{"container", NewContainer("n"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := commandTypeFor(tt.node)
			if ok != tt.ok || (ok && typ != tt.typ) {
				t.Errorf("commandTypeFor = (%d, %v), want (%d, %v)", typ, ok, tt.typ, tt.ok)
			}
		})
	}
}

func TestComposeReusesBuffers(t *testing.T) {
	root := NewContainer("root")
	for i := 0; i < 20; i++ {
		n := NewCircle("c", 0, 0, 5, ColorWhite)
		n.ZIndex = 20 - i
		root.AddChild(n)
	}
	var c Composer
	first := c.Compose(root)
	for i := 1; i < len(first); i++ {
		if first[i-1].ZIndex > first[i].ZIndex {
			t.Fatalf("commands not sorted at %d", i)
		}
	}
	second := c.Compose(root)
	if len(second) != 20 {
		t.Errorf("second compose = %d commands, want 20", len(second))
	}
}

func TestSubmitCountsDrawCalls(t *testing.T) {
	root := NewContainer("root")
	root.AddChild(NewCircle("fill", 20, 20, 10, ColorWhite))
	root.AddChild(NewRing("stroke", 20, 20, 12, 2, ColorWhite))
	root.AddChild(NewPolygon("tri", []Vec2{{0, 0}, {10, 0}, {0, 10}}, ColorWhite))
	root.AddChild(NewText("label", 0, 40, "gas", ColorWhite))

	dst := ebiten.NewImage(64, 64)
	var c Composer
	c.Compose(root)
	if got := c.Submit(dst); got != 4 {
		t.Errorf("draw calls = %d, want 4", got)
	}
}

func TestAppendEllipseSegments(t *testing.T) {
	small := appendEllipse(nil, 1, 1, 1)
	if len(small) != minCurveSegments {
		t.Errorf("small = %d segments, want %d", len(small), minCurveSegments)
	}
	large := appendEllipse(nil, 500, 500, 1)
	if len(large) != maxCurveSegments {
		t.Errorf("large = %d segments, want %d", len(large), maxCurveSegments)
	}
}
