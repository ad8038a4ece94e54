package stave

import "testing"

func renderBox(t *testing.T, s *Surface, name string, pos Point, parent *Node, w, h float64) *Node {
	t.Helper()
	n := NewNode(name, pos, parent, box(w, h))
	if err := n.Render(s); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestItemAddChildReparents(t *testing.T) {
	a := newItem("a", identityTransform, nil)
	b := newItem("b", identityTransform, nil)
	c := newItem("c", identityTransform, nil)

	a.AddChild(c)
	b.AddChild(c)

	if len(a.Children()) != 0 {
		t.Errorf("a children = %d, want 0", len(a.Children()))
	}
	if c.Parent() != b {
		t.Error("c should be attached to b")
	}
}

func TestItemAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	newItem("a", identityTransform, nil).AddChild(nil)
}

func TestItemSetSize(t *testing.T) {
	it := newItem("r", identityTransform, box(10, 20))
	if got := it.Size(); got != (Size{10, 20}) {
		t.Fatalf("natural size = %v, want {10 20}", got)
	}
	it.SetSize(Size{30, 40})
	if got := it.Size(); got != (Size{30, 40}) {
		t.Errorf("size = %v, want {30 40}", got)
	}
	it.SetSize(Size{-5, 8})
	if got := it.Size(); got != (Size{0, 8}) {
		t.Errorf("negative width should clamp: got %v", got)
	}
	it.clearSize()
	if got := it.Size(); got != (Size{10, 20}) {
		t.Errorf("size after clear = %v, want {10 20}", got)
	}
}

func TestItemMoveBy(t *testing.T) {
	s := NewSurface()
	n := renderBox(t, s, "n", Point{10, 10}, nil, 5, 5)
	it := n.Handle()
	it.MoveBy(Point{3, 4})
	it.MoveBy(Point{1, 1})
	assertPoint(t, "offset", it.Offset(), Point{4, 5})
	assertPoint(t, "origin", it.MapToDocument(Origin), Point{14, 15})
}

func TestItemParentDeltaScaled(t *testing.T) {
	s := NewSurface()
	parent := renderBox(t, s, "parent", Origin, nil, 100, 100)
	scaled := NewNode("scaled", Point{10, 10}, parent, box(50, 50), WithScale(2))
	if err := scaled.Render(s); err != nil {
		t.Fatal(err)
	}
	child := renderBox(t, s, "child", Point{1, 1}, scaled, 5, 5)

	// 10 document units are 5 units in the scaled parent's space.
	d := child.Handle().parentDelta(Point{0, 0}, Point{10, 0})
	assertPoint(t, "delta", d, Point{5, 0})
}

func TestSurfaceClear(t *testing.T) {
	s := NewSurface()
	a := renderBox(t, s, "a", Origin, nil, 10, 10)
	renderBox(t, s, "b", Point{1, 1}, a, 1, 1)
	s.Select(a.Handle())

	s.Clear()
	if s.Len() != 0 || s.Count() != 0 {
		t.Errorf("after Clear: len=%d count=%d, want 0", s.Len(), s.Count())
	}
	if s.Selected() != nil {
		t.Error("Clear should drop the selection")
	}
}

func TestSurfaceHitTestTopmost(t *testing.T) {
	s := NewSurface()
	bottom := renderBox(t, s, "bottom", Origin, nil, 100, 100)
	top := renderBox(t, s, "top", Point{10, 10}, nil, 20, 20)

	if got := s.HitTest(Point{15, 15}); got != top.Handle() {
		t.Errorf("hit = %v, want top", got)
	}
	if got := s.HitTest(Point{50, 50}); got != bottom.Handle() {
		t.Errorf("hit = %v, want bottom", got)
	}
	if got := s.HitTest(Point{500, 500}); got != nil {
		t.Errorf("hit = %v, want nil", got)
	}
}

func TestSurfaceHitTestChildBeforeParent(t *testing.T) {
	s := NewSurface()
	parent := renderBox(t, s, "parent", Origin, nil, 100, 100)
	child := renderBox(t, s, "child", Point{10, 10}, parent, 20, 20)

	if got := s.HitTest(Point{15, 15}); got != child.Handle() {
		t.Errorf("hit = %v, want child", got)
	}
}

func TestSurfaceHitTestSkipsUnselectable(t *testing.T) {
	s := NewSurface()
	page := NewNode("page", Origin, nil, box(100, 100), Fixed())
	if err := page.Render(s); err != nil {
		t.Fatal(err)
	}
	if got := s.HitTest(Point{50, 50}); got != nil {
		t.Errorf("hit = %v, want nil for fixed node", got)
	}
}

func TestSurfaceHitTestRotated(t *testing.T) {
	s := NewSurface()
	// A 40x10 bar rotated 90 degrees covers x in [-10, 0], y in [0, 40].
	n := NewNode("bar", Origin, nil, box(40, 10), WithRotation(90))
	if err := n.Render(s); err != nil {
		t.Fatal(err)
	}
	if got := s.HitTest(Point{-5, 30}); got != n.Handle() {
		t.Error("rotated bar should be hit")
	}
	if got := s.HitTest(Point{30, 5}); got != nil {
		t.Error("unrotated footprint should not be hit")
	}
}
