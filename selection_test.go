package stave

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type selectionFixture struct {
	doc   *Document
	page  *Page
	rect  *Object
	s     *Surface
	sel   *Selection
	edits []*Object
}

// newSelectionFixture renders one page holding a 50x50 rect at (100, 100).
func newSelectionFixture(t *testing.T) *selectionFixture {
	t.Helper()
	log, _ := newRecordLogger()
	f := &selectionFixture{doc: NewDocument(DefaultPaper, log), s: NewSurface()}
	f.page = f.doc.AddPage()
	f.rect = f.page.NewRect(nil, Point{100, 100}, Size{50, 50}, SolidBrush(ColorBlack))
	f.render(t)

	r := NewResizer(f.s)
	r.SetCursorFunc(func(ebiten.CursorShapeType) {})
	f.sel = NewSelection(f.s, r, log)
	f.sel.OnEdit = func(o *Object) {
		f.edits = append(f.edits, o)
		f.render(t)
	}
	return f
}

func (f *selectionFixture) render(t *testing.T) {
	t.Helper()
	if err := f.doc.Render(f.s); err != nil {
		t.Fatal(err)
	}
}

func (f *selectionFixture) pointer(typ PointerEventType, x, y float64) {
	f.sel.HandlePointer(PointerEvent{Type: typ, Pos: Point{x, y}, Button: MouseButtonLeft})
}

func (f *selectionFixture) key(k ebiten.Key) {
	f.sel.HandleKey(KeyEvent{Type: KeyPress, Key: k})
}

func TestSelectionClickSelects(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	f.pointer(PointerRelease, 120, 120)

	if f.s.Selected() != f.rect.Node().Handle() {
		t.Error("rect should be selected")
	}
	if len(f.edits) != 0 {
		t.Errorf("edits = %d, want 0 for a click", len(f.edits))
	}

	f.pointer(PointerPress, 400, 400)
	if f.s.Selected() != nil {
		t.Error("pressing on the page background should clear the selection")
	}
	if f.sel.Dragging() {
		t.Error("no drag should start on the background")
	}
}

func TestSelectionIgnoresOtherButtons(t *testing.T) {
	f := newSelectionFixture(t)
	f.sel.HandlePointer(PointerEvent{Type: PointerPress, Pos: Point{120, 120}, Button: MouseButtonRight})
	if f.s.Selected() != nil || f.sel.Dragging() {
		t.Error("right button should not select or drag")
	}
}

func TestSelectionDragCommitsMove(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	if !f.sel.Dragging() {
		t.Fatal("press on a movable item should start a drag")
	}
	f.pointer(PointerMove, 125, 130)
	f.pointer(PointerMove, 130, 125)
	assertPoint(t, "item offset", f.rect.Node().Handle().Offset(), Point{10, 5})

	f.pointer(PointerRelease, 130, 125)
	if f.sel.Dragging() {
		t.Error("release should end the drag")
	}
	if len(f.edits) != 1 || f.edits[0] != f.rect {
		t.Fatalf("edits = %v, want the rect once", f.edits)
	}
	assertPoint(t, "object pos", f.rect.Pos, Point{110, 105})
	// After the re-render the fresh item carries the move in its placement.
	it := f.rect.Node().Handle()
	assertPoint(t, "offset after render", it.Offset(), Origin)
	assertPoint(t, "document pos", it.MapToDocument(Origin), Point{110, 105})
}

func TestSelectionResizeCommits(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	f.pointer(PointerRelease, 120, 120)

	f.pointer(PointerPress, 150, 150)
	if f.sel.Dragging() {
		t.Fatal("press on a handle should resize, not drag")
	}
	f.pointer(PointerMove, 160, 170)
	f.pointer(PointerRelease, 160, 170)

	if len(f.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(f.edits))
	}
	if f.rect.Size != (Size{60, 70}) {
		t.Errorf("object size = %v, want {60 70}", f.rect.Size)
	}
	assertPoint(t, "object pos", f.rect.Pos, Point{100, 100})
}

func TestSelectionResizeWithoutChangeIsNotAnEdit(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	f.pointer(PointerRelease, 120, 120)

	f.pointer(PointerPress, 150, 150)
	f.pointer(PointerRelease, 150, 150)
	if len(f.edits) != 0 {
		t.Errorf("edits = %d, want 0", len(f.edits))
	}
}

func TestSelectionEscapeCancelsDrag(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	f.pointer(PointerMove, 140, 140)
	f.key(ebiten.KeyEscape)

	it := f.rect.Node().Handle()
	assertPoint(t, "offset", it.Offset(), Origin)
	if f.sel.Dragging() || f.s.Selected() != nil {
		t.Error("escape should end the drag and clear the selection")
	}

	f.pointer(PointerRelease, 140, 140)
	if len(f.edits) != 0 {
		t.Errorf("edits = %d, want 0 after cancel", len(f.edits))
	}
	assertPoint(t, "object pos", f.rect.Pos, Point{100, 100})
}

func TestSelectionDeleteRemovesObject(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	f.pointer(PointerRelease, 120, 120)

	f.key(ebiten.KeyDelete)
	if len(f.page.Objects()) != 0 {
		t.Errorf("page objects = %d, want 0", len(f.page.Objects()))
	}
	if f.rect.Page() != nil {
		t.Error("removed object should be detached")
	}
	if len(f.edits) != 1 || f.edits[0] != f.rect {
		t.Errorf("edits = %v, want the removed rect", f.edits)
	}
	// Only the page background remains.
	if f.s.Count() != 1 {
		t.Errorf("items = %d, want 1", f.s.Count())
	}
}

func TestSelectionDeleteWithoutSelection(t *testing.T) {
	f := newSelectionFixture(t)
	f.key(ebiten.KeyBackspace)
	if len(f.page.Objects()) != 1 || len(f.edits) != 0 {
		t.Error("delete without a selection should do nothing")
	}
}

func TestSelectionKeyReleaseIgnored(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	f.pointer(PointerRelease, 120, 120)
	f.sel.HandleKey(KeyEvent{Type: KeyRelease, Key: ebiten.KeyDelete})
	if len(f.page.Objects()) != 1 {
		t.Error("key release should not delete")
	}
}

func TestSelectionRightReleaseKeepsDrag(t *testing.T) {
	f := newSelectionFixture(t)
	f.pointer(PointerPress, 120, 120)
	f.pointer(PointerMove, 130, 125)
	f.sel.HandlePointer(PointerEvent{Type: PointerRelease, Pos: Point{130, 125}, Button: MouseButtonRight})

	if !f.sel.Dragging() {
		t.Fatal("right button release should not end a left drag")
	}
	if len(f.edits) != 0 {
		t.Fatalf("edits = %d, want 0 before the left release", len(f.edits))
	}

	f.pointer(PointerMove, 140, 130)
	f.pointer(PointerRelease, 140, 130)
	if len(f.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(f.edits))
	}
	assertPoint(t, "object pos", f.rect.Pos, Point{120, 110})
}

func TestSelectionResizeLine(t *testing.T) {
	f := newSelectionFixture(t)
	line := f.page.NewLine(nil, Point{100, 300}, Point{X: 100}, 2)
	f.render(t)

	// Bounds are (-1, -1, 102, 2) locally; the bottom-right handle sits on
	// (201, 301) in the document.
	f.pointer(PointerPress, 150, 300)
	f.pointer(PointerRelease, 150, 300)
	if f.s.Selected() != line.Node().Handle() {
		t.Fatal("line should be selected")
	}
	f.pointer(PointerPress, 201, 301)
	f.pointer(PointerMove, 251, 301)
	f.pointer(PointerRelease, 251, 301)

	if len(f.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(f.edits))
	}
	if line.Size != (Size{152, 2}) {
		t.Errorf("object size = %v, want {152 2}", line.Size)
	}

	it := line.Node().Handle()
	d, ok := it.drawer.(*LineDrawer)
	if !ok {
		t.Fatalf("drawer = %T, want *LineDrawer", it.drawer)
	}
	assertPoint(t, "drawn end", d.end(it.Bounds()), Point{150, 0})
}

func TestLineDrawerEnd(t *testing.T) {
	tests := []struct {
		name   string
		to     Point
		bounds Rect
		want   Point
	}{
		{"natural", Point{100, 0}, Rect{-1, -1, 102, 2}, Point{100, 0}},
		{"narrower", Point{100, 0}, Rect{-1, -1, 52, 2}, Point{50, 0}},
		{"vertical stem", Point{0, -30}, Rect{-1, -31, 2, 62}, Point{0, -60}},
		{"diagonal", Point{40, 20}, Rect{-1, -1, 82, 12}, Point{80, 10}},
		{"collapsed", Point{100, 0}, Rect{-1, -1, 0, 0}, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &LineDrawer{To: tt.to, Thickness: 2}
			assertPoint(t, "end", d.end(tt.bounds), tt.want)
		})
	}
}
