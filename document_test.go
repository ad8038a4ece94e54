package stave

import (
	"log/slog"
	"testing"
)

func TestDocumentAddPage(t *testing.T) {
	doc := NewDocument(DefaultPaper, nil)
	p0 := doc.AddPage()
	p1 := doc.AddPage()

	if doc.Len() != 2 || doc.Page(1) != p1 {
		t.Fatalf("pages = %d", doc.Len())
	}
	if p0.Index() != 0 || p1.Index() != 1 || p1.Document() != doc {
		t.Error("unexpected page indexes")
	}
	if p0.ID == p1.ID {
		t.Error("pages should have distinct IDs")
	}
	assertPoint(t, "page 1 origin", p1.Origin(), Point{612 + defaultPageGap, 0})
}

func TestDocumentBounds(t *testing.T) {
	doc := NewDocument(Size{100, 200}, nil)
	doc.Gap = 10
	if doc.Bounds() != (Rect{}) {
		t.Errorf("empty bounds = %v", doc.Bounds())
	}
	doc.AddPage()
	doc.AddPage()
	doc.AddPage()
	want := Rect{Width: 320, Height: 200}
	if got := doc.Bounds(); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
}

func TestDocumentRemovePageEmpty(t *testing.T) {
	log, h := newRecordLogger()
	doc := NewDocument(DefaultPaper, log)
	if doc.RemovePage() {
		t.Error("RemovePage on empty document should report false")
	}
	if doc.Len() != 0 {
		t.Error("document should stay empty")
	}
	if h.count(slog.LevelInfo) != 1 {
		t.Errorf("info logs = %d, want 1", h.count(slog.LevelInfo))
	}
}

func TestDocumentRemovePageAtRenumbers(t *testing.T) {
	log, h := newRecordLogger()
	doc := NewDocument(DefaultPaper, log)
	p0, p1, p2 := doc.AddPage(), doc.AddPage(), doc.AddPage()
	o := p1.NewContainer(nil, "group", Origin)

	if !doc.RemovePageAt(1) {
		t.Fatal("RemovePageAt(1) should succeed")
	}
	if doc.Len() != 2 || doc.Page(0) != p0 || doc.Page(1) != p2 {
		t.Fatal("unexpected page order")
	}
	if p2.Index() != 1 {
		t.Errorf("p2 index = %d, want 1", p2.Index())
	}
	if p1.Document() != nil || o.Page() != nil {
		t.Error("removed page and its objects should be detached")
	}

	if doc.RemovePageAt(5) {
		t.Error("out of range removal should report false")
	}
	if h.count(slog.LevelInfo) != 1 {
		t.Errorf("info logs = %d, want 1", h.count(slog.LevelInfo))
	}
}

func TestDocumentRemovePageRemovesLast(t *testing.T) {
	doc := NewDocument(DefaultPaper, nil)
	p0 := doc.AddPage()
	doc.AddPage()
	if !doc.RemovePage() {
		t.Fatal("RemovePage should succeed")
	}
	if doc.Len() != 1 || doc.Page(0) != p0 {
		t.Error("the last page should have been removed")
	}
}

func TestDocumentRenderMirrorsTree(t *testing.T) {
	log, h := newRecordLogger()
	doc := NewDocument(DefaultPaper, log)
	s := NewSurface()
	p0 := doc.AddPage()
	p1 := doc.AddPage()
	staff := p1.NewStaff(nil, Point{72, 144}, 468, 5, 8, 1)
	rect := p0.NewRect(nil, Point{10, 10}, Size{20, 20}, SolidBrush(ColorBlack))

	if err := doc.Render(s); err != nil {
		t.Fatal(err)
	}
	// Two page backgrounds at the top level, staff and five lines below.
	if s.Len() != 2 {
		t.Errorf("top-level items = %d, want 2", s.Len())
	}
	if s.Count() != 2+1+1+5 {
		t.Errorf("items = %d, want 9", s.Count())
	}
	if h.count(slog.LevelWarn) != 0 {
		t.Errorf("warnings = %d, want 0", h.count(slog.LevelWarn))
	}

	if staff.Node().Handle().Parent() != p1.Node().Handle() {
		t.Error("staff should render under its page")
	}
	if staff.Node().Handle().Selectable {
		t.Error("containers should not be selectable")
	}
	line := staff.Children()[2]
	assertPoint(t, "line 2", line.Node().Handle().MapToDocument(Origin),
		Point{p1.Origin().X + 72, 144 + 16})
	if objectOf(rect.Node().Handle()) != rect {
		t.Error("item should carry its object")
	}

	// Rendering again rebuilds rather than accumulates.
	if err := doc.Render(s); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 9 {
		t.Errorf("items after second render = %d, want 9", s.Count())
	}
}

func TestDocumentRenderKeepsResize(t *testing.T) {
	doc := NewDocument(DefaultPaper, nil)
	s := NewSurface()
	p := doc.AddPage()
	l := p.NewLine(nil, Point{10, 10}, Point{X: 100}, 1)
	l.ResizedTo(Size{50, 4})

	if err := doc.Render(s); err != nil {
		t.Fatal(err)
	}
	if got := l.Node().Handle().Size(); got != (Size{50, 4}) {
		t.Errorf("size = %v, want {50 4}", got)
	}
}

func TestPageAddForeignParentPanics(t *testing.T) {
	doc := NewDocument(DefaultPaper, nil)
	p0, p1 := doc.AddPage(), doc.AddPage()
	g := p0.NewContainer(nil, "g", Origin)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a parent on another page")
		}
	}()
	p1.NewContainer(g, "h", Origin)
}
