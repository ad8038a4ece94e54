package stave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// recordHandler collects log records for assertions.
type recordHandler struct {
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) count(level slog.Level) int {
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func newRecordLogger() (*slog.Logger, *recordHandler) {
	h := &recordHandler{}
	return slog.New(h), h
}

func box(w, h float64) *RectDrawer {
	return NewRectDrawer(w, h, SolidBrush(ColorBlack))
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("n", Point{1, 2}, nil, box(1, 1))
	if n.Name() != "n" {
		t.Errorf("Name = %q, want n", n.Name())
	}
	if n.Scale() != 1 {
		t.Errorf("Scale = %v, want 1", n.Scale())
	}
	if n.Rotation() != 0 {
		t.Errorf("Rotation = %v, want 0", n.Rotation())
	}
	if n.TransformOrigin() != Origin {
		t.Errorf("TransformOrigin = %v, want origin", n.TransformOrigin())
	}
	if n.Rendered() || n.Handle() != nil {
		t.Error("new node should not be rendered")
	}
}

func TestRenderParentFirst(t *testing.T) {
	s := NewSurface()
	log, h := newRecordLogger()

	parent := NewNode("parent", Point{10, 10}, nil, box(50, 50))
	child := NewNode("child", Point{5, 5}, parent, box(10, 10))

	if err := parent.RenderWithLogger(s, log); err != nil {
		t.Fatal(err)
	}
	if err := child.RenderWithLogger(s, log); err != nil {
		t.Fatal(err)
	}

	if s.Len() != 1 {
		t.Errorf("top-level items = %d, want 1", s.Len())
	}
	if s.Count() != 2 {
		t.Errorf("items = %d, want 2", s.Count())
	}
	if child.Handle().Parent() != parent.Handle() {
		t.Error("child item should be attached to the parent item")
	}
	if child.Handle().Surface() != s {
		t.Error("child item should be on the surface")
	}
	if n := h.count(slog.LevelWarn); n != 0 {
		t.Errorf("warnings = %d, want 0", n)
	}
	assertPoint(t, "child origin", child.Handle().MapToDocument(Origin), Point{15, 15})
}

func TestRenderChildFirstWarnsOnce(t *testing.T) {
	s := NewSurface()
	log, h := newRecordLogger()

	parent := NewNode("parent", Point{10, 10}, nil, box(50, 50), WithScale(2))
	child := NewNode("child", Point{5, 5}, parent, box(10, 10))

	if err := child.RenderWithLogger(s, log); err != nil {
		t.Fatalf("orphan render should not fail: %v", err)
	}
	if err := parent.RenderWithLogger(s, log); err != nil {
		t.Fatal(err)
	}

	if n := h.count(slog.LevelWarn); n != 1 {
		t.Fatalf("warnings = %d, want exactly 1", n)
	}
	if !strings.Contains(h.records[0].Message, "parent node not rendered") {
		t.Errorf("warning message = %q", h.records[0].Message)
	}
	if s.Len() != 2 {
		t.Errorf("top-level items = %d, want 2 (orphan degrades to top level)", s.Len())
	}
	if child.Handle().Parent() != nil {
		t.Error("orphaned child should have no parent item")
	}
	// The orphan still lands where its resolved transform says.
	assertPoint(t, "orphan origin", child.Handle().MapToDocument(Origin), child.Resolve().Pos)
	assertPoint(t, "orphan pos", child.Resolve().Pos, Point{20, 20})
}

func TestRenderNilDrawerPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for node without a drawer")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "not implemented") {
			t.Errorf("panic = %q, want mention of not implemented", msg)
		}
	}()
	NewNode("abstract", Origin, nil, nil).Render(NewSurface())
}

func TestRenderTwiceReturnsError(t *testing.T) {
	s := NewSurface()
	n := NewNode("n", Origin, nil, box(1, 1))
	if err := n.Render(s); err != nil {
		t.Fatal(err)
	}
	first := n.Handle()

	err := n.Render(s)
	if !errors.Is(err, ErrAlreadyRendered) {
		t.Fatalf("err = %v, want ErrAlreadyRendered", err)
	}
	if n.Handle() != first {
		t.Error("handle must be written once")
	}
	if s.Len() != 1 {
		t.Errorf("items = %d, want 1", s.Len())
	}
}

func TestRenderFixedNode(t *testing.T) {
	s := NewSurface()
	n := NewNode("page", Origin, nil, box(100, 100), Fixed())
	if err := n.Render(s); err != nil {
		t.Fatal(err)
	}
	if n.Handle().Selectable || n.Handle().Movable {
		t.Error("fixed node should be neither selectable nor movable")
	}
}

func TestRenderAfterClearNeedsFreshNodes(t *testing.T) {
	s := NewSurface()
	n := NewNode("n", Origin, nil, box(1, 1))
	if err := n.Render(s); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("items after Clear = %d, want 0", s.Len())
	}
	if n.Handle().Surface() != nil {
		t.Error("cleared item should be detached from the surface")
	}
	fresh := NewNode("n", Origin, nil, box(1, 1))
	if err := fresh.Render(s); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("items = %d, want 1", s.Len())
	}
}
