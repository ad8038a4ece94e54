package stave

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// Selection is the native pointer interaction run while auto interaction
// is enabled: click to select, drag to move, and drag a handle of the
// selected item to resize it. Committed edits are written back to the
// document object behind the item and reported through OnEdit.
type Selection struct {
	// OnEdit is called after an edit has been written to a document
	// object. The editor re-renders from it.
	OnEdit func(o *Object)

	surface *Surface
	resizer *Resizer
	log     *slog.Logger

	dragging    bool
	dragItem    *Item
	dragStart   Point
	startOffset Point
}

// NewSelection creates the interaction over s using r for handles. A nil
// logger uses slog.Default().
func NewSelection(s *Surface, r *Resizer, log *slog.Logger) *Selection {
	if log == nil {
		log = slog.Default()
	}
	return &Selection{surface: s, resizer: r, log: log}
}

// Dragging reports whether a move drag is in progress.
func (sel *Selection) Dragging() bool { return sel.dragging }

// HandlePointer implements DefaultHandler.
func (sel *Selection) HandlePointer(e PointerEvent) {
	switch e.Type {
	case PointerPress, PointerDoubleClick:
		if e.Button != MouseButtonLeft {
			return
		}
		if sel.resizer.Press(e.Pos) {
			return
		}
		it := sel.surface.HitTest(e.Pos)
		sel.surface.Select(it)
		if it != nil && it.Movable {
			sel.dragging = true
			sel.dragItem = it
			sel.dragStart = e.Pos
			sel.startOffset = it.Offset()
		}

	case PointerMove:
		if sel.resizer.Move(e.Pos) {
			return
		}
		if sel.dragging {
			want := sel.startOffset.Add(sel.dragItem.parentDelta(sel.dragStart, e.Pos))
			sel.dragItem.MoveBy(want.Sub(sel.dragItem.Offset()))
		}

	case PointerRelease:
		if e.Button != MouseButtonLeft {
			return
		}
		if rs := sel.resizer.Release(); rs != nil {
			sel.commitResize(rs)
			return
		}
		if sel.dragging {
			it := sel.dragItem
			sel.dragging = false
			sel.dragItem = nil
			if d := it.Offset().Sub(sel.startOffset); d != Origin {
				sel.commitMove(it, d)
			}
		}
	}
}

// HandleKey implements DefaultHandler. Escape drops the selection and any
// gesture in progress; Delete removes the selected object.
func (sel *Selection) HandleKey(e KeyEvent) {
	if e.Type != KeyPress {
		return
	}
	switch e.Key {
	case ebiten.KeyEscape:
		sel.resizer.Cancel()
		if sel.dragging {
			sel.dragItem.MoveBy(sel.startOffset.Sub(sel.dragItem.Offset()))
			sel.dragging = false
			sel.dragItem = nil
		}
		sel.surface.Select(nil)
	case ebiten.KeyDelete, ebiten.KeyBackspace:
		it := sel.surface.Selected()
		o := objectOf(it)
		if o == nil {
			return
		}
		sel.surface.Select(nil)
		o.Remove()
		sel.log.Debug("object removed", "object", o.Name, "id", o.ID)
		sel.edited(o)
	}
}

func (sel *Selection) commitMove(it *Item, d Point) {
	o := objectOf(it)
	if o == nil {
		return
	}
	o.MovedBy(d)
	sel.log.Debug("object moved", "object", o.Name, "dx", d.X, "dy", d.Y)
	sel.edited(o)
}

func (sel *Selection) commitResize(rs *ResizeSession) {
	it := rs.Item()
	o := objectOf(it)
	if o == nil {
		return
	}
	size := it.Size()
	if size == rs.OriginalSize {
		return
	}
	o.ResizedTo(size)
	if d := it.Offset().Sub(rs.originalOffset); d != Origin {
		o.MovedBy(d)
	}
	sel.log.Debug("object resized", "object", o.Name, "width", size.Width, "height", size.Height)
	sel.edited(o)
}

func (sel *Selection) edited(o *Object) {
	if sel.OnEdit != nil {
		sel.OnEdit(o)
	}
}

// objectOf returns the document object an item was rendered for.
func objectOf(it *Item) *Object {
	if it == nil {
		return nil
	}
	o, _ := it.UserData.(*Object)
	return o
}
