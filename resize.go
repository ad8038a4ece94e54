package stave

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultHandleSize is the side length of a resize handle's hit region, in
// the item's local units.
const DefaultHandleSize = 3.0

// Anchor places a resize handle on an item's bounds as fractions of its
// width and height: {0, 0} is the top-left corner, {1, 1} the bottom-right.
type Anchor struct {
	X, Y float64
}

// Common handle anchors.
var (
	AnchorTopLeft     = Anchor{0, 0}
	AnchorTop         = Anchor{0.5, 0}
	AnchorTopRight    = Anchor{1, 0}
	AnchorRight       = Anchor{1, 0.5}
	AnchorBottomRight = Anchor{1, 1}
	AnchorBottom      = Anchor{0.5, 1}
	AnchorBottomLeft  = Anchor{0, 1}
	AnchorLeft        = Anchor{0, 0.5}
)

// edgeSign maps an anchor fraction to the direction a drag grows the size:
// +1 on the far edge, -1 on the near edge, 0 at the middle.
func edgeSign(f float64) float64 {
	switch {
	case f >= 1:
		return 1
	case f <= 0:
		return -1
	default:
		return 0
	}
}

// cursor returns the resize cursor matching the anchor's direction.
func (a Anchor) cursor() ebiten.CursorShapeType {
	sx, sy := edgeSign(a.X), edgeSign(a.Y)
	switch {
	case sx == 0:
		return ebiten.CursorShapeNSResize
	case sy == 0:
		return ebiten.CursorShapeEWResize
	case sx == sy:
		return ebiten.CursorShapeNWSEResize
	default:
		return ebiten.CursorShapeNESWResize
	}
}

// ResizeState is the state of a Resizer.
type ResizeState uint8

const (
	ResizeIdle ResizeState = iota // no handle is held
	Resizing                      // a handle drag is in progress
)

// String returns the state name.
func (s ResizeState) String() string {
	if s == Resizing {
		return "resizing"
	}
	return "idle"
}

// ResizeSession is the transient state of one handle drag. It exists only
// between a press on a handle and the matching release.
type ResizeSession struct {
	// HandleIndex indexes the Resizer's Anchors.
	HandleIndex int
	// StartPos is the document-space press position.
	StartPos Point
	// OriginalSize is the item's size at press time.
	OriginalSize Size

	item           *Item
	originalOffset Point
	wasResized     bool
}

// Item returns the item being resized.
func (rs *ResizeSession) Item() *Item { return rs.item }

// Resizer drives interactive resizing of the surface's selected item
// through handles placed at its anchors.
type Resizer struct {
	// HandleSize is the side of each square handle region.
	HandleSize float64
	// Anchors lists the handle positions. Defaults to bottom-right only.
	Anchors []Anchor

	surface *Surface
	session *ResizeSession

	setCursor func(ebiten.CursorShapeType)
	cursor    ebiten.CursorShapeType
}

// NewResizer creates a resizer acting on the selection of s.
func NewResizer(s *Surface) *Resizer {
	return &Resizer{
		HandleSize: DefaultHandleSize,
		Anchors:    []Anchor{AnchorBottomRight},
		surface:    s,
		setCursor:  ebiten.SetCursorShape,
		cursor:     ebiten.CursorShapeDefault,
	}
}

// SetCursorFunc replaces the function used to change the mouse cursor.
func (r *Resizer) SetCursorFunc(fn func(ebiten.CursorShapeType)) {
	r.setCursor = fn
}

// State returns the current state.
func (r *Resizer) State() ResizeState {
	if r.session != nil {
		return Resizing
	}
	return ResizeIdle
}

// Session returns the active session, or nil when idle.
func (r *Resizer) Session() *ResizeSession { return r.session }

// HandleRect returns the local-space hit region of handle i on it.
func (r *Resizer) HandleRect(it *Item, i int) Rect {
	b := it.Bounds()
	a := r.Anchors[i]
	cx := b.X + b.Width*a.X
	cy := b.Y + b.Height*a.Y
	h := r.HandleSize
	return Rect{X: cx - h/2, Y: cy - h/2, Width: h, Height: h}
}

// HandleAt returns the index of the handle of it under the document point
// p, or -1.
func (r *Resizer) HandleAt(it *Item, p Point) int {
	if it == nil {
		return -1
	}
	lp := it.MapFromDocument(p)
	for i := range r.Anchors {
		if r.HandleRect(it, i).Contains(lp.X, lp.Y) {
			return i
		}
	}
	return -1
}

// Press starts a session when p hits a handle of the selected item.
// Returns false, without creating a session, otherwise.
func (r *Resizer) Press(p Point) bool {
	it := r.surface.Selected()
	i := r.HandleAt(it, p)
	if i < 0 {
		return false
	}
	r.session = &ResizeSession{
		HandleIndex:    i,
		StartPos:       p,
		OriginalSize:   it.Size(),
		item:           it,
		originalOffset: it.Offset(),
		wasResized:     it.resized,
	}
	return true
}

// Move updates the resized item while a session is active and returns
// true. When idle it only updates the hover cursor and returns false.
func (r *Resizer) Move(p Point) bool {
	rs := r.session
	if rs == nil {
		r.hover(p)
		return false
	}
	a := r.Anchors[rs.HandleIndex]
	sx, sy := edgeSign(a.X), edgeSign(a.Y)
	d := p.Sub(rs.StartPos)
	rs.item.SetSize(Size{
		Width:  rs.OriginalSize.Width + sx*d.X,
		Height: rs.OriginalSize.Height + sy*d.Y,
	})
	// Handles on the near edges move the item so the far edges stay put.
	var shift Point
	if sx < 0 {
		shift.X = min(d.X, rs.OriginalSize.Width)
	}
	if sy < 0 {
		shift.Y = min(d.Y, rs.OriginalSize.Height)
	}
	want := rs.originalOffset.Add(rs.item.parentDelta(rs.StartPos, rs.StartPos.Add(shift)))
	rs.item.MoveBy(want.Sub(rs.item.Offset()))
	return true
}

// Release ends the active session, with or without intervening moves, and
// returns it. Returns nil when idle.
func (r *Resizer) Release() *ResizeSession {
	rs := r.session
	r.session = nil
	return rs
}

// Cancel abandons the active session and restores the item's geometry.
func (r *Resizer) Cancel() {
	rs := r.session
	if rs == nil {
		return
	}
	r.session = nil
	if rs.wasResized {
		rs.item.SetSize(rs.OriginalSize)
	} else {
		rs.item.clearSize()
	}
	rs.item.MoveBy(rs.originalOffset.Sub(rs.item.Offset()))
}

// hover shows a resize cursor while p is over a handle of the selected
// item and restores the default cursor otherwise.
func (r *Resizer) hover(p Point) {
	shape := ebiten.CursorShapeDefault
	if i := r.HandleAt(r.surface.Selected(), p); i >= 0 {
		shape = r.Anchors[i].cursor()
	}
	if shape == r.cursor {
		return
	}
	r.cursor = shape
	if r.setCursor != nil {
		r.setCursor(shape)
	}
}
