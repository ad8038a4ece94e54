package stave

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Drawer produces the visual content of an item. Implementations draw in
// the item's local coordinate space; geo maps local space to the target.
type Drawer interface {
	// Bounds returns the natural local-space bounding rectangle.
	Bounds() Rect
	// Draw renders the content. bounds is the item's current geometry,
	// which differs from Bounds after a resize.
	Draw(dst *ebiten.Image, geo ebiten.GeoM, bounds Rect)
}

// Item is the renderer-side object a Node maps to once rendered. Items form
// their own tree on a Surface; an item attached to a parent item inherits
// the parent's coordinate space.
type Item struct {
	Name string

	// Selectable items take part in hit testing. Movable items follow
	// drags in the default interaction.
	Selectable bool
	Movable    bool

	// UserData is the document object the item was built for, if any.
	UserData any

	parent   *Item
	children []*Item
	surface  *Surface

	local  [6]float64
	offset Point
	drawer Drawer

	resized     bool
	size        Size
	bounds      Rect
	boundsDirty bool
}

func newItem(name string, local [6]float64, drawer Drawer) *Item {
	return &Item{
		Name:        name,
		Selectable:  true,
		Movable:     true,
		local:       local,
		drawer:      drawer,
		boundsDirty: true,
	}
}

// AddChild attaches child to this item. The child's placement becomes
// relative to this item.
func (it *Item) AddChild(child *Item) {
	if child == nil {
		panic("stave: cannot add nil item")
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = it
	child.setSurface(it.surface)
	it.children = append(it.children, child)
}

func (it *Item) removeChild(child *Item) {
	for i, c := range it.children {
		if c == child {
			copy(it.children[i:], it.children[i+1:])
			it.children[len(it.children)-1] = nil
			it.children = it.children[:len(it.children)-1]
			return
		}
	}
}

func (it *Item) setSurface(s *Surface) {
	it.surface = s
	for _, c := range it.children {
		c.setSurface(s)
	}
}

// Parent returns the parent item, or nil for a top-level item.
func (it *Item) Parent() *Item { return it.parent }

// Children returns the child list. The returned slice MUST NOT be mutated.
func (it *Item) Children() []*Item { return it.children }

// Surface returns the surface the item is attached to, if any.
func (it *Item) Surface() *Surface { return it.surface }

// Offset returns the accumulated move offset applied on top of the item's
// placement.
func (it *Item) Offset() Point { return it.offset }

// MoveBy shifts the item by d in its parent's coordinate space.
func (it *Item) MoveBy(d Point) {
	it.offset = it.offset.Add(d)
}

// matrix returns the item's placement within its parent.
func (it *Item) matrix() [6]float64 {
	return multiplyAffine(translateMatrix(it.offset.X, it.offset.Y), it.local)
}

// documentMatrix maps item-local coordinates to document coordinates.
func (it *Item) documentMatrix() [6]float64 {
	m := it.matrix()
	for p := it.parent; p != nil; p = p.parent {
		m = multiplyAffine(p.matrix(), m)
	}
	return m
}

// MapToDocument converts an item-local point to document space.
func (it *Item) MapToDocument(p Point) Point {
	x, y := transformPoint(it.documentMatrix(), p.X, p.Y)
	return Point{x, y}
}

// MapFromDocument converts a document-space point to item-local space.
func (it *Item) MapFromDocument(p Point) Point {
	x, y := transformPoint(invertAffine(it.documentMatrix()), p.X, p.Y)
	return Point{x, y}
}

// Bounds returns the item's local bounding rectangle. The value is cached
// until the geometry changes.
func (it *Item) Bounds() Rect {
	if it.boundsDirty {
		var r Rect
		if it.drawer != nil {
			r = it.drawer.Bounds()
		}
		if it.resized {
			r.Width, r.Height = it.size.Width, it.size.Height
		}
		it.bounds = r
		it.boundsDirty = false
	}
	return it.bounds
}

// Size returns the current width and height of the item's bounds.
func (it *Item) Size() Size {
	b := it.Bounds()
	return Size{b.Width, b.Height}
}

// prepareGeometryChange drops the cached bounds ahead of a size change.
func (it *Item) prepareGeometryChange() {
	it.boundsDirty = true
}

// SetSize overrides the item's natural size. Negative dimensions clamp to 0.
func (it *Item) SetSize(s Size) {
	it.prepareGeometryChange()
	it.resized = true
	it.size = Size{max(s.Width, 0), max(s.Height, 0)}
}

// clearSize drops a size override, restoring the drawer's natural bounds.
func (it *Item) clearSize() {
	it.prepareGeometryChange()
	it.resized = false
	it.size = Size{}
}

// parentDelta converts the document-space motion from a to b into the
// parent's coordinate space, the space MoveBy works in.
func (it *Item) parentDelta(a, b Point) Point {
	if it.parent == nil {
		return b.Sub(a)
	}
	return it.parent.MapFromDocument(b).Sub(it.parent.MapFromDocument(a))
}

func geoFromAffine(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

func (it *Item) draw(dst *ebiten.Image, parent [6]float64) {
	m := multiplyAffine(parent, it.matrix())
	if it.drawer != nil {
		it.drawer.Draw(dst, geoFromAffine(m), it.Bounds())
	}
	for _, c := range it.children {
		c.draw(dst, m)
	}
}

// Surface is the render surface: the set of top-level items drawn each frame.
type Surface struct {
	items    []*Item
	selected *Item
	hitBuf   []*Item
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// AddTopLevel attaches an item directly to the surface. Its placement is
// interpreted in document coordinates.
func (s *Surface) AddTopLevel(it *Item) {
	if it == nil {
		panic("stave: cannot add nil item")
	}
	if it.parent != nil {
		it.parent.removeChild(it)
		it.parent = nil
	}
	it.setSurface(s)
	s.items = append(s.items, it)
}

// Clear removes every attached item in one call.
func (s *Surface) Clear() {
	for i, it := range s.items {
		it.setSurface(nil)
		s.items[i] = nil
	}
	s.items = s.items[:0]
	s.selected = nil
}

// Items returns the top-level items. The returned slice MUST NOT be mutated.
func (s *Surface) Items() []*Item {
	return s.items
}

// Len returns the number of top-level items.
func (s *Surface) Len() int {
	return len(s.items)
}

// Count returns the number of items attached, at any depth.
func (s *Surface) Count() int {
	n := 0
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			n++
			walk(it.children)
		}
	}
	walk(s.items)
	return n
}

// Select marks it as the selected item. A nil item clears the selection.
func (s *Surface) Select(it *Item) {
	s.selected = it
}

// Selected returns the selected item, or nil.
func (s *Surface) Selected() *Item {
	return s.selected
}

// IsSelected reports whether it is the selected item.
func (s *Surface) IsSelected(it *Item) bool {
	return it != nil && s.selected == it
}

// Draw renders every item through the given document-to-device matrix.
func (s *Surface) Draw(dst *ebiten.Image, view [6]float64) {
	for _, it := range s.items {
		it.draw(dst, view)
	}
}

// collect appends selectable items in painter order (DFS, parents first).
func collect(items []*Item, buf []*Item) []*Item {
	for _, it := range items {
		if it.Selectable {
			buf = append(buf, it)
		}
		buf = collect(it.children, buf)
	}
	return buf
}

// HitTest finds the topmost selectable item whose bounds contain the
// document-space point p. Returns nil if nothing is hit.
func (s *Surface) HitTest(p Point) *Item {
	s.hitBuf = collect(s.items, s.hitBuf[:0])
	// Reverse painter order: topmost first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		it := s.hitBuf[i]
		lp := it.MapFromDocument(p)
		b := it.Bounds()
		if b.Width == 0 && b.Height == 0 {
			continue
		}
		if b.Contains(lp.X, lp.Y) {
			return it
		}
	}
	return nil
}
