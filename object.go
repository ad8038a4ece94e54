package stave

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// ObjectKind distinguishes what an Object draws.
type ObjectKind uint8

const (
	ObjectContainer ObjectKind = iota // group with no visual output
	ObjectText                        // a string in a text font
	ObjectGlyph                       // a named notation glyph
	ObjectRect                        // a filled rectangle
	ObjectLine                        // a stroked line (staff line, barline, stem)
)

// Object is an editable element of a page. Objects own their children and
// hold a non-owning parent reference fixed at creation. Every render pass
// builds a fresh Node for each object.
//
// A single flat struct is used for all kinds; the kind-specific fields are
// ignored by the other kinds.
type Object struct {
	ID   uuid.UUID
	Name string
	Kind ObjectKind

	// Placement relative to the parent object (or the page).
	Pos      Point
	Scale    float64
	Rotation float64
	Origin   Point

	// Text and glyph fields.
	Text  string
	Glyph string
	Font  *Font
	Color Color

	// Rect fields. Size also overrides the natural size of other kinds
	// once the object has been resized.
	Size  Size
	Brush Brush

	// Line fields.
	To        Point
	Thickness float64

	page     *Page
	parent   *Object
	children []*Object
	resized  bool
	node     *Node
}

func newObject(kind ObjectKind, name string, pos Point) *Object {
	return &Object{
		ID:    uuid.New(),
		Name:  name,
		Kind:  kind,
		Pos:   pos,
		Scale: 1,
		Color: ColorBlack,
	}
}

// Parent returns the parent object, or nil for a page-level object.
func (o *Object) Parent() *Object { return o.parent }

// Page returns the owning page. Nil once the object has been removed.
func (o *Object) Page() *Page { return o.page }

// Children returns the child list. The returned slice MUST NOT be mutated.
func (o *Object) Children() []*Object { return o.children }

// Node returns the node built for the object by the latest render pass.
func (o *Object) Node() *Node { return o.node }

// MovedBy shifts the object by d in its parent's space. Called when an
// interactive move is committed.
func (o *Object) MovedBy(d Point) {
	o.Pos = o.Pos.Add(d)
}

// ResizedTo records an interactive resize.
func (o *Object) ResizedTo(s Size) {
	o.Size = s
	o.resized = true
}

// Remove detaches the object and its subtree from its page.
func (o *Object) Remove() {
	if o.page == nil {
		return
	}
	if o.parent != nil {
		o.parent.children = removeObject(o.parent.children, o)
	} else {
		o.page.objects = removeObject(o.page.objects, o)
	}
	o.detach()
}

func (o *Object) detach() {
	o.page = nil
	o.node = nil
	for _, c := range o.children {
		c.detach()
	}
}

func removeObject(s []*Object, o *Object) []*Object {
	for i, c := range s {
		if c == o {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			return s[:len(s)-1]
		}
	}
	return s
}

// drawer builds the content drawer for the object's kind.
func (o *Object) drawer() (Drawer, error) {
	switch o.Kind {
	case ObjectContainer:
		return groupDrawer{}, nil
	case ObjectText:
		if o.Font == nil {
			return nil, fmt.Errorf("text %q: no font", o.Name)
		}
		return o.Font.Text(o.Text, o.Color), nil
	case ObjectGlyph:
		if o.Font == nil {
			return nil, fmt.Errorf("glyph %q: no font", o.Name)
		}
		return o.Font.Glyph(o.Glyph, o.Color)
	case ObjectRect:
		return NewRectDrawer(o.Size.Width, o.Size.Height, o.Brush), nil
	case ObjectLine:
		return &LineDrawer{To: o.To, Thickness: o.Thickness, Color: o.Color}, nil
	default:
		return nil, fmt.Errorf("object %q: unknown kind %d", o.Name, o.Kind)
	}
}

// render builds the object's node under parent, renders it, then renders
// the children.
func (o *Object) render(parent *Node, s *Surface, log *slog.Logger) error {
	d, err := o.drawer()
	if err != nil {
		return err
	}
	n := NewNode(o.Name, o.Pos, parent, d,
		WithScale(o.Scale), WithRotation(o.Rotation), WithOrigin(o.Origin))
	if err := n.RenderWithLogger(s, log); err != nil {
		return err
	}
	item := n.Handle()
	item.UserData = o
	if o.resized && o.Kind != ObjectRect {
		item.SetSize(o.Size)
	}
	if o.Kind == ObjectContainer {
		item.Selectable = false
	}
	o.node = n
	for _, c := range o.children {
		if err := c.render(n, s, log); err != nil {
			return err
		}
	}
	return nil
}

// groupDrawer is the drawer of containers: no bounds, no output.
type groupDrawer struct{}

func (groupDrawer) Bounds() Rect { return Rect{} }

func (groupDrawer) Draw(*ebiten.Image, ebiten.GeoM, Rect) {}
