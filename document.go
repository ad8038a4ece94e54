package stave

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// DefaultPaper is a letter-sized page in document units (points).
var DefaultPaper = Size{Width: 612, Height: 792}

const defaultPageGap = 40

// Page is one independent root of the object tree.
type Page struct {
	ID uuid.UUID

	doc     *Document
	index   int
	objects []*Object
	node    *Node
}

// Index returns the page's position in the document.
func (p *Page) Index() int { return p.index }

// Document returns the owning document, or nil once removed.
func (p *Page) Document() *Document { return p.doc }

// Objects returns the page-level objects. The returned slice MUST NOT be mutated.
func (p *Page) Objects() []*Object { return p.objects }

// Node returns the page's background node from the latest render pass.
func (p *Page) Node() *Node { return p.node }

// Origin returns the page's top-left corner in document space. Pages are
// laid out left to right.
func (p *Page) Origin() Point {
	if p.doc == nil {
		return Origin
	}
	return Point{X: float64(p.index) * (p.doc.Paper.Width + p.doc.Gap)}
}

// Bounds returns the page rectangle in document space.
func (p *Page) Bounds() Rect {
	o := p.Origin()
	var paper Size
	if p.doc != nil {
		paper = p.doc.Paper
	}
	return Rect{X: o.X, Y: o.Y, Width: paper.Width, Height: paper.Height}
}

// add attaches obj under parent, or at page level when parent is nil.
// Panics if parent belongs to a different page.
func (p *Page) add(parent *Object, obj *Object) *Object {
	if parent != nil && parent.page != p {
		panic("stave: parent object is not on this page")
	}
	obj.page = p
	obj.parent = parent
	if parent != nil {
		parent.children = append(parent.children, obj)
	} else {
		p.objects = append(p.objects, obj)
	}
	if globalDebug {
		debugCheckChildCount(p, parent, p.doc.log)
	}
	return obj
}

// NewContainer adds an invisible grouping object.
func (p *Page) NewContainer(parent *Object, name string, pos Point) *Object {
	return p.add(parent, newObject(ObjectContainer, name, pos))
}

// NewText adds a text object drawn with f.
func (p *Page) NewText(parent *Object, pos Point, s string, f *Font) *Object {
	o := newObject(ObjectText, "text", pos)
	o.Text = s
	o.Font = f
	return p.add(parent, o)
}

// NewGlyph adds a named notation glyph drawn with f. Returns
// ErrUnknownGlyph if f has no code point for name.
func (p *Page) NewGlyph(parent *Object, pos Point, name string, f *Font) (*Object, error) {
	if f == nil {
		return nil, fmt.Errorf("new glyph %q: no font", name)
	}
	if _, ok := f.names[name]; !ok {
		return nil, fmt.Errorf("new glyph: %w: %q", ErrUnknownGlyph, name)
	}
	o := newObject(ObjectGlyph, name, pos)
	o.Glyph = name
	o.Font = f
	return p.add(parent, o), nil
}

// NewRect adds a filled rectangle.
func (p *Page) NewRect(parent *Object, pos Point, size Size, b Brush) *Object {
	o := newObject(ObjectRect, "rect", pos)
	o.Size = size
	o.Brush = b
	return p.add(parent, o)
}

// NewLine adds a line from pos to pos+to.
func (p *Page) NewLine(parent *Object, pos, to Point, thickness float64) *Object {
	o := newObject(ObjectLine, "line", pos)
	o.To = to
	o.Thickness = thickness
	return p.add(parent, o)
}

// NewStaff adds a container holding lines evenly spaced staff lines of the
// given width.
func (p *Page) NewStaff(parent *Object, pos Point, width float64, lines int, spacing, thickness float64) *Object {
	staff := p.NewContainer(parent, "staff", pos)
	for i := 0; i < lines; i++ {
		l := p.NewLine(staff, Point{Y: float64(i) * spacing}, Point{X: width}, thickness)
		l.Name = fmt.Sprintf("staff-line-%d", i)
	}
	return staff
}

// Document is an ordered sequence of pages.
type Document struct {
	Paper      Size
	Gap        float64
	Background Brush

	pages []*Page
	log   *slog.Logger
}

// NewDocument creates an empty document. A nil logger uses slog.Default().
func NewDocument(paper Size, log *slog.Logger) *Document {
	if log == nil {
		log = slog.Default()
	}
	return &Document{
		Paper:      paper,
		Gap:        defaultPageGap,
		Background: SolidBrush(ColorWhite),
		log:        log,
	}
}

// Pages returns the page list. The returned slice MUST NOT be mutated.
func (d *Document) Pages() []*Page { return d.pages }

// Len returns the number of pages.
func (d *Document) Len() int { return len(d.pages) }

// Page returns the page at index i.
func (d *Document) Page(i int) *Page { return d.pages[i] }

// Bounds returns the rectangle spanning every page. Empty documents have
// zero bounds.
func (d *Document) Bounds() Rect {
	n := len(d.pages)
	if n == 0 {
		return Rect{}
	}
	last := d.pages[n-1].Bounds()
	return Rect{Width: last.X + last.Width, Height: d.Paper.Height}
}

// AddPage appends a new empty page.
func (d *Document) AddPage() *Page {
	p := &Page{ID: uuid.New(), doc: d, index: len(d.pages)}
	d.pages = append(d.pages, p)
	return p
}

// RemovePage removes the last page. With no pages it logs and returns
// false without touching the document.
func (d *Document) RemovePage() bool {
	if len(d.pages) == 0 {
		d.log.Info("no pages to remove")
		return false
	}
	return d.RemovePageAt(len(d.pages) - 1)
}

// RemovePageAt removes the page at index i and renumbers the rest. Out of
// range indexes are a logged no-op.
func (d *Document) RemovePageAt(i int) bool {
	if i < 0 || i >= len(d.pages) {
		d.log.Info("no page to remove", "index", i, "pages", len(d.pages))
		return false
	}
	p := d.pages[i]
	copy(d.pages[i:], d.pages[i+1:])
	d.pages[len(d.pages)-1] = nil
	d.pages = d.pages[:len(d.pages)-1]
	for j := i; j < len(d.pages); j++ {
		d.pages[j].index = j
	}
	p.doc = nil
	p.node = nil
	for _, o := range p.objects {
		o.detach()
	}
	return true
}

// Render clears the surface and renders every page from scratch: a
// background node per page, then each page's objects depth-first. After it
// returns the surface mirrors the document exactly.
func (d *Document) Render(s *Surface) error {
	s.Clear()
	for _, p := range d.pages {
		bg := NewNode(fmt.Sprintf("page-%d", p.index+1), p.Origin(), nil,
			NewRectDrawer(d.Paper.Width, d.Paper.Height, d.Background), Fixed())
		if err := bg.RenderWithLogger(s, d.log); err != nil {
			return fmt.Errorf("render page %d: %w", p.index+1, err)
		}
		p.node = bg
		for _, o := range p.objects {
			if err := o.render(bg, s, d.log); err != nil {
				return fmt.Errorf("render page %d: %w", p.index+1, err)
			}
		}
	}
	return nil
}
