package stave

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RectDrawer fills and optionally outlines a rectangle anchored at the
// local origin.
type RectDrawer struct {
	Width, Height float64
	Fill          NativeBrush
	Stroke        Color
	StrokeWidth   float64
}

// NewRectDrawer creates a rectangle drawer filled with brush b.
func NewRectDrawer(w, h float64, b Brush) *RectDrawer {
	return &RectDrawer{Width: w, Height: h, Fill: ResolveBrush(b)}
}

// Bounds implements Drawer.
func (d *RectDrawer) Bounds() Rect {
	return Rect{Width: d.Width, Height: d.Height}
}

// Draw implements Drawer.
func (d *RectDrawer) Draw(dst *ebiten.Image, geo ebiten.GeoM, bounds Rect) {
	d.Fill.FillRect(dst, geo, bounds)
	if d.StrokeWidth <= 0 {
		return
	}
	corners := [4]Point{
		{bounds.X, bounds.Y}, {bounds.X + bounds.Width, bounds.Y},
		{bounds.X + bounds.Width, bounds.Y + bounds.Height}, {bounds.X, bounds.Y + bounds.Height},
	}
	clr := d.Stroke.toRGBA()
	w := float32(d.StrokeWidth * geoScale(geo))
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		ax, ay := geo.Apply(a.X, a.Y)
		bx, by := geo.Apply(b.X, b.Y)
		vector.StrokeLine(dst, float32(ax), float32(ay), float32(bx), float32(by), w, clr, true)
	}
}

// LineDrawer strokes a straight line from the local origin to To. Staff
// lines, stems and barlines are lines.
type LineDrawer struct {
	To        Point
	Thickness float64
	Color     Color
}

// Bounds implements Drawer. The box is padded by half the thickness so
// thin lines stay hittable.
func (d *LineDrawer) Bounds() Rect {
	pad := d.Thickness / 2
	x0, x1 := math.Min(0, d.To.X), math.Max(0, d.To.X)
	y0, y1 := math.Min(0, d.To.Y), math.Max(0, d.To.Y)
	return Rect{X: x0 - pad, Y: y0 - pad, Width: x1 - x0 + 2*pad, Height: y1 - y0 + 2*pad}
}

// Draw implements Drawer. A resized line stretches its span to the new
// bounds; the thickness is kept.
func (d *LineDrawer) Draw(dst *ebiten.Image, geo ebiten.GeoM, bounds Rect) {
	to := d.end(bounds)
	ax, ay := geo.Apply(0, 0)
	bx, by := geo.Apply(to.X, to.Y)
	w := float32(math.Max(d.Thickness*geoScale(geo), 1))
	vector.StrokeLine(dst, float32(ax), float32(ay), float32(bx), float32(by), w, d.Color.toRGBA(), true)
}

// end returns the line's end point stretched to fit bounds. An axis the
// line does not span stays as is.
func (d *LineDrawer) end(bounds Rect) Point {
	to := d.To
	pad := d.Thickness
	if w := math.Abs(d.To.X); w > 0 {
		to.X *= max(bounds.Width-pad, 0) / w
	}
	if h := math.Abs(d.To.Y); h > 0 {
		to.Y *= max(bounds.Height-pad, 0) / h
	}
	return to
}

// TextDrawer renders a string (or a single named glyph) with a Font.
type TextDrawer struct {
	Text  string
	Color Color

	font     *Font
	baseline bool
	bounds   Rect
}

// Font returns the font the drawer was created from.
func (d *TextDrawer) Font() *Font { return d.font }

// Bounds implements Drawer.
func (d *TextDrawer) Bounds() Rect {
	return d.bounds
}

// Draw implements Drawer. Text scales with resizing by stretching the
// natural bounds into the current bounds.
func (d *TextDrawer) Draw(dst *ebiten.Image, geo ebiten.GeoM, bounds Rect) {
	if d.font == nil || d.Text == "" {
		return
	}
	var local ebiten.GeoM
	if d.baseline {
		local.Translate(0, -d.font.ascent)
	}
	if d.bounds.Width > 0 && d.bounds.Height > 0 &&
		(bounds.Width != d.bounds.Width || bounds.Height != d.bounds.Height) {
		local.Scale(bounds.Width/d.bounds.Width, bounds.Height/d.bounds.Height)
	}
	local.Concat(geo)

	op := &text.DrawOptions{}
	op.GeoM = local
	op.ColorScale.ScaleWithColor(d.Color.toRGBA())
	op.LineSpacing = d.font.lh
	text.Draw(dst, d.Text, d.font.face, op)
}

// geoScale approximates the uniform scale of geo, used for stroke widths.
func geoScale(geo ebiten.GeoM) float64 {
	a, c := geo.Element(0, 0), geo.Element(1, 0)
	return math.Hypot(a, c)
}
