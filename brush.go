package stave

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// BrushPattern selects a fill style.
type BrushPattern uint8

const (
	BrushNone            BrushPattern = iota // no fill
	BrushSolid                               // flat color fill
	BrushLinearGradient                      // vertical two-stop gradient
	BrushHorizontalHatch                     // horizontal lines
	BrushVerticalHatch                       // vertical lines
	BrushCrossHatch                          // horizontal and vertical lines
)

// String returns the pattern name.
func (p BrushPattern) String() string {
	switch p {
	case BrushNone:
		return "none"
	case BrushSolid:
		return "solid"
	case BrushLinearGradient:
		return "linear_gradient"
	case BrushHorizontalHatch:
		return "horizontal_hatch"
	case BrushVerticalHatch:
		return "vertical_hatch"
	case BrushCrossHatch:
		return "cross_hatch"
	default:
		return "unknown"
	}
}

const (
	// gradientHeight is the reference span of linear gradients in local
	// units. Gradients do not follow the filled shape's bounds.
	gradientHeight = 800
	// hatchSpacing is the distance between hatch lines in local units.
	hatchSpacing = 6
)

// gradientEnd is the far stop of linear gradients.
var gradientEnd = ColorWhite

// Brush describes a fill. It is a plain value and never mutated by
// resolution.
type Brush struct {
	Color   Color
	Pattern BrushPattern
}

// SolidBrush returns a flat fill of c.
func SolidBrush(c Color) Brush {
	return Brush{Color: c, Pattern: BrushSolid}
}

// GradientStop is a color at a position along a gradient axis.
type GradientStop struct {
	Offset float64
	Color  Color
}

// NativeBrush is a brush resolved for drawing with Ebitengine.
type NativeBrush struct {
	Pattern BrushPattern
	Color   Color
	// From and To define the gradient axis in local space (linear gradients only).
	From, To Point
	Stops    []GradientStop
}

// ResolveBrush derives the renderer-side brush. Each call yields a new
// value; nothing is cached on b.
func ResolveBrush(b Brush) NativeBrush {
	nb := NativeBrush{Pattern: b.Pattern, Color: b.Color}
	if b.Pattern == BrushLinearGradient {
		nb.From = Point{0, 0}
		nb.To = Point{0, gradientHeight}
		nb.Stops = []GradientStop{
			{Offset: 0, Color: b.Color},
			{Offset: 1, Color: gradientEnd},
		}
	}
	return nb
}

// ColorAt returns the fill color at local y. Only meaningful for gradients;
// other patterns return the flat color.
func (nb NativeBrush) ColorAt(y float64) Color {
	if nb.Pattern != BrushLinearGradient || len(nb.Stops) < 2 {
		return nb.Color
	}
	span := nb.To.Y - nb.From.Y
	if span == 0 {
		return nb.Stops[0].Color
	}
	t := clamp01((y - nb.From.Y) / span)
	for i := 1; i < len(nb.Stops); i++ {
		a, b := nb.Stops[i-1], nb.Stops[i]
		if t <= b.Offset {
			w := b.Offset - a.Offset
			if w <= 0 {
				return b.Color
			}
			return a.Color.lerp(b.Color, (t-a.Offset)/w)
		}
	}
	return nb.Stops[len(nb.Stops)-1].Color
}

// gradientBands splits [y0, y1] at the gradient's stop positions so each
// band can be filled with a linear per-vertex color.
func (nb NativeBrush) gradientBands(y0, y1 float64) []float64 {
	cuts := []float64{y0}
	span := nb.To.Y - nb.From.Y
	for _, s := range nb.Stops {
		y := nb.From.Y + s.Offset*span
		if y > y0 && y < y1 {
			cuts = append(cuts, y)
		}
	}
	return append(cuts, y1)
}

var whiteSub *ebiten.Image

// whiteSubImage returns a small opaque white source for DrawTriangles.
func whiteSubImage() *ebiten.Image {
	if whiteSub == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(ColorWhite.toRGBA())
		whiteSub = img.SubImage(img.Bounds().Inset(1)).(*ebiten.Image)
	}
	return whiteSub
}

// FillRect fills r (local space) through geo.
func (nb NativeBrush) FillRect(dst *ebiten.Image, geo ebiten.GeoM, r Rect) {
	switch nb.Pattern {
	case BrushNone:
		return
	case BrushSolid:
		fillQuad(dst, geo, r, nb.Color, nb.Color)
	case BrushLinearGradient:
		cuts := nb.gradientBands(r.Y, r.Y+r.Height)
		for i := 1; i < len(cuts); i++ {
			band := Rect{X: r.X, Y: cuts[i-1], Width: r.Width, Height: cuts[i] - cuts[i-1]}
			fillQuad(dst, geo, band, nb.ColorAt(cuts[i-1]), nb.ColorAt(cuts[i]))
		}
	case BrushHorizontalHatch, BrushVerticalHatch, BrushCrossHatch:
		nb.hatch(dst, geo, r)
	}
}

// fillQuad draws r with top edge color top and bottom edge color bottom.
func fillQuad(dst *ebiten.Image, geo ebiten.GeoM, r Rect, top, bottom Color) {
	corners := [4]Point{
		{r.X, r.Y}, {r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height}, {r.X, r.Y + r.Height},
	}
	var vs [4]ebiten.Vertex
	for i, p := range corners {
		x, y := geo.Apply(p.X, p.Y)
		c := top
		if i >= 2 {
			c = bottom
		}
		vs[i] = ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: float32(c.R * c.A), ColorG: float32(c.G * c.A),
			ColorB: float32(c.B * c.A), ColorA: float32(c.A),
		}
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vs[:], []uint16{0, 1, 2, 0, 2, 3}, whiteSubImage(), op)
}

func (nb NativeBrush) hatch(dst *ebiten.Image, geo ebiten.GeoM, r Rect) {
	clr := nb.Color.toRGBA()
	line := func(x0, y0, x1, y1 float64) {
		ax, ay := geo.Apply(x0, y0)
		bx, by := geo.Apply(x1, y1)
		vector.StrokeLine(dst, float32(ax), float32(ay), float32(bx), float32(by), 1, clr, true)
	}
	if nb.Pattern != BrushVerticalHatch {
		for y := r.Y; y <= r.Y+r.Height; y += hatchSpacing {
			line(r.X, y, r.X+r.Width, y)
		}
	}
	if nb.Pattern != BrushHorizontalHatch {
		for x := r.X; x <= r.X+r.Width; x += hatchSpacing {
			line(x, r.Y, x, r.Y+r.Height)
		}
	}
}
