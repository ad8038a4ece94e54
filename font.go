package stave

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	// ErrUnknownFamily is returned when a font family has not been registered.
	ErrUnknownFamily = errors.New("stave: unknown font family")
	// ErrUnknownGlyph is returned when a glyph name has no code point.
	ErrUnknownGlyph = errors.New("stave: unknown glyph")
)

// DefaultTextFamily is the family registered by NewFaceProvider.
const DefaultTextFamily = "Go"

// GlyphProvider resolves fonts for text and notation glyphs. The core
// treats it as an opaque factory.
type GlyphProvider interface {
	Font(family string, unit float64) (*Font, error)
}

// SMuFLNames maps common SMuFL glyph names to their code points.
var SMuFLNames = map[string]rune{
	"gClef":             0xE050,
	"cClef":             0xE05C,
	"fClef":             0xE062,
	"barlineSingle":     0xE030,
	"barlineDouble":     0xE031,
	"barlineFinal":      0xE032,
	"repeatLeft":        0xE040,
	"repeatRight":       0xE041,
	"timeSig4":          0xE084,
	"timeSigCommon":     0xE08A,
	"noteheadWhole":     0xE0A2,
	"noteheadHalf":      0xE0A3,
	"noteheadBlack":     0xE0A4,
	"accidentalFlat":    0xE260,
	"accidentalNatural": 0xE261,
	"accidentalSharp":   0xE262,
	"restWhole":         0xE4E3,
	"restHalf":          0xE4E4,
	"restQuarter":       0xE4E5,
	"fermataAbove":      0xE4C0,
}

type faceSource struct {
	source    *text.GoTextFaceSource
	emPerUnit float64
}

// FaceProvider is a GlyphProvider backed by Ebitengine text/v2 faces.
type FaceProvider struct {
	sources map[string]faceSource
	names   map[string]rune
}

// NewFaceProvider creates a provider with the Go Regular face registered as
// DefaultTextFamily and the SMuFL name table.
func NewFaceProvider() (*FaceProvider, error) {
	p := &FaceProvider{
		sources: make(map[string]faceSource),
		names:   SMuFLNames,
	}
	if err := p.Register(DefaultTextFamily, goregular.TTF, 1); err != nil {
		return nil, err
	}
	return p, nil
}

// Register parses TTF/OTF data and makes it available as family. emPerUnit
// converts the caller's size unit to font size (SMuFL fonts use 4: one em
// spans four staff spaces).
func (p *FaceProvider) Register(family string, data []byte, emPerUnit float64) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("register font %q: %w", family, err)
	}
	if emPerUnit <= 0 {
		emPerUnit = 1
	}
	p.sources[family] = faceSource{source: src, emPerUnit: emPerUnit}
	return nil
}

// Alias makes family resolve to an already registered family.
func (p *FaceProvider) Alias(family, target string) error {
	src, ok := p.sources[target]
	if !ok {
		return fmt.Errorf("alias %q: %w: %q", family, ErrUnknownFamily, target)
	}
	p.sources[family] = src
	return nil
}

// SetGlyphNames replaces the glyph name table.
func (p *FaceProvider) SetGlyphNames(names map[string]rune) {
	p.names = names
}

// Font returns a face of family sized for unit.
func (p *FaceProvider) Font(family string, unit float64) (*Font, error) {
	src, ok := p.sources[family]
	if !ok {
		return nil, fmt.Errorf("font %q: %w", family, ErrUnknownFamily)
	}
	face := &text.GoTextFace{Source: src.source, Size: unit * src.emPerUnit}
	m := face.Metrics()
	return &Font{
		family: family,
		unit:   unit,
		face:   face,
		ascent: m.HAscent,
		lh:     m.HAscent + m.HDescent + m.HLineGap,
		names:  p.names,
	}, nil
}

// Font is a sized face able to produce text and named-glyph drawers.
type Font struct {
	family string
	unit   float64
	face   *text.GoTextFace
	ascent float64
	lh     float64
	names  map[string]rune
}

// Family returns the font family name.
func (f *Font) Family() string { return f.family }

// Unit returns the size unit the font was resolved for.
func (f *Font) Unit() float64 { return f.unit }

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 { return f.lh }

// Face returns the underlying GoTextFace for direct text/v2 rendering.
func (f *Font) Face() *text.GoTextFace { return f.face }

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// Text returns a drawer for s whose origin is the top-left of the first line.
func (f *Font) Text(s string, c Color) *TextDrawer {
	w, h := f.MeasureString(s)
	return &TextDrawer{Text: s, Color: c, font: f, bounds: Rect{Width: w, Height: h}}
}

// Glyph returns a drawer for a named glyph whose origin is on the baseline.
func (f *Font) Glyph(name string, c Color) (*TextDrawer, error) {
	r, ok := f.names[name]
	if !ok {
		return nil, fmt.Errorf("glyph %q: %w", name, ErrUnknownGlyph)
	}
	s := string(r)
	w, h := f.MeasureString(s)
	return &TextDrawer{
		Text:     s,
		Color:    c,
		font:     f,
		baseline: true,
		bounds:   Rect{Y: -f.ascent, Width: w, Height: h},
	}, nil
}
