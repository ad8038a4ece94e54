package stave

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// MinZoomValue and MaxZoomValue bound the viewport zoom level.
	MinZoomValue = 0.5
	MaxZoomValue = 50.0

	// DefaultWheelZoomFactor is applied per wheel notch while Ctrl is held:
	// the factor itself for a positive notch, its inverse otherwise.
	DefaultWheelZoomFactor = 0.9

	// DefaultScrollStep is the scroll distance in device pixels per wheel notch.
	DefaultScrollStep = 20
)

// scrollAnim holds active scroll-to tweens for the X and Y scroll offsets.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport owns the mapping between device pixels and document space: a
// zoom/pan matrix plus device-native scroll offsets.
type Viewport struct {
	// MinZoom and MaxZoom bound the zoom level, inclusive.
	MinZoom, MaxZoom float64
	// WheelZoomFactor is the per-notch zoom factor used by Wheel.
	WheelZoomFactor float64
	// StepX and StepY are the scroll distances per wheel notch.
	StepX, StepY float64

	// Width and Height are the device size of the visible region.
	Width, Height float64

	zoom    float64
	matrix  [6]float64
	scrollX float64
	scrollY float64

	autoInteraction bool

	scrollTween *scrollAnim
}

// NewViewport creates a viewport of the given device size at zoom 1 with
// auto interaction enabled.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		MinZoom:         MinZoomValue,
		MaxZoom:         MaxZoomValue,
		WheelZoomFactor: DefaultWheelZoomFactor,
		StepX:           DefaultScrollStep,
		StepY:           DefaultScrollStep,
		Width:           width,
		Height:          height,
		zoom:            1,
		matrix:          identityTransform,
		autoInteraction: true,
	}
}

// ZoomLevel returns the current zoom level.
func (v *Viewport) ZoomLevel() float64 { return v.zoom }

// ScrollOffset returns the scroll offsets in device pixels.
func (v *Viewport) ScrollOffset() Point { return Point{v.scrollX, v.scrollY} }

// SetScrollOffset sets the device scroll offsets directly.
func (v *Viewport) SetScrollOffset(p Point) {
	v.scrollX, v.scrollY = p.X, p.Y
	v.scrollTween = nil
}

// AutoInteraction reports whether the viewport handles wheel, gesture and
// default pointer interaction itself.
func (v *Viewport) AutoInteraction() bool { return v.autoInteraction }

// ScrollbarsVisible reports whether scrollbars are shown. They are hidden
// while auto interaction is disabled.
func (v *Viewport) ScrollbarsVisible() bool { return v.autoInteraction }

// SetAutoInteraction toggles native interaction. When disabled, wheel and
// pinch input are ignored and scrollbars are hidden; pointer events still
// reach the registered handler.
func (v *Viewport) SetAutoInteraction(enabled bool) {
	v.autoInteraction = enabled
}

// SetSize updates the device size of the visible region.
func (v *Viewport) SetSize(w, h float64) {
	v.Width, v.Height = w, h
}

// IsZoomWithinBounds reports whether z lies in [MinZoom, MaxZoom].
func (v *Viewport) IsZoomWithinBounds(z float64) bool {
	return v.MinZoom <= z && z <= v.MaxZoom
}

// Zoom scales the view by factor, keeping the document point under anchor
// (device coordinates) in place. A request that would leave the zoom
// bounds is ignored and reported as false.
func (v *Viewport) Zoom(factor float64, anchor Point) bool {
	next := v.zoom * factor
	if !v.IsZoomWithinBounds(next) {
		return false
	}
	v.zoom = next
	before := v.DeviceToDocument(anchor)
	v.matrix = multiplyAffine(v.matrix, scaleMatrix(factor))
	after := v.DeviceToDocument(anchor)
	d := after.Sub(before)
	v.matrix = multiplyAffine(v.matrix, translateMatrix(d.X, d.Y))
	return true
}

// Pinch applies a pinch gesture's incremental scale factor about its
// center, with the same bounds and anchoring as Zoom.
func (v *Viewport) Pinch(scaleFactor float64, center Point) bool {
	return v.Zoom(scaleFactor, center)
}

// Scroll moves the view by delta wheel notches. With exactly Shift held
// the vertical component scrolls horizontally instead.
func (v *Viewport) Scroll(delta Point, mods KeyModifiers) {
	h, vert := delta.X, delta.Y
	if mods == ModShift {
		h, vert = delta.Y, 0
	}
	if h != 0 {
		v.scrollX -= math.Trunc(h * v.StepX)
	}
	if vert != 0 {
		v.scrollY -= math.Trunc(vert * v.StepY)
	}
	if h != 0 || vert != 0 {
		v.scrollTween = nil
	}
}

// Wheel handles a mouse wheel event at anchor. With Ctrl held it zooms by
// WheelZoomFactor, otherwise it scrolls. Ignored while auto interaction is
// disabled. Returns whether the event was consumed.
func (v *Viewport) Wheel(delta Point, anchor Point, mods KeyModifiers) bool {
	if !v.autoInteraction {
		return false
	}
	if mods == ModCtrl {
		if delta.Y == 0 {
			return true
		}
		factor := v.WheelZoomFactor
		if delta.Y < 0 {
			factor = 1 / factor
		}
		v.Zoom(factor, anchor)
		return true
	}
	v.Scroll(delta, mods)
	return true
}

// DeviceToDocument converts a device pixel position to document space.
func (v *Viewport) DeviceToDocument(p Point) Point {
	x, y := transformPoint(invertAffine(v.matrix), p.X+v.scrollX, p.Y+v.scrollY)
	return Point{x, y}
}

// DocumentToDevice converts a document position to device pixels.
func (v *Viewport) DocumentToDevice(p Point) Point {
	x, y := transformPoint(v.matrix, p.X, p.Y)
	return Point{x - v.scrollX, y - v.scrollY}
}

// WindowDocumentPos returns the document position at the device origin.
func (v *Viewport) WindowDocumentPos() Point {
	return v.DeviceToDocument(Origin)
}

// ViewMatrix returns the full document-to-device matrix, scroll included.
func (v *Viewport) ViewMatrix() [6]float64 {
	return multiplyAffine(translateMatrix(-v.scrollX, -v.scrollY), v.matrix)
}

// VisibleBounds returns the document-space rectangle currently visible.
func (v *Viewport) VisibleBounds() Rect {
	corners := [4]Point{{0, 0}, {v.Width, 0}, {v.Width, v.Height}, {0, v.Height}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := v.DeviceToDocument(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ScrollTo animates the scroll offsets so the document point p ends up at
// the center of the view after duration seconds.
func (v *Viewport) ScrollTo(p Point, duration float32, easeFn ease.TweenFunc) {
	x, y := transformPoint(v.matrix, p.X, p.Y)
	tx, ty := x-v.Width/2, y-v.Height/2
	if duration <= 0 {
		v.SetScrollOffset(Point{tx, ty})
		return
	}
	v.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(v.scrollX), float32(tx), duration, easeFn),
		tweenY: gween.New(float32(v.scrollY), float32(ty), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (v *Viewport) Scrolling() bool { return v.scrollTween != nil }

// update advances the scroll animation by dt seconds.
func (v *Viewport) update(dt float32) {
	if v.scrollTween == nil {
		return
	}
	if !v.scrollTween.doneX {
		val, done := v.scrollTween.tweenX.Update(dt)
		v.scrollX = float64(val)
		v.scrollTween.doneX = done
	}
	if !v.scrollTween.doneY {
		val, done := v.scrollTween.tweenY.Update(dt)
		v.scrollY = float64(val)
		v.scrollTween.doneY = done
	}
	if v.scrollTween.doneX && v.scrollTween.doneY {
		v.scrollTween = nil
	}
}
