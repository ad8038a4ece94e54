package stave

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestViewportDefaults(t *testing.T) {
	v := NewViewport(800, 600)
	if v.ZoomLevel() != 1 {
		t.Errorf("zoom = %v, want 1", v.ZoomLevel())
	}
	if !v.AutoInteraction() || !v.ScrollbarsVisible() {
		t.Error("auto interaction and scrollbars should default on")
	}
	assertPoint(t, "window pos", v.WindowDocumentPos(), Origin)
}

func TestViewportZoomBounds(t *testing.T) {
	tests := []struct {
		z    float64
		want bool
	}{
		{0.49, false},
		{0.5, true},
		{1, true},
		{50, true},
		{50.01, false},
	}
	v := NewViewport(800, 600)
	for _, tt := range tests {
		if got := v.IsZoomWithinBounds(tt.z); got != tt.want {
			t.Errorf("IsZoomWithinBounds(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestViewportZoomMultiplies(t *testing.T) {
	v := NewViewport(800, 600)
	if !v.Zoom(2, Origin) {
		t.Fatal("zoom 2 should succeed")
	}
	if !v.Zoom(1.25, Origin) {
		t.Fatal("zoom 2.5 should succeed")
	}
	if v.ZoomLevel() != 2*1.25 {
		t.Errorf("zoom = %v, want 2.5", v.ZoomLevel())
	}
}

func TestViewportZoomBoundsFromUnit(t *testing.T) {
	v := NewViewport(800, 600)
	if v.ZoomLevel() != 1 {
		t.Fatalf("zoom = %v, want 1", v.ZoomLevel())
	}
	if v.Zoom(51, Origin) {
		t.Error("zoom to 51 should be rejected")
	}
	if v.Zoom(0.4, Origin) {
		t.Error("zoom to 0.4 should be rejected")
	}
	if v.ZoomLevel() != 1 {
		t.Fatalf("zoom = %v, want unchanged 1", v.ZoomLevel())
	}
	if !v.Zoom(0.5, Origin) || v.ZoomLevel() != 0.5 {
		t.Errorf("zoom = %v, want exactly 0.5", v.ZoomLevel())
	}
	if !v.Zoom(100, Origin) || v.ZoomLevel() != 50 {
		t.Errorf("zoom = %v, want exactly 50", v.ZoomLevel())
	}
}

func TestViewportZoomOutOfBoundsIsNoop(t *testing.T) {
	v := NewViewport(800, 600)
	v.Zoom(2, Point{100, 100})
	before := v.ViewMatrix()

	if v.Zoom(100, Point{100, 100}) {
		t.Error("zoom beyond max should be rejected")
	}
	if v.Zoom(0.1, Point{100, 100}) {
		t.Error("zoom below min should be rejected")
	}
	if v.ZoomLevel() != 2 {
		t.Errorf("zoom = %v, want unchanged 2", v.ZoomLevel())
	}
	assertMatrix(t, "matrix", v.ViewMatrix(), before)
}

func TestViewportZoomKeepsAnchor(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetScrollOffset(Point{30, -10})
	anchor := Point{250, 175}
	want := v.DeviceToDocument(anchor)

	v.Zoom(3, anchor)
	assertPoint(t, "anchor after zoom in", v.DeviceToDocument(anchor), want)

	v.Zoom(0.4, anchor)
	assertPoint(t, "anchor after zoom out", v.DeviceToDocument(anchor), want)
}

func TestViewportDeviceDocumentRoundTrip(t *testing.T) {
	v := NewViewport(800, 600)
	v.Zoom(1.7, Point{120, 80})
	v.SetScrollOffset(Point{15, 40})

	p := Point{321, 123}
	assertPoint(t, "round trip", v.DocumentToDevice(v.DeviceToDocument(p)), p)
}

func TestViewportScroll(t *testing.T) {
	v := NewViewport(800, 600)
	v.Scroll(Point{0, -1}, 0)
	assertPoint(t, "scroll down", v.ScrollOffset(), Point{0, 20})

	v.Scroll(Point{1, 0}, 0)
	assertPoint(t, "scroll left", v.ScrollOffset(), Point{-20, 20})
}

func TestViewportShiftScrollsHorizontally(t *testing.T) {
	v := NewViewport(800, 600)
	v.Scroll(Point{0, -2}, ModShift)
	assertPoint(t, "offset", v.ScrollOffset(), Point{40, 0})
}

func TestViewportWheelCtrlZooms(t *testing.T) {
	v := NewViewport(800, 600)
	if !v.Wheel(Point{0, 1}, Origin, ModCtrl) {
		t.Fatal("wheel should be consumed")
	}
	assertNear(t, "zoom after positive notch", v.ZoomLevel(), 0.9)

	v.Wheel(Point{0, -1}, Origin, ModCtrl)
	assertNear(t, "zoom after negative notch", v.ZoomLevel(), 1)
	assertPoint(t, "no scroll while zooming", v.ScrollOffset(), Origin)
}

func TestViewportWheelCtrlShiftScrolls(t *testing.T) {
	v := NewViewport(800, 600)
	v.Wheel(Point{0, -1}, Origin, ModCtrl|ModShift)
	if v.ZoomLevel() != 1 {
		t.Errorf("zoom = %v, want 1 (only bare Ctrl zooms)", v.ZoomLevel())
	}
	// Only bare Shift turns the wheel horizontal.
	assertPoint(t, "offset", v.ScrollOffset(), Point{0, 20})
}

func TestViewportWheelIgnoredWithoutAutoInteraction(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetAutoInteraction(false)
	if v.ScrollbarsVisible() {
		t.Error("scrollbars should hide with auto interaction off")
	}
	if v.Wheel(Point{0, -1}, Origin, 0) {
		t.Error("wheel should not be consumed")
	}
	if v.Wheel(Point{0, 1}, Origin, ModCtrl) {
		t.Error("ctrl wheel should not be consumed")
	}
	if v.ZoomLevel() != 1 || v.ScrollOffset() != Origin {
		t.Error("viewport should be unchanged")
	}
}

func TestViewportPinch(t *testing.T) {
	v := NewViewport(800, 600)
	center := Point{400, 300}
	want := v.DeviceToDocument(center)
	if !v.Pinch(1.5, center) {
		t.Fatal("pinch within bounds should apply")
	}
	assertNear(t, "zoom", v.ZoomLevel(), 1.5)
	assertPoint(t, "center", v.DeviceToDocument(center), want)
}

func TestViewportVisibleBounds(t *testing.T) {
	v := NewViewport(800, 600)
	v.Zoom(2, Origin)
	b := v.VisibleBounds()
	if !approxEqual(b.Width, 400, 1e-9) || !approxEqual(b.Height, 300, 1e-9) {
		t.Errorf("visible = %+v, want 400x300", b)
	}
}

func TestViewportScrollToImmediate(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollTo(Point{1000, 900}, 0, ease.Linear)
	if v.Scrolling() {
		t.Error("zero duration should not animate")
	}
	assertPoint(t, "offset", v.ScrollOffset(), Point{600, 600})
}

func TestViewportScrollToAnimates(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollTo(Point{500, 500}, 1.0, ease.Linear)
	if !v.Scrolling() {
		t.Fatal("ScrollTo should start an animation")
	}

	v.update(0.5)
	off := v.ScrollOffset()
	if !approxEqual(off.X, 50, 1.0) || !approxEqual(off.Y, 100, 1.0) {
		t.Errorf("halfway = %v, want ~(50,100)", off)
	}

	v.update(0.5)
	off = v.ScrollOffset()
	if !approxEqual(off.X, 100, 1.0) || !approxEqual(off.Y, 200, 1.0) {
		t.Errorf("end = %v, want ~(100,200)", off)
	}
	if v.Scrolling() {
		t.Error("animation should be cleared after completion")
	}
}

func TestViewportScrollCancelsAnimation(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollTo(Point{500, 500}, 1.0, ease.Linear)
	v.Scroll(Point{0, -1}, 0)
	if v.Scrolling() {
		t.Error("manual scroll should cancel ScrollTo")
	}
}
