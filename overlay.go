package stave

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	selectionColor = color.RGBA{0x1e, 0x78, 0xe6, 0xff}
	statusBGColor  = color.RGBA{0, 0, 0, 128}
	scrollbarColor = color.RGBA{0x40, 0x40, 0x40, 0xa0}
)

const scrollbarThickness = 6

// drawSelection outlines the selected item and its resize handles in
// device space, so the outline width does not follow the zoom.
func (e *Editor) drawSelection(screen *ebiten.Image) {
	it := e.Surface.Selected()
	if it == nil {
		return
	}
	m := multiplyAffine(e.Viewport.ViewMatrix(), it.documentMatrix())
	strokeRect(screen, m, it.Bounds(), 1, selectionColor)
	for i := range e.Resizer.Anchors {
		h := e.Resizer.HandleRect(it, i)
		// Keep handles visible when zoomed out.
		c := h.Center()
		x, y := transformPoint(m, c.X, c.Y)
		side := float32(max(h.Width*e.Viewport.ZoomLevel(), 6))
		vector.DrawFilledRect(screen, float32(x)-side/2, float32(y)-side/2, side, side, selectionColor, false)
	}
}

func strokeRect(dst *ebiten.Image, m [6]float64, r Rect, width float32, clr color.Color) {
	corners := [4]Point{
		{r.X, r.Y}, {r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height}, {r.X, r.Y + r.Height},
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		ax, ay := transformPoint(m, a.X, a.Y)
		bx, by := transformPoint(m, b.X, b.Y)
		vector.StrokeLine(dst, float32(ax), float32(ay), float32(bx), float32(by), width, clr, true)
	}
}

// drawOverlay draws the status line and, while auto interaction is on,
// the scrollbars.
func (e *Editor) drawOverlay(screen *ebiten.Image) {
	vp := e.Viewport
	if vp.ScrollbarsVisible() {
		e.drawScrollbars(screen)
	}
	status := fmt.Sprintf("zoom %.0f%%  pages %d  items %d  FPS %.1f",
		vp.ZoomLevel()*100, e.Document.Len(), e.Surface.Count(), ebiten.ActualFPS())
	if !vp.AutoInteraction() {
		status += "  [manual]"
	}
	vector.DrawFilledRect(screen, 0, 0, float32(vp.Width), 16, statusBGColor, false)
	ebitenutil.DebugPrintAt(screen, status, 4, 0)
}

// drawScrollbars draws proportional thumbs for the visible part of the
// document along each axis.
func (e *Editor) drawScrollbars(screen *ebiten.Image) {
	doc := e.Document.Bounds()
	if doc.Width <= 0 || doc.Height <= 0 {
		return
	}
	vis := e.Viewport.VisibleBounds()
	w, h := e.Viewport.Width, e.Viewport.Height
	if start, length, ok := scrollThumb(doc.X, doc.Width, vis.X, vis.Width, w); ok {
		vector.DrawFilledRect(screen, float32(start), float32(h-scrollbarThickness),
			float32(length), scrollbarThickness, scrollbarColor, false)
	}
	if start, length, ok := scrollThumb(doc.Y, doc.Height, vis.Y, vis.Height, h); ok {
		vector.DrawFilledRect(screen, float32(w-scrollbarThickness), float32(start),
			scrollbarThickness, float32(length), scrollbarColor, false)
	}
}

// scrollThumb maps the visible span [visPos, visPos+visLen] against the
// union of it and the document span onto a track of trackLen pixels.
// Reports false when everything is visible.
func scrollThumb(docPos, docLen, visPos, visLen, trackLen float64) (start, length float64, ok bool) {
	lo := min(docPos, visPos)
	hi := max(docPos+docLen, visPos+visLen)
	total := hi - lo
	if total <= visLen || total <= 0 {
		return 0, 0, false
	}
	start = (visPos - lo) / total * trackLen
	length = visLen / total * trackLen
	return start, length, true
}
