package stave

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Injected events use device coordinates (what a screenshot shows) and go
// through the same normalization as real input. One event is consumed per
// frame; while the queue is non-empty real input is skipped.

// InjectPress queues a left-button press at the given device position.
func (e *Editor) InjectPress(x, y float64) {
	e.inject(RawEvent{
		Kind: RawPointerPress, Pos: Point{x, y},
		Button: MouseButtonLeft, Buttons: buttonMask(MouseButtonLeft),
	})
}

// InjectMove queues a pointer move with the left button held. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (e *Editor) InjectMove(x, y float64) {
	e.inject(RawEvent{
		Kind: RawPointerMove, Pos: Point{x, y},
		Buttons: buttonMask(MouseButtonLeft),
	})
}

// InjectHover queues a pointer move with no button held.
func (e *Editor) InjectHover(x, y float64) {
	e.inject(RawEvent{Kind: RawPointerMove, Pos: Point{x, y}})
}

// InjectRelease queues a left-button release.
func (e *Editor) InjectRelease(x, y float64) {
	e.inject(RawEvent{Kind: RawPointerRelease, Pos: Point{x, y}, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same position.
// Consumes two frames.
func (e *Editor) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves, and release at (toX, toY). Minimum frames is 2.
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event of (dx, dy) notches at a device position.
func (e *Editor) InjectWheel(x, y, dx, dy float64, mods KeyModifiers) {
	e.inject(RawEvent{Kind: RawWheel, Pos: Point{x, y}, Wheel: Point{dx, dy}, Mods: mods})
}

// InjectKey queues a key press and release. Consumes two frames.
func (e *Editor) InjectKey(k ebiten.Key, mods KeyModifiers) {
	e.inject(RawEvent{Kind: RawKeyPress, Key: k, Mods: mods})
	e.inject(RawEvent{Kind: RawKeyRelease, Key: k, Mods: mods})
}

// InjectPinch queues one pinch step of the given incremental scale about a
// device position.
func (e *Editor) InjectPinch(x, y, scale float64) {
	e.inject(RawEvent{Kind: RawPinch, Pos: Point{x, y}, Scale: scale})
}

func (e *Editor) inject(ev RawEvent) {
	e.injectQueue = append(e.injectQueue, ev)
}

// Injecting reports whether injected events are still queued.
func (e *Editor) Injecting() bool { return len(e.injectQueue) > 0 }

// processInjected pops one event from the queue, stamps it with now and
// dispatches it. Returns true if an event was consumed.
func (e *Editor) processInjected(now time.Time) bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	ev.At = now
	e.Input.Dispatch(ev)
	return true
}
