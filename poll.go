package stave

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

var pollButtons = [...]struct {
	native ebiten.MouseButton
	button MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// poller reads Ebitengine's per-frame input state into raw events.
type poller struct {
	lastX, lastY int
	seen         bool
	held         MouseButtons

	pinch    pinchRecognizer
	touchIDs []ebiten.TouchID
	touches  []touchPoint
	keys     []ebiten.Key
	events   []RawEvent
}

// poll returns the raw events for this frame. The returned slice is reused
// on the next call.
func (p *poller) poll(now time.Time) []RawEvent {
	p.events = p.events[:0]
	mods := readModifiers()

	mx, my := ebiten.CursorPosition()
	pos := Point{float64(mx), float64(my)}
	if !p.seen || mx != p.lastX || my != p.lastY {
		p.seen = true
		p.lastX, p.lastY = mx, my
		p.events = append(p.events, RawEvent{
			Kind: RawPointerMove, Pos: pos, Buttons: p.held, Mods: mods, At: now,
		})
	}

	for _, b := range pollButtons {
		if inpututil.IsMouseButtonJustPressed(b.native) {
			p.held |= buttonMask(b.button)
			p.events = append(p.events, RawEvent{
				Kind: RawPointerPress, Pos: pos, Button: b.button, Buttons: p.held, Mods: mods, At: now,
			})
		}
		if inpututil.IsMouseButtonJustReleased(b.native) {
			p.held &^= buttonMask(b.button)
			p.events = append(p.events, RawEvent{
				Kind: RawPointerRelease, Pos: pos, Button: b.button, Buttons: p.held, Mods: mods, At: now,
			})
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		p.events = append(p.events, RawEvent{
			Kind: RawWheel, Pos: pos, Wheel: Point{wx, wy}, Mods: mods, At: now,
		})
	}

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.events = append(p.events, RawEvent{Kind: RawKeyPress, Key: k, Mods: mods, At: now})
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.events = append(p.events, RawEvent{Kind: RawKeyRelease, Key: k, Mods: mods, At: now})
	}

	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	p.touches = p.touches[:0]
	for _, id := range p.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		p.touches = append(p.touches, touchPoint{id: int(id), x: float64(tx), y: float64(ty)})
	}
	if ev, ok := p.pinch.update(p.touches, mods, now); ok {
		// Gestures are dispatched ahead of pointer events.
		p.events = append([]RawEvent{ev}, p.events...)
	}
	return p.events
}
