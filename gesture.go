package stave

import (
	"math"
	"time"
)

// touchPoint is one active touch in device pixels.
type touchPoint struct {
	id   int
	x, y float64
}

// pinchRecognizer turns two-finger touch motion into incremental pinch
// steps. A step's Scale is the distance ratio to the previous frame, so
// applying every step in order yields the overall pinch scale.
type pinchRecognizer struct {
	active   bool
	id0, id1 int
	prevDist float64
}

// update consumes the current touches and reports a pinch step when two
// touches are down and were already down on the previous frame.
func (r *pinchRecognizer) update(touches []touchPoint, mods KeyModifiers, now time.Time) (RawEvent, bool) {
	if len(touches) != 2 {
		r.active = false
		return RawEvent{}, false
	}
	p0, p1 := touches[0], touches[1]
	if p0.id > p1.id {
		p0, p1 = p1, p0
	}
	dx := p1.x - p0.x
	dy := p1.y - p0.y
	dist := math.Sqrt(dx*dx + dy*dy)

	if !r.active || r.id0 != p0.id || r.id1 != p1.id {
		// Start pinch.
		r.active = true
		r.id0, r.id1 = p0.id, p1.id
		r.prevDist = dist
		return RawEvent{}, false
	}
	if r.prevDist <= 0 || dist == r.prevDist {
		r.prevDist = dist
		return RawEvent{}, false
	}
	ev := RawEvent{
		Kind:  RawPinch,
		Pos:   Point{(p0.x + p1.x) / 2, (p0.y + p1.y) / 2},
		Scale: dist / r.prevDist,
		Mods:  mods,
		At:    now,
	}
	r.prevDist = dist
	return ev, true
}
