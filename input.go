package stave

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// DefaultDoubleClickInterval is the longest gap between two presses
	// that still counts as a double click.
	DefaultDoubleClickInterval = 400 * time.Millisecond
	// DefaultDoubleClickDistance is the farthest (device pixels) the
	// second press may land from the first.
	DefaultDoubleClickDistance = 4.0
)

// --- Raw device events ---

// RawKind identifies a raw device event.
type RawKind uint8

const (
	RawPointerMove    RawKind = iota // cursor moved
	RawPointerPress                  // button went down
	RawPointerRelease                // button went up
	RawWheel                         // wheel turned
	RawKeyPress                      // key went down
	RawKeyRelease                    // key went up
	RawPinch                         // recognized pinch gesture step
)

// RawEvent is a device-level event in device pixel coordinates, as read
// from Ebitengine or injected by tests and scripts.
type RawEvent struct {
	Kind    RawKind
	Pos     Point // device position (pointer, wheel anchor, pinch center)
	Button  MouseButton
	Buttons MouseButtons
	Key     ebiten.Key
	Mods    KeyModifiers
	Wheel   Point   // wheel notches (RawWheel)
	Scale   float64 // incremental scale factor (RawPinch)
	At      time.Time
}

// --- Normalized events ---

// PointerEventType tags a normalized pointer event.
type PointerEventType uint8

const (
	PointerMove        PointerEventType = iota // pointer moved, with or without buttons
	PointerPress                               // button pressed
	PointerRelease                             // button released
	PointerDoubleClick                         // second press of a double click
)

// String returns the event type name.
func (t PointerEventType) String() string {
	switch t {
	case PointerMove:
		return "move"
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	case PointerDoubleClick:
		return "double_click"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer event with document-space coordinates.
type PointerEvent struct {
	Type PointerEventType
	// Pos is the pointer position in document space.
	Pos Point
	// Device is the pointer position in device pixels.
	Device Point
	// WindowPos is the document position of the window origin.
	WindowPos Point
	Button    MouseButton
	Buttons   MouseButtons
	Modifiers KeyModifiers
}

// KeyEventType tags a normalized key event.
type KeyEventType uint8

const (
	KeyPress   KeyEventType = iota // key pressed
	KeyRelease                     // key released
)

// KeyEvent is a normalized keyboard event.
type KeyEvent struct {
	Type      KeyEventType
	Key       ebiten.Key
	Modifiers KeyModifiers
}

// EventKind tags the Event union.
type EventKind uint8

const (
	EventPointer EventKind = iota // Pointer is valid
	EventKey                      // Key is valid
)

// Event is the normalized event union handed to scripted consumers.
type Event struct {
	Kind    EventKind
	Pointer PointerEvent
	Key     KeyEvent
}

// DefaultHandler is the native interaction run after the registered handler
// while auto interaction is enabled (selection, moving, resizing).
type DefaultHandler interface {
	HandlePointer(PointerEvent)
	HandleKey(KeyEvent)
}

// Input converts raw device events into normalized events and dispatches
// them. Handler slots hold one function each; registering again replaces
// the previous handler so a tool can own input exclusively.
type Input struct {
	viewport *Viewport

	pointerHandler func(PointerEvent)
	keyHandler     func(KeyEvent)
	defaults       DefaultHandler

	// DoubleClickInterval and DoubleClickDistance configure double-click
	// synthesis.
	DoubleClickInterval time.Duration
	DoubleClickDistance float64

	lastPressAt     time.Time
	lastPressPos    Point
	lastPressButton MouseButton
	pressArmed      bool

	recorder func(Event)
}

// NewInput creates a normalizer mapping through vp.
func NewInput(vp *Viewport) *Input {
	return &Input{
		viewport:            vp,
		DoubleClickInterval: DefaultDoubleClickInterval,
		DoubleClickDistance: DefaultDoubleClickDistance,
	}
}

// SetPointerHandler registers the pointer handler, replacing any previous
// one. nil unregisters.
func (in *Input) SetPointerHandler(fn func(PointerEvent)) {
	in.pointerHandler = fn
}

// SetKeyHandler registers the key handler, replacing any previous one.
// nil unregisters.
func (in *Input) SetKeyHandler(fn func(KeyEvent)) {
	in.keyHandler = fn
}

// SetDefaultHandler sets the native interaction.
func (in *Input) SetDefaultHandler(h DefaultHandler) {
	in.defaults = h
}

// SetRecorder registers an observer that sees every normalized event
// before the handlers do. Used for debug tracing.
func (in *Input) SetRecorder(fn func(Event)) {
	in.recorder = fn
}

// Process dispatches a batch of raw events in order.
func (in *Input) Process(events []RawEvent) {
	for i := range events {
		in.Dispatch(events[i])
	}
}

// Dispatch normalizes and dispatches one raw event. Returns false when the
// event was ignored (wheel or gesture with auto interaction disabled).
func (in *Input) Dispatch(ev RawEvent) bool {
	switch ev.Kind {
	case RawPinch:
		return in.gesture(ev)
	case RawWheel:
		return in.viewport.Wheel(ev.Wheel, ev.Pos, ev.Mods)
	case RawPointerMove, RawPointerPress, RawPointerRelease:
		in.pointer(ev)
		return true
	case RawKeyPress, RawKeyRelease:
		in.key(ev)
		return true
	}
	return false
}

// gesture consumes pinch steps ahead of pointer dispatch.
func (in *Input) gesture(ev RawEvent) bool {
	if !in.viewport.AutoInteraction() {
		return false
	}
	in.viewport.Pinch(ev.Scale, ev.Pos)
	return true
}

func (in *Input) pointer(ev RawEvent) {
	pe := PointerEvent{
		Pos:       in.viewport.DeviceToDocument(ev.Pos),
		Device:    ev.Pos,
		WindowPos: in.viewport.WindowDocumentPos(),
		Button:    ev.Button,
		Buttons:   ev.Buttons,
		Modifiers: ev.Mods,
	}
	switch ev.Kind {
	case RawPointerMove:
		pe.Type = PointerMove
	case RawPointerPress:
		pe.Type = PointerPress
		if in.isDoubleClick(ev) {
			pe.Type = PointerDoubleClick
			in.pressArmed = false
		} else {
			in.pressArmed = true
			in.lastPressAt = ev.At
			in.lastPressPos = ev.Pos
			in.lastPressButton = ev.Button
		}
	case RawPointerRelease:
		pe.Type = PointerRelease
	}

	if in.recorder != nil {
		in.recorder(Event{Kind: EventPointer, Pointer: pe})
	}
	if in.pointerHandler != nil {
		in.pointerHandler(pe)
	}
	if in.viewport.AutoInteraction() && in.defaults != nil {
		in.defaults.HandlePointer(pe)
	}
}

func (in *Input) isDoubleClick(ev RawEvent) bool {
	if !in.pressArmed || ev.Button != in.lastPressButton {
		return false
	}
	if ev.At.Sub(in.lastPressAt) > in.DoubleClickInterval {
		return false
	}
	dx := ev.Pos.X - in.lastPressPos.X
	dy := ev.Pos.Y - in.lastPressPos.Y
	return math.Sqrt(dx*dx+dy*dy) <= in.DoubleClickDistance
}

func (in *Input) key(ev RawEvent) {
	ke := KeyEvent{Key: ev.Key, Modifiers: ev.Mods}
	if ev.Kind == RawKeyRelease {
		ke.Type = KeyRelease
	}
	if in.recorder != nil {
		in.recorder(Event{Kind: EventKey, Key: ke})
	}
	if in.keyHandler != nil {
		in.keyHandler(ke)
	}
	if in.viewport.AutoInteraction() && in.defaults != nil {
		in.defaults.HandleKey(ke)
	}
}
