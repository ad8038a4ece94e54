package stave

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrAlreadyRendered is returned when Render is called on a node that
// already owns a renderer-side item.
var ErrAlreadyRendered = errors.New("stave: node already rendered")

// Node is an immutable positioned primitive. Its placement is relative to
// its parent, or absolute document coordinates when it has none. The only
// state that changes after construction is the write-once renderer handle.
type Node struct {
	name     string
	pos      Point
	parent   *Node
	scale    float64
	rotation float64
	origin   Point
	drawer   Drawer
	fixed    bool

	handle *Item
}

// NodeOption configures optional Node fields at construction.
type NodeOption func(*Node)

// WithScale sets the scale factor about the transform origin. 1 is no scaling.
func WithScale(s float64) NodeOption {
	return func(n *Node) { n.scale = s }
}

// WithRotation sets the rotation in degrees (clockwise, Y down) about the
// transform origin.
func WithRotation(deg float64) NodeOption {
	return func(n *Node) { n.rotation = deg }
}

// WithOrigin sets the transform origin in local coordinates.
func WithOrigin(p Point) NodeOption {
	return func(n *Node) { n.origin = p }
}

// Fixed marks the node's item as neither selectable nor movable.
// Used for page backgrounds and other chrome.
func Fixed() NodeOption {
	return func(n *Node) { n.fixed = true }
}

// NewNode creates a node. parent may be nil; when set it must be rendered
// before this node. A node can only be given a parent here, so parent
// chains are acyclic by construction.
func NewNode(name string, pos Point, parent *Node, drawer Drawer, opts ...NodeOption) *Node {
	n := &Node{
		name:   name,
		pos:    pos,
		parent: parent,
		scale:  1,
		drawer: drawer,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Name returns the node's diagnostic name.
func (n *Node) Name() string { return n.name }

// Pos returns the local position.
func (n *Node) Pos() Point { return n.pos }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Scale returns the local scale factor.
func (n *Node) Scale() float64 { return n.scale }

// Rotation returns the local rotation in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// TransformOrigin returns the local transform origin.
func (n *Node) TransformOrigin() Point { return n.origin }

// Drawer returns the node's content drawer.
func (n *Node) Drawer() Drawer { return n.drawer }

// Handle returns the renderer-side item, or nil before Render.
func (n *Node) Handle() *Item { return n.handle }

// Rendered reports whether Render has completed for this node.
func (n *Node) Rendered() bool { return n.handle != nil }

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("Node(%q pos=(%g,%g) scale=%g rot=%g)", n.name, n.pos.X, n.pos.Y, n.scale, n.rotation)
}

// parentHandle resolves the parent's item. A parent that has not been
// rendered yet yields nil and a warning.
func (n *Node) parentHandle(log *slog.Logger) *Item {
	if n.parent == nil {
		return nil
	}
	if n.parent.handle == nil {
		log.Warn("parent node not rendered; attaching at surface root",
			"node", n.name, "parent", n.parent.name)
	}
	return n.parent.handle
}

// Render creates the renderer-side item for the node and attaches it: as a
// child of the parent's item when available, otherwise at the top level of
// s. Panics if the node has no Drawer. Returns ErrAlreadyRendered if the
// node was rendered before; the whole-surface Clear followed by a fresh
// render pass is the supported way to redraw.
func (n *Node) Render(s *Surface) error {
	return n.RenderWithLogger(s, nil)
}

// RenderWithLogger is Render with an explicit diagnostics logger.
// A nil logger uses slog.Default().
func (n *Node) RenderWithLogger(s *Surface, log *slog.Logger) error {
	if n.drawer == nil {
		panic(fmt.Sprintf("stave: render not implemented for node %q", n.name))
	}
	if n.handle != nil {
		return fmt.Errorf("render %q: %w", n.name, ErrAlreadyRendered)
	}
	if log == nil {
		log = slog.Default()
	}
	if globalDebug {
		debugCheckTreeDepth(n, log)
	}

	parent := n.parentHandle(log)
	var item *Item
	if parent != nil {
		item = newItem(n.name, localMatrix(n.pos, n.origin, n.scale, n.rotation), n.drawer)
		parent.AddChild(item)
	} else {
		// Unparented (or orphaned) items are placed in document space, so
		// they carry the node's fully resolved transform.
		item = newItem(n.name, n.Resolve().Matrix, n.drawer)
		s.AddTopLevel(item)
	}
	if n.fixed {
		item.Selectable = false
		item.Movable = false
	}
	n.handle = item
	return nil
}
