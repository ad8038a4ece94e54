package stave

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// Transform is a node's resolved placement in document space.
type Transform struct {
	// Pos is the node's local position mapped through its parent chain.
	Pos Point
	// Scale is the product of every scale factor from the root down.
	Scale float64
	// Rotation is the sum of every rotation from the root down, in degrees.
	Rotation float64
	// Matrix maps the node's local coordinates to document coordinates.
	Matrix [6]float64
}

// identity returns the transform of the document itself.
func identity() Transform {
	return Transform{Scale: 1, Matrix: identityTransform}
}

// sincosDeg returns sin and cos of an angle in degrees. Quarter turns are
// exact so axis-aligned layouts do not pick up rounding noise.
func sincosDeg(deg float64) (sin, cos float64) {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	switch r {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(r * math.Pi / 180)
}

// localMatrix computes the local affine matrix of a node. Returns
// [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(pos) -> Translate(origin) -> Rotate -> Scale -> Translate(-origin)
func localMatrix(pos, origin Point, scale, rotation float64) [6]float64 {
	sin, cos := sincosDeg(rotation)
	a := scale * cos
	b := scale * sin
	c := -scale * sin
	d := scale * cos
	tx := pos.X + origin.X - (a*origin.X + c*origin.Y)
	ty := pos.Y + origin.Y - (b*origin.X + d*origin.Y)
	return [6]float64{a, b, c, d, tx, ty}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translateMatrix(x, y float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, x, y}
}

func scaleMatrix(s float64) [6]float64 {
	return [6]float64{s, 0, 0, s, 0, 0}
}

// compose applies a node's local placement on top of its parent's resolved
// transform.
func compose(parent Transform, pos, origin Point, scale, rotation float64) Transform {
	px, py := transformPoint(parent.Matrix, pos.X, pos.Y)
	return Transform{
		Pos:      Point{px, py},
		Scale:    parent.Scale * scale,
		Rotation: parent.Rotation + rotation,
		Matrix:   multiplyAffine(parent.Matrix, localMatrix(pos, origin, scale, rotation)),
	}
}

// Resolve computes the node's absolute position, cumulative scale and
// cumulative rotation by walking the parent chain. A node without a parent
// resolves against the identity transform. Nothing is cached; the result
// only depends on the (immutable) chain.
func (n *Node) Resolve() Transform {
	var chain [16]*Node
	nodes := chain[:0]
	for p := n; p != nil; p = p.parent {
		nodes = append(nodes, p)
	}
	t := identity()
	for i := len(nodes) - 1; i >= 0; i-- {
		c := nodes[i]
		t = compose(t, c.pos, c.origin, c.scale, c.rotation)
	}
	return t
}

// LocalToDocument converts a point in this node's local space to document space.
func (n *Node) LocalToDocument(p Point) Point {
	x, y := transformPoint(n.Resolve().Matrix, p.X, p.Y)
	return Point{x, y}
}

// DocumentToLocal converts a document-space point to this node's local space.
func (n *Node) DocumentToLocal(p Point) Point {
	x, y := transformPoint(invertAffine(n.Resolve().Matrix), p.X, p.Y)
	return Point{x, y}
}
