package montage

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// placementTransform computes the layer's rotation+translation frame,
// without the scale term. The hit tester inverts exactly this matrix to
// move pointer positions into scaled-local space (scale stays baked into
// the extents there), so placement math can never diverge between the
// paint and hit-test paths.
func placementTransform(bag PropertyBag) [6]float64 {
	sin, cos := math.Sincos(degToRad(bag.Rotation))
	return [6]float64{cos, sin, -sin, cos, bag.X, bag.Y}
}

// layerTransform computes the layer's full local coordinate frame from a
// resolved property bag. Returns [a, b, c, d, tx, ty].
//
// Composition order: Scale (uniform) -> Rotate (degrees) -> Translate(X, Y).
// Content is drawn centered on the local origin, so the frame carries no
// pivot term; callers offset content by (-w/2, -h/2) in local space.
// Frames never accumulate across layers — each layer's frame is derived
// solely from its own resolved properties.
func layerTransform(bag PropertyBag) [6]float64 {
	s := bag.Scale
	return multiplyAffine(placementTransform(bag), [6]float64{s, 0, 0, s, 0, 0})
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
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
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

// rotationHandleOffset is the gap in canvas pixels between a layer's top
// edge and its rotation handle. Stored in local space as offset/scale so
// the on-screen gap stays constant.
const rotationHandleOffset = 24.0

// layerCorners returns the layer's bounding-box corners in canvas space,
// in the order top-left, top-right, bottom-right, bottom-left.
func layerCorners(bag PropertyBag, width, height float64) [4]Vec2 {
	m := layerTransform(bag)
	hw := width / 2
	hh := height / 2
	var out [4]Vec2
	out[0].X, out[0].Y = transformPoint(m, -hw, -hh)
	out[1].X, out[1].Y = transformPoint(m, hw, -hh)
	out[2].X, out[2].Y = transformPoint(m, hw, hh)
	out[3].X, out[3].Y = transformPoint(m, -hw, hh)
	return out
}

// rotationHandlePos returns the canvas-space position of the rotation
// handle, offset above the midpoint of the layer's top edge.
func rotationHandlePos(bag PropertyBag, height float64) Vec2 {
	m := layerTransform(bag)
	scale := bag.Scale
	if scale <= 0 {
		scale = 1
	}
	x, y := transformPoint(m, 0, -height/2-rotationHandleOffset/scale)
	return Vec2{X: x, Y: y}
}
