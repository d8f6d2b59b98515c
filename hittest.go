package montage

import "math"

// handleHitRadius is the pointer tolerance in canvas pixels for grabbing a
// selection handle.
const handleHitRadius = 10.0

// HitTest maps a canvas-space pointer position to the topmost interactable
// layer at time t, or nil when the point hits nothing. Locked layers still
// render but are skipped here.
//
// The transform math mirrors the compositor exactly: the point is moved
// into layer-local space by inverse-translating and inverse-rotating, and
// compared against the bounding-box half-extents pre-multiplied by the
// resolved scale. Scale is deliberately not inverted out of the point —
// scaling the extents instead keeps the comparison identical to what is
// painted. Any divergence between the two paths is a correctness bug.
func HitTest(s *Scene, point Vec2, t float64) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.activeLayersLocked(t)
	// Reverse composite order: the last-drawn layer is topmost and wins.
	for i := len(active) - 1; i >= 0; i-- {
		l := active[i]
		if l.Locked {
			continue
		}
		bag := ResolveProperties(l, t)
		lx, ly := toScaledLocal(point, bag)
		hw := l.Width * bag.Scale / 2
		hh := l.Height * bag.Scale / 2
		if lx >= -hw && lx <= hw && ly >= -hh && ly <= hh {
			return l
		}
	}
	return nil
}

// HandleAt reports which selection handle of the selected layer lies under
// the pointer at time t. Returns HandleNone when no layer is selected, the
// select tool is not active, the layer is inactive or locked, or the point
// misses every handle. Callers check handles before HitTest so grabbing a
// handle wins over re-selecting.
func HandleAt(s *Scene, point Vec2, t float64) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tool != ToolSelect || s.selectedLayerID == "" {
		return HandleNone
	}
	l := s.layerByIDLocked(s.selectedLayerID)
	if l == nil || l.Locked || !l.ActiveAt(t) {
		return HandleNone
	}

	bag := ResolveProperties(l, t)
	lx, ly := toScaledLocal(point, bag)
	hw := l.Width * bag.Scale / 2
	hh := l.Height * bag.Scale / 2

	corners := [...]struct {
		h    Handle
		x, y float64
	}{
		{HandleTopLeft, -hw, -hh},
		{HandleTopRight, hw, -hh},
		{HandleBottomRight, hw, hh},
		{HandleBottomLeft, -hw, hh},
		{HandleRotate, 0, -hh - rotationHandleOffset},
	}
	for _, c := range corners {
		dx := lx - c.x
		dy := ly - c.y
		if math.Sqrt(dx*dx+dy*dy) <= handleHitRadius {
			return c.h
		}
	}
	return HandleNone
}

// toScaledLocal moves a canvas-space point into a layer's scaled local
// space by inverting the layer's placement frame (rotation+translation).
// Scale stays baked in: the extents are pre-multiplied by it instead, so
// the comparison matches what the compositor paints.
func toScaledLocal(point Vec2, bag PropertyBag) (float64, float64) {
	inv := invertAffine(placementTransform(bag))
	return transformPoint(inv, point.X, point.Y)
}
