package montage

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// minScale is the floor applied to resize gestures. It prevents degenerate
// or inverted geometry when the pointer crosses the anchor.
const minScale = 0.1

// Gestures is the interaction controller: a small state machine
// (idle -> dragging/resizing/rotating -> idle, re-entrant only from idle)
// that edits a layer's base transform from pointer deltas.
//
// Every update is computed from the snapshot captured at Begin, never
// incrementally, so repeated rounding cannot drift the result. Gestures
// edit the base transform only — keyframes are added by explicit user
// action, never implicitly. The final transform is committed to the
// persistence collaborator exactly once, at End; intermediate updates are
// visual-only.
type Gestures struct {
	scene   *Scene
	persist Persistence

	mode  GestureKind
	layer *Layer

	anchorPointer Vec2

	// Drag anchor
	anchorX, anchorY float64

	// Resize anchor
	anchorW, anchorH, anchorScale float64

	// Rotate anchor
	anchorRotation float64
	anchorAngle    float64 // pointer angle at Begin, degrees
}

// NewGestures creates an interaction controller bound to a scene. persist
// receives the committed transform at the end of each gesture; nil gets
// the no-op collaborator.
func NewGestures(scene *Scene, persist Persistence) *Gestures {
	if persist == nil {
		persist = NopPersistence{}
	}
	return &Gestures{scene: scene, persist: persist}
}

// Active reports whether a gesture is in progress.
func (g *Gestures) Active() bool {
	return g.mode != GestureNone
}

// Kind returns the kind of the gesture in progress, or GestureNone.
func (g *Gestures) Kind() GestureKind {
	return g.mode
}

// Begin starts a gesture on the given layer, capturing the anchor snapshot.
// Beginning while another gesture is active, on a nil layer, or on a locked
// layer is a caller sequencing error: it is ignored rather than allowed to
// corrupt the captured state.
func (g *Gestures) Begin(kind GestureKind, layer *Layer, pointer Vec2) {
	if g.mode != GestureNone {
		log.WithField("kind", kind).Warn("gesture begin while another gesture active, ignored")
		return
	}
	if kind == GestureNone {
		log.Warn("gesture begin with no kind, ignored")
		return
	}
	if layer == nil || layer.Locked {
		return
	}

	g.scene.mu.Lock()
	defer g.scene.mu.Unlock()

	g.mode = kind
	g.layer = layer
	g.anchorPointer = pointer

	switch kind {
	case GestureDrag:
		g.anchorX = layer.X
		g.anchorY = layer.Y
	case GestureResize:
		g.anchorW = layer.Width
		g.anchorH = layer.Height
		g.anchorScale = layer.Scale
	case GestureRotate:
		g.anchorRotation = layer.Rotation
		g.anchorAngle = pointerAngle(layer.X, layer.Y, pointer)
	}
}

// Update applies the pointer's total delta from the anchor to the layer's
// base transform. An update with no active gesture is a no-op.
func (g *Gestures) Update(pointer Vec2) {
	if g.mode == GestureNone {
		log.Debug("gesture update with no active gesture, ignored")
		return
	}

	g.scene.mu.Lock()

	l := g.layer
	switch g.mode {
	case GestureDrag:
		l.X = g.anchorX + (pointer.X - g.anchorPointer.X)
		l.Y = g.anchorY + (pointer.Y - g.anchorPointer.Y)
	case GestureResize:
		w := g.anchorW + (pointer.X - g.anchorPointer.X)
		h := g.anchorH + (pointer.Y - g.anchorPointer.Y)
		scale := math.Min(w/g.anchorW, h/g.anchorH) * g.anchorScale
		if scale < minScale {
			scale = minScale
		}
		l.Scale = scale
	case GestureRotate:
		angle := pointerAngle(l.X, l.Y, pointer)
		l.Rotation = normalizeDegrees(g.anchorRotation + (angle - g.anchorAngle))
	}
	g.scene.dirty = true

	g.scene.mu.Unlock()
}

// End finishes the gesture, commits the final transform once, and returns
// to idle. Ending with no active gesture is a no-op.
func (g *Gestures) End() {
	if g.mode == GestureNone {
		log.Debug("gesture end with no active gesture, ignored")
		return
	}
	layer := g.layer
	g.mode = GestureNone
	g.layer = nil
	g.persist.CommitTransform(layer)
}

// pointerAngle returns the angle of the pointer relative to (x, y), in
// degrees.
func pointerAngle(x, y float64, pointer Vec2) float64 {
	return math.Atan2(pointer.Y-y, pointer.X-x) * 180 / math.Pi
}
