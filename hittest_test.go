package montage

import "testing"

func hitScene(layers ...*Layer) *Scene {
	s := NewScene(800, 600, 30, 10)
	for _, l := range layers {
		l.Duration = 10
		s.AddLayer(l)
	}
	return s
}

func TestHitTestCenter(t *testing.T) {
	l := NewShapeLayer("box", ShapeRectangle)
	l.X, l.Y = 300, 200
	s := hitScene(l)

	if got := HitTest(s, Vec2{X: 300, Y: 200}, 0); got != l {
		t.Errorf("center miss: got %v", got)
	}
	if got := HitTest(s, Vec2{X: 500, Y: 500}, 0); got != nil {
		t.Errorf("far point hit %q", got.Name)
	}
}

func TestHitTestEdgeInclusive(t *testing.T) {
	l := NewShapeLayer("box", ShapeRectangle) // 100x100 at origin
	l.X, l.Y = 100, 100
	s := hitScene(l)

	if HitTest(s, Vec2{X: 150, Y: 100}, 0) != l {
		t.Error("point on the edge should hit")
	}
	if HitTest(s, Vec2{X: 150.01, Y: 100}, 0) != nil {
		t.Error("point just outside the edge should miss")
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	bottom := NewShapeLayer("bottom", ShapeRectangle)
	middle := NewShapeLayer("middle", ShapeRectangle)
	top := NewShapeLayer("top", ShapeRectangle)
	for _, l := range []*Layer{bottom, middle, top} {
		l.X, l.Y = 200, 200
	}
	s := hitScene(bottom, middle, top)

	if got := HitTest(s, Vec2{X: 200, Y: 200}, 0); got != top {
		t.Errorf("got %q, want topmost", got.Name)
	}
}

func TestHitTestSkipsLockedAndInactive(t *testing.T) {
	under := NewShapeLayer("under", ShapeRectangle)
	locked := NewShapeLayer("locked", ShapeRectangle)
	locked.Locked = true
	gone := NewShapeLayer("gone", ShapeRectangle)
	for _, l := range []*Layer{under, locked, gone} {
		l.X, l.Y = 200, 200
	}
	s := hitScene(under, locked, gone)
	gone.StartTime = 8 // inactive at t=0 despite hitScene's duration

	if got := HitTest(s, Vec2{X: 200, Y: 200}, 0); got != under {
		t.Errorf("got %q, want the unlocked active layer", got.Name)
	}
}

func TestHitTestScaledExtents(t *testing.T) {
	l := NewShapeLayer("big", ShapeRectangle) // 100x100
	l.X, l.Y = 300, 300
	l.Scale = 2
	s := hitScene(l)

	// At scale 2 the on-screen half extent is 100, not 50.
	if HitTest(s, Vec2{X: 380, Y: 300}, 0) != l {
		t.Error("point inside the scaled box missed")
	}
	if HitTest(s, Vec2{X: 410, Y: 300}, 0) != nil {
		t.Error("point outside the scaled box hit")
	}
}

func TestHitTestRotated(t *testing.T) {
	l := NewShapeLayer("bar", ShapeRectangle)
	l.Width, l.Height = 200, 50
	l.X, l.Y = 200, 200
	l.Rotation = 90
	s := hitScene(l)

	// Rotated 90° the long axis is vertical: a point 80px below the center
	// is inside, a point 80px to the right is not.
	if HitTest(s, Vec2{X: 200, Y: 280}, 0) != l {
		t.Error("point on the rotated long axis missed")
	}
	if HitTest(s, Vec2{X: 280, Y: 200}, 0) != nil {
		t.Error("point on the unrotated long axis hit")
	}
}

func TestHitTestUsesKeyframedTransform(t *testing.T) {
	l := NewShapeLayer("mover", ShapeRectangle)
	l.X, l.Y = 100, 100
	l.AddKeyframe(Keyframe{Time: 0, Props: PropertySet{X: Float(100)}})
	l.AddKeyframe(Keyframe{Time: 4, Props: PropertySet{X: Float(500)}})
	s := hitScene(l)

	// At t=2 the layer sits at x=300, not its base x=100.
	if HitTest(s, Vec2{X: 300, Y: 100}, 2) != l {
		t.Error("animated position missed")
	}
	if HitTest(s, Vec2{X: 100, Y: 100}, 2) != nil {
		t.Error("base position hit while animated away")
	}
}

func TestHandleAtCorners(t *testing.T) {
	l := NewShapeLayer("sel", ShapeRectangle) // 100x100
	l.X, l.Y = 300, 300
	s := hitScene(l)
	s.Select(l.ID)

	cases := []struct {
		name string
		p    Vec2
		want Handle
	}{
		{"top-left", Vec2{X: 250, Y: 250}, HandleTopLeft},
		{"top-right", Vec2{X: 350, Y: 250}, HandleTopRight},
		{"bottom-right", Vec2{X: 350, Y: 350}, HandleBottomRight},
		{"bottom-left", Vec2{X: 250, Y: 350}, HandleBottomLeft},
		{"rotate", Vec2{X: 300, Y: 300 - 50 - rotationHandleOffset}, HandleRotate},
		{"center", Vec2{X: 300, Y: 300}, HandleNone},
		{"near corner within radius", Vec2{X: 256, Y: 250}, HandleTopLeft},
		{"past radius", Vec2{X: 265, Y: 250}, HandleNone},
	}
	for _, c := range cases {
		if got := HandleAt(s, c.p, 0); got != c.want {
			t.Errorf("%s: HandleAt = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestHandleAtRequiresSelection(t *testing.T) {
	l := NewShapeLayer("sel", ShapeRectangle)
	l.X, l.Y = 300, 300
	s := hitScene(l)

	if got := HandleAt(s, Vec2{X: 250, Y: 250}, 0); got != HandleNone {
		t.Errorf("no selection: got %v", got)
	}
}

func TestHandleAtRequiresSelectTool(t *testing.T) {
	l := NewShapeLayer("sel", ShapeRectangle)
	l.X, l.Y = 300, 300
	s := hitScene(l)
	s.Select(l.ID)
	s.SetTool(ToolPan)

	if got := HandleAt(s, Vec2{X: 250, Y: 250}, 0); got != HandleNone {
		t.Errorf("pan tool: got %v", got)
	}
}

func TestHitTestAndCornersAgree(t *testing.T) {
	// The decoration corners must be hittable: a point exactly on a corner
	// returned by layerCorners must be inside the layer's hit box.
	l := NewShapeLayer("agree", ShapeRectangle)
	l.X, l.Y = 240, 180
	l.Scale = 1.5
	l.Rotation = 30
	s := hitScene(l)

	bag := ResolveProperties(l, 0)
	for i, c := range layerCorners(bag, l.Width, l.Height) {
		// Nudge toward the center so floating point cannot land just outside.
		p := Vec2{X: c.X + (bag.X-c.X)*1e-6, Y: c.Y + (bag.Y-c.Y)*1e-6}
		if HitTest(s, p, 0) != l {
			t.Errorf("corner %d at %+v not hittable", i, c)
		}
	}
}
