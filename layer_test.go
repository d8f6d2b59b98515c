package montage

import "testing"

func TestLayerConstructorDefaults(t *testing.T) {
	l := NewTextLayer("title", "Hello")
	if l.ID == "" {
		t.Fatal("layer ID not assigned")
	}
	assertNear(t, "scale", l.Scale, 1)
	assertNear(t, "opacity", l.Opacity, 1)
	assertNear(t, "width", l.Width, defaultLayerSize)
	assertNear(t, "height", l.Height, defaultLayerSize)
	assertNear(t, "duration", l.Duration, 5)
	if !l.Visible {
		t.Error("new layer should be visible")
	}
	if l.Kind != LayerText || l.Text != "Hello" {
		t.Errorf("payload = %v %q", l.Kind, l.Text)
	}
	assertNear(t, "font size", l.FontSize, 32)
}

func TestLayerIDsAreUnique(t *testing.T) {
	a := NewShapeLayer("a", ShapeCircle)
	b := NewShapeLayer("b", ShapeCircle)
	if a.ID == b.ID {
		t.Errorf("two layers share ID %q", a.ID)
	}
}

func TestActiveAtWindow(t *testing.T) {
	l := NewShapeLayer("w", ShapeRectangle)
	l.StartTime = 2
	l.Duration = 3

	cases := []struct {
		t    float64
		want bool
	}{
		{0, false},
		{1.999, false},
		{2, true}, // start is inclusive
		{4.999, true},
		{5, false}, // end is exclusive
		{6, false},
	}
	for _, c := range cases {
		if got := l.ActiveAt(c.t); got != c.want {
			t.Errorf("ActiveAt(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestActiveAtRespectsVisible(t *testing.T) {
	l := NewShapeLayer("v", ShapeRectangle)
	l.Visible = false
	if l.ActiveAt(1) {
		t.Error("invisible layer reported active")
	}
}

func TestAddKeyframeKeepsSorted(t *testing.T) {
	l := NewShapeLayer("s", ShapeRectangle)
	l.AddKeyframe(Keyframe{Time: 3})
	l.AddKeyframe(Keyframe{Time: 1})
	l.AddKeyframe(Keyframe{Time: 2})

	kfs := l.Keyframes()
	if len(kfs) != 3 {
		t.Fatalf("len = %d, want 3", len(kfs))
	}
	for i, want := range []float64{1, 2, 3} {
		assertNear(t, "time", kfs[i].Time, want)
	}
}

func TestAddKeyframeSameTimeReplaces(t *testing.T) {
	l := NewShapeLayer("r", ShapeRectangle)
	l.AddKeyframe(Keyframe{Time: 2, Props: PropertySet{X: Float(10)}})
	l.AddKeyframe(Keyframe{Time: 2, Props: PropertySet{X: Float(99)}})

	if l.KeyframeCount() != 1 {
		t.Fatalf("count = %d, want 1", l.KeyframeCount())
	}
	assertNear(t, "replaced x", *l.Keyframes()[0].Props.X, 99)
}

func TestRemoveKeyframe(t *testing.T) {
	l := NewShapeLayer("d", ShapeRectangle)
	l.AddKeyframe(Keyframe{Time: 1})
	l.AddKeyframe(Keyframe{Time: 2})

	if !l.RemoveKeyframe(1) {
		t.Error("existing keyframe not removed")
	}
	if l.RemoveKeyframe(7) {
		t.Error("removing a missing keyframe reported true")
	}
	if l.KeyframeCount() != 1 {
		t.Errorf("count = %d, want 1", l.KeyframeCount())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := NewShapeLayer("orig", ShapeRectangle)
	l.X = 42
	l.AddKeyframe(Keyframe{Time: 1, Props: PropertySet{X: Float(5)}})

	dup := l.Clone()
	if dup.ID == l.ID {
		t.Error("clone kept the original ID")
	}
	assertNear(t, "x copied", dup.X, 42)

	dup.AddKeyframe(Keyframe{Time: 2})
	if l.KeyframeCount() != 1 {
		t.Errorf("mutating the clone changed the original: count = %d", l.KeyframeCount())
	}
}
