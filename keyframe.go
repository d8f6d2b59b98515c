package montage

import "github.com/tanema/gween/ease"

// PropertySet is a partial transform snapshot stored on a keyframe.
// A nil field means the keyframe does not define that property and the
// interpolator falls through to neighboring keyframes or the layer's base
// transform.
type PropertySet struct {
	X        *float64
	Y        *float64
	Scale    *float64
	Rotation *float64
	Opacity  *float64
}

// Float returns a pointer to v, for building PropertySet literals.
func Float(v float64) *float64 {
	return &v
}

// PropertyBag is a fully resolved layer transform at a specific time.
// Both the compositor and the hit tester consume the same bag — the two
// must never diverge.
type PropertyBag struct {
	X        float64
	Y        float64
	Scale    float64
	Rotation float64 // degrees, [0, 360) as stored on the layer
	Opacity  float64
}

// Keyframe is a timestamped partial transform. Ease shapes the
// interpolation fraction of the segment leaving this keyframe; nil means
// linear, which is the stored default.
type Keyframe struct {
	Time  float64
	Props PropertySet
	Ease  ease.TweenFunc
}

// ResolveProperties computes the layer's effective transform at time t by
// merging keyframe values property-by-property over the base transform.
//
// With no keyframes the base transform is returned unchanged. Query times
// at or outside the keyframe range clamp to the boundary keyframe — no
// extrapolation. Between two keyframes each property interpolates linearly
// when both define it, holds when only one does, and falls back to the
// base transform when neither does. Rotation interpolates linearly in
// degrees with no shortest-path wraparound across the 0/360 seam.
//
// The function is total: any t is accepted and no hidden state is read.
func ResolveProperties(l *Layer, t float64) PropertyBag {
	bag := PropertyBag{
		X:        l.X,
		Y:        l.Y,
		Scale:    l.Scale,
		Rotation: l.Rotation,
		Opacity:  l.Opacity,
	}

	kfs := l.keyframes
	if len(kfs) == 0 {
		return bag
	}
	if t <= kfs[0].Time {
		applyProps(&bag, kfs[0].Props)
		return bag
	}
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		applyProps(&bag, last.Props)
		return bag
	}

	// Bracketing pair: k0 has the largest time <= t, k1 the smallest > t.
	// The set is kept sorted by insertion, so a linear scan suffices for
	// the handful of keyframes a layer typically carries.
	var k0, k1 Keyframe
	for i := 0; i < len(kfs)-1; i++ {
		if t >= kfs[i].Time && t < kfs[i+1].Time {
			k0 = kfs[i]
			k1 = kfs[i+1]
			break
		}
	}

	f := (t - k0.Time) / (k1.Time - k0.Time)
	if k0.Ease != nil {
		f = float64(k0.Ease(float32(f), 0, 1, 1))
	}

	bag.X = mergeProp(bag.X, k0.Props.X, k1.Props.X, f)
	bag.Y = mergeProp(bag.Y, k0.Props.Y, k1.Props.Y, f)
	bag.Scale = mergeProp(bag.Scale, k0.Props.Scale, k1.Props.Scale, f)
	bag.Rotation = mergeProp(bag.Rotation, k0.Props.Rotation, k1.Props.Rotation, f)
	bag.Opacity = mergeProp(bag.Opacity, k0.Props.Opacity, k1.Props.Opacity, f)
	return bag
}

// applyProps overwrites bag fields with the values the set defines.
func applyProps(bag *PropertyBag, p PropertySet) {
	if p.X != nil {
		bag.X = *p.X
	}
	if p.Y != nil {
		bag.Y = *p.Y
	}
	if p.Scale != nil {
		bag.Scale = *p.Scale
	}
	if p.Rotation != nil {
		bag.Rotation = *p.Rotation
	}
	if p.Opacity != nil {
		bag.Opacity = *p.Opacity
	}
}

// mergeProp resolves one property across a bracketing keyframe pair:
// lerp when both define it, hold when one does, base when neither does.
func mergeProp(base float64, a, b *float64, f float64) float64 {
	switch {
	case a != nil && b != nil:
		return lerp(*a, *b, f)
	case a != nil:
		return *a
	case b != nil:
		return *b
	default:
		return base
	}
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
