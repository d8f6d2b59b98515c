// Package montage is a timeline-driven layer composition engine for
// [Ebitengine].
//
// A [Scene] holds an ordered stack of [Layer] values over a finite
// timeline. Layers carry a base transform (position, uniform scale,
// rotation, opacity) and an optional sorted keyframe track; at any time t
// the effective transform is resolved by [ResolveProperties] and painted
// by a [Compositor], bottom of the stack first.
//
// # Quick start
//
//	scene := montage.NewScene(1280, 720, 30, 10)
//	title := montage.NewTextLayer("title", "Hello")
//	title.X, title.Y = 640, 360
//	scene.AddLayer(title)
//
//	comp := montage.NewCompositor(assets, fonts)
//	comp.CompositeFrame(frame, scene, scene.Time())
//
// # Animation
//
// Keyframes override any subset of the animatable properties; properties a
// segment's keyframes both define interpolate between them, properties only
// one side defines hold that value, and undefined properties fall back to
// the layer's base transform. Easing comes from [gween]'s ease functions,
// attached per keyframe; a nil ease is linear.
//
//	l.AddKeyframe(montage.Keyframe{Time: 0, Props: montage.PropertySet{X: montage.Float(100)}})
//	l.AddKeyframe(montage.Keyframe{Time: 2, Props: montage.PropertySet{X: montage.Float(500)}, Ease: ease.OutQuad})
//
// # Interaction
//
// [HitTest] and [HandleAt] answer "what is under this point" with the same
// resolved transforms the compositor paints with, and [Gestures] turns
// pointer begin/update/end sequences into drag, resize, and rotate edits of
// the selected layer's base transform.
//
// # Playback
//
// [Player] advances the scene's cursor at the project frame rate on a
// wall-clock ticker and loops at the project duration. Audio layers are
// made audible through an [AudioEngine] (via [beep]), kept in sync with the
// cursor by the player.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [beep]: https://github.com/gopxl/beep
package montage
