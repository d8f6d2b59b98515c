package montage

import (
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// defaultLayerSize is the width and height a layer gets when none is set.
const defaultLayerSize = 100.0

// Layer is a single timeline element. A single flat struct is used for all
// layer kinds to avoid interface dispatch on the per-frame hot path; the
// Kind tag selects which payload fields are meaningful.
type Layer struct {
	// Identity
	ID   string
	Name string
	Kind LayerKind

	// Base transform. Keyframes override these property-by-property.
	X, Y     float64
	Scale    float64 // uniform, > 0
	Rotation float64 // degrees, [0, 360)
	Opacity  float64 // [0, 1]

	// Local (unscaled) bounding box, centered on the layer position.
	Width, Height float64

	// Active window on the global timeline, in seconds. Outside
	// [StartTime, StartTime+Duration) the layer is inactive regardless
	// of Visible.
	StartTime float64
	Duration  float64

	Visible bool
	Locked  bool // locked layers render but are never hit-tested

	keyframes []Keyframe

	// Image / video / audio payload
	AssetID       string
	MediaDuration float64 // intrinsic duration of a video asset, seconds

	// Text payload
	Text       string
	FontSize   float64
	FontFamily string
	TextColor  Color
	Align      TextAlign

	// Shape payload
	Shape       ShapeKind
	Fill        Color
	Stroke      Color
	StrokeWidth float64

	// Adjustment payload
	Brightness float64 // [-1, 1], 0 = unchanged
	Contrast   float64 // [-1, 1], 0 = unchanged
	Saturation float64 // [0, 2], 1 = unchanged

	// Compositor-owned content cache (text and shape layers).
	content      *ebiten.Image
	contentDirty bool
}

// layerDefaults sets the common default field values shared by all constructors.
func layerDefaults(l *Layer) {
	l.ID = uuid.NewString()
	l.Scale = 1
	l.Opacity = 1
	l.Width = defaultLayerSize
	l.Height = defaultLayerSize
	l.Duration = 5
	l.Visible = true
	l.contentDirty = true
}

// NewImageLayer creates a layer that renders a raster asset.
func NewImageLayer(name, assetID string) *Layer {
	l := &Layer{Name: name, Kind: LayerImage, AssetID: assetID}
	layerDefaults(l)
	return l
}

// NewTextLayer creates a text layer with the given content.
func NewTextLayer(name, content string) *Layer {
	l := &Layer{
		Name:      name,
		Kind:      LayerText,
		Text:      content,
		FontSize:  32,
		TextColor: ColorWhite,
	}
	layerDefaults(l)
	return l
}

// NewShapeLayer creates a shape layer rendering the given primitive.
func NewShapeLayer(name string, shape ShapeKind) *Layer {
	l := &Layer{
		Name:  name,
		Kind:  LayerShape,
		Shape: shape,
		Fill:  ColorWhite,
	}
	layerDefaults(l)
	return l
}

// NewVideoLayer creates a layer that renders timed frames from a video
// asset. mediaDuration is the asset's intrinsic duration in seconds.
func NewVideoLayer(name, assetID string, mediaDuration float64) *Layer {
	l := &Layer{Name: name, Kind: LayerVideo, AssetID: assetID, MediaDuration: mediaDuration}
	layerDefaults(l)
	return l
}

// NewAudioLayer creates an audio-only layer. It never contributes to the
// composited frame; playback is owned by the audio engine.
func NewAudioLayer(name, assetID string) *Layer {
	l := &Layer{Name: name, Kind: LayerAudio, AssetID: assetID}
	layerDefaults(l)
	return l
}

// NewAdjustmentLayer creates a layer that color-adjusts everything
// composited below it while active. The zero payload is a no-op adjustment.
func NewAdjustmentLayer(name string) *Layer {
	l := &Layer{Name: name, Kind: LayerAdjustment, Saturation: 1}
	layerDefaults(l)
	return l
}

// ActiveAt reports whether the layer participates in compositing and
// hit-testing at time t.
func (l *Layer) ActiveAt(t float64) bool {
	return l.Visible && t >= l.StartTime && t < l.StartTime+l.Duration
}

// --- Keyframes ---

// AddKeyframe inserts kf keeping the set sorted by time. At most one
// keyframe may exist per exact time value; inserting at an occupied time
// replaces the existing keyframe.
func (l *Layer) AddKeyframe(kf Keyframe) {
	for i, existing := range l.keyframes {
		if existing.Time == kf.Time {
			l.keyframes[i] = kf
			return
		}
		if kf.Time < existing.Time {
			l.keyframes = append(l.keyframes, Keyframe{})
			copy(l.keyframes[i+1:], l.keyframes[i:])
			l.keyframes[i] = kf
			return
		}
	}
	l.keyframes = append(l.keyframes, kf)
}

// RemoveKeyframe deletes the keyframe at the exact time value.
// Returns false if no keyframe exists at that time.
func (l *Layer) RemoveKeyframe(time float64) bool {
	for i, kf := range l.keyframes {
		if kf.Time == time {
			copy(l.keyframes[i:], l.keyframes[i+1:])
			l.keyframes = l.keyframes[:len(l.keyframes)-1]
			return true
		}
	}
	return false
}

// Keyframes returns the keyframe set in ascending time order.
// The returned slice MUST NOT be mutated by the caller.
func (l *Layer) Keyframes() []Keyframe {
	return l.keyframes
}

// KeyframeCount returns the number of keyframes on this layer.
func (l *Layer) KeyframeCount() int {
	return len(l.keyframes)
}

// --- Content invalidation ---

// MarkContentDirty forces the compositor to re-render this layer's cached
// content canvas on the next frame. Call after bulk-setting payload fields
// directly.
func (l *Layer) MarkContentDirty() {
	l.contentDirty = true
}

// SetText replaces a text layer's content and invalidates the content cache.
func (l *Layer) SetText(content string) {
	l.Text = content
	l.contentDirty = true
}

// SetFontSize sets a text layer's font size and invalidates the content cache.
func (l *Layer) SetFontSize(size float64) {
	l.FontSize = size
	l.contentDirty = true
}

// SetShapeStyle sets a shape layer's fill and stroke and invalidates the
// content cache.
func (l *Layer) SetShapeStyle(fill, stroke Color, strokeWidth float64) {
	l.Fill = fill
	l.Stroke = stroke
	l.StrokeWidth = strokeWidth
	l.contentDirty = true
}

// Clone returns a copy of the layer with a fresh ID and its own keyframe
// set. The content cache is not shared.
func (l *Layer) Clone() *Layer {
	dup := *l
	dup.ID = uuid.NewString()
	dup.keyframes = make([]Keyframe, len(l.keyframes))
	copy(dup.keyframes, l.keyframes)
	dup.content = nil
	dup.contentDirty = true
	return &dup
}
