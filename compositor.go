package montage

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// selectionColor is the accent used for selection decoration.
var selectionColor = Color{R: 0.25, G: 0.56, B: 1, A: 1}

// cornerHandleRadius is the visual radius of a selection corner handle.
const cornerHandleRadius = 5.0

// Compositor paints a scene's active layers, bottom to top, into a frame.
// It owns the per-layer content caches and the adjustment scratch buffer;
// all time-dependent math goes through ResolveProperties, the same path
// the hit tester uses.
type Compositor struct {
	Assets AssetProvider
	Fonts  FontSource

	scratch *ebiten.Image // reused for adjustment layer passes
}

// NewCompositor creates a compositor over the given collaborators. Either
// may be nil, in which case layers needing it are skipped.
func NewCompositor(assets AssetProvider, fonts FontSource) *Compositor {
	return &Compositor{Assets: assets, Fonts: fonts}
}

// CompositeFrame paints the scene at time t into dst. A frame is always
// producible: layers whose asset or font is not yet loaded are silently
// skipped this frame and re-attempted the next. The pass holds the scene
// lock, so it observes a consistent snapshot of the cursor and all layer
// properties.
func (c *Compositor) CompositeFrame(dst *ebiten.Image, s *Scene, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst.Fill(s.ClearColor.toRGBA())

	for _, l := range s.activeLayersLocked(t) {
		bag := ResolveProperties(l, t)
		switch l.Kind {
		case LayerAudio:
			// Audible only; the audio engine owns it.
		case LayerAdjustment:
			c.applyAdjustment(dst, l, bag)
		default:
			c.drawLayer(dst, l, bag, t)
		}
	}

	if s.tool == ToolSelect && s.selectedLayerID != "" {
		if sel := s.layerByIDLocked(s.selectedLayerID); sel != nil && sel.ActiveAt(t) {
			drawSelectionDecoration(dst, sel, ResolveProperties(sel, t))
		}
	}
}

// drawLayer paints one content layer in its own local frame: content is
// drawn centered on the origin, scaled uniformly, rotated, translated, with
// paint alpha set to the resolved opacity. Each layer's frame is
// independent — transforms never accumulate across layers.
func (c *Compositor) drawLayer(dst *ebiten.Image, l *Layer, bag PropertyBag, t float64) {
	img := c.contentFor(l, t)
	if img == nil {
		return // not ready this frame; retried next frame
	}
	b := img.Bounds()
	nw, nh := float64(b.Dx()), float64(b.Dy())
	if nw == 0 || nh == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(l.Width/nw, l.Height/nh)
	op.GeoM.Translate(-l.Width/2, -l.Height/2)
	op.GeoM.Scale(bag.Scale, bag.Scale)
	op.GeoM.Rotate(degToRad(bag.Rotation))
	op.GeoM.Translate(bag.X, bag.Y)
	op.ColorScale.ScaleAlpha(float32(clamp(bag.Opacity, 0, 1)))
	dst.DrawImage(img, op)
}

// contentFor resolves a layer's content canvas, rebuilding cached text and
// shape canvases when stale. Returns nil while the content cannot be
// produced (asset or font not ready).
func (c *Compositor) contentFor(l *Layer, t float64) *ebiten.Image {
	switch l.Kind {
	case LayerImage:
		if c.Assets == nil {
			return nil
		}
		img, ok := c.Assets.Image(l.AssetID)
		if !ok {
			return nil
		}
		return img

	case LayerVideo:
		if c.Assets == nil {
			return nil
		}
		// Media time runs from the layer's own start, clamped into the
		// asset's intrinsic duration so over-long layers hold the last frame.
		mediaTime := t - l.StartTime
		if l.MediaDuration > 0 {
			mediaTime = clamp(mediaTime, 0, l.MediaDuration)
		}
		img, ok := c.Assets.VideoFrame(l.AssetID, mediaTime)
		if !ok {
			return nil
		}
		return img

	case LayerText:
		if l.contentDirty {
			if c.Fonts == nil {
				return nil
			}
			face, ok := c.Fonts.Face(l.FontFamily, l.FontSize)
			if !ok {
				return nil
			}
			canvas, w, h := renderTextBlock(l, face)
			l.content = canvas
			// The text block defines the layer's bounding box so the hit
			// tester and decoration track the visible glyphs.
			l.Width = w
			l.Height = h
			l.contentDirty = false
		}
		return l.content

	case LayerShape:
		w := int(math.Ceil(l.Width))
		h := int(math.Ceil(l.Height))
		if w <= 0 || h <= 0 {
			return nil
		}
		if l.contentDirty || l.content == nil || l.content.Bounds().Dx() != w || l.content.Bounds().Dy() != h {
			l.content = renderShape(l, w, h)
			l.contentDirty = false
		}
		return l.content
	}
	return nil
}

// renderShape rasterizes a shape layer's primitive into a w x h canvas.
func renderShape(l *Layer, w, h int) *ebiten.Image {
	canvas := ebiten.NewImage(w, h)
	fw, fh := float32(w), float32(h)
	sw := float32(l.StrokeWidth)
	fill := l.Fill.toRGBA()
	stroke := l.Stroke.toRGBA()

	switch l.Shape {
	case ShapeRectangle:
		vector.DrawFilledRect(canvas, 0, 0, fw, fh, fill, true)
		if sw > 0 {
			vector.StrokeRect(canvas, sw/2, sw/2, fw-sw, fh-sw, sw, stroke, true)
		}
	case ShapeCircle:
		r := float32(math.Min(float64(fw), float64(fh)) / 2)
		vector.DrawFilledCircle(canvas, fw/2, fh/2, r, fill, true)
		if sw > 0 {
			vector.StrokeCircle(canvas, fw/2, fh/2, r-sw/2, sw, stroke, true)
		}
	case ShapeTriangle:
		fillTriangle(canvas, fw/2, 0, fw, fh, 0, fh, l.Fill)
		if sw > 0 {
			vector.StrokeLine(canvas, fw/2, 0, fw, fh, sw, stroke, true)
			vector.StrokeLine(canvas, fw, fh, 0, fh, sw, stroke, true)
			vector.StrokeLine(canvas, 0, fh, fw/2, 0, sw, stroke, true)
		}
	}
	return canvas
}

// fillTriangle draws a solid triangle using the shared white pixel,
// since the vector package has no triangle primitive.
func fillTriangle(dst *ebiten.Image, x0, y0, x1, y1, x2, y2 float32, c Color) {
	cr := float32(c.R)
	cg := float32(c.G)
	cb := float32(c.B)
	ca := float32(c.A)
	vs := []ebiten.Vertex{
		{DstX: x0, DstY: y0, SrcX: 0, SrcY: 0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: x1, DstY: y1, SrcX: 0, SrcY: 0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: x2, DstY: y2, SrcX: 0, SrcY: 0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
	}
	dst.DrawTriangles(vs, []uint16{0, 1, 2}, whitePixel, nil)
}

// applyAdjustment color-adjusts everything composited below this layer.
// The partial frame is copied through a color matrix into a scratch buffer
// and blended back with the layer's resolved opacity as the strength.
// Transform properties other than opacity do not apply — the adjustment
// covers the whole canvas, matching how adjustment layers behave in the
// editor this engine drives.
func (c *Compositor) applyAdjustment(dst *ebiten.Image, l *Layer, bag PropertyBag) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	if c.scratch == nil || c.scratch.Bounds().Dx() != w || c.scratch.Bounds().Dy() != h {
		c.scratch = ebiten.NewImage(w, h)
	}
	c.scratch.Clear()

	var cm colorm.ColorM
	if l.Saturation != 1 {
		cm.ChangeHSV(0, clamp(l.Saturation, 0, 2), 1)
	}
	if l.Contrast != 0 {
		k := 1 + clamp(l.Contrast, -1, 1)
		cm.Scale(k, k, k, 1)
		shift := 0.5 * (1 - k)
		cm.Translate(shift, shift, shift, 0)
	}
	if l.Brightness != 0 {
		b := clamp(l.Brightness, -1, 1)
		cm.Translate(b, b, b, 0)
	}

	colorm.DrawImage(c.scratch, dst, cm, nil)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(clamp(bag.Opacity, 0, 1)))
	dst.DrawImage(c.scratch, op)
}

// drawSelectionDecoration strokes the selected layer's bounding box and
// draws its corner handles plus the rotation handle above the top edge,
// all from the same resolved transform the layer was painted with.
func drawSelectionDecoration(dst *ebiten.Image, l *Layer, bag PropertyBag) {
	corners := layerCorners(bag, l.Width, l.Height)
	clr := selectionColor.toRGBA()

	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%4]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, clr, true)
	}
	for _, p := range corners {
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), cornerHandleRadius, clr, true)
	}

	// Rotation handle: a stem from the top edge midpoint to the handle knob.
	topMid := Vec2{X: (corners[0].X + corners[1].X) / 2, Y: (corners[0].Y + corners[1].Y) / 2}
	knob := rotationHandlePos(bag, l.Height)
	vector.StrokeLine(dst, float32(topMid.X), float32(topMid.Y), float32(knob.X), float32(knob.Y), 2, clr, true)
	vector.DrawFilledCircle(dst, float32(knob.X), float32(knob.Y), cornerHandleRadius+1, clr, true)
}
