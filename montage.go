package montage

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default fill (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is an opaque black, the default canvas clear color.
var ColorBlack = Color{0, 0, 0, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp(c.R, 0, 1) * 255),
		G: uint8(clamp(c.G, 0, 1) * 255),
		B: uint8(clamp(c.B, 0, 1) * 255),
		A: uint8(clamp(c.A, 0, 1) * 255),
	}
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and pointer
// coordinates throughout the API.
type Vec2 struct {
	X, Y float64
}

// whitePixel is a 1x1 white image used for solid-color triangle fills.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(ColorWhite.toRGBA())
}

// LayerKind distinguishes rendering and playback behavior for a Layer.
type LayerKind uint8

const (
	LayerImage      LayerKind = iota // renders a raster asset
	LayerText                        // renders a multi-line text block
	LayerShape                       // renders a vector primitive
	LayerVideo                       // renders timed frames from a video asset
	LayerAudio                       // audible only, contributes nothing to the frame
	LayerAdjustment                  // color-adjusts everything composited below it
)

// ShapeKind selects the vector primitive rendered by a shape layer.
type ShapeKind uint8

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapeTriangle
)

// TextAlign controls horizontal alignment of lines within a text layer.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align lines to the left edge (default)
	TextAlignCenter                  // center lines horizontally
	TextAlignRight                   // align lines to the right edge
)

// Tool identifies the active editing tool. Selection decoration and gesture
// routing only apply while ToolSelect is active.
type Tool uint8

const (
	ToolSelect Tool = iota // select, drag, resize, rotate layers
	ToolText               // place text layers
	ToolShape              // place shape layers
	ToolPan                // pan the viewport (owned by the presentation layer)
)

// GestureKind identifies an interactive edit session driven by the pointer.
type GestureKind uint8

const (
	GestureNone   GestureKind = iota // no gesture in progress
	GestureDrag                      // move the layer's base position
	GestureResize                    // scale the layer from a corner handle
	GestureRotate                    // rotate the layer around its position
)

// Handle identifies a selection decoration handle under the pointer.
type Handle uint8

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
	HandleRotate
)

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeDegrees maps r into [0, 360).
func normalizeDegrees(r float64) float64 {
	return math.Mod(math.Mod(r, 360)+360, 360)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
