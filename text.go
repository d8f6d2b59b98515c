package montage

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// lineHeightFactor converts a font size into a line height for multi-line
// text blocks.
const lineHeightFactor = 1.2

// FontSource resolves a font family name to a sized text face. A missing
// family reports ok=false and the layer is skipped for the frame, the same
// observe-don't-await contract as AssetProvider.
type FontSource interface {
	Face(family string, size float64) (text.Face, bool)
}

// FontLibrary is a concrete FontSource over registered TTF/OTF data.
// The first registered family doubles as the fallback for unknown names
// until SetFallback overrides it.
type FontLibrary struct {
	mu       sync.RWMutex
	sources  map[string]*text.GoTextFaceSource
	fallback string
}

// NewFontLibrary creates an empty font library.
func NewFontLibrary() *FontLibrary {
	return &FontLibrary{sources: make(map[string]*text.GoTextFaceSource)}
}

// RegisterTTF parses TTF/OTF bytes and registers them under family.
func (f *FontLibrary) RegisterTTF(family string, data []byte) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources[family] = src
	if f.fallback == "" {
		f.fallback = family
	}
	return nil
}

// SetFallback names the family used when a requested one is unknown.
func (f *FontLibrary) SetFallback(family string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = family
}

// Face implements FontSource.
func (f *FontLibrary) Face(family string, size float64) (text.Face, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	src, ok := f.sources[family]
	if !ok {
		src, ok = f.sources[f.fallback]
	}
	if !ok {
		return nil, false
	}
	return &text.GoTextFace{Source: src, Size: size}, true
}

// renderTextBlock renders a text layer's content into a canvas sized to
// the laid-out block. Content is split on explicit line breaks and lines
// stack at lineHeight = FontSize * 1.2; horizontal alignment applies per
// line within the block. Returns the canvas and the block size in local
// units.
func renderTextBlock(l *Layer, face text.Face) (*ebiten.Image, float64, float64) {
	lh := l.FontSize * lineHeightFactor
	lines := strings.Split(l.Text, "\n")

	widths := make([]float64, len(lines))
	var blockW float64
	for i, line := range lines {
		w, _ := text.Measure(line, face, lh)
		widths[i] = w
		if w > blockW {
			blockW = w
		}
	}
	blockH := lh * float64(len(lines))
	if blockW < 1 {
		blockW = 1
	}

	canvas := ebiten.NewImage(int(math.Ceil(blockW)), int(math.Ceil(blockH)))
	for i, line := range lines {
		if line == "" {
			continue
		}
		var x float64
		switch l.Align {
		case TextAlignCenter:
			x = (blockW - widths[i]) / 2
		case TextAlignRight:
			x = blockW - widths[i]
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, float64(i)*lh)
		op.ColorScale.ScaleWithColor(l.TextColor.toRGBA())
		op.LineSpacing = lh
		text.Draw(canvas, line, face, op)
	}
	return canvas, blockW, blockH
}
