package montage

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// DrawPlaybackStats prints a small playback readout (render FPS, playback
// state, cursor position) into the top-left corner of dst. Debug overlay
// for the example editor; not part of the composited frame.
func DrawPlaybackStats(dst *ebiten.Image, p *Player, s *Scene) {
	state := "stopped"
	if p.Playing() {
		state = "playing"
	}
	ebitenutil.DebugPrint(dst, fmt.Sprintf(
		"FPS: %.1f\n%s  t=%.2fs / %.2fs",
		ebiten.ActualFPS(), state, s.Time(), s.Duration,
	))
}
