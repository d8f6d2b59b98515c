package montage

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// recordingAssets captures every provider request and reports nothing ready,
// which keeps content resolution off the GPU.
type recordingAssets struct {
	imageIDs   []string
	mediaTimes []float64
}

func (r *recordingAssets) Image(id string) (*ebiten.Image, bool) {
	r.imageIDs = append(r.imageIDs, id)
	return nil, false
}

func (r *recordingAssets) VideoFrame(id string, mediaTime float64) (*ebiten.Image, bool) {
	r.mediaTimes = append(r.mediaTimes, mediaTime)
	return nil, false
}

func (r *recordingAssets) VideoDuration(string) (float64, bool) { return 0, false }

func TestVideoMediaTimeDerivation(t *testing.T) {
	l := NewVideoLayer("clip", "vid", 3) // 3s of media
	l.StartTime = 2
	l.Duration = 8

	assets := &recordingAssets{}
	c := NewCompositor(assets, nil)

	cases := []struct {
		name string
		t    float64
		want float64
	}{
		{"at layer start", 2, 0},
		{"inside window", 2.5, 0.5},
		{"at media end", 5, 3},
		{"past media end holds last frame", 6.5, 3},
		{"before layer start clamps to zero", 1, 0},
	}
	for _, tc := range cases {
		assets.mediaTimes = assets.mediaTimes[:0]
		if img := c.contentFor(l, tc.t); img != nil {
			t.Fatalf("%s: unready asset produced content", tc.name)
		}
		if len(assets.mediaTimes) != 1 {
			t.Fatalf("%s: %d provider requests, want 1", tc.name, len(assets.mediaTimes))
		}
		assertNear(t, tc.name, assets.mediaTimes[0], tc.want)
	}
}

func TestVideoMediaTimeWithoutIntrinsicDuration(t *testing.T) {
	// A zero MediaDuration means the asset's length is unknown; the raw
	// offset from the layer start is passed through unclamped.
	l := NewVideoLayer("clip", "vid", 0)
	l.StartTime = 1
	l.Duration = 10

	assets := &recordingAssets{}
	c := NewCompositor(assets, nil)

	c.contentFor(l, 7.25)
	if len(assets.mediaTimes) != 1 {
		t.Fatalf("%d provider requests, want 1", len(assets.mediaTimes))
	}
	assertNear(t, "raw offset", assets.mediaTimes[0], 6.25)
}

func TestImageContentAsksProviderByAssetID(t *testing.T) {
	l := NewImageLayer("logo", "asset-7")
	assets := &recordingAssets{}
	c := NewCompositor(assets, nil)

	if img := c.contentFor(l, 0); img != nil {
		t.Fatal("unready asset produced content")
	}
	if len(assets.imageIDs) != 1 || assets.imageIDs[0] != "asset-7" {
		t.Errorf("provider asked for %v, want [asset-7]", assets.imageIDs)
	}
}

func TestContentForWithoutCollaboratorsSkips(t *testing.T) {
	c := NewCompositor(nil, nil)
	if c.contentFor(NewImageLayer("i", "a"), 0) != nil {
		t.Error("image content without a provider")
	}
	if c.contentFor(NewVideoLayer("v", "a", 1), 0) != nil {
		t.Error("video content without a provider")
	}
	if c.contentFor(NewTextLayer("t", "hi"), 0) != nil {
		t.Error("text content without a font source")
	}
}
