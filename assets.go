package montage

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	log "github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// AssetProvider resolves asset ids to loaded pixel data plus a ready flag.
// The compositor observes readiness but never awaits it: an unready asset
// simply contributes nothing to the current frame and is re-attempted on
// the next one.
type AssetProvider interface {
	// Image returns the raster for an image asset, or (nil, false) while
	// the asset is not loaded.
	Image(id string) (*ebiten.Image, bool)
	// VideoFrame returns the frame of a video asset at the given media
	// time (seconds into the asset), or (nil, false) while not loaded.
	VideoFrame(id string, mediaTime float64) (*ebiten.Image, bool)
	// VideoDuration returns a video asset's intrinsic duration, or
	// (0, false) while not loaded.
	VideoDuration(id string) (float64, bool)
}

// maxAssetDim caps decoded asset dimensions. Larger sources are downscaled
// to stay inside common GPU texture limits.
const maxAssetDim = 4096

type imageAsset struct {
	img   *ebiten.Image
	ready bool
}

type videoAsset struct {
	frames   []*ebiten.Image
	fps      float64
	duration float64
	ready    bool
}

// AssetStore is a concrete AssetProvider. File-backed images decode on a
// bounded worker pool sized from the machine's core count; callers observe
// the ready flag per frame. Video assets are registered as pre-decoded
// frame sequences — demuxing/transcoding is an external concern.
type AssetStore struct {
	mu     sync.RWMutex
	images map[string]*imageAsset
	videos map[string]*videoAsset
	group  errgroup.Group
}

// NewAssetStore creates an empty store with a decode pool sized from the
// logical core count (half the cores, clamped to [1, 8]).
func NewAssetStore() *AssetStore {
	s := &AssetStore{
		images: make(map[string]*imageAsset),
		videos: make(map[string]*videoAsset),
	}
	s.group.SetLimit(decodeWorkers())
	return s
}

// decodeWorkers picks the decode pool size from the logical core count.
func decodeWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return 2
	}
	n /= 2
	if n < 1 {
		n = 1
	}
	if n > 8 {
		n = 8
	}
	return n
}

// RegisterImage stores an already-decoded image under id, immediately ready.
func (s *AssetStore) RegisterImage(id string, src image.Image) {
	img := ebiten.NewImageFromImage(scaleToFit(src))
	s.mu.Lock()
	s.images[id] = &imageAsset{img: img, ready: true}
	s.mu.Unlock()
}

// LoadImageFile registers id and decodes the file on a background worker.
// Image(id) reports not-ready until the decode finishes; decode failures
// leave the asset permanently unready and are logged, never surfaced to
// the composite path.
func (s *AssetStore) LoadImageFile(id, path string) {
	s.mu.Lock()
	s.images[id] = &imageAsset{}
	s.mu.Unlock()

	s.group.Go(func() error {
		src, err := decodeImageFile(path)
		if err != nil {
			log.WithFields(log.Fields{"asset": id, "path": path}).
				Warnf("asset decode failed: %v", err)
			return nil // loading is observed, not awaited; never fail the group
		}
		img := ebiten.NewImageFromImage(scaleToFit(src))
		s.mu.Lock()
		s.images[id] = &imageAsset{img: img, ready: true}
		s.mu.Unlock()
		return nil
	})
}

// RegisterVideoFrames stores a pre-decoded frame sequence under id.
// fps is the sequence's intrinsic frame rate; it defines the asset's
// duration as len(frames)/fps.
func (s *AssetStore) RegisterVideoFrames(id string, frames []image.Image, fps float64) {
	if fps <= 0 {
		fps = 30
	}
	v := &videoAsset{
		frames:   make([]*ebiten.Image, len(frames)),
		fps:      fps,
		duration: float64(len(frames)) / fps,
		ready:    len(frames) > 0,
	}
	for i, f := range frames {
		v.frames[i] = ebiten.NewImageFromImage(scaleToFit(f))
	}
	s.mu.Lock()
	s.videos[id] = v
	s.mu.Unlock()
}

// Wait blocks until all pending background decodes have finished.
// Intended for tests and batch use, not the interactive path.
func (s *AssetStore) Wait() {
	_ = s.group.Wait()
}

// Image implements AssetProvider.
func (s *AssetStore) Image(id string) (*ebiten.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.images[id]
	if !ok || !a.ready {
		return nil, false
	}
	return a.img, true
}

// VideoFrame implements AssetProvider. The media time is clamped into the
// asset's own duration, so an over-long layer holds the final frame.
func (s *AssetStore) VideoFrame(id string, mediaTime float64) (*ebiten.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok || !v.ready {
		return nil, false
	}
	idx := int(math.Floor(clamp(mediaTime, 0, v.duration) * v.fps))
	if idx >= len(v.frames) {
		idx = len(v.frames) - 1
	}
	return v.frames[idx], true
}

// VideoDuration implements AssetProvider.
func (s *AssetStore) VideoDuration(id string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok || !v.ready {
		return 0, false
	}
	return v.duration, true
}

// decodeImageFile opens and decodes a raster file.
func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset: %w", err)
	}
	return src, nil
}

// scaleToFit downscales src so neither dimension exceeds maxAssetDim,
// preserving aspect ratio. Sources already inside the limit pass through.
func scaleToFit(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxAssetDim && h <= maxAssetDim {
		return src
	}
	ratio := float64(maxAssetDim) / float64(w)
	if h > w {
		ratio = float64(maxAssetDim) / float64(h)
	}
	dw := int(float64(w) * ratio)
	dh := int(float64(h) * ratio)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
