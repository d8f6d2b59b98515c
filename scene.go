package montage

import "sync"

// Scene owns the ordered layer stack, canvas settings, and the playback
// cursor. Layer order is z-order: index 0 composites first (bottom), the
// last index is topmost and wins hit tests.
//
// The playback scheduler advances the cursor on its own goroutine, so all
// Scene access goes through mu. Composite and hit-test passes hold the lock
// for their whole pass and therefore observe a consistent snapshot of the
// cursor and every layer. Interactive gestures during playback are
// permitted; their writes serialize through the same lock.
type Scene struct {
	mu     sync.Mutex
	layers []*Layer

	// Canvas settings, fixed at construction.
	Width    int
	Height   int
	FPS      int
	Duration float64 // project duration, seconds

	ClearColor Color

	currentTime     float64
	selectedLayerID string
	tool            Tool

	dirty     bool
	activeBuf []*Layer // reused by ActiveLayers
}

// NewScene creates an empty scene with the given canvas settings.
// fps defaults to 30 when non-positive.
func NewScene(width, height, fps int, duration float64) *Scene {
	if fps <= 0 {
		fps = 30
	}
	return &Scene{
		Width:      width,
		Height:     height,
		FPS:        fps,
		Duration:   duration,
		ClearColor: ColorBlack,
	}
}

// --- Layer stack ---

// AddLayer appends l on top of the stack and marks the scene dirty.
func (s *Scene) AddLayer(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
	s.dirty = true
}

// AddLayerAt inserts l at the given z index (0 = bottom). Out-of-range
// indices clamp to the stack bounds.
func (s *Scene) AddLayerAt(l *Layer, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index > len(s.layers) {
		index = len(s.layers)
	}
	s.layers = append(s.layers, nil)
	copy(s.layers[index+1:], s.layers[index:])
	s.layers[index] = l
	s.dirty = true
}

// RemoveLayer deletes the layer with the given id. The selection is cleared
// if it pointed at the removed layer. Returns false when no such layer exists.
func (s *Scene) RemoveLayer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.layers {
		if l.ID == id {
			copy(s.layers[i:], s.layers[i+1:])
			s.layers[len(s.layers)-1] = nil
			s.layers = s.layers[:len(s.layers)-1]
			if s.selectedLayerID == id {
				s.selectedLayerID = ""
			}
			s.dirty = true
			return true
		}
	}
	return false
}

// MoveLayer moves the layer with the given id to a new z index.
// Returns false when no such layer exists; out-of-range indices clamp.
func (s *Scene) MoveLayer(id string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := -1
	for i, l := range s.layers {
		if l.ID == id {
			old = i
			break
		}
	}
	if old < 0 {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index >= len(s.layers) {
		index = len(s.layers) - 1
	}
	if index == old {
		return true
	}
	l := s.layers[old]
	if old < index {
		copy(s.layers[old:], s.layers[old+1:index+1])
	} else {
		copy(s.layers[index+1:], s.layers[index:old])
	}
	s.layers[index] = l
	s.dirty = true
	return true
}

// Layers returns the layer stack in z-order (index 0 = bottom).
// The returned slice MUST NOT be mutated by the caller.
func (s *Scene) Layers() []*Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers
}

// LayerByID returns the layer with the given id, or nil.
func (s *Scene) LayerByID(id string) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layerByIDLocked(id)
}

func (s *Scene) layerByIDLocked(id string) *Layer {
	for _, l := range s.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// --- Active layer query ---

// ActiveLayers returns the layers that participate in compositing at time
// t, bottom-to-top. The hit tester iterates the same result in reverse so
// the last-drawn (topmost) layer wins. The returned slice is reused across
// calls and MUST NOT be retained.
func (s *Scene) ActiveLayers(t float64) []*Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLayersLocked(t)
}

func (s *Scene) activeLayersLocked(t float64) []*Layer {
	s.activeBuf = s.activeBuf[:0]
	for _, l := range s.layers {
		if l.ActiveAt(t) {
			s.activeBuf = append(s.activeBuf, l)
		}
	}
	return s.activeBuf
}

// --- Playback cursor ---

// Seek moves the playback cursor to t, clamped to [0, Duration].
func (s *Scene) Seek(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTime = clamp(t, 0, s.Duration)
	s.dirty = true
}

// Time returns the current playback cursor position.
func (s *Scene) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTime
}

// --- Selection and tool mode ---

// Select marks the layer with the given id as the single selected layer.
// An empty id or an unknown id clears the selection.
func (s *Scene) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.layerByIDLocked(id) == nil {
		id = ""
	}
	s.selectedLayerID = id
	s.dirty = true
}

// Selected returns the selected layer, or nil when nothing is selected.
func (s *Scene) Selected() *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedLayerID == "" {
		return nil
	}
	return s.layerByIDLocked(s.selectedLayerID)
}

// SetTool switches the active editing tool.
func (s *Scene) SetTool(tool Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool = tool
}

// ActiveTool returns the active editing tool.
func (s *Scene) ActiveTool() Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// --- Dirty tracking ---

// MarkDirty requests a recomposition.
func (s *Scene) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

// TakeDirty reports whether a recomposition was requested since the last
// call, clearing the flag.
func (s *Scene) TakeDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.dirty
	s.dirty = false
	return d
}
