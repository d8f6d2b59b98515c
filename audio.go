package montage

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	log "github.com/sirupsen/logrus"
)

// AudioEngine makes audio layers audible during playback. Each attached
// layer owns one stream routed through the speaker behind a pause control;
// the player drives Start/Sync/Stop so a stream plays exactly while the
// playback cursor is inside the layer's active window, at media position
// t - StartTime.
//
// Decoding and container formats stay behind beep.StreamSeekCloser —
// callers decode with whatever beep decoder matches their asset.
type AudioEngine struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	tracks map[string]*audioTrack // keyed by layer ID
}

type audioTrack struct {
	layer  *Layer
	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
}

// NewAudioEngine initializes the speaker at the given sample rate.
func NewAudioEngine(sampleRate int) (*AudioEngine, error) {
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &AudioEngine{
		rate:   rate,
		tracks: make(map[string]*audioTrack),
	}, nil
}

// Attach routes an audio layer's decoded stream through the engine. The
// stream starts paused; the player unpauses it when the cursor enters the
// layer's window. Attaching a second stream for the same layer replaces
// the first.
func (e *AudioEngine) Attach(layer *Layer, stream beep.StreamSeekCloser, format beep.Format) {
	var playable beep.Streamer = stream
	if format.SampleRate != e.rate {
		playable = beep.Resample(4, format.SampleRate, e.rate, stream)
	}
	ctrl := &beep.Ctrl{Streamer: playable, Paused: true}

	e.mu.Lock()
	if old, ok := e.tracks[layer.ID]; ok {
		e.silence(old)
	}
	e.tracks[layer.ID] = &audioTrack{
		layer:  layer,
		stream: stream,
		format: format,
		ctrl:   ctrl,
	}
	e.mu.Unlock()

	speaker.Play(ctrl)
	log.WithField("layer", layer.ID).Debug("audio track attached")
}

// Detach removes and closes a layer's stream.
func (e *AudioEngine) Detach(layerID string) {
	e.mu.Lock()
	tr, ok := e.tracks[layerID]
	if ok {
		delete(e.tracks, layerID)
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	e.silence(tr)
	if err := tr.stream.Close(); err != nil {
		log.WithField("layer", layerID).Warnf("audio stream close: %v", err)
	}
}

// Start re-anchors every track to timeline position t and unpauses the
// ones whose layer window contains t. Called on Play and on Seek.
func (e *AudioEngine) Start(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tr := range e.tracks {
		e.anchor(tr, t)
	}
}

// Sync is the per-tick check: it pauses tracks whose window the cursor has
// left and re-anchors tracks whose window it has just entered. Tracks
// already playing inside their window are left alone — the speaker clock
// owns their position between anchors.
func (e *AudioEngine) Sync(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tr := range e.tracks {
		inside := tr.layer.ActiveAt(t)
		speaker.Lock()
		paused := tr.ctrl.Paused
		speaker.Unlock()
		switch {
		case inside && paused:
			e.anchor(tr, t)
		case !inside && !paused:
			speaker.Lock()
			tr.ctrl.Paused = true
			speaker.Unlock()
		}
	}
}

// Stop pauses every track.
func (e *AudioEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tr := range e.tracks {
		e.silence(tr)
	}
}

// anchor seeks a track to the media position implied by timeline time t
// and sets its pause state from the layer window.
func (e *AudioEngine) anchor(tr *audioTrack, t float64) {
	inside := tr.layer.ActiveAt(t)
	pos := t - tr.layer.StartTime

	speaker.Lock()
	if inside && pos >= 0 {
		sample := int(pos * float64(tr.format.SampleRate))
		if sample < tr.stream.Len() {
			if err := tr.stream.Seek(sample); err != nil {
				log.WithField("layer", tr.layer.ID).Warnf("audio seek: %v", err)
				inside = false
			}
		} else {
			inside = false // past the end of the media
		}
	}
	tr.ctrl.Paused = !inside
	speaker.Unlock()
}

// silence pauses a track without touching its position.
func (e *AudioEngine) silence(tr *audioTrack) {
	speaker.Lock()
	tr.ctrl.Paused = true
	speaker.Unlock()
}
