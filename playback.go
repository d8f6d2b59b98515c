package montage

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Player advances the scene's playback cursor at the scene's frame rate.
//
// Play spawns a single goroutine holding a time.Ticker at 1000/fps
// milliseconds; each tick advances the cursor by 1/fps seconds under the
// scene lock and requests a recomposition. Reaching the project duration
// wraps the cursor to zero (loop, not stop). The cadence is wall-clock
// paced; drift under load is accepted and not compensated.
//
// Stop is effective before the next scheduled tick: the stop channel is
// drained ahead of the ticker and the running flag is re-checked inside
// the advance, so a cancelled player never performs a stray final advance.
type Player struct {
	scene *Scene

	// OnFrame, when set, is invoked after every advance and on Stop as the
	// recomposition request. It runs on the player goroutine without the
	// scene lock held.
	OnFrame func()

	// Audio, when set, is kept in sync with Play/Stop/Seek.
	Audio *AudioEngine

	mu      sync.Mutex
	playing bool
	stop    chan struct{}
}

// NewPlayer creates a stopped player for the given scene.
func NewPlayer(scene *Scene) *Player {
	return &Player{scene: scene}
}

// Playing reports whether the player is in the playing state.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Play transitions to the playing state. Calling Play while already
// playing is a no-op.
func (p *Player) Play() {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = true
	p.stop = make(chan struct{})
	stop := p.stop
	p.mu.Unlock()

	log.WithField("fps", p.scene.FPS).Debug("playback started")
	if p.Audio != nil {
		p.Audio.Start(p.scene.Time())
	}
	go p.run(stop)
}

// Stop transitions to the stopped state and resets the cursor to zero.
// Calling Stop while already stopped is a no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = false
	close(p.stop)
	p.mu.Unlock()

	log.Debug("playback stopped")
	if p.Audio != nil {
		p.Audio.Stop()
	}
	p.scene.Seek(0)
	if p.OnFrame != nil {
		p.OnFrame()
	}
}

// Seek moves the cursor to t (clamped to the project duration) and, while
// playing, re-anchors audio to the new position.
func (p *Player) Seek(t float64) {
	p.scene.Seek(t)
	if p.Audio != nil && p.Playing() {
		p.Audio.Start(p.scene.Time())
	}
	if p.OnFrame != nil {
		p.OnFrame()
	}
}

// run is the scheduler loop. It exits when the stop channel closes.
func (p *Player) run(stop chan struct{}) {
	interval := time.Duration(float64(time.Second) / float64(p.scene.FPS))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A close racing the tick must win: never advance after Stop.
			select {
			case <-stop:
				return
			default:
			}
			if !p.advance() {
				return
			}
			if p.Audio != nil {
				p.Audio.Sync(p.scene.Time())
			}
			if p.OnFrame != nil {
				p.OnFrame()
			}
		}
	}
}

// advance moves the cursor one frame forward, wrapping at the project
// duration. Returns false when the player was stopped concurrently.
func (p *Player) advance() bool {
	// p.mu stays held across the scene mutation: once Stop has flipped the
	// flag and reset the cursor, no in-flight tick may move it again.
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return false
	}

	s := p.scene
	s.mu.Lock()
	s.currentTime += 1 / float64(s.FPS)
	if s.currentTime >= s.Duration {
		s.currentTime = 0
	}
	s.dirty = true
	s.mu.Unlock()
	return true
}
