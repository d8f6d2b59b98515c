package montage

import log "github.com/sirupsen/logrus"

// Persistence receives committed layer and keyframe mutations for storage.
// The engine never reads the storage format back — persistence is
// write-only from this side. Implementations must tolerate being called
// from the pointer-event goroutine.
type Persistence interface {
	// CommitTransform is called once per finished gesture with the layer's
	// final base transform.
	CommitTransform(layer *Layer)
	// CommitLayer is called when a layer is created or its payload edited.
	CommitLayer(layer *Layer)
	// CommitKeyframe is called when a keyframe is explicitly added or replaced.
	CommitKeyframe(layerID string, kf Keyframe)
	// RemoveLayer is called when a layer is explicitly deleted.
	RemoveLayer(layerID string)
}

// NopPersistence discards every commit. Useful for tests and headless use.
type NopPersistence struct{}

func (NopPersistence) CommitTransform(*Layer)           {}
func (NopPersistence) CommitLayer(*Layer)               {}
func (NopPersistence) CommitKeyframe(string, Keyframe)  {}
func (NopPersistence) RemoveLayer(string)               {}

// LogPersistence logs every commit instead of storing it. Handy while a
// real storage collaborator is not wired up.
type LogPersistence struct{}

func (LogPersistence) CommitTransform(l *Layer) {
	log.WithFields(log.Fields{
		"layer": l.ID,
		"x":     l.X,
		"y":     l.Y,
		"scale": l.Scale,
		"rot":   l.Rotation,
	}).Info("commit transform")
}

func (LogPersistence) CommitLayer(l *Layer) {
	log.WithFields(log.Fields{"layer": l.ID, "kind": l.Kind}).Info("commit layer")
}

func (LogPersistence) CommitKeyframe(layerID string, kf Keyframe) {
	log.WithFields(log.Fields{"layer": layerID, "time": kf.Time}).Info("commit keyframe")
}

func (LogPersistence) RemoveLayer(layerID string) {
	log.WithField("layer", layerID).Info("remove layer")
}
