// Package player contains the playback engine: the audio output device
// contract, the shuffled play queue and the session state machine that keeps
// the two in sync.
package player

import "purps/src/util"

// DefaultVolume is the volume a fresh session starts with.
const DefaultVolume = 0.8

// Output is the contract for a single audio playback device.
//
// Commands apply to whatever resource was last loaded. Play may fail, e.g.
// due to platform playback policy; implementations must report this through
// the returned error rather than through the event stream. Asynchronous
// state, the progressing play position in particular, is reported through
// Events as TimeEvent, EndedEvent and ErrorEvent.
type Output interface {
	// Load points the device at a new audio resource and resets its play
	// position. Loading supersedes any in-flight playback.
	Load(url string)

	Play() error

	Pause()

	// Time reports the current play position in seconds.
	Time() float64

	SetTime(seconds float64)

	// Volume is a uniform float in [0, 1].
	Volume() float64

	SetVolume(volume float64)

	Events() *util.Emitter

	// Close releases the device. No events are delivered afterwards.
	Close() error
}

// TimeEvent is emitted by an Output while its play position progresses, and
// by the Session whenever the logical play position changes.
type TimeEvent struct {
	Seconds float64
}

// EndedEvent is emitted by an Output when the loaded resource finished
// playing to completion.
type EndedEvent struct{}

// ErrorEvent is emitted by an Output when a runtime device error occurs.
// Device errors are reported, never fatal.
type ErrorEvent struct {
	Err error
}

// PlayStateEvent is emitted by the Session when playback starts or stops.
type PlayStateEvent struct {
	Playing bool
}

// TrackEvent is emitted by the Session when the current track changes. The ID
// is empty when playback became idle.
type TrackEvent struct {
	TrackID string
}

// VolumeEvent is emitted by the Session when the volume changes.
type VolumeEvent struct {
	Volume float64
}

// NoticeEvent carries a non-fatal, user-facing message. Level is "info" or
// "error".
type NoticeEvent struct {
	Level   string
	Message string
}
