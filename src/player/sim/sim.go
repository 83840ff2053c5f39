// Package sim provides an in-process audio output. It simulates playback in
// memory without touching any audio hardware, which makes it both the test
// double for the playback engine and the device used when no real media
// server is configured.
package sim

import (
	"errors"
	"sync"
	"time"

	"purps/src/player"
	"purps/src/util"
)

// ErrPlayRefused is returned by Play when a failure has been injected. It
// mimics a platform playback policy refusal.
var ErrPlayRefused = errors.New("playback refused by device")

// Output implements player.Output. Time only progresses when the clock is
// ticking (see NewTicking) or when a test steps it manually.
type Output struct {
	events util.Emitter

	lock     sync.Mutex
	url      string
	loaded   bool
	playing  bool
	position float64
	duration float64
	volume   float64

	failNextPlay bool
	failAllPlay  bool

	// DurationFunc resolves the duration of a loaded resource. Defaults to
	// a fixed 180 seconds when nil.
	DurationFunc func(url string) float64

	ticker *time.Ticker
	stop   chan struct{}
}

var _ player.Output = (*Output)(nil)

// New returns an output whose play position only moves via AdvanceTime or
// EmitTime.
func New() *Output {
	return &Output{volume: 1}
}

// NewTicking returns an output that advances its play position in real time,
// reporting it at every interval.
func NewTicking(interval time.Duration) *Output {
	out := New()
	out.ticker = time.NewTicker(interval)
	out.stop = make(chan struct{})
	go func() {
		last := time.Now()
		for {
			select {
			case now := <-out.ticker.C:
				out.tick(now.Sub(last).Seconds())
				last = now
			case <-out.stop:
				return
			}
		}
	}()
	return out
}

func (out *Output) tick(delta float64) {
	out.lock.Lock()
	if !out.playing {
		out.lock.Unlock()
		return
	}
	out.lock.Unlock()
	out.AdvanceTime(delta)
}

func (out *Output) Load(url string) {
	out.lock.Lock()
	out.url = url
	out.loaded = true
	out.playing = false
	out.position = 0
	out.duration = 180
	if out.DurationFunc != nil {
		out.duration = out.DurationFunc(url)
	}
	out.lock.Unlock()
}

func (out *Output) Play() error {
	out.lock.Lock()
	defer out.lock.Unlock()
	if out.failAllPlay || out.failNextPlay {
		out.failNextPlay = false
		return ErrPlayRefused
	}
	if !out.loaded {
		return errors.New("no resource loaded")
	}
	out.playing = true
	return nil
}

func (out *Output) Pause() {
	out.lock.Lock()
	out.playing = false
	out.lock.Unlock()
}

func (out *Output) Time() float64 {
	out.lock.Lock()
	defer out.lock.Unlock()
	return out.position
}

func (out *Output) SetTime(seconds float64) {
	out.lock.Lock()
	out.position = clamp(seconds, 0, out.duration)
	position := out.position
	loaded := out.loaded
	out.lock.Unlock()
	// A media element reports the new position after a seek.
	if loaded {
		out.events.Emit(player.TimeEvent{Seconds: position})
	}
}

func (out *Output) Volume() float64 {
	out.lock.Lock()
	defer out.lock.Unlock()
	return out.volume
}

func (out *Output) SetVolume(volume float64) {
	out.lock.Lock()
	out.volume = clamp(volume, 0, 1)
	out.lock.Unlock()
}

func (out *Output) Events() *util.Emitter {
	return &out.events
}

func (out *Output) Close() error {
	if out.ticker != nil {
		out.ticker.Stop()
		close(out.stop)
	}
	return nil
}

// AdvanceTime moves the play position forward by delta seconds, reporting the
// new position. Reaching the end of the resource stops playback and reports
// completion, like a media element would.
func (out *Output) AdvanceTime(delta float64) {
	out.lock.Lock()
	if !out.loaded {
		out.lock.Unlock()
		return
	}
	out.position += delta
	ended := out.position >= out.duration
	if ended {
		out.position = out.duration
		out.playing = false
	}
	position := out.position
	out.lock.Unlock()

	out.events.Emit(player.TimeEvent{Seconds: position})
	if ended {
		out.events.Emit(player.EndedEvent{})
	}
}

// EmitTime sets the play position and reports it, without end-of-resource
// detection. Useful for replaying exact device time reports in tests.
func (out *Output) EmitTime(seconds float64) {
	out.lock.Lock()
	out.position = seconds
	out.lock.Unlock()
	out.events.Emit(player.TimeEvent{Seconds: seconds})
}

// EmitEnded reports completion of the loaded resource.
func (out *Output) EmitEnded() {
	out.lock.Lock()
	out.playing = false
	out.lock.Unlock()
	out.events.Emit(player.EndedEvent{})
}

// InjectError reports a runtime device error.
func (out *Output) InjectError(err error) {
	out.events.Emit(player.ErrorEvent{Err: err})
}

// FailNextPlay makes the next Play call return ErrPlayRefused.
func (out *Output) FailNextPlay() {
	out.lock.Lock()
	out.failNextPlay = true
	out.lock.Unlock()
}

// SetFailPlay makes every Play call fail until disabled again.
func (out *Output) SetFailPlay(fail bool) {
	out.lock.Lock()
	out.failAllPlay = fail
	out.lock.Unlock()
}

// LoadedURL returns the resource the device currently points at.
func (out *Output) LoadedURL() string {
	out.lock.Lock()
	defer out.lock.Unlock()
	return out.url
}

// Playing reports whether the device believes it is playing.
func (out *Output) Playing() bool {
	out.lock.Lock()
	defer out.lock.Unlock()
	return out.playing
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
