package player

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"purps/src/library"
	"purps/src/util"
)

// TrackSource resolves track IDs to track data. The catalog implements this.
type TrackSource interface {
	Get(id string) (library.Track, bool)
}

// Status is a snapshot of the observable playback state.
type Status struct {
	TrackID string  `json:"trackid"`
	Playing bool    `json:"playing"`
	Time    float64 `json:"time"`
	Volume  float64 `json:"volume"`
}

// Session is the playback state machine. It owns the one audio output device
// of the process and keeps it synchronized with the logical playback state.
//
// A session is either idle (no current track) or loaded, and a loaded session
// is playing or paused. All actions are serialized; device events are
// consumed by a single goroutine and applied one at a time against the
// current state, never concurrently with an action.
type Session struct {
	util.Emitter

	out     Output
	queue   *Queue
	source  TrackSource
	metrics *Metrics

	lock      sync.Mutex
	currentID string
	duration  float64
	playing   bool
	time      float64
	volume    float64

	// pendingResume is armed when the device refused to start playback. The
	// next user interaction retries once.
	pendingResume bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSession(out Output, queue *Queue, source TrackSource, metrics *Metrics) *Session {
	s := &Session{
		out:     out,
		queue:   queue,
		source:  source,
		metrics: metrics,
		volume:  DefaultVolume,
		done:    make(chan struct{}),
	}
	out.SetVolume(s.volume)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
	return s
}

// Close detaches the session from the device's event stream. The device
// itself is left to its owner to close.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	events := s.out.Events().Listen(ctx)
	for event := range events {
		switch t := event.(type) {
		case TimeEvent:
			s.handleTime(t.Seconds)
		case EndedEvent:
			s.handleEnded()
		case ErrorEvent:
			log.Errorf("Audio output error: %v", t.Err)
			s.Emit(NoticeEvent{Level: "error", Message: "playback device error"})
		}
	}
}

// Select loads the specified track into the device and starts playing it.
// The queue cursor is aligned to the track's position when it is queued and
// left alone otherwise.
func (s *Session) Select(track library.Track) {
	s.lock.Lock()
	pending := s.selectLocked(track, true)
	s.lock.Unlock()
	s.emitAll(pending)
}

// selectLocked performs the Idle/Loaded transition and returns the events to
// broadcast once the lock is released.
func (s *Session) selectLocked(track library.Track, alignQueue bool) []interface{} {
	if s.currentID != "" {
		// Any selection ends the previous listen, including a restart of the
		// same track, so a replay may be credited again.
		s.metrics.EndListen(s.currentID)
	}
	s.currentID = track.ID
	s.duration = track.Duration
	s.time = 0
	if alignQueue {
		s.queue.JumpTo(track.ID)
	}

	s.out.Load(track.AudioURL)
	pending := []interface{}{TrackEvent{TrackID: track.ID}, TimeEvent{Seconds: 0}}

	if err := s.out.Play(); err != nil {
		log.Warnf("Could not start playback of %q: %v", track.Title, err)
		s.playing = false
		s.pendingResume = true
		pending = append(pending,
			PlayStateEvent{Playing: false},
			NoticeEvent{Level: "error", Message: "playback could not be started"},
		)
		return pending
	}
	s.playing = true
	s.pendingResume = false
	return append(pending, PlayStateEvent{Playing: true})
}

// TogglePlay flips between playing and paused. A no-op when idle.
func (s *Session) TogglePlay() {
	s.lock.Lock()
	if s.currentID == "" {
		s.lock.Unlock()
		return
	}
	var pending []interface{}
	if s.playing {
		s.out.Pause()
		s.playing = false
		pending = append(pending, PlayStateEvent{Playing: false})
	} else {
		s.pendingResume = false
		if err := s.out.Play(); err != nil {
			log.Warnf("Could not resume playback: %v", err)
			s.pendingResume = true
			pending = append(pending, NoticeEvent{Level: "error", Message: "playback could not be started"})
		} else {
			s.playing = true
			pending = append(pending, PlayStateEvent{Playing: true})
		}
	}
	s.lock.Unlock()
	s.emitAll(pending)
}

// Seek forwards the requested position to the device and updates the logical
// position optimistically. Bounding the value is left to the device and the
// UI. A no-op when idle.
func (s *Session) Seek(seconds float64) {
	s.lock.Lock()
	if s.currentID == "" {
		s.lock.Unlock()
		return
	}
	pending := s.retryPendingLocked()
	s.out.SetTime(seconds)
	s.time = seconds
	pending = append(pending, TimeEvent{Seconds: seconds})
	s.lock.Unlock()
	s.emitAll(pending)
}

// SetVolume forwards the volume to the device. The device's own [0, 1]
// domain applies; no further clamping happens here.
func (s *Session) SetVolume(volume float64) {
	s.lock.Lock()
	pending := s.retryPendingLocked()
	s.out.SetVolume(volume)
	s.volume = volume
	pending = append(pending, VolumeEvent{Volume: volume})
	s.lock.Unlock()
	s.emitAll(pending)
}

// Next advances the queue and plays the track at the new cursor. A no-op when
// the queue is empty.
func (s *Session) Next() {
	s.advance(1)
}

// Previous moves the queue cursor back and plays the track at the new cursor.
// A no-op when the queue is empty.
func (s *Session) Previous() {
	s.advance(-1)
}

func (s *Session) advance(direction int) {
	s.lock.Lock()
	pending := s.advanceLocked(direction)
	s.lock.Unlock()
	s.emitAll(pending)
}

func (s *Session) advanceLocked(direction int) []interface{} {
	id, ok := s.queue.Advance(direction)
	if !ok {
		return nil
	}
	track, ok := s.source.Get(id)
	if !ok {
		// Stale queue entry; the owner reconciles queue and catalog.
		log.Warnf("Queued track %q is not in the catalog", id)
		return nil
	}
	return s.selectLocked(track, false)
}

// Stop unloads the current track and returns to idle. Playback counters for
// the aborted listen are cleared.
func (s *Session) Stop() {
	s.lock.Lock()
	if s.currentID == "" {
		s.lock.Unlock()
		return
	}
	s.out.Pause()
	s.metrics.EndListen(s.currentID)
	s.currentID = ""
	s.duration = 0
	s.time = 0
	s.playing = false
	s.pendingResume = false
	s.lock.Unlock()
	s.emitAll([]interface{}{TrackEvent{}, PlayStateEvent{Playing: false}})
}

// Status returns a snapshot of the playback state.
func (s *Session) Status() Status {
	s.lock.Lock()
	defer s.lock.Unlock()
	return Status{
		TrackID: s.currentID,
		Playing: s.playing,
		Time:    s.time,
		Volume:  s.volume,
	}
}

// retryPendingLocked consumes an armed resume-on-interaction retry.
func (s *Session) retryPendingLocked() []interface{} {
	if !s.pendingResume {
		return nil
	}
	s.pendingResume = false
	if err := s.out.Play(); err != nil {
		log.Warnf("Could not resume playback: %v", err)
		return nil
	}
	s.playing = true
	return []interface{}{PlayStateEvent{Playing: true}}
}

func (s *Session) handleTime(seconds float64) {
	s.lock.Lock()
	if s.currentID == "" {
		s.lock.Unlock()
		return
	}
	s.time = seconds
	s.metrics.Observe(s.currentID, seconds, s.duration)
	s.lock.Unlock()
	s.Emit(TimeEvent{Seconds: seconds})
}

func (s *Session) handleEnded() {
	s.lock.Lock()
	if s.currentID == "" {
		s.lock.Unlock()
		return
	}
	finished := s.currentID

	// Auto-advance first, then clear the completed-play mark of the finished
	// track so a replay is credited again.
	pending := s.advanceLocked(1)
	if pending == nil {
		// Nothing left to play.
		s.currentID = ""
		s.duration = 0
		s.time = 0
		s.playing = false
		pending = []interface{}{TrackEvent{}, PlayStateEvent{Playing: false}}
	}
	s.metrics.EndListen(finished)
	s.lock.Unlock()
	s.emitAll(pending)
}

func (s *Session) emitAll(events []interface{}) {
	for _, event := range events {
		s.Emit(event)
	}
}
