// Package jukebox ties the catalog, the shuffle queue and the playback
// session together and exposes the action surface consumed by the web UI.
package jukebox

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"purps/src/library"
	"purps/src/library/probe"
	"purps/src/player"
	"purps/src/util"
)

// Status is the observable state snapshot handed to the UI.
type Status struct {
	Track   *library.Track `json:"track"`
	Playing bool           `json:"playing"`
	Time    float64        `json:"time"`
	Volume  float64        `json:"volume"`
}

// Jukebox serializes all catalog and queue mutations and enforces their
// ordering relative to playback. Events from the catalog and the session are
// re-broadcast on the jukebox's own emitter.
type Jukebox struct {
	util.Emitter

	catalog *library.Catalog
	queue   *player.Queue
	session *player.Session
	prober  *probe.Prober

	lock        sync.Mutex
	initialized bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires up a jukebox. The prober may be nil, in which case added tracks
// get the fallback duration and no metadata enrichment.
func New(catalog *library.Catalog, queue *player.Queue, session *player.Session, prober *probe.Prober) *Jukebox {
	jb := &Jukebox{
		catalog: catalog,
		queue:   queue,
		session: session,
		prober:  prober,
	}

	ctx, cancel := context.WithCancel(context.Background())
	jb.cancel = cancel
	jb.forward(ctx, &catalog.Emitter)
	jb.forward(ctx, &session.Emitter)
	return jb
}

func (jb *Jukebox) forward(ctx context.Context, emitter *util.Emitter) {
	jb.wg.Add(1)
	go func() {
		defer jb.wg.Done()
		for event := range emitter.Listen(ctx) {
			jb.Emit(event)
		}
	}()
}

// Close stops the event forwarding. The session and device are owned by the
// caller.
func (jb *Jukebox) Close() {
	jb.cancel()
	jb.wg.Wait()
}

// InitSession starts playback of the first queued track. Calling it again
// while the session lives is a no-op.
func (jb *Jukebox) InitSession() {
	jb.lock.Lock()
	defer jb.lock.Unlock()
	if jb.initialized {
		return
	}
	jb.initialized = true

	if jb.queue.Len() == 0 {
		jb.queue.Regenerate(jb.catalog.IDs())
	}
	if st := jb.session.Status(); st.TrackID == "" {
		if id, ok := jb.queue.Current(); ok {
			if track, ok := jb.catalog.Get(id); ok {
				jb.session.Select(track)
			}
		}
	}
}

// AddTrack resolves the track's duration and missing metadata from the audio
// resource, appends it to the catalog and reshuffles the queue over the
// grown catalog.
func (jb *Jukebox) AddTrack(ctx context.Context, input library.TrackInput) library.Track {
	if jb.prober != nil && input.Duration <= 0 {
		meta := jb.prober.Probe(ctx, input.AudioURL)
		input.Duration = meta.Duration
		if input.Title == "" {
			input.Title = meta.Title
		}
		if input.Artist == "" {
			input.Artist = meta.Artist
		}
	}

	jb.lock.Lock()
	track := jb.catalog.Add(input)
	jb.queue.Regenerate(jb.catalog.IDs())
	jb.lock.Unlock()

	log.Infof("Added track %v", track)
	jb.Emit(player.NoticeEvent{Level: "info", Message: fmt.Sprintf("Added %q", track.Title)})
	return track
}

// RemoveTrack deletes the track from the catalog and the queue. When the
// track is the one currently loaded, playback is advanced to the next track
// before the removal is applied, so by the time this returns the track is
// gone and playback has moved on. Unknown IDs are a no-op.
func (jb *Jukebox) RemoveTrack(id string) {
	jb.lock.Lock()
	defer jb.lock.Unlock()

	track, ok := jb.catalog.Get(id)
	if !ok {
		return
	}
	if st := jb.session.Status(); st.TrackID == id {
		if jb.catalog.Len() <= 1 {
			// Nothing to advance to.
			jb.session.Stop()
		} else {
			jb.session.Next()
		}
	}
	jb.queue.Exclude(id)
	jb.catalog.Remove(id)
	log.Infof("Removed track %v", track)
}

// LikeTrack increments the track's like counter. Unknown IDs are a no-op.
func (jb *Jukebox) LikeTrack(id string) {
	jb.catalog.Like(id)
}

// SelectTrack starts playback of the specified track. Unknown IDs are a
// no-op.
func (jb *Jukebox) SelectTrack(id string) {
	if track, ok := jb.catalog.Get(id); ok {
		jb.session.Select(track)
	}
}

func (jb *Jukebox) TogglePlay() {
	jb.session.TogglePlay()
}

func (jb *Jukebox) Seek(seconds float64) {
	jb.session.Seek(seconds)
}

func (jb *Jukebox) SetVolume(volume float64) {
	jb.session.SetVolume(volume)
}

func (jb *Jukebox) Next() {
	jb.session.Next()
}

func (jb *Jukebox) Previous() {
	jb.session.Previous()
}

// Tracks returns the catalog in insertion order.
func (jb *Jukebox) Tracks() []library.Track {
	return jb.catalog.Tracks()
}

// Status resolves the current playback state. The track is looked up in the
// catalog so its counters are always fresh.
func (jb *Jukebox) Status() Status {
	st := jb.session.Status()
	status := Status{
		Playing: st.Playing,
		Time:    st.Time,
		Volume:  st.Volume,
	}
	if st.TrackID != "" {
		if track, ok := jb.catalog.Get(st.TrackID); ok {
			status.Track = &track
		}
	}
	return status
}
