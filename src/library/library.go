package library

import (
	"sync"

	"github.com/google/uuid"

	"purps/src/util"
)

// UpdateEvent is emitted by the catalog after any mutation.
type UpdateEvent struct{}

// Catalog is the in-memory collection of all tracks known to the session.
//
// Insertion order is preserved for display purposes. The catalog is the sole
// owner of track value data; other components refer to tracks by ID and
// resolve through here.
type Catalog struct {
	util.Emitter

	lock   sync.RWMutex
	tracks []Track
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add constructs a track from the input, assigns it a fresh unique ID and
// zeroed counters and appends it to the catalog. The duration is expected to
// have been resolved by the caller, falling back to FallbackDuration.
func (c *Catalog) Add(input TrackInput) Track {
	duration := input.Duration
	if duration <= 0 {
		duration = FallbackDuration
	}
	track := Track{
		ID:       uuid.New().String(),
		Title:    input.Title,
		Artist:   input.Artist,
		CoverURL: input.CoverURL,
		AudioURL: input.AudioURL,
		Duration: duration,
	}

	c.lock.Lock()
	c.tracks = append(c.tracks, track)
	c.lock.Unlock()

	c.Emit(UpdateEvent{})
	return track
}

// Seed replaces the catalog contents. Intended for initial population only,
// before any other component holds references into the catalog.
func (c *Catalog) Seed(tracks []Track) {
	c.lock.Lock()
	c.tracks = append([]Track{}, tracks...)
	c.lock.Unlock()
	c.Emit(UpdateEvent{})
}

// Remove deletes the track with the specified ID. Removing an unknown ID is a
// no-op.
func (c *Catalog) Remove(id string) bool {
	c.lock.Lock()
	removed := false
	for i, track := range c.tracks {
		if track.ID == id {
			c.tracks = append(c.tracks[:i], c.tracks[i+1:]...)
			removed = true
			break
		}
	}
	c.lock.Unlock()

	if removed {
		c.Emit(UpdateEvent{})
	}
	return removed
}

// Like increments the like counter of the specified track. Unknown IDs are a
// no-op.
func (c *Catalog) Like(id string) bool {
	return c.mutate(id, func(track *Track) {
		track.Likes++
	})
}

// CreditPlay increments the play counter of the specified track. Deduplication
// per listen-through is the caller's responsibility.
func (c *Catalog) CreditPlay(id string) bool {
	return c.mutate(id, func(track *Track) {
		track.Plays++
	})
}

func (c *Catalog) mutate(id string, fn func(*Track)) bool {
	c.lock.Lock()
	found := false
	for i := range c.tracks {
		if c.tracks[i].ID == id {
			fn(&c.tracks[i])
			found = true
			break
		}
	}
	c.lock.Unlock()

	if found {
		c.Emit(UpdateEvent{})
	}
	return found
}

// Get looks up a track by ID.
func (c *Catalog) Get(id string) (Track, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	for _, track := range c.tracks {
		if track.ID == id {
			return track, true
		}
	}
	return Track{}, false
}

// Tracks returns a snapshot of all tracks in insertion order.
func (c *Catalog) Tracks() []Track {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return append([]Track{}, c.tracks...)
}

// IDs returns the IDs of all tracks in insertion order.
func (c *Catalog) IDs() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	ids := make([]string, len(c.tracks))
	for i, track := range c.tracks {
		ids[i] = track.ID
	}
	return ids
}

func (c *Catalog) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.tracks)
}
