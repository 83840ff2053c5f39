package library

import "fmt"

// FallbackDuration is used for tracks whose real length could not be
// determined from the audio resource.
const FallbackDuration = 180.0

// Track holds all information associated with a single piece of music.
//
// The ID is assigned by the catalog on insertion and never changes. Likes and
// Plays only ever count up.
type Track struct {
	ID       string  `json:"id"`
	Title    string  `json:"title,omitempty"`
	Artist   string  `json:"artist,omitempty"`
	CoverURL string  `json:"coverurl,omitempty"`
	AudioURL string  `json:"audiourl"`
	Duration float64 `json:"duration"`
	Likes    int     `json:"likes"`
	Plays    int     `json:"plays"`
}

// TrackInput carries the user supplied fields for a new track.
type TrackInput struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	CoverURL string  `json:"coverurl"`
	AudioURL string  `json:"audiourl"`
	Duration float64 `json:"duration,omitempty"`
}

func (track Track) String() string {
	return fmt.Sprintf("%s - %s (%.0fs)", track.Artist, track.Title, track.Duration)
}
