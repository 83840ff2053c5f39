package library

import "github.com/google/uuid"

// DemoTracks returns a small starter catalog so a fresh session has something
// to play before anything is uploaded.
func DemoTracks() []Track {
	return []Track{
		{
			ID:       uuid.New().String(),
			Title:    "Midnight City",
			Artist:   "M83",
			CoverURL: "https://images.unsplash.com/photo-1518770660439-4636190af475?w=400&h=400&fit=crop",
			AudioURL: "https://assets.mixkit.co/music/preview/mixkit-tech-house-vibes-130.mp3",
			Duration: 146,
		},
		{
			ID:       uuid.New().String(),
			Title:    "Electric Dreams",
			Artist:   "Synth Wave",
			CoverURL: "https://images.unsplash.com/photo-1531297484001-80022131f5a1?w=400&h=400&fit=crop",
			AudioURL: "https://assets.mixkit.co/music/preview/mixkit-hip-hop-02-621.mp3",
			Duration: 180,
		},
		{
			ID:       uuid.New().String(),
			Title:    "Deep Waters",
			Artist:   "Ocean Mind",
			CoverURL: "https://images.unsplash.com/photo-1470813740244-df37b8c1edcb?w=400&h=400&fit=crop",
			AudioURL: "https://assets.mixkit.co/music/preview/mixkit-serene-view-443.mp3",
			Duration: 131,
		},
	}
}
