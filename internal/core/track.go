package core

import "time"

// Track represents a playable mix.
type Track struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Artist     string        `json:"artist,omitempty"`
	Genre      string        `json:"genre,omitempty"`
	AudioURL   string        `json:"audio_url"`
	CoverURL   string        `json:"cover_url,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	PlayCount  int64         `json:"play_count"`
	LikeCount  int64         `json:"like_count"`
	UploadedBy string        `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// DisplayArtist returns the artist, or a placeholder when the mix has none.
func (t *Track) DisplayArtist() string {
	if t == nil || t.Artist == "" {
		return "Unknown artist"
	}
	return t.Artist
}

// IndexOf returns the position of the track with the given ID, or -1.
func IndexOf(tracks []Track, id string) int {
	for i := range tracks {
		if tracks[i].ID == id {
			return i
		}
	}
	return -1
}
