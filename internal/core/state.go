package core

// State is the playback session: what is loaded, whether it plays, and the
// queue it was picked from.
type State struct {
	CurrentTrack   *Track   `json:"current_track"`
	IsPlaying      bool     `json:"is_playing"`
	Playlist       []Track  `json:"playlist"`
	CurrentIndex   int      `json:"current_index"`
	ShuffleEnabled bool     `json:"shuffle_enabled"`
	CurrentTime    float64  `json:"current_time"`
	PendingSeek    *float64 `json:"pending_seek,omitempty"`

	// ShuffleOrder is a permutation of playlist indices walked under shuffle.
	ShuffleOrder []int `json:"-"`
	ShuffleSeed  int64 `json:"-"`
}

// NewState returns an empty session state. The seed drives shuffle order.
func NewState(seed int64) State {
	return State{
		CurrentIndex: -1,
		ShuffleSeed:  seed,
	}
}

// HasTrack returns true if there is a loaded track.
func (s *State) HasTrack() bool {
	return s != nil && s.CurrentTrack != nil
}

// AudioURL returns the source locator of the current track, or "".
func (s *State) AudioURL() string {
	if !s.HasTrack() {
		return ""
	}
	return s.CurrentTrack.AudioURL
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *State) ProgressPercent() float64 {
	if !s.HasTrack() || s.CurrentTrack.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.CurrentTrack.Duration.Seconds() * 100
	if p > 100 {
		return 100
	}
	return p
}

// Consistent reports whether CurrentTrack and CurrentIndex agree with the
// playlist.
func (s *State) Consistent() bool {
	if len(s.Playlist) == 0 {
		return s.CurrentIndex == -1 && s.CurrentTrack == nil
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Playlist) || s.CurrentTrack == nil {
		return false
	}
	return s.CurrentTrack.ID == s.Playlist[s.CurrentIndex].ID &&
		s.CurrentTrack.AudioURL == s.Playlist[s.CurrentIndex].AudioURL
}
