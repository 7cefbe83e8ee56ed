package core

import "math"

// Reduce returns the state that results from applying a to s.
// It is pure: s is never mutated and the result depends only on (s, a).
// Actions whose preconditions do not hold leave the state unchanged.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionPlayTrack:
		if i := IndexOf(s.Playlist, a.Track.ID); i >= 0 && a.Track.ID != "" {
			s = moveTo(s, i)
		} else {
			s.Playlist = []Track{a.Track}
			s = reorder(s, 0)
			s = moveTo(s, 0)
		}
		s.IsPlaying = true

	case ActionSetPlaylist:
		if a.Index < 0 || a.Index >= len(a.Tracks) {
			return s
		}
		same := samePlaylist(s.Playlist, a.Tracks)
		s.Playlist = append([]Track(nil), a.Tracks...)
		if !same {
			s = reorder(s, a.Index)
		}
		s = moveTo(s, a.Index)
		s.IsPlaying = true

	case ActionTogglePlay:
		if s.HasTrack() {
			s.IsPlaying = !s.IsPlaying
		}

	case ActionSetPlaying:
		if s.HasTrack() || !a.Playing {
			s.IsPlaying = a.Playing
		}

	case ActionStop:
		s.IsPlaying = false

	case ActionSeek:
		if a.Seconds < 0 || math.IsNaN(a.Seconds) || math.IsInf(a.Seconds, 0) {
			return s
		}
		sec := a.Seconds
		s.PendingSeek = &sec

	case ActionClearSeek:
		s.PendingSeek = nil

	case ActionUpdateTime:
		if !math.IsNaN(a.Seconds) {
			s.CurrentTime = a.Seconds
		}

	case ActionNextTrack:
		if next := NextIndex(&s); next >= 0 {
			s = moveTo(s, next)
		}

	case ActionPreviousTrack:
		if prev := PreviousIndex(&s); prev >= 0 {
			s = moveTo(s, prev)
		}

	case ActionToggleShuffle:
		s.ShuffleEnabled = !s.ShuffleEnabled
		if s.ShuffleEnabled {
			s = reorder(s, s.CurrentIndex)
		} else {
			s.ShuffleOrder = nil
		}

	case ActionTrackEnded:
		if next := NextIndex(&s); next >= 0 {
			s = moveTo(s, next)
		} else {
			s.IsPlaying = false
		}
	}

	return s
}

// moveTo points the session at playlist[i]. Position and pending seek reset
// only when the track actually changes.
func moveTo(s State, i int) State {
	t := s.Playlist[i]
	changed := s.CurrentTrack == nil ||
		s.CurrentTrack.ID != t.ID ||
		s.CurrentTrack.AudioURL != t.AudioURL

	s.CurrentIndex = i
	s.CurrentTrack = &t
	if changed {
		s.CurrentTime = 0
		s.PendingSeek = nil
	}
	return s
}

// reorder rebuilds the shuffle order with first at the front. It is a no-op
// outside shuffle mode.
func reorder(s State, first int) State {
	if !s.ShuffleEnabled {
		s.ShuffleOrder = nil
		return s
	}
	if first < 0 {
		first = 0
	}
	s.ShuffleSeed = nextSeed(s.ShuffleSeed)
	s.ShuffleOrder = shuffleOrder(len(s.Playlist), first, s.ShuffleSeed)
	return s
}

func samePlaylist(a, b []Track) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
