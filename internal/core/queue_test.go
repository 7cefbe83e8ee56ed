package core

import "testing"

func TestCanNextCanPrevious(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		wantPrev bool
		wantNext bool
	}{
		{"first", 0, false, true},
		{"middle", 1, true, true},
		{"last", 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := apply(NewState(1), SetPlaylist(testTracks(3), tt.index))
			if got := CanPrevious(&s); got != tt.wantPrev {
				t.Errorf("CanPrevious() = %v, want %v", got, tt.wantPrev)
			}
			if got := CanNext(&s); got != tt.wantNext {
				t.Errorf("CanNext() = %v, want %v", got, tt.wantNext)
			}
		})
	}
}

func TestEmptyPlaylistNavigation(t *testing.T) {
	s := NewState(1)
	if NextIndex(&s) != -1 || PreviousIndex(&s) != -1 {
		t.Error("navigation on empty playlist should return -1")
	}
	if Upcoming(&s) != nil {
		t.Error("Upcoming() on empty playlist should be nil")
	}
}

func TestShuffleVisitsEveryTrackOnce(t *testing.T) {
	s := apply(NewState(42), SetPlaylist(testTracks(8), 3), ToggleShuffle())

	if s.CurrentIndex != 3 {
		t.Fatalf("ToggleShuffle moved the current track to %d", s.CurrentIndex)
	}
	if s.ShuffleOrder[0] != 3 {
		t.Errorf("ShuffleOrder[0] = %d, want current index 3", s.ShuffleOrder[0])
	}

	seen := map[int]bool{s.CurrentIndex: true}
	for CanNext(&s) {
		s = Reduce(s, NextTrack())
		if seen[s.CurrentIndex] {
			t.Fatalf("index %d visited twice", s.CurrentIndex)
		}
		seen[s.CurrentIndex] = true
	}
	if len(seen) != 8 {
		t.Errorf("visited %d tracks, want 8", len(seen))
	}

	// At the end of the order NextTrack is a no-op.
	last := s.CurrentIndex
	s = Reduce(s, NextTrack())
	if s.CurrentIndex != last {
		t.Errorf("NextTrack at end of shuffle order moved to %d", s.CurrentIndex)
	}
}

func TestShufflePreviousRetracesOrder(t *testing.T) {
	s := apply(NewState(9), SetPlaylist(testTracks(5), 0), ToggleShuffle())
	first := s.CurrentIndex

	s = apply(s, NextTrack(), NextTrack(), PreviousTrack(), PreviousTrack())
	if s.CurrentIndex != first {
		t.Errorf("CurrentIndex = %d, want %d", s.CurrentIndex, first)
	}
	if CanPrevious(&s) {
		t.Error("CanPrevious() = true at start of shuffle order")
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	a := apply(NewState(5), SetPlaylist(testTracks(6), 2), ToggleShuffle())
	b := apply(NewState(5), SetPlaylist(testTracks(6), 2), ToggleShuffle())

	for i := range a.ShuffleOrder {
		if a.ShuffleOrder[i] != b.ShuffleOrder[i] {
			t.Fatalf("orders differ at %d: %v vs %v", i, a.ShuffleOrder, b.ShuffleOrder)
		}
	}
}

func TestShuffleOffRestoresSequentialOrder(t *testing.T) {
	s := apply(NewState(3), SetPlaylist(testTracks(4), 1), ToggleShuffle(), ToggleShuffle())
	if s.ShuffleOrder != nil {
		t.Error("ShuffleOrder should be cleared when shuffle is off")
	}
	if NextIndex(&s) != 2 {
		t.Errorf("NextIndex() = %d, want 2", NextIndex(&s))
	}
}

func TestQueueSelectionKeepsOrder(t *testing.T) {
	tracks := testTracks(5)
	s := apply(NewState(11), SetPlaylist(tracks, 0), ToggleShuffle())
	order := append([]int(nil), s.ShuffleOrder...)

	s = Reduce(s, SetPlaylist(s.Playlist, 4))
	if s.CurrentIndex != 4 {
		t.Errorf("CurrentIndex = %d, want 4", s.CurrentIndex)
	}
	for i := range order {
		if s.ShuffleOrder[i] != order[i] {
			t.Fatalf("shuffle order changed on queue selection: %v -> %v", order, s.ShuffleOrder)
		}
	}
	for i := range tracks {
		if s.Playlist[i].ID != tracks[i].ID {
			t.Fatalf("playlist order changed at %d", i)
		}
	}
}

func TestUpcoming(t *testing.T) {
	s := apply(NewState(1), SetPlaylist(testTracks(4), 1))
	got := Upcoming(&s)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Upcoming() = %v, want [2 3]", got)
	}
}
