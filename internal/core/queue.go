package core

import "math/rand"

// NextIndex returns the playlist index that follows the current one in play
// order, or -1 at the end of the queue.
func NextIndex(s *State) int {
	if len(s.Playlist) == 0 || s.CurrentIndex < 0 {
		return -1
	}
	if s.ShuffleEnabled {
		if pos := shufflePosition(s); pos >= 0 {
			if pos+1 < len(s.ShuffleOrder) {
				return s.ShuffleOrder[pos+1]
			}
			return -1
		}
	}
	if s.CurrentIndex+1 < len(s.Playlist) {
		return s.CurrentIndex + 1
	}
	return -1
}

// PreviousIndex returns the playlist index that precedes the current one in
// play order, or -1 at the start of the queue.
func PreviousIndex(s *State) int {
	if len(s.Playlist) == 0 || s.CurrentIndex < 0 {
		return -1
	}
	if s.ShuffleEnabled {
		if pos := shufflePosition(s); pos >= 0 {
			if pos > 0 {
				return s.ShuffleOrder[pos-1]
			}
			return -1
		}
	}
	if s.CurrentIndex > 0 {
		return s.CurrentIndex - 1
	}
	return -1
}

// CanNext reports whether a next control should be enabled.
func CanNext(s *State) bool {
	return NextIndex(s) >= 0
}

// CanPrevious reports whether a previous control should be enabled.
func CanPrevious(s *State) bool {
	return PreviousIndex(s) >= 0
}

// Upcoming returns the playlist indices after the current one, in play order.
func Upcoming(s *State) []int {
	if len(s.Playlist) == 0 || s.CurrentIndex < 0 {
		return nil
	}
	if s.ShuffleEnabled {
		if pos := shufflePosition(s); pos >= 0 {
			return append([]int(nil), s.ShuffleOrder[pos+1:]...)
		}
	}
	var out []int
	for i := s.CurrentIndex + 1; i < len(s.Playlist); i++ {
		out = append(out, i)
	}
	return out
}

// shufflePosition returns where the current index sits in the shuffle order.
func shufflePosition(s *State) int {
	if len(s.ShuffleOrder) != len(s.Playlist) {
		return -1
	}
	for pos, idx := range s.ShuffleOrder {
		if idx == s.CurrentIndex {
			return pos
		}
	}
	return -1
}

// shuffleOrder builds a seeded permutation of [0,n) with first at the front.
func shuffleOrder(n, first int, seed int64) []int {
	if n == 0 {
		return nil
	}
	order := rand.New(rand.NewSource(seed)).Perm(n)
	for i, v := range order {
		if v == first {
			order[0], order[i] = order[i], order[0]
			break
		}
	}
	return order
}

// nextSeed advances a shuffle seed with a SplitMix64 step.
func nextSeed(seed int64) int64 {
	z := uint64(seed) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
