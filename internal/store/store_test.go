package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/tessro/mixtape/internal/core"
)

func tracks(n int) []core.Track {
	out := make([]core.Track, n)
	for i := range out {
		out[i] = core.Track{ID: fmt.Sprintf("mix%d", i), AudioURL: fmt.Sprintf("file:///mix%d.mp3", i)}
	}
	return out
}

func TestDispatchNotifiesListeners(t *testing.T) {
	s := New(core.NewState(1), nil)

	var got []core.ActionType
	s.Subscribe(func(prev, next core.State, a core.Action) {
		got = append(got, a.Type)
	})

	s.Dispatch(core.SetPlaylist(tracks(2), 0))
	s.Dispatch(core.TogglePlay())

	if len(got) != 2 || got[0] != core.ActionSetPlaylist || got[1] != core.ActionTogglePlay {
		t.Errorf("listener saw %v", got)
	}
	if s.State().IsPlaying {
		t.Error("IsPlaying = true, want false after toggle")
	}
}

func TestReentrantDispatchIsQueued(t *testing.T) {
	s := New(core.NewState(1), nil)

	var order []string
	s.Subscribe(func(prev, next core.State, a core.Action) {
		order = append(order, "a:"+a.Type.String())
		if a.Type == core.ActionSeek {
			s.Dispatch(core.ClearSeek())
			// The nested action must not have been applied yet.
			if s.State().PendingSeek == nil {
				t.Error("nested dispatch applied before outer notification finished")
			}
		}
	})
	s.Subscribe(func(prev, next core.State, a core.Action) {
		order = append(order, "b:"+a.Type.String())
	})

	s.Dispatch(core.Seek(12))

	want := []string{"a:SEEK", "b:SEEK", "a:CLEAR_SEEK", "b:CLEAR_SEEK"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
	if s.State().PendingSeek != nil {
		t.Error("PendingSeek should be cleared")
	}
}

func TestUnsubscribe(t *testing.T) {
	s := New(core.NewState(1), nil)

	calls := 0
	unsubscribe := s.Subscribe(func(prev, next core.State, a core.Action) { calls++ })

	s.Dispatch(core.Stop())
	unsubscribe()
	unsubscribe()
	s.Dispatch(core.Stop())

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestConcurrentDispatchKeepsInvariant(t *testing.T) {
	s := New(core.NewState(1), nil)
	s.Dispatch(core.SetPlaylist(tracks(5), 0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if (i+j)%2 == 0 {
					s.Dispatch(core.NextTrack())
				} else {
					s.Dispatch(core.PreviousTrack())
				}
			}
		}(i)
	}
	wg.Wait()

	st := s.State()
	if !st.Consistent() {
		t.Errorf("state inconsistent: index %d, track %v", st.CurrentIndex, st.CurrentTrack)
	}
}
