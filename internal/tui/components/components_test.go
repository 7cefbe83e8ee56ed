package components

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/engine"
)

func mixes() []core.Track {
	return []core.Track{
		{ID: "a", Title: "Deep Hours", Artist: "Nadia", Genre: "house"},
		{ID: "b", Title: "Night Drive", Artist: "Kofi", Genre: "techno"},
		{ID: "c", Title: "Slow Sunday", Artist: "Nadia", Genre: "ambient"},
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a bit too long", 8, "a bit t…"},
		{"日本語のミックス", 5, "日本…"},
		{"anything", 1, "…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{95 * time.Second, "1:35"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMixListFilterKeepsPlaylistIndexes(t *testing.T) {
	l := NewMixList()
	l.SetTracks(mixes())

	l.SetFilter("nadia")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	l.Down()
	if got := l.Selected(); got != 2 {
		t.Errorf("Selected() = %d, want 2 (index in full list)", got)
	}

	l.SetFilter("TECHNO")
	if l.Len() != 1 || l.Selected() != 1 {
		t.Errorf("Len() = %d, Selected() = %d, want 1, 1", l.Len(), l.Selected())
	}

	l.SetFilter("nothing matches")
	if l.Selected() != -1 {
		t.Errorf("Selected() = %d on empty result, want -1", l.Selected())
	}
	if _, ok := l.SelectedTrack(); ok {
		t.Error("SelectedTrack() ok on empty result")
	}

	l.SetFilter("")
	if l.Len() != 3 {
		t.Errorf("Len() = %d after clearing filter, want 3", l.Len())
	}
}

func TestMixListCursorBounds(t *testing.T) {
	l := NewMixList()
	l.SetTracks(mixes())

	l.Up()
	if l.Selected() != 0 {
		t.Errorf("Selected() = %d after Up at top, want 0", l.Selected())
	}
	for i := 0; i < 10; i++ {
		l.Down()
	}
	if l.Selected() != 2 {
		t.Errorf("Selected() = %d after Down past end, want 2", l.Selected())
	}

	l.SetTracks(mixes()[:1])
	if l.Selected() != 0 {
		t.Errorf("Selected() = %d after shrink, want 0", l.Selected())
	}
}

func TestMixListRender(t *testing.T) {
	l := NewMixList()
	l.SetTracks(mixes())
	out := l.Render("Feed", "No mixes", 80, 12, true, "b")
	for _, want := range []string{"Feed", "Deep Hours", "Night Drive", "Kofi"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	empty := NewMixList().Render("Feed", "No mixes", 80, 12, false, "")
	if !strings.Contains(empty, "No mixes") {
		t.Error("empty list should show placeholder")
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory()
	now := time.Now()
	for i := 0; i < MaxHistory+5; i++ {
		h.Add(core.Track{ID: fmt.Sprint(i), Title: fmt.Sprint("Mix ", i)}, now)
	}
	if len(h.Entries()) != MaxHistory {
		t.Fatalf("len = %d, want %d", len(h.Entries()), MaxHistory)
	}
	if h.Entries()[0].Track.ID != fmt.Sprint(MaxHistory+4) {
		t.Errorf("newest entry = %s", h.Entries()[0].Track.ID)
	}

	h.MarkSkipped()
	if !h.Entries()[0].Skipped {
		t.Error("MarkSkipped did not flag newest entry")
	}
}

func TestPlayerBar(t *testing.T) {
	bar := NewPlayerBar()

	empty := core.NewState(1)
	if got := bar.Render(&empty, engine.Status{}, 80); got != "" {
		t.Errorf("Render without track = %q, want empty", got)
	}

	st := core.Reduce(core.NewState(1), core.SetPlaylist(mixes(), 1))
	tests := []struct {
		name   string
		status engine.Status
		want   string
	}{
		{"loading", engine.Status{Loading: true, Progress: 42}, "Loading 42%"},
		{"error", engine.Status{Loading: true, Err: fmt.Errorf("boom")}, "Could not load mix"},
		{"ready", engine.Status{Ready: true, Duration: 90 * time.Second, Peaks: []float64{0.2, 1, 0.5}}, "1:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := bar.Render(&st, tt.status, 100)
			for _, want := range []string{"Night Drive", "Kofi", tt.want} {
				if !strings.Contains(out, want) {
					t.Errorf("render missing %q:\n%s", want, out)
				}
			}
		})
	}
}
