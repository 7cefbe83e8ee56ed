package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/engine"
	"github.com/tessro/mixtape/internal/store"
)

type memCatalog struct {
	feed     []core.Track
	uploaded []core.Track
	liked    []core.Track
	err      error
	likedErr error
}

func (c *memCatalog) Feed(ctx context.Context, limit int) ([]core.Track, error) {
	return c.feed, c.err
}

func (c *memCatalog) Mix(ctx context.Context, id string) (*core.Track, error) {
	for i := range c.feed {
		if c.feed[i].ID == id {
			return &c.feed[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (c *memCatalog) Uploaded(ctx context.Context, user string) ([]core.Track, error) {
	return c.uploaded, nil
}

func (c *memCatalog) Liked(ctx context.Context, user string) ([]core.Track, error) {
	return c.liked, c.likedErr
}

type fixedPlayer struct{ status engine.Status }

func (p fixedPlayer) Status() engine.Status { return p.status }

func feedTracks() []core.Track {
	artists := []string{"Nadia", "Kofi", "Mara"}
	out := make([]core.Track, 3)
	for i := range out {
		out[i] = core.Track{
			ID:       fmt.Sprintf("mix%d", i),
			Title:    fmt.Sprintf("Mix %d", i),
			Artist:   artists[i],
			AudioURL: fmt.Sprintf("https://cdn.example.com/mix%d.mp3", i),
			Duration: 2 * time.Minute,
		}
	}
	return out
}

func setup(t *testing.T, opts Options) (Model, *store.Store, *App) {
	t.Helper()
	s := store.New(core.NewState(1), nil)
	cat := &memCatalog{feed: feedTracks()}
	app := NewApp(s, cat, fixedPlayer{}, opts, nil)

	m := NewModel(app)
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(m, m.fetchFeed()())
	return m, s, app
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keys(m Model, ks ...string) Model {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(m, msg)
	}
	return update(m, syncMsg{})
}

func TestEnterPlaysSelectedMix(t *testing.T) {
	m, s, _ := setup(t, Options{})

	m = keys(m, "down", "enter")

	st := s.State()
	if st.CurrentIndex != 1 || len(st.Playlist) != 3 || !st.IsPlaying {
		t.Fatalf("index = %d, playlist = %d, playing = %v", st.CurrentIndex, len(st.Playlist), st.IsPlaying)
	}
	if m.queue.Len() != 3 {
		t.Errorf("queue view has %d rows, want 3", m.queue.Len())
	}
}

func TestTransportKeys(t *testing.T) {
	m, s, _ := setup(t, Options{})
	m = keys(m, "enter")

	tests := []struct {
		key   string
		check func(core.State) bool
	}{
		{"space", func(st core.State) bool { return !st.IsPlaying }},
		{"space", func(st core.State) bool { return st.IsPlaying }},
		{"n", func(st core.State) bool { return st.CurrentIndex == 1 }},
		{"p", func(st core.State) bool { return st.CurrentIndex == 0 }},
		{"p", func(st core.State) bool { return st.CurrentIndex == 0 }},
		{"s", func(st core.State) bool { return st.ShuffleEnabled && st.CurrentIndex == 0 }},
	}
	for i, tt := range tests {
		m = keys(m, tt.key)
		if st := s.State(); !tt.check(st) {
			t.Errorf("step %d (%q): unexpected state index=%d playing=%v shuffle=%v",
				i, tt.key, st.CurrentIndex, st.IsPlaying, st.ShuffleEnabled)
		}
	}
}

func TestSeekKeysClamp(t *testing.T) {
	m, s, _ := setup(t, Options{SeekStep: 30})
	m = keys(m, "enter")

	m = keys(m, "left")
	if p := s.State().PendingSeek; p == nil || *p != 0 {
		t.Errorf("seek back from 0 = %v, want 0", p)
	}

	s.Dispatch(core.UpdateTime(110))
	m = keys(m, "right")
	if p := s.State().PendingSeek; p == nil || *p != 120 {
		t.Errorf("seek past end = %v, want 120 (duration)", p)
	}

	s.Dispatch(core.UpdateTime(40))
	_ = keys(m, "right")
	if p := s.State().PendingSeek; p == nil || *p != 70 {
		t.Errorf("seek forward = %v, want 70", p)
	}
}

func TestFilterThenPlay(t *testing.T) {
	m, s, _ := setup(t, Options{})

	m = keys(m, "/", "k", "o", "f", "i", "enter")
	if m.filtering {
		t.Fatal("enter should leave filter mode")
	}
	if m.feed.Len() != 1 {
		t.Fatalf("filtered rows = %d, want 1", m.feed.Len())
	}

	m = keys(m, "enter")
	if st := s.State(); st.CurrentIndex != 1 || st.CurrentTrack.Artist != "Kofi" {
		t.Errorf("played index %d, want 1 (Kofi)", st.CurrentIndex)
	}

	m = keys(m, "esc")
	if m.feed.Len() != 3 {
		t.Errorf("esc should clear filter, rows = %d", m.feed.Len())
	}
}

func TestViewsAndHelp(t *testing.T) {
	m, _, _ := setup(t, Options{})

	m = keys(m, "3")
	if m.view != ViewQueue {
		t.Fatalf("view = %v, want Queue", m.view)
	}
	m = keys(m, "?")
	if m.view != ViewHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("? should open help")
	}
	m = keys(m, "esc")
	if m.view != ViewQueue {
		t.Errorf("esc from help returned to %v, want Queue", m.view)
	}

	// Playback keys are ignored while help is open.
	m = keys(m, "?", "n")
	if m.view != ViewHelp {
		t.Error("help closed on unrelated key")
	}
}

func TestPlayerBarOnlyWithTrack(t *testing.T) {
	m, _, _ := setup(t, Options{})
	if strings.Contains(m.View(), "⏭") {
		t.Error("player bar rendered without a current track")
	}

	m = keys(m, "enter")
	out := m.View()
	if !strings.Contains(out, "Mix 0") || !strings.Contains(out, "⏭") {
		t.Errorf("player bar missing after play:\n%s", out)
	}
}

func TestProfileWithoutUser(t *testing.T) {
	m, _, _ := setup(t, Options{})
	m = update(m, m.fetchProfile()())
	m = keys(m, "2")

	if m.lastError != nil {
		t.Errorf("missing user should not surface as an error: %v", m.lastError)
	}
	if !strings.Contains(m.View(), "Set catalog.user") {
		t.Error("profile view should explain how to set a user")
	}
}

func TestProfileTabs(t *testing.T) {
	s := store.New(core.NewState(1), nil)
	cat := &memCatalog{
		uploaded: feedTracks()[:1],
		liked:    feedTracks()[1:],
	}
	m := NewModel(NewApp(s, cat, fixedPlayer{}, Options{User: "nadia"}, nil))
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(m, m.fetchProfile()())

	m = keys(m, "2")
	if m.activeList().Len() != 1 {
		t.Fatalf("uploaded rows = %d, want 1", m.activeList().Len())
	}
	m = keys(m, "t")
	if m.activeList().Len() != 2 {
		t.Fatalf("liked rows = %d, want 2", m.activeList().Len())
	}
	_ = keys(m, "down", "enter")
	if st := s.State(); st.CurrentTrack == nil || st.CurrentTrack.ID != "mix2" {
		t.Errorf("played %v, want mix2", st.CurrentTrack)
	}
}

func TestProfilePartialFailure(t *testing.T) {
	s := store.New(core.NewState(1), nil)
	cat := &memCatalog{
		uploaded: feedTracks()[:2],
		likedErr: errors.New("likes offline"),
	}
	m := NewModel(NewApp(s, cat, fixedPlayer{}, Options{User: "nadia"}, nil))
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(m, m.fetchProfile()())

	if m.loadingProfile {
		t.Error("profile still loading")
	}
	if m.lastError == nil || !strings.Contains(m.lastError.Error(), "liked: likes offline") {
		t.Errorf("lastError = %v, want liked failure", m.lastError)
	}
	m = keys(m, "2")
	if m.activeList().Len() != 2 {
		t.Errorf("uploaded rows = %d, want 2", m.activeList().Len())
	}
}

func TestOpenAndCopyLink(t *testing.T) {
	m, _, app := setup(t, Options{SiteURL: "https://mixtape.example.com/"})

	var opened, copied string
	app.OpenURL = func(u string) error { opened = u; return nil }
	app.CopyText = func(u string) error { copied = u; return nil }

	m = keys(m, "down")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if cmd == nil {
		t.Fatal("o returned no command")
	}
	if msg := cmd(); msg != noticeMsg("Opened https://mixtape.example.com/mix/mix1") {
		t.Errorf("msg = %v", msg)
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	cmd()

	want := "https://mixtape.example.com/mix/mix1"
	if opened != want || copied != want {
		t.Errorf("opened %q, copied %q, want %q", opened, copied, want)
	}
}

func TestMixLink(t *testing.T) {
	tr := core.Track{ID: "a b", AudioURL: "https://cdn.example.com/a.mp3"}
	if got := MixLink("", tr); got != tr.AudioURL {
		t.Errorf("MixLink without site = %q", got)
	}
	if got := MixLink("https://m.example.com", tr); got != "https://m.example.com/mix/a%20b" {
		t.Errorf("MixLink = %q", got)
	}
}

func TestHistoryTracksSkips(t *testing.T) {
	m, _, _ := setup(t, Options{})
	m = keys(m, "enter")
	m = keys(m, "n")

	entries := m.history.Entries()
	if len(entries) != 2 {
		t.Fatalf("history = %d entries, want 2", len(entries))
	}
	if entries[0].Track.ID != "mix1" || !entries[1].Skipped {
		t.Errorf("history = %+v", entries)
	}
}

func TestFeedErrorShown(t *testing.T) {
	s := store.New(core.NewState(1), nil)
	m := NewModel(NewApp(s, &memCatalog{err: errors.New("catalog down")}, nil, Options{}, nil))
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(m, m.fetchFeed()())

	if !strings.Contains(m.View(), "catalog down") {
		t.Error("feed error not shown in status bar")
	}
}

func TestWakerCoalesces(t *testing.T) {
	w := newWaker()
	for i := 0; i < 5; i++ {
		w.kick()
	}

	sent := 0
	done := make(chan struct{})
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(done)
	}()
	w.pump(done, func(tea.Msg) { sent++ }, 0)

	if sent != 1 {
		t.Errorf("sent %d messages for 5 kicks, want 1", sent)
	}
}

func TestWakerThrottles(t *testing.T) {
	w := newWaker()
	done := make(chan struct{})
	sent := make(chan struct{}, 10)
	go w.pump(done, func(tea.Msg) { sent <- struct{}{} }, time.Hour)
	defer close(done)

	w.kick()
	<-sent
	w.kick()

	select {
	case <-sent:
		t.Error("second message delivered inside the frame interval")
	case <-time.After(50 * time.Millisecond):
	}
}
