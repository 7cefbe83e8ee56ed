package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tessro/mixtape/internal/config"
	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/engine"
	"github.com/tessro/mixtape/internal/tail"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title", 10, "a longe..."},
		{"abcdef", 3, "abc"},
		{"日本語のミックス", 9, "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := TruncateString(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestRenderMixes(t *testing.T) {
	tracks := mixes("f", 2)
	tracks[0].PlayCount = 12345
	tracks[0].Duration = 90 * time.Minute

	var buf bytes.Buffer
	renderMixes(&buf, tracks)
	out := buf.String()

	for _, want := range []string{"TITLE", "ARTIST", "f0", "Mix 1", "12,345", "1:30:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestMixesJSONLinks(t *testing.T) {
	defer func(prev *config.Config) { cfg = prev }(cfg)

	track := core.Track{ID: "a b", Title: "Late Night", AudioURL: "https://cdn.example.com/ab.mp3"}

	tests := []struct {
		name string
		site string
		want string
	}{
		{"no site falls back to audio", "", "https://cdn.example.com/ab.mp3"},
		{"site link", "https://mixes.example.com/", "https://mixes.example.com/mix/a%20b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = config.Default()
			cfg.TUI.SiteURL = tt.site

			var buf bytes.Buffer
			if err := PrintJSON(&buf, mixesJSON([]core.Track{track})); err != nil {
				t.Fatal(err)
			}
			var got []map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 || got[0]["link"] != tt.want || got[0]["title"] != "Late Night" {
				t.Errorf("json = %v, want link %q", got, tt.want)
			}
		})
	}
}

func TestEventJSON(t *testing.T) {
	tracks := mixes("f", 2)
	st := core.Reduce(core.NewState(1), core.SetPlaylist(tracks, 1))
	e := tail.Event{
		Type:      tail.EventTrackChange,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Origin:    core.OriginMedia,
		Current:   st,
	}

	got := toEventJSON(e)
	if got.Type != "track_change" {
		t.Errorf("Type = %q, want track_change", got.Type)
	}
	if got.Mix == nil || got.Mix.ID != "f1" {
		t.Errorf("Mix = %v, want f1", got.Mix)
	}
	if !got.Playing {
		t.Error("Playing = false, want true")
	}

	var buf bytes.Buffer
	if err := writeJSONLine(&buf, got); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("event JSON spans several lines: %q", buf.String())
	}

	e.Current = core.NewState(1)
	if toEventJSON(e).Mix != nil {
		t.Error("Mix should be omitted without a track")
	}
}

func TestLoadErrors(t *testing.T) {
	onStatus, ch := loadErrors()

	onStatus(engine.Status{Loading: true, Progress: 40})
	select {
	case err := <-ch:
		t.Fatalf("got %v for a healthy status", err)
	default:
	}

	boom := errors.New("boom")
	onStatus(engine.Status{Err: boom})
	onStatus(engine.Status{Err: boom})

	if err := <-ch; !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
}
