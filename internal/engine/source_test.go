package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCodec(t *testing.T) {
	tests := []struct {
		source      string
		contentType string
		want        string
	}{
		{"https://cdn.example.com/a.mp3", "", "mp3"},
		{"https://cdn.example.com/a.flac?token=x", "", "flac"},
		{"https://cdn.example.com/a", "audio/wav", "wav"},
		{"https://cdn.example.com/a", "audio/ogg", "vorbis"},
		{"https://cdn.example.com/a.wav", "audio/mpeg", "mp3"},
		{"/music/set.OGG", "", "vorbis"},
		{"/music/set", "", "mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.source+tt.contentType, func(t *testing.T) {
			if got := codec(tt.source, tt.contentType); got != tt.want {
				t.Errorf("codec(%q, %q) = %q, want %q", tt.source, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestFetchHTTPReportsProgress(t *testing.T) {
	body := strings.Repeat("x", 100*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	var progress []int
	data, ct, err := fetch(context.Background(), srv.Client(), srv.URL+"/a.mp3", func(p int) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("fetch() error = %v", err)
	}
	if len(data) != len(body) {
		t.Errorf("len(data) = %d, want %d", len(data), len(body))
	}
	if ct != "audio/mpeg" {
		t.Errorf("content type = %q", ct)
	}
	if len(progress) == 0 || progress[len(progress)-1] != 100 {
		t.Fatalf("progress = %v, want to end at 100", progress)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Errorf("progress went backwards: %v", progress)
		}
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := fetch(context.Background(), srv.Client(), srv.URL+"/missing.mp3", func(int) {})
	if err == nil {
		t.Fatal("fetch() error = nil for 404")
	}
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := fetch(ctx, srv.Client(), srv.URL+"/slow.mp3", func(int) {})
	if err == nil {
		t.Fatal("fetch() error = nil for cancelled context")
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, source := range []string{path, "file://" + path} {
		data, _, err := fetch(context.Background(), http.DefaultClient, source, func(int) {})
		if err != nil {
			t.Fatalf("fetch(%q) error = %v", source, err)
		}
		if string(data) != "RIFF" {
			t.Errorf("fetch(%q) = %q", source, data)
		}
	}
}

func TestBeepLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewBeep(nil)(Options{})
	defer e.Destroy()
	if err := e.Load(context.Background(), path); err == nil {
		t.Fatal("Load() error = nil for undecodable file")
	}
	if e.Duration() != 0 || e.IsPlaying() {
		t.Error("failed engine reports duration or playback")
	}
}

func TestBeepDestroyedEngine(t *testing.T) {
	e := NewBeep(nil)(Options{})
	e.Destroy()
	e.Destroy()

	if err := e.Load(context.Background(), "/nonexistent.mp3"); err != ErrDestroyed {
		t.Errorf("Load() after Destroy = %v, want ErrDestroyed", err)
	}
	if err := e.Play(); err != ErrDestroyed {
		t.Errorf("Play() after Destroy = %v, want ErrDestroyed", err)
	}
}
