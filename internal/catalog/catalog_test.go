package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tessro/mixtape/internal/config"
	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

func TestLoadProfile(t *testing.T) {
	src := newMemSource(
		core.Track{ID: "a", AudioURL: "a.mp3", UploadedBy: "u1"},
		core.Track{ID: "b", AudioURL: "b.mp3", UploadedBy: "u2"},
	)

	res := LoadProfile(context.Background(), src, "u1")
	if res.HasErrors() {
		t.Fatalf("errors: %s", res.ErrorSummary())
	}
	if len(res.Data.Uploaded) != 1 || len(res.Data.Liked) != 2 {
		t.Errorf("profile = %+v", res.Data)
	}
}

func TestLoadProfileWithoutUser(t *testing.T) {
	res := LoadProfile(context.Background(), newMemSource(), "")
	if len(res.Errors) != 1 || !errors.Is(res.Errors[0], mixerrors.ErrNoUser) {
		t.Errorf("errors = %v, want ErrNoUser", res.Errors)
	}
}

func TestLoadProfileKeepsBothErrors(t *testing.T) {
	src := newMemSource()
	src.err = errors.New("timeout")

	res := LoadProfile(context.Background(), src, "u1")
	if len(res.Errors) != 2 {
		t.Errorf("errors = %v, want 2", res.Errors)
	}
}

func TestCacheTTL(t *testing.T) {
	tests := []struct {
		name     string
		ttl      int
		endpoint string
		expiry   int
		want     time.Duration
	}{
		{"no storage", 300, "", 60, 300 * time.Second},
		{"expiry longer", 300, "s3.example.com", 3600, 300 * time.Second},
		{"expiry shorter", 300, "s3.example.com", 120, 60 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Cache.TTL = tt.ttl
			cfg.Storage.Endpoint = tt.endpoint
			cfg.Storage.PresignExpiry = tt.expiry
			if got := cacheTTL(cfg); got != tt.want {
				t.Errorf("cacheTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenRESTDefault(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.URL = "https://db.example.com"

	src, closeFn, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()
	if _, ok := src.(*REST); !ok {
		t.Errorf("Open() = %T, want *REST", src)
	}
}

func TestOpenWithStorage(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.URL = "https://db.example.com"
	cfg.Storage.Endpoint = "s3.example.com"
	cfg.Storage.Bucket = "audio"

	src, closeFn, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()
	if _, ok := src.(*BlobResolver); !ok {
		t.Errorf("Open() = %T, want *BlobResolver", src)
	}
}
