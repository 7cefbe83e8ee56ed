// Package media connects the playback store to the operating system's
// now-playing surface and media keys.
package media

import (
	"errors"
	"time"
)

// ErrUnsupported is returned by Open when the host has no media session
// service the player can register with.
var ErrUnsupported = errors.New("media: OS media session not available")

// DefaultSeekOffset is used for seek-forward/backward requests that carry no
// offset.
const DefaultSeekOffset = 10.0

// PlaybackStatus is the play state shown by the OS.
type PlaybackStatus int

const (
	StatusStopped PlaybackStatus = iota
	StatusPlaying
	StatusPaused
)

func (s PlaybackStatus) String() string {
	switch s {
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// Metadata describes the current track to the OS.
type Metadata struct {
	TrackID string
	Title   string
	Artist  string
	Album   string
	ArtURL  string
	Length  time.Duration
}

// Navigation is the queue state shown by the OS: which skip buttons are
// enabled and whether shuffle is on.
type Navigation struct {
	CanNext     bool
	CanPrevious bool
	Shuffle     bool
}

// Controls receives commands from the OS media session.
type Controls interface {
	Play()
	Pause()
	PlayPause()
	Stop()
	Next()
	Previous()
	SeekTo(seconds float64)
	// SeekForward and SeekBackward move relative to the current position.
	// A non-positive offset means DefaultSeekOffset.
	SeekForward(offset float64)
	SeekBackward(offset float64)
}

// Surface is an OS now-playing endpoint.
type Surface interface {
	SetMetadata(Metadata) error
	SetPlaybackStatus(PlaybackStatus) error
	SetNavigation(Navigation) error
	SetPosition(seconds float64)
	SetControls(Controls)
	Close() error
}
