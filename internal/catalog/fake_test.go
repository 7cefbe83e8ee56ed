package catalog

import (
	"context"
	"fmt"

	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

// memSource is an in-memory Source counting calls.
type memSource struct {
	mixes map[string]core.Track
	feed  []core.Track
	calls int
	err   error
}

func newMemSource(tracks ...core.Track) *memSource {
	m := &memSource{mixes: map[string]core.Track{}, feed: tracks}
	for _, t := range tracks {
		m.mixes[t.ID] = t
	}
	return m
}

func (m *memSource) Feed(ctx context.Context, limit int) ([]core.Track, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.feed) {
		return m.feed[:limit], nil
	}
	return m.feed, nil
}

func (m *memSource) Mix(ctx context.Context, id string) (*core.Track, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.mixes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", mixerrors.ErrTrackNotFound, id)
	}
	return &t, nil
}

func (m *memSource) Uploaded(ctx context.Context, user string) ([]core.Track, error) {
	m.calls++
	var out []core.Track
	for _, t := range m.feed {
		if t.UploadedBy == user {
			out = append(out, t)
		}
	}
	return out, m.err
}

func (m *memSource) Liked(ctx context.Context, user string) ([]core.Track, error) {
	m.calls++
	return m.feed, m.err
}
