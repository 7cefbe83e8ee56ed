// Package catalog reads mixes from the backing service.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

// Source lists and fetches mixes.
type Source interface {
	// Feed returns the newest mixes, at most limit of them.
	Feed(ctx context.Context, limit int) ([]core.Track, error)
	// Mix returns a single mix by ID.
	Mix(ctx context.Context, id string) (*core.Track, error)
	// Uploaded returns the mixes uploaded by user, newest first.
	Uploaded(ctx context.Context, user string) ([]core.Track, error)
	// Liked returns the mixes user has liked, most recently liked first.
	Liked(ctx context.Context, user string) ([]core.Track, error)
}

// Profile is a user's uploaded and liked mixes.
type Profile struct {
	User     string
	Uploaded []core.Track
	Liked    []core.Track
}

// LoadProfile fetches both lists for user. A failure of one list is
// recorded without discarding the other.
func LoadProfile(ctx context.Context, src Source, user string) *mixerrors.PartialResult[Profile] {
	res := &mixerrors.PartialResult[Profile]{Data: Profile{User: user}}
	if user == "" {
		res.AddError(mixerrors.ErrNoUser)
		return res
	}

	uploaded, err := src.Uploaded(ctx, user)
	if err != nil {
		res.AddError(fmt.Errorf("uploaded: %w", err))
	}
	res.Data.Uploaded = uploaded

	liked, err := src.Liked(ctx, user)
	if err != nil {
		res.AddError(fmt.Errorf("liked: %w", err))
	}
	res.Data.Liked = liked
	return res
}

// Mix is a row of the mixes table as served by both backends.
type Mix struct {
	ID              string    `json:"id" gorm:"column:id;primaryKey"`
	Title           string    `json:"title" gorm:"column:title"`
	Artist          string    `json:"artist" gorm:"column:artist"`
	Genre           string    `json:"genre" gorm:"column:genre"`
	AudioURL        string    `json:"audio_url" gorm:"column:audio_url"`
	CoverURL        string    `json:"cover_url" gorm:"column:cover_url"`
	DurationSeconds float64   `json:"duration_seconds" gorm:"column:duration_seconds"`
	PlayCount       int64     `json:"play_count" gorm:"column:play_count"`
	LikeCount       int64     `json:"like_count" gorm:"column:like_count"`
	UploadedBy      string    `json:"uploaded_by" gorm:"column:uploaded_by"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName implements gorm's tabler.
func (Mix) TableName() string { return "mixes" }

// Track converts a row into a playable track.
func (m *Mix) Track() core.Track {
	return core.Track{
		ID:         m.ID,
		Title:      m.Title,
		Artist:     m.Artist,
		Genre:      m.Genre,
		AudioURL:   m.AudioURL,
		CoverURL:   m.CoverURL,
		Duration:   time.Duration(m.DurationSeconds * float64(time.Second)),
		PlayCount:  m.PlayCount,
		LikeCount:  m.LikeCount,
		UploadedBy: m.UploadedBy,
		CreatedAt:  m.CreatedAt,
	}
}

func tracks(rows []Mix) []core.Track {
	out := make([]core.Track, 0, len(rows))
	for i := range rows {
		if rows[i].AudioURL == "" {
			continue
		}
		out = append(out, rows[i].Track())
	}
	return out
}
