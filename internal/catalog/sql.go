package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

// SQL reads mixes straight from the MySQL database behind the service.
type SQL struct {
	db  *gorm.DB
	log *zap.Logger
}

// OpenSQL connects to MySQL with dsn.
func OpenSQL(dsn string, log *zap.Logger) (*SQL, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mixerrors.ErrCatalogUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return NewSQL(db, log), nil
}

// NewSQL wraps an existing gorm handle.
func NewSQL(db *gorm.DB, log *zap.Logger) *SQL {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQL{db: db, log: log.Named("catalog")}
}

// Close closes the underlying connection pool.
func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Feed returns the newest mixes.
func (s *SQL) Feed(ctx context.Context, limit int) ([]core.Track, error) {
	var rows []Mix
	if err := s.feedQuery(ctx, limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	return tracks(rows), nil
}

// Mix returns the mix with the given ID.
func (s *SQL) Mix(ctx context.Context, id string) (*core.Track, error) {
	var row Mix
	err := s.mixQuery(ctx, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", mixerrors.ErrTrackNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query mix: %w", err)
	}
	t := row.Track()
	return &t, nil
}

// Uploaded returns the mixes uploaded by user.
func (s *SQL) Uploaded(ctx context.Context, user string) ([]core.Track, error) {
	var rows []Mix
	if err := s.uploadedQuery(ctx, user).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query uploaded: %w", err)
	}
	return tracks(rows), nil
}

// Liked returns the mixes user has liked.
func (s *SQL) Liked(ctx context.Context, user string) ([]core.Track, error) {
	var rows []Mix
	if err := s.likedQuery(ctx, user).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query liked: %w", err)
	}
	return tracks(rows), nil
}

func (s *SQL) feedQuery(ctx context.Context, limit int) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&Mix{}).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func (s *SQL) mixQuery(ctx context.Context, id string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&Mix{}).Where("id = ?", id)
}

func (s *SQL) uploadedQuery(ctx context.Context, user string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&Mix{}).
		Where("uploaded_by = ?", user).
		Order("created_at DESC")
}

func (s *SQL) likedQuery(ctx context.Context, user string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&Mix{}).
		Select("mixes.*").
		Joins("JOIN likes ON likes.mix_id = mixes.id").
		Where("likes.user_id = ?", user).
		Order("likes.created_at DESC")
}
