package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/config"
)

// Open builds the Source described by cfg: the configured backend, wrapped
// by the blob resolver and the Redis cache when those are configured. The
// returned close func releases every connection that was opened.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Source, func() error, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	var src Source
	switch cfg.Catalog.Driver {
	case "mysql":
		db, err := OpenSQL(cfg.Catalog.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		src = db
	case "", "rest":
		src = NewREST(cfg.Catalog.URL, cfg.Catalog.APIKey, time.Duration(cfg.Catalog.Timeout)*time.Second, log)
	default:
		return nil, nil, fmt.Errorf("unknown catalog driver %q", cfg.Catalog.Driver)
	}

	if s := cfg.Storage; s.Endpoint != "" {
		client, err := NewMinio(s.Endpoint, s.AccessKey, s.SecretKey, s.Region, s.UseSSL)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		src = NewBlobResolver(src, client, s.Bucket, time.Duration(s.PresignExpiry)*time.Second, log)
	}

	// Cached entries hold presigned URLs; see cacheTTL.
	if c := cfg.Cache; c.Addr != "" {
		rdb, err := ConnectRedis(ctx, c.Addr, c.Password, c.DB)
		if err != nil {
			log.Warn("cache disabled", zap.Error(err))
		} else {
			closers = append(closers, rdb.Close)
			src = NewCached(src, rdb, cacheTTL(cfg), log)
		}
	}

	return src, closeAll, nil
}

// cacheTTL keeps cached presigned URLs from outliving their signature.
func cacheTTL(cfg *config.Config) time.Duration {
	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	if cfg.Storage.Endpoint != "" {
		if expiry := time.Duration(cfg.Storage.PresignExpiry) * time.Second / 2; expiry < ttl {
			return expiry
		}
	}
	return ttl
}
