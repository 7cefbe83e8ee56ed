package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

// Presigner issues time-limited GET URLs for stored objects.
type Presigner interface {
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
}

// NewMinio creates an S3-compatible client for endpoint.
func NewMinio(endpoint, accessKey, secretKey, region string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mixerrors.ErrStorageUnavailable, err)
	}
	return client, nil
}

// BlobResolver rewrites object-key locators on tracks into presigned URLs.
// It wraps a Source so every track handed to the player is directly
// fetchable.
type BlobResolver struct {
	next   Source
	signer Presigner
	bucket string
	expiry time.Duration
	log    *zap.Logger
}

// NewBlobResolver resolves keys in bucket unless a locator names its own.
func NewBlobResolver(next Source, signer Presigner, bucket string, expiry time.Duration, log *zap.Logger) *BlobResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &BlobResolver{next: next, signer: signer, bucket: bucket, expiry: expiry, log: log.Named("blob")}
}

func (b *BlobResolver) Feed(ctx context.Context, limit int) ([]core.Track, error) {
	list, err := b.next.Feed(ctx, limit)
	return b.resolveAll(ctx, list), err
}

func (b *BlobResolver) Uploaded(ctx context.Context, user string) ([]core.Track, error) {
	list, err := b.next.Uploaded(ctx, user)
	return b.resolveAll(ctx, list), err
}

func (b *BlobResolver) Liked(ctx context.Context, user string) ([]core.Track, error) {
	list, err := b.next.Liked(ctx, user)
	return b.resolveAll(ctx, list), err
}

func (b *BlobResolver) Mix(ctx context.Context, id string) (*core.Track, error) {
	t, err := b.next.Mix(ctx, id)
	if err != nil {
		return nil, err
	}
	resolved := b.resolve(ctx, *t)
	return &resolved, nil
}

func (b *BlobResolver) resolveAll(ctx context.Context, list []core.Track) []core.Track {
	if list == nil {
		return nil
	}
	out := make([]core.Track, 0, len(list))
	for _, t := range list {
		out = append(out, b.resolve(ctx, t))
	}
	return out
}

func (b *BlobResolver) resolve(ctx context.Context, t core.Track) core.Track {
	t.AudioURL = b.Resolve(ctx, t.AudioURL)
	t.CoverURL = b.Resolve(ctx, t.CoverURL)
	return t
}

// Resolve returns a fetchable URL for locator. Absolute http(s) URLs and
// local paths come back unchanged; s3://bucket/key and bare keys are
// presigned. On a signing failure the locator is returned as is.
func (b *BlobResolver) Resolve(ctx context.Context, locator string) string {
	bucket, key, ok := b.objectKey(locator)
	if !ok {
		return locator
	}
	u, err := b.signer.PresignedGetObject(ctx, bucket, key, b.expiry, nil)
	if err != nil {
		b.log.Warn("presign failed", zap.String("locator", locator), zap.Error(err))
		return locator
	}
	return u.String()
}

func (b *BlobResolver) objectKey(locator string) (bucket, key string, ok bool) {
	switch {
	case locator == "":
		return "", "", false
	case strings.HasPrefix(locator, "s3://"):
		rest := strings.TrimPrefix(locator, "s3://")
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return "", "", false
		}
		return bucket, key, true
	case strings.Contains(locator, "://"), strings.HasPrefix(locator, "/"):
		return "", "", false
	case b.bucket == "":
		return "", "", false
	default:
		return b.bucket, strings.TrimPrefix(locator, "./"), true
	}
}
