// Package objectstore stores uploaded recipe images on local disk, Google
// Cloud Storage or any S3-compatible service.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oksasatya/recipe-api/config"
	"github.com/oksasatya/recipe-api/pkg/helpers"
)

// Store puts and removes objects addressed by slash-separated keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New builds the store selected by IMAGE_STORE.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.ImageStore {
	case "", "local":
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("objectstore: GCS_BUCKET is required")
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("objectstore: gcs client: %w", err)
		}
		return NewGCSStore(client, cfg.GCSBucket), nil
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			PublicURL:    cfg.S3PublicURL,
			UsePathStyle: cfg.S3UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("objectstore: unknown IMAGE_STORE %q", cfg.ImageStore)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
