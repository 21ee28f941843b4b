// Package storage abstracts the S3-compatible object store behind a
// small capability set: put, delete, presigned upload, public URL.
package storage

import (
	"context"
	"fmt"
	"time"

	"imageshare/internal/config"
)

type Storage interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	// PublicURL builds the externally reachable URL for a stored key.
	PublicURL(key string) string
	Provider() string
}

// New selects the backend by configuration. Both targets speak the S3
// API and differ only in endpoint, credentials and URL construction.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Provider {
	case config.ProviderCloudflareR2:
		return newR2Storage(cfg.Storage)
	case config.ProviderAWSS3, "":
		return newAWSStorage(cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
