package storage

import (
	"context"
	"fmt"
	"io"

	"socialdesk/config"
)

// Provider is an object store that serves uploaded media publicly.
type Provider interface {
	Name() string
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewProvider builds the provider selected by MEDIA_PROVIDER.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.MediaProvider {
	case config.ProviderS3:
		return NewClient(ctx, S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
	case config.ProviderGCS:
		return NewGCSProvider(ctx, GCSConfig{
			Bucket:          cfg.GCSBucket,
			CredentialsFile: cfg.GCSCredentialsFile,
			PublicBase:      cfg.GCSPublicBase,
		})
	case config.ProviderMinio:
		p, err := NewMinioProvider(MinioConfig{
			Endpoint:   cfg.MinioEndpoint,
			AccessKey:  cfg.MinioAccessKey,
			SecretKey:  cfg.MinioSecretKey,
			Bucket:     cfg.MinioBucket,
			UseSSL:     cfg.MinioUseSSL,
			PublicBase: cfg.MinioPublicBase,
		})
		if err != nil {
			return nil, err
		}
		if err := p.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderMemory:
		return NewMemoryProvider("memory://media"), nil
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.MediaProvider)
	}
}
