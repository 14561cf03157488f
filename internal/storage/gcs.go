package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
	PublicBase      string
}

type GCSProvider struct {
	client *gcs.Client
	cfg    GCSConfig
}

// NewGCSProvider uses application default credentials unless a key file is set.
func NewGCSProvider(ctx context.Context, cfg GCSConfig) (*GCSProvider, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init gcs: %w", err)
	}
	return &GCSProvider{client: client, cfg: cfg}, nil
}

func (p *GCSProvider) Name() string {
	return "gcs"
}

func (p *GCSProvider) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	writer := p.client.Bucket(p.cfg.Bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("gcs copy %s: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", key, err)
	}
	return p.url(key), nil
}

func (p *GCSProvider) Delete(ctx context.Context, key string) error {
	err := p.client.Bucket(p.cfg.Bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete %s: %w", key, err)
	}
	return nil
}

func (p *GCSProvider) Close() error {
	return p.client.Close()
}

func (p *GCSProvider) url(key string) string {
	if p.cfg.PublicBase != "" {
		return strings.TrimRight(p.cfg.PublicBase, "/") + "/" + key
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", p.cfg.Bucket, key)
}
