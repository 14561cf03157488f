package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PublicBase string
}

type MinioProvider struct {
	client *minio.Client
	cfg    MinioConfig
}

func NewMinioProvider(cfg MinioConfig) (*MinioProvider, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &MinioProvider{client: client, cfg: cfg}, nil
}

// EnsureBucket creates the media bucket when it does not exist yet.
func (p *MinioProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.cfg.Bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket %s: %w", p.cfg.Bucket, err)
		}
	}
	return nil
}

func (p *MinioProvider) Name() string {
	return "minio"
}

func (p *MinioProvider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if size <= 0 {
		size = -1
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := p.client.PutObject(ctx, p.cfg.Bucket, key, body, size, opts); err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return p.url(key), nil
}

func (p *MinioProvider) Delete(ctx context.Context, key string) error {
	if err := p.client.RemoveObject(ctx, p.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s: %w", key, err)
	}
	return nil
}

func (p *MinioProvider) url(key string) string {
	if p.cfg.PublicBase != "" {
		return strings.TrimRight(p.cfg.PublicBase, "/") + "/" + key
	}
	scheme := "http"
	if p.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.cfg.Endpoint, p.cfg.Bucket, key)
}
