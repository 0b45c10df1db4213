package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

const (
	uploadTimeout = 2 * time.Minute
	deleteTimeout = 30 * time.Second
)

// Config selects the bucket and how public URLs are built.
type Config struct {
	Bucket          string
	CDNDomain       string
	PublicBaseURL   string
	CredentialsFile string
}

// BucketStore stores resource assets as objects in a single GCS bucket.
type BucketStore struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	cdnDomain     string
	publicBaseURL string
}

func NewBucketStore(ctx context.Context, cfg Config, log *logger.Logger) (*BucketStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("missing storage bucket name")
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	store := newBucketStore(client, cfg, log)
	store.log.Info("Object storage initialized", "bucket", store.bucket, "cdn_domain", store.cdnDomain)
	return store, nil
}

func newBucketStore(client *storage.Client, cfg Config, log *logger.Logger) *BucketStore {
	return &BucketStore{
		log:           log.With("service", "BucketStore"),
		client:        client,
		bucket:        cfg.Bucket,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}
}

// Put writes data to path and returns the object's public URL.
func (s *BucketStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return s.PublicURL(path), nil
}

func (s *BucketStore) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if err := s.client.Bucket(s.bucket).Object(path).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domain.ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", path, s.bucket, err)
	}
	return nil
}

func (s *BucketStore) PublicURL(path string) string {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, path)
	}
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, path)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path)
}

func (s *BucketStore) Close() error {
	return s.client.Close()
}
