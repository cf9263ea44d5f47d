package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/storage"
)

// GCSSigner issues V4 signed upload URLs for a Google Cloud Storage bucket.
type GCSSigner struct {
	client *storage.Client
	bucket string
}

// NewGCSSigner creates a signer using Application Default Credentials.
func NewGCSSigner(ctx context.Context) (*GCSSigner, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		bucket = defaultUploadContainer
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	slog.Info("gcs signer initialized", "bucket", bucket)
	return &GCSSigner{client: client, bucket: bucket}, nil
}

// SignedUploadURL returns a PUT URL for objectName valid for ttl.
func (g *GCSSigner) SignedUploadURL(ctx context.Context, objectName, contentType string, ttl time.Duration) (string, error) {
	url, err := g.client.Bucket(g.bucket).SignedURL(objectName, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign gs://%s/%s: %w", g.bucket, objectName, err)
	}

	slog.Info("generated signed upload url", "bucket", g.bucket, "object", objectName)
	return url, nil
}

// Close releases the underlying client.
func (g *GCSSigner) Close() error {
	return g.client.Close()
}
