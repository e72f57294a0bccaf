package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// DefaultURLTTL is how long a signed URL stays fetchable. Short on purpose:
// callers re-resolve per use instead of caching.
const DefaultURLTTL = 15 * time.Minute

// GCS resolves storage paths to V4 signed URLs on one bucket.
type GCS struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
}

// NewGCS opens a storage client for bucket. ttl <= 0 uses DefaultURLTTL.
func NewGCS(ctx context.Context, bucket string, ttl time.Duration, opts ...option.ClientOption) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("resolver: bucket name required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: storage client: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	return &GCS{client: client, bucket: bucket, ttl: ttl}, nil
}

// Resolve signs a GET URL for the object named by storagePath.
func (g *GCS) Resolve(ctx context.Context, storagePath string) (string, error) {
	object := strings.TrimPrefix(storagePath, "/")
	if object == "" {
		return "", errors.New("resolver: empty storage path")
	}
	u, err := g.client.Bucket(g.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(g.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("resolver: sign %s: %w", object, err)
	}
	return u, nil
}

// Close releases the underlying storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
