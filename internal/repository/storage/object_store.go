package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore stores deal documents and property photos. Stored values are
// object keys; readers get time-limited presigned URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
