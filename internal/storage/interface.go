package storage

import (
	"context"
	"io"
)

// ObjectStorage is the boundary the photo archiver writes through.
type ObjectStorage interface {
	// Upload stores an object under the given key
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Exists checks if an object is already stored
	Exists(ctx context.Context, key string) (bool, error)

	// EnsureBucket creates the bucket if it doesn't exist
	EnsureBucket(ctx context.Context) error
}
