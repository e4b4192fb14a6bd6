// Package blob stores opaque documents by path on the local filesystem or in S3.
package blob

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested path does not exist.
var ErrNotFound = errors.New("not found")

// Backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Storage reads and writes whole documents.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// S3Options locates documents in a bucket.
type S3Options struct {
	Bucket string
	Prefix string
	Region string
}

// Open returns the Storage for backend. Local storage is rooted at dir.
func Open(ctx context.Context, backend, dir string, s3opts S3Options) (Storage, error) {
	switch backend {
	case "", BackendLocal:
		return NewLocalStorage(dir)
	case BackendS3:
		if s3opts.Bucket == "" {
			return nil, fmt.Errorf("s3 blob storage requires a bucket")
		}
		return NewS3Storage(ctx, s3opts)
	default:
		return nil, fmt.Errorf("unknown blob backend %q (valid: %s, %s)", backend, BackendLocal, BackendS3)
	}
}
