package storage

import (
	"context"
	"io"
)

// FileStorage is the binary object store for uploaded photographs.
type FileStorage interface {
	// Upload stores the content under path and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Delete(ctx context.Context, path string) error

	// GetURL returns a retrievable URL for a stored key.
	GetURL(ctx context.Context, path string) (string, error)
}
