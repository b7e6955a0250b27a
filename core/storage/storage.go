// Package storage abstracts the media directory image files are written to.
package storage

import (
	"context"
	"io"
)

// Directory is rooted at the shop installation; paths are slash separated and relative.
type Directory interface {
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	// AbsolutePath renders path for logs and error messages.
	AbsolutePath(path string) string
	// Create makes path and its parents a directory.
	Create(ctx context.Context, path string) error
	IsReadable(ctx context.Context, path string) bool
	IsWritable(ctx context.Context, path string) bool
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Write(ctx context.Context, path string, r io.Reader) error
}
