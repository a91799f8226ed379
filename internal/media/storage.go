// Package media stores uploaded images and videos behind a swappable Storage backend.
package media

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrUnsupportedFormat is returned for uploads whose type is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported media format")
	// ErrInvalidImage is returned when an upload cannot be decoded as an image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrEmptyUpload is returned when no bytes were sent.
	ErrEmptyUpload = errors.New("empty upload")
)

// Storage persists media objects. Put returns the path clients use to fetch the object;
// Remove accepts that same path.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}

// ctxReader stops a copy once the request context is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
