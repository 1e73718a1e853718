// Package storage abstracts where report PDFs and cached OCR results live,
// with local-disk and S3 backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned when a key does not exist in the backend.
var ErrNotFound = errors.New("storage: object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage reads and writes objects by key. Keys use forward slashes on every
// backend.
type Storage interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// Type identifies a storage backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// New builds the backend named by t.
func New(ctx context.Context, t Type, local LocalConfig, s3cfg S3Config) (Storage, error) {
	switch t {
	case TypeLocal:
		return NewLocal(local.BasePath)
	case TypeS3:
		return NewS3(ctx, s3cfg)
	default:
		return nil, fmt.Errorf("storage: unknown type %q", t)
	}
}
