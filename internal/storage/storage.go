package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	ContentType string
	Size        int64
}

// ObjectStore is key-based binary storage over a single bucket.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	// Open returns a reader for key; ErrObjectNotFound if it does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes key; deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the keys starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

type Signer interface {
	SignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
