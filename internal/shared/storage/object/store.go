package object

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no object behind it.
var ErrNotFound = errors.New("object not found")

// ErrExists is returned by non-upsert uploads against an existing key.
var ErrExists = errors.New("object already exists")

// Entry describes one object or common prefix returned by List.
type Entry struct {
	Name  string
	IsDir bool
}

// ObjectStore defines the contract for the bucket-scoped blob store. Keys are
// slash-separated; List performs real prefix listing with "/" as delimiter,
// so callers never infer folders from object naming.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]Entry, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, contentType string, data []byte, upsert bool) error
	Remove(ctx context.Context, keys []string) error
}
