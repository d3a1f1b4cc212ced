package menu

import (
	"context"
	"io"
)

// Source supplies the raw menu rows. Fetching happens outside the catalog
// builder; a Source does no normalization of its own.
type Source interface {
	FetchRows(ctx context.Context) ([]Row, error)
}

// ObjectStore opens a stored object by key, e.g. a CSV export in a bucket.
type ObjectStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
