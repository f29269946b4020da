package fetcher

import (
	"context"
	"io"
)

// ObjectStore defines the interface for listing and downloading bucket objects.
type ObjectStore interface {
	ListKeys(ctx context.Context, bucket string) ([]string, error)
	Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error)
	Name() string
}
