// Package storage persists uploaded attachments (photos, invoices,
// survey reports) either on S3-compatible object storage or, for
// development, on the local filesystem.
package storage

import (
	"context"
	"io"
)

// Storage stores and retrieves uploaded files. Keys are always prefixed
// with the owning tenant's ID so one tenant can never address another
// tenant's files.
type Storage interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
