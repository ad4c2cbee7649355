// Package minio provides FileHandle backends over S3-compatible object
// storage. Objects are not seekable streams, so the backend materializes
// them: a handle opened for reading downloads the object into memory and
// serves reads and seeks from the downloaded copy, and a handle opened for
// writing accumulates writes in memory and uploads the result when the
// handle is closed.
package minio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// ErrUnsupported is returned for operations object storage cannot serve,
// such as seeking within an upload in progress.
var ErrUnsupported = errors.New("operation not supported on object storage handle")

// FS addresses objects in a single bucket, optionally under a key prefix.
type FS struct {
	client *minio.Client
	bucket string
	prefix string
}

// Option configures an FS.
type Option func(*FS)

// WithPrefix namespaces all object keys under prefix.
func WithPrefix(prefix string) Option {
	return func(m *FS) {
		m.prefix = prefix
	}
}

// New creates an FS over an existing minio client and bucket.
func New(client *minio.Client, bucket string, opts ...Option) *FS {
	m := &FS{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open opens the named object in the given mode and wraps it in a
// FileHandle. Read mode downloads the object up front; Write mode starts an
// in-memory upload buffer that is flushed to storage on Close. ReadWrite is
// not supported: an object cannot be mutated in place.
func (m *FS) Open(ctx context.Context, name string, mode handle.Mode, opts ...handle.Option) (*handle.FileHandle, error) {
	switch mode {
	case handle.Read:
		obj, err := m.newObjectRead(ctx, name)
		if err != nil {
			return nil, err
		}
		return handle.New(obj, opts...), nil
	case handle.Write:
		return handle.New(m.newObjectWrite(name), opts...), nil
	case handle.ReadWrite:
		return nil, handle.WrapErrorf(ErrUnsupported, "minio: open %q mode %q", name, string(mode))
	default:
		return nil, handle.WrapErrorf(handle.ErrInvalidMode, "minio: open %q mode %q", name, string(mode))
	}
}

// key resolves name against the configured prefix.
func (m *FS) key(name string) string {
	if m.prefix == "" {
		return name
	}
	return path.Join(m.prefix, name)
}

// translateError maps minio API errors onto standard sentinels so callers
// can use errors.Is without importing the SDK.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s", os.ErrNotExist, resp.Message)
	case "AccessDenied":
		return fmt.Errorf("%w: %s", os.ErrPermission, resp.Message)
	default:
		return err
	}
}
