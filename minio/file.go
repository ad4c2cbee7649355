package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// object is a native handle over one S3 object. Behavior depends on the open
// mode: read handles serve from a downloaded copy, write handles accumulate
// into a buffer that is uploaded on Close.
type object struct {
	fs   *FS
	key  string
	name string

	// Read mode.
	reader *bytes.Reader

	// Write mode.
	buffer *bytes.Buffer

	closed bool
}

// newObjectRead downloads the object and returns a handle serving from the
// in-memory copy.
func (m *FS) newObjectRead(ctx context.Context, name string) (*object, error) {
	key := m.key(name)

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, handle.WrapErrorf(translateError(err), "minio: open %q", name)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, handle.WrapErrorf(translateError(err), "minio: open %q", name)
	}

	return &object{
		fs:     m,
		key:    key,
		name:   name,
		reader: bytes.NewReader(data),
	}, nil
}

// newObjectWrite returns a handle with an empty upload buffer.
func (m *FS) newObjectWrite(name string) *object {
	return &object{
		fs:     m,
		key:    m.key(name),
		name:   name,
		buffer: new(bytes.Buffer),
	}
}

func (o *object) Name() string {
	return o.name
}

func (o *object) Read(p []byte) (int, error) {
	if o.reader == nil {
		return 0, handle.WrapErrorf(handle.ErrWriteOnly, "minio: read %q", o.name)
	}
	return o.reader.Read(p)
}

func (o *object) Write(p []byte) (int, error) {
	if o.buffer == nil {
		return 0, handle.WrapErrorf(handle.ErrReadOnly, "minio: write %q", o.name)
	}
	if o.closed {
		return 0, handle.WrapErrorf(handle.ErrInvalidHandle, "minio: write %q", o.name)
	}
	return o.buffer.Write(p)
}

// Seek repositions the read cursor. Write handles cannot seek: the buffer
// is append-only until it is uploaded.
func (o *object) Seek(offset int64, whence int) (int64, error) {
	if o.reader == nil {
		return 0, handle.WrapErrorf(ErrUnsupported, "minio: seek %q", o.name)
	}
	pos, err := o.reader.Seek(offset, whence)
	if err != nil {
		return pos, handle.WrapErrorf(err, "minio: seek %q off=%d whence=%d", o.name, offset, whence)
	}
	return pos, nil
}

// Close releases the handle. A write handle uploads its buffer; a failed
// upload surfaces as the close error. Close is idempotent.
func (o *object) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	if o.buffer != nil {
		return o.upload(context.Background())
	}
	return nil
}

// upload writes the accumulated buffer to storage as one object.
func (o *object) upload(ctx context.Context) error {
	reader := bytes.NewReader(o.buffer.Bytes())
	_, err := o.fs.client.PutObject(
		ctx,
		o.fs.bucket,
		o.key,
		reader,
		int64(o.buffer.Len()),
		minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		},
	)
	if err != nil {
		return handle.WrapErrorf(translateError(err), "minio: upload %q", o.name)
	}
	return nil
}

// Compile-time interface check.
var _ handle.File = (*object)(nil)
