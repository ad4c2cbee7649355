package minio_test

import (
	"context"
	"io"
	"os"
	"testing"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
	miniofs "github.com/input-output-hk/catalyst-forge-libs/handle/minio"
)

func TestOpen_UnsupportedModes(t *testing.T) {
	// Constructing a client performs no network I/O, so mode validation
	// can be tested without a server.
	client, err := mclient.New("localhost:9000", &mclient.Options{})
	require.NoError(t, err)
	fs := miniofs.New(client, "bucket")

	_, err = fs.Open(context.Background(), "obj", handle.ReadWrite)
	require.Error(t, err)
	assert.ErrorIs(t, err, miniofs.ErrUnsupported)

	_, err = fs.Open(context.Background(), "obj", handle.Mode("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, handle.ErrInvalidMode)
}

// newTestFS connects to the object store named by MINIO_ENDPOINT, skipping
// the test when no store is available.
func newTestFS(t *testing.T) *miniofs.FS {
	t.Helper()

	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set; skipping object storage integration test")
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds: credentials.NewStaticV4(
			os.Getenv("MINIO_ACCESS_KEY"),
			os.Getenv("MINIO_SECRET_KEY"),
			"",
		),
	})
	require.NoError(t, err)

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "handle-test"
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{}))
	}

	return miniofs.New(client, bucket, miniofs.WithPrefix(t.Name()))
}

func TestRoundTrip_Integration(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	w, err := fs.Open(ctx, "greeting.txt", handle.Write)
	require.NoError(t, err)
	w.WriteBytes([]byte("hello world"))
	require.NoError(t, w.Close())

	r, err := fs.Open(ctx, "greeting.txt", handle.Read)
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	pos, err := r.Seek(6, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	got, err := r.ReadString(5)
	require.NoError(t, err)
	assert.Equal(t, "world", got)
}

func TestOpen_MissingObject_Integration(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.Open(context.Background(), "no-such-object.txt", handle.Read)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteHandle_CannotRead_Integration(t *testing.T) {
	fs := newTestFS(t)

	w, err := fs.Open(context.Background(), "upload.txt", handle.Write)
	require.NoError(t, err)
	defer func() {
		_ = w.Close()
	}()

	_, err = w.ReadBytes(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, handle.ErrWriteOnly)
}
