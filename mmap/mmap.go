// Package mmap provides a read-only FileHandle backend over memory-mapped
// files. Mapping avoids read syscalls for cursor movement and repeated
// access, at the cost of a fixed-size, read-only view: the mapping reflects
// the file as it was when opened, and writes are rejected.
package mmap

import (
	"errors"
	"fmt"
	"io"

	xmmap "golang.org/x/exp/mmap"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// Open memory-maps path and returns a read-only handle over the mapping.
// Every write operation on the returned handle fails with handle.ErrReadOnly.
func Open(path string, opts ...handle.Option) (*handle.FileHandle, error) {
	r, err := xmmap.Open(path)
	if err != nil {
		return nil, handle.WrapErrorf(err, "mmap: open %q", path)
	}
	return handle.New(&file{r: r, name: path}, opts...), nil
}

// file adapts a memory-mapped reader to the handle.File contract, tracking
// the cursor locally since the mapping itself is position-less.
type file struct {
	r    *xmmap.ReaderAt
	name string
	off  int64
}

func (f *file) Name() string {
	return f.name
}

func (f *file) Read(p []byte) (int, error) {
	if f.off >= int64(f.r.Len()) {
		return 0, io.EOF
	}
	n, err := f.r.ReadAt(p, f.off)
	f.off += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		// Partial read at end of mapping; EOF surfaces on the next call.
		err = nil
	}
	return n, err
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.off
	case io.SeekEnd:
		base = int64(f.r.Len())
	default:
		return 0, handle.WrapErrorf(handle.ErrInvalidWhence, "mmap: seek %q whence=%d", f.name, whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, fmt.Errorf("mmap: seek %q: negative position %d", f.name, pos)
	}
	f.off = pos
	return pos, nil
}

func (f *file) Write(p []byte) (int, error) {
	return 0, handle.WrapErrorf(handle.ErrReadOnly, "mmap: write %q", f.name)
}

func (f *file) Close() error {
	if err := f.r.Close(); err != nil {
		return handle.WrapErrorf(err, "mmap: close %q", f.name)
	}
	return nil
}

// Compile-time interface check.
var _ handle.File = (*file)(nil)
