package handle

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/gofrs/flock"
)

// ReadToEnd requests that a read continue until end of file.
const ReadToEnd int64 = -1

// lockSuffix is appended to the opened path to name the advisory lock file.
const lockSuffix = ".lock"

// FileHandle owns exactly one open native handle. The zero value is an empty
// handle on which every operation except Close fails with ErrInvalidHandle.
//
// The cursor lives in the backend: reads and writes advance it as a side
// effect and Seek repositions it. FileHandle never mirrors it locally.
type FileHandle struct {
	file File
	name string
	lock *flock.Flock

	// w batches Print output; created lazily on first use and flushed
	// before any read, seek, direct write, or close.
	w       *bufio.Writer
	bufSize int
}

// Open opens path in the given mode on the configured backend (the host
// filesystem unless WithFilesystem overrides it). On failure no handle is
// left open and any advisory lock taken for the attempt is released.
func Open(path string, mode Mode, opts ...Option) (*FileHandle, error) {
	flag, err := mode.flag()
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var lk *flock.Flock
	if o.exclusive && o.native {
		lk = flock.New(path + lockSuffix)
		ok, lockErr := lk.TryLock()
		if lockErr != nil {
			return nil, WrapErrorf(lockErr, "handle: lock %q", path)
		}
		if !ok {
			return nil, WrapErrorf(ErrLocked, "handle: open %q", path)
		}
	}

	f, err := o.fsys.OpenFile(path, flag, o.perm)
	if err != nil {
		if lk != nil {
			_ = lk.Unlock()
		}
		return nil, WrapErrorf(err, "handle: open %q", path)
	}

	return &FileHandle{
		file:    f,
		name:    path,
		lock:    lk,
		bufSize: o.bufSize,
	}, nil
}

// New adopts an already-open native handle. Ownership transfers to the
// returned FileHandle, which becomes responsible for closing it. Backends
// such as mmap and minio use this to hand out handles over their own files.
func New(f File, opts ...Option) *FileHandle {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileHandle{
		file:    f,
		name:    f.Name(),
		bufSize: o.bufSize,
	}
}

// With opens path in the given mode, hands the handle to fn, and closes it
// exactly once on every exit path, including a panic inside fn. If fn
// returns an error it wins over any close error; a close error during a
// panic unwind is suppressed since there is no caller left to receive it.
func With(path string, mode Mode, fn func(*FileHandle) error, opts ...Option) (err error) {
	h, err := Open(path, mode, opts...)
	if err != nil {
		return err
	}
	defer func() {
		cerr := h.Close()
		if err == nil {
			err = cerr
		}
	}()
	return fn(h)
}

// Name returns the path the handle was opened with. It remains available
// after Close for error reporting.
func (h *FileHandle) Name() string {
	return h.name
}

// IsOpen reports whether the handle currently owns an open file.
func (h *FileHandle) IsOpen() bool {
	return h.file != nil
}

// Close releases the native handle and the advisory lock, if any. Buffered
// Print output is flushed first and a flush failure is reported ahead of a
// close failure. Close on an empty handle is a no-op, so closing twice after
// a successful close is safe. The handle is reset to empty unconditionally:
// after Close returns, successful or not, only a repeated Close is valid.
func (h *FileHandle) Close() error {
	if h.file == nil {
		return nil
	}

	flushErr := h.flush()
	closeErr := h.file.Close()
	h.file = nil
	h.w = nil
	if h.lock != nil {
		_ = h.lock.Unlock()
		h.lock = nil
	}

	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return WrapErrorf(closeErr, "handle: close %q", h.name)
	}
	return nil
}

// ReadBytes reads up to n bytes from the cursor, or to end of file when n is
// ReadToEnd or any negative value. A file shorter than n yields exactly the
// remaining bytes without error, so n may be arbitrarily large; the result
// grows with what is actually read, never with the request.
func (h *FileHandle) ReadBytes(n int64) ([]byte, error) {
	if h.file == nil {
		return nil, WrapErrorf(ErrInvalidHandle, "handle: read %q", h.name)
	}
	if err := h.flush(); err != nil {
		return nil, err
	}

	var r io.Reader = h.file
	if n >= 0 {
		r = io.LimitReader(h.file, n)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapErrorf(err, "handle: read %q", h.name)
	}
	return data, nil
}

// ReadString reads up to n bytes from the cursor and returns them as a
// string. Semantics are identical to ReadBytes.
func (h *FileHandle) ReadString(n int64) (string, error) {
	data, err := h.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadInto fills p from the cursor and returns the number of bytes actually
// transferred. Reaching end of file before p is full is not an error.
func (h *FileHandle) ReadInto(p []byte) (int, error) {
	if h.file == nil {
		return 0, WrapErrorf(ErrInvalidHandle, "handle: read %q", h.name)
	}
	if err := h.flush(); err != nil {
		return 0, err
	}

	read, err := io.ReadFull(h.file, p)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return read, WrapErrorf(err, "handle: read %q", h.name)
	}
	return read, nil
}

// Seek repositions the cursor and returns the resulting absolute offset.
// whence must be one of io.SeekStart, io.SeekCurrent, io.SeekEnd; anything
// else fails with ErrInvalidWhence. Buffered Print output is flushed first
// so it lands before the cursor moves.
func (h *FileHandle) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		return 0, WrapErrorf(ErrInvalidWhence, "handle: seek %q whence=%d", h.name, whence)
	}
	if h.file == nil {
		return 0, WrapErrorf(ErrInvalidHandle, "handle: seek %q", h.name)
	}
	if err := h.flush(); err != nil {
		return 0, err
	}

	pos, err := h.file.Seek(offset, whence)
	if err != nil {
		return pos, WrapErrorf(err, "handle: seek %q off=%d whence=%d", h.name, offset, whence)
	}
	return pos, nil
}

// WriteBytes writes p directly to the native handle, bypassing the Print
// buffer (pending buffered output is flushed first to preserve ordering).
//
// A failure here is not recoverable by the caller: WriteBytes panics with
// the wrapped error instead of returning it. Writes to an already-open
// handle are not expected to fail during normal operation, and a partial
// write leaves the file in a state this layer cannot repair. Scoped handles
// opened through With are still closed during the unwind.
func (h *FileHandle) WriteBytes(p []byte) {
	if h.file == nil {
		panic(WrapErrorf(ErrInvalidHandle, "handle: write %q", h.name))
	}
	if err := h.flush(); err != nil {
		panic(err)
	}
	if _, err := h.file.Write(p); err != nil {
		panic(WrapErrorf(err, "handle: write %q", h.name))
	}
}

// Print formats values with fmt.Fprint and appends them to the buffered
// writer, batching small writes before they reach the backend. The buffer is
// flushed by Seek, Close, Flush, and any read.
func (h *FileHandle) Print(values ...any) error {
	if h.file == nil {
		return WrapErrorf(ErrInvalidHandle, "handle: write %q", h.name)
	}
	if h.w == nil {
		h.w = bufio.NewWriterSize(h.file, h.bufSize)
	}
	if _, err := fmt.Fprint(h.w, values...); err != nil {
		return WrapErrorf(err, "handle: write %q", h.name)
	}
	return nil
}

// Printf is Print with a format string.
func (h *FileHandle) Printf(format string, values ...any) error {
	if h.file == nil {
		return WrapErrorf(ErrInvalidHandle, "handle: write %q", h.name)
	}
	if h.w == nil {
		h.w = bufio.NewWriterSize(h.file, h.bufSize)
	}
	if _, err := fmt.Fprintf(h.w, format, values...); err != nil {
		return WrapErrorf(err, "handle: write %q", h.name)
	}
	return nil
}

// Flush forces any buffered Print output out to the native handle.
func (h *FileHandle) Flush() error {
	if h.file == nil {
		return WrapErrorf(ErrInvalidHandle, "handle: flush %q", h.name)
	}
	return h.flush()
}

func (h *FileHandle) flush() error {
	if h.w == nil || h.w.Buffered() == 0 {
		return nil
	}
	if err := h.w.Flush(); err != nil {
		return WrapErrorf(err, "handle: flush %q", h.name)
	}
	return nil
}
