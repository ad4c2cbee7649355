// Package handletest provides a conformance test suite for validating
// FileHandle backends against the package handle contracts.
//
// The suite exercises the handle lifecycle (open, read, seek, write, close,
// scoped use) through any go-billy filesystem. Backend packages import it to
// verify they honor the contract without duplicating the battery.
//
// Example usage:
//
//	func TestMyBackend(t *testing.T) {
//	    handletest.TestSuite(t, func() billy.Filesystem {
//	        return mybackend.New()
//	    })
//	}
package handletest

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// TestSuite runs all conformance tests against a filesystem backend.
// The newFS function should return a fresh, empty filesystem for each test.
// Tests create and modify files, so each invocation should start clean.
func TestSuite(t *testing.T, newFS func() billy.Filesystem) {
	t.Run("OpenMissingRead", func(t *testing.T) {
		testOpenMissingRead(t, newFS())
	})
	t.Run("OpenMissingWrite", func(t *testing.T) {
		testOpenMissingWrite(t, newFS())
	})
	t.Run("RoundTrip", func(t *testing.T) {
		testRoundTrip(t, newFS())
	})
	t.Run("ShortRead", func(t *testing.T) {
		testShortRead(t, newFS())
	})
	t.Run("HugeSizeRead", func(t *testing.T) {
		testHugeSizeRead(t, newFS())
	})
	t.Run("TailRead", func(t *testing.T) {
		testTailRead(t, newFS())
	})
	t.Run("SeekThenRead", func(t *testing.T) {
		testSeekThenRead(t, newFS())
	})
	t.Run("ClosedHandle", func(t *testing.T) {
		testClosedHandle(t, newFS())
	})
	t.Run("ScopedClose", func(t *testing.T) {
		testScopedClose(t, newFS())
	})
	t.Run("ScopedCloseOnPanic", func(t *testing.T) {
		testScopedCloseOnPanic(t, newFS())
	})
	t.Run("BufferedPrint", func(t *testing.T) {
		testBufferedPrint(t, newFS())
	})
}

// writeFile is a setup helper that creates path with the given contents.
func writeFile(t *testing.T, fsys billy.Filesystem, path string, data []byte) {
	t.Helper()
	h, err := handle.Open(path, handle.Write, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(%q, w): setup failed: %v", path, err)
	}
	h.WriteBytes(data)
	if err := h.Close(); err != nil {
		t.Fatalf("Close(): setup failed: %v", err)
	}
}

// testOpenMissingRead tests that opening a nonexistent path for reading fails.
func testOpenMissingRead(t *testing.T, fsys billy.Filesystem) {
	_, err := handle.Open("missing.txt", handle.Read, handle.WithFilesystem(fsys))
	if err == nil {
		t.Fatalf("Open(missing.txt, r): got nil error, want not-exist")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing.txt, r): got %v, want os.ErrNotExist", err)
	}
}

// testOpenMissingWrite tests that write mode creates the file.
func testOpenMissingWrite(t *testing.T, fsys billy.Filesystem) {
	h, err := handle.Open("created.txt", handle.Write, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(created.txt, w): got error %v, want nil", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	r, err := handle.Open("created.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(created.txt, r): got error %v, want nil", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close(): got error %v, want nil", err)
	}
}

// testRoundTrip tests that bytes written then read back after a seek to
// start come back unchanged, on one "rw" handle and across a close/reopen.
func testRoundTrip(t *testing.T, fsys billy.Filesystem) {
	payload := []byte("round-trip payload \x00\x01\x02")

	h, err := handle.Open("data.bin", handle.ReadWrite, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(data.bin, rw): got error %v, want nil", err)
	}
	h.WriteBytes(payload)

	pos, err := h.Seek(0, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}
	if pos != 0 {
		t.Errorf("Seek(0, start): got offset %d, want 0", pos)
	}

	got, err := h.ReadBytes(handle.ReadToEnd)
	if err != nil {
		t.Fatalf("ReadBytes(ReadToEnd): got error %v, want nil", err)
	}
	if string(got) != string(payload) {
		t.Errorf("ReadBytes(ReadToEnd): got %q, want %q", got, payload)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	r, err := handle.Open("data.bin", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(data.bin, r): got error %v, want nil", err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			t.Errorf("Close(): got error %v", closeErr)
		}
	}()
	got, err = r.ReadBytes(handle.ReadToEnd)
	if err != nil {
		t.Fatalf("ReadBytes(ReadToEnd): got error %v, want nil", err)
	}
	if string(got) != string(payload) {
		t.Errorf("reopened ReadBytes: got %q, want %q", got, payload)
	}
}

// testShortRead tests that reading more than remains returns exactly what
// remains, without padding or error.
func testShortRead(t *testing.T, fsys billy.Filesystem) {
	payload := []byte("short")
	writeFile(t, fsys, "short.txt", payload)

	h, err := handle.Open("short.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(short.txt, r): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close()
	}()

	got, err := h.ReadBytes(int64(len(payload)) + 100)
	if err != nil {
		t.Fatalf("ReadBytes(n > len): got error %v, want nil", err)
	}
	if len(got) != len(payload) {
		t.Errorf("ReadBytes(n > len): got %d bytes, want %d", len(got), len(payload))
	}

	buf := make([]byte, len(payload)+100)
	if _, err := h.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}
	n, err := h.ReadInto(buf)
	if err != nil {
		t.Fatalf("ReadInto: got error %v, want nil", err)
	}
	if n != len(payload) {
		t.Errorf("ReadInto: transferred %d bytes, want %d", n, len(payload))
	}
	if string(buf[:n]) != string(payload) {
		t.Errorf("ReadInto: got %q, want %q", buf[:n], payload)
	}
}

// testHugeSizeRead tests that the requested size only bounds the read: a
// size far beyond the file length (or any plausible allocation) returns the
// remaining bytes rather than failing or panicking.
func testHugeSizeRead(t *testing.T, fsys billy.Filesystem) {
	payload := []byte("hello")
	writeFile(t, fsys, "huge.txt", payload)

	h, err := handle.Open("huge.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(huge.txt, r): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close()
	}()

	got, err := h.ReadBytes(1 << 62)
	if err != nil {
		t.Fatalf("ReadBytes(1<<62): got error %v, want nil", err)
	}
	if string(got) != string(payload) {
		t.Errorf("ReadBytes(1<<62): got %q, want %q", got, payload)
	}

	if _, err := h.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}
	s, err := h.ReadString(1<<63 - 1)
	if err != nil {
		t.Fatalf("ReadString(maxInt64): got error %v, want nil", err)
	}
	if s != string(payload) {
		t.Errorf("ReadString(maxInt64): got %q, want %q", s, payload)
	}
}

// testTailRead tests seek from end with a negative offset followed by a read.
func testTailRead(t *testing.T, fsys billy.Filesystem) {
	writeFile(t, fsys, "tail.txt", []byte("abcdefghij"))

	h, err := handle.Open("tail.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(tail.txt, r): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close()
	}()

	pos, err := h.Seek(-4, io.SeekEnd)
	if err != nil {
		t.Fatalf("Seek(-4, end): got error %v, want nil", err)
	}
	if pos != 6 {
		t.Errorf("Seek(-4, end): got offset %d, want 6", pos)
	}
	got, err := h.ReadString(4)
	if err != nil {
		t.Fatalf("ReadString(4): got error %v, want nil", err)
	}
	if got != "ghij" {
		t.Errorf("ReadString(4): got %q, want %q", got, "ghij")
	}
}

// testSeekThenRead tests the write/reopen/seek/read scenario:
// write "hello world", reopen read-only, seek to 6, read 5 -> "world".
func testSeekThenRead(t *testing.T, fsys billy.Filesystem) {
	writeFile(t, fsys, "hello.txt", []byte("hello world"))

	h, err := handle.Open("hello.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(hello.txt, r): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close()
	}()

	pos, err := h.Seek(6, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek(6, start): got error %v, want nil", err)
	}
	if pos != 6 {
		t.Errorf("Seek(6, start): got offset %d, want 6", pos)
	}
	got, err := h.ReadString(5)
	if err != nil {
		t.Fatalf("ReadString(5): got error %v, want nil", err)
	}
	if got != "world" {
		t.Errorf("ReadString(5): got %q, want %q", got, "world")
	}
}

// testClosedHandle tests the terminal state: every operation on a closed
// handle fails with ErrInvalidHandle, except a repeated Close, which is a
// no-op success. WriteBytes panics since it has no error channel.
func testClosedHandle(t *testing.T, fsys billy.Filesystem) {
	writeFile(t, fsys, "closed.txt", []byte("x"))

	h, err := handle.Open("closed.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(closed.txt, r): got error %v, want nil", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	if _, err := h.ReadBytes(1); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("ReadBytes after close: got %v, want ErrInvalidHandle", err)
	}
	if _, err := h.ReadString(1); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("ReadString after close: got %v, want ErrInvalidHandle", err)
	}
	if _, err := h.ReadInto(make([]byte, 1)); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("ReadInto after close: got %v, want ErrInvalidHandle", err)
	}
	if _, err := h.Seek(0, io.SeekStart); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("Seek after close: got %v, want ErrInvalidHandle", err)
	}
	if err := h.Print("x"); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("Print after close: got %v, want ErrInvalidHandle", err)
	}
	expectPanic(t, func() {
		h.WriteBytes([]byte("x"))
	})

	if err := h.Close(); err != nil {
		t.Errorf("second Close(): got error %v, want nil", err)
	}
}

// testScopedClose tests that With closes the handle without an explicit
// Close and flushes buffered output on the way out.
func testScopedClose(t *testing.T, fsys billy.Filesystem) {
	err := handle.With("scoped.txt", handle.Write, func(h *handle.FileHandle) error {
		return h.Print("scoped contents")
	}, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("With(scoped.txt, w): got error %v, want nil", err)
	}

	h, err := handle.Open("scoped.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(scoped.txt, r): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close()
	}()
	got, err := h.ReadString(handle.ReadToEnd)
	if err != nil {
		t.Fatalf("ReadString(ReadToEnd): got error %v, want nil", err)
	}
	if got != "scoped contents" {
		t.Errorf("ReadString(ReadToEnd): got %q, want %q", got, "scoped contents")
	}
}

// testScopedCloseOnPanic tests that With closes the handle during a panic
// unwind: the buffered output inside the block must still reach the file.
func testScopedCloseOnPanic(t *testing.T, fsys billy.Filesystem) {
	var h *handle.FileHandle
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate out of With")
			}
		}()
		_ = handle.With("panic.txt", handle.Write, func(inner *handle.FileHandle) error {
			h = inner
			if err := inner.Print("written before panic"); err != nil {
				return err
			}
			panic("boom")
		}, handle.WithFilesystem(fsys))
	}()

	if h.IsOpen() {
		t.Errorf("handle still open after panic unwind")
	}

	r, err := handle.Open("panic.txt", handle.Read, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(panic.txt, r): got error %v, want nil", err)
	}
	defer func() {
		_ = r.Close()
	}()
	got, err := r.ReadString(handle.ReadToEnd)
	if err != nil {
		t.Fatalf("ReadString(ReadToEnd): got error %v, want nil", err)
	}
	if got != "written before panic" {
		t.Errorf("ReadString(ReadToEnd): got %q, want %q", got, "written before panic")
	}
}

// testBufferedPrint tests that Print output is batched until a flush point
// and that reads observe it afterwards.
func testBufferedPrint(t *testing.T, fsys billy.Filesystem) {
	h, err := handle.Open("print.txt", handle.ReadWrite, handle.WithFilesystem(fsys))
	if err != nil {
		t.Fatalf("Open(print.txt, rw): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close()
	}()

	if err := h.Print("a=", 1, " b=", true, "\n"); err != nil {
		t.Fatalf("Print: got error %v, want nil", err)
	}
	if err := h.Printf("c=%04d\n", 7); err != nil {
		t.Fatalf("Printf: got error %v, want nil", err)
	}

	// Seek flushes the buffer before moving the cursor.
	if _, err := h.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}
	got, err := h.ReadString(handle.ReadToEnd)
	if err != nil {
		t.Fatalf("ReadString(ReadToEnd): got error %v, want nil", err)
	}
	want := "a=1 b=true\nc=0007\n"
	if got != want {
		t.Errorf("ReadString(ReadToEnd): got %q, want %q", got, want)
	}
}

// expectPanic fails the test if fn returns without panicking.
func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic, got normal return")
		}
	}()
	fn()
}
