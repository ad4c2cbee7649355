// Package handle provides an owning wrapper around a single open file.
//
// A FileHandle owns exactly one native handle at a time and serializes all
// interaction with it through typed operations: open a path in a mode, read
// bytes or strings, reposition the cursor, write, and close. Low-level
// failures are translated into a uniform error channel built on sentinel
// errors that can be checked with errors.Is().
//
// The default backend is the host filesystem via go-billy's osfs. Any
// billy.Filesystem can be substituted with WithFilesystem, which makes the
// package trivially testable against an in-memory filesystem. Additional
// backends live in subpackages: mmap (read-only memory-mapped files) and
// minio (S3-compatible object storage).
//
// Example usage:
//
//	h, err := handle.Open("out.log", handle.Write)
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//	h.WriteBytes([]byte("hello"))
//
// For scope-bound use that guarantees the file is closed on every exit path,
// including panics, use With:
//
//	err := handle.With("out.log", handle.Write, func(h *handle.FileHandle) error {
//		return h.Print("hello\n")
//	})
//
// A FileHandle is not safe for concurrent use from multiple goroutines
// without external synchronization: the cursor and the buffered writer are
// unguarded shared mutable state.
package handle
