package handle

import (
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// File is the opaque native handle a FileHandle delegates to. Implementations
// should behave consistently with the standard library: Read returns io.EOF
// at end of file, Seek accepts the io.Seek* whence values, and Close releases
// the underlying resource.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Name() string
}

// Compile-time check: every go-billy file is usable as a native handle.
var _ File = (billy.File)(nil)

// nativeFS is a billy.Filesystem that acts like the host filesystem,
// passing both absolute and relative paths through unchanged.
type nativeFS struct {
	osfs.ChrootOS
}

// Chroot returns a new filesystem rooted at the provided path.
//
//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func (n *nativeFS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the root path for this filesystem.
func (n *nativeFS) Root() string {
	return "/"
}
