// Functional options for configuring how a path is opened.
// These follow the functional options pattern for clean, composable configuration.

package handle

import (
	"os"

	"github.com/go-git/go-billy/v5"
)

const (
	// defaultPerm is the permission bits used when a mode creates the file.
	defaultPerm os.FileMode = 0o644

	// defaultBufferSize is the size of the buffered writer behind Print.
	defaultBufferSize = 4096
)

// Option configures an Open or With call.
type Option func(*options)

type options struct {
	fsys      billy.Filesystem
	perm      os.FileMode
	bufSize   int
	exclusive bool

	// native is true while fsys is the host filesystem; advisory locking
	// only makes sense for paths that exist on disk.
	native bool
}

func defaultOptions() options {
	return options{
		fsys:    &nativeFS{},
		perm:    defaultPerm,
		bufSize: defaultBufferSize,
		native:  true,
	}
}

// WithFilesystem substitutes the backend the path is opened on. Any go-billy
// filesystem works, including memfs for tests. Advisory locking is disabled
// for substituted filesystems since their paths need not exist on the host.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(o *options) {
		o.fsys = fsys
		o.native = false
	}
}

// WithExclusiveLock acquires an advisory lock for the path before opening.
// If another process holds the lock, Open fails with ErrLocked. The lock is
// released when the handle is closed. Ignored for non-host filesystems.
func WithExclusiveLock() Option {
	return func(o *options) {
		o.exclusive = true
	}
}

// WithPerm sets the permission bits used when the open mode creates the file.
// Default is 0o644.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithBufferSize sets the size of the buffered writer used by Print and
// Printf. Default is 4096 bytes. Non-positive values are ignored.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufSize = n
		}
	}
}
