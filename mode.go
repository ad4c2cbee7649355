package handle

import (
	"os"
)

// Mode selects how a path is opened.
type Mode string

const (
	// Read opens an existing file for reading only.
	Read Mode = "r"

	// Write opens a file for writing only, creating it if it does not exist
	// and truncating it if it does.
	Write Mode = "w"

	// ReadWrite opens a file for reading and writing, creating it if it does
	// not exist. Existing contents are preserved.
	ReadWrite Mode = "rw"
)

// Valid reports whether m is one of the accepted open modes.
func (m Mode) Valid() bool {
	switch m {
	case Read, Write, ReadWrite:
		return true
	default:
		return false
	}
}

// flag translates m into os.OpenFile flags.
func (m Mode) flag() (int, error) {
	switch m {
	case Read:
		return os.O_RDONLY, nil
	case Write:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case ReadWrite:
		return os.O_RDWR | os.O_CREATE, nil
	default:
		return 0, WrapErrorf(ErrInvalidMode, "handle: mode %q", string(m))
	}
}
