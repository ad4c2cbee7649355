package handle

import (
	"errors"
	"fmt"
)

// Common sentinel errors that can be checked with errors.Is().
// These wrap underlying backend errors while providing a stable API for consumers.

// ErrInvalidHandle is returned when an operation is attempted on a handle
// that is empty: never opened, already closed, or drained by an ownership
// transfer.
var ErrInvalidHandle = errors.New("invalid file handle")

// ErrInvalidMode is returned when an open mode is not one of "r", "w", "rw".
var ErrInvalidMode = errors.New("invalid open mode")

// ErrInvalidWhence is returned when a seek origin is not one of
// io.SeekStart, io.SeekCurrent, io.SeekEnd.
var ErrInvalidWhence = errors.New("invalid seek whence")

// ErrLocked is returned when WithExclusiveLock was requested but another
// process already holds the advisory lock for the path.
var ErrLocked = errors.New("file is locked by another process")

// ErrReadOnly is returned by backends that do not support writes, such as
// memory-mapped files.
var ErrReadOnly = errors.New("handle is read-only")

// ErrWriteOnly is returned by backends that cannot serve reads on a handle
// opened for writing, such as object storage uploads in progress.
var ErrWriteOnly = errors.New("handle is write-only")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
