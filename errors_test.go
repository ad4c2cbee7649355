package handle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))

	err := WrapError(ErrInvalidHandle, "reading header")
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.Equal(t, "reading header: invalid file handle", err.Error())
}

func TestWrapErrorf(t *testing.T) {
	assert.NoError(t, WrapErrorf(nil, "open %q", "x"))

	err := WrapErrorf(ErrLocked, "open %q", "data.bin")
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, `open "data.bin": file is locked by another process`, err.Error())
}

func TestSentinels_Distinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidHandle,
		ErrInvalidMode,
		ErrInvalidWhence,
		ErrLocked,
		ErrReadOnly,
		ErrWriteOnly,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v matches %v", a, b)
		}
	}
}
