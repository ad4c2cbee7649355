package handle

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_Valid(t *testing.T) {
	assert.True(t, Read.Valid())
	assert.True(t, Write.Valid())
	assert.True(t, ReadWrite.Valid())

	assert.False(t, Mode("").Valid())
	assert.False(t, Mode("wr").Valid())
	assert.False(t, Mode("a").Valid())
}

func TestMode_Flag(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{Read, os.O_RDONLY},
		{Write, os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		{ReadWrite, os.O_RDWR | os.O_CREATE},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got, err := tt.mode.flag()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Mode("x").flag()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMode)
}
