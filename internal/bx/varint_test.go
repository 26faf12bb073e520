package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 0x7f, 0x80, 0x3fff, 0x4000,
		1 << 20, 1 << 27, 1 << 34, 1 << 41, 1 << 48, 1 << 55,
		^uint64(0), ^uint64(0) - 1,
	}

	for _, v := range values {
		buf := make([]byte, 9)
		n := PutVarint(buf, v)
		assert.Equal(t, VarintLen(v), n)

		got, consumed, err := GetVarint(buf[:n])
		require.NoError(t, err)
		assert.Equal(t, n, consumed)
		assert.Equal(t, int64(v), got)
	}
}

func TestVarintNineByteForm(t *testing.T) {
	// A value whose top byte is set forces the 9-byte encoding, where the
	// final byte carries a full 8 bits with no continuation bit.
	v := uint64(0xff) << 56
	buf := make([]byte, 9)
	n := PutVarint(buf, v)
	require.Equal(t, 9, n)
	for i := 0; i < 8; i++ {
		assert.NotZero(t, buf[i]&0x80, "byte %d should set the continuation bit", i)
	}

	got, consumed, err := GetVarint(buf)
	require.NoError(t, err)
	assert.Equal(t, 9, consumed)
	assert.Equal(t, int64(v), got)
}

func TestGetVarintTruncated(t *testing.T) {
	_, _, err := GetVarint([]byte{0x80, 0x80})
	assert.Error(t, err)
}

func TestGetVarintEmpty(t *testing.T) {
	_, _, err := GetVarint(nil)
	assert.Error(t, err)
}
