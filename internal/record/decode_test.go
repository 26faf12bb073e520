package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novalite/internal/bx"
)

// buildRecord assembles a minimal record body from a list of (serialType,
// bytes) pairs, the way a leaf cell's payload looks on disk.
func buildRecord(cols [][2]any) []byte {
	var header []byte
	var body []byte
	for _, c := range cols {
		st := c[0].(int64)
		var b []byte
		if c[1] != nil {
			b = c[1].([]byte)
		}
		tmp := make([]byte, 9)
		n := bx.PutVarint(tmp, uint64(st))
		header = append(header, tmp[:n]...)
		body = append(body, b...)
	}

	hdrLenBuf := make([]byte, 9)
	// +1 because the header-length varint's own size is folded into the
	// total, same as the on-disk format requires.
	n := bx.PutVarint(hdrLenBuf, uint64(len(header)+1))
	out := append(hdrLenBuf[:n], header...)
	return append(out, body...)
}

func TestDecodeIntegersAndNullAndZeroOne(t *testing.T) {
	buf := buildRecord([][2]any{
		{int64(0), nil},          // NULL
		{int64(1), []byte{0x7f}}, // int8 = 127
		{int64(8), nil},          // literal 0
		{int64(9), nil},          // literal 1
	})

	rec, err := Decode(buf, UTF8)
	require.NoError(t, err)
	require.Len(t, rec.Values, 4)

	assert.True(t, rec.Values[0].IsNull())
	assert.Equal(t, int64(127), rec.Values[1].I)
	assert.Equal(t, int64(0), rec.Values[2].I)
	assert.Equal(t, int64(1), rec.Values[3].I)
}

func TestDecodeTextUTF8(t *testing.T) {
	text := []byte("hello")
	st := int64(13 + 2*len(text))
	buf := buildRecord([][2]any{{st, text}})

	rec, err := Decode(buf, UTF8)
	require.NoError(t, err)
	require.Len(t, rec.Values, 1)
	assert.True(t, rec.Values[0].IsText())
	assert.Equal(t, "hello", rec.Values[0].S)
}

func TestDecodeBlob(t *testing.T) {
	blob := []byte{0xde, 0xad, 0xbe, 0xef}
	st := int64(12 + 2*len(blob))
	buf := buildRecord([][2]any{{st, blob}})

	rec, err := Decode(buf, UTF8)
	require.NoError(t, err)
	assert.Equal(t, blob, rec.Values[0].B)
}

func TestDecodeFloat(t *testing.T) {
	f64 := make([]byte, 8)
	bx.PutU64(f64, 0x3ff0000000000000) // 1.0
	buf := buildRecord([][2]any{{int64(7), f64}})

	rec, err := Decode(buf, UTF8)
	require.NoError(t, err)
	assert.Equal(t, float64(1), rec.Values[0].F)
}

func TestDecodeRejectsReservedSerialType(t *testing.T) {
	buf := buildRecord([][2]any{{int64(10), nil}})
	_, err := Decode(buf, UTF8)
	assert.Error(t, err)
}

func TestDecodeTruncatedHeaderFails(t *testing.T) {
	_, err := Decode([]byte{0x05, 0x01}, UTF8)
	assert.Error(t, err)
}
