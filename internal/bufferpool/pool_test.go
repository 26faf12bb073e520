package bufferpool

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novalite/internal/bx"
	"github.com/tuannm99/novalite/internal/pagefile"
)

func openTestReader(t *testing.T, pageSize, pageCount int) *pagefile.Reader {
	t.Helper()
	buf := make([]byte, pageSize*pageCount)
	copy(buf[0:16], []byte("SQLite format 3\x00"))
	bx.PutU16(buf[16:18], uint16(pageSize))
	bx.PutU32(buf[28:32], uint32(pageCount))

	f, err := os.CreateTemp(t.TempDir(), "novalite-*.db")
	require.NoError(t, err)
	_, err = f.Write(buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := pagefile.Open(f.Name())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestCacheServesHitsFromMemory(t *testing.T) {
	r := openTestReader(t, 512, 4)
	c := NewCache(r, 2)

	_, err := c.ReadPage(2)
	require.NoError(t, err)
	_, err = c.ReadPage(2)
	require.NoError(t, err)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	r := openTestReader(t, 512, 4)
	c := NewCache(r, 2)

	_, err := c.ReadPage(2)
	require.NoError(t, err)
	_, err = c.ReadPage(3)
	require.NoError(t, err)
	_, err = c.ReadPage(4) // evicts page 2, the least recently used
	require.NoError(t, err)

	_, err = c.ReadPage(2)
	require.NoError(t, err)

	_, misses := c.Stats()
	assert.Equal(t, uint64(4), misses) // 2, 3, 4, then 2 again (evicted)
}

func TestCacheDefaultsCapacityWhenNonPositive(t *testing.T) {
	r := openTestReader(t, 512, 2)
	c := NewCache(r, 0)
	assert.Equal(t, DefaultCapacity, c.capacity)
}
