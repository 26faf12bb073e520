// Package bufferpool is a small fixed-capacity page cache sitting in front
// of pagefile.Reader. Nothing here is ever written back — there is no
// Dirty flag, no pin count, no FlushAll — because the engine this pool
// serves never mutates a page after reading it.
package bufferpool

import (
	"container/list"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/tuannm99/novalite/internal/pagefile"
)

var DefaultCapacity = 64

// frame is one cached page plus its position in the LRU list.
type frame struct {
	pageNum uint32
	page    *pagefile.Page
}

// Cache wraps a pagefile.Reader with a fixed-capacity LRU keyed by page
// number, so repeated lookups of the same page within one query (the
// schema page, in particular) don't re-read it from disk. Grounded on the
// hit/miss/evict shape of a conventional buffer pool, stripped of the
// pin-count and dirty-page bookkeeping a write-capable pool needs.
type Cache struct {
	reader   *pagefile.Reader
	capacity int

	order *list.List // front = most recently used
	index map[uint32]*list.Element

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCache(reader *pagefile.Reader, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		reader:   reader,
		capacity: capacity,
		order:    list.New(),
		index:    make(map[uint32]*list.Element),
	}
}

// ReadPage returns page n, serving it from cache when present.
func (c *Cache) ReadPage(n uint32) (*pagefile.Page, error) {
	if el, ok := c.index[n]; ok {
		c.order.MoveToFront(el)
		c.hits.Inc()
		return el.Value.(*frame).page, nil
	}

	c.misses.Inc()
	page, err := c.reader.ReadPage(n)
	if err != nil {
		return nil, err
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	el := c.order.PushFront(&frame{pageNum: n, page: page})
	c.index[n] = el

	return page, nil
}

// ReadPageBytes satisfies overflow.PageSource.
func (c *Cache) ReadPageBytes(n uint32) ([]byte, error) {
	p, err := c.ReadPage(n)
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}

func (c *Cache) Header() pagefile.Header { return c.reader.Header() }
func (c *Cache) PageCount() uint32       { return c.reader.PageCount() }

func (c *Cache) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	f := back.Value.(*frame)
	delete(c.index, f.pageNum)
	c.order.Remove(back)
	slog.Debug("bufferpool: evicted", "page", f.pageNum)
}

// Stats reports cache hits and misses for diagnostics and tests.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
