// Package pagefile is the byte/file reader: a scoped, read-only handle on
// the database file that knows how to fetch whole pages and decode the
// file header. It never retains a cursor across calls other than the one
// *os.File owns internally; every read is a positional pread-style seek.
package pagefile

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/atomic"

	"github.com/tuannm99/novalite/internal/errs"
)

// Page is one fixed-size page read from disk, still carrying its page
// number so callers can report it in errors.
type Page struct {
	Num  uint32
	Data []byte
}

// Reader owns the file handle. Page reads are positional (ReadAt) and do
// not move the file's cursor; the engine's concurrency model is
// single-threaded, and a Reader is used from one goroutine.
type Reader struct {
	file   *os.File
	header Header
	size   int64

	pagesRead atomic.Uint64
}

// Open opens path read-only and parses its 100-byte header. A file shorter
// than HeaderSize, or missing, or unreadable, fails with IoError. A bad
// magic string fails with MalformedError.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Io("open", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.Io("stat", err)
	}

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, errs.Io("read header", err)
	}

	hdr, err := parseHeader(buf)
	if err != nil {
		f.Close()
		return nil, err
	}

	slog.Debug("pagefile: opened", "path", path, "page_size", hdr.PageSize, "file_size", fi.Size())
	return &Reader{file: f, header: hdr, size: fi.Size()}, nil
}

func (r *Reader) Header() Header { return r.header }

// PageCount derives the total page count from the file size, matching
// DatabaseSize only when the header field is trustworthy; callers that
// need the true upper bound for validating page references should use
// this rather than Header().DatabaseSize.
func (r *Reader) PageCount() uint32 {
	return uint32(r.size / int64(r.header.PageSize))
}

// ReadPage fetches page n (1-indexed) in full, including its 100-byte
// header skew for page 1 — callers that need the B-tree area of page 1
// must skip HeaderSize bytes themselves, matching seek_to_page semantics
// from the specification.
func (r *Reader) ReadPage(n uint32) (*Page, error) {
	if n < 1 || n > r.PageCount() {
		return nil, errs.Malformedf("ReadPage", "page %d out of range [1,%d]", n, r.PageCount())
	}

	buf := make([]byte, r.header.PageSize)
	off := int64(n-1) * int64(r.header.PageSize)
	if _, err := r.file.ReadAt(buf, off); err != nil {
		return nil, errs.Io("ReadPage", err)
	}
	r.pagesRead.Inc()
	return &Page{Num: n, Data: buf}, nil
}

// BtreeArea returns the slice of a page's bytes where its B-tree page
// header begins: all of the page, except for page 1 where the first
// HeaderSize bytes are the file header.
func (p *Page) BtreeArea() []byte {
	if p.Num == 1 {
		return p.Data[HeaderSize:]
	}
	return p.Data
}

// ReadPageBytes satisfies overflow.PageSource without exposing the Page
// wrapper type to that package.
func (r *Reader) ReadPageBytes(n uint32) ([]byte, error) {
	p, err := r.ReadPage(n)
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}

// PagesRead is the count of ReadPage calls that hit the disk, exposed for
// diagnostics and tests; the engine draws no behavioural decision from it.
func (r *Reader) PagesRead() uint64 { return r.pagesRead.Load() }

func (r *Reader) Close() error {
	return errs.Io("close", r.file.Close())
}
