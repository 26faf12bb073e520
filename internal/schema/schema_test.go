package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novalite/internal/bx"
	"github.com/tuannm99/novalite/internal/errs"
	"github.com/tuannm99/novalite/internal/pagefile"
	"github.com/tuannm99/novalite/internal/record"
)

const fakePageSize = 1024

type fakeSource struct {
	pages map[uint32][]byte
}

func (f *fakeSource) ReadPage(n uint32) (*pagefile.Page, error) {
	return &pagefile.Page{Num: n, Data: f.pages[n]}, nil
}
func (f *fakeSource) ReadPageBytes(n uint32) ([]byte, error) { return f.pages[n], nil }
func (f *fakeSource) Header() pagefile.Header {
	return pagefile.Header{PageSize: fakePageSize, ReservedSpace: 0}
}

func putVarintAppend(buf []byte, v uint64) []byte {
	tmp := make([]byte, 9)
	n := bx.PutVarint(tmp, v)
	return append(buf, tmp[:n]...)
}

// encodeColumn builds one record header entry + body bytes for either a
// text value or an integer value.
func encodeColumn(header, body []byte, v any) ([]byte, []byte) {
	switch x := v.(type) {
	case string:
		st := uint64(13 + 2*len(x))
		header = putVarintAppend(header, st)
		body = append(body, []byte(x)...)
	case int:
		header = putVarintAppend(header, 6)
		ibuf := make([]byte, 8)
		bx.PutU64(ibuf, uint64(int64(x)))
		body = append(body, ibuf...)
	}
	return header, body
}

// encodeSchemaRow builds a sqlite_schema row payload: (type, name, tbl_name,
// rootpage, sql).
func encodeSchemaRow(typ, name, tblName string, rootPage int, sql string) []byte {
	var header, body []byte
	header, body = encodeColumn(header, body, typ)
	header, body = encodeColumn(header, body, name)
	header, body = encodeColumn(header, body, tblName)
	header, body = encodeColumn(header, body, rootPage)
	header, body = encodeColumn(header, body, sql)

	hdrLenBuf := make([]byte, 9)
	n := bx.PutVarint(hdrLenBuf, uint64(len(header)+1))
	out := append([]byte{}, hdrLenBuf[:n]...)
	out = append(out, header...)
	return append(out, body...)
}

// makeLeafTablePage builds a page's worth of leaf-table cells. This fixture
// is always used for page 1 (the schema page), so the btree header itself
// starts at byte 100 — cell pointers, like on a real file, are offsets from
// the start of the whole page, not from the start of the btree area.
func makeLeafTablePage(rows [][]byte) []byte {
	const headerOffset = pagefile.HeaderSize
	page := make([]byte, fakePageSize)
	page[headerOffset] = 13 // leaf table
	bx.PutU16(page[headerOffset+3:headerOffset+5], uint16(len(rows)))

	ptrBase := headerOffset + 8
	cellArea := ptrBase + len(rows)*2

	for i, payload := range rows {
		cellStart := cellArea
		tmp := make([]byte, 9)
		n := bx.PutVarint(tmp, uint64(len(payload)))
		cellArea += copy(page[cellArea:], tmp[:n])
		n = bx.PutVarint(tmp, uint64(i+1))
		cellArea += copy(page[cellArea:], tmp[:n])
		cellArea += copy(page[cellArea:], payload)
		bx.PutU16(page[ptrBase+i*2:ptrBase+i*2+2], uint16(cellStart))
	}
	bx.PutU16(page[headerOffset+5:headerOffset+7], uint16(ptrBase))
	return page
}

func newTestSchemaSource() *fakeSource {
	rows := [][]byte{
		encodeSchemaRow("table", "apples", "apples", 2,
			"CREATE TABLE apples (id integer primary key, name text, color text)"),
		encodeSchemaRow("index", "idx_apples_color", "apples", 3,
			"CREATE INDEX idx_apples_color ON apples (color)"),
		encodeSchemaRow("table", "sqlite_sequence", "sqlite_sequence", 4,
			"CREATE TABLE sqlite_sequence(name,seq)"),
	}
	return &fakeSource{pages: map[uint32][]byte{1: makeLeafTablePage(rows)}}
}

func TestLoadAndResolve(t *testing.T) {
	src := newTestSchemaSource()
	sch, err := Load(src, record.UTF8)
	require.NoError(t, err)

	assert.Equal(t, 2, sch.CountTables())
	assert.Equal(t, []string{"apples"}, sch.UserTableNames())

	root, cols, sql, err := sch.Resolve("apples")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), root)
	assert.Contains(t, sql, "CREATE TABLE apples")
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "color", cols[2].Name)
}

func TestFindIndex(t *testing.T) {
	src := newTestSchemaSource()
	sch, err := Load(src, record.UTF8)
	require.NoError(t, err)

	root, ok := sch.FindIndex("apples", "color")
	require.True(t, ok)
	assert.Equal(t, uint32(3), root)

	_, ok = sch.FindIndex("apples", "weight")
	assert.False(t, ok)
}

func TestResolveUnknownTableIsSchemaError(t *testing.T) {
	src := newTestSchemaSource()
	sch, err := Load(src, record.UTF8)
	require.NoError(t, err)

	_, _, _, err = sch.Resolve("bananas")
	require.Error(t, err)
	assert.True(t, errs.IsSchema(err))
}
