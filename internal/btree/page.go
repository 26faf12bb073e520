// Package btree parses the four B-tree page variants (table/index ×
// interior/leaf), their cells, and the traversal strategies (full scan,
// index point lookup, rowid fetch) that walk them. Structurally grounded
// on the teacher's leaf/internal page split — one type per page shape,
// sharing a "header + cells" view — generalised from its fixed-size
// heap-indexed entries to the on-disk format's variable-length,
// cell-pointer-addressed cells.
package btree

import (
	"github.com/tuannm99/novalite/internal/bx"
	"github.com/tuannm99/novalite/internal/errs"
	"github.com/tuannm99/novalite/internal/overflow"
	"github.com/tuannm99/novalite/internal/pagefile"
)

// Kind is the page's leading byte, identifying which of the four cell
// shapes follow the header.
type Kind uint8

const (
	InteriorIndex Kind = 2
	InteriorTable Kind = 5
	LeafIndex     Kind = 10
	LeafTable     Kind = 13
)

func (k Kind) IsInterior() bool { return k == InteriorIndex || k == InteriorTable }
func (k Kind) IsIndex() bool    { return k == InteriorIndex || k == LeafIndex }
func (k Kind) valid() bool {
	switch k {
	case InteriorIndex, InteriorTable, LeafIndex, LeafTable:
		return true
	default:
		return false
	}
}

// Header is the common B-tree page header. RightChild is only meaningful
// for interior pages.
type Header struct {
	Kind           Kind
	FirstFreeblock uint16
	CellCount      uint16
	CellStart      uint32
	FragmentedFree uint8
	RightChild     uint32 // interior kinds only
}

func headerSize(k Kind) int {
	if k.IsInterior() {
		return 12
	}
	return 8
}

// Page is one parsed B-tree page: its header and its cells. Overflow
// chains are resolved during Parse, so every cell already holds its full
// payload.
type Page struct {
	Num    uint32
	Header Header
	Cells  []Cell
}

// Source is what a page parse needs from the layer below: whole pages by
// number (for overflow chains) and the file header (for usable size and
// page size).
type Source interface {
	ReadPage(n uint32) (*pagefile.Page, error)
	ReadPageBytes(n uint32) ([]byte, error)
	Header() pagefile.Header
}

// Parse reads page n, validates its kind byte against want (pass 0 to
// accept any valid kind), and decodes its header, cell-pointer array, and
// every cell.
func Parse(src Source, n uint32, want Kind) (*Page, error) {
	raw, err := src.ReadPage(n)
	if err != nil {
		return nil, err
	}
	area := raw.BtreeArea()
	if len(area) < 1 {
		return nil, errs.Malformedf("btree.Parse", "page %d has no btree area", n)
	}

	kind := Kind(area[0])
	if !kind.valid() {
		return nil, errs.Malformedf("btree.Parse", "page %d has invalid kind byte %d", n, area[0])
	}
	if want != 0 && kind != want {
		return nil, errs.Malformedf("btree.Parse", "page %d is kind %d, expected %d", n, kind, want)
	}

	hdrSize := headerSize(kind)
	if len(area) < hdrSize {
		return nil, errs.Malformedf("btree.Parse", "page %d too short for header", n)
	}

	h := Header{
		Kind:           kind,
		FirstFreeblock: bx.U16(area[1:3]),
		CellCount:      bx.U16(area[3:5]),
		CellStart:      uint32(bx.U16(area[5:7])),
		FragmentedFree: area[7],
	}
	if h.CellStart == 0 {
		h.CellStart = 65536
	}
	if kind.IsInterior() {
		h.RightChild = bx.U32(area[8:12])
	}

	ptrBase := hdrSize
	cells := make([]Cell, 0, h.CellCount)
	usable := int(src.Header().UsableSize())

	for i := uint16(0); i < h.CellCount; i++ {
		ptrOff := ptrBase + int(i)*2
		if ptrOff+2 > len(area) {
			return nil, errs.Malformedf("btree.Parse", "page %d cell pointer %d out of bounds", n, i)
		}
		// Cell pointers are offsets from the start of the whole page, not
		// from the start of the btree area — on page 1 those differ by the
		// 100-byte file header, so cell content is read from raw.Data, not
		// from area.
		cellOff := int(bx.U16(area[ptrOff : ptrOff+2]))
		if cellOff < 0 || cellOff > len(raw.Data) {
			return nil, errs.Malformedf("btree.Parse", "page %d cell %d offset %d out of bounds", n, i, cellOff)
		}

		cell, err := parseCell(src, kind, raw.Data[cellOff:], usable)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}

	return &Page{Num: n, Header: h, Cells: cells}, nil
}

// localPayloadMax mirrors the specification's X threshold: the largest
// payload size that stays fully local to the cell, per page kind.
func localPayloadMax(kind Kind, usable int) int {
	if kind == LeafTable {
		return usable - 35
	}
	return ((usable-12)*64)/255 - 23
}

// localPayloadMin mirrors the specification's M threshold, used to compute
// the spill point for payloads that overflow.
func localPayloadMin(usable int) int {
	return ((usable-12)*32)/255 - 23
}

// localPayloadSize implements the specification's K formula: how many
// payload bytes stay in the cell when the full payload exceeds X.
func localPayloadSize(payloadSize, usable int, kind Kind) int {
	x := localPayloadMax(kind, usable)
	if payloadSize <= x {
		return payloadSize
	}
	m := localPayloadMin(usable)
	k := m + (payloadSize-m)%(usable-4)
	if k <= x {
		return k
	}
	return m
}

// readPayload reads a varint-prefixed payload at buf's start (payload-size
// varint immediately followed by local bytes), following the overflow
// chain if the declared size exceeds the local threshold. Used by the two
// cell shapes with no rowid between the size varint and the payload bytes
// (leaf-index, interior-index).
func readPayload(src Source, kind Kind, buf []byte, usable int) (payload []byte, consumed int, err error) {
	size, n, err := bx.GetVarint(buf)
	if err != nil {
		return nil, 0, errs.Malformed("btree.readPayload", err)
	}
	local, lconsumed, err := readLocalAndOverflow(src, kind, int(size), buf[n:], usable)
	if err != nil {
		return nil, 0, err
	}
	return local, n + lconsumed, nil
}

// readLocalAndOverflow reads the local bytes of a payload of declared size
// payloadSize starting at body[0], plus the 4-byte overflow pointer if the
// payload spills, resolving the remainder through the overflow chain.
// Returns the full logical payload and the number of bytes of body
// consumed by the local representation (local bytes + overflow pointer,
// if present).
func readLocalAndOverflow(src Source, kind Kind, payloadSize int, body []byte, usable int) ([]byte, int, error) {
	if payloadSize < 0 {
		return nil, 0, errs.Malformedf("btree.readLocalAndOverflow", "negative payload size %d", payloadSize)
	}

	local := localPayloadSize(payloadSize, usable, kind)
	if local < 0 {
		local = 0
	}
	if local > payloadSize {
		local = payloadSize
	}
	if local > len(body) {
		return nil, 0, errs.Malformedf("btree.readLocalAndOverflow", "local payload runs past page: need %d, have %d", local, len(body))
	}

	if local == payloadSize {
		return append([]byte(nil), body[:local]...), local, nil
	}

	if local+4 > len(body) {
		return nil, 0, errs.Malformedf("btree.readLocalAndOverflow", "missing overflow page pointer")
	}
	overflowPage := bx.U32(body[local : local+4])

	out := make([]byte, 0, payloadSize)
	out = append(out, body[:local]...)
	rest, err := overflow.ReadRemainder(src, overflowPage, payloadSize-local, int(src.Header().PageSize))
	if err != nil {
		return nil, 0, err
	}
	out = append(out, rest...)

	return out, local + 4, nil
}
