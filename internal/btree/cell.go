package btree

import (
	"github.com/tuannm99/novalite/internal/bx"
	"github.com/tuannm99/novalite/internal/errs"
)

// Cell is a tagged union over the four cell shapes the on-disk format
// defines. Which fields are meaningful depends on the page Kind the cell
// came from: table cells carry a rowid, index cells don't; leaf cells
// carry a payload, interior cells mostly carry a child pointer.
type Cell struct {
	LeftChild uint32 // interior kinds only
	RowID     int64  // table kinds only
	Payload   []byte // leaf kinds, and interior-index
}

func parseCell(src Source, kind Kind, buf []byte, usable int) (Cell, error) {
	switch kind {
	case LeafTable:
		return parseLeafTableCell(src, buf, usable)
	case InteriorTable:
		return parseInteriorTableCell(buf)
	case LeafIndex:
		return parseLeafIndexCell(src, buf, usable)
	case InteriorIndex:
		return parseInteriorIndexCell(src, buf, usable)
	default:
		return Cell{}, errs.Malformedf("btree.parseCell", "unreachable kind %d", kind)
	}
}

// Leaf table cell: payload-size varint, rowid varint, local payload,
// optional overflow pointer.
func parseLeafTableCell(src Source, buf []byte, usable int) (Cell, error) {
	size, n, err := bx.GetVarint(buf)
	if err != nil {
		return Cell{}, errs.Malformed("btree.parseLeafTableCell", err)
	}
	rowid, m, err := bx.GetVarint(buf[n:])
	if err != nil {
		return Cell{}, errs.Malformed("btree.parseLeafTableCell", err)
	}
	payload, _, err := readLocalAndOverflow(src, LeafTable, int(size), buf[n+m:], usable)
	if err != nil {
		return Cell{}, err
	}
	return Cell{RowID: rowid, Payload: payload}, nil
}

func parseInteriorTableCell(buf []byte) (Cell, error) {
	if len(buf) < 4 {
		return Cell{}, errs.Malformedf("btree.parseInteriorTableCell", "truncated left-child pointer")
	}
	left := bx.U32(buf[0:4])
	rowid, _, err := bx.GetVarint(buf[4:])
	if err != nil {
		return Cell{}, errs.Malformed("btree.parseInteriorTableCell", err)
	}
	return Cell{LeftChild: left, RowID: rowid}, nil
}

func parseLeafIndexCell(src Source, buf []byte, usable int) (Cell, error) {
	payload, _, err := readPayload(src, LeafIndex, buf, usable)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Payload: payload}, nil
}

func parseInteriorIndexCell(src Source, buf []byte, usable int) (Cell, error) {
	if len(buf) < 4 {
		return Cell{}, errs.Malformedf("btree.parseInteriorIndexCell", "truncated left-child pointer")
	}
	left := bx.U32(buf[0:4])
	payload, _, err := readPayload(src, InteriorIndex, buf[4:], usable)
	if err != nil {
		return Cell{}, err
	}
	return Cell{LeftChild: left, Payload: payload}, nil
}
