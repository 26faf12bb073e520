package btree

import (
	"sort"

	"github.com/tuannm99/novalite/internal/errs"
	"github.com/tuannm99/novalite/internal/record"
)

// RowVisitor is called once per row a table-btree traversal emits. Returning
// an error aborts the traversal.
type RowVisitor func(rowid int64, rec record.Record) error

// Scan performs a full table scan from root, decoding every leaf record and
// invoking visit with its rowid. Interior-table pages are walked left
// child first, in stored cell order, then the right-most child pointer.
func Scan(src Source, root uint32, enc record.Encoding, visit RowVisitor) error {
	page, err := Parse(src, root, 0)
	if err != nil {
		return err
	}
	if !page.Header.Kind.IsInterior() && page.Header.Kind != LeafTable {
		return errs.Malformedf("btree.Scan", "page %d is not a table page (kind %d)", root, page.Header.Kind)
	}

	switch page.Header.Kind {
	case LeafTable:
		for _, cell := range page.Cells {
			rec, err := record.Decode(cell.Payload, enc)
			if err != nil {
				return err
			}
			if err := visit(cell.RowID, rec); err != nil {
				return err
			}
		}
		return nil
	case InteriorTable:
		for _, cell := range page.Cells {
			if err := Scan(src, cell.LeftChild, enc, visit); err != nil {
				return err
			}
		}
		if page.Header.RightChild != 0 {
			if err := Scan(src, page.Header.RightChild, enc, visit); err != nil {
				return err
			}
		}
		return nil
	default:
		return errs.Malformedf("btree.Scan", "page %d has unexpected kind %d for a table btree", root, page.Header.Kind)
	}
}

// CountRows sums leaf cell counts across every reachable leaf-table page
// under root, without decoding any record — the correct (sum-over-leaves)
// implementation of COUNT(*), as opposed to reading only the root page's
// own cell count when the root happens to be an interior page.
func CountRows(src Source, root uint32) (int, error) {
	page, err := Parse(src, root, 0)
	if err != nil {
		return 0, err
	}
	switch page.Header.Kind {
	case LeafTable:
		return int(page.Header.CellCount), nil
	case InteriorTable:
		total := 0
		for _, cell := range page.Cells {
			n, err := CountRows(src, cell.LeftChild)
			if err != nil {
				return 0, err
			}
			total += n
		}
		if page.Header.RightChild != 0 {
			n, err := CountRows(src, page.Header.RightChild)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	default:
		return 0, errs.Malformedf("btree.CountRows", "page %d has unexpected kind %d for a table btree", root, page.Header.Kind)
	}
}

// IndexScan performs a point lookup on an index btree for the text key
// needle, returning the matching rowids, sorted ascending and deduplicated.
// Per the specification's conservative traversal: on an interior-index
// page every cell's key is checked (not just those that happen to be on
// the search path), and every child — including the one belonging to a
// cell whose own key matched — is still recursed into, because keys equal
// to a separator may live on either side of it.
func IndexScan(src Source, root uint32, needle string, enc record.Encoding) ([]int64, error) {
	seen := make(map[int64]bool)
	var out []int64
	if err := indexScan(src, root, needle, enc, seen, &out); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func indexScan(src Source, page uint32, needle string, enc record.Encoding, seen map[int64]bool, out *[]int64) error {
	p, err := Parse(src, page, 0)
	if err != nil {
		return err
	}

	add := func(rec record.Record) {
		if len(rec.Values) < 2 || !rec.Values[0].IsText() || !rec.Values[1].IsInt() {
			return
		}
		if rec.Values[0].S != needle {
			return
		}
		rowid := rec.Values[1].I
		if !seen[rowid] {
			seen[rowid] = true
			*out = append(*out, rowid)
		}
	}

	switch p.Header.Kind {
	case LeafIndex:
		for _, cell := range p.Cells {
			rec, err := record.Decode(cell.Payload, enc)
			if err != nil {
				return err
			}
			add(rec)
		}
		return nil
	case InteriorIndex:
		for _, cell := range p.Cells {
			rec, err := record.Decode(cell.Payload, enc)
			if err != nil {
				return err
			}
			add(rec)
			if err := indexScan(src, cell.LeftChild, needle, enc, seen, out); err != nil {
				return err
			}
		}
		if p.Header.RightChild != 0 {
			if err := indexScan(src, p.Header.RightChild, needle, enc, seen, out); err != nil {
				return err
			}
		}
		return nil
	default:
		return errs.Malformedf("btree.IndexScan", "page %d has unexpected kind %d for an index btree", page, p.Header.Kind)
	}
}

// Fetch locates the row with the given rowid by descending the table
// btree from root, choosing at each interior page the left child of the
// first cell whose separator rowid is >= target, or the right-most child
// if every separator is smaller. Returns found=false, no error, if the
// tree has no such rowid.
func Fetch(src Source, root uint32, rowid int64, enc record.Encoding) (record.Record, bool, error) {
	page, err := Parse(src, root, 0)
	if err != nil {
		return record.Record{}, false, err
	}

	switch page.Header.Kind {
	case LeafTable:
		for _, cell := range page.Cells {
			if cell.RowID == rowid {
				rec, err := record.Decode(cell.Payload, enc)
				if err != nil {
					return record.Record{}, false, err
				}
				return rec, true, nil
			}
		}
		return record.Record{}, false, nil
	case InteriorTable:
		if len(page.Cells) == 0 {
			return record.Record{}, false, nil
		}
		child := page.Header.RightChild
		for _, cell := range page.Cells {
			if cell.RowID >= rowid {
				child = cell.LeftChild
				break
			}
		}
		return Fetch(src, child, rowid, enc)
	default:
		return record.Record{}, false, errs.Malformedf("btree.Fetch", "page %d has unexpected kind %d for a table btree", root, page.Header.Kind)
	}
}
