// Package overflow follows the linked list of overflow pages that carry
// the tail of a payload too large to fit in a cell's local area.
package overflow

import (
	"log/slog"

	"github.com/tuannm99/novalite/internal/bx"
	"github.com/tuannm99/novalite/internal/errs"
)

// PageSource is the minimal page-fetch capability overflow needs; both
// pagefile.Reader and bufferpool.Cache satisfy it by returning a page's raw
// bytes, keeping this package free of a dependency on the file layer.
type PageSource interface {
	ReadPageBytes(n uint32) ([]byte, error)
}

// ReadRemainder walks the overflow chain starting at firstPage, concatenating
// each page's content area (bytes [4:pageSize]) until remaining bytes have
// been gathered, then trims the tail to exactly that length. It defends
// against a cycle — which can only occur in a malformed file — by tracking
// visited page numbers.
func ReadRemainder(ps PageSource, firstPage uint32, remaining int, pageSize int) ([]byte, error) {
	if remaining < 0 {
		return nil, errs.Malformedf("overflow.ReadRemainder", "negative remaining %d", remaining)
	}

	out := make([]byte, 0, remaining)
	visited := make(map[uint32]bool)
	next := firstPage

	for remaining > 0 {
		if next == 0 {
			return nil, errs.Malformedf("overflow.ReadRemainder", "chain terminated early, %d bytes short", remaining)
		}
		if visited[next] {
			return nil, errs.Malformedf("overflow.ReadRemainder", "cycle detected at page %d", next)
		}
		visited[next] = true

		data, err := ps.ReadPageBytes(next)
		if err != nil {
			return nil, err
		}
		if len(data) < 4 {
			return nil, errs.Malformedf("overflow.ReadRemainder", "page %d too short for overflow header", next)
		}

		nextPage := bx.U32(data[0:4])
		content := data[4:]
		take := len(content)
		if take > remaining {
			take = remaining
		}
		out = append(out, content[:take]...)
		remaining -= take

		slog.Debug("overflow: followed chain", "page", next, "took", take, "next", nextPage, "remaining", remaining)
		next = nextPage
	}

	return out, nil
}
