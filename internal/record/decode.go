package record

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/tuannm99/novalite/internal/bx"
	"github.com/tuannm99/novalite/internal/errs"
)

// Encoding identifies the file header's declared text encoding, used only
// to decode text column bodies (odd serial types >= 13).
type Encoding uint32

const (
	UTF8    Encoding = 1
	UTF16LE Encoding = 2
	UTF16BE Encoding = 3
)

// Record is the decoded form of one payload: a tagged value per column,
// alongside the raw serial types the B-tree layer may still need (e.g. to
// tell an integer primary key column apart from a literal rowid alias).
type Record struct {
	Values []Value
	Types  []int64
}

// Decode parses one record per §4.B: a header-length varint, then one
// serial-type varint per column, then the column bodies in order. Fails
// with MalformedError on a header-length/column-varint mismatch, an
// unknown serial type (10 or 11), or a truncated body.
func Decode(buf []byte, enc Encoding) (Record, error) {
	headerLen, n, err := bx.GetVarint(buf)
	if err != nil {
		return Record{}, errs.Malformed("record.Decode: header length", err)
	}
	if headerLen < 1 || int(headerLen) > len(buf) {
		return Record{}, errs.Malformedf("record.Decode", "header length %d exceeds buffer %d", headerLen, len(buf))
	}

	var types []int64
	pos := n
	for pos < int(headerLen) {
		st, k, err := bx.GetVarint(buf[pos:headerLen])
		if err != nil {
			return Record{}, errs.Malformed("record.Decode: serial type", err)
		}
		if st == 10 || st == 11 {
			return Record{}, errs.Malformedf("record.Decode", "reserved serial type %d", st)
		}
		types = append(types, st)
		pos += k
	}
	if pos != int(headerLen) {
		return Record{}, errs.Malformedf("record.Decode", "header length %d disagrees with consumed %d", headerLen, pos)
	}

	body := buf[headerLen:]
	values := make([]Value, len(types))
	off := 0
	for i, st := range types {
		v, width, err := decodeValue(body[off:], st, enc)
		if err != nil {
			return Record{}, err
		}
		values[i] = v
		off += width
	}

	return Record{Values: values, Types: types}, nil
}

func decodeValue(body []byte, serialType int64, enc Encoding) (Value, int, error) {
	switch {
	case serialType == 0:
		return Null(), 0, nil
	case serialType >= 1 && serialType <= 6:
		width := [...]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 6, 6: 8}[serialType]
		if len(body) < width {
			return Value{}, 0, errs.Malformedf("record.decodeValue", "truncated int body: need %d, have %d", width, len(body))
		}
		return Int(decodeSignedInt(body[:width])), width, nil
	case serialType == 7:
		if len(body) < 8 {
			return Value{}, 0, errs.Malformedf("record.decodeValue", "truncated float body")
		}
		return Float(bx.F64(body[:8])), 8, nil
	case serialType == 8:
		return Int(0), 0, nil
	case serialType == 9:
		return Int(1), 0, nil
	case serialType >= 12 && serialType%2 == 0:
		width := int((serialType - 12) / 2)
		if len(body) < width {
			return Value{}, 0, errs.Malformedf("record.decodeValue", "truncated blob: need %d, have %d", width, len(body))
		}
		return Blob(append([]byte(nil), body[:width]...)), width, nil
	case serialType >= 13 && serialType%2 == 1:
		width := int((serialType - 13) / 2)
		if len(body) < width {
			return Value{}, 0, errs.Malformedf("record.decodeValue", "truncated text: need %d, have %d", width, len(body))
		}
		s, err := decodeText(body[:width], enc)
		if err != nil {
			return Value{}, 0, err
		}
		return Text(s), width, nil
	default:
		return Value{}, 0, errs.Malformedf("record.decodeValue", "unknown serial type %d", serialType)
	}
}

func decodeSignedInt(b []byte) int64 {
	switch len(b) {
	case 1:
		return bx.I8(b)
	case 2:
		return bx.I16(b)
	case 3:
		return bx.I24(b)
	case 4:
		return bx.I32(b)
	case 6:
		return bx.I48(b)
	case 8:
		return bx.I64(b)
	default:
		panic(fmt.Sprintf("record: unreachable int width %d", len(b)))
	}
}

func decodeText(b []byte, enc Encoding) (string, error) {
	switch enc {
	case UTF16LE, UTF16BE:
		endian := unicode.LittleEndian
		if enc == UTF16BE {
			endian = unicode.BigEndian
		}
		dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(b)
		if err != nil {
			return "", errs.Malformed("record.decodeText", err)
		}
		return string(out), nil
	default: // UTF8 and anything unrecognised: treat as UTF-8, same as the source
		return string(b), nil
	}
}
