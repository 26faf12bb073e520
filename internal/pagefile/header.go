package pagefile

import (
	"fmt"

	"github.com/tuannm99/novalite/internal/bx"
	"github.com/tuannm99/novalite/internal/errs"
)

const (
	magicPrefix = "SQLite format 3\x00"
	HeaderSize  = 100
)

// Header is the 100-byte preamble at the start of the file. Only PageSize
// is functionally required by the rest of the engine; the remaining fields
// exist to answer `.dbinfo`.
type Header struct {
	PageSize          uint32
	WriteVersion      uint8
	ReadVersion       uint8
	ReservedSpace     uint8
	FileChangeCounter uint32
	DatabaseSize      uint32
	FreelistTrunk     uint32
	FreelistCount     uint32
	SchemaCookie      uint32
	SchemaFormat      uint32
	DefaultCacheSize  uint32
	TextEncoding      uint32
	UserVersion       uint32
	ApplicationID     uint32
	SQLiteVersion     uint32
}

// UsableSize is the page size minus the bytes reserved at the end of every
// page, the "U" referenced throughout the local-payload formulas.
func (h Header) UsableSize() uint32 {
	return h.PageSize - uint32(h.ReservedSpace)
}

// parseHeader decodes the 100-byte file preamble. buf must be exactly
// HeaderSize bytes.
func parseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, errs.Io("parseHeader", fmt.Errorf("short header: %d bytes", len(buf)))
	}
	if string(buf[0:16]) != magicPrefix {
		return Header{}, errs.Malformedf("parseHeader", "bad magic %q", buf[0:16])
	}

	var h Header
	pageSize := bx.U16(buf[16:18])
	if pageSize == 1 {
		h.PageSize = 65536
	} else {
		h.PageSize = uint32(pageSize)
	}
	h.WriteVersion = buf[18]
	h.ReadVersion = buf[19]
	h.ReservedSpace = buf[20]
	h.FileChangeCounter = bx.U32(buf[24:28])
	h.DatabaseSize = bx.U32(buf[28:32])
	h.FreelistTrunk = bx.U32(buf[32:36])
	h.FreelistCount = bx.U32(buf[36:40])
	h.SchemaCookie = bx.U32(buf[40:44])
	h.SchemaFormat = bx.U32(buf[44:48])
	h.DefaultCacheSize = bx.U32(buf[48:52])
	h.TextEncoding = bx.U32(buf[56:60])
	h.UserVersion = bx.U32(buf[60:64])
	h.ApplicationID = bx.U32(buf[68:72])
	h.SQLiteVersion = bx.U32(buf[96:100])
	return h, nil
}
