// Package schema is the schema layer: it reads page 1, enumerates its
// entries, and exposes per-table root page, column list, and original
// CREATE TABLE text, re-parsing the sql column through the SQL front-end
// to recover column positions by name. The engine holds no independent
// catalogue — this package is the only source of truth for column shape.
package schema

import (
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/tuannm99/novalite/internal/btree"
	"github.com/tuannm99/novalite/internal/errs"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sqllang"
)

const schemaRootPage = 1

const tablePrefix = "sqlite_"

// Entry is one row of sqlite_schema: (type, name, tbl_name, rootpage, sql).
type Entry struct {
	Type     string
	Name     string
	TblName  string
	RootPage uint32
	SQL      string

	Columns []Column // populated for type == "table"; nil on parse failure
}

// Column is a projectable column: its declared name and type from the
// CREATE TABLE text, and its zero-based position in the record body.
type Column struct {
	Name     string
	DeclType string
	Position int
}

// Schema is the fully enumerated contents of page 1.
type Schema struct {
	entries []Entry
	byName  map[string]int // table/index name -> index into entries
}

// Load reads every cell of page 1 (walking an interior root if the schema
// has grown large enough to need one, though in practice it rarely does)
// and classifies each row. A malformed CREATE TABLE string for one entry
// does not abort enumeration of the rest; Load accumulates such failures
// with multierr, and the offending table resolves with an empty column
// list rather than failing every later lookup.
func Load(src btree.Source, enc record.Encoding) (*Schema, error) {
	s := &Schema{byName: make(map[string]int)}

	var errsAll error
	err := btree.Scan(src, schemaRootPage, enc, func(rowid int64, rec record.Record) error {
		if len(rec.Values) < 5 {
			return errs.Malformedf("schema.Load", "schema row has %d values, want 5", len(rec.Values))
		}
		e := Entry{
			Type:     rec.Values[0].String(),
			Name:     rec.Values[1].String(),
			TblName:  rec.Values[2].String(),
			RootPage: uint32(rec.Values[3].I),
			SQL:      rec.Values[4].String(),
		}
		if e.Type == "table" {
			cols, perr := columnsFromCreateTable(e.SQL)
			if perr != nil {
				slog.Warn("schema: failed to parse CREATE TABLE", "table", e.Name, "err", perr)
				errsAll = multierr.Append(errsAll, perr)
			} else {
				e.Columns = cols
			}
		}
		s.byName[e.Name] = len(s.entries)
		s.entries = append(s.entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("schema: loaded", "entries", len(s.entries))
	return s, errsAll
}

func columnsFromCreateTable(sql string) ([]Column, error) {
	stmt, err := sqllang.ParseCreateTable(sql)
	if err != nil {
		return nil, err
	}
	cols := make([]Column, len(stmt.Columns))
	for i, c := range stmt.Columns {
		cols[i] = Column{Name: c.Name, DeclType: c.Type, Position: i}
	}
	return cols, nil
}

// CountTables counts schema rows whose type column is exactly "table".
func (s *Schema) CountTables() int {
	n := 0
	for _, e := range s.entries {
		if e.Type == "table" {
			n++
		}
	}
	return n
}

// UserTableNames lists the name column of every table entry whose name
// does not begin with sqlite_, in schema order.
func (s *Schema) UserTableNames() []string {
	var out []string
	for _, e := range s.entries {
		if e.Type == "table" && !strings.HasPrefix(e.Name, tablePrefix) {
			out = append(out, e.Name)
		}
	}
	return out
}

// Resolve returns a table's root page and column list, recovered by
// re-parsing its original CREATE TABLE text.
func (s *Schema) Resolve(tableName string) (rootPage uint32, columns []Column, sql string, err error) {
	idx, ok := s.byName[tableName]
	if !ok || s.entries[idx].Type != "table" {
		return 0, nil, "", errs.Schemaf("schema.Resolve", "table not found: %s", tableName)
	}
	e := s.entries[idx]
	return e.RootPage, e.Columns, e.SQL, nil
}

// FindIndex returns the root page of an index entry whose tbl_name matches
// tableName and whose sql text mentions columnName, or ok=false if none
// does.
func (s *Schema) FindIndex(tableName, columnName string) (rootPage uint32, ok bool) {
	for _, e := range s.entries {
		if e.Type != "index" || e.TblName != tableName {
			continue
		}
		if strings.Contains(e.SQL, columnName) {
			return e.RootPage, true
		}
	}
	return 0, false
}
