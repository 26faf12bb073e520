// Package executor wires the SQL front-end to the B-tree traversal and
// schema layers: component H. It never sees raw pages or cells directly,
// only the Source/Schema interfaces, so it stays agnostic of storage
// (whole-file reader or pooled cache) the way the teacher's query
// executor stays agnostic of its storage engine.
package executor

import (
	"github.com/tuannm99/novalite/internal/btree"
	"github.com/tuannm99/novalite/internal/errs"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/schema"
	"github.com/tuannm99/novalite/internal/sqllang"
)

// idColumn is the pseudo-column name every table exposes for its rowid,
// regardless of whether a column happens to be declared INTEGER PRIMARY
// KEY (in which case it is an alias for the same value, not a second one).
const idColumn = "id"

// Result is a query's column names and its rows, in result order.
type Result struct {
	Columns []string
	Rows    [][]record.Value
}

// Execute parses sql and runs it against src using sch for table and
// column resolution. Only SELECT is accepted; anything else is a
// SyntaxError.
func Execute(src btree.Source, sch *schema.Schema, enc record.Encoding, sql string) (*Result, error) {
	stmt, err := sqllang.ParseSelect(sql)
	if err != nil {
		return nil, err
	}

	rootPage, columns, _, err := sch.Resolve(stmt.TableName)
	if err != nil {
		return nil, err
	}

	if stmt.IsCountStar {
		n, err := btree.CountRows(src, rootPage)
		if err != nil {
			return nil, err
		}
		return &Result{
			Columns: []string{"COUNT(*)"},
			Rows:    [][]record.Value{{record.Int(int64(n))}},
		}, nil
	}

	proj, err := resolveProjection(stmt.Columns, columns)
	if err != nil {
		return nil, err
	}

	var rows [][]record.Value
	if stmt.Where == nil {
		rows, err = scanAll(src, rootPage, enc, proj)
	} else {
		rows, err = scanWhere(src, sch, rootPage, enc, stmt.TableName, stmt.Where, columns, proj)
	}
	if err != nil {
		return nil, err
	}

	return &Result{Columns: stmt.Columns, Rows: rows}, nil
}

// projField is one requested output column, resolved against the table's
// declared columns: either the rowid pseudo-column or a record position.
type projField struct {
	isRowID  bool
	position int
}

func resolveProjection(requested []string, columns []schema.Column) ([]projField, error) {
	byName := make(map[string]int, len(columns))
	for _, c := range columns {
		byName[c.Name] = c.Position
	}

	out := make([]projField, len(requested))
	for i, name := range requested {
		if name == idColumn {
			out[i] = projField{isRowID: true}
			continue
		}
		pos, ok := byName[name]
		if !ok {
			return nil, errs.Schemaf("executor.resolveProjection", "no such column: %s", name)
		}
		out[i] = projField{position: pos}
	}
	return out, nil
}

func project(rowid int64, rec record.Record, proj []projField) []record.Value {
	out := make([]record.Value, len(proj))
	for i, f := range proj {
		if f.isRowID {
			out[i] = record.Int(rowid)
			continue
		}
		if f.position < len(rec.Values) {
			out[i] = rec.Values[f.position]
		} else {
			out[i] = record.Null()
		}
	}
	return out
}

func scanAll(src btree.Source, rootPage uint32, enc record.Encoding, proj []projField) ([][]record.Value, error) {
	var rows [][]record.Value
	err := btree.Scan(src, rootPage, enc, func(rowid int64, rec record.Record) error {
		rows = append(rows, project(rowid, rec, proj))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// scanWhere evaluates a single `column = value` predicate. When the schema
// has an index over the predicate's column, the index is used to collect
// candidate rowids, each fetched individually; otherwise every row is
// scanned and the predicate is checked in place. Both paths apply the
// predicate again after reading the row, since an index lookup only
// narrows candidates by the textual key it stores.
func scanWhere(
	src btree.Source,
	sch *schema.Schema,
	rootPage uint32,
	enc record.Encoding,
	tableName string,
	where *sqllang.WhereClause,
	columns []schema.Column,
	proj []projField,
) ([][]record.Value, error) {
	matches := func(rec record.Record) (bool, error) {
		if where.Column == idColumn {
			return false, errs.Schemaf("executor.scanWhere", "WHERE on id is not supported")
		}
		pos := -1
		for _, c := range columns {
			if c.Name == where.Column {
				pos = c.Position
				break
			}
		}
		if pos < 0 {
			return false, errs.Schemaf("executor.scanWhere", "no such column: %s", where.Column)
		}
		if pos >= len(rec.Values) {
			return false, nil
		}
		if !rec.Values[pos].IsText() {
			return false, nil
		}
		return rec.Values[pos].S == where.Value, nil
	}

	if indexRoot, ok := sch.FindIndex(tableName, where.Column); ok {
		rowids, err := btree.IndexScan(src, indexRoot, where.Value, enc)
		if err != nil {
			return nil, err
		}
		var rows [][]record.Value
		for _, rowid := range rowids {
			rec, found, err := btree.Fetch(src, rootPage, rowid, enc)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			ok, err := matches(rec)
			if err != nil {
				return nil, err
			}
			if ok {
				rows = append(rows, project(rowid, rec, proj))
			}
		}
		return rows, nil
	}

	var rows [][]record.Value
	err := btree.Scan(src, rootPage, enc, func(rowid int64, rec record.Record) error {
		ok, err := matches(rec)
		if err != nil {
			return err
		}
		if ok {
			rows = append(rows, project(rowid, rec, proj))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
