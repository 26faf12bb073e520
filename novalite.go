// Package novalite is a read-only query engine over the on-disk page
// format of a single-file relational database: open a file, ask for its
// header summary, its user table names, or run a small SELECT dialect
// against it. There is no write path, no locking, no journal handling —
// grounded on the teacher's root-level database facade, cut down to the
// read-only surface this engine actually needs.
package novalite

import (
	"github.com/tuannm99/novalite/internal/btree"
	"github.com/tuannm99/novalite/internal/bufferpool"
	"github.com/tuannm99/novalite/internal/config"
	"github.com/tuannm99/novalite/internal/executor"
	"github.com/tuannm99/novalite/internal/pagefile"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/schema"
)

// DB is a handle on one opened database file: a page cache in front of the
// file reader, and the schema enumerated from page 1.
type DB struct {
	cache  *bufferpool.Cache
	reader *pagefile.Reader
	schema *schema.Schema
	enc    record.Encoding
}

// Open opens path, reads its header, and enumerates its schema page. A
// malformed CREATE TABLE string for one table does not fail Open; it is
// only surfaced when that table is later queried.
func Open(path string) (*DB, error) {
	cfg := config.Load()

	reader, err := pagefile.Open(path)
	if err != nil {
		return nil, err
	}

	cache := bufferpool.NewCache(reader, cfg.BufferPoolCapacity)
	enc := record.Encoding(reader.Header().TextEncoding)
	if enc == 0 {
		enc = record.UTF8
	}

	sch, err := schema.Load(cache, enc)
	if err != nil && sch == nil {
		reader.Close()
		return nil, err
	}

	return &DB{cache: cache, reader: reader, schema: sch, enc: enc}, nil
}

// Header exposes the file header fields `.dbinfo` reports.
func (db *DB) Header() pagefile.Header { return db.reader.Header() }

// TableCount is the number of "table" rows in the schema page, including
// sqlite_ internal tables — what `.dbinfo` reports as the table count.
func (db *DB) TableCount() int { return db.schema.CountTables() }

// Tables lists user table names (excluding sqlite_-prefixed ones), in
// schema order — what `.tables` prints.
func (db *DB) Tables() []string { return db.schema.UserTableNames() }

// Query runs a single SELECT statement and returns its result columns and
// rows.
func (db *DB) Query(sql string) (*executor.Result, error) {
	return executor.Execute(db.cache, db.schema, db.enc, sql)
}

// Source exposes the underlying btree.Source for callers that need to
// drive traversals directly.
func (db *DB) Source() btree.Source { return db.cache }

func (db *DB) Close() error { return db.reader.Close() }
