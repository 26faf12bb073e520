// Package errs defines the error taxonomy used across the engine: four
// kinds, distinguished by type rather than string matching, each wrapping
// an underlying cause.
package errs

import (
	"errors"
	"fmt"
)

// IoError wraps a failure to open, seek, or read the database file.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("io: %s: %v", e.Op, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

func Io(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Op: op, Err: err}
}

// MalformedError wraps a structural violation of the on-disk format: a
// varint overrun, an unknown serial type, a cell offset out of bounds, an
// overflow-chain cycle, or a page-kind byte the caller didn't expect.
type MalformedError struct {
	Op  string
	Err error
}

func (e *MalformedError) Error() string { return fmt.Sprintf("malformed: %s: %v", e.Op, e.Err) }
func (e *MalformedError) Unwrap() error { return e.Err }

func Malformed(op string, err error) error {
	if err == nil {
		return nil
	}
	return &MalformedError{Op: op, Err: err}
}

func Malformedf(op, format string, args ...any) error {
	return &MalformedError{Op: op, Err: fmt.Errorf(format, args...)}
}

// SchemaError wraps a reference to a table or index that does not exist in
// the schema page.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string { return fmt.Sprintf("schema: %s: %v", e.Op, e.Err) }
func (e *SchemaError) Unwrap() error { return e.Err }

func Schema(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SchemaError{Op: op, Err: err}
}

func Schemaf(op, format string, args ...any) error {
	return &SchemaError{Op: op, Err: fmt.Errorf(format, args...)}
}

// SyntaxError wraps a SQL parse failure.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("syntax: %s", e.Msg) }

func Syntaxf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// IsSchema reports whether err is (or wraps) a SchemaError.
func IsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
