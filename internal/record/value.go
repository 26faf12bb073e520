// Package record implements the typed record decoder: given a byte buffer
// holding one record, it produces a tagged value per column plus the
// parallel serial-type list.
package record

import "fmt"

// Kind tags which arm of Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBlob
)

// Value is the decoder's tagged union: null, a 64-bit signed integer,
// binary64, text, or blob. The decoder never widens one arm into another —
// callers match on Kind.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	S    string
	B    []byte
}

func Null() Value           { return Value{Kind: KindNull} }
func Int(v int64) Value     { return Value{Kind: KindInt, I: v} }
func Float(v float64) Value { return Value{Kind: KindFloat, F: v} }
func Text(v string) Value   { return Value{Kind: KindText, S: v} }
func Blob(v []byte) Value   { return Value{Kind: KindBlob, B: v} }

func (v Value) IsText() bool { return v.Kind == KindText }
func (v Value) IsInt() bool  { return v.Kind == KindInt }
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders a value the way the CLI's result printer does: integers
// in decimal, text verbatim, everything else as an empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	case KindText:
		return v.S
	default:
		return ""
	}
}
