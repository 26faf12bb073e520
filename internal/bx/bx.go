// Package bx holds the byte-order primitives the rest of the engine reads
// pages through. Everything on disk is big-endian; this package is the one
// place that says so.
package bx

import (
	"encoding/binary"
	"math"
)

var BE = binary.BigEndian

func U8(b []byte) uint8   { return b[0] }
func U16(b []byte) uint16 { return BE.Uint16(b) }
func U24(b []byte) uint32 { return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]) }
func U32(b []byte) uint32 { return BE.Uint32(b) }
func U48(b []byte) uint64 {
	return uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
}
func U64(b []byte) uint64 { return BE.Uint64(b) }

// Signed readers sign-extend from the declared width, matching the serial
// types 1/2/3/4/6/8 bytes wide used by the record format.
func I8(b []byte) int64  { return int64(int8(b[0])) }
func I16(b []byte) int64 { return int64(int16(U16(b))) }
func I24(b []byte) int64 {
	v := U24(b)
	if v&0x800000 != 0 {
		return int64(v) - 0x1000000
	}
	return int64(v)
}
func I32(b []byte) int64 { return int64(int32(U32(b))) }
func I48(b []byte) int64 {
	v := U48(b)
	if v&0x800000000000 != 0 {
		return int64(v) - 0x1000000000000
	}
	return int64(v)
}
func I64(b []byte) int64 { return int64(U64(b)) }

func F64(b []byte) float64 { return math.Float64frombits(U64(b)) }

func PutU16(b []byte, v uint16) { BE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { BE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { BE.PutUint64(b, v) }
