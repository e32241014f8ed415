// stand for bytes helper
package bx

import (
	"encoding/binary"
	"math"
)

// NE is the host byte order. Row columns are stored in it.
var NE = binary.NativeEndian

// --- NE: read ---
func U16(b []byte) uint16  { return NE.Uint16(b) }
func U32(b []byte) uint32  { return NE.Uint32(b) }
func U64(b []byte) uint64  { return NE.Uint64(b) }
func I8(b []byte) int8     { return int8(b[0]) }
func I16(b []byte) int16   { return int16(U16(b)) }
func I32(b []byte) int32   { return int32(U32(b)) }
func I64(b []byte) int64   { return int64(U64(b)) }
func F32(b []byte) float32 { return math.Float32frombits(U32(b)) }
func F64(b []byte) float64 { return math.Float64frombits(U64(b)) }

// --- NE: append ---
func AppendU16(dst []byte, v uint16) []byte { return NE.AppendUint16(dst, v) }
func AppendU32(dst []byte, v uint32) []byte { return NE.AppendUint32(dst, v) }
func AppendU64(dst []byte, v uint64) []byte { return NE.AppendUint64(dst, v) }

// --- var_uint (LEB128, 7 bits per byte, high bit = more) ---

// MaxVarintLen is the longest encoding of a uint64.
const MaxVarintLen = binary.MaxVarintLen64

// Uvarint decodes a length prefix from the head of b.
// n == 0: b is too short; n < 0: value overflows 64 bits.
func Uvarint(b []byte) (v uint64, n int) { return binary.Uvarint(b) }

func AppendUvarint(dst []byte, v uint64) []byte { return binary.AppendUvarint(dst, v) }

// UvarintLen returns how many bytes AppendUvarint writes for v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
