package record

import (
	"bytes"
	"fmt"

	"github.com/tuannm99/novarow/internal/alias/bx"
)

type ColumnType uint8

const (
	ColUint08 ColumnType = iota
	ColSint08
	ColUint16
	ColSint16
	ColUint32
	ColSint32
	ColUint64
	ColSint64
	ColUint128
	ColSint128
	ColFloat32
	ColFloat64
	ColFloat128
	ColUuid    // 16 bytes binary
	ColFixed   // N bytes binary, N from ColumnMeta.FixedLen
	ColStrZero // zero ended string
	ColStrUtf8 // var_uint length prefix unless last column
	ColBinary  // var_uint length prefix unless last column

	numColumnTypes = iota
)

// framing is how a column finds its own end inside a row.
type framing uint8

const (
	frameFixed   framing = iota // width from type (or FixedLen)
	frameStrZero                // up to 0x00, optional when last
	frameVarLen                 // var_uint prefix, remainder when last
)

// typeInfo is the single per-type policy consulted by Compile, Parse,
// Compare and the encoder.
type typeInfo struct {
	name    string
	width   int // 0 for ColFixed and variable length types
	framing framing
	// cmp orders two payloads of this type; nil means unsupported.
	cmp func(x, y []byte) int
}

func (ti *typeInfo) variable() bool { return ti.framing != frameFixed }

var typeTable = [numColumnTypes]typeInfo{
	ColUint08:   {"uint08", 1, frameFixed, cmpBytes},
	ColSint08:   {"sint08", 1, frameFixed, cmpBy(bx.I8)},
	ColUint16:   {"uint16", 2, frameFixed, cmpBy(bx.U16)},
	ColSint16:   {"sint16", 2, frameFixed, cmpBy(bx.I16)},
	ColUint32:   {"uint32", 4, frameFixed, cmpBy(bx.U32)},
	ColSint32:   {"sint32", 4, frameFixed, cmpBy(bx.I32)},
	ColUint64:   {"uint64", 8, frameFixed, cmpBy(bx.U64)},
	ColSint64:   {"sint64", 8, frameFixed, cmpBy(bx.I64)},
	ColUint128:  {"uint128", 16, frameFixed, nil},
	ColSint128:  {"sint128", 16, frameFixed, nil},
	ColFloat32:  {"float32", 4, frameFixed, cmpBy(bx.F32)},
	ColFloat64:  {"float64", 8, frameFixed, cmpBy(bx.F64)},
	ColFloat128: {"float128", 16, frameFixed, nil},
	ColUuid:     {"uuid", 16, frameFixed, cmpBytes},
	ColFixed:    {"fixed", 0, frameFixed, cmpBytes},
	ColStrZero:  {"strzero", 0, frameStrZero, cmpBytes},
	ColStrUtf8:  {"strutf8", 0, frameVarLen, cmpBytes},
	ColBinary:   {"binary", 0, frameVarLen, cmpBytes},
}

// typeByName is built once at init and never written afterwards.
var typeByName = func() map[string]ColumnType {
	m := make(map[string]ColumnType, numColumnTypes)
	for t := range typeTable {
		m[typeTable[t].name] = ColumnType(t)
	}
	return m
}()

func (t ColumnType) info() (*typeInfo, bool) {
	if int(t) >= len(typeTable) {
		return nil, false
	}
	return &typeTable[t], true
}

// Valid reports whether t is a member of the enumeration.
func (t ColumnType) Valid() bool { return int(t) < len(typeTable) }

func (t ColumnType) String() string {
	if ti, ok := t.info(); ok {
		return ti.name
	}
	return fmt.Sprintf("ColumnType(%d)", uint8(t))
}

// TypeName returns the canonical lowercase token of t.
func TypeName(t ColumnType) (string, error) {
	ti, ok := t.info()
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidType, uint8(t))
	}
	return ti.name, nil
}

// ParseType is the inverse of TypeName.
func ParseType(name string) (ColumnType, error) {
	t, ok := typeByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown column type %q", ErrInvalidArgument, name)
	}
	return t, nil
}

// cmpBy decodes both sides and compares with < and >, so NaN ties with everything.
func cmpBy[T ~int8 | ~int16 | ~int32 | ~int64 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64](load func([]byte) T) func(x, y []byte) int {
	return func(x, y []byte) int {
		a, b := load(x), load(y)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
}

// cmpBytes is memcmp over the common prefix, then shorter first.
func cmpBytes(x, y []byte) int { return bytes.Compare(x, y) }
