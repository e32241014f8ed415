package record

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tuannm99/novarow/internal/alias/bx"
)

// EncodeRow lays values out in the row format Parse reads.
//
// Accepted values per column type:
//   - unsigned/signed integers: any Go integer that fits the column
//   - float32/float64: float32 or float64
//   - uuid: uuid.UUID or a 16 byte []byte
//   - uint128/sint128/float128/fixed: []byte of exactly the column width
//   - strzero: string or []byte without 0x00; always written terminated
//   - strutf8: valid UTF-8 string or []byte
//   - binary: []byte or string
func (s *Schema) EncodeRow(values []any) ([]byte, error) {
	return s.AppendRow(nil, values)
}

// AppendRow is EncodeRow appending to dst.
func (s *Schema) AppendRow(dst []byte, values []any) ([]byte, error) {
	if !s.compiled {
		return dst, ErrNotCompiled
	}
	if len(values) != s.cols.len() {
		return dst, fmt.Errorf("%w: %d values for %d columns", ErrSchemaMismatch, len(values), s.cols.len())
	}
	base := len(dst)
	for i, v := range values {
		var err error
		dst, err = s.appendColumn(dst, i, v)
		if err != nil {
			return dst[:base], err
		}
	}
	return dst, nil
}

func (s *Schema) appendColumn(dst []byte, i int, v any) ([]byte, error) {
	meta := s.cols.val(i)
	ti, err := s.typeAt(i)
	if err != nil {
		return dst, err
	}
	mismatch := func() error {
		return s.columnError(i, 0, 0, fmt.Errorf("%w: %T", ErrSchemaMismatch, v))
	}

	switch meta.Type {
	case ColUint08, ColUint16, ColUint32, ColUint64:
		x, ok := asUint64(v)
		if !ok || (ti.width < 8 && x >= 1<<(8*ti.width)) {
			return dst, mismatch()
		}
		return appendUint(dst, ti.width, x), nil

	case ColSint08, ColSint16, ColSint32, ColSint64:
		x, ok := asInt64(v)
		if !ok {
			return dst, mismatch()
		}
		if ti.width < 8 {
			lim := int64(1) << (8*ti.width - 1)
			if x < -lim || x >= lim {
				return dst, mismatch()
			}
		}
		return appendUint(dst, ti.width, uint64(x)), nil

	case ColFloat32:
		x, ok := asFloat64(v)
		if !ok {
			return dst, mismatch()
		}
		f := float32(x)
		if math.IsInf(float64(f), 0) && !math.IsInf(x, 0) {
			return dst, s.columnError(i, 0, 0, fmt.Errorf("%w: %g overflows float32", ErrSchemaMismatch, x))
		}
		return bx.AppendU32(dst, math.Float32bits(f)), nil

	case ColFloat64:
		x, ok := asFloat64(v)
		if !ok {
			return dst, mismatch()
		}
		return bx.AppendU64(dst, math.Float64bits(x)), nil

	case ColUuid:
		if u, ok := v.(uuid.UUID); ok {
			return append(dst, u[:]...), nil
		}
		fallthrough
	case ColUint128, ColSint128, ColFloat128, ColFixed:
		b, ok := v.([]byte)
		if !ok {
			return dst, mismatch()
		}
		if w := meta.width(ti); len(b) != w {
			return dst, s.columnError(i, w, len(b), ErrSchemaMismatch)
		}
		return append(dst, b...), nil

	case ColStrZero:
		b, ok := asBytes(v)
		if !ok {
			return dst, mismatch()
		}
		if bytes.IndexByte(b, 0) >= 0 {
			return dst, s.columnError(i, 0, 0, fmt.Errorf("%w: 0x00 inside StrZero value", ErrInvalidArgument))
		}
		dst = append(dst, b...)
		return append(dst, 0), nil

	case ColStrUtf8, ColBinary:
		b, ok := asBytes(v)
		if !ok {
			return dst, mismatch()
		}
		if meta.Type == ColStrUtf8 && !utf8.Valid(b) {
			return dst, s.columnError(i, 0, 0, fmt.Errorf("%w: invalid UTF-8", ErrInvalidArgument))
		}
		if i < s.cols.len()-1 {
			dst = bx.AppendUvarint(dst, uint64(len(b)))
		}
		return append(dst, b...), nil
	}
	return dst, s.columnError(i, 0, 0, ErrInvalidType)
}

func appendUint(dst []byte, width int, x uint64) []byte {
	switch width {
	case 1:
		return append(dst, byte(x))
	case 2:
		return bx.AppendU16(dst, uint16(x))
	case 4:
		return bx.AppendU32(dst, uint32(x))
	}
	return bx.AppendU64(dst, x)
}

// ---- small helpers to accept multiple Go types on encode ----
func asUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case uint:
		return uint64(x), true
	}
	if x, ok := asInt64(v); ok && x >= 0 {
		return uint64(x), true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}

func asBytes(v any) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	}
	return nil, false
}
