package record

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuannm99/novarow/internal/alias/bx"
)

// ColumnMeta is the type of one column plus its byte width when the
// width does not depend on row content.
type ColumnMeta struct {
	Type     ColumnType
	FixedLen int
}

// NewColumnMeta derives FixedLen from t. ColFixed gets 0 and needs
// NewFixedMeta instead.
func NewColumnMeta(t ColumnType) (ColumnMeta, error) {
	ti, ok := t.info()
	if !ok {
		return ColumnMeta{}, fmt.Errorf("%w: %d", ErrInvalidType, uint8(t))
	}
	return ColumnMeta{Type: t, FixedLen: ti.width}, nil
}

// NewFixedMeta returns a ColFixed column of width bytes.
func NewFixedMeta(width int) (ColumnMeta, error) {
	if width <= 0 {
		return ColumnMeta{}, fmt.Errorf("%w: fixed width %d", ErrInvalidArgument, width)
	}
	return ColumnMeta{Type: ColFixed, FixedLen: width}, nil
}

// IsVariable reports whether the encoded length depends on row content.
func (m ColumnMeta) IsVariable() bool {
	ti, ok := m.Type.info()
	return ok && ti.variable()
}

// width is the encoded size of a fixed-width column.
func (m *ColumnMeta) width(ti *typeInfo) int {
	if m.Type == ColFixed {
		return m.FixedLen
	}
	return ti.width
}

func (m ColumnMeta) validate() error {
	ti, ok := m.Type.info()
	if !ok {
		return ErrInvalidType
	}
	if m.Type == ColFixed && m.FixedLen <= 0 {
		return fmt.Errorf("%w: fixed column without width", ErrInvalidArgument)
	}
	if m.Type != ColFixed && m.FixedLen != 0 && m.FixedLen != ti.width {
		return fmt.Errorf("%w: %s width %d", ErrInvalidArgument, m.Type, m.FixedLen)
	}
	return nil
}

// ColumnData is a view of one column inside a row buffer. It borrows the
// row and must not be used after the row's memory is reused.
type ColumnData struct {
	Type    ColumnType
	PreLen  int // length prefix bytes before the payload
	PostLen int // terminator bytes after the payload
	frame   []byte
}

func newColumnData(t ColumnType, rest []byte, sp span) ColumnData {
	end := sp.pre + sp.n + sp.post
	return ColumnData{
		Type:    t,
		PreLen:  sp.pre,
		PostLen: sp.post,
		frame:   rest[:end:end],
	}
}

// NewColumnData checks that b holds exactly one value of meta's type.
// StrUtf8 and Binary take b whole; StrZero may carry one trailing 0x00.
func NewColumnData(meta ColumnMeta, b []byte) (ColumnData, error) {
	if err := meta.validate(); err != nil {
		return ColumnData{}, err
	}
	ti, _ := meta.Type.info()
	sp := span{n: len(b)}
	switch ti.framing {
	case frameFixed:
		if w := meta.width(ti); len(b) != w {
			return ColumnData{}, fmt.Errorf("%w: %s len=%d dsize=%d",
				ErrOutOfRange, meta.Type, w, len(b))
		}
	case frameStrZero:
		n := bytes.IndexByte(b, 0)
		switch {
		case n < 0:
		case n == len(b)-1:
			sp = span{n: n, post: 1}
		default:
			return ColumnData{}, ErrStrZeroMisplacedTerminator
		}
	}
	return newColumnData(meta.Type, b, sp), nil
}

// Bytes is the payload without framing.
func (c ColumnData) Bytes() []byte { return c.frame[c.PreLen : len(c.frame)-c.PostLen] }

// Len is the payload length.
func (c ColumnData) Len() int { return len(c.frame) - c.PreLen - c.PostLen }

// Framed is the column as it was encoded in the row, framing included.
func (c ColumnData) Framed() []byte { return c.frame }

// payload is Bytes after checking it is wide enough for c.Type. A zero
// ColumnData or one built by hand may be short.
func (c ColumnData) payload() ([]byte, error) {
	ti, ok := c.Type.info()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, uint8(c.Type))
	}
	b := c.Bytes()
	if len(b) < ti.width {
		return nil, fmt.Errorf("%w: %s payload len=%d want=%d", ErrOutOfRange, c.Type, len(b), ti.width)
	}
	return b, nil
}

func (c ColumnData) Uint64() (uint64, error) {
	b, err := c.payload()
	if err != nil {
		return 0, err
	}
	switch c.Type {
	case ColUint08:
		return uint64(b[0]), nil
	case ColUint16:
		return uint64(bx.U16(b)), nil
	case ColUint32:
		return uint64(bx.U32(b)), nil
	case ColUint64:
		return bx.U64(b), nil
	}
	return 0, fmt.Errorf("%w: %s is not an unsigned integer", ErrInvalidType, c.Type)
}

func (c ColumnData) Int64() (int64, error) {
	b, err := c.payload()
	if err != nil {
		return 0, err
	}
	switch c.Type {
	case ColSint08:
		return int64(bx.I8(b)), nil
	case ColSint16:
		return int64(bx.I16(b)), nil
	case ColSint32:
		return int64(bx.I32(b)), nil
	case ColSint64:
		return bx.I64(b), nil
	}
	return 0, fmt.Errorf("%w: %s is not a signed integer", ErrInvalidType, c.Type)
}

func (c ColumnData) Float64() (float64, error) {
	b, err := c.payload()
	if err != nil {
		return 0, err
	}
	switch c.Type {
	case ColFloat32:
		return float64(bx.F32(b)), nil
	case ColFloat64:
		return bx.F64(b), nil
	}
	return 0, fmt.Errorf("%w: %s is not a float", ErrInvalidType, c.Type)
}

func (c ColumnData) UUID() (uuid.UUID, error) {
	if c.Type != ColUuid {
		return uuid.Nil, fmt.Errorf("%w: %s is not a uuid", ErrInvalidType, c.Type)
	}
	return uuid.FromBytes(c.Bytes())
}

// Text copies the payload into a string.
func (c ColumnData) Text() string { return string(c.Bytes()) }

// Value decodes the payload into its natural Go type: sized ints and
// floats, uuid.UUID, string for StrZero/StrUtf8, and a copied []byte for
// the remaining binary types.
func (c ColumnData) Value() (any, error) {
	b, err := c.payload()
	if err != nil {
		return nil, err
	}
	switch c.Type {
	case ColUint08:
		return b[0], nil
	case ColSint08:
		return bx.I8(b), nil
	case ColUint16:
		return bx.U16(b), nil
	case ColSint16:
		return bx.I16(b), nil
	case ColUint32:
		return bx.U32(b), nil
	case ColSint32:
		return bx.I32(b), nil
	case ColUint64:
		return bx.U64(b), nil
	case ColSint64:
		return bx.I64(b), nil
	case ColFloat32:
		return bx.F32(b), nil
	case ColFloat64:
		return bx.F64(b), nil
	case ColUuid:
		return c.UUID()
	case ColStrZero, ColStrUtf8:
		return string(b), nil
	}
	return bytes.Clone(b), nil
}
