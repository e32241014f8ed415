package record

import (
	"bytes"
	"math"

	"github.com/tuannm99/novarow/internal/alias/bx"
)

// span is one column measured from the cursor: pre framing bytes, n
// payload bytes, post framing bytes.
type span struct {
	pre, n, post int
}

func (sp span) size() int { return sp.pre + sp.n + sp.post }

// frame measures column i at the head of rest. Parse and Compare both
// advance through rows with it so they agree on every boundary.
func (s *Schema) frame(i int, ti *typeInfo, rest []byte) (span, error) {
	meta := s.cols.val(i)
	last := i == s.cols.len()-1
	switch ti.framing {
	case frameFixed:
		w := meta.width(ti)
		if len(rest) < w {
			return span{}, s.columnError(i, w, len(rest), ErrTruncated)
		}
		return span{n: w}, nil

	case frameStrZero:
		n := bytes.IndexByte(rest, 0)
		if !last {
			if n < 0 {
				return span{}, s.columnError(i, len(rest)+1, len(rest), ErrTruncated)
			}
			return span{n: n, post: 1}, nil
		}
		switch {
		case n < 0:
			return span{n: len(rest)}, nil
		case n == len(rest)-1:
			return span{n: n, post: 1}, nil
		}
		return span{}, s.columnError(i, 0, 0, ErrStrZeroMisplacedTerminator)

	case frameVarLen:
		if last {
			return span{n: len(rest)}, nil
		}
		v, k := bx.Uvarint(rest)
		if k == 0 {
			return span{}, s.columnError(i, len(rest)+1, len(rest), ErrTruncated)
		}
		if k < 0 {
			return span{}, s.columnError(i, 0, 0, ErrInvalidArgument)
		}
		if v > uint64(len(rest)-k) {
			need := int(min(v, math.MaxInt32))
			return span{}, s.columnError(i, need, len(rest)-k, ErrTruncated)
		}
		return span{pre: k, n: int(v)}, nil
	}
	return span{}, s.columnError(i, 0, 0, ErrInvalidType)
}

// typeAt is the policy entry of column i, or an InvalidType error.
func (s *Schema) typeAt(i int) (*typeInfo, error) {
	ti, ok := s.cols.val(i).Type.info()
	if !ok {
		return nil, s.columnError(i, 0, 0, ErrInvalidType)
	}
	return ti, nil
}
