package record

import "fmt"

// Compare orders two rows column by column without building views. It
// returns -1, 0 or +1 for the first column that differs.
func (s *Schema) Compare(x, y []byte) (int, error) {
	if !s.compiled {
		return 0, ErrNotCompiled
	}
	for i := range s.cols.len() {
		ti, err := s.typeAt(i)
		if err != nil {
			return 0, err
		}
		if ti.cmp == nil {
			return 0, s.columnError(i, 0, 0, ErrUnsupported)
		}
		xs, err := s.frame(i, ti, x)
		if err != nil {
			return 0, err
		}
		ys, err := s.frame(i, ti, y)
		if err != nil {
			return 0, err
		}
		if c := ti.cmp(x[xs.pre:xs.pre+xs.n], y[ys.pre:ys.pre+ys.n]); c != 0 {
			return c, nil
		}
		x = x[xs.size():]
		y = y[ys.size():]
	}
	return 0, nil
}

// CompareFixedLen compares the first FixedRowLen bytes of x and y. It is
// the comparator for buffers of fixed-stride rows.
func (s *Schema) CompareFixedLen(x, y []byte) (int, error) {
	if !s.compiled {
		return 0, ErrNotCompiled
	}
	n, ok := s.FixedRowLen()
	if !ok {
		return 0, fmt.Errorf("%w: rows of %s are variable length", ErrInvalidArgument, s)
	}
	if len(x) < n || len(y) < n {
		return 0, fmt.Errorf("%w: fixed row len=%d x=%d y=%d", ErrTruncated, n, len(x), len(y))
	}
	return s.Compare(x[:n], y[:n])
}

// RowRef addresses one row inside a shared base buffer.
type RowRef struct {
	Offset int
	Length int
}

// Slice returns the referenced bytes of base.
func (r RowRef) Slice(base []byte) ([]byte, error) {
	if r.Offset < 0 || r.Length < 0 || r.Offset > len(base) || r.Length > len(base)-r.Offset {
		return nil, fmt.Errorf("%w: row offset=%d length=%d base=%d",
			ErrOutOfRange, r.Offset, r.Length, len(base))
	}
	return base[r.Offset : r.Offset+r.Length], nil
}

// CompareByIndex compares two rows held in base and addressed by x and y.
func (s *Schema) CompareByIndex(base []byte, x, y RowRef) (int, error) {
	xs, err := x.Slice(base)
	if err != nil {
		return 0, err
	}
	ys, err := y.Slice(base)
	if err != nil {
		return 0, err
	}
	return s.Compare(xs, ys)
}
