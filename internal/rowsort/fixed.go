package rowsort

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tuannm99/novarow/internal/record"
)

var (
	ErrNotFixed  = errors.New("rowsort: schema rows are not fixed length")
	ErrBadStride = errors.New("rowsort: buffer is not a whole number of rows")
)

// fixedRows sorts a buffer of back-to-back rows of one stride in place.
type fixedRows struct {
	s      *record.Schema
	buf    []byte
	stride int
	tmp    []byte
	err    error
}

func (f *fixedRows) Len() int { return len(f.buf) / f.stride }

func (f *fixedRows) row(i int) []byte { return f.buf[i*f.stride : (i+1)*f.stride] }

func (f *fixedRows) Less(i, j int) bool {
	if f.err != nil {
		return false
	}
	c, err := f.s.CompareFixedLen(f.row(i), f.row(j))
	if err != nil {
		f.err = err
		return false
	}
	return c < 0
}

func (f *fixedRows) Swap(i, j int) {
	copy(f.tmp, f.row(i))
	copy(f.row(i), f.row(j))
	copy(f.row(j), f.tmp)
}

// SortFixed sorts buf, a run of rows of the schema's FixedRowLen, in
// place. Equal rows keep their relative order.
func SortFixed(s *record.Schema, buf []byte) error {
	stride, err := fixedStride(s, buf)
	if err != nil {
		return err
	}
	if stride == 0 {
		return nil
	}
	f := &fixedRows{s: s, buf: buf, stride: stride, tmp: make([]byte, stride)}
	sort.Stable(f)
	return f.err
}

// IsSortedFixed reports whether buf is already in schema order.
func IsSortedFixed(s *record.Schema, buf []byte) (bool, error) {
	stride, err := fixedStride(s, buf)
	if err != nil || stride == 0 {
		return err == nil, err
	}
	f := &fixedRows{s: s, buf: buf, stride: stride}
	ok := sort.IsSorted(f)
	return ok && f.err == nil, f.err
}

// SearchFixed returns the first row index whose row is not less than key.
func SearchFixed(s *record.Schema, buf, key []byte) (int, error) {
	stride, err := fixedStride(s, buf)
	if err != nil || stride == 0 {
		return 0, err
	}
	f := &fixedRows{s: s, buf: buf, stride: stride}
	i := sort.Search(f.Len(), func(i int) bool {
		if f.err != nil {
			return true
		}
		c, err := s.CompareFixedLen(f.row(i), key)
		if err != nil {
			f.err = err
			return true
		}
		return c >= 0
	})
	return i, f.err
}

func fixedStride(s *record.Schema, buf []byte) (int, error) {
	n, ok := s.FixedRowLen()
	if !ok {
		if !s.Compiled() {
			return 0, record.ErrNotCompiled
		}
		return 0, ErrNotFixed
	}
	if n == 0 {
		if len(buf) != 0 {
			return 0, ErrBadStride
		}
		return 0, nil
	}
	if len(buf)%n != 0 {
		return 0, fmt.Errorf("%w: len=%d stride=%d", ErrBadStride, len(buf), n)
	}
	return n, nil
}
