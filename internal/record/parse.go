package record

// Parse splits row into one ColumnData per column, reusing dst's storage.
// The views borrow row. On error dst is returned empty.
func (s *Schema) Parse(row []byte, dst []ColumnData) ([]ColumnData, error) {
	return s.ParseAppend(row, dst[:0])
}

// ParseAppend is Parse without truncating dst first, so the rows of
// several schemas can be concatenated. On error dst keeps its old length.
func (s *Schema) ParseAppend(row []byte, dst []ColumnData) ([]ColumnData, error) {
	if !s.compiled {
		return dst, ErrNotCompiled
	}
	base := len(dst)
	rest := row
	for i := range s.cols.len() {
		ti, err := s.typeAt(i)
		if err != nil {
			return dst[:base], err
		}
		sp, err := s.frame(i, ti, rest)
		if err != nil {
			return dst[:base], err
		}
		dst = append(dst, newColumnData(s.cols.val(i).Type, rest, sp))
		rest = rest[sp.size():]
	}
	return dst, nil
}
