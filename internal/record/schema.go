package record

import (
	"fmt"
	"strings"
)

// Schema is an ordered list of named columns and the codec for rows laid
// out by it. Build it with AddColumn, call Compile once, then share it
// read-only; nothing here takes a lock.
type Schema struct {
	cols        columnList
	compiled    bool
	fixedRowLen int // -1: rows are variable length
}

func NewSchema() *Schema { return &Schema{fixedRowLen: -1} }

// AddColumn appends a column. It fails once the schema is compiled.
func (s *Schema) AddColumn(name string, meta ColumnMeta) error {
	if s.compiled {
		return fmt.Errorf("%w: add column %q to compiled schema", ErrInvalidArgument, name)
	}
	s.cols.append(name, meta)
	return nil
}

// Compile validates every column and caches the fixed row length.
// Calling it again is a no-op.
func (s *Schema) Compile() error {
	if s.compiled {
		return nil
	}
	n, err := s.computeFixedRowLen()
	if err != nil {
		return err
	}
	s.fixedRowLen = n
	s.compiled = true
	return nil
}

func (s *Schema) computeFixedRowLen() (int, error) {
	rowLen := 0
	variable := false
	for i := range s.cols.len() {
		meta := s.cols.val(i)
		if err := meta.validate(); err != nil {
			return 0, s.columnError(i, 0, 0, err)
		}
		ti, _ := meta.Type.info()
		if ti.variable() {
			variable = true
			continue
		}
		rowLen += meta.width(ti)
	}
	if variable {
		return -1, nil
	}
	return rowLen, nil
}

func (s *Schema) Compiled() bool { return s.compiled }

// FixedRowLen returns the exact row length when every column is fixed
// width. ok is false for variable rows and for uncompiled schemas.
func (s *Schema) FixedRowLen() (n int, ok bool) {
	if !s.compiled || s.fixedRowLen < 0 {
		return 0, false
	}
	return s.fixedRowLen, true
}

func (s *Schema) ColumnNum() int { return s.cols.len() }

// ColumnID returns the index of the named column, or -1.
func (s *Schema) ColumnID(name string) int { return s.cols.find(name) }

func (s *Schema) ColumnName(i int) (string, error) {
	if err := s.checkColumnID(i); err != nil {
		return "", err
	}
	return s.cols.key(i), nil
}

func (s *Schema) ColumnMeta(i int) (ColumnMeta, error) {
	if err := s.checkColumnID(i); err != nil {
		return ColumnMeta{}, err
	}
	return *s.cols.val(i), nil
}

func (s *Schema) ColumnType(i int) (ColumnType, error) {
	if err := s.checkColumnID(i); err != nil {
		return 0, err
	}
	return s.cols.val(i).Type, nil
}

func (s *Schema) checkColumnID(i int) error {
	if i < 0 || i >= s.cols.len() {
		return fmt.Errorf("%w: columnId=%d columns=%d", ErrOutOfRange, i, s.cols.len())
	}
	return nil
}

// ColumnNames returns a copy of the column names in order.
func (s *Schema) ColumnNames() []string {
	return append([]string(nil), s.cols.names...)
}

// JoinColumnNames joins the column names with delim.
func (s *Schema) JoinColumnNames(delim byte) string {
	return strings.Join(s.cols.names, string(delim))
}

func (s *Schema) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := range s.cols.len() {
		if i > 0 {
			sb.WriteString(", ")
		}
		meta := s.cols.val(i)
		sb.WriteString(s.cols.key(i))
		sb.WriteByte(' ')
		sb.WriteString(meta.Type.String())
		if meta.Type == ColFixed {
			fmt.Fprintf(&sb, "(%d)", meta.FixedLen)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

func (s *Schema) columnError(i, need, have int, err error) *ColumnError {
	return &ColumnError{
		Column: i,
		Name:   s.cols.key(i),
		Type:   s.cols.val(i).Type,
		Need:   need,
		Have:   have,
		Err:    err,
	}
}
