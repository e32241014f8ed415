package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// col is name:type, with width used only for ColFixed.
type col struct {
	name  string
	typ   ColumnType
	width int
}

// makeSchema builds and compiles a schema used across tests.
func makeSchema(t *testing.T, cols ...col) *Schema {
	t.Helper()
	s := NewSchema()
	for _, c := range cols {
		var (
			meta ColumnMeta
			err  error
		)
		if c.typ == ColFixed {
			meta, err = NewFixedMeta(c.width)
		} else {
			meta, err = NewColumnMeta(c.typ)
		}
		require.NoError(t, err)
		require.NoError(t, s.AddColumn(c.name, meta))
	}
	require.NoError(t, s.Compile())
	return s
}

func mustEncode(t *testing.T, s *Schema, values ...any) []byte {
	t.Helper()
	b, err := s.EncodeRow(values)
	require.NoError(t, err)
	return b
}

func mustCompare(t *testing.T, s *Schema, x, y []byte) int {
	t.Helper()
	c, err := s.Compare(x, y)
	require.NoError(t, err)
	return c
}
