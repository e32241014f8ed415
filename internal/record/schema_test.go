package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_FixedRowLen(t *testing.T) {
	t.Run("all fixed", func(t *testing.T) {
		s := makeSchema(t,
			col{name: "a", typ: ColUint08},
			col{name: "b", typ: ColSint32},
			col{name: "c", typ: ColFloat64},
			col{name: "d", typ: ColUuid},
			col{name: "e", typ: ColFixed, width: 5},
			col{name: "f", typ: ColUint128},
		)
		n, ok := s.FixedRowLen()
		require.True(t, ok)
		assert.Equal(t, 1+4+8+16+5+16, n)
	})

	for _, vt := range []ColumnType{ColStrZero, ColStrUtf8, ColBinary} {
		t.Run("variable "+vt.String(), func(t *testing.T) {
			s := makeSchema(t,
				col{name: "id", typ: ColUint64},
				col{name: "v", typ: vt},
				col{name: "w", typ: ColUint16},
			)
			_, ok := s.FixedRowLen()
			assert.False(t, ok)
		})
	}

	t.Run("empty schema", func(t *testing.T) {
		s := makeSchema(t)
		n, ok := s.FixedRowLen()
		require.True(t, ok)
		assert.Equal(t, 0, n)
	})
}

func TestCompile_RejectsBadMeta(t *testing.T) {
	t.Run("fixed without width", func(t *testing.T) {
		s := NewSchema()
		require.NoError(t, s.AddColumn("x", ColumnMeta{Type: ColFixed}))
		err := s.Compile()
		require.ErrorIs(t, err, ErrInvalidArgument)

		var ce *ColumnError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 0, ce.Column)
		assert.Equal(t, "x", ce.Name)
		assert.False(t, s.Compiled())
	})

	t.Run("type outside enumeration", func(t *testing.T) {
		s := NewSchema()
		require.NoError(t, s.AddColumn("ok", ColumnMeta{Type: ColUint08, FixedLen: 1}))
		require.NoError(t, s.AddColumn("bad", ColumnMeta{Type: ColumnType(42)}))
		err := s.Compile()
		require.ErrorIs(t, err, ErrInvalidType)
	})
}

func TestSchema_NotCompiled(t *testing.T) {
	s := NewSchema()
	meta, err := NewColumnMeta(ColUint32)
	require.NoError(t, err)
	require.NoError(t, s.AddColumn("id", meta))

	_, ok := s.FixedRowLen()
	assert.False(t, ok)

	_, err = s.Parse([]byte{1, 2, 3, 4}, nil)
	require.ErrorIs(t, err, ErrNotCompiled)

	_, err = s.Compare([]byte{1, 2, 3, 4}, []byte{1, 2, 3, 4})
	require.ErrorIs(t, err, ErrNotCompiled)

	_, err = s.CompareFixedLen([]byte{1, 2, 3, 4}, []byte{1, 2, 3, 4})
	require.ErrorIs(t, err, ErrNotCompiled)

	_, err = s.EncodeRow([]any{uint32(1)})
	require.ErrorIs(t, err, ErrNotCompiled)
}

func TestSchema_AddAfterCompile(t *testing.T) {
	s := makeSchema(t, col{name: "id", typ: ColUint32})
	meta, _ := NewColumnMeta(ColUint32)
	require.ErrorIs(t, s.AddColumn("late", meta), ErrInvalidArgument)
	require.NoError(t, s.Compile(), "compile twice is a no-op")
	assert.Equal(t, 1, s.ColumnNum())
}

func TestSchema_Accessors(t *testing.T) {
	s := makeSchema(t,
		col{name: "id", typ: ColUint64},
		col{name: "code", typ: ColFixed, width: 3},
		col{name: "name", typ: ColStrUtf8},
	)

	assert.Equal(t, 3, s.ColumnNum())
	assert.Equal(t, 1, s.ColumnID("code"))
	assert.Equal(t, -1, s.ColumnID("missing"))
	assert.Equal(t, []string{"id", "code", "name"}, s.ColumnNames())
	assert.Equal(t, "id,code,name", s.JoinColumnNames(','))
	assert.Equal(t, "(id uint64, code fixed(3), name strutf8)", s.String())

	name, err := s.ColumnName(2)
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	meta, err := s.ColumnMeta(1)
	require.NoError(t, err)
	assert.Equal(t, ColumnMeta{Type: ColFixed, FixedLen: 3}, meta)

	ct, err := s.ColumnType(0)
	require.NoError(t, err)
	assert.Equal(t, ColUint64, ct)

	for _, i := range []int{-1, 3} {
		_, err = s.ColumnName(i)
		require.ErrorIs(t, err, ErrOutOfRange)
		_, err = s.ColumnMeta(i)
		require.ErrorIs(t, err, ErrOutOfRange)
		_, err = s.ColumnType(i)
		require.ErrorIs(t, err, ErrOutOfRange)
	}
}
