package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keepColumns(ss *SchemaSet) []bool {
	out := make([]bool, ss.NumColumns())
	for i := range out {
		out[i] = ss.KeepColumn(i)
	}
	return out
}

func keepSchemas(ss *SchemaSet) []bool {
	out := make([]bool, ss.Len())
	for i := range out {
		out[i] = ss.KeepSchema(i)
	}
	return out
}

func mustAdd(t *testing.T, ss *SchemaSet, s *Schema) {
	t.Helper()
	_, added, err := ss.Add(s)
	require.NoError(t, err)
	require.True(t, added)
}

func TestSchemaSet_Compile_SharedColumn(t *testing.T) {
	ss := NewSchemaSet()
	mustAdd(t, ss, makeSchema(t, col{name: "a", typ: ColUint32}, col{name: "b", typ: ColStrUtf8}))
	mustAdd(t, ss, makeSchema(t, col{name: "b", typ: ColStrUtf8}, col{name: "c", typ: ColUint08}))
	require.NoError(t, ss.Compile())

	assert.Equal(t, 4, ss.NumColumns())
	assert.Equal(t, []bool{true, true, false, true}, keepColumns(ss))
	assert.Equal(t, []bool{true, true}, keepSchemas(ss))
}

func TestSchemaSet_Compile_RedundantSchema(t *testing.T) {
	ss := NewSchemaSet()
	mustAdd(t, ss, makeSchema(t, col{name: "a", typ: ColUint32}, col{name: "b", typ: ColUint32}))
	mustAdd(t, ss, makeSchema(t, col{name: "b", typ: ColUint32}, col{name: "a", typ: ColUint32}))
	mustAdd(t, ss, makeSchema(t, col{name: "c", typ: ColUint32}))
	require.NoError(t, ss.Compile())

	assert.Equal(t, []bool{true, true, false, false, true}, keepColumns(ss))
	assert.Equal(t, []bool{true, false, true}, keepSchemas(ss))
}

func TestSchemaSet_Compile_SameNamesDeduplicated(t *testing.T) {
	ss := NewSchemaSet()
	first := makeSchema(t, col{name: "a", typ: ColUint32})
	mustAdd(t, ss, first)

	// equal by names even though the type differs
	again := makeSchema(t, col{name: "a", typ: ColBinary})
	got, added, err := ss.Add(again)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Same(t, first, got)
	assert.Equal(t, 1, ss.Len())
}

func TestCompileSchemas_KeepsRepeatedSchemas(t *testing.T) {
	first := makeSchema(t, col{name: "a", typ: ColUint32})
	second := makeSchema(t, col{name: "a", typ: ColUint32})

	ss, err := CompileSchemas([]*Schema{first, second})
	require.NoError(t, err)
	require.Equal(t, 2, ss.Len())
	assert.Same(t, second, ss.Schema(1))
	assert.Equal(t, []bool{true, false}, keepColumns(ss))
	assert.Equal(t, []bool{true, false}, keepSchemas(ss))

	got, ok := ss.Find("a")
	require.True(t, ok)
	assert.Same(t, first, got)

	rows := [][]byte{mustEncode(t, first, 7), mustEncode(t, second, 9)}
	cols, err := ss.ParseNested(rows, nil)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	v, err := cols[0].Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}

func TestCompileSchemas_Order(t *testing.T) {
	ab := makeSchema(t, col{name: "a", typ: ColUint08}, col{name: "b", typ: ColUint08})
	bc := makeSchema(t, col{name: "b", typ: ColUint08}, col{name: "c", typ: ColUint08})

	ss, err := CompileSchemas([]*Schema{ab, bc, ab})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, true, false, false}, keepColumns(ss))
	assert.Equal(t, []bool{true, true, false}, keepSchemas(ss))

	_, err = CompileSchemas([]*Schema{ab, nil})
	require.ErrorIs(t, err, ErrInvalidArgument)

	empty, err := CompileSchemas(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestSchemaSet_Compile_DuplicateNamesInsideOneSchema(t *testing.T) {
	// uniqueness is the caller's job; a repeated name is still deduplicated
	s := NewSchema()
	meta, _ := NewColumnMeta(ColUint08)
	require.NoError(t, s.AddColumn("a", meta))
	require.NoError(t, s.AddColumn("a", meta))
	require.NoError(t, s.Compile())

	ss := NewSchemaSet()
	mustAdd(t, ss, s)
	require.NoError(t, ss.Compile())
	assert.Equal(t, []bool{true, false}, keepColumns(ss))
	assert.Equal(t, []bool{true}, keepSchemas(ss))
}

func TestSchemaSet_Compile_Deterministic(t *testing.T) {
	build := func() *SchemaSet {
		ss := NewSchemaSet()
		for _, names := range [][]string{{"x", "y"}, {"z", "x"}, {"y", "w", "z"}, {"w"}} {
			var cols []col
			for _, n := range names {
				cols = append(cols, col{name: n, typ: ColUint08})
			}
			mustAdd(t, ss, makeSchema(t, cols...))
		}
		require.NoError(t, ss.Compile())
		return ss
	}
	want := []bool{true, true, true, false, false, true, false, false}
	for range 5 {
		ss := build()
		assert.Equal(t, want, keepColumns(ss))
		assert.Equal(t, []bool{true, true, true, false}, keepSchemas(ss))
	}
}

func TestSchemaSet_AddAfterCompile(t *testing.T) {
	ss := NewSchemaSet()
	require.NoError(t, ss.Compile())
	_, _, err := ss.Add(makeSchema(t, col{name: "a", typ: ColUint08}))
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.False(t, ss.KeepColumn(0))
}

func TestSchemaSet_FindByKey(t *testing.T) {
	ss := NewSchemaSet()
	ab := makeSchema(t, col{name: "a", typ: ColUint08}, col{name: "b", typ: ColUint08})
	mustAdd(t, ss, ab)
	mustAdd(t, ss, makeSchema(t, col{name: "a", typ: ColUint08}))

	got, ok := ss.Find("a,b")
	require.True(t, ok)
	assert.Same(t, ab, got)

	got, ok = ss.Find("a,b,,")
	require.True(t, ok, "trailing commas are ignored")
	assert.Same(t, ab, got)

	for _, key := range []string{"b,a", "A,b", "a,b,c", "", "a,"} {
		got, ok = ss.Find(key)
		if key == "a," {
			require.True(t, ok)
			assert.Equal(t, "a", got.JoinColumnNames(','))
			continue
		}
		assert.False(t, ok, "key %q", key)
	}
}

func TestSchemaKey_HashAndEqual(t *testing.T) {
	s := makeSchema(t, col{name: "id", typ: ColUint64}, col{name: "name", typ: ColStrUtf8})
	same := makeSchema(t, col{name: "id", typ: ColBinary}, col{name: "name", typ: ColBinary})
	swapped := makeSchema(t, col{name: "name", typ: ColStrUtf8}, col{name: "id", typ: ColUint64})

	assert.Equal(t, HashSchema(s), HashSchema(same))
	assert.True(t, EqualSchema(s, same))
	assert.False(t, EqualSchema(s, swapped))
	assert.NotEqual(t, HashSchema(s), HashSchema(swapped), "hash is order sensitive")

	assert.Equal(t, HashSchema(s), HashKey("id,name"))
	assert.Equal(t, HashSchema(s), HashKey("id,name,"))
	assert.True(t, EqualKey(s, "id,name"))
	assert.True(t, EqualKey(s, "id,name,"))
	assert.False(t, EqualKey(s, "id"))
	assert.False(t, EqualKey(s, "id,name,x"))
	assert.False(t, EqualKey(s, "id,Name"))

	empty := makeSchema(t)
	assert.Equal(t, HashSchema(empty), HashKey(""))
	assert.True(t, EqualKey(empty, ""))
	assert.True(t, EqualKey(empty, ","))
}

func TestSchemaSet_ParseNested(t *testing.T) {
	byName := makeSchema(t, col{name: "name", typ: ColStrUtf8}, col{name: "id", typ: ColUint32})
	byAge := makeSchema(t, col{name: "age", typ: ColUint08}, col{name: "id", typ: ColUint32})
	byID := makeSchema(t, col{name: "id", typ: ColUint32})

	ss := NewSchemaSet()
	mustAdd(t, ss, byName)
	mustAdd(t, ss, byAge)
	mustAdd(t, ss, byID)
	require.NoError(t, ss.Compile())
	require.Equal(t, []bool{true, true, false}, keepSchemas(ss))

	rows := [][]byte{
		mustEncode(t, byName, "ann", 7),
		mustEncode(t, byAge, 33, 7),
		nil, // wholly redundant, never read
	}
	cols, err := ss.ParseNested(rows, nil)
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, "ann", cols[0].Text())
	id, err := cols[1].Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	age, err := cols[2].Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(33), age)

	t.Run("row count must match", func(t *testing.T) {
		_, err := ss.ParseNested(rows[:2], nil)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("bad row", func(t *testing.T) {
		bad := [][]byte{rows[0], {1, 2}, nil}
		out, err := ss.ParseNested(bad, cols)
		require.ErrorIs(t, err, ErrTruncated)
		assert.Empty(t, out)
	})

	t.Run("not compiled", func(t *testing.T) {
		_, err := NewSchemaSet().ParseNested(nil, nil)
		require.ErrorIs(t, err, ErrNotCompiled)
	})
}
