package record

import (
	"fmt"
	"hash/fnv"
	"math/bits"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// An index can be composite, so several indexes of one table may share
// columns. Parsing every index row with ParseAppend concatenates their
// columns, duplicates included; keepColumn selects the first occurrence
// of each name and keepSchema is false for an index that adds nothing.
type SchemaSet struct {
	schemas    []*Schema
	buckets    map[uint64][]int // HashSchema -> positions in schemas
	keepColumn *bitset.BitSet
	keepSchema *bitset.BitSet
	numColumns int
	compiled   bool
}

func NewSchemaSet() *SchemaSet {
	return &SchemaSet{buckets: make(map[uint64][]int)}
}

// Add inserts s unless a schema with the same column names is already
// present, in which case that schema is returned with added == false.
func (ss *SchemaSet) Add(s *Schema) (canonical *Schema, added bool, err error) {
	if ss.compiled {
		return nil, false, fmt.Errorf("%w: add to compiled schema set", ErrInvalidArgument)
	}
	h := HashSchema(s)
	for _, pos := range ss.buckets[h] {
		if EqualSchema(ss.schemas[pos], s) {
			return ss.schemas[pos], false, nil
		}
	}
	ss.insert(h, s)
	return s, true, nil
}

func (ss *SchemaSet) insert(h uint64, s *Schema) {
	ss.buckets[h] = append(ss.buckets[h], len(ss.schemas))
	ss.schemas = append(ss.schemas, s)
}

// CompileSchemas builds a compiled set over schemas in the given order.
// Unlike Add it keeps schemas whose column names repeat an earlier one;
// such a schema gets a false keep_schema bit. Find returns the first.
func CompileSchemas(schemas []*Schema) (*SchemaSet, error) {
	ss := NewSchemaSet()
	for i, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("%w: schema %d is nil", ErrInvalidArgument, i)
		}
		ss.insert(HashSchema(s), s)
	}
	if err := ss.Compile(); err != nil {
		return nil, err
	}
	return ss, nil
}

// Find looks a schema up by its comma separated column names.
func (ss *SchemaSet) Find(key string) (*Schema, bool) {
	for _, pos := range ss.buckets[HashKey(key)] {
		if EqualKey(ss.schemas[pos], key) {
			return ss.schemas[pos], true
		}
	}
	return nil, false
}

func (ss *SchemaSet) Len() int { return len(ss.schemas) }

func (ss *SchemaSet) Schema(i int) *Schema { return ss.schemas[i] }

// Compile computes keepColumn and keepSchema from the insertion order.
func (ss *SchemaSet) Compile() error {
	if ss.compiled {
		return nil
	}
	numBits := 0
	for _, sc := range ss.schemas {
		numBits += sc.ColumnNum()
	}
	ss.keepColumn = bitset.New(uint(numBits)).FlipRange(0, uint(numBits))
	ss.keepSchema = bitset.New(uint(len(ss.schemas))).FlipRange(0, uint(len(ss.schemas)))

	seen := make(map[string]struct{}, numBits)
	bit := uint(0)
	for i, sc := range ss.schemas {
		skipped := 0
		for j := range sc.cols.len() {
			name := sc.cols.key(j)
			if _, dup := seen[name]; dup {
				ss.keepColumn.Clear(bit)
				skipped++
			} else {
				seen[name] = struct{}{}
			}
			bit++
		}
		if skipped == sc.cols.len() {
			ss.keepSchema.Clear(uint(i))
		}
	}
	ss.numColumns = numBits
	ss.compiled = true
	return nil
}

// NumColumns is the length of the concatenated column sequence.
func (ss *SchemaSet) NumColumns() int { return ss.numColumns }

// KeepColumn reports whether concatenated column i is a first occurrence.
func (ss *SchemaSet) KeepColumn(i int) bool {
	return ss.compiled && i >= 0 && ss.keepColumn.Test(uint(i))
}

// KeepSchema reports whether schema i contributes at least one column.
func (ss *SchemaSet) KeepSchema(i int) bool {
	return ss.compiled && i >= 0 && ss.keepSchema.Test(uint(i))
}

// ParseNested parses rows[i] with schema i and appends only the kept
// columns to dst[:0]. Rows of wholly redundant schemas are not read.
func (ss *SchemaSet) ParseNested(rows [][]byte, dst []ColumnData) ([]ColumnData, error) {
	dst = dst[:0]
	if !ss.compiled {
		return dst, ErrNotCompiled
	}
	if len(rows) != len(ss.schemas) {
		return dst, fmt.Errorf("%w: %d rows for %d schemas", ErrInvalidArgument, len(rows), len(ss.schemas))
	}
	bit := 0
	for i, sc := range ss.schemas {
		n := sc.ColumnNum()
		if !ss.KeepSchema(i) {
			bit += n
			continue
		}
		start := len(dst)
		var err error
		dst, err = sc.ParseAppend(rows[i], dst)
		if err != nil {
			return dst[:0], fmt.Errorf("schema %d: %w", i, err)
		}
		w := start
		for j := start; j < len(dst); j++ {
			if ss.KeepColumn(bit + j - start) {
				dst[w] = dst[j]
				w++
			}
		}
		dst = dst[:w]
		bit += n
	}
	return dst, nil
}

const schemaHashSeed = 8789

func hashCombine(h, h2 uint64) uint64 { return bits.RotateLeft64(h, 5) + h2 }

func hashName(name string) uint64 {
	f := fnv.New64a()
	_, _ = f.Write([]byte(name))
	return f.Sum64()
}

// HashSchema hashes the ordered column names of s.
func HashSchema(s *Schema) uint64 {
	h := uint64(schemaHashSeed)
	for _, name := range s.cols.names {
		h = hashCombine(h, hashName(name))
	}
	return h
}

// HashKey hashes a comma separated column list the same way HashSchema
// hashes the matching schema. Trailing commas are ignored.
func HashKey(key string) uint64 {
	h := uint64(schemaHashSeed)
	key = strings.TrimRight(key, ",")
	for key != "" {
		name, rest, _ := strings.Cut(key, ",")
		h = hashCombine(h, hashName(name))
		key = rest
	}
	return h
}

// EqualSchema compares column names only; types are ignored.
func EqualSchema(x, y *Schema) bool {
	if x.cols.len() != y.cols.len() {
		return false
	}
	for i, name := range x.cols.names {
		if y.cols.names[i] != name {
			return false
		}
	}
	return true
}

// EqualKey reports whether key, split on commas, is x's column names.
func EqualKey(x *Schema, key string) bool {
	key = strings.TrimRight(key, ",")
	nth := 0
	for key != "" {
		if nth >= x.cols.len() {
			return false
		}
		name, rest, _ := strings.Cut(key, ",")
		if name != x.cols.key(nth) {
			return false
		}
		key = rest
		nth++
	}
	return nth == x.cols.len()
}
