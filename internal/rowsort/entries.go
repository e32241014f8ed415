package rowsort

import (
	"sort"

	"github.com/tuannm99/novarow/internal/record"
)

// EntryTable indexes variable length rows packed into one base buffer.
// Sorting reorders Entries only; Base is never moved.
type EntryTable struct {
	Base    []byte
	Entries []record.RowRef
}

// Add appends row to Base and records it.
func (t *EntryTable) Add(row []byte) {
	t.Entries = append(t.Entries, record.RowRef{Offset: len(t.Base), Length: len(row)})
	t.Base = append(t.Base, row...)
}

func (t *EntryTable) Len() int { return len(t.Entries) }

// Row returns the bytes of entry i.
func (t *EntryTable) Row(i int) ([]byte, error) { return t.Entries[i].Slice(t.Base) }

// Reset empties the table and keeps its storage.
func (t *EntryTable) Reset() {
	t.Base = t.Base[:0]
	t.Entries = t.Entries[:0]
}

type byIndex struct {
	t   *EntryTable
	s   *record.Schema
	err error
}

func (b *byIndex) Len() int      { return len(b.t.Entries) }
func (b *byIndex) Swap(i, j int) { b.t.Entries[i], b.t.Entries[j] = b.t.Entries[j], b.t.Entries[i] }

func (b *byIndex) Less(i, j int) bool {
	if b.err != nil {
		return false
	}
	c, err := b.s.CompareByIndex(b.t.Base, b.t.Entries[i], b.t.Entries[j])
	if err != nil {
		b.err = err
		return false
	}
	return c < 0
}

// Sort orders the entries by s. It is stable so equal rows keep their
// insertion order. The first comparison error is returned and the order
// is then unspecified.
func (t *EntryTable) Sort(s *record.Schema) error {
	b := &byIndex{t: t, s: s}
	sort.Stable(b)
	return b.err
}

// IsSorted reports whether the entries are in schema order.
func (t *EntryTable) IsSorted(s *record.Schema) (bool, error) {
	b := &byIndex{t: t, s: s}
	ok := sort.IsSorted(b)
	return ok && b.err == nil, b.err
}

// Search returns the first entry whose row is not less than key. The
// table must be sorted by s.
func (t *EntryTable) Search(s *record.Schema, key []byte) (int, error) {
	var firstErr error
	i := sort.Search(len(t.Entries), func(i int) bool {
		if firstErr != nil {
			return true
		}
		row, err := t.Row(i)
		if err == nil {
			var c int
			c, err = s.Compare(row, key)
			if err == nil {
				return c >= 0
			}
		}
		firstErr = err
		return true
	})
	return i, firstErr
}
