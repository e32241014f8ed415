package rowblock

import (
	"github.com/tuannm99/novarow/internal/record"
	"github.com/tuannm99/novarow/internal/rowsort"
)

// Merge combines runs that are each sorted by s into one sorted table.
// On ties the row from the earlier run comes first.
func Merge(s *record.Schema, runs ...*rowsort.EntryTable) (*rowsort.EntryTable, error) {
	out := &rowsort.EntryTable{}
	pos := make([]int, len(runs))
	for {
		best := -1
		var bestRow []byte
		for r, run := range runs {
			if pos[r] >= run.Len() {
				continue
			}
			row, err := run.Row(pos[r])
			if err != nil {
				return nil, err
			}
			if best >= 0 {
				c, err := s.Compare(row, bestRow)
				if err != nil {
					return nil, err
				}
				if c >= 0 {
					continue
				}
			}
			best, bestRow = r, row
		}
		if best < 0 {
			return out, nil
		}
		out.Add(bestRow)
		pos[best]++
	}
}
