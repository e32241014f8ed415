package record

// columnList keeps column metas by name in insertion order. Names are
// expected to be unique; on a duplicate, lookup by name finds the first.
type columnList struct {
	names []string
	metas []ColumnMeta
	index map[string]int
}

func (l *columnList) append(name string, meta ColumnMeta) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if _, dup := l.index[name]; !dup {
		l.index[name] = len(l.names)
	}
	l.names = append(l.names, name)
	l.metas = append(l.metas, meta)
}

func (l *columnList) len() int { return len(l.names) }

// find returns the index of name or -1.
func (l *columnList) find(name string) int {
	if i, ok := l.index[name]; ok {
		return i
	}
	return -1
}

func (l *columnList) key(i int) string      { return l.names[i] }
func (l *columnList) val(i int) *ColumnMeta { return &l.metas[i] }
