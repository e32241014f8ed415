package catalog

import (
	"time"

	"github.com/tuannm99/novarow/internal/record"
)

// ColumnDef names a column and its type token ("uint32", "fixed", ...).
// Width is only read for "fixed".
type ColumnDef struct {
	Name  string `json:"name" mapstructure:"name"`
	Type  string `json:"type" mapstructure:"type"`
	Width int    `json:"width,omitempty" mapstructure:"width"`
}

// IndexDef is a composite index: an ordered subset of the table columns.
type IndexDef struct {
	Name    string   `json:"name" mapstructure:"name"`
	Columns []string `json:"columns" mapstructure:"columns"`
}

type TableDef struct {
	Name    string      `json:"name" mapstructure:"name"`
	Columns []ColumnDef `json:"columns" mapstructure:"columns"`
	Indexes []IndexDef  `json:"indexes" mapstructure:"indexes"`
}

// TableMeta is stored as <table>.meta.json.
type TableMeta struct {
	TableDef
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Table is a compiled TableDef.
type Table struct {
	Def TableDef
	// Row lays out a whole record, columns in definition order.
	Row *record.Schema
	// Indexes holds one schema per IndexDef, same order.
	Indexes []*record.Schema
	// Set is Indexes compiled in order. An index repeating the columns of
	// an earlier one keeps its position with a false keep_schema bit.
	Set *record.SchemaSet
}

// Index returns the schema of the named index.
func (t *Table) Index(name string) (*record.Schema, error) {
	for i := range t.Def.Indexes {
		if t.Def.Indexes[i].Name == name {
			return t.Indexes[i], nil
		}
	}
	return nil, ErrIndexNotFound
}
