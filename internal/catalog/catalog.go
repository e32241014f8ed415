package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tuannm99/novarow/internal/record"
)

var (
	ErrTableNotFound  = errors.New("catalog: table not found")
	ErrTableExists    = errors.New("catalog: table already exists")
	ErrIndexNotFound  = errors.New("catalog: index not found")
	ErrIndexBadColumn = errors.New("catalog: index key column not found")
	ErrBadName        = errors.New("catalog: invalid name")
	ErrDupColumn      = errors.New("catalog: duplicate column name")
)

const metaSuffix = ".meta.json"

// validateIdent rejects names that cannot be written in a comma
// separated column key or used as a file name inside the catalog dir.
func validateIdent(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, ", \t\n/\\") {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

func columnMeta(c ColumnDef) (record.ColumnMeta, error) {
	t, err := record.ParseType(c.Type)
	if err != nil {
		return record.ColumnMeta{}, err
	}
	if t == record.ColFixed {
		return record.NewFixedMeta(c.Width)
	}
	return record.NewColumnMeta(t)
}

// Build compiles def into row and index schemas plus their SchemaSet.
func Build(def TableDef) (*Table, error) {
	if err := validateIdent(def.Name); err != nil {
		return nil, err
	}

	metas := make(map[string]record.ColumnMeta, len(def.Columns))
	row := record.NewSchema()
	for _, c := range def.Columns {
		if err := validateIdent(c.Name); err != nil {
			return nil, fmt.Errorf("table %s: %w", def.Name, err)
		}
		if _, dup := metas[c.Name]; dup {
			return nil, fmt.Errorf("table %s: %w: %s", def.Name, ErrDupColumn, c.Name)
		}
		meta, err := columnMeta(c)
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", def.Name, c.Name, err)
		}
		metas[c.Name] = meta
		if err := row.AddColumn(c.Name, meta); err != nil {
			return nil, err
		}
	}
	if err := row.Compile(); err != nil {
		return nil, fmt.Errorf("table %s: %w", def.Name, err)
	}

	tbl := &Table{Def: def, Row: row}
	shared := record.NewSchemaSet()
	seen := make(map[string]bool, len(def.Indexes))
	for _, ix := range def.Indexes {
		if err := validateIdent(ix.Name); err != nil {
			return nil, fmt.Errorf("table %s: %w", def.Name, err)
		}
		if seen[ix.Name] {
			return nil, fmt.Errorf("table %s: %w: index %s", def.Name, ErrBadName, ix.Name)
		}
		seen[ix.Name] = true

		sc := record.NewSchema()
		for _, name := range ix.Columns {
			meta, ok := metas[name]
			if !ok {
				return nil, fmt.Errorf("table %s index %s: %w: %s", def.Name, ix.Name, ErrIndexBadColumn, name)
			}
			if sc.ColumnID(name) >= 0 {
				return nil, fmt.Errorf("table %s index %s: %w: %s", def.Name, ix.Name, ErrDupColumn, name)
			}
			if err := sc.AddColumn(name, meta); err != nil {
				return nil, err
			}
		}
		if err := sc.Compile(); err != nil {
			return nil, fmt.Errorf("table %s index %s: %w", def.Name, ix.Name, err)
		}
		canonical, _, err := shared.Add(sc)
		if err != nil {
			return nil, err
		}
		tbl.Indexes = append(tbl.Indexes, canonical)
	}
	set, err := record.CompileSchemas(tbl.Indexes)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", def.Name, err)
	}
	tbl.Set = set

	slog.Debug("catalog.Build",
		"table", def.Name,
		"columns", row.ColumnNum(),
		"indexes", len(tbl.Indexes),
		"distinctIndexes", shared.Len(),
	)
	return tbl, nil
}

// Catalog holds compiled tables by name. It is read-only once built.
type Catalog struct {
	tables map[string]*Table
}

// New builds every table of defs.
func New(defs []TableDef) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(defs))}
	for _, def := range defs {
		if _, dup := c.tables[def.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrTableExists, def.Name)
		}
		tbl, err := Build(def)
		if err != nil {
			return nil, err
		}
		c.tables[def.Name] = tbl
	}
	return c, nil
}

func (c *Catalog) Table(name string) (*Table, error) {
	tbl, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return tbl, nil
}

// Names lists the tables in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.tables))
	for name := range c.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func metaPath(dir, name string) string {
	return filepath.Join(dir, name+metaSuffix)
}

// WriteTableMeta overwrites the meta file of def in dir.
func WriteTableMeta(dir string, def TableDef) error {
	if _, err := Build(def); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	now := time.Now()
	meta := TableMeta{TableDef: def, CreatedAt: now, UpdatedAt: now}
	if old, err := ReadTableMeta(dir, def.Name); err == nil {
		meta.CreatedAt = old.CreatedAt
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath(dir, def.Name), data, 0o644)
}

// ReadTableMeta loads table metadata from its JSON file. The table name
// stored in the file must match name.
func ReadTableMeta(dir, name string) (*TableMeta, error) {
	if err := validateIdent(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(metaPath(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
		}
		return nil, err
	}

	var meta TableMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", name, err)
	}
	if meta.Name != name {
		return nil, fmt.Errorf("%w: %s holds table %q", ErrBadName, metaPath(dir, name), meta.Name)
	}
	return &meta, nil
}

// LoadDir builds a catalog from every meta file in dir plus extra defs.
func LoadDir(dir string, extra ...TableDef) (*Catalog, error) {
	defs := append([]TableDef(nil), extra...)
	if dir != "" {
		paths, err := filepath.Glob(filepath.Join(dir, "*"+metaSuffix))
		if err != nil {
			return nil, err
		}
		sort.Strings(paths)
		for _, p := range paths {
			name := strings.TrimSuffix(filepath.Base(p), metaSuffix)
			meta, err := ReadTableMeta(dir, name)
			if err != nil {
				return nil, err
			}
			defs = append(defs, meta.TableDef)
		}
	}
	slog.Debug("catalog.LoadDir", "dir", dir, "tables", len(defs))
	return New(defs)
}
