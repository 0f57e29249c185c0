// Package schema provides the column-map collaborator of the criterion
// compiler: table and column metadata the query-building layer resolves
// filters against.
//
// The compiler itself never validates that a table or column exists; the
// map is consulted by the builder when constructing clause nodes and by
// dialects that need per-column collation knowledge.
package schema

import (
	"fmt"

	"github.com/karstdb/criteria/internal/criterion"
)

// Column captures the metadata for one mapped column.
type Column struct {
	// TableName is the owning table (or alias) used to qualify the column.
	TableName string

	// ColumnName is the SQL column name.
	ColumnName string

	// Type is the declared bind type, carried onto parameter records by
	// raw clauses built against this column.
	Type criterion.BindType

	// CaseInsensitiveCollation marks columns whose collation already
	// compares case-insensitively, suppressing LIKE rewriting.
	CaseInsensitiveCollation bool
}

// Table implements criterion.ColumnRef.
func (c Column) Table() string { return c.TableName }

// Column implements criterion.ColumnRef.
func (c Column) Column() string { return c.ColumnName }

// Qualified returns the "table.column" spelling used in templates, or the
// bare column name for unqualified columns.
func (c Column) Qualified() string {
	if c.TableName == "" {
		return c.ColumnName
	}
	return c.TableName + "." + c.ColumnName
}

// Map is an immutable-after-construction column map. Keys are qualified
// "table.column" references.
type Map struct {
	columns map[string]Column
}

// NewMap builds a column map from the given columns. Later duplicates of
// the same qualified reference win, matching the last-definition behavior
// of schema reloads.
func NewMap(columns ...Column) *Map {
	m := &Map{columns: make(map[string]Column, len(columns))}
	for _, c := range columns {
		m.columns[c.Qualified()] = c
	}
	return m
}

// Resolve looks up a qualified "table.column" reference. A reference
// without a dot resolves against unqualified columns only.
func (m *Map) Resolve(ref string) (Column, bool) {
	c, ok := m.columns[ref]
	return c, ok
}

// CaseInsensitive implements the dialects' CaseSource: it reports whether
// the column is declared with a case-insensitive collation. Unmapped
// columns report false, leaving the engine default in force.
func (m *Map) CaseInsensitive(table, column string) bool {
	ref := column
	if table != "" {
		ref = table + "." + column
	}
	c, ok := m.columns[ref]
	return ok && c.CaseInsensitiveCollation
}

// Clause builds a clause node for a mapped column, failing on unmapped
// references so malformed filters surface before compilation.
func (m *Map) Clause(kind criterion.Kind, ref, template string, value criterion.Value) (*criterion.Node, error) {
	col, ok := m.Resolve(ref)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", ref)
	}
	return criterion.NewColumn(kind, col, template, value), nil
}
