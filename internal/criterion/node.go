package criterion

import "strings"

// Conjunction joins a child clause to the text rendered before it.
type Conjunction string

const (
	And Conjunction = "AND"
	Or  Conjunction = "OR"
)

// ColumnRef resolves a structured column reference to its owning table and
// SQL column name. The schema package's column map satisfies it; callers
// without a schema pass a qualified "table.column" string instead.
type ColumnRef interface {
	Table() string
	Column() string
}

// Node is one clause in a condition tree.
//
// The template carries zero or more `?` placeholder markers in
// left-to-right order; how many the kind expects depends on the value
// shape (see Kind). Table and column identity participate in equality and
// diagnostics only - rendering uses the qualified text already embedded in
// the template.
//
// A Node is immutable once constructed, which keeps it safe to compile
// repeatedly, to share between trees, and to use as a cache key.
type Node struct {
	kind     Kind
	table    string // "" means unqualified/aliased column
	column   string
	template string
	value    Value
	bindType BindType // meaningful only for KindClauseRaw

	children     []*Node
	conjunctions []Conjunction // conjunctions[i] precedes children[i]
}

// New builds a clause node for a qualified column reference. The reference
// is split on the last '.' into (table, column); a reference without a dot
// is an unqualified/aliased column with no table identity.
func New(kind Kind, column, template string, value Value) *Node {
	table, name := SplitQualified(column)
	return &Node{
		kind:     kind,
		table:    table,
		column:   name,
		template: template,
		value:    value,
	}
}

// NewColumn builds a clause node from a structured column reference.
func NewColumn(kind Kind, ref ColumnRef, template string, value Value) *Node {
	return &Node{
		kind:     kind,
		table:    ref.Table(),
		column:   ref.Column(),
		template: template,
		value:    value,
	}
}

// NewCustom builds a free-form expression node. The template is rendered
// verbatim and binds nothing.
func NewCustom(template string) *Node {
	return &Node{kind: KindCustom, template: template}
}

// NewRaw builds a raw clause node: exactly one placeholder marker, one
// parameter carrying the declared bind type and no table/column identity.
func NewRaw(template string, value Value, bindType BindType) *Node {
	return &Node{
		kind:     KindClauseRaw,
		template: template,
		value:    value,
		bindType: bindType,
	}
}

// Add attaches a child clause joined by the given conjunction and returns
// the receiver for chaining. Children render after the parent's own
// clause, in attachment order, each preceded by its conjunction.
func (n *Node) Add(conj Conjunction, child *Node) *Node {
	if child == nil {
		return n
	}
	n.children = append(n.children, child)
	n.conjunctions = append(n.conjunctions, conj)
	return n
}

// Kind returns the comparison kind.
func (n *Node) Kind() Kind { return n.kind }

// Table returns the owning table name, or "" for an unqualified column.
func (n *Node) Table() string { return n.table }

// Column returns the column name used for diagnostics and equality.
func (n *Node) Column() string { return n.column }

// Template returns the clause template with its `?` markers.
func (n *Node) Template() string { return n.template }

// Value returns the bound value; nil or Null means no value.
func (n *Node) Value() Value { return n.value }

// BindType returns the declared bind type (raw clauses only).
func (n *Node) BindType() BindType { return n.bindType }

// Children returns the nested clauses in attachment order. The returned
// slice must not be mutated.
func (n *Node) Children() []*Node { return n.children }

// Conjunctions returns the operator preceding each child. Always the same
// length as Children.
func (n *Node) Conjunctions() []Conjunction { return n.conjunctions }

// SplitQualified splits a column reference on its last '.' into table and
// column. A reference without a dot has no table: the column is aliased or
// unqualified.
func SplitQualified(ref string) (table, column string) {
	idx := strings.LastIndex(ref, ".")
	if idx < 0 {
		return "", ref
	}
	return ref[:idx], ref[idx+1:]
}
