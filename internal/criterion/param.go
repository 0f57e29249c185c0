package criterion

import (
	"database/sql"
	"strconv"
)

// BindType is an optional declared type tag carried on a parameter record.
// Only the raw clause shape propagates it; every other shape records
// TypeUnspecified and leaves type resolution to the driver.
type BindType string

const (
	TypeUnspecified BindType = ""
	TypeString      BindType = "string"
	TypeInt         BindType = "int"
	TypeFloat       BindType = "float"
	TypeBool        BindType = "bool"
	TypeTime        BindType = "time"
)

// Param is one entry of the ordered parameter list produced by a compile
// pass. Table and Column are "" when the parameter is not column-bound
// (raw clauses record neither).
type Param struct {
	Table  string
	Column string
	Value  Value
	Type   BindType
}

// Params is the ordered parameter accumulator threaded through a compile
// pass. Placeholder names embed the 1-based slot position, so a single
// accumulator must serve the entire statement: compiling two trees into
// one statement means passing the same Params to both CompileInto calls.
//
// Params is not safe for concurrent use. Concurrent compiles must each
// use an independent accumulator.
type Params struct {
	records []Param
}

// Add appends a parameter record and returns the placeholder name `:pN`
// where N is the record's 1-based position in the list.
func (p *Params) Add(table, column string, value Value, bindType BindType) string {
	p.records = append(p.records, Param{
		Table:  table,
		Column: column,
		Value:  value,
		Type:   bindType,
	})
	return Placeholder(len(p.records))
}

// Len returns the number of accumulated records.
func (p *Params) Len() int { return len(p.records) }

// Records returns the accumulated parameter records in bind order. The
// returned slice must not be mutated.
func (p *Params) Records() []Param { return p.records }

// NamedArgs adapts the records to sql.Named arguments ("p1", "p2", ...)
// for any prepared-statement layer that binds by placeholder name.
func (p *Params) NamedArgs() []any {
	out := make([]any, len(p.records))
	for i, rec := range p.records {
		out[i] = sql.Named("p"+strconv.Itoa(i+1), Native(rec.Value))
	}
	return out
}

// Placeholder returns the name for the parameter at 1-based position n.
func Placeholder(n int) string {
	return ":p" + strconv.Itoa(n)
}
