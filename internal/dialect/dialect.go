// Package dialect provides stock implementations of the criterion.Dialect
// hook for the storage engines the query builder targets.
//
// A dialect answers two questions, both consulted only during LIKE-family
// compilation: does the engine already compare this column's strings
// case-insensitively, and does the engine spell a distinct case-insensitive
// LIKE operator. Per-column collation overrides come from an optional
// CaseSource, which the schema package's column map satisfies.
package dialect

import (
	"fmt"

	"github.com/karstdb/criteria/internal/criterion"
)

// CaseSource reports per-column collation knowledge. A nil source means no
// per-column overrides: the engine default applies everywhere.
type CaseSource interface {
	// CaseInsensitive reports whether the column is declared with a
	// case-insensitive collation. Unknown columns report false.
	CaseInsensitive(table, column string) bool
}

// Postgres targets PostgreSQL: string comparisons are case-sensitive
// unless the column map says otherwise, and ILIKE is the distinct
// case-insensitive operator.
type Postgres struct {
	Columns CaseSource
}

// Name returns the dialect identifier used in condition documents.
func (Postgres) Name() string { return "postgres" }

// CaseInsensitiveCompare implements criterion.Dialect.
func (d Postgres) CaseInsensitiveCompare(table, column string) bool {
	return d.Columns != nil && d.Columns.CaseInsensitive(table, column)
}

// CaseInsensitiveLike implements criterion.Dialect.
func (Postgres) CaseInsensitiveLike() (string, bool) { return "ILIKE", true }

// MySQL targets MySQL/MariaDB: the default collations already compare
// case-insensitively and there is no distinct case-insensitive operator,
// so LIKE templates are never rewritten.
type MySQL struct{}

// Name returns the dialect identifier used in condition documents.
func (MySQL) Name() string { return "mysql" }

// CaseInsensitiveCompare implements criterion.Dialect.
func (MySQL) CaseInsensitiveCompare(table, column string) bool { return true }

// CaseInsensitiveLike implements criterion.Dialect.
func (MySQL) CaseInsensitiveLike() (string, bool) { return "", false }

// SQLite targets SQLite: LIKE is case-insensitive for ASCII by default and
// there is no distinct case-insensitive operator.
type SQLite struct{}

// Name returns the dialect identifier used in condition documents.
func (SQLite) Name() string { return "sqlite" }

// CaseInsensitiveCompare implements criterion.Dialect.
func (SQLite) CaseInsensitiveCompare(table, column string) bool { return true }

// CaseInsensitiveLike implements criterion.Dialect.
func (SQLite) CaseInsensitiveLike() (string, bool) { return "", false }

// Names lists the dialect identifiers FromName accepts.
var Names = []string{"sqlite", "mysql", "postgres"}

// FromName resolves a dialect identifier to its implementation. The
// CaseSource applies only to dialects with per-column collation behavior.
func FromName(name string, columns CaseSource) (criterion.Dialect, error) {
	switch name {
	case "sqlite":
		return SQLite{}, nil
	case "mysql":
		return MySQL{}, nil
	case "postgres":
		return Postgres{Columns: columns}, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q: must be one of %v", name, Names)
	}
}
