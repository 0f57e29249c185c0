package criterion

import (
	"fmt"
	"strings"
)

// Finding is one validation issue found during a pre-flight pass.
type Finding struct {
	Code    ClauseErrorCode
	Table   string
	Column  string
	Kind    Kind
	Message string
}

// String renders the finding for diagnostics.
func (f Finding) String() string {
	if f.Column != "" {
		col := f.Column
		if f.Table != "" {
			col = f.Table + "." + f.Column
		}
		return fmt.Sprintf("%s: %s (clause=%s, column=%s)", f.Code, f.Message, f.Kind, col)
	}
	return fmt.Sprintf("%s: %s (clause=%s)", f.Code, f.Message, f.Kind)
}

// ValidationResult contains the arity analysis of a condition tree.
type ValidationResult struct {
	// OK is true when no findings were produced: every clause's
	// placeholder count matches the arity its kind and value imply.
	OK bool

	// Findings lists clauses whose templates would not bind cleanly.
	// Empty when OK is true.
	Findings []Finding
}

// Validate checks every clause in the tree for placeholder/value arity
// agreement. The compiler itself stays permissive for most shapes (only
// raw arity and range nulls abort a compile), matching the reference
// behavior; callers that want uniform arity enforcement run this pass
// first and reject conditions with findings.
//
// Validate is a pure function: it never compiles, binds, or mutates.
func Validate(n *Node) ValidationResult {
	v := &validator{}
	v.walk(n)
	return ValidationResult{
		OK:       len(v.findings) == 0,
		Findings: v.findings,
	}
}

// validator accumulates findings during traversal.
type validator struct {
	findings []Finding
}

func (v *validator) add(n *Node, code ClauseErrorCode, format string, args ...any) {
	v.findings = append(v.findings, Finding{
		Code:    code,
		Table:   n.table,
		Column:  n.column,
		Kind:    n.kind,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) walk(n *Node) {
	if n == nil {
		return
	}
	v.checkClause(n)
	for _, child := range n.children {
		v.walk(child)
	}
}

func (v *validator) checkClause(n *Node) {
	markers := strings.Count(n.template, "?")

	switch n.kind {
	case KindCustom:
		// Custom expressions manage their own binding; markers are literal.

	case KindIn, KindNotIn:
		if markers != 1 {
			v.add(n, ErrCodePlaceholderArity,
				"membership template must contain exactly one marker, found %d", markers)
		}
		if values, _ := asList(n.value); len(values) == 0 {
			v.add(n, ErrCodePlaceholderArity,
				"membership clause has no values to bind")
		}

	case KindClause, KindClauseLike:
		if isNull(n.value) {
			if markers != 0 {
				v.add(n, ErrCodePlaceholderArity,
					"clause binds no value but its template contains %d marker(s)", markers)
			}
		} else if markers != 1 {
			v.add(n, ErrCodePlaceholderArity,
				"clause binds one value but its template contains %d marker(s)", markers)
		}

	case KindClauseSeveral:
		values, isList := asList(n.value)
		if !isList {
			v.add(n, ErrCodePlaceholderArity,
				"range clause requires an ordered list value")
			return
		}
		for i, elem := range values {
			if isNull(elem) {
				v.add(n, ErrCodeNullInRangeClause,
					"range clause element %d is null", i)
			}
		}
		if markers != len(values) {
			v.add(n, ErrCodePlaceholderArity,
				"range clause binds %d value(s) but its template contains %d marker(s)",
				len(values), markers)
		}

	case KindClauseArray:
		if values, _ := asList(n.value); len(values) > 0 && markers != 1 {
			v.add(n, ErrCodePlaceholderArity,
				"array clause template must contain exactly one marker, found %d", markers)
		}

	case KindClauseRaw:
		if markers != 1 {
			v.add(n, ErrCodeRawClauseArity,
				"raw clause template must contain exactly one marker, found %d", markers)
		}

	default:
		// Basic and the generic LIKE family bind exactly one value.
		if markers != 1 {
			v.add(n, ErrCodePlaceholderArity,
				"clause binds one value but its template contains %d marker(s)", markers)
		}
	}

	if list, ok := n.value.(List); ok {
		for i, elem := range list {
			if _, nested := elem.(List); nested {
				v.add(n, ErrCodePlaceholderArity,
					"list element %d is itself a list; nested lists are not bindable", i)
			}
		}
	}
}
