package criterion

import (
	"fmt"
	"strings"
)

// Dialect is the hook consulted during LIKE-family compilation. It is the
// compiler's only external collaborator.
//
// A nil Dialect is valid: no case rewriting is performed.
type Dialect interface {
	// CaseInsensitiveCompare reports whether the storage engine already
	// treats string comparisons on the given column as case-insensitive
	// (e.g. a CI collation). Rewriting is skipped for such columns.
	CaseInsensitiveCompare(table, column string) bool

	// CaseInsensitiveLike returns the dialect's spelling of a distinct
	// case-insensitive LIKE operator (e.g. "ILIKE"), or ok=false when the
	// dialect has none.
	CaseInsensitiveLike() (op string, ok bool)
}

// Compile renders the condition tree into a single SQL fragment using
// `:pN` named placeholders and returns the ordered parameter list. The
// placeholder number always equals the 1-based position of its value in
// the returned list.
func Compile(n *Node, d Dialect) (string, *Params, error) {
	var sb strings.Builder
	params := &Params{}
	if err := CompileInto(n, d, &sb, params); err != nil {
		return "", nil, err
	}
	return sb.String(), params, nil
}

// CompileInto renders the condition tree into an existing buffer and
// parameter accumulator. Callers assembling a larger statement from
// several fragments must thread one accumulator through every call so
// placeholder numbering stays consistent with the final bind order.
func CompileInto(n *Node, d Dialect, sb *strings.Builder, params *Params) error {
	if n == nil {
		return fmt.Errorf("cannot compile nil condition")
	}
	if err := compileClause(n, d, sb, params); err != nil {
		return err
	}
	for i, child := range n.children {
		sb.WriteString(" ")
		sb.WriteString(string(n.conjunctions[i]))
		sb.WriteString(" ")
		if err := CompileInto(child, d, sb, params); err != nil {
			return err
		}
	}
	return nil
}

// compileClause renders the node's own clause, dispatching on Kind.
func compileClause(n *Node, d Dialect, sb *strings.Builder, params *Params) error {
	switch n.kind {
	case KindCustom:
		// Verbatim; any `?` is literal text.
		sb.WriteString(n.template)
		return nil

	case KindIn, KindNotIn:
		return compileList(n, n.template, sb, params)

	case KindLike, KindNotLike, KindILike, KindNotILike:
		return compileBasic(n, rewriteLike(n, d), sb, params)

	case KindClause:
		return compilePlain(n, n.template, sb, params)

	case KindClauseLike:
		return compilePlain(n, rewriteLike(n, d), sb, params)

	case KindClauseSeveral:
		return compileSeveral(n, sb, params)

	case KindClauseArray:
		return compileArray(n, sb, params)

	case KindClauseRaw:
		return compileRaw(n, sb, params)

	default:
		return compileBasic(n, n.template, sb, params)
	}
}

// compileBasic appends exactly one parameter record and substitutes the
// single placeholder marker.
func compileBasic(n *Node, template string, sb *strings.Builder, params *Params) error {
	name := params.Add(n.table, n.column, n.value, TypeUnspecified)
	sb.WriteString(replaceFirst(template, name))
	return nil
}

// compilePlain renders the plain model clause: a non-null value binds one
// parameter; a null value leaves the template untouched, which is how
// IS NULL style templates are expressed without a bound value.
func compilePlain(n *Node, template string, sb *strings.Builder, params *Params) error {
	if isNull(n.value) {
		sb.WriteString(template)
		return nil
	}
	return compileBasic(n, template, sb, params)
}

// compileList renders the generic IN / NOT IN membership: one parameter
// per element, the single `?` replaced by the parenthesized name list.
func compileList(n *Node, template string, sb *strings.Builder, params *Params) error {
	values, _ := asList(n.value)
	names := make([]string, len(values))
	for i, elem := range values {
		names[i] = params.Add(n.table, n.column, elem, TypeUnspecified)
	}
	sb.WriteString(replaceFirst(template, "("+strings.Join(names, ", ")+")"))
	return nil
}

// compileSeveral renders the range shape: each element binds one parameter
// and substitutes the first remaining placeholder marker, left to right.
func compileSeveral(n *Node, sb *strings.Builder, params *Params) error {
	values, isList := asList(n.value)
	if !isList {
		return clauseError(n, ErrCodePlaceholderArity,
			"range clause requires an ordered list value, got %T", n.value)
	}
	out := n.template
	for _, elem := range values {
		if isNull(elem) {
			return clauseError(n, ErrCodeNullInRangeClause,
				"range clause does not support null elements")
		}
		name := params.Add(n.table, n.column, elem, TypeUnspecified)
		out = replaceFirst(out, name)
	}
	sb.WriteString(out)
	return nil
}

// compileArray renders the list shape. An empty list collapses the clause
// to `1=1` under a negated (NOT IN) template and to `1<>1` otherwise:
// an empty IN list matches nothing, an empty NOT IN list matches
// everything, without relying on SQL's own empty-list handling.
func compileArray(n *Node, sb *strings.Builder, params *Params) error {
	values, _ := asList(n.value)
	if len(values) == 0 {
		if containsNotIn(n.template) {
			sb.WriteString("1=1")
		} else {
			sb.WriteString("1<>1")
		}
		return nil
	}
	names := make([]string, len(values))
	for i, elem := range values {
		names[i] = params.Add(n.table, n.column, elem, TypeUnspecified)
	}
	sb.WriteString(replaceFirst(n.template, "("+strings.Join(names, ", ")+")"))
	return nil
}

// compileRaw renders the raw shape: exactly one placeholder marker, one
// parameter carrying the declared bind type and no table/column identity.
func compileRaw(n *Node, sb *strings.Builder, params *Params) error {
	if count := strings.Count(n.template, "?"); count != 1 {
		return clauseError(n, ErrCodeRawClauseArity,
			"raw clause template must contain exactly one placeholder marker, found %d", count)
	}
	name := params.Add("", "", n.value, n.bindType)
	sb.WriteString(replaceFirst(n.template, name))
	return nil
}

// rewriteLike applies dialect case rewriting to the node's template: when
// the column does not already compare case-insensitively in the storage
// engine and the dialect spells a distinct case-insensitive operator, a
// trailing `LIKE ?` is rewritten to that operator. The match is
// case-insensitive, anchored to the end of the template, and requires
// LIKE to stand as its own token, so an already-rewritten `ILIKE ?` is
// left alone and the rewrite is idempotent.
func rewriteLike(n *Node, d Dialect) string {
	if d == nil {
		return n.template
	}
	if d.CaseInsensitiveCompare(n.table, n.column) {
		return n.template
	}
	op, ok := d.CaseInsensitiveLike()
	if !ok {
		return n.template
	}
	return rewriteTrailingLike(n.template, op)
}

// rewriteTrailingLike replaces a trailing `LIKE ?` with `<op> ?`,
// preserving everything before it.
func rewriteTrailingLike(template, op string) string {
	const marker = "LIKE ?"
	if len(template) < len(marker) {
		return template
	}
	idx := len(template) - len(marker)
	if !strings.EqualFold(template[idx:], marker) {
		return template
	}
	// LIKE must be a standalone token: anything glued to it (ILIKE, RLIKE)
	// is a different operator and must not be rewritten again.
	if idx > 0 && template[idx-1] != ' ' {
		return template
	}
	return template[:idx] + op + " ?"
}

// replaceFirst substitutes the first placeholder marker with the given
// text. Templates without a marker are returned unchanged; the reference
// behavior does not validate marker count for most shapes (the Validate
// pass reports such mismatches).
func replaceFirst(template, text string) string {
	idx := strings.Index(template, "?")
	if idx < 0 {
		return template
	}
	return template[:idx] + text + template[idx+1:]
}

// containsNotIn reports whether the template spells a NOT IN style
// negation, deciding the empty-list policy of the array clause.
func containsNotIn(template string) bool {
	return strings.Contains(strings.ToUpper(template), "NOT IN")
}
