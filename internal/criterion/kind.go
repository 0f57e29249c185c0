package criterion

// Kind selects the compilation behavior of a clause. The vocabulary is
// closed: the compiler dispatches through a single exhaustive switch, and
// unknown kinds fall back to the basic single-value rendering.
type Kind int

const (
	// KindBasic is the fallback shape for ordinary binary comparisons
	// (=, >=, <>, ...): one parameter, one placeholder marker.
	KindBasic Kind = iota

	// KindCustom is a free-form expression appended verbatim. No parameter
	// is added; any `?` in the template is left as literal text, since
	// custom expressions manage their own binding.
	KindCustom

	// KindIn and KindNotIn are generic list memberships: one parameter per
	// element, a single `?` replaced by the parenthesized placeholder list.
	KindIn
	KindNotIn

	// The generic LIKE family: rendered like KindBasic after the trailing
	// LIKE operator has been through dialect case rewriting.
	KindLike
	KindNotLike
	KindILike
	KindNotILike

	// KindClause is the plain model clause, tied to a known table/column
	// pair. A non-null value binds one parameter; a null value leaves the
	// template untouched, which is how IS NULL style templates are written.
	KindClause

	// KindClauseLike is a model clause whose trailing `LIKE ?` is subject
	// to dialect case rewriting before the plain-clause rendering.
	KindClauseLike

	// KindClauseSeveral is the range shape: an ordered list value with no
	// null elements, one placeholder marker substituted per element in
	// left-to-right order (e.g. BETWEEN ? AND ?).
	KindClauseSeveral

	// KindClauseArray is the list shape: possibly empty. Empty lists
	// collapse the whole clause to a tautology or contradiction instead of
	// relying on SQL's non-portable empty IN () handling.
	KindClauseArray

	// KindClauseRaw binds exactly one parameter carrying the declared bind
	// type and no table/column identity.
	KindClauseRaw
)

var kindNames = map[Kind]string{
	KindBasic:         "BASIC",
	KindCustom:        "CUSTOM",
	KindIn:            "IN",
	KindNotIn:         "NOT_IN",
	KindLike:          "LIKE",
	KindNotLike:       "NOT_LIKE",
	KindILike:         "ILIKE",
	KindNotILike:      "NOT_ILIKE",
	KindClause:        "CLAUSE",
	KindClauseLike:    "CLAUSE_LIKE",
	KindClauseSeveral: "CLAUSE_SEVERAL",
	KindClauseArray:   "CLAUSE_ARRAY",
	KindClauseRaw:     "CLAUSE_RAW",
}

// String returns the stable label for the kind. Labels participate in
// structural hashing, so they must never be reused for a different shape.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "BASIC"
}

// KindFromString resolves a kind label (as used in condition documents).
// Returns KindBasic, false for unknown labels.
func KindFromString(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindBasic, false
}
