package criterion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDialect is a configurable Dialect for compile tests.
type stubDialect struct {
	ciColumns map[string]bool // "table.column" -> case-insensitive in storage
	likeOp    string          // "" means no distinct case-insensitive operator
}

func (d *stubDialect) CaseInsensitiveCompare(table, column string) bool {
	return d.ciColumns[table+"."+column]
}

func (d *stubDialect) CaseInsensitiveLike() (string, bool) {
	return d.likeOp, d.likeOp != ""
}

func TestCompile_BasicClause(t *testing.T) {
	n := New(KindBasic, "book.TITLE", "book.TITLE = ?", String("Emma"))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.TITLE = :p1", sql)
	require.Equal(t, 1, params.Len())

	rec := params.Records()[0]
	assert.Equal(t, "book", rec.Table)
	assert.Equal(t, "TITLE", rec.Column)
	assert.Equal(t, String("Emma"), rec.Value)
	assert.Equal(t, TypeUnspecified, rec.Type)

	// The bound value never appears in the rendered text.
	assert.NotContains(t, sql, "Emma")
}

func TestCompile_NilNode(t *testing.T) {
	_, _, err := Compile(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil condition")
}

func TestCompile_UnqualifiedColumn(t *testing.T) {
	n := New(KindBasic, "status", "status = ?", String("open"))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "status = :p1", sql)
	rec := params.Records()[0]
	assert.Equal(t, "", rec.Table)
	assert.Equal(t, "status", rec.Column)
}

func TestCompile_CustomClauseIsVerbatim(t *testing.T) {
	// Custom expressions bind nothing; a `?` stays literal text.
	n := NewCustom("book.PRICE > (SELECT AVG(PRICE) FROM book WHERE GENRE = ?)")

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.PRICE > (SELECT AVG(PRICE) FROM book WHERE GENRE = ?)", sql)
	assert.Equal(t, 0, params.Len())
}

func TestCompile_PlainClauseNullValue(t *testing.T) {
	// A null value leaves the template untouched: IS NULL style clauses.
	n := New(KindClause, "book.DELETED_AT", "book.DELETED_AT IS NULL", nil)

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.DELETED_AT IS NULL", sql)
	assert.Equal(t, 0, params.Len())

	// Explicit Null behaves identically to a nil value.
	n2 := New(KindClause, "book.DELETED_AT", "book.DELETED_AT IS NULL", Null{})
	sql2, params2, err := Compile(n2, nil)
	require.NoError(t, err)
	assert.Equal(t, sql, sql2)
	assert.Equal(t, 0, params2.Len())
}

func TestCompile_PlainClauseBoundValue(t *testing.T) {
	n := New(KindClause, "book.TITLE", "book.TITLE = ?", String("Emma"))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.TITLE = :p1", sql)
	assert.Equal(t, 1, params.Len())
}

func TestCompile_InMembership(t *testing.T) {
	n := New(KindIn, "book.GENRE", "book.GENRE IN ?", Strings("gothic", "satire"))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.GENRE IN (:p1, :p2)", sql)
	require.Equal(t, 2, params.Len())
	assert.Equal(t, String("gothic"), params.Records()[0].Value)
	assert.Equal(t, String("satire"), params.Records()[1].Value)
}

func TestCompile_InMembershipScalarValue(t *testing.T) {
	// A scalar value is treated as a one-element list.
	n := New(KindIn, "book.GENRE", "book.GENRE IN ?", String("gothic"))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.GENRE IN (:p1)", sql)
	assert.Equal(t, 1, params.Len())
}

func TestCompile_RangeClause(t *testing.T) {
	n := New(KindClauseSeveral, "book.ID", "book.ID BETWEEN ? AND ?", Ints(1, 10))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.ID BETWEEN :p1 AND :p2", sql)
	require.Equal(t, 2, params.Len())
	assert.Equal(t, Int(1), params.Records()[0].Value)
	assert.Equal(t, Int(10), params.Records()[1].Value)
}

func TestCompile_RangeClauseRejectsNullElement(t *testing.T) {
	n := New(KindClauseSeveral, "book.ID", "book.ID BETWEEN ? AND ?",
		Values(Int(1), Null{}))

	_, _, err := Compile(n, nil)
	require.Error(t, err)
	assert.True(t, IsNullInRange(err))

	var ce *ClauseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeNullInRangeClause, ce.Code)
	assert.Equal(t, "book", ce.Table)
	assert.Equal(t, "ID", ce.Column)
	assert.Equal(t, KindClauseSeveral, ce.Kind)
}

func TestCompile_RangeClauseRejectsScalarValue(t *testing.T) {
	n := New(KindClauseSeveral, "book.ID", "book.ID BETWEEN ? AND ?", Int(1))

	_, _, err := Compile(n, nil)
	require.Error(t, err)
	assert.True(t, IsPlaceholderArityMismatch(err))
}

func TestCompile_ArrayClause(t *testing.T) {
	n := New(KindClauseArray, "book.GENRE", "book.GENRE IN ?",
		Strings("gothic", "satire", "epistolary"))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.GENRE IN (:p1, :p2, :p3)", sql)
	assert.Equal(t, 3, params.Len())
}

func TestCompile_ArrayClauseEmptyListPolicy(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		want     string
	}{
		{name: "empty IN matches nothing", template: "book.GENRE IN ?", want: "1<>1"},
		{name: "empty NOT IN matches everything", template: "book.GENRE NOT IN ?", want: "1=1"},
		{name: "negation detected case-insensitively", template: "book.GENRE not in ?", want: "1=1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := New(KindClauseArray, "book.GENRE", tc.template, List{})

			sql, params, err := Compile(n, nil)
			require.NoError(t, err)

			assert.Equal(t, tc.want, sql)
			assert.Equal(t, 0, params.Len())
		})
	}
}

func TestCompile_RawClause(t *testing.T) {
	n := NewRaw("EXTRACT(YEAR FROM published_at) = ?", Int(1847), TypeInt)

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "EXTRACT(YEAR FROM published_at) = :p1", sql)
	require.Equal(t, 1, params.Len())

	// Raw parameters carry the declared type but no column identity.
	rec := params.Records()[0]
	assert.Equal(t, "", rec.Table)
	assert.Equal(t, "", rec.Column)
	assert.Equal(t, Int(1847), rec.Value)
	assert.Equal(t, TypeInt, rec.Type)
}

func TestCompile_RawClauseArity(t *testing.T) {
	testCases := []struct {
		name     string
		template string
	}{
		{name: "zero markers", template: "published_at IS NOT NULL"},
		{name: "two markers", template: "published_at BETWEEN ? AND ?"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := NewRaw(tc.template, Int(1), TypeInt)

			_, _, err := Compile(n, nil)
			require.Error(t, err)
			assert.True(t, IsRawArityMismatch(err))
		})
	}
}

func TestCompile_TreePlaceholderNumbering(t *testing.T) {
	// Placeholder numbers count across the whole tree, in render order.
	root := New(KindClause, "book.TITLE", "book.TITLE = ?", String("Emma"))
	root.Add(And, New(KindClauseSeveral, "book.ID", "book.ID BETWEEN ? AND ?", Ints(1, 10)))
	root.Add(Or, New(KindClauseArray, "book.GENRE", "book.GENRE IN ?", Strings("satire")))

	sql, params, err := Compile(root, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"book.TITLE = :p1 AND book.ID BETWEEN :p2 AND :p3 OR book.GENRE IN (:p4)",
		sql)
	require.Equal(t, 4, params.Len())

	// Each placeholder's number equals its record's 1-based position.
	for i := range params.Records() {
		assert.Contains(t, sql, Placeholder(i+1))
	}
	assert.Equal(t, String("Emma"), params.Records()[0].Value)
	assert.Equal(t, Int(1), params.Records()[1].Value)
	assert.Equal(t, Int(10), params.Records()[2].Value)
	assert.Equal(t, String("satire"), params.Records()[3].Value)
}

func TestCompile_NestedChildren(t *testing.T) {
	// Grandchildren render depth-first after their parent's own clause.
	child := New(KindBasic, "book.GENRE", "book.GENRE = ?", String("satire"))
	child.Add(Or, New(KindBasic, "book.GENRE", "book.GENRE = ?", String("gothic")))

	root := New(KindBasic, "book.AUTHOR", "book.AUTHOR = ?", String("Austen"))
	root.Add(And, child)

	sql, params, err := Compile(root, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"book.AUTHOR = :p1 AND book.GENRE = :p2 OR book.GENRE = :p3",
		sql)
	assert.Equal(t, 3, params.Len())
}

func TestCompile_ChildErrorPropagates(t *testing.T) {
	root := New(KindBasic, "book.TITLE", "book.TITLE = ?", String("Emma"))
	root.Add(And, NewRaw("no markers here", Int(1), TypeInt))

	_, _, err := Compile(root, nil)
	require.Error(t, err)
	assert.True(t, IsRawArityMismatch(err))
}

func TestCompileInto_SharedAccumulator(t *testing.T) {
	// Two fragments compiled into one statement share the numbering.
	first := New(KindBasic, "book.TITLE", "book.TITLE = ?", String("Emma"))
	second := New(KindBasic, "book.AUTHOR", "book.AUTHOR = ?", String("Austen"))

	var sb strings.Builder
	params := &Params{}

	require.NoError(t, CompileInto(first, nil, &sb, params))
	sb.WriteString(" AND ")
	require.NoError(t, CompileInto(second, nil, &sb, params))

	assert.Equal(t, "book.TITLE = :p1 AND book.AUTHOR = :p2", sb.String())
	assert.Equal(t, 2, params.Len())
}

func TestCompile_LikeRewrite(t *testing.T) {
	d := &stubDialect{likeOp: "ILIKE"}

	testCases := []struct {
		name     string
		kind     Kind
		template string
		want     string
	}{
		{
			name:     "trailing LIKE rewritten",
			kind:     KindLike,
			template: "book.TITLE LIKE ?",
			want:     "book.TITLE ILIKE :p1",
		},
		{
			name:     "lowercase like rewritten",
			kind:     KindLike,
			template: "book.TITLE like ?",
			want:     "book.TITLE ILIKE :p1",
		},
		{
			name:     "model clause LIKE rewritten",
			kind:     KindClauseLike,
			template: "book.TITLE LIKE ?",
			want:     "book.TITLE ILIKE :p1",
		},
		{
			name:     "ILIKE not rewritten again",
			kind:     KindILike,
			template: "book.TITLE ILIKE ?",
			want:     "book.TITLE ILIKE :p1",
		},
		{
			name:     "non-trailing LIKE untouched",
			kind:     KindLike,
			template: "book.TITLE LIKE ? ESCAPE '\\'",
			want:     "book.TITLE LIKE :p1 ESCAPE '\\'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := New(tc.kind, "book.TITLE", tc.template, String("%emma%"))

			sql, params, err := Compile(n, d)
			require.NoError(t, err)

			assert.Equal(t, tc.want, sql)
			assert.Equal(t, 1, params.Len())
		})
	}
}

func TestCompile_LikeRewriteSkippedForCICollation(t *testing.T) {
	// A column the storage engine already compares case-insensitively
	// keeps its plain LIKE.
	d := &stubDialect{
		likeOp:    "ILIKE",
		ciColumns: map[string]bool{"book.TITLE": true},
	}

	n := New(KindLike, "book.TITLE", "book.TITLE LIKE ?", String("%emma%"))

	sql, _, err := Compile(n, d)
	require.NoError(t, err)
	assert.Equal(t, "book.TITLE LIKE :p1", sql)
}

func TestCompile_LikeRewriteSkippedWithoutOperator(t *testing.T) {
	// A dialect without a distinct case-insensitive operator never rewrites.
	d := &stubDialect{}

	n := New(KindLike, "book.TITLE", "book.TITLE LIKE ?", String("%emma%"))

	sql, _, err := Compile(n, d)
	require.NoError(t, err)
	assert.Equal(t, "book.TITLE LIKE :p1", sql)
}

func TestRewriteTrailingLike_Idempotent(t *testing.T) {
	once := rewriteTrailingLike("book.TITLE LIKE ?", "ILIKE")
	assert.Equal(t, "book.TITLE ILIKE ?", once)

	twice := rewriteTrailingLike(once, "ILIKE")
	assert.Equal(t, once, twice)
}

func TestRewriteTrailingLike_TokenBoundary(t *testing.T) {
	// Operators that merely end in LIKE are different operators.
	assert.Equal(t, "col RLIKE ?", rewriteTrailingLike("col RLIKE ?", "ILIKE"))
	assert.Equal(t, "col ILIKE ?", rewriteTrailingLike("col ILIKE ?", "ILIKE"))

	// A template that is exactly the marker still rewrites.
	assert.Equal(t, "ILIKE ?", rewriteTrailingLike("LIKE ?", "ILIKE"))
}

func TestCompile_DoesNotMutateNode(t *testing.T) {
	d := &stubDialect{likeOp: "ILIKE"}
	n := New(KindLike, "book.TITLE", "book.TITLE LIKE ?", String("%emma%"))

	first, _, err := Compile(n, d)
	require.NoError(t, err)
	assert.Equal(t, "book.TITLE LIKE ?", n.Template())

	// Recompiling yields identical output: numbering restarts with the
	// fresh accumulator and the stored template is unchanged.
	second, _, err := Compile(n, d)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompile_BasicMissingMarkerLeavesTemplate(t *testing.T) {
	// Most shapes stay permissive: a missing marker renders the template
	// unchanged, and the parameter is still recorded. Validate reports it.
	n := New(KindBasic, "book.TITLE", "book.TITLE = 'fixed'", String("Emma"))

	sql, params, err := Compile(n, nil)
	require.NoError(t, err)

	assert.Equal(t, "book.TITLE = 'fixed'", sql)
	assert.Equal(t, 1, params.Len())
}
