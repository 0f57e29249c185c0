// Package criterion provides the condition-tree model and clause compiler
// that sit at the core of the criteria query builder.
//
// A Node is one leaf clause: a SQL template containing `?` placeholder
// markers, a comparison Kind selecting how the clause is rendered, an
// optional table/column identity, and a bindable Value. Nodes nest: each
// child is joined to the text rendered before it by a recorded Conjunction
// (AND/OR), so a whole filter compiles to a single WHERE fragment.
//
// Compilation rewrites each `?` marker to a named placeholder `:pN`, where
// N is the 1-based position of the bound value in the shared Params
// accumulator. The accumulator is threaded through the entire depth-first
// descent, so placeholder numbering stays globally consistent across
// sibling and ancestor clauses compiled in the same pass. Concurrent
// compiles must each use their own accumulator.
//
// ARCHITECTURE:
//
//	[query builder] → [Node tree] → Compile → SQL text + Params
//	                              → Equal/Hash → plan deduplication
//
// The Dialect interface is the only external collaborator consulted during
// compilation, and only for the LIKE-family clauses: it reports whether a
// column already compares case-insensitively in the storage engine and
// whether the target dialect spells a distinct case-insensitive LIKE
// operator. Stock implementations live in internal/dialect.
//
// Key design constraints:
//   - Nodes are immutable after construction; compilation never mutates
//     them (the LIKE rewrite is a pure function of template and dialect).
//   - Equality is structural and recursive; hashing is structural too and
//     never compiles anything. Equal nodes always hash equal.
//   - All compile-time failures are structured ClauseError values raised
//     at node-visit time; no partial SQL text is usable after an error.
package criterion
