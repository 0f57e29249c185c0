package criterion

import (
	"errors"
	"fmt"
)

// ClauseErrorCode categorizes compile-time clause failures.
type ClauseErrorCode string

const (
	// ErrCodeNullInRangeClause indicates a range (several) shaped clause
	// with a null element. The shape has no portable null-aware rendering.
	ErrCodeNullInRangeClause ClauseErrorCode = "NULL_IN_RANGE_CLAUSE"

	// ErrCodeRawClauseArity indicates a raw clause whose template does not
	// contain exactly one placeholder marker.
	ErrCodeRawClauseArity ClauseErrorCode = "RAW_CLAUSE_ARITY_MISMATCH"

	// ErrCodePlaceholderArity indicates a template whose placeholder count
	// does not match the number of values to bind. The compiler itself
	// raises it only where the clause cannot be rendered at all; the
	// Validate pass reports it uniformly for every shape.
	ErrCodePlaceholderArity ClauseErrorCode = "PLACEHOLDER_ARITY_MISMATCH"
)

// ClauseError is a structured compile-time failure. It carries enough
// clause identity (table, column, kind) for the caller to point the end
// user at the malformed filter; the compiler itself neither logs nor
// retries.
type ClauseError struct {
	Code    ClauseErrorCode
	Message string
	Table   string
	Column  string
	Kind    Kind
}

// Error implements the error interface.
func (e *ClauseError) Error() string {
	switch {
	case e.Table != "" && e.Column != "":
		return fmt.Sprintf("%s: %s (clause=%s, column=%s.%s)", e.Code, e.Message, e.Kind, e.Table, e.Column)
	case e.Column != "":
		return fmt.Sprintf("%s: %s (clause=%s, column=%s)", e.Code, e.Message, e.Kind, e.Column)
	default:
		return fmt.Sprintf("%s: %s (clause=%s)", e.Code, e.Message, e.Kind)
	}
}

// IsNullInRange reports whether err is a null-in-range-clause failure.
// Uses errors.As to handle wrapped errors.
func IsNullInRange(err error) bool {
	var ce *ClauseError
	return errors.As(err, &ce) && ce.Code == ErrCodeNullInRangeClause
}

// IsRawArityMismatch reports whether err is a raw clause arity failure.
func IsRawArityMismatch(err error) bool {
	var ce *ClauseError
	return errors.As(err, &ce) && ce.Code == ErrCodeRawClauseArity
}

// IsPlaceholderArityMismatch reports whether err is a placeholder arity
// failure.
func IsPlaceholderArityMismatch(err error) bool {
	var ce *ClauseError
	return errors.As(err, &ce) && ce.Code == ErrCodePlaceholderArity
}

// clauseError builds a ClauseError carrying the node's identity.
func clauseError(n *Node, code ClauseErrorCode, format string, args ...any) *ClauseError {
	return &ClauseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Table:   n.table,
		Column:  n.column,
		Kind:    n.kind,
	}
}
