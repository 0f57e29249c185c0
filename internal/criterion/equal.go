package criterion

// Equal reports structural equality of two condition trees. It is used by
// callers to detect semantically identical conditions, e.g. as the
// confirmation step of a plan-cache lookup.
//
// Two nodes are equal when their table identity, template, column,
// comparison kind, children (pairwise, with equal conjunctions, compared
// by this same structural recursion) and value all match. The declared
// bind type does not participate: it only annotates the parameter record
// and never changes what the clause means. Equality never compiles
// anything, so comparing nodes has no side effects.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	if n.table != other.table {
		return false
	}
	if n.template != other.template {
		return false
	}
	if n.column != other.column {
		return false
	}
	if n.kind != other.kind {
		return false
	}
	if len(n.children) != len(other.children) {
		return false
	}
	for i := range n.children {
		if n.conjunctions[i] != other.conjunctions[i] {
			return false
		}
		if !n.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return valueEqual(n.value, other.value)
}
