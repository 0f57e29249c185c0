package criterion

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

// Hash returns a structural hash of the condition tree, suitable for
// keying deduplication caches. Nodes for which Equal reports true always
// hash equal; the converse is not guaranteed.
//
// The hash combines the node's own immutable fields (value, kind,
// template, and table/column when present) with the recursively computed
// hashes of its children, each mixed with its conjunction and rotated by
// its position so that reordered children hash differently. Strings are
// NFC-normalized before hashing, so equal text in different Unicode
// normal forms keys the same slot. Hashing never compiles anything and
// never mutates the node.
func (n *Node) Hash() uint64 {
	if n == nil {
		return 0
	}
	h := hashString(encodeValue(n.value))
	h ^= hashString(n.kind.String())
	h ^= hashString(n.template)
	if n.table != "" {
		h ^= hashString(n.table)
	}
	if n.column != "" {
		h ^= hashString(n.column)
	}
	for i, child := range n.children {
		mixed := child.Hash() ^ hashString(string(n.conjunctions[i]))
		h ^= bits.RotateLeft64(mixed, (i+1)%63)
	}
	return h
}

func hashString(s string) uint64 {
	return xxhash.Sum64String(norm.NFC.String(s))
}
