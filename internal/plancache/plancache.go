// Package plancache deduplicates compiled condition fragments.
//
// Conditions built independently by different call sites frequently render
// to the same statement. The cache keys entries by the condition tree's
// structural hash and confirms hits with structural equality, so hash
// collisions can never serve the wrong plan. Cached plans carry the
// compiled SQL text and a copy of the parameter records in bind order.
package plancache

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/karstdb/criteria/internal/criterion"
)

// Plan is one cached compilation result.
type Plan struct {
	// ID is a time-sortable UUIDv7 assigned when the plan was first
	// stored, for log correlation across statement executions.
	ID string

	// SQL is the compiled fragment with :pN named placeholders.
	SQL string

	// Params are the parameter records in bind order.
	Params []criterion.Param
}

// entry pairs a plan with the condition it was compiled from, so lookups
// can confirm hash matches structurally.
type entry struct {
	node *criterion.Node
	plan Plan
}

// Cache is a hash-keyed plan cache. Safe for concurrent lookups and
// stores; the underlying compile of any single condition node must still
// be serialized by the caller, per the compiler's concurrency contract.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64][]entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[uint64][]entry)}
}

// Lookup returns the cached plan for a condition structurally equal to n.
func (c *Cache) Lookup(n *criterion.Node) (Plan, bool) {
	if n == nil {
		return Plan{}, false
	}
	key := n.Hash()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries[key] {
		if e.node.Equal(n) {
			return e.plan, true
		}
	}
	return Plan{}, false
}

// Compile returns the cached plan for n, compiling and storing it on a
// miss. The dialect must be the same for every condition a cache serves;
// fragments compiled for different dialects are not interchangeable, so
// callers keep one cache per target dialect.
func (c *Cache) Compile(n *criterion.Node, d criterion.Dialect) (Plan, error) {
	if plan, ok := c.Lookup(n); ok {
		return plan, nil
	}

	sql, params, err := criterion.Compile(n, d)
	if err != nil {
		return Plan{}, err
	}

	records := params.Records()
	plan := Plan{
		ID:     uuid.Must(uuid.NewV7()).String(),
		SQL:    sql,
		Params: append([]criterion.Param(nil), records...),
	}

	key := n.Hash()
	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent compile of an equal condition may have stored first;
	// keep the existing entry so plan IDs stay stable.
	for _, e := range c.entries[key] {
		if e.node.Equal(n) {
			return e.plan, nil
		}
	}
	c.entries[key] = append(c.entries[key], entry{node: n, plan: plan})
	return plan, nil
}

// Len returns the number of cached plans.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, bucket := range c.entries {
		total += len(bucket)
	}
	return total
}

// Placeholders returns the placeholder names a plan binds, in order.
// Convenience for callers asserting the positional contract.
func (p Plan) Placeholders() []string {
	names := make([]string, len(p.Params))
	for i := range p.Params {
		names[i] = criterion.Placeholder(i + 1)
	}
	return names
}

// String renders the plan for verbose logs.
func (p Plan) String() string {
	var sb strings.Builder
	sb.WriteString(p.SQL)
	sb.WriteString(" [")
	sb.WriteString(strings.Join(p.Placeholders(), ", "))
	sb.WriteString("]")
	return sb.String()
}
