package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/karstdb/criteria/internal/criterion"
)

// conditionDoc is the YAML document shape accepted by compile/validate.
//
// Example:
//
//	condition:
//	  kind: CLAUSE
//	  column: book.TITLE
//	  template: "book.TITLE = ?"
//	  value: Emma
//	  children:
//	    - op: AND
//	      kind: CLAUSE_SEVERAL
//	      column: book.ID
//	      template: "book.ID BETWEEN ? AND ?"
//	      value: [1, 10]
type conditionDoc struct {
	Condition *clauseDoc `yaml:"condition"`
}

// clauseDoc describes one clause node. Op names the conjunction joining
// the clause to the text rendered before it and is meaningful only on
// children (it defaults to AND).
type clauseDoc struct {
	Kind     string       `yaml:"kind,omitempty"`
	Column   string       `yaml:"column,omitempty"`
	Template string       `yaml:"template"`
	Value    any          `yaml:"value,omitempty"`
	BindType string       `yaml:"bind_type,omitempty"`
	Op       string       `yaml:"op,omitempty"`
	Children []*clauseDoc `yaml:"children,omitempty"`
}

// LoadCondition reads and builds the condition tree from a YAML document.
func LoadCondition(path string) (*criterion.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading condition document: %w", err)
	}

	var doc conditionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing condition document: %w", err)
	}
	if doc.Condition == nil {
		return nil, fmt.Errorf("condition document %s has no condition", path)
	}

	return buildClause(doc.Condition, "condition")
}

// buildClause converts one document clause (and its children) to a Node.
// The path string locates errors within the document for diagnostics.
func buildClause(doc *clauseDoc, path string) (*criterion.Node, error) {
	kind := criterion.KindBasic
	if doc.Kind != "" {
		resolved, ok := criterion.KindFromString(doc.Kind)
		if !ok {
			return nil, fmt.Errorf("%s: unknown kind %q", path, doc.Kind)
		}
		kind = resolved
	}

	value, err := criterion.FromNative(doc.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var node *criterion.Node
	switch kind {
	case criterion.KindCustom:
		node = criterion.NewCustom(doc.Template)
	case criterion.KindClauseRaw:
		node = criterion.NewRaw(doc.Template, value, criterion.BindType(doc.BindType))
	default:
		node = criterion.New(kind, doc.Column, doc.Template, value)
	}

	for i, child := range doc.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		conj, err := parseConjunction(child.Op, childPath)
		if err != nil {
			return nil, err
		}
		built, err := buildClause(child, childPath)
		if err != nil {
			return nil, err
		}
		node.Add(conj, built)
	}

	return node, nil
}

func parseConjunction(op, path string) (criterion.Conjunction, error) {
	switch op {
	case "", "AND":
		return criterion.And, nil
	case "OR":
		return criterion.Or, nil
	default:
		return "", fmt.Errorf("%s: unknown conjunction %q (must be AND or OR)", path, op)
	}
}
