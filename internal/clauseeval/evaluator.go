package clauseeval

import (
	"fmt"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/patternops"
	"github.com/patternforge/patternforge/internal/textcontainer"
)

// Result is what Evaluate returns for one rule application.
type Result struct {
	Matched  bool
	Captures []patternops.Capture
}

// Evaluate parses cr's expression and walks it against tc, dispatching
// each label to its clause's operator. AND operands are evaluated
// left-to-right and short-circuit on the first false operand; the
// left-hand accumulator ("prior captures") threaded into each subsequent
// AND operand is the union of every earlier operand's captures in the
// chain, which is what lets a Within clause relate its sub-match to the
// rule's own pattern hits.
func Evaluate(tc *textcontainer.Container, clauses []*compiler.Clause, expression string) (Result, error) {
	if expression == "" || len(clauses) == 0 {
		return Result{}, nil
	}

	byLabel := make(map[string]*compiler.Clause, len(clauses))
	for _, c := range clauses {
		byLabel[c.Label] = c
	}

	n, err := parseExpression(expression)
	if err != nil {
		return Result{}, err
	}

	matched, caps, err := evalNode(tc, byLabel, n, nil)
	if err != nil {
		return Result{}, err
	}
	return Result{Matched: matched, Captures: patternops.DedupCaptures(caps)}, nil
}

func evalNode(tc *textcontainer.Container, byLabel map[string]*compiler.Clause, n *node, running []patternops.Capture) (bool, []patternops.Capture, error) {
	switch n.op {
	case "AND":
		var all []patternops.Capture
		acc := running
		for _, child := range n.children {
			matched, caps, err := evalNode(tc, byLabel, child, acc)
			if err != nil {
				return false, nil, err
			}
			if !matched {
				return false, nil, nil
			}
			acc = append(acc, caps...)
			all = append(all, caps...)
		}
		return true, all, nil
	case "OR":
		var any bool
		var all []patternops.Capture
		for _, child := range n.children {
			matched, caps, err := evalNode(tc, byLabel, child, running)
			if err != nil {
				return false, nil, err
			}
			if matched {
				any = true
			}
			all = append(all, caps...)
		}
		return any, all, nil
	default:
		return evalLeaf(tc, byLabel, n.label, running)
	}
}

func evalLeaf(tc *textcontainer.Container, byLabel map[string]*compiler.Clause, label string, running []patternops.Capture) (bool, []patternops.Capture, error) {
	clause, ok := byLabel[label]
	if !ok {
		return false, nil, fmt.Errorf("clauseeval: unknown clause label %q", label)
	}
	return evalClause(tc, clause, running)
}

func evalClause(tc *textcontainer.Container, clause *compiler.Clause, running []patternops.Capture) (bool, []patternops.Capture, error) {
	switch clause.Kind {
	case compiler.ClauseSubstring:
		caps := patternops.SubstringIndex(tc, clause)
		return len(caps) > 0, caps, nil
	case compiler.ClauseRegex:
		caps := patternops.RegexWithIndex(tc, clause)
		return len(caps) > 0, caps, nil
	case compiler.ClauseWithin:
		if clause.Sub == nil {
			return false, nil, fmt.Errorf("clauseeval: within clause %s has no sub-clause", clause.Label)
		}
		_, subCaps, err := evalClause(tc, clause.Sub, nil)
		if err != nil {
			return false, nil, err
		}
		matched, caps := patternops.Within(tc, clause, subCaps, running)
		return matched, caps, nil
	default:
		return false, nil, fmt.Errorf("clauseeval: unknown clause kind %d", clause.Kind)
	}
}
