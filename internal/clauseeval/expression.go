// Package clauseeval parses a compiled rule's boolean expression and
// evaluates it against a text container, delegating match work to
// patternops and combining captures across clauses.
package clauseeval

import "strings"

// node is the parsed expression tree. The compiler only ever produces
// "(L0 OR L1 OR …) AND Lk AND Ll …", but the tokenizer/parser below
// handles arbitrary nesting of the same grammar so a hand-authored
// expression string remains valid.
type node struct {
	op       string // "AND", "OR", or "" for a leaf
	label    string // set when op == ""
	children []*node
}

// parseExpression tokenizes and parses expr into a tree of AND/OR nodes.
// Grammar: expr := term (AND term)* ; term := '(' orExpr ')' | LABEL ;
// orExpr := LABEL (OR LABEL)*.
func parseExpression(expr string) (*node, error) {
	toks := tokenize(expr)
	p := &parser{toks: toks}
	n, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, errUnexpectedToken(p.toks[p.pos])
	}
	return n, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseAndExpr() (*node, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	n := &node{op: "AND", children: []*node{first}}
	for p.peek() == "AND" {
		p.next()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, t)
	}
	if len(n.children) == 1 {
		return n.children[0], nil
	}
	return n, nil
}

func (p *parser) parseTerm() (*node, error) {
	if p.peek() == "(" {
		p.next()
		n, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, errUnexpectedToken(p.peek())
		}
		p.next()
		return n, nil
	}
	label := p.next()
	if label == "" {
		return nil, errUnexpectedToken("")
	}
	return &node{label: label}, nil
}

func (p *parser) parseOrExpr() (*node, error) {
	first, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	n := &node{op: "OR", children: []*node{first}}
	for p.peek() == "OR" {
		p.next()
		l, err := p.parseLabel()
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, l)
	}
	if len(n.children) == 1 {
		return n.children[0], nil
	}
	return n, nil
}

func (p *parser) parseLabel() (*node, error) {
	label := p.next()
	if label == "" || label == "(" || label == ")" || label == "AND" || label == "OR" {
		return nil, errUnexpectedToken(label)
	}
	return &node{label: label}, nil
}

func errUnexpectedToken(tok string) error {
	return &expressionError{tok: tok}
}

type expressionError struct{ tok string }

func (e *expressionError) Error() string {
	return "clauseeval: unexpected token " + strconvQuote(e.tok)
}

func strconvQuote(s string) string {
	return "\"" + s + "\""
}

// tokenize splits an expression into "(", ")", "AND", "OR", and label
// tokens, handling parens glued directly to a label (e.g. "(0").
func tokenize(expr string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range expr {
		switch r {
		case '(', ')':
			flush()
			toks = append(toks, string(r))
		case ' ', '\t', '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
