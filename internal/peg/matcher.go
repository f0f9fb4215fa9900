package peg

import (
	"fmt"
	"slices"

	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/lexer"
)

type matcher struct {
	g *Grammar

	tokens  []lexer.Token
	scanner lexer.TokenScanner

	// attempts holds what was tried at attemptPos, the farthest token
	// index at which anything failed to match.
	attempts   []string
	attemptPos int
}

// Parse matches tokens against the start rule. The tokens must end with EOF
// and the start rule must consume it, otherwise trailing input is silently accepted.
func (g *Grammar) Parse(fileName string, tokens []lexer.Token) (*Node, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		tokens = append(tokens, lexer.Token{Kind: lexer.EOF})
	}

	m := &matcher{
		g: g,

		tokens:  tokens,
		scanner: lexer.NewTokenScanner(tokens),
	}

	nodes, ok := m.applyRule(g.Start)
	if !ok {
		return nil, m.syntaxError(fileName)
	}

	if len(nodes) == 1 && nodes[0].Rule == g.Start {
		return nodes[0], nil
	}

	return &Node{
		Rule:     g.Start,
		Span:     m.span(0, m.scanner.Pos()),
		Children: nodes,
	}, nil
}

func (m *matcher) syntaxError(fileName string) error {
	pos := min(m.attemptPos, len(m.tokens)-1)
	found := m.tokens[pos]

	expected := slices.Clone(m.attempts)
	slices.Sort(expected)
	expected = slices.Compact(expected)

	return &compiler_errors.SyntaxError{
		Found:    describeToken(found),
		Expected: expected,

		FileName: fileName,
		Pos:      tokenStart(found),
		Length:   max(found.Metadata.Length, 1),
	}
}

func describeToken(token lexer.Token) string {
	switch token.Kind {
	case lexer.EOF:
		return "end of file"
	case lexer.IDENT, lexer.INT, lexer.BOOL:
		return fmt.Sprintf("%s '%s'", token.Kind, token.Value)
	case lexer.STRING, lexer.CHAR:
		return token.Kind.String()
	}
	return fmt.Sprintf("'%s'", token.Kind)
}

func tokenLabel(kind lexer.TokenKind) string {
	switch kind {
	case lexer.EOF, lexer.IDENT, lexer.INT, lexer.BOOL, lexer.STRING, lexer.CHAR:
		return kind.String()
	}
	return fmt.Sprintf("'%s'", kind)
}

func (m *matcher) track(label string, pos int) {
	switch {
	case pos > m.attemptPos:
		m.attemptPos = pos
		m.attempts = append(m.attempts[:0], label)
	case pos == m.attemptPos:
		m.attempts = append(m.attempts, label)
	}
}

func (m *matcher) span(from, to int) ast.Span {
	if to <= from {
		start := tokenStart(m.tokens[min(from, len(m.tokens)-1)])
		return ast.Span{Start: start, End: start}
	}
	return ast.Span{
		Start: tokenStart(m.tokens[from]),
		End:   tokenEnd(m.tokens[to-1]),
	}
}

// applyRule matches a named rule. When a non-silent rule fails without getting
// past its first token, whatever its children recorded at that position is
// replaced by the rule's own name so errors read "expected Stmt" rather than
// listing every token a statement may start with.
func (m *matcher) applyRule(name string) ([]*Node, bool) {
	rule := m.g.rules[name]

	startPos := m.scanner.Pos()
	startAttemptPos := m.attemptPos
	startAttempts := len(m.attempts)

	children, ok := rule.Expr.match(m)
	if !ok {
		m.scanner.Seek(startPos)
		if !rule.Silent && m.attemptPos == startPos {
			if startAttemptPos == startPos {
				m.attempts = m.attempts[:startAttempts]
			} else {
				m.attempts = m.attempts[:0]
			}
			m.track(name, startPos)
		}
		return nil, false
	}

	if rule.Silent {
		return children, true
	}

	return []*Node{{
		Rule:     name,
		Span:     m.span(startPos, m.scanner.Pos()),
		Children: children,
	}}, true
}

func (e *tokExpr) match(m *matcher) ([]*Node, bool) {
	pos := m.scanner.Pos()
	token := m.scanner.Peek()
	if token.Kind != e.kind {
		m.track(tokenLabel(e.kind), pos)
		return nil, false
	}
	m.scanner.Read()

	if !e.keep {
		return nil, true
	}

	leaf := m.tokens[min(pos, len(m.tokens)-1)]
	return []*Node{{
		Token: &leaf,
		Span:  ast.Span{Start: tokenStart(leaf), End: tokenEnd(leaf)},
	}}, true
}

func (e *seqExpr) match(m *matcher) ([]*Node, bool) {
	startPos := m.scanner.Pos()

	nodes := make([]*Node, 0, len(e.items))
	for _, item := range e.items {
		matched, ok := item.match(m)
		if !ok {
			m.scanner.Seek(startPos)
			return nil, false
		}
		nodes = append(nodes, matched...)
	}

	return nodes, true
}

func (e *choiceExpr) match(m *matcher) ([]*Node, bool) {
	startPos := m.scanner.Pos()

	for _, alt := range e.alts {
		if nodes, ok := alt.match(m); ok {
			return nodes, true
		}
		m.scanner.Seek(startPos)
	}

	return nil, false
}

func (e *starExpr) match(m *matcher) ([]*Node, bool) {
	nodes := make([]*Node, 0)
	for {
		pos := m.scanner.Pos()
		matched, ok := e.item.match(m)
		if !ok || m.scanner.Pos() == pos {
			m.scanner.Seek(pos)
			return nodes, true
		}
		nodes = append(nodes, matched...)
	}
}

func (e *optExpr) match(m *matcher) ([]*Node, bool) {
	pos := m.scanner.Pos()
	if nodes, ok := e.item.match(m); ok {
		return nodes, true
	}
	m.scanner.Seek(pos)
	return nil, true
}

func (e *refExpr) match(m *matcher) ([]*Node, bool) {
	return m.applyRule(e.name)
}
