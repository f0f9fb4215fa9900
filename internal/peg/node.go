package peg

import (
	"fmt"
	"strings"

	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/lexer"
)

// Node is a parse tree node: either a rule application (Rule set) or a
// kept token leaf (Token set).
type Node struct {
	Rule     string
	Token    *lexer.Token
	Span     ast.Span
	Children []*Node
}

func (n *Node) IsToken(kind lexer.TokenKind) bool {
	return n.Token != nil && n.Token.Kind == kind
}

// Tag is the rule name, or the token kind for leaves.
func (n *Node) Tag() string {
	if n.Token != nil {
		return n.Token.Kind.String()
	}
	return n.Rule
}

func (n *Node) String() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.Token != nil {
		fmt.Fprintf(sb, "%s @%s\n", n.Token.String(), n.Span.Start)
		return
	}
	fmt.Fprintf(sb, "%s @%s\n", n.Rule, n.Span)
	for _, child := range n.Children {
		child.dump(sb, depth+1)
	}
}

func tokenStart(token lexer.Token) ast.Position {
	return ast.Position{
		Offset: token.Metadata.Offset,
		Line:   token.Metadata.Line,
		Column: token.Metadata.Column,
	}
}

func tokenEnd(token lexer.Token) ast.Position {
	return ast.Position{
		Offset: token.Metadata.Offset + token.Metadata.Length,
		Line:   token.Metadata.Line,
		Column: token.Metadata.Column + token.Metadata.Length,
	}
}
