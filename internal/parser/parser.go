package parser

import (
	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/lexer"
	"github.com/kievzenit/rlang/internal/peg"
)

// ParseTree lexes src and matches it against the Program rule.
func ParseTree(fileName string, src []byte) (*peg.Node, error) {
	tokens, err := lexer.NewLexer(fileName, src).Tokenize()
	if err != nil {
		return nil, err
	}

	return Grammar.Parse(fileName, tokens)
}

// Parse runs the whole front end: lexing, grammar matching and AST construction.
func Parse(fileName string, src []byte) (*ast.Program, error) {
	tree, err := ParseTree(fileName, src)
	if err != nil {
		return nil, err
	}

	return NewBuilder(fileName).Build(tree)
}
