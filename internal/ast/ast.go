package ast

import "fmt"

// Position is a 1-based line/column location plus the byte offset into the source.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers the source text of a node, End is exclusive.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	result := s
	if other.Start.Offset < result.Start.Offset {
		result.Start = other.Start
	}
	if other.End.Offset > result.End.Offset {
		result.End = other.End
	}
	return result
}

type AstNode interface {
	AstNode()
	NodeSpan() Span
}

type Program struct {
	Span Span

	Stmts []Stmt
}

type Stmt interface {
	AstNode
	StmtNode()
}

type Expr interface {
	AstNode
	ExprNode()
}

func (p *Program) AstNode()       {}
func (p *Program) NodeSpan() Span { return p.Span }

// Funcs returns the function and extern declarations of the program in source order.
func (p *Program) Funcs() []*FuncDecl {
	funcs := make([]*FuncDecl, 0)
	for _, stmt := range p.Stmts {
		if funcDecl, ok := stmt.(*FuncDecl); ok {
			funcs = append(funcs, funcDecl)
		}
	}
	return funcs
}

// TopLevelStmts returns the statements written outside of any function.
func (p *Program) TopLevelStmts() []Stmt {
	stmts := make([]Stmt, 0)
	for _, stmt := range p.Stmts {
		if _, ok := stmt.(*FuncDecl); !ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
