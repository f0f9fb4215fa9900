package ast

import (
	"testing"

	"github.com/nalgeon/be"
)

func pos(offset, line, column int) Position {
	return Position{Offset: offset, Line: line, Column: column}
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: pos(4, 1, 5), End: pos(9, 1, 10)}
	b := Span{Start: pos(12, 2, 1), End: pos(20, 2, 9)}

	be.Equal(t, a.Cover(b), Span{Start: a.Start, End: b.End})
	be.Equal(t, b.Cover(a), Span{Start: a.Start, End: b.End})
	be.Equal(t, a.String(), "1:5-1:10")
}

func TestEscape(t *testing.T) {
	be.Equal(t, Escape("a\"b\n", '"'), `a\"b\n`)
	be.Equal(t, Escape("it's\t\\", '\''), `it\'s\t\\`)
	be.Equal(t, Escape("x\x00", '"'), `x\0`)
}

func TestPrintExprParenthesisesNestedOperands(t *testing.T) {
	expr := &BinaryExpr{
		Left: &BinaryExpr{Left: &Ident{Name: "a"}, Op: OpSub, Right: &IntLiteral{Value: 1}},
		Op:   OpMul,
		Right: &CallExpr{Name: "f", Args: []Expr{
			&StringLiteral{Value: "s"},
			&CharLiteral{Value: 'c'},
			&BoolLiteral{Value: false},
		}},
	}

	be.Equal(t, PrintExpr(expr), `(a - 1) * f("s", 'c', false)`)
}

func TestOperatorClasses(t *testing.T) {
	be.True(t, OpLe.IsComparison())
	be.Equal(t, OpAdd.IsComparison(), false)
	be.True(t, OpOr.IsLogical())
	be.Equal(t, OpEq.IsLogical(), false)
}
