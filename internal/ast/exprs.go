package ast

type IntLiteral struct {
	Span Span

	Value int64
}

type StringLiteral struct {
	Span Span

	Value string
}

type CharLiteral struct {
	Span Span

	Value byte
}

type BoolLiteral struct {
	Span Span

	Value bool
}

type Ident struct {
	Span Span

	Name string
}

type CallExpr struct {
	Span Span

	Name string
	Args []Expr
}

type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
	OpEq  BinaryOp = "=="
	OpNe  BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpLe  BinaryOp = "<="
	OpGt  BinaryOp = ">"
	OpGe  BinaryOp = ">="
	OpAnd BinaryOp = "&&"
	OpOr  BinaryOp = "||"
)

func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

type BinaryExpr struct {
	Span Span

	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (IntLiteral) AstNode()    {}
func (StringLiteral) AstNode() {}
func (CharLiteral) AstNode()   {}
func (BoolLiteral) AstNode()   {}
func (Ident) AstNode()         {}
func (CallExpr) AstNode()      {}
func (BinaryExpr) AstNode()    {}

func (e *IntLiteral) NodeSpan() Span    { return e.Span }
func (e *StringLiteral) NodeSpan() Span { return e.Span }
func (e *CharLiteral) NodeSpan() Span   { return e.Span }
func (e *BoolLiteral) NodeSpan() Span   { return e.Span }
func (e *Ident) NodeSpan() Span         { return e.Span }
func (e *CallExpr) NodeSpan() Span      { return e.Span }
func (e *BinaryExpr) NodeSpan() Span    { return e.Span }

func (IntLiteral) ExprNode()    {}
func (StringLiteral) ExprNode() {}
func (CharLiteral) ExprNode()   {}
func (BoolLiteral) ExprNode()   {}
func (Ident) ExprNode()         {}
func (CallExpr) ExprNode()      {}
func (BinaryExpr) ExprNode()    {}
