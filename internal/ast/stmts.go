package ast

type TypeRef struct {
	Span Span

	Name string
}

type Param struct {
	Span Span

	Name string
	Type *TypeRef
}

// FuncDecl is a function definition, or a prototype when Extern is set.
// A nil ReturnType means void, except for the entry point which always returns i32.
type FuncDecl struct {
	Span Span

	Name       string
	Params     []Param
	ReturnType *TypeRef
	Body       *Block
	Extern     bool
}

type Block struct {
	Span Span

	Stmts []Stmt
}

type VarDecl struct {
	Span Span

	Name  string
	Type  *TypeRef
	Value Expr
}

type AssignStmt struct {
	Span Span

	Name  string
	Value Expr
}

// IfStmt.Else is nil, a *Block or a chained *IfStmt.
type IfStmt struct {
	Span Span

	Cond Expr
	Then *Block
	Else Stmt
}

type WhileStmt struct {
	Span Span

	Cond Expr
	Body *Block
}

type ReturnStmt struct {
	Span Span

	Value Expr
}

type ExprStmt struct {
	Span Span

	Expr Expr
}

func (f *FuncDecl) AstNode()   {}
func (b *Block) AstNode()      {}
func (v *VarDecl) AstNode()    {}
func (a *AssignStmt) AstNode() {}
func (i *IfStmt) AstNode()     {}
func (w *WhileStmt) AstNode()  {}
func (r *ReturnStmt) AstNode() {}
func (e *ExprStmt) AstNode()   {}

func (f *FuncDecl) NodeSpan() Span   { return f.Span }
func (b *Block) NodeSpan() Span      { return b.Span }
func (v *VarDecl) NodeSpan() Span    { return v.Span }
func (a *AssignStmt) NodeSpan() Span { return a.Span }
func (i *IfStmt) NodeSpan() Span     { return i.Span }
func (w *WhileStmt) NodeSpan() Span  { return w.Span }
func (r *ReturnStmt) NodeSpan() Span { return r.Span }
func (e *ExprStmt) NodeSpan() Span   { return e.Span }

func (f *FuncDecl) StmtNode()   {}
func (b *Block) StmtNode()      {}
func (v *VarDecl) StmtNode()    {}
func (a *AssignStmt) StmtNode() {}
func (i *IfStmt) StmtNode()     {}
func (w *WhileStmt) StmtNode()  {}
func (r *ReturnStmt) StmtNode() {}
func (e *ExprStmt) StmtNode()   {}
