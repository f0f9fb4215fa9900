package parser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/lexer"
	"github.com/kievzenit/rlang/internal/peg"
)

// Builder turns a parse tree into an AST. Children are built before their
// parent and the first failure aborts the whole build.
type Builder struct {
	fileName string
}

func NewBuilder(fileName string) *Builder {
	return &Builder{fileName: fileName}
}

func (b *Builder) malformed(node *peg.Node, format string, args ...any) error {
	return compiler_errors.NewSemanticError(
		compiler_errors.MalformedAST,
		b.fileName,
		node.Span,
		"malformed %s: %s",
		node.Tag(),
		fmt.Sprintf(format, args...),
	)
}

// children walks the child list of one rule application in order.
type children struct {
	b    *Builder
	node *peg.Node
	pos  int
}

func (b *Builder) children(node *peg.Node) *children {
	return &children{b: b, node: node}
}

func (c *children) peek() *peg.Node {
	if c.pos >= len(c.node.Children) {
		return nil
	}
	return c.node.Children[c.pos]
}

func (c *children) next() (*peg.Node, error) {
	child := c.peek()
	if child == nil {
		return nil, c.b.malformed(c.node, "missing child %d", c.pos)
	}
	c.pos++
	return child, nil
}

func (c *children) token(kind lexer.TokenKind) (*lexer.Token, error) {
	child, err := c.next()
	if err != nil {
		return nil, err
	}
	if !child.IsToken(kind) {
		return nil, c.b.malformed(c.node, "expected %s, found %s", kind, child.Tag())
	}
	return child.Token, nil
}

func (c *children) rule(name string) (*peg.Node, error) {
	child, err := c.next()
	if err != nil {
		return nil, err
	}
	if child.Rule != name {
		return nil, c.b.malformed(c.node, "expected %s, found %s", name, child.Tag())
	}
	return child, nil
}

func (c *children) optRule(name string) *peg.Node {
	child := c.peek()
	if child == nil || child.Rule != name {
		return nil
	}
	c.pos++
	return child
}

func (c *children) done() error {
	if child := c.peek(); child != nil {
		return c.b.malformed(c.node, "unexpected %s", child.Tag())
	}
	return nil
}

func (b *Builder) Build(root *peg.Node) (*ast.Program, error) {
	if root == nil || root.Rule != RuleProgram {
		return nil, compiler_errors.NewSemanticError(
			compiler_errors.MalformedAST, b.fileName, ast.Span{}, "parse tree is not rooted at %s", RuleProgram)
	}

	stmts := make([]ast.Stmt, 0, len(root.Children))
	for _, child := range root.Children {
		var (
			stmt ast.Stmt
			err  error
		)
		switch child.Rule {
		case RuleExternDecl:
			stmt, err = b.buildFuncDecl(child, true)
		case RuleFuncDecl:
			stmt, err = b.buildFuncDecl(child, false)
		default:
			stmt, err = b.buildStmt(child)
		}
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return &ast.Program{
		Span:  root.Span,
		Stmts: stmts,
	}, nil
}

func (b *Builder) buildFuncDecl(node *peg.Node, extern bool) (*ast.FuncDecl, error) {
	c := b.children(node)

	name, err := c.token(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	params := make([]ast.Param, 0)
	if paramsNode := c.optRule(RuleParams); paramsNode != nil {
		params, err = b.buildParams(paramsNode)
		if err != nil {
			return nil, err
		}
	}

	var returnType *ast.TypeRef
	if retNode := c.optRule(RuleRetType); retNode != nil {
		retChildren := b.children(retNode)
		typeNode, err := retChildren.rule(RuleType)
		if err != nil {
			return nil, err
		}
		if err := retChildren.done(); err != nil {
			return nil, err
		}
		returnType, err = b.buildType(typeNode)
		if err != nil {
			return nil, err
		}
	}

	var body *ast.Block
	if !extern {
		blockNode, err := c.rule(RuleBlock)
		if err != nil {
			return nil, err
		}
		body, err = b.buildBlock(blockNode)
		if err != nil {
			return nil, err
		}
	}

	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		Span: node.Span,

		Name:       name.Value,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		Extern:     extern,
	}, nil
}

func (b *Builder) buildParams(node *peg.Node) ([]ast.Param, error) {
	params := make([]ast.Param, 0, len(node.Children))
	for _, paramNode := range node.Children {
		if paramNode.Rule != RuleParam {
			return nil, b.malformed(node, "expected %s, found %s", RuleParam, paramNode.Tag())
		}

		c := b.children(paramNode)
		name, err := c.token(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		typeNode, err := c.rule(RuleType)
		if err != nil {
			return nil, err
		}
		if err := c.done(); err != nil {
			return nil, err
		}

		typeRef, err := b.buildType(typeNode)
		if err != nil {
			return nil, err
		}

		params = append(params, ast.Param{
			Span: paramNode.Span,

			Name: name.Value,
			Type: typeRef,
		})
	}
	return params, nil
}

func (b *Builder) buildType(node *peg.Node) (*ast.TypeRef, error) {
	c := b.children(node)
	name, err := c.token(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.TypeRef{
		Span: node.Span,
		Name: name.Value,
	}, nil
}

func (b *Builder) buildBlock(node *peg.Node) (*ast.Block, error) {
	stmts := make([]ast.Stmt, 0, len(node.Children))
	for _, child := range node.Children {
		stmt, err := b.buildStmt(child)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return &ast.Block{
		Span:  node.Span,
		Stmts: stmts,
	}, nil
}

func (b *Builder) buildStmt(node *peg.Node) (ast.Stmt, error) {
	switch node.Rule {
	case RuleBlock:
		return b.buildBlock(node)
	case RuleVarDecl:
		return b.buildVarDecl(node)
	case RuleAssignStmt:
		return b.buildAssignStmt(node)
	case RuleIfStmt:
		return b.buildIfStmt(node)
	case RuleWhileStmt:
		return b.buildWhileStmt(node)
	case RuleReturnStmt:
		return b.buildReturnStmt(node)
	case RuleExprStmt:
		return b.buildExprStmt(node)
	default:
		return nil, b.malformed(node, "not a statement")
	}
}

func (b *Builder) buildVarDecl(node *peg.Node) (*ast.VarDecl, error) {
	c := b.children(node)

	name, err := c.token(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	var typeRef *ast.TypeRef
	if typeNode := c.optRule(RuleType); typeNode != nil {
		typeRef, err = b.buildType(typeNode)
		if err != nil {
			return nil, err
		}
	}

	value, err := b.buildNextExpr(c)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.VarDecl{
		Span: node.Span,

		Name:  name.Value,
		Type:  typeRef,
		Value: value,
	}, nil
}

func (b *Builder) buildAssignStmt(node *peg.Node) (*ast.AssignStmt, error) {
	c := b.children(node)

	name, err := c.token(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	value, err := b.buildNextExpr(c)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.AssignStmt{
		Span: node.Span,

		Name:  name.Value,
		Value: value,
	}, nil
}

func (b *Builder) buildIfStmt(node *peg.Node) (*ast.IfStmt, error) {
	c := b.children(node)

	cond, err := b.buildNextExpr(c)
	if err != nil {
		return nil, err
	}

	thenNode, err := c.rule(RuleBlock)
	if err != nil {
		return nil, err
	}
	then, err := b.buildBlock(thenNode)
	if err != nil {
		return nil, err
	}

	var elseStmt ast.Stmt
	if elseNode := c.optRule(RuleElseClause); elseNode != nil {
		elseChildren := b.children(elseNode)
		branch, err := elseChildren.next()
		if err != nil {
			return nil, err
		}
		if err := elseChildren.done(); err != nil {
			return nil, err
		}

		switch branch.Rule {
		case RuleIfStmt:
			elseStmt, err = b.buildIfStmt(branch)
		case RuleBlock:
			elseStmt, err = b.buildBlock(branch)
		default:
			err = b.malformed(elseNode, "expected %s or %s, found %s", RuleIfStmt, RuleBlock, branch.Tag())
		}
		if err != nil {
			return nil, err
		}
	}

	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.IfStmt{
		Span: node.Span,

		Cond: cond,
		Then: then,
		Else: elseStmt,
	}, nil
}

func (b *Builder) buildWhileStmt(node *peg.Node) (*ast.WhileStmt, error) {
	c := b.children(node)

	cond, err := b.buildNextExpr(c)
	if err != nil {
		return nil, err
	}
	bodyNode, err := c.rule(RuleBlock)
	if err != nil {
		return nil, err
	}
	body, err := b.buildBlock(bodyNode)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.WhileStmt{
		Span: node.Span,

		Cond: cond,
		Body: body,
	}, nil
}

func (b *Builder) buildReturnStmt(node *peg.Node) (*ast.ReturnStmt, error) {
	returnStmt := &ast.ReturnStmt{Span: node.Span}

	c := b.children(node)
	if c.peek() == nil {
		return returnStmt, nil
	}

	value, err := b.buildNextExpr(c)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	returnStmt.Value = value
	return returnStmt, nil
}

func (b *Builder) buildExprStmt(node *peg.Node) (*ast.ExprStmt, error) {
	c := b.children(node)

	expr, err := b.buildNextExpr(c)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.ExprStmt{
		Span: node.Span,
		Expr: expr,
	}, nil
}

func (b *Builder) buildNextExpr(c *children) (ast.Expr, error) {
	child, err := c.next()
	if err != nil {
		return nil, err
	}
	return b.buildExpr(child)
}

func (b *Builder) buildExpr(node *peg.Node) (ast.Expr, error) {
	if node.Token != nil {
		return b.buildLeafExpr(node)
	}

	switch node.Rule {
	case RuleOrExpr, RuleAndExpr, RuleAddExpr, RuleMulExpr:
		return b.buildBinaryChain(node)
	case RuleCmpExpr:
		if len(node.Children) > 3 {
			return nil, b.malformed(node, "comparison operators do not chain")
		}
		return b.buildBinaryChain(node)
	case RuleCallExpr:
		return b.buildCallExpr(node)
	default:
		return nil, b.malformed(node, "not an expression")
	}
}

// buildBinaryChain folds "operand (op operand)*" to the left.
// A chain with a single operand yields that operand unchanged.
func (b *Builder) buildBinaryChain(node *peg.Node) (ast.Expr, error) {
	if len(node.Children)%2 == 0 {
		return nil, b.malformed(node, "expected an odd number of children, got %d", len(node.Children))
	}

	left, err := b.buildExpr(node.Children[0])
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(node.Children); i += 2 {
		opNode := node.Children[i]
		if opNode.Token == nil {
			return nil, b.malformed(node, "expected an operator, found %s", opNode.Tag())
		}

		right, err := b.buildExpr(node.Children[i+1])
		if err != nil {
			return nil, err
		}

		left = &ast.BinaryExpr{
			Span: left.NodeSpan().Cover(right.NodeSpan()),

			Left:  left,
			Op:    ast.BinaryOp(opNode.Token.Value),
			Right: right,
		}
	}

	return left, nil
}

func (b *Builder) buildCallExpr(node *peg.Node) (*ast.CallExpr, error) {
	c := b.children(node)

	name, err := c.token(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	args := make([]ast.Expr, 0)
	if argsNode := c.optRule(RuleArgs); argsNode != nil {
		if len(argsNode.Children) == 0 {
			return nil, b.malformed(argsNode, "empty argument list")
		}
		for _, argNode := range argsNode.Children {
			arg, err := b.buildExpr(argNode)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}

	if err := c.done(); err != nil {
		return nil, err
	}

	return &ast.CallExpr{
		Span: node.Span,

		Name: name.Value,
		Args: args,
	}, nil
}

func (b *Builder) buildLeafExpr(node *peg.Node) (ast.Expr, error) {
	token := node.Token
	span := node.Span

	switch token.Kind {
	case lexer.INT:
		value, err := strconv.ParseInt(token.Value, 10, 64)
		if err != nil || value > math.MaxInt32 {
			return nil, compiler_errors.NewSemanticError(
				compiler_errors.InvalidLiteral, b.fileName, span,
				"integer literal %s does not fit in i32", token.Value)
		}
		return &ast.IntLiteral{Span: span, Value: value}, nil
	case lexer.STRING:
		return &ast.StringLiteral{Span: span, Value: token.Value}, nil
	case lexer.CHAR:
		if len(token.Value) != 1 {
			return nil, b.malformed(node, "character literal must hold exactly one byte")
		}
		return &ast.CharLiteral{Span: span, Value: token.Value[0]}, nil
	case lexer.BOOL:
		value, err := strconv.ParseBool(token.Value)
		if err != nil {
			return nil, b.malformed(node, "invalid boolean %q", token.Value)
		}
		return &ast.BoolLiteral{Span: span, Value: value}, nil
	case lexer.IDENT:
		return &ast.Ident{Span: span, Name: token.Value}, nil
	}

	return nil, b.malformed(node, "unexpected token %s", token.Kind)
}
