package parser

import (
	"github.com/kievzenit/rlang/internal/lexer"
	"github.com/kievzenit/rlang/internal/peg"
)

// Rule tags produced in the parse tree. Each one maps to exactly one AST constructor
// in the builder; silent rules (Item, Stmt, Expr, Primary, ...) never appear in the tree.
const (
	RuleProgram    = "Program"
	RuleExternDecl = "ExternDecl"
	RuleFuncDecl   = "FuncDecl"
	RuleParams     = "Params"
	RuleParam      = "Param"
	RuleRetType    = "RetType"
	RuleType       = "Type"
	RuleBlock      = "Block"
	RuleVarDecl    = "VarDecl"
	RuleIfStmt     = "IfStmt"
	RuleElseClause = "ElseClause"
	RuleWhileStmt  = "WhileStmt"
	RuleReturnStmt = "ReturnStmt"
	RuleAssignStmt = "AssignStmt"
	RuleExprStmt   = "ExprStmt"
	RuleOrExpr     = "OrExpr"
	RuleAndExpr    = "AndExpr"
	RuleCmpExpr    = "CmpExpr"
	RuleAddExpr    = "AddExpr"
	RuleMulExpr    = "MulExpr"
	RuleCallExpr   = "CallExpr"
	RuleArgs       = "Args"
)

// Alternatives are ordered: AssignStmt must come before ExprStmt and CallExpr
// before a bare IDENT, otherwise the shorter match would commit first.
var Grammar = peg.MustGrammar(RuleProgram,
	peg.Rule{Name: RuleProgram, Expr: peg.Seq(peg.Star(peg.Ref("Item")), peg.Lit(lexer.EOF))},
	peg.Rule{Name: "Item", Silent: true, Expr: peg.Choice(
		peg.Ref(RuleExternDecl),
		peg.Ref(RuleFuncDecl),
		peg.Ref("Stmt"),
	)},
	peg.Rule{Name: RuleExternDecl, Expr: peg.Seq(
		peg.Lit(lexer.EXTERN), peg.Lit(lexer.FUN), peg.Tok(lexer.IDENT),
		peg.Lit(lexer.LPAREN), peg.Opt(peg.Ref(RuleParams)), peg.Lit(lexer.RPAREN),
		peg.Opt(peg.Ref(RuleRetType)),
		peg.Lit(lexer.SEMICOLON),
	)},
	peg.Rule{Name: RuleFuncDecl, Expr: peg.Seq(
		peg.Lit(lexer.FUN), peg.Tok(lexer.IDENT),
		peg.Lit(lexer.LPAREN), peg.Opt(peg.Ref(RuleParams)), peg.Lit(lexer.RPAREN),
		peg.Opt(peg.Ref(RuleRetType)),
		peg.Ref(RuleBlock),
	)},
	peg.Rule{Name: RuleParams, Expr: peg.Seq(
		peg.Ref(RuleParam),
		peg.Star(peg.Seq(peg.Lit(lexer.COMMA), peg.Ref(RuleParam))),
	)},
	peg.Rule{Name: RuleParam, Expr: peg.Seq(peg.Tok(lexer.IDENT), peg.Lit(lexer.COLON), peg.Ref(RuleType))},
	peg.Rule{Name: RuleRetType, Expr: peg.Seq(peg.Lit(lexer.COLON), peg.Ref(RuleType))},
	peg.Rule{Name: RuleType, Expr: peg.Tok(lexer.IDENT)},
	peg.Rule{Name: RuleBlock, Expr: peg.Seq(peg.Lit(lexer.LBRACE), peg.Star(peg.Ref("Stmt")), peg.Lit(lexer.RBRACE))},

	peg.Rule{Name: "Stmt", Silent: true, Expr: peg.Choice(
		peg.Ref(RuleVarDecl),
		peg.Ref(RuleIfStmt),
		peg.Ref(RuleWhileStmt),
		peg.Ref(RuleReturnStmt),
		peg.Ref(RuleBlock),
		peg.Ref(RuleAssignStmt),
		peg.Ref(RuleExprStmt),
	)},
	peg.Rule{Name: RuleVarDecl, Expr: peg.Seq(
		peg.Lit(lexer.LET), peg.Tok(lexer.IDENT),
		peg.Opt(peg.Seq(peg.Lit(lexer.COLON), peg.Ref(RuleType))),
		peg.Lit(lexer.ASSIGN), peg.Ref("Expr"), peg.Lit(lexer.SEMICOLON),
	)},
	peg.Rule{Name: RuleIfStmt, Expr: peg.Seq(
		peg.Lit(lexer.IF), peg.Ref("Expr"), peg.Ref(RuleBlock), peg.Opt(peg.Ref(RuleElseClause)),
	)},
	peg.Rule{Name: RuleElseClause, Expr: peg.Seq(
		peg.Lit(lexer.ELSE), peg.Choice(peg.Ref(RuleIfStmt), peg.Ref(RuleBlock)),
	)},
	peg.Rule{Name: RuleWhileStmt, Expr: peg.Seq(peg.Lit(lexer.WHILE), peg.Ref("Expr"), peg.Ref(RuleBlock))},
	peg.Rule{Name: RuleReturnStmt, Expr: peg.Seq(peg.Lit(lexer.RETURN), peg.Opt(peg.Ref("Expr")), peg.Lit(lexer.SEMICOLON))},
	peg.Rule{Name: RuleAssignStmt, Expr: peg.Seq(peg.Tok(lexer.IDENT), peg.Lit(lexer.ASSIGN), peg.Ref("Expr"), peg.Lit(lexer.SEMICOLON))},
	peg.Rule{Name: RuleExprStmt, Expr: peg.Seq(peg.Ref("Expr"), peg.Lit(lexer.SEMICOLON))},

	peg.Rule{Name: "Expr", Silent: true, Expr: peg.Ref(RuleOrExpr)},
	peg.Rule{Name: RuleOrExpr, Expr: peg.Seq(
		peg.Ref(RuleAndExpr), peg.Star(peg.Seq(peg.Tok(lexer.LOR), peg.Ref(RuleAndExpr))),
	)},
	peg.Rule{Name: RuleAndExpr, Expr: peg.Seq(
		peg.Ref(RuleCmpExpr), peg.Star(peg.Seq(peg.Tok(lexer.LAND), peg.Ref(RuleCmpExpr))),
	)},
	peg.Rule{Name: RuleCmpExpr, Expr: peg.Seq(
		peg.Ref(RuleAddExpr), peg.Opt(peg.Seq(peg.Ref("CmpOp"), peg.Ref(RuleAddExpr))),
	)},
	peg.Rule{Name: "CmpOp", Silent: true, Expr: peg.Choice(
		peg.Tok(lexer.EQ), peg.Tok(lexer.NEQ), peg.Tok(lexer.LEQ), peg.Tok(lexer.LT), peg.Tok(lexer.GEQ), peg.Tok(lexer.GT),
	)},
	peg.Rule{Name: RuleAddExpr, Expr: peg.Seq(
		peg.Ref(RuleMulExpr), peg.Star(peg.Seq(peg.Choice(peg.Tok(lexer.PLUS), peg.Tok(lexer.MINUS)), peg.Ref(RuleMulExpr))),
	)},
	peg.Rule{Name: RuleMulExpr, Expr: peg.Seq(
		peg.Ref("Primary"),
		peg.Star(peg.Seq(peg.Choice(peg.Tok(lexer.ASTERISK), peg.Tok(lexer.SLASH), peg.Tok(lexer.PERCENT)), peg.Ref("Primary"))),
	)},
	peg.Rule{Name: "Primary", Silent: true, Expr: peg.Choice(
		peg.Ref(RuleCallExpr),
		peg.Tok(lexer.INT),
		peg.Tok(lexer.STRING),
		peg.Tok(lexer.CHAR),
		peg.Tok(lexer.BOOL),
		peg.Tok(lexer.IDENT),
		peg.Seq(peg.Lit(lexer.LPAREN), peg.Ref("Expr"), peg.Lit(lexer.RPAREN)),
	)},
	peg.Rule{Name: RuleCallExpr, Expr: peg.Seq(
		peg.Tok(lexer.IDENT), peg.Lit(lexer.LPAREN), peg.Opt(peg.Ref(RuleArgs)), peg.Lit(lexer.RPAREN),
	)},
	peg.Rule{Name: RuleArgs, Expr: peg.Seq(
		peg.Ref("Expr"), peg.Star(peg.Seq(peg.Lit(lexer.COMMA), peg.Ref("Expr"))),
	)},
)
