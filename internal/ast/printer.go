package ast

import (
	"fmt"
	"strconv"
	"strings"
)

const indentUnit = "    "

// Print renders prog as canonical source text. Parsing the result yields
// a program with the same structure as prog.
func Print(prog *Program) string {
	p := &printer{}
	for i, stmt := range prog.Stmts {
		if i > 0 {
			if _, ok := stmt.(*FuncDecl); ok {
				p.buf.WriteString("\n")
			}
		}
		p.printStmt(stmt)
	}
	return p.buf.String()
}

// PrintExpr renders a single expression.
func PrintExpr(expr Expr) string {
	p := &printer{}
	p.printExpr(expr)
	return p.buf.String()
}

type printer struct {
	buf   strings.Builder
	depth int
}

func (p *printer) line(format string, args ...any) {
	p.buf.WriteString(strings.Repeat(indentUnit, p.depth))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteString("\n")
}

func (p *printer) printStmt(stmt Stmt) {
	switch stmt := stmt.(type) {
	case *FuncDecl:
		p.printFuncDecl(stmt)
	case *Block:
		p.line("{")
		p.printBlockBody(stmt)
		p.line("}")
	case *VarDecl:
		if stmt.Type != nil {
			p.line("let %s: %s = %s;", stmt.Name, stmt.Type.Name, PrintExpr(stmt.Value))
		} else {
			p.line("let %s = %s;", stmt.Name, PrintExpr(stmt.Value))
		}
	case *AssignStmt:
		p.line("%s = %s;", stmt.Name, PrintExpr(stmt.Value))
	case *IfStmt:
		p.buf.WriteString(strings.Repeat(indentUnit, p.depth))
		p.printIfChain(stmt)
		p.buf.WriteString("\n")
	case *WhileStmt:
		p.line("while %s {", PrintExpr(stmt.Cond))
		p.printBlockBody(stmt.Body)
		p.line("}")
	case *ReturnStmt:
		if stmt.Value == nil {
			p.line("return;")
		} else {
			p.line("return %s;", PrintExpr(stmt.Value))
		}
	case *ExprStmt:
		p.line("%s;", PrintExpr(stmt.Expr))
	default:
		panic(fmt.Sprintf("printer: unknown statement %T", stmt))
	}
}

func (p *printer) printFuncDecl(funcDecl *FuncDecl) {
	params := make([]string, len(funcDecl.Params))
	for i, param := range funcDecl.Params {
		params[i] = fmt.Sprintf("%s: %s", param.Name, param.Type.Name)
	}

	header := fmt.Sprintf("fun %s(%s)", funcDecl.Name, strings.Join(params, ", "))
	if funcDecl.ReturnType != nil {
		header += ": " + funcDecl.ReturnType.Name
	}

	if funcDecl.Extern {
		p.line("extern %s;", header)
		return
	}

	p.line("%s {", header)
	p.printBlockBody(funcDecl.Body)
	p.line("}")
}

func (p *printer) printBlockBody(block *Block) {
	p.depth++
	for _, stmt := range block.Stmts {
		p.printStmt(stmt)
	}
	p.depth--
}

// printIfChain writes an if statement without leading indentation or trailing newline
// so that "else if" stays on the closing brace line.
func (p *printer) printIfChain(ifStmt *IfStmt) {
	fmt.Fprintf(&p.buf, "if %s {\n", PrintExpr(ifStmt.Cond))
	p.printBlockBody(ifStmt.Then)
	p.buf.WriteString(strings.Repeat(indentUnit, p.depth) + "}")

	switch elseStmt := ifStmt.Else.(type) {
	case nil:
	case *IfStmt:
		p.buf.WriteString(" else ")
		p.printIfChain(elseStmt)
	case *Block:
		p.buf.WriteString(" else {\n")
		p.printBlockBody(elseStmt)
		p.buf.WriteString(strings.Repeat(indentUnit, p.depth) + "}")
	default:
		panic(fmt.Sprintf("printer: unexpected else branch %T", elseStmt))
	}
}

func (p *printer) printExpr(expr Expr) {
	switch expr := expr.(type) {
	case *IntLiteral:
		p.buf.WriteString(strconv.FormatInt(expr.Value, 10))
	case *StringLiteral:
		p.buf.WriteString(`"` + Escape(expr.Value, '"') + `"`)
	case *CharLiteral:
		p.buf.WriteString("'" + Escape(string(expr.Value), '\'') + "'")
	case *BoolLiteral:
		p.buf.WriteString(strconv.FormatBool(expr.Value))
	case *Ident:
		p.buf.WriteString(expr.Name)
	case *CallExpr:
		p.buf.WriteString(expr.Name + "(")
		for i, arg := range expr.Args {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.printExpr(arg)
		}
		p.buf.WriteString(")")
	case *BinaryExpr:
		p.printOperand(expr.Left)
		p.buf.WriteString(" " + string(expr.Op) + " ")
		p.printOperand(expr.Right)
	default:
		panic(fmt.Sprintf("printer: unknown expression %T", expr))
	}
}

// nested binary operands are always parenthesised so precedence never has to be recomputed
func (p *printer) printOperand(expr Expr) {
	if _, ok := expr.(*BinaryExpr); ok {
		p.buf.WriteString("(")
		p.printExpr(expr)
		p.buf.WriteString(")")
		return
	}
	p.printExpr(expr)
}

// Escape quotes s using the escape sequences understood by the lexer.
func Escape(s string, quote byte) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == 0:
			sb.WriteString(`\0`)
		case c == '\\':
			sb.WriteString(`\\`)
		case c == quote:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
