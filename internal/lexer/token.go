package lexer

import (
	"fmt"
)

type TokenKind int

const (
	EOF TokenKind = iota

	INT
	BOOL
	CHAR
	STRING

	IDENT

	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %

	ASSIGN // =

	LAND // &&
	LOR  // ||

	EQ  // ==
	NEQ // !=
	LT  // <
	LEQ // <=
	GT  // >
	GEQ // >=

	LPAREN // (
	LBRACE // {

	RPAREN // )
	RBRACE // }

	COLON     // :
	SEMICOLON // ;
	COMMA     // ,

	EXTERN
	FUN
	LET
	WHILE
	IF
	ELSE
	RETURN
)

func (tk TokenKind) String() string {
	switch tk {
	case EOF:
		return "EOF"
	case INT:
		return "INT"
	case BOOL:
		return "BOOL"
	case CHAR:
		return "CHAR"
	case STRING:
		return "STRING"
	case IDENT:
		return "IDENT"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case ASTERISK:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case ASSIGN:
		return "="
	case LAND:
		return "&&"
	case LOR:
		return "||"
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case LT:
		return "<"
	case LEQ:
		return "<="
	case GT:
		return ">"
	case GEQ:
		return ">="
	case LPAREN:
		return "("
	case LBRACE:
		return "{"
	case RPAREN:
		return ")"
	case RBRACE:
		return "}"
	case COLON:
		return ":"
	case SEMICOLON:
		return ";"
	case COMMA:
		return ","
	case EXTERN:
		return "extern"
	case FUN:
		return "fun"
	case LET:
		return "let"
	case WHILE:
		return "while"
	case IF:
		return "if"
	case ELSE:
		return "else"
	case RETURN:
		return "return"
	default:
		panic(fmt.Sprintf("TokenKind.String(): received illegal token kind: %d", tk))
	}
}

var keywords = map[string]TokenKind{
	"extern": EXTERN,
	"fun":    FUN,
	"let":    LET,
	"while":  WHILE,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
	"true":   BOOL,
	"false":  BOOL,
}

// Metadata locates a token in the source buffer. Line and Column are 1-based,
// Offset is the byte offset of the first character.
type Metadata struct {
	Offset int
	Line   int
	Column int
	Length int
}

type Token struct {
	Kind  TokenKind
	Value string

	Metadata Metadata
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case INT, BOOL, CHAR, STRING, IDENT:
		return true
	}

	return false
}

func (t *Token) String() string {
	if !t.hasActualValue() {
		return t.Kind.String()
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}
