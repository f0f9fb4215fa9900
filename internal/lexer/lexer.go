package lexer

import (
	"fmt"

	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/compiler_errors"
)

type Lexer struct {
	fileName string

	buf []byte
	pos int

	line, col int

	tokenStart ast.Position
}

func NewLexer(fileName string, buf []byte) *Lexer {
	return &Lexer{
		fileName: fileName,

		buf: buf,
		pos: 0,

		line: 1,
		col:  1,
	}
}

// Tokenize scans the whole buffer. Whitespace and comments are dropped,
// the returned slice always ends with an EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0)

	for l.hasChars() {
		l.tokenStart = l.position()

		var (
			token Token
			err   error
		)

		switch {
		case l.isCurrSkippable():
			l.advance()
			continue

		case l.read() == '/' && l.peek() == '/':
			l.skipOneLineComment()
			continue

		case l.read() == '/' && l.peek() == '*':
			if err := l.skipMultiLineComment(); err != nil {
				return nil, err
			}
			continue

		case l.isCurrDigit():
			token = l.processNumber()

		case l.isCurrIdentifier():
			token = l.processIdentifier()

		case l.read() == '\'':
			token, err = l.processCharLiteral()

		case l.read() == '"':
			token, err = l.processStringLiteral()

		default:
			token, err = l.processPunctuation()
		}

		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}

	l.tokenStart = l.position()
	tokens = append(tokens, l.makeToken(EOF, ""))

	return tokens, nil
}

func (l *Lexer) position() ast.Position {
	return ast.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeToken(kind TokenKind, value string) Token {
	return Token{
		Kind:  kind,
		Value: value,

		Metadata: Metadata{
			Offset: l.tokenStart.Offset,
			Line:   l.tokenStart.Line,
			Column: l.tokenStart.Column,
			Length: l.pos - l.tokenStart.Offset,
		},
	}
}

func (l *Lexer) errorAt(pos ast.Position, format string, args ...any) error {
	return &compiler_errors.SyntaxError{
		Message: fmt.Sprintf(format, args...),

		FileName: l.fileName,
		Pos:      pos,
		Length:   1,
	}
}

func (l *Lexer) hasChars() bool {
	return l.pos < len(l.buf)
}

func (l *Lexer) read() byte {
	return l.buf[l.pos]
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.buf) {
		return 0
	}
	return l.buf[l.pos+1]
}

func (l *Lexer) advance() {
	if l.buf[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) isCurrIdentifier() bool {
	return (l.read() >= 'a' && l.read() <= 'z') || (l.read() >= 'A' && l.read() <= 'Z') || l.read() == '_'
}

func (l *Lexer) isCurrDigit() bool {
	return l.read() >= '0' && l.read() <= '9'
}

func (l *Lexer) isCurrSkippable() bool {
	switch l.read() {
	case ' ', '\t', '\n', '\r':
		return true
	}

	return false
}

func (l *Lexer) skipOneLineComment() {
	for l.hasChars() && l.read() != '\n' {
		l.advance()
	}
}

func (l *Lexer) skipMultiLineComment() error {
	start := l.position()

	l.advance()
	l.advance()
	for l.hasChars() {
		if l.read() == '*' && l.peek() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}

	return l.errorAt(start, "unterminated block comment")
}

func (l *Lexer) processIdentifier() Token {
	start := l.pos
	for l.hasChars() && (l.isCurrIdentifier() || l.isCurrDigit()) {
		l.advance()
	}
	identifier := string(l.buf[start:l.pos])

	if kind, ok := keywords[identifier]; ok {
		return l.makeToken(kind, identifier)
	}

	return l.makeToken(IDENT, identifier)
}

func (l *Lexer) processNumber() Token {
	start := l.pos
	for l.hasChars() && l.isCurrDigit() {
		l.advance()
	}

	return l.makeToken(INT, string(l.buf[start:l.pos]))
}

// processEscape consumes the character after a backslash.
func (l *Lexer) processEscape() (byte, error) {
	escapePos := l.position()
	l.advance()
	if !l.hasChars() {
		return 0, l.errorAt(escapePos, "unterminated escape sequence")
	}

	c := l.read()
	l.advance()
	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"':
		return c, nil
	}

	return 0, l.errorAt(escapePos, "unknown escape sequence: '\\%s'", string(c))
}

func (l *Lexer) processStringLiteral() (Token, error) {
	l.advance()

	stringBuf := make([]byte, 0)
	for l.hasChars() {
		switch l.read() {
		case '"':
			l.advance()
			return l.makeToken(STRING, string(stringBuf)), nil
		case '\n':
			return Token{}, l.errorAt(l.tokenStart, "unterminated string literal")
		case '\\':
			c, err := l.processEscape()
			if err != nil {
				return Token{}, err
			}
			stringBuf = append(stringBuf, c)
		default:
			stringBuf = append(stringBuf, l.read())
			l.advance()
		}
	}

	return Token{}, l.errorAt(l.tokenStart, "unterminated string literal")
}

func (l *Lexer) processCharLiteral() (Token, error) {
	l.advance()
	if !l.hasChars() || l.read() == '\n' || l.read() == '\'' {
		return Token{}, l.errorAt(l.tokenStart, "expected a character after '\\''")
	}

	var char byte
	if l.read() == '\\' {
		c, err := l.processEscape()
		if err != nil {
			return Token{}, err
		}
		char = c
	} else {
		char = l.read()
		l.advance()
	}

	if !l.hasChars() || l.read() != '\'' {
		return Token{}, l.errorAt(l.tokenStart, "unterminated character literal")
	}
	l.advance()

	return l.makeToken(CHAR, string(char)), nil
}

func (l *Lexer) processPunctuation() (Token, error) {
	c := l.read()
	next := l.peek()

	two := func(kind TokenKind) (Token, error) {
		l.advance()
		l.advance()
		return l.makeToken(kind, kind.String()), nil
	}
	one := func(kind TokenKind) (Token, error) {
		l.advance()
		return l.makeToken(kind, kind.String()), nil
	}

	switch c {
	case '+':
		return one(PLUS)
	case '-':
		return one(MINUS)
	case '*':
		return one(ASTERISK)
	case '/':
		return one(SLASH)
	case '%':
		return one(PERCENT)
	case '=':
		if next == '=' {
			return two(EQ)
		}
		return one(ASSIGN)
	case '!':
		if next == '=' {
			return two(NEQ)
		}
	case '<':
		if next == '=' {
			return two(LEQ)
		}
		return one(LT)
	case '>':
		if next == '=' {
			return two(GEQ)
		}
		return one(GT)
	case '&':
		if next == '&' {
			return two(LAND)
		}
	case '|':
		if next == '|' {
			return two(LOR)
		}
	case '(':
		return one(LPAREN)
	case ')':
		return one(RPAREN)
	case '{':
		return one(LBRACE)
	case '}':
		return one(RBRACE)
	case ':':
		return one(COLON)
	case ';':
		return one(SEMICOLON)
	case ',':
		return one(COMMA)
	}

	return Token{}, l.errorAt(l.tokenStart, "unexpected character: '%s'", string(c))
}
