package lexer

// TokenScanner walks a token slice. Pos and Seek let a parser save a
// position and come back to it when an alternative fails.
type TokenScanner interface {
	Read() Token
	Peek() Token
	Unread()
	Pos() int
	Seek(pos int)
}

type SimpleTokenScanner struct {
	tokens []Token

	pos int
}

// NewTokenScanner expects tokens to end with EOF, as produced by Lexer.Tokenize.
func NewTokenScanner(tokens []Token) TokenScanner {
	return &SimpleTokenScanner{
		tokens: tokens,
	}
}

func (s *SimpleTokenScanner) Read() Token {
	token := s.Peek()
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}

	return token
}

// Peek returns the current token; past the end it keeps returning EOF.
func (s *SimpleTokenScanner) Peek() Token {
	if len(s.tokens) == 0 {
		return Token{Kind: EOF}
	}
	if s.pos >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[s.pos]
}

func (s *SimpleTokenScanner) Unread() {
	if s.pos > 0 {
		s.pos--
	}
}

func (s *SimpleTokenScanner) Pos() int {
	return s.pos
}

func (s *SimpleTokenScanner) Seek(pos int) {
	s.pos = pos
}
