package peg

import (
	"testing"

	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/lexer"
	"github.com/nalgeon/be"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.NewLexer("test.rl", []byte(src)).Tokenize()
	be.Err(t, err, nil)
	return tokens
}

func tags(nodes []*Node) []string {
	result := make([]string, len(nodes))
	for i, node := range nodes {
		result[i] = node.Tag()
	}
	return result
}

var sumGrammar = MustGrammar("Sum",
	Rule{Name: "Sum", Expr: Seq(Ref("Num"), Star(Seq(Tok(lexer.PLUS), Ref("Num"))), Lit(lexer.EOF))},
	Rule{Name: "Num", Expr: Tok(lexer.INT)},
)

func TestParseBuildsTree(t *testing.T) {
	root, err := sumGrammar.Parse("test.rl", tokenize(t, "1 + 2"))
	be.Err(t, err, nil)

	be.Equal(t, root.Rule, "Sum")
	be.Equal(t, tags(root.Children), []string{"Num", "+", "Num"})
	be.Equal(t, root.Children[2].Children[0].Token.Value, "2")

	be.Equal(t, root.Span.Start.Column, 1)
	be.Equal(t, root.Span.End.Offset, 5)
	be.Equal(t, root.Children[2].Span.Start.Column, 5)
}

func TestSilentRuleSplicesChildren(t *testing.T) {
	g := MustGrammar("List",
		Rule{Name: "List", Expr: Seq(Star(Ref("Atom")), Lit(lexer.EOF))},
		Rule{Name: "Atom", Silent: true, Expr: Choice(Tok(lexer.INT), Tok(lexer.IDENT))},
	)

	root, err := g.Parse("test.rl", tokenize(t, "1 a 2"))
	be.Err(t, err, nil)
	be.Equal(t, tags(root.Children), []string{"INT", "IDENT", "INT"})
}

func TestOrderedChoiceCommits(t *testing.T) {
	g := MustGrammar("Start",
		Rule{Name: "Start", Expr: Seq(Choice(Ref("Name"), Ref("Call")), Lit(lexer.EOF))},
		Rule{Name: "Name", Expr: Tok(lexer.IDENT)},
		Rule{Name: "Call", Expr: Seq(Tok(lexer.IDENT), Lit(lexer.LPAREN), Lit(lexer.RPAREN))},
	)

	_, err := g.Parse("test.rl", tokenize(t, "f()"))

	synErr, ok := err.(*compiler_errors.SyntaxError)
	be.True(t, ok)
	be.Equal(t, synErr.Found, "'('")
	be.Equal(t, synErr.Expected, []string{"EOF"})
	be.Equal(t, synErr.Pos.Column, 2)
}

func TestFailureReportsFarthestRule(t *testing.T) {
	g := MustGrammar("Program",
		Rule{Name: "Program", Expr: Seq(Star(Ref("Let")), Lit(lexer.EOF))},
		Rule{Name: "Let", Expr: Seq(
			Lit(lexer.LET), Tok(lexer.IDENT), Lit(lexer.ASSIGN), Ref("Num"), Lit(lexer.SEMICOLON),
		)},
		Rule{Name: "Num", Expr: Tok(lexer.INT)},
	)

	_, err := g.Parse("test.rl", tokenize(t, "let x = 1;\nlet y = ;"))

	synErr, ok := err.(*compiler_errors.SyntaxError)
	be.True(t, ok)
	be.Equal(t, synErr.Expected, []string{"Num"})
	be.Equal(t, synErr.Found, "';'")
	be.Equal(t, synErr.Pos.Line, 2)
	be.Equal(t, synErr.Pos.Column, 9)
	be.Equal(t, synErr.Error(), "test.rl:2:9: syntax error: unexpected ';', expected Num")
}

func TestFailureListsEveryAlternative(t *testing.T) {
	g := MustGrammar("Start",
		Rule{Name: "Start", Expr: Seq(Lit(lexer.LET), Ref("Value"), Lit(lexer.EOF))},
		Rule{Name: "Value", Silent: true, Expr: Choice(Tok(lexer.INT), Tok(lexer.STRING), Tok(lexer.IDENT))},
	)

	_, err := g.Parse("test.rl", tokenize(t, "let ;"))

	synErr, ok := err.(*compiler_errors.SyntaxError)
	be.True(t, ok)
	be.Equal(t, synErr.Expected, []string{"IDENT", "INT", "STRING"})
	be.Equal(t, synErr.GetMessage(), "unexpected ';', expected one of: IDENT, INT, STRING")
}

func TestParseIsDeterministic(t *testing.T) {
	tokens := tokenize(t, "1 + 2 + 3")

	first, err := sumGrammar.Parse("test.rl", tokens)
	be.Err(t, err, nil)
	second, err := sumGrammar.Parse("test.rl", tokens)
	be.Err(t, err, nil)

	be.Equal(t, first.String(), second.String())
}

func TestStarStopsWithoutProgress(t *testing.T) {
	g := MustGrammar("Start",
		Rule{Name: "Start", Expr: Seq(Star(Opt(Tok(lexer.INT))), Lit(lexer.EOF))},
	)

	root, err := g.Parse("test.rl", tokenize(t, "1 2"))
	be.Err(t, err, nil)
	be.Equal(t, len(root.Children), 2)
}

func TestNewGrammarValidates(t *testing.T) {
	_, err := NewGrammar("Start", Rule{Name: "Start", Expr: Ref("Missing")})
	be.Err(t, err, `grammar: rule "Start" references undefined rule "Missing"`)

	_, err = NewGrammar("Start",
		Rule{Name: "Start", Expr: Tok(lexer.INT)},
		Rule{Name: "Start", Expr: Tok(lexer.IDENT)},
	)
	be.Err(t, err, `grammar: rule "Start" defined twice`)

	_, err = NewGrammar("Start", Rule{Name: "Other", Expr: Tok(lexer.INT)})
	be.Err(t, err, `grammar: start rule "Start" is not defined`)
}

func TestRulesKeepsDeclarationOrder(t *testing.T) {
	be.Equal(t, sumGrammar.Rules(), []string{"Sum", "Num"})
}
