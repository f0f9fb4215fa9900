package peg

import (
	"fmt"

	"github.com/kievzenit/rlang/internal/lexer"
)

// Expr is one element of a rule body. Expressions are built with the
// constructors below and interpreted by the matcher.
type Expr interface {
	match(m *matcher) ([]*Node, bool)
}

type tokExpr struct {
	kind lexer.TokenKind
	keep bool
}

type seqExpr struct {
	items []Expr
}

type choiceExpr struct {
	alts []Expr
}

type starExpr struct {
	item Expr
}

type optExpr struct {
	item Expr
}

type refExpr struct {
	name string
}

// Tok matches one token of the given kind and keeps it as a leaf of the parse tree.
func Tok(kind lexer.TokenKind) Expr { return &tokExpr{kind: kind, keep: true} }

// Lit matches one token of the given kind without keeping it in the tree.
func Lit(kind lexer.TokenKind) Expr { return &tokExpr{kind: kind} }

func Seq(items ...Expr) Expr { return &seqExpr{items: items} }

// Choice tries alts in order and commits to the first one that matches.
func Choice(alts ...Expr) Expr { return &choiceExpr{alts: alts} }

func Star(item Expr) Expr { return &starExpr{item: item} }

func Opt(item Expr) Expr { return &optExpr{item: item} }

func Ref(name string) Expr { return &refExpr{name: name} }

// Rule names a grammar production. A silent rule does not produce a node of its
// own, its children are spliced into the enclosing rule's node.
type Rule struct {
	Name   string
	Expr   Expr
	Silent bool
}

type Grammar struct {
	Start string

	rules map[string]*Rule
	order []string
}

func NewGrammar(start string, rules ...Rule) (*Grammar, error) {
	g := &Grammar{
		Start: start,

		rules: make(map[string]*Rule, len(rules)),
		order: make([]string, 0, len(rules)),
	}

	for i := range rules {
		rule := rules[i]
		if _, ok := g.rules[rule.Name]; ok {
			return nil, fmt.Errorf("grammar: rule %q defined twice", rule.Name)
		}
		g.rules[rule.Name] = &rule
		g.order = append(g.order, rule.Name)
	}

	if _, ok := g.rules[start]; !ok {
		return nil, fmt.Errorf("grammar: start rule %q is not defined", start)
	}

	for _, name := range g.order {
		if err := g.checkRefs(name, g.rules[name].Expr); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func MustGrammar(start string, rules ...Rule) *Grammar {
	g, err := NewGrammar(start, rules...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grammar) checkRefs(ruleName string, expr Expr) error {
	switch expr := expr.(type) {
	case *refExpr:
		if _, ok := g.rules[expr.name]; !ok {
			return fmt.Errorf("grammar: rule %q references undefined rule %q", ruleName, expr.name)
		}
	case *seqExpr:
		for _, item := range expr.items {
			if err := g.checkRefs(ruleName, item); err != nil {
				return err
			}
		}
	case *choiceExpr:
		for _, alt := range expr.alts {
			if err := g.checkRefs(ruleName, alt); err != nil {
				return err
			}
		}
	case *starExpr:
		return g.checkRefs(ruleName, expr.item)
	case *optExpr:
		return g.checkRefs(ruleName, expr.item)
	case *tokExpr:
	default:
		return fmt.Errorf("grammar: rule %q contains unknown expression %T", ruleName, expr)
	}
	return nil
}

// Rules returns the rule names in declaration order.
func (g *Grammar) Rules() []string {
	return append([]string(nil), g.order...)
}
