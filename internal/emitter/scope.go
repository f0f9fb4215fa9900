package emitter

import (
	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/types"
	"tinygo.org/x/go-llvm"
)

type varDefinition struct {
	Slot llvm.Value
	Type types.Type
	Span ast.Span
}

type scope struct {
	parent    *scope
	variables map[string]varDefinition
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, variables: make(map[string]varDefinition)}
}

func (s *scope) lookupVar(name string) (varDefinition, bool) {
	v, ok := s.variables[name]
	if ok {
		return v, true
	}

	if s.parent != nil {
		return s.parent.lookupVar(name)
	}

	return varDefinition{}, false
}

// defineVar binds name in this scope. It returns the existing definition and
// false when the name is already bound here; outer bindings are shadowed freely.
func (s *scope) defineVar(name string, v varDefinition) (varDefinition, bool) {
	if existing, ok := s.variables[name]; ok {
		return existing, false
	}
	s.variables[name] = v
	return v, true
}
