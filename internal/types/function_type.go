package types

import (
	"fmt"
	"strings"
)

type FunctionType struct {
	Name       string
	Args       []FunctionArgType
	ReturnType Type
	Extern     bool
}

type FunctionArgType struct {
	Name string
	Type
}

func (f *FunctionType) Type() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.Type.Type()
	}
	return fmt.Sprintf("fun %s(%s): %s", f.Name, strings.Join(args, ", "), f.ReturnType.Type())
}

// SameAs compares signatures, argument names do not matter.
func (f *FunctionType) SameAs(other Type) bool {
	otherFunc, ok := other.(*FunctionType)
	if !ok || len(f.Args) != len(otherFunc.Args) {
		return false
	}
	for i := range f.Args {
		if !f.Args[i].Type.SameAs(otherFunc.Args[i].Type) {
			return false
		}
	}
	return f.ReturnType.SameAs(otherFunc.ReturnType)
}
