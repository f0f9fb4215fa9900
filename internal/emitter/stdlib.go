package emitter

import (
	"github.com/kievzenit/rlang/internal/types"
)

// PrintFunc is the print routine exported by libstd.a. It takes a
// null-terminated string and returns nothing.
const PrintFunc = "coitusinterruptus"

// Stdlib lists the routines libstd.a exports. Names and signatures must match
// the archive exactly; they are declared on every module before any body is lowered.
var Stdlib = []*types.FunctionType{
	{
		Name:       PrintFunc,
		Args:       []types.FunctionArgType{{Name: "s", Type: types.Str}},
		ReturnType: types.Void,
		Extern:     true,
	},
}
