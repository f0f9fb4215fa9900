package emitter

import (
	"testing"

	"github.com/kievzenit/rlang/internal/types"
	"github.com/nalgeon/be"
)

func TestScopeShadowingAndRedeclaration(t *testing.T) {
	outer := newScope(nil)
	_, ok := outer.defineVar("x", varDefinition{Type: types.I32})
	be.True(t, ok)

	_, ok = outer.defineVar("x", varDefinition{Type: types.Bool})
	be.Equal(t, ok, false)

	inner := newScope(outer)
	_, ok = inner.defineVar("x", varDefinition{Type: types.Bool})
	be.True(t, ok)

	v, ok := inner.lookupVar("x")
	be.True(t, ok)
	be.True(t, v.Type.SameAs(types.Bool))

	v, ok = outer.lookupVar("x")
	be.True(t, ok)
	be.True(t, v.Type.SameAs(types.I32))

	_, ok = inner.lookupVar("y")
	be.Equal(t, ok, false)
}
