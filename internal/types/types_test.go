package types

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"i32", "i8", "bool", "str", "void"} {
		typ, ok := Lookup(name)
		be.True(t, ok)
		be.Equal(t, typ.Type(), name)
	}

	_, ok := Lookup("f64")
	be.Equal(t, ok, false)
}

func TestSameAs(t *testing.T) {
	be.True(t, I32.SameAs(&IntType{Signed: true, Bits: 32}))
	be.Equal(t, I32.SameAs(I8), false)
	be.Equal(t, Bool.SameAs(I32), false)
	be.True(t, Str.SameAs(&PointerType{InnerType: I8}))
	be.Equal(t, Str.SameAs(&PointerType{InnerType: I32}), false)
	be.True(t, Void.SameAs(Void))
}

func TestIntFits(t *testing.T) {
	be.True(t, I32.Fits(2147483647))
	be.Equal(t, I32.Fits(2147483648), false)
	be.True(t, I8.Fits(-128))
	be.Equal(t, I8.Fits(128), false)

	u8 := &IntType{Bits: 8}
	be.Equal(t, u8.Type(), "u8")
	be.True(t, u8.Fits(255))
	be.Equal(t, u8.Fits(-1), false)
}

func TestFunctionTypeIgnoresArgNames(t *testing.T) {
	a := &FunctionType{Name: "f", Args: []FunctionArgType{{Name: "x", Type: I32}}, ReturnType: Void}
	b := &FunctionType{Name: "f", Args: []FunctionArgType{{Name: "y", Type: I32}}, ReturnType: Void}
	c := &FunctionType{Name: "f", Args: []FunctionArgType{{Name: "x", Type: I8}}, ReturnType: Void}

	be.True(t, a.SameAs(b))
	be.Equal(t, a.SameAs(c), false)
	be.Equal(t, a.Type(), "fun f(i32): void")
}
