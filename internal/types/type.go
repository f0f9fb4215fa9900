package types

type Type interface {
	Type() string
	SameAs(t Type) bool
}

var (
	I32  = &IntType{Signed: true, Bits: 32}
	I8   = &IntType{Signed: true, Bits: 8}
	Bool = &BoolType{}
	Str  = &PointerType{InnerType: I8}
	Void = &VoidType{}
)

var builtins = map[string]Type{
	"i32":  I32,
	"i8":   I8,
	"bool": Bool,
	"str":  Str,
	"void": Void,
}

// Lookup resolves a type name written in source.
func Lookup(name string) (Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

func IsInt(t Type) bool {
	_, ok := t.(*IntType)
	return ok
}

func IsVoid(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}
