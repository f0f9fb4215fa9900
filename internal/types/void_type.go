package types

type VoidType struct{}

func (*VoidType) Type() string {
	return "void"
}

func (*VoidType) SameAs(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}
