package types

type PointerType struct {
	InnerType Type
}

// str is the only pointer a program can name, so it is printed that way.
func (t *PointerType) Type() string {
	if t.InnerType.SameAs(I8) {
		return "str"
	}
	return "*" + t.InnerType.Type()
}

func (t *PointerType) SameAs(other Type) bool {
	if pointerType, ok := other.(*PointerType); ok {
		return t.InnerType.SameAs(pointerType.InnerType)
	}
	return false
}
