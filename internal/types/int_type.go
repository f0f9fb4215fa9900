package types

import "fmt"

type IntType struct {
	Signed bool
	Bits   int
}

func (i *IntType) Type() string {
	if i.Signed {
		return fmt.Sprintf("i%d", i.Bits)
	}
	return fmt.Sprintf("u%d", i.Bits)
}

func (i *IntType) SameAs(other Type) bool {
	intType, ok := other.(*IntType)
	if !ok {
		return false
	}

	return i.Signed == intType.Signed && i.Bits == intType.Bits
}

// Fits reports whether value is representable in the type.
func (i *IntType) Fits(value int64) bool {
	if i.Signed {
		limit := int64(1) << (i.Bits - 1)
		return value >= -limit && value < limit
	}
	return value >= 0 && value < int64(1)<<i.Bits
}
