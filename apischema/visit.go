package apischema

import "fmt"

// Visitor handles every schema type variant. Adding a variant to Inner adds a
// method here, so every implementation must be updated.
type Visitor[R any] interface {
	VisitPrimitive(t *Type, v Primitive) (R, error)
	VisitRef(t *Type, v Ref) (R, error)
	VisitOptional(t *Type, v Optional) (R, error)
	VisitArray(t *Type, v Array) (R, error)
	VisitGeneric(t *Type, v Generic) (R, error)
	VisitStruct(t *Type, v Struct) (R, error)
	VisitEnumOfTypes(t *Type, v EnumOfTypes) (R, error)
	VisitEnumOfConsts(t *Type, v EnumOfConsts) (R, error)
	VisitNone(t *Type, v None) (R, error)
}

// Visit dispatches t to the matching Visitor method.
func Visit[R any](t *Type, v Visitor[R]) (R, error) {
	switch in := t.Inner.(type) {
	case Primitive:
		return v.VisitPrimitive(t, in)
	case Ref:
		return v.VisitRef(t, in)
	case Optional:
		return v.VisitOptional(t, in)
	case Array:
		return v.VisitArray(t, in)
	case Generic:
		return v.VisitGeneric(t, in)
	case Struct:
		return v.VisitStruct(t, in)
	case EnumOfTypes:
		return v.VisitEnumOfTypes(t, in)
	case EnumOfConsts:
		return v.VisitEnumOfConsts(t, in)
	case None:
		return v.VisitNone(t, in)
	}
	// only reachable for a Type built by hand without an Inner
	var zero R
	return zero, fmt.Errorf("%w: type %q has no variant", ErrMalformed, t.Name)
}
