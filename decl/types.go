// Package decl is a target-neutral model of the declarations in one
// generated source file: data types, interfaces, enums, and functions with
// bodies built from statement and expression nodes.
//
// Nothing here knows about the schema; generators fill it in and the emitter
// renders it.
package decl

import (
	"fmt"
	"strings"
)

type RefKind int

const (
	RefNamed RefKind = iota
	RefPointer
	RefSlice
	RefMap
	RefBuiltin
	RefVoid
)

// TypeRef is a renderable type expression.
type TypeRef struct {
	Kind RefKind
	// import path for RefNamed; empty for types declared in the same file
	Package string
	// RefNamed and RefBuiltin
	Name string
	// RefNamed type arguments
	Args []TypeRef
	// RefPointer, RefSlice element; RefMap value
	Elem *TypeRef
	// RefMap key
	Key *TypeRef
	// RefNamed types that are interfaces (or otherwise nil-able)
	Interface bool
}

var Void = TypeRef{Kind: RefVoid}

func Named(pkg, name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: RefNamed, Package: pkg, Name: name, Args: args}
}

// InterfaceRef is a Named reference to an interface type.
func InterfaceRef(pkg, name string) TypeRef {
	return TypeRef{Kind: RefNamed, Package: pkg, Name: name, Interface: true}
}

func Builtin(name string) TypeRef {
	return TypeRef{Kind: RefBuiltin, Name: name}
}

func PointerTo(t TypeRef) TypeRef {
	return TypeRef{Kind: RefPointer, Elem: &t}
}

func SliceOf(t TypeRef) TypeRef {
	return TypeRef{Kind: RefSlice, Elem: &t}
}

func MapOf(k, v TypeRef) TypeRef {
	return TypeRef{Kind: RefMap, Key: &k, Elem: &v}
}

func (t TypeRef) IsVoid() bool {
	return t.Kind == RefVoid
}

// Nilable reports whether the zero value of t is nil, meaning optional values
// of this type need no extra pointer.
func (t TypeRef) Nilable() bool {
	switch t.Kind {
	case RefPointer, RefSlice, RefMap:
		return true
	case RefBuiltin:
		return t.Name == "any" || t.Name == "error"
	case RefNamed:
		return t.Interface
	default:
		return false
	}
}

// Optional returns the representation of an optional value of type t.
func (t TypeRef) Optional() TypeRef {
	if t.Nilable() {
		return t
	}
	return PointerTo(t)
}

// Packages returns every import path referenced by t.
func (t TypeRef) Packages() []string {
	var out []string
	t.walk(func(r TypeRef) {
		if r.Kind == RefNamed && r.Package != "" {
			out = append(out, r.Package)
		}
	})
	return out
}

func (t TypeRef) walk(fn func(TypeRef)) {
	fn(t)
	if t.Key != nil {
		t.Key.walk(fn)
	}
	if t.Elem != nil {
		t.Elem.walk(fn)
	}
	for _, a := range t.Args {
		a.walk(fn)
	}
}

// String renders t with full import paths, for diagnostics.
func (t TypeRef) String() string {
	switch t.Kind {
	case RefNamed:
		name := t.Name
		if t.Package != "" {
			name = fmt.Sprintf("%q.%s", t.Package, t.Name)
		}
		if len(t.Args) > 0 {
			args := make([]string, len(t.Args))
			for i, a := range t.Args {
				args[i] = a.String()
			}
			name += "[" + strings.Join(args, ", ") + "]"
		}
		return name
	case RefPointer:
		return "*" + t.Elem.String()
	case RefSlice:
		return "[]" + t.Elem.String()
	case RefMap:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	case RefBuiltin:
		return t.Name
	case RefVoid:
		return "<void>"
	default:
		return fmt.Sprintf("<kind %d>", int(t.Kind))
	}
}
