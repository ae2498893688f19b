package generator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
)

// Resolved is the target representation of a schema type in a use position.
type Resolved struct {
	Ref decl.TypeRef
	// Optional values are rendered with Ref.Optional().
	Optional bool
	Void     bool
	// Entry is the registered type when the schema type is a (possibly
	// wrapped) reference to one, or a slice of one when Slice is set.
	Entry *Entry
	Slice bool
}

// Type returns the field or parameter type for r.
func (r Resolved) Type() decl.TypeRef {
	if r.Optional {
		return r.Ref.Optional()
	}
	return r.Ref
}

// IsVariant reports whether r is a variant interface.
func (r Resolved) IsVariant() bool {
	return !r.Slice && r.Entry != nil && r.Entry.Kind == decl.Interface
}

// IsVariantSlice reports whether r is a slice of a variant interface.
func (r Resolved) IsVariantSlice() bool {
	return r.Slice && r.Entry.Kind == decl.Interface
}

// Resolver maps schema types to target type references. Names are resolved
// relative to a module.
type Resolver struct {
	reg *Registry
	cfg *Config
}

func NewResolver(reg *Registry, cfg *Config) *Resolver {
	return &Resolver{reg: reg, cfg: cfg}
}

// Resolve maps t, which appears inside module.
func (r *Resolver) Resolve(t *apischema.Type, module string) (Resolved, error) {
	return apischema.Visit[Resolved](t, &resolveVisitor{r: r, module: module})
}

// LookupRef resolves a reference name to a registered type, reporting false
// for aliases and unknown names.
func (r *Resolver) LookupRef(name, module string) (*Entry, bool) {
	target, local := r.split(name, module)
	return r.reg.Lookup(target, local)
}

// split strips a module prefix: the current module's prefix is dropped, and
// another module's prefix selects that module.
func (r *Resolver) split(name, module string) (target, local string) {
	prefix, rest, ok := strings.Cut(name, ".")
	if ok && (prefix == module || r.reg.HasModule(prefix)) {
		return prefix, rest
	}
	return module, name
}

func (r *Resolver) runtimeType(name string) decl.TypeRef {
	return decl.Named(r.cfg.RuntimeImport, name)
}

type resolveVisitor struct {
	r      *Resolver
	module string
}

var jsonNumber = decl.Named("encoding/json", "Number")

func sizedNumber(prefix string, size int) decl.TypeRef {
	switch {
	case size == 0:
		return decl.Builtin(prefix)
	case size <= 8:
		return decl.Builtin(prefix + "8")
	case size <= 16:
		return decl.Builtin(prefix + "16")
	case size <= 32:
		return decl.Builtin(prefix + "32")
	case size <= 64:
		return decl.Builtin(prefix + "64")
	default:
		return jsonNumber
	}
}

func (v *resolveVisitor) VisitPrimitive(t *apischema.Type, p apischema.Primitive) (Resolved, error) {
	switch p.Kind {
	case apischema.PrimitiveString:
		return Resolved{Ref: decl.Builtin("string")}, nil
	case apischema.PrimitiveBoolean:
		return Resolved{Ref: decl.Builtin("bool")}, nil
	case apischema.PrimitiveBigInt:
		return Resolved{Ref: jsonNumber}, nil
	}

	switch p.NumberType {
	case apischema.NumberUInt:
		return Resolved{Ref: sizedNumber("uint", p.NumberSize)}, nil
	case apischema.NumberFloat:
		if p.NumberSize > 0 && p.NumberSize <= 32 {
			return Resolved{Ref: decl.Builtin("float32")}, nil
		}
		return Resolved{Ref: decl.Builtin("float64")}, nil
	default:
		return Resolved{Ref: sizedNumber("int", p.NumberSize)}, nil
	}
}

func (v *resolveVisitor) VisitRef(t *apischema.Type, ref apischema.Ref) (Resolved, error) {
	target, local := v.r.split(ref.Name, v.module)
	if e, ok := v.r.reg.Lookup(target, local); ok {
		return Resolved{Ref: e.Ref(), Entry: e}, nil
	}

	if target == v.module {
		if slices.Contains(v.r.cfg.OpenMapTypes, local) {
			return Resolved{Ref: decl.MapOf(decl.Builtin("string"), decl.Builtin("any"))}, nil
		}
		if slices.Contains(v.r.cfg.ContextTypes, local) {
			return Resolved{Ref: decl.PointerTo(v.r.runtimeType("Client"))}, nil
		}
	}
	return Resolved{}, fmt.Errorf("%w: %q in module %s", ErrUnresolvedRef, ref.Name, v.module)
}

func (v *resolveVisitor) VisitOptional(t *apischema.Type, o apischema.Optional) (Resolved, error) {
	in, err := apischema.Visit[Resolved](o.Inner, v)
	if err != nil {
		return Resolved{}, err
	}
	if in.Void {
		return in, nil
	}
	in.Optional = true
	return in, nil
}

func (v *resolveVisitor) VisitArray(t *apischema.Type, a apischema.Array) (Resolved, error) {
	item, err := apischema.Visit[Resolved](a.Item, v)
	if err != nil {
		return Resolved{}, err
	}
	if item.Void {
		return Resolved{}, fmt.Errorf("%w: array of None in module %s", ErrUnsupportedType, v.module)
	}
	out := Resolved{Ref: decl.SliceOf(item.Type())}
	if item.Entry != nil && !item.Slice {
		out.Entry, out.Slice = item.Entry, true
	}
	return out, nil
}

// Generic wrappers resolve to their first type argument.
func (v *resolveVisitor) VisitGeneric(t *apischema.Type, g apischema.Generic) (Resolved, error) {
	return apischema.Visit[Resolved](g.Args[0], v)
}

func (v *resolveVisitor) inline(kind string) (Resolved, error) {
	return Resolved{}, fmt.Errorf("%w: inline %s in module %s", ErrUnsupportedType, kind, v.module)
}

func (v *resolveVisitor) VisitStruct(t *apischema.Type, s apischema.Struct) (Resolved, error) {
	return v.inline("struct")
}

func (v *resolveVisitor) VisitEnumOfTypes(t *apischema.Type, e apischema.EnumOfTypes) (Resolved, error) {
	return v.inline("enum of types")
}

func (v *resolveVisitor) VisitEnumOfConsts(t *apischema.Type, e apischema.EnumOfConsts) (Resolved, error) {
	return v.inline("enum of consts")
}

func (v *resolveVisitor) VisitNone(t *apischema.Type, n apischema.None) (Resolved, error) {
	return Resolved{Ref: decl.Void, Void: true}, nil
}
