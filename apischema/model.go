// Package apischema holds the in-memory model of an API reference document:
// modules, their type definitions, and their functions.
//
// The model is built once per run by Parse or Load and is not modified
// afterwards.
package apischema

import (
	"fmt"
	"strings"
)

// Reference is the root of an API reference document.
type Reference struct {
	Version string
	Modules []*Module
}

// Module returns the module with the given name, or nil.
func (r *Reference) Module(name string) *Module {
	for _, m := range r.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

type Module struct {
	Name        string
	Summary     string
	Description string
	Types       []*Type
	Functions   []*Function
}

func (m *Module) Doc() string {
	return joinDoc(m.Summary, m.Description)
}

// Type returns the module-level type definition with the given name, or nil.
func (m *Module) Type(name string) *Type {
	for _, t := range m.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

type Function struct {
	Name        string
	Summary     string
	Description string
	Params      []*Type
	Result      *Type
}

// Type is a named (or anonymous, for nested positions) schema type. The
// variant is carried by Inner.
type Type struct {
	Name        string
	Summary     string
	Description string
	Inner       Inner
}

func (t *Type) String() string {
	if t.Name == "" {
		return describe(t.Inner)
	}
	return fmt.Sprintf("%s: %s", t.Name, describe(t.Inner))
}

// Doc joins summary and description into a single paragraph-separated text.
func (t *Type) Doc() string {
	return joinDoc(t.Summary, t.Description)
}

// Doc joins summary and description into a single paragraph-separated text.
func (f *Function) Doc() string {
	return joinDoc(f.Summary, f.Description)
}

func joinDoc(summary, description string) string {
	summary = strings.TrimSpace(summary)
	description = strings.TrimSpace(description)
	switch {
	case summary == "":
		return description
	case description == "" || description == summary:
		return summary
	default:
		return summary + "\n\n" + description
	}
}

// Inner is the closed set of schema type variants. Use Visit for exhaustive
// handling.
type Inner interface {
	isInner()
}

type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveBoolean
	PrimitiveNumber
	PrimitiveBigInt
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveString:
		return "String"
	case PrimitiveBoolean:
		return "Boolean"
	case PrimitiveNumber:
		return "Number"
	case PrimitiveBigInt:
		return "BigInt"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

type NumberType int

const (
	NumberInt NumberType = iota
	NumberUInt
	NumberFloat
)

func (n NumberType) String() string {
	switch n {
	case NumberInt:
		return "Int"
	case NumberUInt:
		return "UInt"
	case NumberFloat:
		return "Float"
	default:
		return fmt.Sprintf("NumberType(%d)", int(n))
	}
}

type Primitive struct {
	Kind       PrimitiveKind
	NumberType NumberType
	// bit width; zero means unspecified
	NumberSize int
}

// Ref names another type, optionally qualified as "module.Name".
type Ref struct {
	Name string
}

type Optional struct {
	Inner *Type
}

type Array struct {
	Item *Type
}

// Generic is a named wrapper around type arguments, e.g. a result envelope.
type Generic struct {
	Name string
	Args []*Type
}

type Struct struct {
	Fields []*Type
}

// EnumOfTypes is a closed set of variants. Each variant is expected to be a
// Struct; that is checked during generation rather than parsing, so the
// offending definition can be reported with its module context.
type EnumOfTypes struct {
	Variants []*Type
}

type EnumOfConsts struct {
	Consts []*Const
}

type None struct{}

// Const is a single member of an EnumOfConsts.
type Const struct {
	Name        string
	Summary     string
	Description string
	// wire value; defaults to Name
	Value string
}

func (c *Const) Doc() string {
	return joinDoc(c.Summary, c.Description)
}

func (Primitive) isInner()    {}
func (Ref) isInner()          {}
func (Optional) isInner()     {}
func (Array) isInner()        {}
func (Generic) isInner()      {}
func (Struct) isInner()       {}
func (EnumOfTypes) isInner()  {}
func (EnumOfConsts) isInner() {}
func (None) isInner()         {}

func describe(in Inner) string {
	switch v := in.(type) {
	case Primitive:
		if v.Kind == PrimitiveNumber || v.Kind == PrimitiveBigInt {
			if v.NumberSize > 0 {
				return fmt.Sprintf("%s(%s%d)", v.Kind, v.NumberType, v.NumberSize)
			}
			return fmt.Sprintf("%s(%s)", v.Kind, v.NumberType)
		}
		return v.Kind.String()
	case Ref:
		return "Ref(" + v.Name + ")"
	case Optional:
		return "Optional<" + describe(v.Inner.Inner) + ">"
	case Array:
		return "Array<" + describe(v.Item.Inner) + ">"
	case Generic:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = describe(a.Inner)
		}
		return v.Name + "<" + strings.Join(args, ", ") + ">"
	case Struct:
		return fmt.Sprintf("Struct(%d fields)", len(v.Fields))
	case EnumOfTypes:
		return fmt.Sprintf("EnumOfTypes(%d variants)", len(v.Variants))
	case EnumOfConsts:
		return fmt.Sprintf("EnumOfConsts(%d consts)", len(v.Consts))
	case None:
		return "None"
	default:
		return "<invalid>"
	}
}
