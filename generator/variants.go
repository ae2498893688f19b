package generator

import (
	"fmt"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
	"github.com/bluesky-social/apigen/naming"
)

func unmarshalFuncName(iface string) string {
	return "Unmarshal" + iface
}

func markerName(iface string) string {
	return "is" + iface
}

// variantDecls declares the interface for an enum of types, one nested data
// type per variant, and the function decoding any variant from JSON by its
// discriminator.
func (mg *moduleGen) variantDecls(e *Entry, enum apischema.EnumOfTypes) (*decl.Declaration, *decl.Method, error) {
	key := mg.g.cfg.DiscriminatorKey
	iface := &decl.Declaration{
		Kind: decl.Interface,
		Name: e.GoName,
		Doc:  docText(e.Type.Doc()),
		Methods: []*decl.Method{
			{Name: markerName(e.GoName)},
			{
				Name:    "Type",
				Results: []decl.TypeRef{decl.Builtin("string")},
				Doc:     fmt.Sprintf("Type returns the variant name carried in the %q member.", key),
			},
		},
	}

	var cases []decl.Case
	for _, v := range enum.Variants {
		st, ok := v.Inner.(apischema.Struct)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s.%s is %T", ErrNonStructVariant, e.SchemaName, v.Name, v.Inner)
		}
		name := naming.NestedName(e.GoName, naming.Exported(v.Name))
		if !naming.IsIdentifier(name) {
			return nil, nil, fmt.Errorf("%w: variant %q of %s", ErrInvalidIdentifier, v.Name, e.SchemaName)
		}

		d, err := mg.structDecl(name, docText(v.Doc()), st.Fields)
		if err != nil {
			return nil, nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		for _, f := range d.Fields {
			if f.WireName == key {
				return nil, nil, fmt.Errorf("%w: variant %s field %q collides with the discriminator", ErrDuplicateDecl, v.Name, key)
			}
		}
		d.Methods = append(mg.variantMethods(e.GoName, name, v.Name), d.Methods...)
		iface.Nested = append(iface.Nested, d)

		cases = append(cases, decl.Case{
			Values: []decl.Expr{decl.StringLit{Value: v.Name}},
			Body: []decl.Stmt{
				decl.Define{Names: []string{"v"}, Values: []decl.Expr{
					decl.Composite{Type: decl.Named("", name)},
				}},
				decl.If{
					Init: decl.Define{Names: []string{"err"}, Values: []decl.Expr{
						decl.Call{
							Fun:  mg.runtime("Unmarshal"),
							Args: []decl.Expr{decl.Local("b"), decl.AddrOf{X: decl.Local("v")}},
						},
					}},
					Cond: decl.Binary{X: decl.Local("err"), Op: "!=", Y: decl.Nil},
					Body: []decl.Stmt{decl.Ret(decl.Nil, decl.Local("err"))},
				},
				decl.Ret(decl.Local("v"), decl.Nil),
			},
		})
	}

	fn := &decl.Method{
		Name:    unmarshalFuncName(e.GoName),
		Params:  []*decl.Param{{Name: "b", Type: decl.SliceOf(decl.Builtin("byte"))}},
		Results: []decl.TypeRef{decl.InterfaceRef("", e.GoName)},
		Errors:  true,
		Doc: fmt.Sprintf("%s decodes a %s from JSON, choosing the variant by its %q member.",
			unmarshalFuncName(e.GoName), e.GoName, key),
		Body: []decl.Stmt{
			decl.Define{Names: []string{"typ", "err"}, Values: []decl.Expr{
				decl.Call{Fun: mg.runtime("TypeExtract"), Args: []decl.Expr{decl.StringLit{Value: key}, decl.Local("b")}},
			}},
			decl.ErrCheck(decl.Nil, decl.Local("err")),
			decl.Switch{
				Tag:   decl.Local("typ"),
				Cases: cases,
				Default: []decl.Stmt{
					decl.Ret(decl.Nil, decl.Call{
						Fun:  mg.runtime("UnknownVariant"),
						Args: []decl.Expr{decl.StringLit{Value: e.GoName}, decl.Local("typ")},
					}),
				},
			},
		},
	}
	return iface, fn, nil
}

// variantMethods are the members every variant carries: the interface
// marker, the discriminator accessor, and MarshalJSON adding the
// discriminator to the encoded object.
func (mg *moduleGen) variantMethods(iface, name, wire string) []*decl.Method {
	key := mg.g.cfg.DiscriminatorKey
	return []*decl.Method{
		{Receiver: "v", Name: markerName(iface)},
		{
			Receiver:    "v",
			Name:        "Type",
			Results:     []decl.TypeRef{decl.Builtin("string")},
			Annotations: []decl.Annotation{{Kind: decl.Discriminator, Value: key}},
			Body:        []decl.Stmt{decl.Ret(decl.StringLit{Value: wire})},
		},
		{
			Receiver: "v",
			Name:     "MarshalJSON",
			Results:  []decl.TypeRef{decl.SliceOf(decl.Builtin("byte"))},
			Errors:   true,
			Body: []decl.Stmt{
				decl.TypeDecl{Name: "alias", Type: decl.Named("", name)},
				decl.Ret(decl.Call{
					Fun: mg.runtime("MarshalVariant"),
					Args: []decl.Expr{
						decl.StringLit{Value: key},
						decl.StringLit{Value: wire},
						decl.Convert{Type: decl.Named("", "alias"), X: decl.Local("v")},
					},
				}),
			},
		},
	}
}
