package generator

import (
	"fmt"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
	"github.com/bluesky-social/apigen/naming"
)

// structDecl declares a data type with one field per schema field, in schema
// order. Fields keep their schema name on the wire.
func (mg *moduleGen) structDecl(name, doc string, fields []*apischema.Type) (*decl.Declaration, error) {
	d := &decl.Declaration{Kind: decl.Data, Name: name, Doc: doc}

	var setters []decl.Element
	var accessors []*decl.Method
	for _, f := range fields {
		res, err := mg.resolve(f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if res.Void {
			return nil, fmt.Errorf("%w: field %s has no value type", ErrUnsupportedType, f.Name)
		}

		goName := mg.g.reserved.FieldName(f.Name)
		if !naming.IsIdentifier(goName) {
			return nil, fmt.Errorf("%w: field %q of %s", ErrInvalidIdentifier, f.Name, name)
		}
		d.Fields = append(d.Fields, &decl.Field{
			Name:     goName,
			WireName: f.Name,
			Type:     res.Type(),
			Optional: res.Optional,
			Doc:      docText(f.Doc()),
		})

		switch {
		case res.IsVariant():
			setters = append(setters, mg.variantSetter("SetVariant", f.Name, goName, res.Entry))
		case res.IsVariantSlice():
			setters = append(setters, mg.variantSetter("SetVariantSlice", f.Name, goName, res.Entry))
		}
		if res.Optional && mg.g.cfg.PresenceAccessors {
			accessors = append(accessors, presenceAccessor(goName))
		}
	}

	if len(setters) > 0 {
		d.Methods = append(d.Methods, mg.unmarshalWithVariants(name, setters))
	}
	d.Methods = append(d.Methods, accessors...)
	return d, nil
}

func presenceAccessor(field string) *decl.Method {
	return &decl.Method{
		Receiver:        "t",
		PointerReceiver: true,
		Name:            "Has" + field,
		Results:         []decl.TypeRef{decl.Builtin("bool")},
		Body: []decl.Stmt{
			decl.Ret(decl.Binary{X: decl.Selector{X: decl.Local("t"), Sel: field}, Op: "!=", Y: decl.Nil}),
		},
		Doc: fmt.Sprintf("Has%s reports whether %s is set.", field, field),
	}
}

// variantSetter is the map entry decoding one variant-typed member:
//
//	"wire": sdk.SetVariant(&t.Field, UnmarshalIface),
func (mg *moduleGen) variantSetter(helper, wire, field string, e *Entry) decl.Element {
	return decl.Element{
		Key: decl.StringLit{Value: wire},
		Value: decl.Call{
			Fun: mg.runtime(helper),
			Args: []decl.Expr{
				decl.AddrOf{X: decl.Selector{X: decl.Local("t"), Sel: field}},
				decl.Ident{Package: e.ImportPath, Name: unmarshalFuncName(e.GoName)},
			},
		},
	}
}

// unmarshalWithVariants builds UnmarshalJSON for a struct with variant-typed
// members. The alias type drops the method so the plain members decode with
// the default rules.
func (mg *moduleGen) unmarshalWithVariants(name string, setters []decl.Element) *decl.Method {
	return &decl.Method{
		Receiver:        "t",
		PointerReceiver: true,
		Name:            "UnmarshalJSON",
		Params:          []*decl.Param{{Name: "b", Type: decl.SliceOf(decl.Builtin("byte"))}},
		Errors:          true,
		Body: []decl.Stmt{
			decl.TypeDecl{Name: "alias", Type: decl.Named("", name)},
			decl.Ret(decl.Call{
				Fun: mg.runtime("UnmarshalWithVariants"),
				Args: []decl.Expr{
					decl.Local("b"),
					decl.Convert{Type: decl.PointerTo(decl.Named("", "alias")), X: decl.Local("t")},
					decl.Composite{
						Type:  decl.MapOf(decl.Builtin("string"), decl.Named(mg.g.cfg.RuntimeImport, "VariantSetter")),
						Elems: setters,
					},
				},
			}),
		},
	}
}
