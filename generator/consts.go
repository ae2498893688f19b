package generator

import (
	"fmt"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
	"github.com/bluesky-social/apigen/naming"
)

// enumDecl declares a string type with one constant per member.
func (mg *moduleGen) enumDecl(e *Entry, enum apischema.EnumOfConsts) (*decl.Declaration, error) {
	d := &decl.Declaration{
		Kind:       decl.Enum,
		Name:       e.GoName,
		Doc:        docText(e.Type.Doc()),
		Underlying: decl.Builtin("string"),
	}
	for _, c := range enum.Consts {
		member := naming.Exported(c.Name)
		if !naming.IsIdentifier(member) {
			member = naming.Exported(naming.ToIdentifierCase(c.Name))
		}
		name := naming.NestedName(e.GoName, member)
		if !naming.IsIdentifier(name) {
			return nil, fmt.Errorf("%w: constant %q of %s", ErrInvalidIdentifier, c.Name, e.SchemaName)
		}
		d.Consts = append(d.Consts, &decl.Const{
			Name:  name,
			Value: decl.StringLit{Value: c.Value},
			Doc:   docText(c.Doc()),
		})
	}
	return d, nil
}

// definedDecl declares a named type over any other module-level type, such
// as a numeric handle or an alias of another module's struct.
func (mg *moduleGen) definedDecl(e *Entry) (*decl.Declaration, error) {
	res, err := mg.resolve(e.Type)
	if err != nil {
		return nil, err
	}
	if res.Void {
		return &decl.Declaration{Kind: decl.Data, Name: e.GoName, Doc: docText(e.Type.Doc())}, nil
	}
	return &decl.Declaration{
		Kind:       decl.Defined,
		Name:       e.GoName,
		Doc:        docText(e.Type.Doc()),
		Underlying: res.Type(),
	}, nil
}
