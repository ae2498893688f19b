package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeRefs(t *testing.T) {
	assert := assert.New(t)

	str := Builtin("string")
	assert.False(str.Nilable())
	assert.Equal("*string", str.Optional().String())

	list := SliceOf(str)
	assert.True(list.Nilable())
	assert.Equal("[]string", list.Optional().String())

	m := MapOf(str, Builtin("any"))
	assert.Equal("map[string]any", m.String())
	assert.True(m.Nilable())

	iface := InterfaceRef("example.com/sdk/abi", "Signer")
	assert.True(iface.Nilable())
	assert.Equal(`"example.com/sdk/abi".Signer`, iface.Optional().String())

	call := Named("example.com/rt", "Result", Named("example.com/sdk/crypto", "KeyPair"))
	assert.ElementsMatch([]string{"example.com/rt", "example.com/sdk/crypto"}, call.Packages())
	assert.Empty(Named("", "Local").Packages())

	assert.True(Void.IsVoid())
	assert.False(Void.Nilable())
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	f := &File{
		Package: "crypto",
		Decls: []*Declaration{
			{Kind: Data, Name: "KeyPair", Fields: []*Field{
				{Name: "PublicKey", WireName: "public", Type: Builtin("string")},
				{Name: "SecretKey", WireName: "secret", Type: Builtin("string")},
			}},
			{Kind: Interface, Name: "Signer", Nested: []*Declaration{
				{Kind: Data, Name: "Signer_None"},
			}},
		},
		Funcs: []*Method{
			{Name: "Sign", Params: []*Param{{Name: "ctx"}, {Name: "c"}, {Name: "unsigned"}}},
		},
	}
	assert.NoError(f.Validate())
	assert.Len(f.All(), 3)

	f.Funcs = append(f.Funcs, &Method{Name: "Signer_None"})
	assert.ErrorIs(f.Validate(), ErrDuplicateName)
	f.Funcs = f.Funcs[:1]

	f.Funcs[0].Params = append(f.Funcs[0].Params, &Param{Name: "unsigned"})
	assert.ErrorIs(f.Validate(), ErrDuplicateName)
	f.Funcs[0].Params = f.Funcs[0].Params[:3]

	kp := f.Decls[0]
	kp.Methods = append(kp.Methods, &Method{Name: "PublicKey"})
	assert.ErrorIs(f.Validate(), ErrDuplicateName)
	kp.Methods = nil

	kp.Fields = append(kp.Fields, &Field{Name: "Public", Type: Builtin("string"), WireName: "public"})
	assert.ErrorIs(f.Validate(), ErrDuplicateName)
	kp.Fields = kp.Fields[:2]

	f.Decls = append(f.Decls, &Declaration{Kind: Enum, Name: "Mode", Consts: []*Const{{Name: "KeyPair"}}})
	assert.ErrorIs(f.Validate(), ErrDuplicateName)
}

func TestBodyWalk(t *testing.T) {
	assert := assert.New(t)

	body := []Stmt{
		TypeDecl{Name: "alias", Type: Named("", "Abi_Contract")},
		Define{Names: []string{"typ", "err"}, Values: []Expr{
			Call{Fun: Ident{Package: "example.com/rt", Name: "TypeExtract"}, Args: []Expr{StringLit{"type"}, ParamRef{"b"}}},
		}},
		ErrCheck(Nil, Local("err")),
		Switch{Tag: Local("typ"), Cases: []Case{
			{Values: []Expr{StringLit{"Contract"}}, Body: []Stmt{Define{Names: []string{"v"}, Values: []Expr{Composite{Type: Named("", "X"), Addr: true}}}}},
		}},
	}

	assert.Equal([]string{"alias", "typ", "err", "v"}, LocalNames(body))

	var params []string
	Exprs(body, func(e Expr) {
		if p, ok := e.(ParamRef); ok {
			params = append(params, p.Name)
		}
	})
	assert.Equal([]string{"b"}, params)

	ann := []Annotation{{Kind: Discriminator, Value: "type"}}
	a, ok := HasAnnotation(ann, Discriminator)
	assert.True(ok)
	assert.Equal("type", a.Value)
	_, ok = HasAnnotation(ann, Deprecated)
	assert.False(ok)
}
