package apischema

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestReference(t *testing.T) *Reference {
	b, err := os.ReadFile("testdata/api.json")
	require.NoError(t, err)
	ref, err := Parse(b)
	require.NoError(t, err)
	return ref
}

func TestParseReference(t *testing.T) {
	assert := assert.New(t)
	ref := loadTestReference(t)

	assert.Equal("1.45.0", ref.Version)
	require.Len(t, ref.Modules, 3)
	assert.Equal("client", ref.Modules[0].Name)
	assert.Equal("Provides information about library.", ref.Modules[0].Summary)
	assert.Equal("", ref.Modules[0].Description)

	crypto := ref.Module("crypto")
	require.NotNil(t, crypto)
	assert.Nil(ref.Module("missing"))

	kp := crypto.Type("KeyPair")
	require.NotNil(t, kp)
	s, ok := kp.Inner.(Struct)
	require.True(t, ok)
	require.Len(t, s.Fields, 2)
	assert.Equal("public", s.Fields[0].Name)
	assert.Equal("secret", s.Fields[1].Name)
	assert.Equal(Primitive{Kind: PrimitiveString}, s.Fields[0].Inner)

	h := crypto.Type("SigningBoxHandle")
	require.NotNil(t, h)
	assert.Equal(Primitive{Kind: PrimitiveNumber, NumberType: NumberUInt, NumberSize: 32}, h.Inner)

	modes, ok := crypto.Type("CipherMode").Inner.(EnumOfConsts)
	require.True(t, ok)
	require.Len(t, modes.Consts, 3)
	assert.Equal("CBC", modes.Consts[0].Value)

	fn := crypto.Functions[0]
	assert.Equal("factorize", fn.Name)
	require.Len(t, fn.Params, 2)
	g, ok := fn.Params[0].Inner.(Generic)
	require.True(t, ok)
	assert.Equal("Arc", g.Name)
	assert.Equal(Ref{Name: "ClientContext"}, g.Args[0].Inner)
	assert.Equal(Ref{Name: "crypto.ParamsOfFactorize"}, fn.Params[1].Inner)
	assert.True(strings.HasPrefix(fn.Doc(), "Integer factorization\n\nPerforms prime"))

	signer, ok := ref.Module("abi").Type("Signer").Inner.(EnumOfTypes)
	require.True(t, ok)
	require.Len(t, signer.Variants, 4)
	none, ok := signer.Variants[0].Inner.(Struct)
	require.True(t, ok)
	assert.Empty(none.Fields)

	contract := ref.Module("abi").Type("AbiContract").Inner.(Struct)
	opt, ok := contract.Fields[0].Inner.(Optional)
	require.True(t, ok)
	assert.Equal("ABI version", contract.Fields[0].Name)
	assert.Equal(Primitive{Kind: PrimitiveNumber, NumberType: NumberUInt, NumberSize: 32}, opt.Inner.Inner)
}

func TestParseInference(t *testing.T) {
	assert := assert.New(t)

	// carrier keys stand in for a missing type tag
	ref, err := Parse([]byte(`{"version":"1","modules":[{"name":"m","types":[
		{"name":"S","struct_fields":[{"name":"a","ref_name":"T"}]},
		{"name":"E","enum_types":[{"name":"V","struct_fields":[]}]},
		{"name":"L","array_item":{"type":"Boolean"}}
	],"functions":[{"name":"f","params":[]}]}]}`))
	require.NoError(t, err)

	m := ref.Modules[0]
	s := m.Type("S").Inner.(Struct)
	assert.Equal(Ref{Name: "T"}, s.Fields[0].Inner)
	_, ok := m.Type("E").Inner.(EnumOfTypes)
	assert.True(ok)
	_, ok = m.Type("L").Inner.(Array)
	assert.True(ok)

	// missing result means None
	assert.Equal(None{}, m.Functions[0].Result.Inner)
}

func TestParseRejects(t *testing.T) {
	testVectors := []struct {
		name string
		doc  string
		err  error
	}{
		{"syntax", `{"version":`, ErrMalformed},
		{"wrong shape", `{"modules":{"name":"x"}}`, ErrMalformed},
		{"unnamed module", `{"modules":[{"types":[]}]}`, ErrMalformed},
		{"duplicate module", `{"modules":[{"name":"a"},{"name":"a"}]}`, ErrMalformed},
		{"unknown tag", `{"modules":[{"name":"a","types":[{"name":"X","type":"Tuple"}]}]}`, ErrMalformed},
		{"ref without name", `{"modules":[{"name":"a","types":[{"name":"X","type":"Ref"}]}]}`, ErrMalformed},
		{"empty generic", `{"modules":[{"name":"a","types":[{"name":"X","type":"Generic","generic_name":"Arc","generic_args":[]}]}]}`, ErrMalformed},
		{"bad number type", `{"modules":[{"name":"a","types":[{"name":"X","type":"Number","number_type":"Complex"}]}]}`, ErrMalformed},
		{"unnamed type", `{"modules":[{"name":"a","types":[{"type":"String"}]}]}`, ErrMalformed},
		{"duplicate field", `{"modules":[{"name":"a","types":[{"name":"X","type":"Struct","struct_fields":[{"name":"f","type":"String"},{"name":"f","type":"String"}]}]}]}`, ErrMalformed},
		{"tag disagrees", `{"modules":[{"name":"a","types":[{"name":"X","type":"Struct","enum_types":[]}]}]}`, ErrAmbiguousType},
		{"two carriers", `{"modules":[{"name":"a","types":[{"name":"X","struct_fields":[],"enum_types":[]}]}]}`, ErrAmbiguousType},
		{"nothing to go on", `{"modules":[{"name":"a","types":[{"name":"X"}]}]}`, ErrAmbiguousType},
		{"nested ambiguity", `{"modules":[{"name":"a","functions":[{"name":"f","params":[{"name":"p","type":"Optional","optional_inner":{"ref_name":"A","array_item":{"type":"String"}}}]}]}]}`, ErrAmbiguousType},
	}

	for _, vec := range testVectors {
		t.Run(vec.name, func(t *testing.T) {
			ref, err := Parse([]byte(vec.doc))
			assert.ErrorIs(t, err, vec.err)
			assert.Nil(t, ref)
		})
	}
}

func TestParseYAML(t *testing.T) {
	assert := assert.New(t)

	yamlDoc := `
version: "2.0"
modules:
  - name: utils
    summary: Misc utility functions.
    types:
      - name: ParamsOfConvertAddress
        type: Struct
        struct_fields:
          - name: address
            type: String
          - name: output_format
            type: Optional
            optional_inner:
              type: Ref
              ref_name: utils.AddressStringFormat
    functions:
      - name: convert_address
        params:
          - name: params
            type: Ref
            ref_name: utils.ParamsOfConvertAddress
        result:
          type: None
`
	jsonDoc := `{"version":"2.0","modules":[{"name":"utils","summary":"Misc utility functions.",
		"types":[{"name":"ParamsOfConvertAddress","type":"Struct","struct_fields":[
			{"name":"address","type":"String"},
			{"name":"output_format","type":"Optional","optional_inner":{"type":"Ref","ref_name":"utils.AddressStringFormat"}}]}],
		"functions":[{"name":"convert_address","params":[{"name":"params","type":"Ref","ref_name":"utils.ParamsOfConvertAddress"}],"result":{"type":"None"}}]}]}`

	fromYAML, err := ParseYAML([]byte(yamlDoc))
	require.NoError(t, err)
	fromJSON, err := Parse([]byte(jsonDoc))
	require.NoError(t, err)
	assert.Equal(fromJSON, fromYAML)

	_, err = ParseYAML([]byte("modules: [\n"))
	assert.ErrorIs(err, ErrMalformed)
}

type countingVisitor struct {
	counts map[string]int
}

func (v *countingVisitor) VisitPrimitive(t *Type, p Primitive) (int, error) {
	v.counts["primitive"]++
	return 1, nil
}

func (v *countingVisitor) VisitRef(t *Type, r Ref) (int, error) {
	v.counts["ref"]++
	return 1, nil
}

func (v *countingVisitor) VisitOptional(t *Type, o Optional) (int, error) {
	v.counts["optional"]++
	n, err := Visit[int](o.Inner, v)
	return n + 1, err
}

func (v *countingVisitor) VisitArray(t *Type, a Array) (int, error) {
	v.counts["array"]++
	n, err := Visit[int](a.Item, v)
	return n + 1, err
}

func (v *countingVisitor) VisitGeneric(t *Type, g Generic) (int, error) {
	v.counts["generic"]++
	n, err := Visit[int](g.Args[0], v)
	return n + 1, err
}

func (v *countingVisitor) VisitStruct(t *Type, s Struct) (int, error) {
	v.counts["struct"]++
	total := 1
	for _, f := range s.Fields {
		n, err := Visit[int](f, v)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (v *countingVisitor) VisitEnumOfTypes(t *Type, e EnumOfTypes) (int, error) {
	v.counts["enum"]++
	total := 1
	for _, vt := range e.Variants {
		n, err := Visit[int](vt, v)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (v *countingVisitor) VisitEnumOfConsts(t *Type, e EnumOfConsts) (int, error) {
	v.counts["consts"]++
	return 1, nil
}

func (v *countingVisitor) VisitNone(t *Type, n None) (int, error) {
	v.counts["none"]++
	return 1, nil
}

func TestVisit(t *testing.T) {
	assert := assert.New(t)
	ref := loadTestReference(t)

	cv := &countingVisitor{counts: map[string]int{}}
	n, err := Visit[int](ref.Module("abi").Type("Signer"), cv)
	require.NoError(t, err)
	// enum + 4 variant structs + 3 leaf fields
	assert.Equal(8, n)
	assert.Equal(4, cv.counts["struct"])
	assert.Equal(2, cv.counts["ref"])

	_, err = Visit[int](&Type{Name: "Broken"}, cv)
	assert.ErrorIs(err, ErrMalformed)
}

func TestTree(t *testing.T) {
	assert := assert.New(t)
	ref := loadTestReference(t)

	out := Tree(ref).String()
	assert.Contains(out, "API reference 1.45.0")
	assert.Contains(out, "[module]")
	assert.Contains(out, "crypto")
	assert.Contains(out, "KeyPair: Struct(2 fields)")
	assert.Contains(out, "public: String")
	assert.Contains(out, "Signer: EnumOfTypes(4 variants)")
	assert.Contains(out, "factorize")
	assert.Contains(out, "ClientResult<Ref(crypto.ResultOfFactorize)>")
	assert.Contains(out, "SigningBoxHandle: Number(UInt32)")
}
