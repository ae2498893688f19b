package apischema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformed is returned for documents that do not decode, or that decode
	// into something that is not a valid reference.
	ErrMalformed = errors.New("malformed API reference")

	// ErrAmbiguousType is returned when a type node's variant cannot be
	// determined unambiguously from its tag and carrier keys.
	ErrAmbiguousType = errors.New("ambiguous type definition")
)

// wire shapes, decoded first and then checked into the model

type rawReference struct {
	Version string       `json:"version"`
	Modules []*rawModule `json:"modules"`
}

type rawModule struct {
	Name        string         `json:"name"`
	Summary     *string        `json:"summary"`
	Description *string        `json:"description"`
	Types       []*rawType     `json:"types"`
	Functions   []*rawFunction `json:"functions"`
}

type rawFunction struct {
	Name        string     `json:"name"`
	Summary     *string    `json:"summary"`
	Description *string    `json:"description"`
	Params      []*rawType `json:"params"`
	Result      *rawType   `json:"result"`
}

type rawType struct {
	Name        string  `json:"name"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	Type        string  `json:"type"`

	NumberType *string `json:"number_type"`
	NumberSize *int    `json:"number_size"`

	RefName       *string      `json:"ref_name"`
	OptionalInner *rawType     `json:"optional_inner"`
	ArrayItem     *rawType     `json:"array_item"`
	GenericName   *string      `json:"generic_name"`
	GenericArgs   *[]*rawType  `json:"generic_args"`
	StructFields  *[]*rawType  `json:"struct_fields"`
	EnumTypes     *[]*rawType  `json:"enum_types"`
	EnumConsts    *[]*rawConst `json:"enum_consts"`
}

type rawConst struct {
	Name        string  `json:"name"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	Value       *string `json:"value"`
}

// Parse decodes a JSON API reference document. Any error means no model is
// returned; errors wrap ErrMalformed or ErrAmbiguousType.
func Parse(b []byte) (*Reference, error) {
	var raw rawReference
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return raw.build()
}

// ParseYAML decodes the YAML rendering of an API reference document. The YAML
// is normalized to JSON and then handled exactly like Parse.
func ParseYAML(b []byte) (*Reference, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	jb, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: converting yaml: %w", ErrMalformed, err)
	}
	return Parse(jb)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (raw *rawReference) build() (*Reference, error) {
	ref := &Reference{
		Version: raw.Version,
	}

	seen := make(map[string]bool)
	for i, rm := range raw.Modules {
		if rm == nil {
			return nil, fmt.Errorf("%w: modules[%d] is null", ErrMalformed, i)
		}
		if rm.Name == "" {
			return nil, fmt.Errorf("%w: modules[%d] has no name", ErrMalformed, i)
		}
		if seen[rm.Name] {
			return nil, fmt.Errorf("%w: duplicate module %q", ErrMalformed, rm.Name)
		}
		seen[rm.Name] = true

		m, err := rm.build()
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", rm.Name, err)
		}
		ref.Modules = append(ref.Modules, m)
	}

	return ref, nil
}

func (rm *rawModule) build() (*Module, error) {
	m := &Module{
		Name:        rm.Name,
		Summary:     str(rm.Summary),
		Description: str(rm.Description),
	}

	for i, rt := range rm.Types {
		p := fmt.Sprintf("types[%d]", i)
		if rt != nil && rt.Name != "" {
			p = rt.Name
		}
		t, err := rt.build(p)
		if err != nil {
			return nil, err
		}
		if t.Name == "" {
			return nil, fmt.Errorf("%w: %s: module-level type has no name", ErrMalformed, p)
		}
		m.Types = append(m.Types, t)
	}

	for i, rf := range rm.Functions {
		if rf == nil || rf.Name == "" {
			return nil, fmt.Errorf("%w: functions[%d] has no name", ErrMalformed, i)
		}
		f := &Function{
			Name:        rf.Name,
			Summary:     str(rf.Summary),
			Description: str(rf.Description),
		}
		for j, rp := range rf.Params {
			pt, err := rp.build(fmt.Sprintf("%s.params[%d]", rf.Name, j))
			if err != nil {
				return nil, err
			}
			f.Params = append(f.Params, pt)
		}
		if rf.Result == nil {
			// no result in the document is the same as an explicit None
			f.Result = &Type{Inner: None{}}
		} else {
			rt, err := rf.Result.build(rf.Name + ".result")
			if err != nil {
				return nil, err
			}
			f.Result = rt
		}
		m.Functions = append(m.Functions, f)
	}

	return m, nil
}

// variant tag for each carrier key
var carrierTags = []struct {
	key string
	tag string
	has func(rt *rawType) bool
}{
	{"ref_name", "Ref", func(rt *rawType) bool { return rt.RefName != nil }},
	{"optional_inner", "Optional", func(rt *rawType) bool { return rt.OptionalInner != nil }},
	{"array_item", "Array", func(rt *rawType) bool { return rt.ArrayItem != nil }},
	{"generic_args", "Generic", func(rt *rawType) bool { return rt.GenericArgs != nil || rt.GenericName != nil }},
	{"struct_fields", "Struct", func(rt *rawType) bool { return rt.StructFields != nil }},
	{"enum_types", "EnumOfTypes", func(rt *rawType) bool { return rt.EnumTypes != nil }},
	{"enum_consts", "EnumOfConsts", func(rt *rawType) bool { return rt.EnumConsts != nil }},
}

// discriminate settles on a single variant tag for rt, or fails.
func (rt *rawType) discriminate(path string) (string, error) {
	var found []string
	var keys []string
	for _, c := range carrierTags {
		if c.has(rt) {
			found = append(found, c.tag)
			keys = append(keys, c.key)
		}
	}
	if len(found) > 1 {
		return "", fmt.Errorf("%w: %s: carries %s", ErrAmbiguousType, path, strings.Join(keys, ", "))
	}

	if rt.Type == "" {
		if len(found) == 0 {
			return "", fmt.Errorf("%w: %s: no type tag and no variant payload", ErrAmbiguousType, path)
		}
		return found[0], nil
	}
	if len(found) == 1 && found[0] != rt.Type {
		return "", fmt.Errorf("%w: %s: tagged %q but carries %s", ErrAmbiguousType, path, rt.Type, keys[0])
	}
	return rt.Type, nil
}

func (rt *rawType) build(path string) (*Type, error) {
	if rt == nil {
		return nil, fmt.Errorf("%w: %s: type is null", ErrMalformed, path)
	}

	tag, err := rt.discriminate(path)
	if err != nil {
		return nil, err
	}

	t := &Type{
		Name:        rt.Name,
		Summary:     str(rt.Summary),
		Description: str(rt.Description),
	}

	switch tag {
	case "String":
		t.Inner = Primitive{Kind: PrimitiveString}
	case "Boolean":
		t.Inner = Primitive{Kind: PrimitiveBoolean}
	case "Number", "BigInt":
		p := Primitive{Kind: PrimitiveNumber}
		if tag == "BigInt" {
			p.Kind = PrimitiveBigInt
		}
		switch str(rt.NumberType) {
		case "", "Int":
			p.NumberType = NumberInt
		case "UInt":
			p.NumberType = NumberUInt
		case "Float":
			p.NumberType = NumberFloat
		default:
			return nil, fmt.Errorf("%w: %s: unknown number_type %q", ErrMalformed, path, *rt.NumberType)
		}
		if rt.NumberSize != nil {
			if *rt.NumberSize < 0 {
				return nil, fmt.Errorf("%w: %s: negative number_size", ErrMalformed, path)
			}
			p.NumberSize = *rt.NumberSize
		}
		t.Inner = p
	case "Ref":
		if str(rt.RefName) == "" {
			return nil, fmt.Errorf("%w: %s: Ref without ref_name", ErrMalformed, path)
		}
		t.Inner = Ref{Name: *rt.RefName}
	case "Optional":
		if rt.OptionalInner == nil {
			return nil, fmt.Errorf("%w: %s: Optional without optional_inner", ErrMalformed, path)
		}
		in, err := rt.OptionalInner.build(path + "?")
		if err != nil {
			return nil, err
		}
		t.Inner = Optional{Inner: in}
	case "Array":
		if rt.ArrayItem == nil {
			return nil, fmt.Errorf("%w: %s: Array without array_item", ErrMalformed, path)
		}
		item, err := rt.ArrayItem.build(path + "[]")
		if err != nil {
			return nil, err
		}
		t.Inner = Array{Item: item}
	case "Generic":
		if rt.GenericArgs == nil || len(*rt.GenericArgs) == 0 {
			return nil, fmt.Errorf("%w: %s: Generic without generic_args", ErrMalformed, path)
		}
		g := Generic{Name: str(rt.GenericName)}
		for i, ra := range *rt.GenericArgs {
			a, err := ra.build(fmt.Sprintf("%s<%d>", path, i))
			if err != nil {
				return nil, err
			}
			g.Args = append(g.Args, a)
		}
		t.Inner = g
	case "Struct":
		s := Struct{}
		if rt.StructFields != nil {
			names := make(map[string]bool)
			for i, rf := range *rt.StructFields {
				f, err := rf.build(fmt.Sprintf("%s.struct_fields[%d]", path, i))
				if err != nil {
					return nil, err
				}
				if f.Name == "" {
					return nil, fmt.Errorf("%w: %s: field %d has no name", ErrMalformed, path, i)
				}
				if names[f.Name] {
					return nil, fmt.Errorf("%w: %s: duplicate field %q", ErrMalformed, path, f.Name)
				}
				names[f.Name] = true
				s.Fields = append(s.Fields, f)
			}
		}
		t.Inner = s
	case "EnumOfTypes":
		e := EnumOfTypes{}
		if rt.EnumTypes != nil {
			for i, rv := range *rt.EnumTypes {
				v, err := rv.build(fmt.Sprintf("%s.enum_types[%d]", path, i))
				if err != nil {
					return nil, err
				}
				if v.Name == "" {
					return nil, fmt.Errorf("%w: %s: variant %d has no name", ErrMalformed, path, i)
				}
				e.Variants = append(e.Variants, v)
			}
		}
		t.Inner = e
	case "EnumOfConsts":
		e := EnumOfConsts{}
		if rt.EnumConsts != nil {
			for i, rc := range *rt.EnumConsts {
				if rc == nil || rc.Name == "" {
					return nil, fmt.Errorf("%w: %s: const %d has no name", ErrMalformed, path, i)
				}
				c := &Const{
					Name:        rc.Name,
					Summary:     str(rc.Summary),
					Description: str(rc.Description),
					Value:       rc.Name,
				}
				if rc.Value != nil {
					c.Value = *rc.Value
				}
				e.Consts = append(e.Consts, c)
			}
		}
		t.Inner = e
	case "None":
		t.Inner = None{}
	default:
		return nil, fmt.Errorf("%w: %s: unknown type tag %q", ErrMalformed, path, tag)
	}

	return t, nil
}
