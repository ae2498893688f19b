package generator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
	"github.com/bluesky-social/apigen/naming"
)

type paramRole int

const (
	roleContext paramRole = iota
	roleParams
	roleAppObject
)

func (mg *moduleGen) role(name string) (paramRole, bool) {
	roles := mg.g.cfg.Roles
	switch {
	case slices.Contains(roles.Context, name):
		return roleContext, true
	case slices.Contains(roles.Params, name):
		return roleParams, true
	case slices.Contains(roles.AppObject, name):
		return roleAppObject, true
	}
	return 0, false
}

// function generates the entry point for one API function:
//
//	func Name(ctx context.Context, c *sdk.Client, <params>...) (*Result, error)
//
// Input structs named with the params prefix are flattened into the
// signature and rebuilt in the body.
func (mg *moduleGen) function(fn *apischema.Function) (*decl.Method, error) {
	name := naming.Exported(naming.ToIdentifierCase(fn.Name))
	if !naming.IsIdentifier(name) {
		return nil, fmt.Errorf("%w: function %q", ErrInvalidIdentifier, fn.Name)
	}
	qualified := mg.mod.Name + "." + fn.Name

	m := &decl.Method{
		Name: name,
		Params: []*decl.Param{
			{Name: "ctx", Type: decl.Named("context", "Context")},
			{Name: "c", Type: decl.PointerTo(decl.Named(mg.g.cfg.RuntimeImport, "Client"))},
		},
		Errors: true,
	}

	var paramsArg decl.Expr = decl.Nil
	hasAppObject := false
	for _, p := range fn.Params {
		role, ok := mg.role(p.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParamRole, p.Name)
		}
		switch role {
		case roleContext:
		case roleParams:
			arg, params, err := mg.paramsArg(p)
			if err != nil {
				return nil, err
			}
			paramsArg = arg
			m.Params = append(m.Params, params...)
		case roleAppObject:
			hasAppObject = true
		}
	}
	if hasAppObject {
		m.Params = append(m.Params, &decl.Param{Name: "appObject", Type: decl.Named(mg.g.cfg.RuntimeImport, "AppObject")})
	}

	res, err := mg.resolve(fn.Result)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}

	helper := "Call"
	if hasAppObject {
		helper = "CallAppObject"
	}
	args := []decl.Expr{decl.Local("ctx"), decl.Local("c"), decl.StringLit{Value: qualified}, paramsArg}
	if hasAppObject {
		args = append(args, decl.Local("appObject"))
	}
	call := decl.Call{Args: args}
	switch {
	case res.Void:
		helper += "Void"
	case res.IsVariant():
		helper += "Variant"
		call.Args = append(call.Args, decl.Ident{Package: res.Entry.ImportPath, Name: unmarshalFuncName(res.Entry.GoName)})
		m.Results = []decl.TypeRef{res.Ref}
	default:
		call.TypeArgs = []decl.TypeRef{res.Ref}
		m.Results = []decl.TypeRef{decl.PointerTo(res.Ref)}
	}
	call.Fun = mg.runtime(helper)
	m.Body = []decl.Stmt{decl.Ret(call)}

	m.Doc = functionDoc(name, qualified, fn, m.Params)
	m.Annotations = functionAnnotations(fn)
	return m, nil
}

func (mg *moduleGen) isParamsStruct(e *Entry) bool {
	if e == nil || e.Kind != decl.Data || !strings.HasPrefix(e.SchemaName, mg.g.cfg.ParamsStructPrefix) {
		return false
	}
	_, ok := e.Type.Inner.(apischema.Struct)
	return ok
}

// paramsArg returns the value passed as the call's params and the parameters
// it is built from.
func (mg *moduleGen) paramsArg(p *apischema.Type) (decl.Expr, []*decl.Param, error) {
	res, err := mg.resolve(p)
	if err != nil {
		return nil, nil, fmt.Errorf("params: %w", err)
	}
	if res.Void {
		return decl.Nil, nil, nil
	}
	if res.Slice || !mg.isParamsStruct(res.Entry) {
		ident, wire := mg.g.reserved.Identifier("params")
		return decl.ParamRef{Name: ident}, []*decl.Param{{Name: ident, WireName: wire, Type: res.Type(), Doc: p.Doc()}}, nil
	}

	var params []*decl.Param
	lit, err := mg.inlineParams(res.Entry, nil, &params)
	if err != nil {
		return nil, nil, err
	}
	lit.Addr = true
	return lit, params, nil
}

// inlineParams flattens the fields of a params struct into function
// parameters, recursing into nested params structs whether or not they are
// optional. The returned literal rebuilds the struct from the parameters.
func (mg *moduleGen) inlineParams(e *Entry, stack []string, params *[]*decl.Param) (decl.Composite, error) {
	if slices.Contains(stack, e.SchemaName) {
		return decl.Composite{}, fmt.Errorf("%w: params struct %s contains itself", ErrUnsupportedType, e.SchemaName)
	}
	stack = append(stack, e.SchemaName)

	lit := decl.Composite{Type: e.Ref()}
	for _, f := range e.Type.Inner.(apischema.Struct).Fields {
		// field types are relative to the module declaring the struct
		res, err := mg.res.Resolve(f, e.Module)
		if err != nil {
			return decl.Composite{}, fmt.Errorf("%s.%s: %w", e.SchemaName, f.Name, err)
		}
		if res.Void {
			return decl.Composite{}, fmt.Errorf("%w: field %s.%s has no value type", ErrUnsupportedType, e.SchemaName, f.Name)
		}
		field := mg.g.reserved.FieldName(f.Name)

		if !res.Slice && mg.isParamsStruct(res.Entry) {
			nested, err := mg.inlineParams(res.Entry, stack, params)
			if err != nil {
				return decl.Composite{}, err
			}
			nested.Addr = res.Optional
			lit.Elems = append(lit.Elems, decl.KeyedField(field, nested))
			continue
		}

		ident, wire := mg.g.reserved.Identifier(f.Name)
		if !naming.IsIdentifier(ident) {
			return decl.Composite{}, fmt.Errorf("%w: parameter %q of %s", ErrInvalidIdentifier, f.Name, e.SchemaName)
		}
		*params = append(*params, &decl.Param{
			Name:     ident,
			WireName: wire,
			Type:     res.Type(),
			Doc:      f.Doc(),
		})
		lit.Elems = append(lit.Elems, decl.KeyedField(field, decl.ParamRef{Name: ident}))
	}
	return lit, nil
}

func functionDoc(name, qualified string, fn *apischema.Function, params []*decl.Param) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s calls %q.", name, qualified)
	if doc := docText(fn.Doc()); doc != "" {
		sb.WriteString("\n\n" + doc)
	}

	var items []string
	for _, p := range params {
		if p.Doc == "" && p.WireName == "" {
			continue
		}
		item := "- " + p.Name
		if p.WireName != "" {
			item += fmt.Sprintf(" (%q)", p.WireName)
		}
		if p.Doc != "" {
			item += ": " + strings.Join(strings.Fields(p.Doc), " ")
		}
		items = append(items, item)
	}
	if len(items) > 0 {
		sb.WriteString("\n\nParameters:\n" + strings.Join(items, "\n"))
	}
	return sb.String()
}

func functionAnnotations(fn *apischema.Function) []decl.Annotation {
	doc := strings.ToUpper(fn.Summary + "\n" + fn.Description)
	var anns []decl.Annotation
	if strings.Contains(doc, "DEPRECATED") {
		anns = append(anns, decl.Annotation{Kind: decl.Deprecated, Value: "this function is marked deprecated in the API reference."})
	}
	if strings.Contains(doc, "UNSTABLE") {
		anns = append(anns, decl.Annotation{Kind: decl.Unstable, Value: "this function is marked unstable in the API reference and may change."})
	}
	return anns
}
