package generator

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
)

type moduleGen struct {
	g      *Generator
	reg    *Registry
	res    *Resolver
	mod    *apischema.Module
	pkg    *modulePackage
	logger *slog.Logger
}

func (mg *moduleGen) build() (*decl.File, error) {
	f := &decl.File{
		Package:    mg.pkg.Package,
		ImportPath: mg.pkg.ImportPath,
		Doc:        fmt.Sprintf("Package %s wraps the functions of the %q API module.", mg.pkg.Package, mg.mod.Name),
	}
	if doc := docText(mg.mod.Doc()); doc != "" {
		f.Doc += "\n\n" + doc
	}

	// every type is declared before any function is generated
	for _, e := range mg.reg.Entries(mg.mod.Name) {
		d, funcs, err := mg.typeDecl(e)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", e.SchemaName, err)
		}
		f.Decls = append(f.Decls, d)
		f.Funcs = append(f.Funcs, funcs...)
	}

	for _, fn := range mg.mod.Functions {
		m, err := mg.function(fn)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		f.Funcs = append(f.Funcs, m)
	}

	mg.logger.Debug("built module", "types", len(f.Decls), "functions", len(mg.mod.Functions))
	return f, nil
}

// typeDecl declares a module-level type. Variant interfaces also produce a
// package-level decoding function.
func (mg *moduleGen) typeDecl(e *Entry) (*decl.Declaration, []*decl.Method, error) {
	t := e.Type
	switch in := t.Inner.(type) {
	case apischema.Struct:
		d, err := mg.structDecl(e.GoName, docText(t.Doc()), in.Fields)
		return d, nil, err
	case apischema.None:
		return &decl.Declaration{Kind: decl.Data, Name: e.GoName, Doc: docText(t.Doc())}, nil, nil
	case apischema.EnumOfTypes:
		d, fn, err := mg.variantDecls(e, in)
		if err != nil {
			return nil, nil, err
		}
		return d, []*decl.Method{fn}, nil
	case apischema.EnumOfConsts:
		d, err := mg.enumDecl(e, in)
		return d, nil, err
	default:
		d, err := mg.definedDecl(e)
		return d, nil, err
	}
}

func (mg *moduleGen) resolve(t *apischema.Type) (Resolved, error) {
	return mg.res.Resolve(t, mg.mod.Name)
}

func (mg *moduleGen) runtime(name string) decl.Ident {
	return decl.Ident{Package: mg.g.cfg.RuntimeImport, Name: name}
}

// docText ends every prose paragraph of a schema doc with a period. gofmt
// rewrites an unpunctuated single-line paragraph into a doc heading.
func docText(text string) string {
	if text == "" {
		return ""
	}
	paras := strings.Split(text, "\n\n")
	for i, p := range paras {
		p = strings.TrimRight(p, " \t\n")
		paras[i] = p
		if p == "" || p[0] == ' ' || p[0] == '\t' || strings.HasPrefix(p, "- ") || strings.HasPrefix(p, "* ") {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(p)
		if !strings.ContainsRune(".!?:;", r) {
			paras[i] = p + "."
		}
	}
	return strings.Join(paras, "\n\n")
}
