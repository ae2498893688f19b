// Package generator turns a parsed API reference into one Go package per
// module: data types, variant interfaces, enums, and a function per API
// call that dispatches through the runtime package.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
	"github.com/bluesky-social/apigen/emit"
	"github.com/bluesky-social/apigen/naming"
)

// Output is one generated source file.
type Output struct {
	Module     string
	Package    string
	ImportPath string
	// Path is relative to the output directory.
	Path   string
	Source []byte
}

type Generator struct {
	cfg      *Config
	reserved *naming.Reserved
	logger   *slog.Logger
}

func New(cfg *Config, logger *slog.Logger) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:      cfg,
		reserved: cfg.reservedTable(),
		logger:   logger.With("system", "generator"),
	}, nil
}

// Run generates every module of ref. Nothing is returned unless all modules
// succeed.
func (g *Generator) Run(ref *apischema.Reference) ([]*Output, error) {
	files, err := g.build(ref)
	if err != nil {
		return nil, err
	}

	known := make(map[string]string, len(files))
	for _, f := range files {
		known[f.ImportPath] = f.Package
	}

	outs := make([]*Output, 0, len(files))
	for i, f := range files {
		src, err := emit.Render(f, emit.Options{
			LineWidth:     g.cfg.LineWidth,
			Header:        g.header(ref),
			KnownPackages: known,
			Logger:        g.logger,
		})
		if err != nil {
			return nil, err
		}
		outs = append(outs, &Output{
			Module:     ref.Modules[i].Name,
			Package:    f.Package,
			ImportPath: f.ImportPath,
			Path:       filepath.Join(f.Package, f.Package+".go"),
			Source:     src,
		})
		g.logger.Debug("generated module", "module", ref.Modules[i].Name, "package", f.Package,
			"types", len(f.Decls), "functions", len(f.Funcs))
	}
	g.logger.Info("generated packages", "count", len(outs), "version", ref.Version)
	return outs, nil
}

// build produces the declarations of every module, checked for duplicate
// names and import cycles.
func (g *Generator) build(ref *apischema.Reference) ([]*decl.File, error) {
	reg, err := NewRegistry(ref, g.cfg.ImportPrefix)
	if err != nil {
		return nil, err
	}
	res := NewResolver(reg, g.cfg)

	files := make([]*decl.File, 0, len(ref.Modules))
	for _, m := range ref.Modules {
		mg := &moduleGen{
			g:      g,
			reg:    reg,
			res:    res,
			mod:    m,
			pkg:    reg.Package(m.Name),
			logger: g.logger.With("module", m.Name),
		}
		f, err := mg.build()
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Name, err)
		}
		if err := f.Validate(); err != nil {
			if errors.Is(err, decl.ErrDuplicateName) {
				err = fmt.Errorf("%w: %w", ErrDuplicateDecl, err)
			}
			return nil, fmt.Errorf("module %s: %w", m.Name, err)
		}
		files = append(files, f)
	}

	if err := checkCycles(files); err != nil {
		return nil, err
	}
	return files, nil
}

func (g *Generator) header(ref *apischema.Reference) string {
	var sb strings.Builder
	sb.WriteString("Code generated by apigen")
	if g.cfg.SourceName != "" {
		sb.WriteString(" from " + g.cfg.SourceName)
	}
	if ref.Version != "" {
		sb.WriteString(" (API version " + ref.Version + ")")
	}
	sb.WriteString(". DO NOT EDIT.")
	return sb.String()
}

// WriteOutputs writes each output under dir, creating package directories as
// needed.
func WriteOutputs(dir string, outs []*Output) error {
	for _, o := range outs {
		p := filepath.Join(dir, o.Path)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, o.Source, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", o.Path, err)
		}
	}
	return nil
}

// checkCycles rejects module packages that import each other, directly or
// transitively.
func checkCycles(files []*decl.File) error {
	byPath := make(map[string]*decl.File, len(files))
	for _, f := range files {
		byPath[f.ImportPath] = f
	}
	deps := make(map[string][]string, len(files))
	for _, f := range files {
		for _, p := range filePackages(f) {
			if _, ok := byPath[p]; ok && p != f.ImportPath {
				deps[f.ImportPath] = append(deps[f.ImportPath], p)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(files))
	var stack []string
	var visit func(p string) error
	visit = func(p string) error {
		switch state[p] {
		case visiting:
			i := 0
			for stack[i] != p {
				i++
			}
			cycle := make([]string, 0, len(stack)-i+1)
			for _, s := range stack[i:] {
				cycle = append(cycle, byPath[s].Package)
			}
			cycle = append(cycle, byPath[p].Package)
			return fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(cycle, " -> "))
		case done:
			return nil
		}
		state[p] = visiting
		stack = append(stack, p)
		for _, d := range deps[p] {
			if err := visit(d); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[p] = done
		return nil
	}

	for _, f := range files {
		if err := visit(f.ImportPath); err != nil {
			return err
		}
	}
	return nil
}

// filePackages lists, in first-use order, every import path f refers to.
func filePackages(f *decl.File) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	addType := func(t decl.TypeRef) {
		if t.IsVoid() {
			return
		}
		for _, p := range t.Packages() {
			add(p)
		}
	}
	addMethod := func(m *decl.Method) {
		for _, p := range m.Params {
			addType(p.Type)
		}
		for _, r := range m.Results {
			addType(r)
		}
		for _, s := range m.Body {
			if td, ok := s.(decl.TypeDecl); ok {
				addType(td.Type)
			}
		}
		decl.Exprs(m.Body, func(e decl.Expr) {
			switch v := e.(type) {
			case decl.Ident:
				add(v.Package)
			case decl.Composite:
				addType(v.Type)
			case decl.Call:
				for _, t := range v.TypeArgs {
					addType(t)
				}
			case decl.Convert:
				addType(v.Type)
			}
		})
	}

	for _, d := range f.All() {
		if d.Kind == decl.Enum || d.Kind == decl.Defined {
			addType(d.Underlying)
		}
		for _, fl := range d.Fields {
			addType(fl.Type)
		}
		for _, m := range d.Methods {
			addMethod(m)
		}
	}
	for _, fn := range f.Funcs {
		addMethod(fn)
	}
	return out
}
