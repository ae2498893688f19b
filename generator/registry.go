package generator

import (
	"fmt"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/decl"
	"github.com/bluesky-social/apigen/naming"
)

// Entry is a module-level type known to the generator.
type Entry struct {
	Module     string
	ImportPath string
	SchemaName string
	GoName     string
	Kind       decl.Kind
	Type       *apischema.Type
}

// Ref returns a reference to the declared type.
func (e *Entry) Ref() decl.TypeRef {
	if e.Kind == decl.Interface {
		return decl.InterfaceRef(e.ImportPath, e.GoName)
	}
	return decl.Named(e.ImportPath, e.GoName)
}

type modulePackage struct {
	Name       string
	Package    string
	ImportPath string
}

// Registry holds every module-level type of every module. It is filled in
// completely before any declarations are generated, so references may point
// forward or across modules.
type Registry struct {
	modules map[string]*modulePackage
	entries map[string]map[string]*Entry
	order   map[string][]*Entry
}

func entryKind(t *apischema.Type) decl.Kind {
	switch t.Inner.(type) {
	case apischema.Struct, apischema.None:
		return decl.Data
	case apischema.EnumOfTypes:
		return decl.Interface
	case apischema.EnumOfConsts:
		return decl.Enum
	default:
		return decl.Defined
	}
}

// NewRegistry registers the types of all modules in ref.
func NewRegistry(ref *apischema.Reference, importPrefix string) (*Registry, error) {
	r := &Registry{
		modules: make(map[string]*modulePackage),
		entries: make(map[string]map[string]*Entry),
		order:   make(map[string][]*Entry),
	}

	pkgs := make(map[string]string)
	for _, m := range ref.Modules {
		pkg := naming.PackageName(m.Name)
		if prev, ok := pkgs[pkg]; ok {
			return nil, fmt.Errorf("%w: modules %q and %q both map to package %q", ErrDuplicateDecl, prev, m.Name, pkg)
		}
		pkgs[pkg] = m.Name
		r.modules[m.Name] = &modulePackage{
			Name:       m.Name,
			Package:    pkg,
			ImportPath: importPrefix + "/" + pkg,
		}
		r.entries[m.Name] = make(map[string]*Entry)
	}

	for _, m := range ref.Modules {
		mp := r.modules[m.Name]
		goNames := make(map[string]string)
		for _, t := range m.Types {
			goName := naming.Exported(t.Name)
			if !naming.IsIdentifier(goName) {
				return nil, fmt.Errorf("%w: type %s.%s", ErrInvalidIdentifier, m.Name, t.Name)
			}
			if prev, ok := goNames[goName]; ok {
				return nil, fmt.Errorf("%w: types %s.%s and %s.%s both map to %s", ErrDuplicateDecl, m.Name, prev, m.Name, t.Name, goName)
			}
			goNames[goName] = t.Name

			e := &Entry{
				Module:     m.Name,
				ImportPath: mp.ImportPath,
				SchemaName: t.Name,
				GoName:     goName,
				Kind:       entryKind(t),
				Type:       t,
			}
			r.entries[m.Name][t.Name] = e
			r.order[m.Name] = append(r.order[m.Name], e)
		}
	}

	return r, nil
}

func (r *Registry) Lookup(module, name string) (*Entry, bool) {
	es, ok := r.entries[module]
	if !ok {
		return nil, false
	}
	e, ok := es[name]
	return e, ok
}

// HasModule reports whether name is a module of the reference.
func (r *Registry) HasModule(name string) bool {
	_, ok := r.modules[name]
	return ok
}

func (r *Registry) Package(module string) *modulePackage {
	return r.modules[module]
}

// Entries returns a module's types in schema order.
func (r *Registry) Entries(module string) []*Entry {
	return r.order[module]
}
