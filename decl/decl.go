package decl

import (
	"errors"
	"fmt"
)

var ErrDuplicateName = errors.New("duplicate name")

type Kind int

const (
	// Data is a struct type with fields.
	Data Kind = iota
	// Interface is a closed set of variants, each a nested Data declaration.
	Interface
	// Enum is a defined type over Underlying with named constants.
	Enum
	// Defined is a named type over Underlying with no further members.
	Defined
)

func (k Kind) String() string {
	switch k {
	case Data:
		return "data"
	case Interface:
		return "interface"
	case Enum:
		return "enum"
	case Defined:
		return "defined"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type AnnotationKind int

const (
	Deprecated AnnotationKind = iota
	Unstable
	// Discriminator marks an accessor whose result is serialized under the
	// key in Value.
	Discriminator
)

type Annotation struct {
	Kind  AnnotationKind
	Value string
}

type Declaration struct {
	Kind        Kind
	Name        string
	Doc         string
	Annotations []Annotation

	// Enum and Defined
	Underlying TypeRef

	Fields  []*Field
	Methods []*Method
	// Nested declarations are rendered after their parent; their names are
	// expected to already carry the parent prefix.
	Nested []*Declaration
	Consts []*Const
}

type Field struct {
	Name string
	// serialized name; empty means Name is used as-is
	WireName string
	Type     TypeRef
	Optional bool
	Doc      string
}

type Param struct {
	Name     string
	WireName string
	Type     TypeRef
	Doc      string
}

type Const struct {
	Name  string
	Value Expr
	Doc   string
}

// Method is a function with an optional receiver. Interface methods have no
// body. Errors adds a trailing error result.
type Method struct {
	Receiver        string
	PointerReceiver bool
	Name            string
	TypeParams      []string
	Params          []*Param
	Results         []TypeRef
	Errors          bool
	Body            []Stmt
	Annotations     []Annotation
	Doc             string
}

// HasAnnotation reports whether anns contains an annotation of kind k, and
// returns it.
func HasAnnotation(anns []Annotation, k AnnotationKind) (Annotation, bool) {
	for _, a := range anns {
		if a.Kind == k {
			return a, true
		}
	}
	return Annotation{}, false
}

// File is everything emitted into a single generated source file.
type File struct {
	Package string
	// import path of the package itself; references to it render unqualified
	ImportPath string
	Doc        string
	Decls      []*Declaration
	Funcs      []*Method
}

// All returns the top-level declarations with nested ones flattened in
// rendering order.
func (f *File) All() []*Declaration {
	var out []*Declaration
	var walk func(ds []*Declaration)
	walk = func(ds []*Declaration) {
		for _, d := range ds {
			out = append(out, d)
			walk(d.Nested)
		}
	}
	walk(f.Decls)
	return out
}

// Validate checks name uniqueness: package-level names across the file, and
// member names (fields and methods) within each declaration.
func (f *File) Validate() error {
	seen := make(map[string]string)
	claim := func(name, what string) error {
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q declared as %s and %s", ErrDuplicateName, name, prev, what)
		}
		seen[name] = what
		return nil
	}

	for _, d := range f.All() {
		if err := claim(d.Name, d.Kind.String()+" type"); err != nil {
			return err
		}
		for _, c := range d.Consts {
			if err := claim(c.Name, "constant of "+d.Name); err != nil {
				return err
			}
		}
		if err := d.validateMembers(); err != nil {
			return err
		}
	}
	for _, fn := range f.Funcs {
		if err := claim(fn.Name, "function"); err != nil {
			return err
		}
		if err := validateParams(fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *Declaration) validateMembers() error {
	members := make(map[string]bool)
	wire := make(map[string]bool)
	for _, fl := range d.Fields {
		if members[fl.Name] {
			return fmt.Errorf("%w: %s has two members named %q", ErrDuplicateName, d.Name, fl.Name)
		}
		members[fl.Name] = true
		w := fl.WireName
		if w == "" {
			w = fl.Name
		}
		if wire[w] {
			return fmt.Errorf("%w: %s has two fields serialized as %q", ErrDuplicateName, d.Name, w)
		}
		wire[w] = true
	}
	for _, m := range d.Methods {
		if members[m.Name] {
			return fmt.Errorf("%w: %s has two members named %q", ErrDuplicateName, d.Name, m.Name)
		}
		members[m.Name] = true
		if err := validateParams(m); err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	return nil
}

func validateParams(m *Method) error {
	names := make(map[string]bool)
	if m.Receiver != "" {
		names[m.Receiver] = true
	}
	for _, p := range m.Params {
		if names[p.Name] {
			return fmt.Errorf("%w: %s has two parameters named %q", ErrDuplicateName, m.Name, p.Name)
		}
		names[p.Name] = true
	}
	return nil
}
