// Package emit renders a decl.File as formatted Go source.
package emit

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bluesky-social/apigen/decl"
)

// ErrFormat means the rendered source did not survive go/format, which
// points at a bug in the generator rather than bad input.
var ErrFormat = errors.New("generated source failed to format")

const (
	DefaultLineWidth = 100
	// columns a tab counts for when measuring line width
	tabWidth = 4
)

type Options struct {
	// LineWidth bounds doc comments and triggers one-per-line wrapping of
	// long parameter lists, calls and composite literals.
	LineWidth int
	// Header is written as a comment before the package clause, e.g. the
	// "Code generated ... DO NOT EDIT." marker.
	Header string
	// KnownPackages maps import paths to package names, for paths whose
	// name cannot be guessed from the last element.
	KnownPackages map[string]string
	Logger        *slog.Logger
}

// Render writes f as Go source. The body is rendered before the import block
// so that only packages actually referenced are imported.
func Render(f *decl.File, opts Options) (src []byte, err error) {
	// the writer panics on model nodes it cannot render
	defer func() {
		if r := recover(); r != nil {
			src = nil
			err = fmt.Errorf("%w: package %s: %v", ErrFormat, f.Package, r)
		}
	}()

	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultLineWidth
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	w := &writer{
		width: opts.LineWidth,
		im:    newImportTable(f.ImportPath, opts.KnownPackages, localNames(f), opts.Logger.With("package", f.Package)),
	}

	for _, d := range f.Decls {
		w.declaration(d)
	}
	for _, fn := range f.Funcs {
		w.method(fn, "")
	}

	var out bytes.Buffer
	if opts.Header != "" {
		for _, l := range strings.Split(opts.Header, "\n") {
			out.WriteString("// " + l + "\n")
		}
		out.WriteString("\n")
	}
	if f.Doc != "" {
		for _, l := range commentLines(wrapDoc(f.Doc, opts.LineWidth-3)) {
			out.WriteString(l + "\n")
		}
	}
	fmt.Fprintf(&out, "package %s\n\n", f.Package)

	std, other := w.im.specs()
	if len(std)+len(other) > 0 {
		out.WriteString("import (\n")
		for _, s := range std {
			writeImport(&out, s)
		}
		if len(std) > 0 && len(other) > 0 {
			out.WriteString("\n")
		}
		for _, s := range other {
			writeImport(&out, s)
		}
		out.WriteString(")\n\n")
	}
	out.Write(w.buf.Bytes())

	src, err = format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: package %s: %w", ErrFormat, f.Package, err)
	}
	return src, nil
}

func writeImport(out *bytes.Buffer, s importSpec) {
	if s.Alias != "" {
		fmt.Fprintf(out, "\t%s %q\n", s.Alias, s.Path)
	} else {
		fmt.Fprintf(out, "\t%q\n", s.Path)
	}
}

// localNames collects every identifier declared in f that an import name
// could collide with.
func localNames(f *decl.File) map[string]bool {
	names := make(map[string]bool)
	addMethod := func(m *decl.Method) {
		names[m.Name] = true
		if m.Receiver != "" {
			names[m.Receiver] = true
		}
		for _, tp := range m.TypeParams {
			n, _, _ := strings.Cut(tp, " ")
			names[n] = true
		}
		for _, p := range m.Params {
			names[p.Name] = true
		}
		for _, n := range decl.LocalNames(m.Body) {
			names[n] = true
		}
	}
	for _, d := range f.All() {
		names[d.Name] = true
		for _, c := range d.Consts {
			names[c.Name] = true
		}
		for _, m := range d.Methods {
			addMethod(m)
		}
	}
	for _, fn := range f.Funcs {
		addMethod(fn)
	}
	return names
}

type writer struct {
	buf   bytes.Buffer
	width int
	im    *importTable
}

func tabs(n int) string {
	return strings.Repeat("\t", n)
}

func (w *writer) line(indent int, s string) {
	if s == "" {
		w.buf.WriteString("\n")
		return
	}
	w.buf.WriteString(tabs(indent))
	w.buf.WriteString(s)
	w.buf.WriteString("\n")
}

func (w *writer) doc(indent int, text string, anns []decl.Annotation) {
	avail := w.width - indent*tabWidth - 3
	lines := wrapDoc(text, avail)

	for _, a := range anns {
		var para string
		switch a.Kind {
		case decl.Deprecated:
			para = "Deprecated: " + a.Value
		case decl.Unstable:
			para = "Unstable: " + a.Value
		default:
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrapWords(strings.TrimSpace(para), avail)...)
	}

	for _, l := range commentLines(lines) {
		w.line(indent, l)
	}
	for _, a := range anns {
		if a.Kind == decl.Discriminator {
			w.line(indent, "//apigen:discriminator "+a.Value)
		}
	}
}

func (w *writer) typ(t decl.TypeRef) string {
	switch t.Kind {
	case decl.RefNamed:
		name := t.Name
		if q := w.im.qualifier(t.Package); q != "" {
			name = q + "." + name
		}
		if len(t.Args) > 0 {
			args := make([]string, len(t.Args))
			for i, a := range t.Args {
				args[i] = w.typ(a)
			}
			name += "[" + strings.Join(args, ", ") + "]"
		}
		return name
	case decl.RefPointer:
		return "*" + w.typ(*t.Elem)
	case decl.RefSlice:
		return "[]" + w.typ(*t.Elem)
	case decl.RefMap:
		return "map[" + w.typ(*t.Key) + "]" + w.typ(*t.Elem)
	case decl.RefBuiltin:
		return t.Name
	default:
		panic(fmt.Sprintf("emit: cannot render type %s", t))
	}
}

func (w *writer) declaration(d *decl.Declaration) {
	w.doc(0, d.Doc, d.Annotations)

	switch d.Kind {
	case decl.Data:
		if len(d.Fields) == 0 {
			w.line(0, "type "+d.Name+" struct{}")
			break
		}
		w.line(0, "type "+d.Name+" struct {")
		for _, f := range d.Fields {
			w.field(f)
		}
		w.line(0, "}")
	case decl.Interface:
		w.line(0, "type "+d.Name+" interface {")
		for _, m := range d.Methods {
			w.doc(1, m.Doc, m.Annotations)
			w.line(1, m.Name+w.signature(m, tabWidth+len(m.Name)))
		}
		w.line(0, "}")
	case decl.Enum, decl.Defined:
		w.line(0, "type "+d.Name+" "+w.typ(d.Underlying))
		if len(d.Consts) > 0 {
			w.line(0, "")
			w.line(0, "const (")
			for _, c := range d.Consts {
				w.doc(1, c.Doc, nil)
				w.line(1, c.Name+" "+d.Name+" = "+w.inline(c.Value))
			}
			w.line(0, ")")
		}
	}
	w.line(0, "")

	if d.Kind != decl.Interface {
		for _, m := range d.Methods {
			w.method(m, d.Name)
		}
	}
	for _, n := range d.Nested {
		w.declaration(n)
	}
}

func (w *writer) field(f *decl.Field) {
	w.doc(1, f.Doc, nil)
	wire := f.WireName
	if wire == "" {
		wire = f.Name
	}
	if f.Optional {
		wire += ",omitempty"
	}
	tag := "`json:" + strconv.Quote(wire) + "`"
	w.line(1, f.Name+" "+w.typ(f.Type)+" "+tag)
}

func (w *writer) method(m *decl.Method, recvType string) {
	w.doc(0, m.Doc, m.Annotations)

	head := "func "
	if m.Receiver != "" {
		if m.PointerReceiver {
			recvType = "*" + recvType
		}
		head += "(" + m.Receiver + " " + recvType + ") "
	}
	head += m.Name
	if len(m.TypeParams) > 0 {
		head += "[" + strings.Join(m.TypeParams, ", ") + "]"
	}
	sig := w.signature(m, len(head))
	if len(m.Body) == 0 {
		w.line(0, head+sig+" {}")
		w.line(0, "")
		return
	}
	w.line(0, head+sig+" {")
	for _, s := range m.Body {
		w.stmt(s, 1)
	}
	w.line(0, "}")
	w.line(0, "")
}

// signature renders "(params) results" for m, breaking parameters one per
// line when the single-line form would pass the width.
func (w *writer) signature(m *decl.Method, col int) string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Name + " " + w.typ(p.Type)
	}

	var results []string
	for _, r := range m.Results {
		results = append(results, w.typ(r))
	}
	if m.Errors {
		results = append(results, "error")
	}
	res := ""
	switch len(results) {
	case 0:
	case 1:
		res = " " + results[0]
	default:
		res = " (" + strings.Join(results, ", ") + ")"
	}

	// two extra columns for the trailing " {"
	single := "(" + strings.Join(params, ", ") + ")" + res
	if col+len(single)+2 <= w.width || len(params) < 2 {
		return single
	}
	var sb strings.Builder
	sb.WriteString("(\n")
	for _, p := range params {
		sb.WriteString("\t" + p + ",\n")
	}
	sb.WriteString(")" + res)
	return sb.String()
}
