package emit

import (
	"strconv"
	"strings"

	"github.com/bluesky-social/apigen/decl"
)

func (w *writer) stmt(s decl.Stmt, indent int) {
	col := indent * tabWidth
	switch v := s.(type) {
	case decl.Return:
		if len(v.Values) == 0 {
			w.line(indent, "return")
			return
		}
		w.line(indent, "return "+w.exprList(v.Values, col+len("return "), indent))
	case decl.ExprStmt:
		w.line(indent, w.expr(v.X, col, indent))
	case decl.Define:
		lhs := strings.Join(v.Names, ", ") + " := "
		w.line(indent, lhs+w.exprList(v.Values, col+len(lhs), indent))
	case decl.If:
		head := "if "
		if v.Init != nil {
			head += w.simpleStmt(v.Init) + "; "
		}
		w.line(indent, head+w.inline(v.Cond)+" {")
		for _, b := range v.Body {
			w.stmt(b, indent+1)
		}
		w.line(indent, "}")
	case decl.Switch:
		w.line(indent, "switch "+w.inline(v.Tag)+" {")
		for _, c := range v.Cases {
			vals := make([]string, len(c.Values))
			for i, e := range c.Values {
				vals[i] = w.inline(e)
			}
			w.line(indent, "case "+strings.Join(vals, ", ")+":")
			for _, b := range c.Body {
				w.stmt(b, indent+1)
			}
		}
		if v.Default != nil {
			w.line(indent, "default:")
			for _, b := range v.Default {
				w.stmt(b, indent+1)
			}
		}
		w.line(indent, "}")
	case decl.TypeDecl:
		w.line(indent, "type "+v.Name+" "+w.typ(v.Type))
	}
}

// simpleStmt renders the statements allowed in an if header.
func (w *writer) simpleStmt(s decl.Stmt) string {
	switch v := s.(type) {
	case decl.Define:
		vals := make([]string, len(v.Values))
		for i, e := range v.Values {
			vals[i] = w.inline(e)
		}
		return strings.Join(v.Names, ", ") + " := " + strings.Join(vals, ", ")
	case decl.ExprStmt:
		return w.inline(v.X)
	default:
		panic("emit: unsupported statement in if header")
	}
}

// exprList renders comma separated expressions; only the last one may be
// broken across lines.
func (w *writer) exprList(es []decl.Expr, col, indent int) string {
	parts := make([]string, len(es))
	for i, e := range es[:len(es)-1] {
		parts[i] = w.inline(e)
		col += len(parts[i]) + 2
	}
	parts[len(es)-1] = w.expr(es[len(es)-1], col, indent)
	return strings.Join(parts, ", ")
}

// expr renders e starting at column col. Calls and composite literals that
// would pass the width are broken one element per line.
func (w *writer) expr(e decl.Expr, col, indent int) string {
	s := w.inline(e)
	if col+len(s) <= w.width {
		return s
	}

	switch v := e.(type) {
	case decl.Composite:
		if len(v.Elems) == 0 {
			return s
		}
		var sb strings.Builder
		if v.Addr {
			sb.WriteString("&")
		}
		sb.WriteString(w.typ(v.Type) + "{\n")
		for _, el := range v.Elems {
			key := ""
			if el.Key != nil {
				key = w.inline(el.Key) + ": "
			}
			val := w.expr(el.Value, (indent+1)*tabWidth+len(key), indent+1)
			sb.WriteString(tabs(indent+1) + key + val + ",\n")
		}
		sb.WriteString(tabs(indent) + "}")
		return sb.String()
	case decl.Call:
		if len(v.Args) == 0 {
			return s
		}
		var sb strings.Builder
		sb.WriteString(w.callee(v) + "(\n")
		for _, a := range v.Args {
			sb.WriteString(tabs(indent+1) + w.expr(a, (indent+1)*tabWidth, indent+1) + ",\n")
		}
		sb.WriteString(tabs(indent) + ")")
		return sb.String()
	default:
		return s
	}
}

func (w *writer) callee(c decl.Call) string {
	fn := w.inline(c.Fun)
	if len(c.TypeArgs) > 0 {
		args := make([]string, len(c.TypeArgs))
		for i, t := range c.TypeArgs {
			args[i] = w.typ(t)
		}
		fn += "[" + strings.Join(args, ", ") + "]"
	}
	return fn
}

// inline renders e on a single line.
func (w *writer) inline(e decl.Expr) string {
	switch v := e.(type) {
	case decl.Ident:
		if q := w.im.qualifier(v.Package); q != "" {
			return q + "." + v.Name
		}
		return v.Name
	case decl.ParamRef:
		return v.Name
	case decl.StringLit:
		return strconv.Quote(v.Value)
	case decl.Lit:
		return v.Text
	case decl.Composite:
		elems := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			if el.Key != nil {
				elems[i] = w.inline(el.Key) + ": " + w.inline(el.Value)
			} else {
				elems[i] = w.inline(el.Value)
			}
		}
		s := w.typ(v.Type) + "{" + strings.Join(elems, ", ") + "}"
		if v.Addr {
			s = "&" + s
		}
		return s
	case decl.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = w.inline(a)
		}
		return w.callee(v) + "(" + strings.Join(args, ", ") + ")"
	case decl.Selector:
		return w.inline(v.X) + "." + v.Sel
	case decl.AddrOf:
		return "&" + w.inline(v.X)
	case decl.Convert:
		t := w.typ(v.Type)
		if v.Type.Kind == decl.RefPointer {
			t = "(" + t + ")"
		}
		return t + "(" + w.inline(v.X) + ")"
	case decl.Binary:
		return w.inline(v.X) + " " + v.Op + " " + w.inline(v.Y)
	default:
		panic("emit: unsupported expression")
	}
}
