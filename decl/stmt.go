package decl

// Stmt is a statement node in a method body.
type Stmt interface {
	isStmt()
}

// Expr is an expression node.
type Expr interface {
	isExpr()
}

type Return struct {
	Values []Expr
}

type ExprStmt struct {
	X Expr
}

// Define is a short variable declaration: Names := Values.
type Define struct {
	Names  []string
	Values []Expr
}

type If struct {
	Init Stmt
	Cond Expr
	Body []Stmt
}

type Switch struct {
	Tag     Expr
	Cases   []Case
	Default []Stmt
}

type Case struct {
	Values []Expr
	Body   []Stmt
}

// TypeDecl declares a local type.
type TypeDecl struct {
	Name string
	Type TypeRef
}

func (Return) isStmt()   {}
func (ExprStmt) isStmt() {}
func (Define) isStmt()   {}
func (If) isStmt()       {}
func (Switch) isStmt()   {}
func (TypeDecl) isStmt() {}

// Ident names a local variable, or a package-level identifier when Package
// is set.
type Ident struct {
	Package string
	Name    string
}

// ParamRef refers to a parameter of the enclosing method.
type ParamRef struct {
	Name string
}

type StringLit struct {
	Value string
}

// Lit is a literal rendered verbatim: nil, true, 42.
type Lit struct {
	Text string
}

// Composite constructs a value of Type. With Addr set the result is a
// pointer to it.
type Composite struct {
	Type  TypeRef
	Elems []Element
	Addr  bool
}

// Element is one entry of a Composite. Key is nil for positional elements.
type Element struct {
	Key   Expr
	Value Expr
}

type Call struct {
	Fun      Expr
	TypeArgs []TypeRef
	Args     []Expr
}

type Selector struct {
	X   Expr
	Sel string
}

type AddrOf struct {
	X Expr
}

// Convert is a type conversion T(X).
type Convert struct {
	Type TypeRef
	X    Expr
}

type Binary struct {
	X  Expr
	Op string
	Y  Expr
}

func (Ident) isExpr()     {}
func (ParamRef) isExpr()  {}
func (StringLit) isExpr() {}
func (Lit) isExpr()       {}
func (Composite) isExpr() {}
func (Call) isExpr()      {}
func (Selector) isExpr()  {}
func (AddrOf) isExpr()    {}
func (Convert) isExpr()   {}
func (Binary) isExpr()    {}

var Nil = Lit{Text: "nil"}

// Local returns an unqualified identifier.
func Local(name string) Ident {
	return Ident{Name: name}
}

// KeyedField returns a keyed composite element for a struct field.
func KeyedField(name string, value Expr) Element {
	return Element{Key: Ident{Name: name}, Value: value}
}

func Ret(values ...Expr) Return {
	return Return{Values: values}
}

// ErrCheck is the statement `if err != nil { return <values> }`.
func ErrCheck(values ...Expr) If {
	return If{
		Cond: Binary{X: Local("err"), Op: "!=", Y: Nil},
		Body: []Stmt{Ret(values...)},
	}
}

// Exprs visits every expression reachable from stmts, depth first.
func Exprs(stmts []Stmt, fn func(Expr)) {
	for _, s := range stmts {
		walkStmt(s, fn)
	}
}

func walkStmt(s Stmt, fn func(Expr)) {
	switch v := s.(type) {
	case Return:
		for _, e := range v.Values {
			walkExpr(e, fn)
		}
	case ExprStmt:
		walkExpr(v.X, fn)
	case Define:
		for _, e := range v.Values {
			walkExpr(e, fn)
		}
	case If:
		if v.Init != nil {
			walkStmt(v.Init, fn)
		}
		walkExpr(v.Cond, fn)
		Exprs(v.Body, fn)
	case Switch:
		walkExpr(v.Tag, fn)
		for _, c := range v.Cases {
			for _, e := range c.Values {
				walkExpr(e, fn)
			}
			Exprs(c.Body, fn)
		}
		Exprs(v.Default, fn)
	case TypeDecl:
	}
}

func walkExpr(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch v := e.(type) {
	case Composite:
		for _, el := range v.Elems {
			walkExpr(el.Key, fn)
			walkExpr(el.Value, fn)
		}
	case Call:
		walkExpr(v.Fun, fn)
		for _, a := range v.Args {
			walkExpr(a, fn)
		}
	case Selector:
		walkExpr(v.X, fn)
	case AddrOf:
		walkExpr(v.X, fn)
	case Convert:
		walkExpr(v.X, fn)
	case Binary:
		walkExpr(v.X, fn)
		walkExpr(v.Y, fn)
	}
}

// LocalNames returns the identifiers a body introduces: defined variables and
// local types.
func LocalNames(stmts []Stmt) []string {
	var out []string
	var walk func([]Stmt)
	walk = func(ss []Stmt) {
		for _, s := range ss {
			switch v := s.(type) {
			case Define:
				out = append(out, v.Names...)
			case TypeDecl:
				out = append(out, v.Name)
			case If:
				if v.Init != nil {
					walk([]Stmt{v.Init})
				}
				walk(v.Body)
			case Switch:
				for _, c := range v.Cases {
					walk(c.Body)
				}
				walk(v.Default)
			}
		}
	}
	walk(stmts)
	return out
}
