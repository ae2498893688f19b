package apischema

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Tree renders the reference as a printable tree of modules, types, and
// function signatures.
func Tree(ref *Reference) treeprint.Tree {
	root := treeprint.NewWithRoot(fmt.Sprintf("API reference %s", ref.Version))
	for _, m := range ref.Modules {
		mb := root.AddMetaBranch("module", m.Name)
		if len(m.Types) > 0 {
			tb := mb.AddBranch("types")
			for _, t := range m.Types {
				addType(tb, t)
			}
		}
		if len(m.Functions) > 0 {
			fb := mb.AddBranch("functions")
			for _, f := range m.Functions {
				node := fb.AddMetaBranch("fn", f.Name)
				for _, p := range f.Params {
					node.AddMetaNode("param", p.String())
				}
				node.AddMetaNode("result", describe(f.Result.Inner))
			}
		}
	}
	return root
}

func addType(b treeprint.Tree, t *Type) {
	switch v := t.Inner.(type) {
	case Struct:
		sb := b.AddBranch(t.String())
		for _, f := range v.Fields {
			addType(sb, f)
		}
	case EnumOfTypes:
		eb := b.AddBranch(t.String())
		for _, vt := range v.Variants {
			addType(eb, vt)
		}
	case EnumOfConsts:
		eb := b.AddBranch(t.String())
		for _, c := range v.Consts {
			if c.Value != c.Name {
				eb.AddNode(fmt.Sprintf("%s = %q", c.Name, c.Value))
			} else {
				eb.AddNode(c.Name)
			}
		}
	default:
		b.AddNode(t.String())
	}
}
