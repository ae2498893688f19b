package emit

import (
	"cmp"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"
	"unicode"
)

// importTable assigns a local name to every imported package. The first path
// to claim a name keeps it; later paths get an alias.
type importTable struct {
	self   string
	known  map[string]string
	byPath map[string]string
	byName map[string]string
	// file-local identifiers that imports must not shadow
	locals map[string]bool
	logger *slog.Logger
}

func newImportTable(self string, known map[string]string, locals map[string]bool, logger *slog.Logger) *importTable {
	return &importTable{
		self:   self,
		known:  known,
		byPath: make(map[string]string),
		byName: make(map[string]string),
		locals: locals,
		logger: logger,
	}
}

// packageName is the declared name of the package at importPath: from the
// known table, or a guess from the path.
func (it *importTable) packageName(importPath string) string {
	if n, ok := it.known[importPath]; ok {
		return n
	}
	return guessName(importPath)
}

// guessName follows the usual conventions: last path element, skipping a
// major version suffix, without go- prefixes or -go suffixes.
func guessName(importPath string) string {
	elems := strings.Split(importPath, "/")
	base := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(base) {
		base = elems[len(elems)-2]
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, "-go")
	return sanitize(base)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		}
	}
	out := sb.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "pkg" + out
	}
	return out
}

// qualifier returns the name to prefix identifiers from importPath with, or
// the empty string for the file's own package.
func (it *importTable) qualifier(importPath string) string {
	if importPath == "" || importPath == it.self {
		return ""
	}
	if n, ok := it.byPath[importPath]; ok {
		return n
	}

	name := it.packageName(importPath)
	if it.locals[name] {
		alias := it.alias(importPath, name)
		it.logger.Debug("aliasing import shadowed by local identifier", "path", importPath, "name", name, "alias", alias)
		name = alias
	} else if prev, taken := it.byName[name]; taken {
		alias := it.alias(importPath, name)
		it.logger.Warn("import name collision", "name", name, "kept", prev, "path", importPath, "alias", alias)
		name = alias
	}

	it.byPath[importPath] = name
	it.byName[name] = importPath
	return name
}

func (it *importTable) alias(importPath, name string) string {
	dir := path.Dir(importPath)
	parent := ""
	if dir != "." && dir != "/" {
		parent = sanitize(path.Base(dir))
		if isMajorVersion(path.Base(dir)) {
			parent = ""
		}
	}
	candidate := parent + name
	if parent == "" || parent == "pkg" {
		candidate = name + "pkg"
	}
	for i := 2; it.taken(candidate); i++ {
		candidate = fmt.Sprintf("%s%s%d", parent, name, i)
	}
	return candidate
}

func (it *importTable) taken(name string) bool {
	_, used := it.byName[name]
	return used || it.locals[name]
}

type importSpec struct {
	Path  string
	Alias string
}

// specs lists imports in rendering order: standard library first, each group
// sorted by path.
func (it *importTable) specs() (std []importSpec, other []importSpec) {
	for p, n := range it.byPath {
		spec := importSpec{Path: p}
		if n != path.Base(p) {
			spec.Alias = n
		}
		if isStdlib(p) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}
	byPath := func(a, b importSpec) int { return cmp.Compare(a.Path, b.Path) }
	slices.SortFunc(std, byPath)
	slices.SortFunc(other, byPath)
	return std, other
}

func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
