// Package naming converts schema names into Go identifiers.
//
// Schema names are snake_case words as they appear on the wire. Generated
// code keeps the wire spelling in struct tags and docs, and uses the
// converted identifier everywhere else.
package naming

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToIdentifierCase converts a snake_case schema name into lowerCamelCase.
// The first segment is lower-cased; each following segment gets an upper-case
// first letter and a lower-cased remainder. Empty segments are skipped, so
// "a__b" and "a_b" convert identically.
func ToIdentifierCase(name string) string {
	parts := strings.Split(name, "_")
	// cases.Caser is stateful, one per call
	title := cases.Title(language.Und)

	var sb strings.Builder
	sb.WriteString(strings.ToLower(parts[0]))
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		sb.WriteString(title.String(p))
	}
	return sb.String()
}

// Exported returns id with its first rune upper-cased.
func Exported(id string) string {
	r, size := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return id
	}
	return string(unicode.ToUpper(r)) + id[size:]
}

// Unexported returns id with its first rune lower-cased.
func Unexported(id string) string {
	r, size := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return id
	}
	return string(unicode.ToLower(r)) + id[size:]
}

// IsIdentifier reports whether s is a legal Go identifier that is not a keyword.
func IsIdentifier(s string) bool {
	return token.IsIdentifier(s)
}

// NestedName joins a parent declaration name and a member name, following the
// Parent_Member convention used for flattened nested declarations.
func NestedName(parent, member string) string {
	return parent + "_" + member
}

// PackageName derives a Go package name from a schema module name: lower-case
// letters and digits only. Keywords get a "pkg" suffix.
func PackageName(module string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(module) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	name := sb.String()
	if name == "" {
		return "pkg"
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		name = "pkg" + name
	}
	if token.IsKeyword(name) {
		name += "pkg"
	}
	return name
}
