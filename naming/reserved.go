package naming

import (
	"go/token"
	"maps"
	"slices"
)

// names the generated entry points claim for themselves
var generatorNames = []string{"ctx", "c", "appObject"}

// Reserved is a lookup table of identifiers that may not appear in generated
// code as-is, mapped to their substitutes.
type Reserved struct {
	table map[string]string
	// entries that only guard lowercase identifiers: keywords and the
	// generator's own parameter names
	guards map[string]bool
}

// DefaultReserved returns the stock table: a handful of schema names that read
// badly as identifiers, every Go keyword, and the parameter names used by
// generated entry points.
func DefaultReserved() *Reserved {
	r := &Reserved{
		table: map[string]string{
			"public":      "publicKey",
			"secret":      "secretKey",
			"switch":      "switchTo",
			"abi version": "ABIversion",
		},
		guards: make(map[string]bool),
	}
	for tok := token.BREAK; tok <= token.VAR; tok++ {
		if !tok.IsKeyword() {
			continue
		}
		kw := tok.String()
		if _, ok := r.table[kw]; !ok {
			r.table[kw] = kw + "Value"
			r.guards[kw] = true
		}
	}
	for _, n := range generatorNames {
		r.table[n] = n + "Value"
		r.guards[n] = true
	}
	return r
}

// Set adds or replaces a substitution.
func (r *Reserved) Set(from, to string) {
	r.table[from] = to
	delete(r.guards, from)
}

// Remap returns the substitute for id and true when id is reserved; otherwise
// it returns id unchanged and false. A true result means the caller must keep
// the original schema name as the wire name.
func (r *Reserved) Remap(id string) (string, bool) {
	if sub, ok := r.table[id]; ok {
		return sub, true
	}
	return id, false
}

// Names lists the reserved identifiers in sorted order.
func (r *Reserved) Names() []string {
	return slices.Sorted(maps.Keys(r.table))
}

var defaultReserved = DefaultReserved()

// RemapReserved consults the default table. See Reserved.Remap.
func RemapReserved(id string) (string, bool) {
	return defaultReserved.Remap(id)
}

// Identifier converts a schema name into a lowerCamelCase identifier and
// applies the reserved table. The returned wire name is the schema name when
// the identifier differs from it, and empty otherwise.
func (r *Reserved) Identifier(schemaName string) (ident string, wire string) {
	id := ToIdentifierCase(schemaName)
	if sub, ok := r.Remap(schemaName); ok {
		id = sub
	} else {
		id, _ = r.Remap(id)
	}
	if id != schemaName {
		wire = schemaName
	}
	return id, wire
}

// FieldName converts a schema name into an exported field name. Only renames
// apply; keyword guards are irrelevant once the name is exported.
func (r *Reserved) FieldName(schemaName string) string {
	id := ToIdentifierCase(schemaName)
	if sub, ok := r.table[schemaName]; ok && !r.guards[schemaName] {
		id = sub
	} else if sub, ok := r.table[id]; ok && !r.guards[id] {
		id = sub
	}
	return Exported(id)
}
