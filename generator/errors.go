package generator

import "errors"

var (
	// ErrNonStructVariant is returned when an enum-of-types lists a variant
	// that is not a struct.
	ErrNonStructVariant = errors.New("enum variant is not a struct")
	// ErrUnresolvedRef is returned for references that name no registered
	// type and no alias.
	ErrUnresolvedRef = errors.New("unresolved type reference")
	// ErrUnknownParamRole is returned for function parameters whose name
	// matches no configured role.
	ErrUnknownParamRole = errors.New("unknown function parameter role")
	ErrDuplicateDecl    = errors.New("duplicate declaration")
	// ErrImportCycle is returned when generated packages would import each
	// other.
	ErrImportCycle       = errors.New("import cycle between modules")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrUnsupportedType is returned for type nodes that cannot appear where
	// they are used, such as an inline struct as a field type.
	ErrUnsupportedType = errors.New("unsupported type in this position")
)
