package store

import "fmt"

// Sentinel errors surfaced by the stores. Handlers match these with
// errors.Is to pick response categories; stores wrap them with context.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = fmt.Errorf("not found")

	// ErrDuplicateAPIName is returned when an explicit API name collides
	// within the same object type.
	ErrDuplicateAPIName = fmt.Errorf("duplicate api name")

	// ErrInvalidAPIName is returned when an explicit API name is not a valid
	// snake_case token.
	ErrInvalidAPIName = fmt.Errorf("invalid api name")

	// ErrUnknownField is returned when a value write names a field that does
	// not exist on the record's object type.
	ErrUnknownField = fmt.Errorf("unknown field")

	// ErrSourceNotFound is returned by import/publish when a source object
	// type is archived or missing.
	ErrSourceNotFound = fmt.Errorf("source object type not found")

	// ErrTypeInUse is returned when hard-deleting an object type that still
	// has records or mappings referencing it.
	ErrTypeInUse = fmt.Errorf("object type still referenced")

	// ErrInvalidPermission is returned for a share permission level outside
	// read/edit.
	ErrInvalidPermission = fmt.Errorf("invalid permission level")
)
