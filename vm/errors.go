package vm

import (
	"errors"
)

// Dispatch errors. Operations wrap these with context; test with errors.Is.
var (
	ErrOutOfMemory      = errors.New("slot table limit exceeded")
	ErrMemberNotFound   = errors.New("member not found")
	ErrUnknownName      = errors.New("unknown name")
	ErrParamMissing     = errors.New("missing value argument")
	ErrNotInvocable     = errors.New("member is not invocable")
	ErrNotConstructible = errors.New("member is not constructible")
	ErrUnsupported      = errors.New("unsupported dispatch request")
	ErrInternal         = errors.New("internal slot inconsistency")

	// ErrNoMoreItems ends an enumeration. It is a signal, not a failure.
	ErrNoMoreItems = errors.New("no more items")
)

// Registration errors.
var (
	ErrInvalidClass = errors.New("invalid class descriptor")
	ErrClassExists  = errors.New("class already registered")
	ErrUnknownClass = errors.New("unknown class")
)

// errorNames maps each dispatch sentinel to its short name.
var errorNames = []struct {
	err  error
	name string
}{
	{ErrOutOfMemory, "OutOfMemory"},
	{ErrMemberNotFound, "MemberNotFound"},
	{ErrUnknownName, "UnknownName"},
	{ErrParamMissing, "ParamMissing"},
	{ErrNotInvocable, "NotInvocable"},
	{ErrNotConstructible, "NotConstructible"},
	{ErrUnsupported, "Unsupported"},
	{ErrInternal, "Internal"},
	{ErrNoMoreItems, "NoMoreItems"},
	{ErrInvalidClass, "InvalidClass"},
	{ErrClassExists, "ClassExists"},
	{ErrUnknownClass, "UnknownClass"},
}

// ErrorName returns the short name of the sentinel err wraps ("ParamMissing",
// "MemberNotFound", ...), or "" if err wraps none of them.
func ErrorName(err error) string {
	if err == nil {
		return ""
	}
	for _, e := range errorNames {
		if errors.Is(err, e.err) {
			return e.name
		}
	}
	return ""
}

// ErrorByName is the inverse of ErrorName.
func ErrorByName(name string) error {
	for _, e := range errorNames {
		if e.name == name {
			return e.err
		}
	}
	return nil
}
