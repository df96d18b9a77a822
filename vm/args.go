package vm

import (
	"fmt"
	"strings"
)

// DispID is a member identifier: the index of a slot in an object's table.
type DispID int32

// Reserved identifiers.
const (
	// DispIDStartEnum is the enumeration cursor before the first member.
	DispIDStartEnum DispID = -1

	// DispIDValue is slot 0, the class default-value member.
	DispIDValue DispID = 0

	// DispIDPrototype is slot 1, named "prototype".
	DispIDPrototype DispID = 1

	// DispIDPropertyPut names the argument carrying the value of a put.
	DispIDPropertyPut DispID = -3
)

// PrototypeName is the name of the reserved slot 1.
const PrototypeName = "prototype"

// Mode selects what InvokeEx does with a member.
type Mode uint8

const (
	ModeCall Mode = iota + 1
	ModeGet
	ModePut
	ModeConstruct
)

func (m Mode) String() string {
	switch m {
	case ModeCall:
		return "call"
	case ModeGet:
		return "get"
	case ModePut:
		return "put"
	case ModeConstruct:
		return "construct"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "call":
		return ModeCall, nil
	case "get":
		return ModeGet, nil
	case "put":
		return ModePut, nil
	case "construct":
		return ModeConstruct, nil
	}
	return 0, fmt.Errorf("%w: mode %q", ErrUnsupported, s)
}

// NameFlags qualify a GetDispID lookup.
type NameFlags uint32

const (
	NameCaseSensitive NameFlags = 0x1
	NameEnsure        NameFlags = 0x2
	NameImplicit      NameFlags = 0x4

	// names the engine understands; any other bit is unsupported
	nameFlagsKnown = NameCaseSensitive | NameEnsure | NameImplicit
)

// EnumFlags qualify GetNextDispID.
type EnumFlags uint32

const (
	EnumDefault EnumFlags = 0x1
	EnumAll     EnumFlags = 0x2

	enumFlagsKnown = EnumDefault | EnumAll
)

// NamedArg is an argument addressed by identifier rather than position.
type NamedArg struct {
	ID    DispID
	Value Value
}

// Args carries the arguments of a dispatch.
type Args struct {
	Positional []Value
	Named      []NamedArg
}

// NoArgs is the empty argument list.
var NoArgs = Args{}

// Positional builds Args from positional values.
func Positional(vals ...Value) Args {
	return Args{Positional: vals}
}

// PutArgs builds the arguments of a put storing v.
func PutArgs(v Value) Args {
	return Args{Named: []NamedArg{{ID: DispIDPropertyPut, Value: v}}}
}

// Len returns the number of positional arguments.
func (a Args) Len() int { return len(a.Positional) }

// Arg returns positional argument i, or Empty when absent.
func (a Args) Arg(i int) Value {
	if i < 0 || i >= len(a.Positional) {
		return Empty()
	}
	return a.Positional[i]
}

// NamedValue returns the named argument id.
func (a Args) NamedValue(id DispID) (Value, bool) {
	for _, n := range a.Named {
		if n.ID == id {
			return n.Value, true
		}
	}
	return Empty(), false
}

// PutValue returns the value argument of a put.
func (a Args) PutValue() (Value, bool) {
	return a.NamedValue(DispIDPropertyPut)
}
