package vm

import (
	"fmt"
	"strings"
)

// SlotKind is the variant a slot holds.
type SlotKind uint8

const (
	KindValue    SlotKind = iota // script value stored directly
	KindBuiltin                  // cached native descriptor
	KindProtoRef                 // index into the prototype's table
	KindDeleted                  // tombstone
)

func (k SlotKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindBuiltin:
		return "builtin"
	case KindProtoRef:
		return "protoref"
	case KindDeleted:
		return "deleted"
	}
	return fmt.Sprintf("SlotKind(%d)", uint8(k))
}

// SlotFlags are attribute bits of a slot or built-in descriptor.
type SlotFlags uint32

const (
	FlagEnumerable  SlotFlags = 1 << iota // visible to enumeration
	FlagMethod                            // a function, not an accessor
	FlagConstructor                       // a method that may also be constructed
)

func (f SlotFlags) String() string {
	if f == 0 {
		return "-"
	}
	var parts []string
	if f&FlagEnumerable != 0 {
		parts = append(parts, "enumerable")
	}
	if f&FlagMethod != 0 {
		parts = append(parts, "method")
	}
	if f&FlagConstructor != 0 {
		parts = append(parts, "constructor")
	}
	if rest := f &^ (FlagEnumerable | FlagMethod | FlagConstructor); rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// slot is one entry of a property table. Which payload field is meaningful
// depends on kind; the others are zero.
type slot struct {
	name  string // "" for unnamed slots
	kind  SlotKind
	flags SlotFlags

	value   Value    // KindValue
	builtin *Builtin // KindBuiltin
	ref     DispID   // KindProtoRef
}

func (s *slot) named() bool { return s.name != "" }

func (s *slot) live() bool { return s.kind != KindDeleted }

// clear turns s into a tombstone and returns the value payload it held,
// which the caller must release once the table is consistent again.
func (s *slot) clear() Value {
	old := s.value
	s.kind = KindDeleted
	s.flags = 0
	s.value = Value{}
	s.builtin = nil
	s.ref = 0
	if old.Type == TypeRef {
		return old
	}
	return Value{}
}

// SlotInfo describes one table entry. It is a copy; changing it does not
// affect the object.
type SlotInfo struct {
	ID      DispID
	Name    string
	Kind    SlotKind
	Flags   SlotFlags
	Value   Value  // KindValue
	Builtin string // KindBuiltin: descriptor name
	Ref     DispID // KindProtoRef: prototype slot
}

func (s SlotInfo) String() string {
	name := s.Name
	if name == "" {
		name = "<unnamed>"
	}
	switch s.Kind {
	case KindValue:
		return fmt.Sprintf("%d %s value %s [%s]", s.ID, name, s.Value, s.Flags)
	case KindBuiltin:
		return fmt.Sprintf("%d %s builtin %s [%s]", s.ID, name, s.Builtin, s.Flags)
	case KindProtoRef:
		return fmt.Sprintf("%d %s protoref ->%d", s.ID, name, s.Ref)
	}
	return fmt.Sprintf("%d %s deleted", s.ID, name)
}
