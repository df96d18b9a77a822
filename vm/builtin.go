package vm

import (
	"fmt"
	"sort"
)

// Invocation is what a built-in receives when dispatched.
//
// Owner is the object whose table holds the built-in slot; This is the
// receiver the operation was made on. They differ when the member was
// reached through a prototype, or when a function object is called as a
// method of another object.
type Invocation struct {
	Mode  Mode
	This  *Object
	Owner *Object
	Args  Args
}

// InvokeFunc implements a built-in member.
type InvokeFunc func(inv *Invocation) (Value, error)

// Builtin is a native member declared by a class.
type Builtin struct {
	Name   string
	Flags  SlotFlags
	Invoke InvokeFunc
}

func (b *Builtin) methodLike() bool { return b.Flags&FlagMethod != 0 }

func (b *Builtin) methodOnly() bool {
	return b.Flags&FlagMethod != 0 && b.Flags&FlagConstructor == 0
}

// BuiltinSet is a class's built-in descriptors, sorted by name in ordinal
// byte order. It must not change once its class is registered.
type BuiltinSet []Builtin

// Lookup finds name by binary search. On a set that is not sorted the
// result is unspecified.
func (s BuiltinSet) Lookup(name string) *Builtin {
	i := sort.Search(len(s), func(i int) bool { return s[i].Name >= name })
	if i < len(s) && s[i].Name == name {
		return &s[i]
	}
	return nil
}

// Validate checks that s is strictly sorted, named and implemented.
func (s BuiltinSet) Validate() error {
	for i := range s {
		b := &s[i]
		if b.Name == "" {
			return fmt.Errorf("%w: built-in %d has no name", ErrInvalidClass, i)
		}
		if b.Invoke == nil {
			return fmt.Errorf("%w: built-in %q has no implementation", ErrInvalidClass, b.Name)
		}
		if i > 0 && s[i-1].Name >= b.Name {
			if s[i-1].Name == b.Name {
				return fmt.Errorf("%w: duplicate built-in %q", ErrInvalidClass, b.Name)
			}
			return fmt.Errorf("%w: built-in %q sorts before %q", ErrInvalidClass, b.Name, s[i-1].Name)
		}
	}
	return nil
}

// Names returns the descriptor names in table order.
func (s BuiltinSet) Names() []string {
	names := make([]string, len(s))
	for i := range s {
		names[i] = s[i].Name
	}
	return names
}

// SortBuiltins sorts s in place into lookup order.
func SortBuiltins(s BuiltinSet) {
	sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
}
