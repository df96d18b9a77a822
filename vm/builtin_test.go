package vm

import (
	"errors"
	"fmt"
	"testing"
)

func noop(*Invocation) (Value, error) { return Empty(), nil }

func TestBuiltinSetLookupSorted(t *testing.T) {
	var set BuiltinSet
	for i := 0; i < 37; i++ {
		set = append(set, Builtin{Name: fmt.Sprintf("m%03d", i*2), Invoke: noop})
	}
	if err := set.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	for i := range set {
		b := set.Lookup(set[i].Name)
		if b != &set[i] {
			t.Errorf("Lookup(%q) = %v, want entry %d", set[i].Name, b, i)
		}
	}
	for _, name := range []string{"", "m001", "m073", "m999", "a", "z", "M000"} {
		if b := set.Lookup(name); b != nil {
			t.Errorf("Lookup(%q) = %q, want nil", name, b.Name)
		}
	}
}

func TestBuiltinSetLookupEmpty(t *testing.T) {
	var set BuiltinSet
	if b := set.Lookup("x"); b != nil {
		t.Errorf("Lookup on empty set = %v, want nil", b)
	}
}

func TestBuiltinSetUnsorted(t *testing.T) {
	set := BuiltinSet{
		{Name: "b", Invoke: noop},
		{Name: "a", Invoke: noop},
		{Name: "c", Invoke: noop},
	}

	if err := set.Validate(); !errors.Is(err, ErrInvalidClass) {
		t.Errorf("Validate = %v, want ErrInvalidClass", err)
	}
	// binary search over a mis-sorted set misses "a"
	if b := set.Lookup("a"); b != nil {
		t.Errorf("Lookup(a) on unsorted set = %q, want nil", b.Name)
	}

	SortBuiltins(set)
	if err := set.Validate(); err != nil {
		t.Fatalf("Validate after sort: %v", err)
	}
	if b := set.Lookup("a"); b == nil || b.Name != "a" {
		t.Errorf("Lookup(a) after sort = %v", b)
	}
}

func TestBuiltinSetValidate(t *testing.T) {
	tests := []struct {
		name string
		set  BuiltinSet
	}{
		{"duplicate", BuiltinSet{{Name: "a", Invoke: noop}, {Name: "a", Invoke: noop}}},
		{"unnamed", BuiltinSet{{Name: "", Invoke: noop}}},
		{"no implementation", BuiltinSet{{Name: "a"}}},
		{"case order", BuiltinSet{{Name: "b", Invoke: noop}, {Name: "B", Invoke: noop}}},
	}
	for _, tt := range tests {
		if err := tt.set.Validate(); !errors.Is(err, ErrInvalidClass) {
			t.Errorf("%s: Validate = %v, want ErrInvalidClass", tt.name, err)
		}
	}
}
