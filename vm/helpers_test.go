package vm

import (
	"testing"
)

// widgetState is the native state of Widget test objects.
type widgetState struct {
	size int64
}

// newWidgetClass returns a class exercising every kind of built-in: a
// callable default value, a constructor, a method and an accessor.
func newWidgetClass() *Class {
	return &Class{
		Name: "Widget",
		Value: &Builtin{
			Name:  "value",
			Flags: FlagMethod | FlagConstructor,
			Invoke: func(inv *Invocation) (Value, error) {
				return StringValue("called " + inv.This.ID()), nil
			},
		},
		Builtins: BuiltinSet{
			{
				Name:  "make",
				Flags: FlagMethod | FlagConstructor,
				Invoke: func(inv *Invocation) (Value, error) {
					return IntValue(int64(inv.Args.Len())), nil
				},
			},
			{
				Name:  "ping",
				Flags: FlagMethod,
				Invoke: func(inv *Invocation) (Value, error) {
					return RefValue(inv.This), nil
				},
			},
			{
				Name: "size",
				Invoke: func(inv *Invocation) (Value, error) {
					st := inv.Owner.State().(*widgetState)
					switch inv.Mode {
					case ModeGet:
						return IntValue(st.size), nil
					case ModePut:
						v, ok := inv.Args.PutValue()
						if !ok {
							return Empty(), ErrParamMissing
						}
						st.size = v.IntVal
						return Empty(), nil
					}
					return Empty(), ErrUnsupported
				},
			},
		},
		NewState: func() any { return &widgetState{} },
	}
}

func newTestContext(t *testing.T) (*Context, *Class) {
	t.Helper()
	reg := NewClassRegistry()
	widget := newWidgetClass()
	if err := reg.Register(widget); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return NewContext(DefaultOptions(), reg), widget
}

func mustObject(t *testing.T, c *Context, class *Class, proto *Object) *Object {
	t.Helper()
	o, err := c.NewObject(class, proto)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	return o
}

func mustPut(t *testing.T, o *Object, name string, v Value) DispID {
	t.Helper()
	id, err := o.GetDispID(name, NameEnsure)
	if err != nil {
		t.Fatalf("GetDispID(%q): %v", name, err)
	}
	if _, err := o.InvokeEx(id, ModePut, nil, PutArgs(v)); err != nil {
		t.Fatalf("put %q: %v", name, err)
	}
	return id
}

func mustGet(t *testing.T, o *Object, name string) Value {
	t.Helper()
	v, err := o.Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	return v
}

func kindOf(t *testing.T, o *Object, id DispID) SlotKind {
	t.Helper()
	k, err := o.SlotKindOf(id)
	if err != nil {
		t.Fatalf("SlotKindOf(%d): %v", id, err)
	}
	return k
}
