package classes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/dispex/vm"
)

// Func is a script function implemented in Go. this is the receiver the
// function was called on.
type Func func(this *vm.Object, args vm.Args) (vm.Value, error)

type function struct {
	name string
	fn   Func
}

// FunctionClass wraps a Func. Calling the object calls the function, so a
// function stored as a property behaves as a method of its holder.
var FunctionClass = &vm.Class{
	Name: "Function",
	Value: &vm.Builtin{
		Name:   "call",
		Flags:  vm.FlagMethod | vm.FlagConstructor,
		Invoke: callFunction,
	},
	Builtins: vm.BuiltinSet{
		{Name: "name", Invoke: functionName},
	},
	Finalizer: func(obj *vm.Object) {
		if f, ok := obj.State().(*function); ok {
			log.Debugf("released function %s", f.name)
		}
	},
}

// NewFunction creates a function object. The caller owns its reference.
func NewFunction(c *vm.Context, name string, fn Func) (*vm.Object, error) {
	obj, err := c.NewObject(FunctionClass, nil)
	if err != nil {
		return nil, err
	}
	obj.SetState(&function{name: name, fn: fn})
	return obj, nil
}

func callFunction(inv *vm.Invocation) (vm.Value, error) {
	f, ok := inv.Owner.State().(*function)
	if !ok {
		return vm.Empty(), fmt.Errorf("%w: %s has no function", vm.ErrNotInvocable, inv.Owner)
	}
	return f.fn(inv.This, inv.Args)
}

func functionName(inv *vm.Invocation) (vm.Value, error) {
	f, ok := inv.Owner.State().(*function)
	if !ok {
		return vm.Empty(), fmt.Errorf("%w: %s has no function", vm.ErrNotInvocable, inv.Owner)
	}
	if inv.Mode != vm.ModeGet {
		return vm.Empty(), fmt.Errorf("%w: function name is read-only", vm.ErrUnsupported)
	}
	return vm.StringValue(f.name), nil
}

// ---------------------------------------------------------------------------
// Natives
// ---------------------------------------------------------------------------

// natives are the Go functions hosts can bind by name.
var natives = map[string]Func{
	// identity returns its first argument.
	"identity": func(this *vm.Object, args vm.Args) (vm.Value, error) {
		return args.Arg(0), nil
	},
	// receiver returns the object it was called on.
	"receiver": func(this *vm.Object, args vm.Args) (vm.Value, error) {
		return vm.RefValue(this), nil
	},
	// concat joins its arguments.
	"concat": func(this *vm.Object, args vm.Args) (vm.Value, error) {
		var b strings.Builder
		for _, a := range args.Positional {
			if a.Type == vm.TypeString {
				b.WriteString(a.StringVal)
			} else {
				b.WriteString(a.String())
			}
		}
		return vm.StringValue(b.String()), nil
	},
	// describe reads the receiver's name property.
	"describe": func(this *vm.Object, args vm.Args) (vm.Value, error) {
		return vm.StringValue(this.Class().Name + " " + this.GetString("name")), nil
	},
}

// Native returns the named native function.
func Native(name string) (Func, bool) {
	fn, ok := natives[name]
	return fn, ok
}

// NativeNames lists the natives, sorted.
func NativeNames() []string {
	names := make([]string, 0, len(natives))
	for name := range natives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
