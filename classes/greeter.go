package classes

import (
	"fmt"

	"github.com/chazu/dispex/vm"
)

const defaultGreetee = "world"

type greeter struct {
	name string
}

// GreeterClass greets whatever its receiver's name property holds. Objects
// inheriting from a Greeter greet by their own name once they set one.
var GreeterClass = &vm.Class{
	Name: "Greeter",
	Builtins: vm.BuiltinSet{
		{Name: "greet", Flags: vm.FlagMethod, Invoke: greet},
		{Name: "name", Invoke: greeterName},
	},
	NewState: func() any { return &greeter{name: defaultGreetee} },
}

func greet(inv *vm.Invocation) (vm.Value, error) {
	name := inv.This.GetString("name")
	if name == "" {
		name = defaultGreetee
	}
	return vm.StringValue("Hello, " + name + "!"), nil
}

func greeterName(inv *vm.Invocation) (vm.Value, error) {
	g, ok := inv.Owner.State().(*greeter)
	if !ok {
		return vm.Empty(), fmt.Errorf("%w: %s is not a Greeter", vm.ErrNotInvocable, inv.Owner)
	}
	switch inv.Mode {
	case vm.ModeGet:
		return vm.StringValue(g.name), nil
	case vm.ModePut:
		v, ok := inv.Args.PutValue()
		if !ok {
			return vm.Empty(), vm.ErrParamMissing
		}
		if v.Type != vm.TypeString {
			return vm.Empty(), fmt.Errorf("%w: greeter name must be a string, got %s", vm.ErrUnsupported, v.Type)
		}
		g.name = v.StringVal
		return vm.Empty(), nil
	}
	return vm.Empty(), fmt.Errorf("%w: %s on name", vm.ErrUnsupported, inv.Mode)
}
