package classes

import (
	"fmt"

	"github.com/chazu/dispex/vm"
)

//go:generate go run ../cmd/dispexgen -type Counter -o counter_builtins.go

// Counter is the native state of a Counter object.
type Counter struct {
	n int64
}

// CounterClass binds Counter's generated built-ins.
var CounterClass = &vm.Class{
	Name:     "Counter",
	NewState: func() any { return &Counter{} },
}

// The generated set refers to Make, which creates Counters, so it is bound
// after package initialization.
func init() {
	CounterClass.Builtins = counterBuiltins
}

// Increment adds its argument, or 1, and returns the new value.
func (c *Counter) Increment(this *vm.Object, args vm.Args) (vm.Value, error) {
	step := int64(1)
	if a := args.Arg(0); !a.IsEmpty() {
		if a.Type != vm.TypeInt {
			return vm.Empty(), fmt.Errorf("%w: increment by %s", vm.ErrUnsupported, a.Type)
		}
		step = a.IntVal
	}
	c.n += step
	return vm.IntValue(c.n), nil
}

// Reset sets the counter back to zero.
func (c *Counter) Reset(this *vm.Object, args vm.Args) (vm.Value, error) {
	c.n = 0
	return vm.Empty(), nil
}

// Make creates a new counter starting at its argument. The caller owns the
// returned object.
//
//dispex:constructor
func (c *Counter) Make(this *vm.Object, args vm.Args) (vm.Value, error) {
	obj, err := this.Context().NewObject(CounterClass, nil)
	if err != nil {
		return vm.Empty(), err
	}
	if a := args.Arg(0); a.Type == vm.TypeInt {
		obj.State().(*Counter).n = a.IntVal
	}
	return vm.RefValue(obj), nil
}

func (c *Counter) GetValue(this *vm.Object) (vm.Value, error) {
	return vm.IntValue(c.n), nil
}

func (c *Counter) SetValue(this *vm.Object, v vm.Value) error {
	if v.Type != vm.TypeInt {
		return fmt.Errorf("%w: counter value must be an int, got %s", vm.ErrUnsupported, v.Type)
	}
	c.n = v.IntVal
	return nil
}
