// Package classes provides the standard host classes: functions wrapping Go
// code, counters and greeters.
package classes

import (
	"github.com/chazu/dispex/vm"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("dispex.classes")

// All returns the standard classes in registration order.
func All() []*vm.Class {
	return []*vm.Class{FunctionClass, CounterClass, GreeterClass}
}

// Register adds the standard classes to reg.
func Register(reg *vm.ClassRegistry) error {
	for _, c := range All() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding Object and the standard classes.
func NewRegistry() *vm.ClassRegistry {
	reg := vm.NewClassRegistry()
	for _, c := range All() {
		reg.MustRegister(c)
	}
	return reg
}
