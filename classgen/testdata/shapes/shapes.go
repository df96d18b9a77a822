// Package shapes is a classgen fixture.
package shapes

import "github.com/chazu/dispex/vm"

type Shape struct {
	sides int64
	label string
}

func (s *Shape) Area(this *vm.Object, args vm.Args) (vm.Value, error) {
	return vm.IntValue(0), nil
}

// Clone copies the shape.
//
//dispex:constructor
func (s *Shape) Clone(this *vm.Object, args vm.Args) (vm.Value, error) {
	return vm.Empty(), nil
}

func (s *Shape) GetSides(this *vm.Object) (vm.Value, error) {
	return vm.IntValue(s.sides), nil
}

func (s *Shape) SetSides(this *vm.Object, v vm.Value) error {
	s.sides = v.IntVal
	return nil
}

// read-only
func (s *Shape) GetHTMLLabel(this *vm.Object) (vm.Value, error) {
	return vm.StringValue(s.label), nil
}

// not member shapes
func (s *Shape) Reset() {}

func (s *Shape) Describe() string { return s.label }

func (s *Shape) unexported(this *vm.Object) {}
