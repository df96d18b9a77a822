// Package clash is a classgen fixture whose names collide.
package clash

import "github.com/chazu/dispex/vm"

type Clash struct{}

func (c *Clash) Size(this *vm.Object, args vm.Args) (vm.Value, error) {
	return vm.Empty(), nil
}

func (c *Clash) GetSize(this *vm.Object) (vm.Value, error) {
	return vm.Empty(), nil
}
