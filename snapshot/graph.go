// Package snapshot captures host object graphs into a self-contained form
// and rebuilds them, keeping every slot identifier.
package snapshot

import (
	"errors"

	"github.com/chazu/dispex/vm"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("dispex.snapshot")

// FormatVersion is the graph layout written by Capture.
const FormatVersion = 1

var (
	// ErrUnencodable reports a value that refers outside the host object model.
	ErrUnencodable = errors.New("snapshot: value cannot be encoded")

	// ErrCorrupt reports a graph that cannot be rebuilt.
	ErrCorrupt = errors.New("snapshot: corrupt graph")
)

// Graph is every host object reachable from a root, prototypes before the
// objects inheriting from them.
type Graph struct {
	Version uint8          `cbor:"1,keyasint"`
	Root    string         `cbor:"2,keyasint"`
	Objects []ObjectRecord `cbor:"3,keyasint"`
}

// ObjectRecord is one object's class, prototype and table.
type ObjectRecord struct {
	ID        string       `cbor:"1,keyasint"`
	Class     string       `cbor:"2,keyasint"`
	Prototype string       `cbor:"3,keyasint,omitempty"`
	Slots     []SlotRecord `cbor:"4,keyasint"`
}

// SlotRecord is one table entry. Its identifier is its position.
type SlotRecord struct {
	Name    string       `cbor:"1,keyasint,omitempty"`
	Kind    vm.SlotKind  `cbor:"2,keyasint"`
	Flags   vm.SlotFlags `cbor:"3,keyasint,omitempty"`
	Value   *ValueRecord `cbor:"4,keyasint,omitempty"`
	Builtin string       `cbor:"5,keyasint,omitempty"`
	Ref     vm.DispID    `cbor:"6,keyasint,omitempty"`
}

// ValueRecord is a stored value; object references are by ID.
type ValueRecord struct {
	Type   vm.ValueType `cbor:"1,keyasint"`
	Bool   bool         `cbor:"2,keyasint,omitempty"`
	Int    int64        `cbor:"3,keyasint,omitempty"`
	Float  float64      `cbor:"4,keyasint,omitempty"`
	String string       `cbor:"5,keyasint,omitempty"`
	Object string       `cbor:"6,keyasint,omitempty"`
}

// Lookup returns the record of object id.
func (g *Graph) Lookup(id string) *ObjectRecord {
	for i := range g.Objects {
		if g.Objects[i].ID == id {
			return &g.Objects[i]
		}
	}
	return nil
}
