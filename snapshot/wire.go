package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode encodes canonically, so equal graphs produce equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Graph to CBOR bytes.
func Marshal(g *Graph) ([]byte, error) {
	return cborEncMode.Marshal(g)
}

// Unmarshal deserializes a Graph from CBOR bytes.
func Unmarshal(data []byte) (*Graph, error) {
	var g Graph
	if err := cbor.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal graph: %w", err)
	}
	return &g, nil
}
