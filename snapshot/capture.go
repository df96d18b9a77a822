package snapshot

import (
	"fmt"

	"github.com/chazu/dispex/vm"
)

// Capture records root and everything it reaches through prototypes and
// stored references.
func Capture(root *vm.Object) (*Graph, error) {
	if root == nil || root.Destroyed() {
		return nil, fmt.Errorf("%w: no live root", ErrUnencodable)
	}
	c := &capturer{seen: make(map[*vm.Object]bool)}
	if err := c.visit(root); err != nil {
		return nil, err
	}
	log.Debugf("captured %d objects from %s", len(c.records), root)
	return &Graph{Version: FormatVersion, Root: root.ID(), Objects: c.records}, nil
}

type capturer struct {
	seen    map[*vm.Object]bool
	records []ObjectRecord
}

func (c *capturer) visit(o *vm.Object) error {
	if c.seen[o] {
		return nil
	}
	c.seen[o] = true

	rec := ObjectRecord{ID: o.ID(), Class: o.Class().Name}
	if p := o.Prototype(); p != nil {
		if err := c.visit(p); err != nil {
			return err
		}
		rec.Prototype = p.ID()
	}

	var refs []*vm.Object
	for _, s := range o.Slots() {
		sr := SlotRecord{
			Name:    s.Name,
			Kind:    s.Kind,
			Flags:   s.Flags,
			Builtin: s.Builtin,
			Ref:     s.Ref,
		}
		if s.Kind == vm.KindValue {
			vr, ref, err := encodeValue(s.Value)
			if err != nil {
				return fmt.Errorf("%w: %s slot %d (%q)", err, o, s.ID, s.Name)
			}
			sr.Value = vr
			if ref != nil {
				refs = append(refs, ref)
			}
		}
		rec.Slots = append(rec.Slots, sr)
	}
	c.records = append(c.records, rec)

	for _, ref := range refs {
		if err := c.visit(ref); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(v vm.Value) (*ValueRecord, *vm.Object, error) {
	vr := &ValueRecord{Type: v.Type}
	switch v.Type {
	case vm.TypeEmpty, vm.TypeNull:
	case vm.TypeBool:
		vr.Bool = v.BoolVal
	case vm.TypeInt:
		vr.Int = v.IntVal
	case vm.TypeFloat:
		vr.Float = v.FloatVal
	case vm.TypeString:
		vr.String = v.StringVal
	case vm.TypeRef:
		o, ok := v.Object()
		if !ok {
			return nil, nil, fmt.Errorf("%w: external reference %s", ErrUnencodable, v.RefVal)
		}
		vr.Object = o.ID()
		return vr, o, nil
	default:
		return nil, nil, fmt.Errorf("%w: value type %s", ErrUnencodable, v.Type)
	}
	return vr, nil, nil
}
