package snapshot

import (
	"fmt"

	"github.com/chazu/dispex/vm"
)

// pendingRef is a stored reference to an object restored later in the
// graph; it is written once every object exists.
type pendingRef struct {
	obj    *vm.Object
	id     vm.DispID
	target string
}

// Restore rebuilds g in c and returns its root, owned by the caller. Every
// other object is kept alive only by the references the graph holds.
// Built-ins are re-bound by name through c's class registry; native state
// starts fresh.
func Restore(c *vm.Context, g *Graph) (*vm.Object, error) {
	if g.Version != FormatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCorrupt, g.Version)
	}

	created := make(map[string]*vm.Object, len(g.Objects))
	order := make([]*vm.Object, 0, len(g.Objects))
	releaseAll := func() {
		for _, o := range order {
			o.Release()
		}
	}

	var pending []pendingRef
	for _, rec := range g.Objects {
		if _, dup := created[rec.ID]; dup {
			releaseAll()
			return nil, fmt.Errorf("%w: duplicate object %s", ErrCorrupt, rec.ID)
		}
		class := c.Classes().Lookup(rec.Class)
		if class == nil {
			releaseAll()
			return nil, fmt.Errorf("restoring %s: %w: %s", rec.ID, vm.ErrUnknownClass, rec.Class)
		}
		var proto *vm.Object
		if rec.Prototype != "" {
			if proto = created[rec.Prototype]; proto == nil {
				releaseAll()
				return nil, fmt.Errorf("%w: %s precedes its prototype %s", ErrCorrupt, rec.ID, rec.Prototype)
			}
		}

		slots := make([]vm.SlotInfo, len(rec.Slots))
		var later []pendingRef
		for i, sr := range rec.Slots {
			info := vm.SlotInfo{
				ID:      vm.DispID(i),
				Name:    sr.Name,
				Kind:    sr.Kind,
				Flags:   sr.Flags,
				Builtin: sr.Builtin,
				Ref:     sr.Ref,
			}
			if sr.Kind == vm.KindValue && sr.Value != nil {
				v, target, err := decodeValue(sr.Value, created)
				if err != nil {
					releaseAll()
					return nil, fmt.Errorf("restoring %s slot %d: %w", rec.ID, i, err)
				}
				if target != "" {
					later = append(later, pendingRef{id: vm.DispID(i), target: target})
				}
				info.Value = v
			}
			slots[i] = info
		}

		obj, err := c.RestoreObject(rec.ID, class, proto, slots)
		if err != nil {
			releaseAll()
			return nil, err
		}
		created[rec.ID] = obj
		order = append(order, obj)
		for _, p := range later {
			p.obj = obj
			pending = append(pending, p)
		}
	}

	for _, p := range pending {
		target := created[p.target]
		if target == nil {
			releaseAll()
			return nil, fmt.Errorf("%w: %s refers to missing object %s", ErrCorrupt, p.obj.ID(), p.target)
		}
		if _, err := p.obj.InvokeEx(p.id, vm.ModePut, nil, vm.PutArgs(vm.RefValue(target))); err != nil {
			releaseAll()
			return nil, fmt.Errorf("restoring %s slot %d: %w", p.obj.ID(), p.id, err)
		}
	}

	root := created[g.Root]
	if root == nil {
		releaseAll()
		return nil, fmt.Errorf("%w: missing root %s", ErrCorrupt, g.Root)
	}
	for _, o := range order {
		if o != root {
			o.Release()
		}
	}
	log.Debugf("restored %d objects, root %s", len(order), root)
	return root, nil
}

// decodeValue rebuilds a stored value. A reference to an object not yet
// restored comes back as Empty with its target ID.
func decodeValue(vr *ValueRecord, created map[string]*vm.Object) (vm.Value, string, error) {
	switch vr.Type {
	case vm.TypeEmpty:
		return vm.Empty(), "", nil
	case vm.TypeNull:
		return vm.Null(), "", nil
	case vm.TypeBool:
		return vm.BoolValue(vr.Bool), "", nil
	case vm.TypeInt:
		return vm.IntValue(vr.Int), "", nil
	case vm.TypeFloat:
		return vm.FloatValue(vr.Float), "", nil
	case vm.TypeString:
		return vm.StringValue(vr.String), "", nil
	case vm.TypeRef:
		if vr.Object == "" {
			return vm.Empty(), "", fmt.Errorf("%w: reference without target", ErrCorrupt)
		}
		if o := created[vr.Object]; o != nil {
			return vm.RefValue(o), "", nil
		}
		return vm.Empty(), vr.Object, nil
	}
	return vm.Empty(), "", fmt.Errorf("%w: value type %d", ErrCorrupt, vr.Type)
}
