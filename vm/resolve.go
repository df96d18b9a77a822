package vm

// findLocal looks name up in the object's own table, then in its class's
// built-in set. A built-in hit is cached as a new slot.
func (o *Object) findLocal(name string) (DispID, bool, error) {
	if id, ok := o.scanLocal(name); ok {
		return id, true, nil
	}

	b := o.class.Builtins.Lookup(name)
	if b == nil {
		return 0, false, nil
	}
	id, err := o.appendSlot(slot{name: name, kind: KindBuiltin, flags: b.Flags, builtin: b})
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// scanLocal finds a live named slot without touching the class. A ProtoRef
// whose prototype member is gone is tombstoned and does not match.
func (o *Object) scanLocal(name string) (DispID, bool) {
	for i := range o.slots {
		s := &o.slots[i]
		if !s.live() || !s.named() || s.name != name {
			continue
		}
		if s.kind == KindProtoRef {
			if _, ok := o.target(DispID(i)); !ok {
				continue
			}
		}
		return DispID(i), true
	}
	return 0, false
}

// resolve finds name locally, then along the prototype chain, caching an
// inherited hit as a local ProtoRef. With create, a miss becomes a new
// enumerable Value slot holding Empty.
func (o *Object) resolve(name string, create bool) (DispID, bool, error) {
	id, ok, err := o.findLocal(name)
	if err != nil || ok {
		return id, ok, err
	}

	if o.proto != nil {
		pid, ok, err := o.proto.resolve(name, false)
		if err != nil {
			return 0, false, err
		}
		if ok {
			id, err := o.appendSlot(slot{name: name, kind: KindProtoRef, ref: pid})
			if err != nil {
				return 0, false, err
			}
			return id, true, nil
		}
	}

	if !create {
		return 0, false, nil
	}
	log.Debugf("%s: creating %q", o, name)
	id, err = o.appendSlot(slot{name: name, kind: KindValue, flags: FlagEnumerable})
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// has reports whether name resolves anywhere, without allocating.
func (o *Object) has(name string) bool {
	for p := o; p != nil; p = p.proto {
		if _, ok := p.scanLocal(name); ok {
			return true
		}
		if p.class.Builtins.Lookup(name) != nil {
			return true
		}
	}
	return false
}

// target follows the ProtoRef at id one level. A ref whose prototype slot
// is gone is turned into a tombstone and reported as not found.
func (o *Object) target(id DispID) (DispID, bool) {
	ref := o.slots[id].ref
	if o.proto != nil && o.proto.slotAt(ref) != nil {
		return ref, true
	}
	log.Debugf("%s: stale prototype reference %q -> %d", o, o.slots[id].name, ref)
	o.tombstone(id)
	return 0, false
}

// flagsOf returns the effective flags of live slot id, following ProtoRefs.
func (o *Object) flagsOf(id DispID) SlotFlags {
	s := &o.slots[id]
	if s.kind != KindProtoRef {
		return s.flags
	}
	pid, ok := o.target(id)
	if !ok {
		return 0
	}
	return o.proto.flagsOf(pid)
}

// fillProtoRefs gives every named member of the prototype chain a local
// slot, ancestors first, so enumeration can walk one table.
func (o *Object) fillProtoRefs() error {
	p := o.proto
	if p == nil {
		return nil
	}
	if err := p.fillProtoRefs(); err != nil {
		return err
	}

	for i := 0; i < len(p.slots); i++ {
		ps := &p.slots[i]
		if !ps.named() || !ps.live() {
			continue
		}
		name := ps.name
		_, ok, err := o.findLocal(name)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := o.appendSlot(slot{name: name, kind: KindProtoRef, ref: DispID(i)}); err != nil {
			return err
		}
	}
	return nil
}
