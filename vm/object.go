package vm

import (
	"fmt"
	"sync/atomic"
)

// Object is a host object: a property table bound to a class and an
// optional prototype.
type Object struct {
	id    string
	ctx   *Context
	class *Class
	proto *Object
	slots []slot
	state any

	refs atomic.Int32
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// ID returns the object's unique identifier.
func (o *Object) ID() string { return o.id }

func (o *Object) Class() *Class { return o.class }

// Prototype returns the prototype fixed at creation, or nil.
func (o *Object) Prototype() *Object { return o.proto }

func (o *Object) Context() *Context { return o.ctx }

// State returns the native state created by the class's NewState.
func (o *Object) State() any { return o.state }

// SetState replaces the native state.
func (o *Object) SetState(s any) { o.state = s }

// Len returns the table length, tombstones included.
func (o *Object) Len() int { return len(o.slots) }

// RefCount returns the current reference count.
func (o *Object) RefCount() int32 { return o.refs.Load() }

// Destroyed reports whether the last reference has been released.
func (o *Object) Destroyed() bool { return o.refs.Load() <= 0 }

func (o *Object) String() string {
	if o == nil {
		return "<nil object>"
	}
	return fmt.Sprintf("<%s %s>", o.class.Name, o.id)
}

// Slots returns a copy of the table.
func (o *Object) Slots() []SlotInfo {
	infos := make([]SlotInfo, len(o.slots))
	for i := range o.slots {
		s := &o.slots[i]
		info := SlotInfo{
			ID:    DispID(i),
			Name:  s.name,
			Kind:  s.kind,
			Flags: s.flags,
		}
		switch s.kind {
		case KindValue:
			info.Value = s.value
		case KindBuiltin:
			info.Builtin = s.builtin.Name
		case KindProtoRef:
			info.Ref = s.ref
		}
		infos[i] = info
	}
	return infos
}

// ---------------------------------------------------------------------------
// Table primitives
// ---------------------------------------------------------------------------

// slotAt returns the live slot id, or nil when id is out of range or a
// tombstone.
func (o *Object) slotAt(id DispID) *slot {
	if id < 0 || int(id) >= len(o.slots) {
		return nil
	}
	s := &o.slots[id]
	if !s.live() {
		return nil
	}
	return s
}

// appendSlot adds s at the end of the table and returns its identifier.
// Pointers into the table are invalid afterwards.
func (o *Object) appendSlot(s slot) (DispID, error) {
	n := len(o.slots)
	if n == cap(o.slots) {
		limit := o.ctx.opts.MaxSlots
		if n >= limit {
			return 0, fmt.Errorf("%w: %s has %d slots", ErrOutOfMemory, o, n)
		}
		grown := make([]slot, n, min(max(2*n, o.ctx.opts.InitialCapacity), limit))
		copy(grown, o.slots)
		o.slots = grown
	}
	o.slots = append(o.slots, s)
	return DispID(n), nil
}

// tombstone turns slot id into Deleted and releases its value.
func (o *Object) tombstone(id DispID) {
	old := o.slots[id].clear()
	old.Release()
}

// ---------------------------------------------------------------------------
// Reference counting
// ---------------------------------------------------------------------------

// Retain adds a reference and returns the new count.
func (o *Object) Retain() int32 {
	n := o.refs.Add(1)
	log.Debugf("%s retain: %d", o, n)
	return n
}

// Release drops a reference and returns the new count. The object is
// destroyed when the count reaches zero.
func (o *Object) Release() int32 {
	n := o.refs.Add(-1)
	switch {
	case n == 0:
		log.Debugf("%s release: 0", o)
		o.destroy()
	case n < 0:
		log.Warningf("%s released past zero", o)
		o.refs.Store(0)
		return 0
	default:
		log.Debugf("%s release: %d", o, n)
	}
	return n
}

// destroy releases the values the object holds, drops its table, releases
// its prototype and finally runs the class finalizer.
func (o *Object) destroy() {
	slots := o.slots
	o.slots = nil
	for i := range slots {
		if slots[i].kind == KindValue {
			slots[i].value.Release()
		}
		slots[i] = slot{}
	}

	if proto := o.proto; proto != nil {
		o.proto = nil
		proto.Release()
	}

	o.ctx.live.Add(-1)
	log.Debugf("destroyed %s", o)

	if fin := o.class.Finalizer; fin != nil {
		fin(o)
	}
}

// ---------------------------------------------------------------------------
// Callable
// ---------------------------------------------------------------------------

// Call invokes the object's default-value member. When this holds a host
// object it is the receiver; otherwise the object itself is.
func (o *Object) Call(mode Mode, this Value, args Args) (Value, error) {
	if o.slotAt(DispIDValue) == nil {
		return Empty(), fmt.Errorf("%w: %s has no default value", ErrMemberNotFound, o)
	}
	recv, ok := this.Object()
	if !ok {
		recv = o
	}
	return o.invoke(DispIDValue, recv, mode, args)
}
