package vm

import (
	"fmt"
)

// DeleteMemberByName removes the object's own member name. Inherited and
// never-materialized built-in names are left alone and reported as success.
func (o *Object) DeleteMemberByName(name string, flags NameFlags) error {
	if flags&^nameFlagsKnown != 0 {
		return fmt.Errorf("%w: name flags %#x", ErrUnsupported, uint32(flags))
	}
	if id, ok := o.scanLocal(name); ok {
		log.Debugf("%s: deleting %q", o, name)
		o.tombstone(id)
		return nil
	}
	if o.has(name) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownName, name)
}

// DeleteMemberByDispID removes member id. Its identifier is never reused.
func (o *Object) DeleteMemberByDispID(id DispID) error {
	if o.slotAt(id) == nil {
		return fmt.Errorf("%w: %s has no member %d", ErrMemberNotFound, o, id)
	}
	log.Debugf("%s: deleting member %d", o, id)
	o.tombstone(id)
	return nil
}

// GetMemberName returns the name of member id.
func (o *Object) GetMemberName(id DispID) (string, error) {
	s := o.slotAt(id)
	if s == nil || !s.named() {
		return "", fmt.Errorf("%w: %s has no named member %d", ErrMemberNotFound, o, id)
	}
	return s.name, nil
}

// GetMemberProperties returns the effective flags of member id, looking
// through prototype references.
func (o *Object) GetMemberProperties(id DispID) (SlotFlags, error) {
	if o.slotAt(id) == nil {
		return 0, fmt.Errorf("%w: %s has no member %d", ErrMemberNotFound, o, id)
	}
	f := o.flagsOf(id)
	if o.slotAt(id) == nil {
		return 0, fmt.Errorf("%w: %s member %d", ErrMemberNotFound, o, id)
	}
	return f, nil
}

// SlotKindOf returns the kind of slot id, tombstones included.
func (o *Object) SlotKindOf(id DispID) (SlotKind, error) {
	if id < 0 || int(id) >= len(o.slots) {
		return 0, fmt.Errorf("%w: %s has no slot %d", ErrMemberNotFound, o, id)
	}
	return o.slots[id].kind, nil
}
