package vm

import (
	"errors"
	"fmt"
)

// GetNextDispID returns the first enumerable member after cursor. Passing
// DispIDStartEnum starts a new enumeration, which first gives every
// inherited member a local slot so own and inherited members come back in
// a single pass, each name once. The end is (DispIDStartEnum,
// ErrNoMoreItems).
//
// EnumAll includes members that are not enumerable.
func (o *Object) GetNextDispID(flags EnumFlags, cursor DispID) (DispID, error) {
	if flags&^enumFlagsKnown != 0 {
		log.Warningf("%s: unsupported enumeration flags %#x", o, uint32(flags&^enumFlagsKnown))
		return DispIDStartEnum, fmt.Errorf("%w: enumeration flags %#x", ErrUnsupported, uint32(flags))
	}
	if cursor < DispIDStartEnum {
		return DispIDStartEnum, fmt.Errorf("%w: cursor %d", ErrMemberNotFound, cursor)
	}

	if cursor == DispIDStartEnum {
		if err := o.fillProtoRefs(); err != nil {
			return DispIDStartEnum, err
		}
	}

	for i := int(cursor) + 1; i < len(o.slots); i++ {
		s := &o.slots[i]
		if !s.live() || !s.named() {
			continue
		}
		id := DispID(i)
		f := o.flagsOf(id)
		if !o.slots[i].live() {
			// stale prototype reference, tombstoned by flagsOf
			continue
		}
		if flags&EnumAll != 0 || f&FlagEnumerable != 0 {
			return id, nil
		}
	}
	return DispIDStartEnum, ErrNoMoreItems
}

// Enumerate runs a complete enumeration and returns the member identifiers
// in order.
func (o *Object) Enumerate(flags EnumFlags) ([]DispID, error) {
	var ids []DispID
	id := DispIDStartEnum
	for {
		next, err := o.GetNextDispID(flags, id)
		if errors.Is(err, ErrNoMoreItems) {
			return ids, nil
		}
		if err != nil {
			return ids, err
		}
		ids = append(ids, next)
		id = next
	}
}

// Keys returns the names of the enumerable members in table order, each
// once.
func (o *Object) Keys() ([]string, error) {
	ids, err := o.Enumerate(EnumDefault)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = o.slots[id].name
	}
	return names, nil
}
