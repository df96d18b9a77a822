package vm

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Name resolution
// ---------------------------------------------------------------------------

// GetDispID maps name to a member identifier, resolving through the
// prototype chain. With NameEnsure a missing name is created as an
// enumerable property holding Empty.
func (o *Object) GetDispID(name string, flags NameFlags) (DispID, error) {
	if flags&^nameFlagsKnown != 0 {
		log.Warningf("%s: unsupported name flags %#x", o, uint32(flags&^nameFlagsKnown))
		return 0, fmt.Errorf("%w: name flags %#x", ErrUnsupported, uint32(flags))
	}
	if name == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownName)
	}

	id, ok, err := o.resolve(name, flags&NameEnsure != 0)
	if err != nil {
		return 0, err
	}
	if !ok {
		log.Debugf("%s: unknown name %q", o, name)
		return 0, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return id, nil
}

// GetIDsOfNames resolves each name without creating any. It stops at the
// first name that fails.
func (o *Object) GetIDsOfNames(names ...string) ([]DispID, error) {
	ids := make([]DispID, 0, len(names))
	for _, name := range names {
		id, err := o.GetDispID(name, 0)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// InvokeEx performs mode on member id. this is the receiver; nil means o.
func (o *Object) InvokeEx(id DispID, mode Mode, this *Object, args Args) (Value, error) {
	if this == nil {
		this = o
	}
	if o.slotAt(id) == nil {
		return Empty(), fmt.Errorf("%w: %s has no member %d", ErrMemberNotFound, o, id)
	}

	switch mode {
	case ModeCall, ModeConstruct:
		return o.invoke(id, this, mode, args)
	case ModeGet:
		return o.get(id, this, args)
	case ModePut:
		return o.put(id, args)
	}
	log.Warningf("%s: unsupported mode %s", o, mode)
	return Empty(), fmt.Errorf("%w: mode %s", ErrUnsupported, mode)
}

// Invoke is InvokeEx with o as the receiver.
func (o *Object) Invoke(id DispID, mode Mode, args Args) (Value, error) {
	return o.InvokeEx(id, mode, o, args)
}

// get reads live slot id on behalf of this.
func (o *Object) get(id DispID, this *Object, args Args) (Value, error) {
	s := &o.slots[id]
	switch s.kind {
	case KindBuiltin:
		b := s.builtin
		if b.methodLike() {
			return Empty(), fmt.Errorf("%w: %q is a method", ErrNotInvocable, s.name)
		}
		return b.Invoke(&Invocation{Mode: ModeGet, This: this, Owner: o, Args: args})
	case KindProtoRef:
		pid, ok := o.target(id)
		if !ok {
			return Empty(), fmt.Errorf("%w: %s member %d", ErrMemberNotFound, o, id)
		}
		return o.proto.get(pid, this, args)
	case KindValue:
		return s.value, nil
	}
	log.Errorf("%s: get on slot %d of kind %s", o, id, s.kind)
	return Empty(), fmt.Errorf("%w: get on %s slot", ErrInternal, s.kind)
}

// put writes the value argument into live slot id. A non-method built-in
// handles the write itself; anything else is turned into an own Value slot.
func (o *Object) put(id DispID, args Args) (Value, error) {
	s := &o.slots[id]
	switch s.kind {
	case KindBuiltin:
		if b := s.builtin; !b.methodLike() {
			return b.Invoke(&Invocation{Mode: ModePut, This: o, Owner: o, Args: args})
		}
	case KindProtoRef, KindValue:
	default:
		log.Errorf("%s: put on slot %d of kind %s", o, id, s.kind)
		return Empty(), fmt.Errorf("%w: put on %s slot", ErrInternal, s.kind)
	}

	v, ok := args.PutValue()
	if !ok {
		log.Debugf("%s: no value to set %q", o, s.name)
		return Empty(), fmt.Errorf("%w: put %q", ErrParamMissing, s.name)
	}

	if s.kind != KindValue {
		s.kind = KindValue
		s.flags = FlagEnumerable
		s.builtin = nil
		s.ref = 0
	}
	v.Retain()
	old := s.value
	s.value = v
	name := s.name
	old.Release()

	if hook := o.class.OnPut; hook != nil {
		hook(o, name)
	}
	return Empty(), nil
}

// invoke calls live slot id in ModeCall or ModeConstruct.
func (o *Object) invoke(id DispID, this *Object, mode Mode, args Args) (Value, error) {
	s := &o.slots[id]
	switch s.kind {
	case KindBuiltin:
		b := s.builtin
		if mode == ModeConstruct && b.methodOnly() {
			return Empty(), fmt.Errorf("%w: %q", ErrNotConstructible, s.name)
		}
		return b.Invoke(&Invocation{Mode: mode, This: this, Owner: o, Args: args})
	case KindProtoRef:
		pid, ok := o.target(id)
		if !ok {
			return Empty(), fmt.Errorf("%w: %s member %d", ErrMemberNotFound, o, id)
		}
		return o.proto.invoke(pid, this, mode, args)
	case KindValue:
		v := s.value
		fn, ok := v.Callable()
		if !ok {
			return Empty(), fmt.Errorf("%w: %q holds %s", ErrNotInvocable, s.name, v.Type)
		}
		v.Retain()
		defer v.Release()
		return fn.Call(mode, RefValue(this), args)
	}
	log.Errorf("%s: invoke on slot %d of kind %s", o, id, s.kind)
	return Empty(), fmt.Errorf("%w: invoke on %s slot", ErrInternal, s.kind)
}

// ---------------------------------------------------------------------------
// By-name helpers
// ---------------------------------------------------------------------------

// Get reads the named member.
func (o *Object) Get(name string) (Value, error) {
	id, err := o.GetDispID(name, 0)
	if err != nil {
		return Empty(), err
	}
	return o.InvokeEx(id, ModeGet, o, NoArgs)
}

// Put stores v under name, creating the member if needed.
func (o *Object) Put(name string, v Value) error {
	id, err := o.GetDispID(name, NameEnsure)
	if err != nil {
		return err
	}
	_, err = o.InvokeEx(id, ModePut, o, PutArgs(v))
	return err
}

// CallMethod calls the named member with o as the receiver.
func (o *Object) CallMethod(name string, args ...Value) (Value, error) {
	id, err := o.GetDispID(name, 0)
	if err != nil {
		return Empty(), err
	}
	return o.InvokeEx(id, ModeCall, o, Positional(args...))
}

// Construct calls the named member in construct mode.
func (o *Object) Construct(name string, args ...Value) (Value, error) {
	id, err := o.GetDispID(name, 0)
	if err != nil {
		return Empty(), err
	}
	return o.InvokeEx(id, ModeConstruct, o, Positional(args...))
}

// GetString reads the named member as a string. Non-string values are
// formatted; a missing member yields "".
func (o *Object) GetString(name string) string {
	v, err := o.Get(name)
	if err != nil {
		return ""
	}
	if v.Type == TypeString {
		return v.StringVal
	}
	return v.String()
}
