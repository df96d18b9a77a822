package vm

import (
	"fmt"
	"sync/atomic"
)

// Default table sizing.
const (
	DefaultInitialCapacity = 4
	DefaultMaxSlots        = 1 << 20

	// reservedSlots are slot 0 (default value) and slot 1 (prototype).
	reservedSlots = 2
)

// Options size the property tables of a Context's objects.
type Options struct {
	// InitialCapacity is the slot capacity of a new table. Tables double
	// from here.
	InitialCapacity int

	// MaxSlots caps a table's length; growing past it is ErrOutOfMemory.
	MaxSlots int
}

// DefaultOptions returns the default sizing.
func DefaultOptions() Options {
	return Options{
		InitialCapacity: DefaultInitialCapacity,
		MaxSlots:        DefaultMaxSlots,
	}
}

func (o Options) withDefaults() Options {
	if o.InitialCapacity <= 0 {
		o.InitialCapacity = DefaultInitialCapacity
	}
	if o.MaxSlots <= 0 {
		o.MaxSlots = DefaultMaxSlots
	}
	if o.InitialCapacity > o.MaxSlots {
		o.InitialCapacity = o.MaxSlots
	}
	return o
}

// Context is the script context objects are created in. It owns the class
// registry they are bound to and counts the objects still alive.
type Context struct {
	opts    Options
	classes *ClassRegistry
	live    atomic.Int64
}

// NewContext creates a context. A nil registry means DefaultClasses.
func NewContext(opts Options, classes *ClassRegistry) *Context {
	if classes == nil {
		classes = DefaultClasses
	}
	return &Context{
		opts:    opts.withDefaults(),
		classes: classes,
	}
}

// Options returns the effective sizing.
func (c *Context) Options() Options { return c.opts }

// Classes returns the context's class registry.
func (c *Context) Classes() *ClassRegistry { return c.classes }

// Live returns the number of objects created and not yet destroyed.
func (c *Context) Live() int64 { return c.live.Load() }

// NewObject creates an object of class with the given prototype. A nil
// class means ObjectClass; a nil prototype means none. The caller owns the
// single reference the object starts with.
func (c *Context) NewObject(class *Class, proto *Object) (*Object, error) {
	if class == nil {
		class = ObjectClass
	}
	return c.newObject("", class, proto, nil)
}

// NewObjectOf creates an object of the registered class named className.
func (c *Context) NewObjectOf(className string, proto *Object) (*Object, error) {
	class := c.classes.Lookup(className)
	if class == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	return c.newObject("", class, proto, nil)
}

// RestoreObject creates an object whose table is exactly slots, in order.
// Built-in slots are re-bound by descriptor name; ProtoRef slots must index
// the prototype's table. Values are retained. id "" generates a fresh one.
func (c *Context) RestoreObject(id string, class *Class, proto *Object, slots []SlotInfo) (*Object, error) {
	if class == nil {
		class = ObjectClass
	}
	if len(slots) < reservedSlots {
		return nil, fmt.Errorf("%w: restoring %s: %d slots, need at least %d",
			ErrInternal, class.Name, len(slots), reservedSlots)
	}
	table := make([]slot, len(slots))
	for i, info := range slots {
		s, err := restoreSlot(class, proto, info)
		if err != nil {
			return nil, fmt.Errorf("restoring %s slot %d: %w", class.Name, i, err)
		}
		table[i] = s
	}
	return c.newObject(id, class, proto, table)
}

func restoreSlot(class *Class, proto *Object, info SlotInfo) (slot, error) {
	s := slot{name: info.Name, kind: info.Kind, flags: info.Flags}
	switch info.Kind {
	case KindValue:
		s.value = info.Value
	case KindBuiltin:
		if info.Name == "" && class.Value != nil && info.Builtin == class.Value.Name {
			s.builtin = class.Value
			break
		}
		b := class.Builtins.Lookup(info.Builtin)
		if b == nil {
			return slot{}, fmt.Errorf("%w: built-in %q of class %s", ErrUnknownName, info.Builtin, class.Name)
		}
		s.builtin = b
	case KindProtoRef:
		if proto == nil || info.Ref < 0 || int(info.Ref) >= proto.Len() {
			return slot{}, fmt.Errorf("%w: prototype slot %d", ErrMemberNotFound, info.Ref)
		}
		if proto.slotAt(info.Ref) == nil {
			// the reference went stale before it was captured
			return slot{name: info.Name, kind: KindDeleted}, nil
		}
		s.ref = info.Ref
	case KindDeleted:
		s.flags = 0
	default:
		return slot{}, fmt.Errorf("%w: slot kind %d", ErrInternal, info.Kind)
	}
	return s, nil
}

func (c *Context) newObject(id string, class *Class, proto *Object, table []slot) (*Object, error) {
	if c.opts.MaxSlots < reservedSlots || len(table) > c.opts.MaxSlots {
		return nil, fmt.Errorf("%w: creating %s: limit %d", ErrOutOfMemory, class.Name, c.opts.MaxSlots)
	}
	if id == "" {
		id = class.newObjectID()
	}

	if table == nil {
		capacity := max(c.opts.InitialCapacity, reservedSlots)
		table = make([]slot, reservedSlots, capacity)
		if class.Value != nil {
			table[DispIDValue] = slot{kind: KindBuiltin, flags: class.Value.Flags, builtin: class.Value}
		} else {
			table[DispIDValue] = slot{kind: KindDeleted}
		}
		table[DispIDPrototype] = slot{name: PrototypeName, kind: KindDeleted}
		if proto != nil {
			table[DispIDPrototype] = slot{name: PrototypeName, kind: KindValue, value: RefValue(proto)}
		}
	}

	o := &Object{
		id:    id,
		ctx:   c,
		class: class,
		proto: proto,
		slots: table,
	}
	o.refs.Store(1)

	// The prototype field and every stored value each hold a reference.
	if proto != nil {
		proto.Retain()
	}
	for i := range table {
		if table[i].kind == KindValue {
			table[i].value.Retain()
		}
	}

	if class.NewState != nil {
		o.state = class.NewState()
	}
	c.live.Add(1)
	log.Debugf("created %s", o)
	return o, nil
}
