package vm

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType identifies the variant a Value holds.
type ValueType uint8

const (
	TypeEmpty ValueType = iota // uninitialized
	TypeNull
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeRef
)

var valueTypeNames = [...]string{
	TypeEmpty:  "empty",
	TypeNull:   "null",
	TypeBool:   "bool",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeString: "string",
	TypeRef:    "ref",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

// Ref is a reference to a dispatchable object. Host objects are Refs; so is
// anything a host embeds from outside the engine.
type Ref interface {
	fmt.Stringer
}

// Callable is a Ref that can be invoked. this is the receiver the call is
// made on, passed explicitly.
type Callable interface {
	Ref
	Call(mode Mode, this Value, args Args) (Value, error)
}

// RefCounted is implemented by Refs whose lifetime is reference counted.
// Both methods return the new count.
type RefCounted interface {
	Retain() int32
	Release() int32
}

// Value is a script value. The zero Value is Empty.
type Value struct {
	Type      ValueType
	BoolVal   bool
	IntVal    int64
	FloatVal  float64
	StringVal string
	RefVal    Ref
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Empty returns the uninitialized value.
func Empty() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{Type: TypeNull} }

func BoolValue(b bool) Value { return Value{Type: TypeBool, BoolVal: b} }

func IntValue(i int64) Value { return Value{Type: TypeInt, IntVal: i} }

func FloatValue(f float64) Value { return Value{Type: TypeFloat, FloatVal: f} }

func StringValue(s string) Value { return Value{Type: TypeString, StringVal: s} }

// RefValue wraps r. A nil r yields Null.
func RefValue(r Ref) Value {
	if r == nil {
		return Null()
	}
	if o, ok := r.(*Object); ok && o == nil {
		return Null()
	}
	return Value{Type: TypeRef, RefVal: r}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (v Value) IsEmpty() bool { return v.Type == TypeEmpty }

// Object returns the host object v refers to, if any.
func (v Value) Object() (*Object, bool) {
	if v.Type != TypeRef {
		return nil, false
	}
	o, ok := v.RefVal.(*Object)
	return o, ok
}

// Callable returns v's reference if it can be called.
func (v Value) Callable() (Callable, bool) {
	if v.Type != TypeRef {
		return nil, false
	}
	c, ok := v.RefVal.(Callable)
	return c, ok
}

// Equal reports whether v and w hold the same variant and payload.
// References compare by identity.
func (v Value) Equal(w Value) bool {
	if v.Type != w.Type {
		return false
	}
	switch v.Type {
	case TypeEmpty, TypeNull:
		return true
	case TypeBool:
		return v.BoolVal == w.BoolVal
	case TypeInt:
		return v.IntVal == w.IntVal
	case TypeFloat:
		return v.FloatVal == w.FloatVal || (math.IsNaN(v.FloatVal) && math.IsNaN(w.FloatVal))
	case TypeString:
		return v.StringVal == w.StringVal
	case TypeRef:
		return v.RefVal == w.RefVal
	}
	return false
}

func (v Value) String() string {
	switch v.Type {
	case TypeEmpty:
		return "empty"
	case TypeNull:
		return "null"
	case TypeBool:
		return strconv.FormatBool(v.BoolVal)
	case TypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'g', -1, 64)
	case TypeString:
		return strconv.Quote(v.StringVal)
	case TypeRef:
		return v.RefVal.String()
	}
	return v.Type.String()
}

// ---------------------------------------------------------------------------
// Reference counting
// ---------------------------------------------------------------------------

// Retain takes a reference on v's payload when it is reference counted.
func (v Value) Retain() {
	if v.Type != TypeRef {
		return
	}
	if rc, ok := v.RefVal.(RefCounted); ok {
		rc.Retain()
	}
}

// Release drops a reference taken by Retain.
func (v Value) Release() {
	if v.Type != TypeRef {
		return
	}
	if rc, ok := v.RefVal.(RefCounted); ok {
		rc.Release()
	}
}
