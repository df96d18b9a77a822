package vm

import (
	"errors"
	"reflect"
	"testing"
)

func TestEnumerationOwnThenInherited(t *testing.T) {
	c, _ := newTestContext(t)
	p := mustObject(t, c, nil, nil)
	mustPut(t, p, "a", IntValue(1))
	mustPut(t, p, "b", IntValue(2))
	o := mustObject(t, c, nil, p)
	mustPut(t, o, "b", IntValue(20))
	mustPut(t, o, "c", IntValue(3))
	defer p.Release()
	defer o.Release()

	keys, err := o.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}

	// a second pass reuses the cached references
	n := o.Len()
	keys, _ = o.Keys()
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("second Keys() = %v, want %v", keys, want)
	}
	if o.Len() != n {
		t.Errorf("second enumeration grew the table: %d -> %d", n, o.Len())
	}
}

func TestEnumerationProtocol(t *testing.T) {
	c, _ := newTestContext(t)
	o := mustObject(t, c, nil, nil)
	defer o.Release()

	a := mustPut(t, o, "a", IntValue(1))
	b := mustPut(t, o, "b", IntValue(2))

	id, err := o.GetNextDispID(EnumDefault, DispIDStartEnum)
	if err != nil || id != a {
		t.Fatalf("first = %d, %v; want %d", id, err, a)
	}
	id, err = o.GetNextDispID(EnumDefault, id)
	if err != nil || id != b {
		t.Fatalf("second = %d, %v; want %d", id, err, b)
	}
	id, err = o.GetNextDispID(EnumDefault, id)
	if !errors.Is(err, ErrNoMoreItems) || id != DispIDStartEnum {
		t.Errorf("end = %d, %v; want start sentinel and ErrNoMoreItems", id, err)
	}
	if _, err := o.GetNextDispID(EnumDefault, -7); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("bad cursor = %v", err)
	}
}

func TestEnumerationSkipsTombstonesAndHidden(t *testing.T) {
	c, widget := newTestContext(t)
	p := mustObject(t, c, nil, nil)
	o := mustObject(t, c, widget, p)
	defer p.Release()
	defer o.Release()

	mustPut(t, o, "a", IntValue(1))
	mustPut(t, o, "gone", IntValue(2))
	mustPut(t, o, "z", IntValue(3))
	if err := o.DeleteMemberByName("gone", 0); err != nil {
		t.Fatal(err)
	}
	// materialized methods and accessors carry no enumerable flag
	if _, err := o.GetDispID("size", 0); err != nil {
		t.Fatal(err)
	}

	keys, _ := o.Keys()
	if want := []string{"a", "z"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}

	ids, err := o.Enumerate(EnumAll)
	if err != nil {
		t.Fatal(err)
	}
	var all []string
	for _, id := range ids {
		name, _ := o.GetMemberName(id)
		all = append(all, name)
	}
	if want := []string{PrototypeName, "a", "z", "size"}; !reflect.DeepEqual(all, want) {
		t.Errorf("EnumAll = %v, want %v", all, want)
	}
}

func TestEnumerationDropsStaleReferences(t *testing.T) {
	c, _ := newTestContext(t)
	g := mustObject(t, c, nil, nil)
	mustPut(t, g, "deep", IntValue(1))
	mustPut(t, g, "kept", IntValue(2))
	p := mustObject(t, c, nil, g)
	o := mustObject(t, c, nil, p)
	defer g.Release()
	defer p.Release()
	defer o.Release()

	keys, _ := o.Keys()
	if want := []string{"deep", "kept"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}

	g.DeleteMemberByName("deep", 0)
	keys, _ = o.Keys()
	if want := []string{"kept"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() after delete = %v, want %v", keys, want)
	}
}

func TestEnumerationAfterPrototypeReadds(t *testing.T) {
	c, _ := newTestContext(t)
	p := mustObject(t, c, nil, nil)
	mustPut(t, p, "x", IntValue(1))
	o := mustObject(t, c, nil, p)
	defer p.Release()
	defer o.Release()

	if v := mustGet(t, o, "x"); v.IntVal != 1 {
		t.Fatalf("x = %v", v)
	}
	if err := p.DeleteMemberByName("x", 0); err != nil {
		t.Fatal(err)
	}
	mustPut(t, p, "x", IntValue(2))

	keys, _ := o.Keys()
	if want := []string{"x"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
	if v := mustGet(t, o, "x"); v.IntVal != 2 {
		t.Errorf("x after re-add = %v, want 2", v)
	}
	keys, _ = o.Keys()
	if want := []string{"x"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("second Keys() = %v, want %v", keys, want)
	}
}
