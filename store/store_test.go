package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/dispex/classes"
	"github.com/chazu/dispex/snapshot"
	"github.com/chazu/dispex/vm"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "dispex.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func captureCounter(t *testing.T, c *vm.Context, n int64) (*vm.Object, *snapshot.Graph) {
	t.Helper()
	ctr, err := c.NewObject(classes.CounterClass, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ctr.Put("label", vm.StringValue("hits")); err != nil {
		t.Fatal(err)
	}
	if err := ctr.Put("limit", vm.IntValue(n)); err != nil {
		t.Fatal(err)
	}
	g, err := snapshot.Capture(ctr)
	if err != nil {
		t.Fatal(err)
	}
	return ctr, g
}

func TestSaveLoad(t *testing.T) {
	s := openTemp(t)
	c := vm.NewContext(vm.DefaultOptions(), classes.NewRegistry())
	ctr, g := captureCounter(t, c, 10)
	defer ctr.Release()

	if err := s.Save("counter", g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load("counter")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Root != g.Root || len(loaded.Objects) != len(g.Objects) {
		t.Fatalf("loaded %+v", loaded)
	}

	r, err := snapshot.Restore(vm.NewContext(vm.DefaultOptions(), classes.NewRegistry()), loaded)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	defer r.Release()
	if v, _ := r.Get("limit"); v.IntVal != 10 {
		t.Errorf("limit = %v", v)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := openTemp(t)
	c := vm.NewContext(vm.DefaultOptions(), classes.NewRegistry())
	a, ga := captureCounter(t, c, 1)
	b, gb := captureCounter(t, c, 2)
	defer a.Release()
	defer b.Release()

	if err := s.Save("k", ga); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("k", gb); err != nil {
		t.Fatal(err)
	}
	loaded, _ := s.Load("k")
	if loaded.Root != b.ID() {
		t.Errorf("root = %s, want %s", loaded.Root, b.ID())
	}
	entries, err := s.List()
	if err != nil || len(entries) != 1 {
		t.Errorf("List() = %v, %v", entries, err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTemp(t)
	c := vm.NewContext(vm.DefaultOptions(), classes.NewRegistry())
	a, g := captureCounter(t, c, 1)
	defer a.Release()

	for _, name := range []string{"zeta", "alpha"} {
		if err := s.Save(name, g); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name != "alpha" || entries[1].Name != "zeta" {
		t.Fatalf("List() = %+v", entries)
	}
	if entries[0].Root != a.ID() || entries[0].Objects != 1 || entries[0].SavedAt.IsZero() {
		t.Errorf("entry = %+v", entries[0])
	}

	if err := s.Delete("alpha"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("alpha"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(deleted) = %v, want ErrNotFound", err)
	}
	if err := s.Delete("alpha"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispex.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c := vm.NewContext(vm.DefaultOptions(), classes.NewRegistry())
	a, g := captureCounter(t, c, 3)
	defer a.Release()
	if err := s.Save("kept", g); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, err := s2.Load("kept"); err != nil {
		t.Errorf("Load after reopen: %v", err)
	}
}
