package classgen

import (
	"strings"
	"testing"
)

func TestIntrospectShapes(t *testing.T) {
	m, err := Introspect("testdata/shapes", "Shape")
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}
	if m.PkgName != "shapes" || m.TypeName != "Shape" {
		t.Errorf("model = %s.%s", m.PkgName, m.TypeName)
	}

	var names []string
	for _, mm := range m.Members {
		names = append(names, mm.Name)
	}
	if got := strings.Join(names, ","); got != "area,clone,htmlLabel,sides" {
		t.Fatalf("members = %s", got)
	}

	if mm := m.Lookup("clone"); mm.Kind != MemberMethod || !mm.Constructor || mm.Method != "Clone" {
		t.Errorf("clone = %+v", mm)
	}
	if mm := m.Lookup("area"); mm.Constructor {
		t.Errorf("area marked constructor")
	}
	if mm := m.Lookup("sides"); mm.Kind != MemberAccessor || mm.Getter != "GetSides" || mm.Setter != "SetSides" {
		t.Errorf("sides = %+v", mm)
	}
	if mm := m.Lookup("htmlLabel"); mm.Getter != "GetHTMLLabel" || mm.Setter != "" {
		t.Errorf("htmlLabel = %+v", mm)
	}
	if m.Lookup("reset") != nil || m.Lookup("describe") != nil {
		t.Error("non-member methods were included")
	}
}

func TestIntrospectCounter(t *testing.T) {
	m, err := Introspect("../classes", "Counter")
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}
	if m.PkgPath != "github.com/chazu/dispex/classes" {
		t.Errorf("PkgPath = %q", m.PkgPath)
	}
	if len(m.Members) != 4 {
		t.Fatalf("members = %+v", m.Members)
	}
	if mm := m.Lookup("make"); mm == nil || !mm.Constructor {
		t.Errorf("make = %+v", mm)
	}
}

func TestIntrospectErrors(t *testing.T) {
	if _, err := Introspect("testdata/shapes", "Missing"); err == nil {
		t.Error("expected error for missing type")
	}
	_, err := Introspect("testdata/clash", "Clash")
	if err == nil || !strings.Contains(err.Error(), "both a method and an accessor") {
		t.Errorf("clash = %v", err)
	}
}
