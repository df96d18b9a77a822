package classgen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"
	"testing"
)

func TestGenerateShapes(t *testing.T) {
	m, err := Introspect("testdata/shapes", "Shape")
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}
	src, err := Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	code := string(src)

	for _, want := range []string{
		"// Code generated by dispexgen. DO NOT EDIT.",
		"package shapes",
		"var shapeBuiltins = vm.BuiltinSet{",
		"vm.FlagMethod | vm.FlagConstructor",
		"recv.Clone(inv.This, inv.Args)",
		"recv.GetSides(inv.This)",
		"recv.SetSides(inv.This, v)",
		"vm.ErrParamMissing",
		`"%w: %s on htmlLabel"`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code missing %q", want)
		}
	}
	if strings.Contains(code, "SetHTMLLabel") {
		t.Error("read-only accessor got a setter")
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "shape_builtins.go", src, 0)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, code)
	}
	if n := builtinCount(f, "shapeBuiltins"); n != 4 {
		t.Errorf("shapeBuiltins has %d entries, want 4", n)
	}
}

// The checked-in Counter set must be what the generator produces.
func TestGenerateCounterUpToDate(t *testing.T) {
	m, err := Introspect("../classes", "Counter")
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}
	src, err := Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	existing, err := os.ReadFile("../classes/counter_builtins.go")
	if err != nil {
		t.Fatal(err)
	}
	if normalize(string(src)) != normalize(string(existing)) {
		t.Errorf("counter_builtins.go is stale; run go generate ./classes\n--- generated\n%s", src)
	}
}

func TestGenerateEmpty(t *testing.T) {
	if _, err := Generate(&ClassModel{TypeName: "Empty"}); err == nil {
		t.Error("expected error for a type without members")
	}
}

func builtinCount(f *ast.File, name string) int {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs := spec.(*ast.ValueSpec)
			if len(vs.Names) == 1 && vs.Names[0].Name == name && len(vs.Values) == 1 {
				if lit, ok := vs.Values[0].(*ast.CompositeLit); ok {
					return len(lit.Elts)
				}
			}
		}
	}
	return -1
}

// normalize drops blank lines and indentation so layout differences in
// import grouping don't matter.
func normalize(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, strings.Join(strings.Fields(line), " "))
		}
	}
	return strings.Join(lines, "\n")
}
