package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/dispex/vm"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBasic(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[engine]
initial-capacity = 8
max-slots = 64

[log]
verbosity = 2
file = "dispex.log"

[store]
path = "snap.db"

[[object]]
name = "p"

[[object]]
name = "o"
prototype = "p"
properties = { title = "root", n = 3 }

[[step]]
op = "get"
object = "o"
member = "title"
expect = "root"

[[step]]
op = "get"
object = "o"
member = "missing"
expect-error = "MemberNotFound"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Engine.InitialCapacity != 8 || m.Engine.MaxSlots != 64 {
		t.Errorf("Engine = %+v", m.Engine)
	}
	if opts := m.Options(); opts != (vm.Options{InitialCapacity: 8, MaxSlots: 64}) {
		t.Errorf("Options() = %+v", opts)
	}
	if m.Log.Verbosity != 2 {
		t.Errorf("Log.Verbosity = %d", m.Log.Verbosity)
	}
	if p := m.LogPath(); p == nil || *p != filepath.Join(m.Dir, "dispex.log") {
		t.Errorf("LogPath() = %v", p)
	}
	if m.StorePath() != filepath.Join(m.Dir, "snap.db") {
		t.Errorf("StorePath() = %q", m.StorePath())
	}
	if len(m.Objects) != 2 || m.Objects[1].Prototype != "p" {
		t.Fatalf("Objects = %+v", m.Objects)
	}
	if names := m.Objects[1].PropertyNames(); strings.Join(names, ",") != "n,title" {
		t.Errorf("PropertyNames() = %v", names)
	}
	if n, ok := m.Objects[1].Props["n"].(int64); !ok || n != 3 {
		t.Errorf("n = %#v", m.Objects[1].Props["n"])
	}
	if len(m.Steps) != 2 {
		t.Fatalf("Steps = %+v", m.Steps)
	}
	if m.Steps[0].Expect != "root" || m.Steps[1].ExpectError != "MemberNotFound" {
		t.Errorf("Steps = %+v", m.Steps)
	}
	if got := m.Steps[0].String(); got != "get o.title" {
		t.Errorf("String() = %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "")

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Options() != vm.DefaultOptions() {
		t.Errorf("Options() = %+v", m.Options())
	}
	if m.LogPath() != nil {
		t.Errorf("LogPath() = %v, want nil", *m.LogPath())
	}
	if m.Store.Path != filepath.Join(".dispex", "snapshots.db") {
		t.Errorf("Store.Path = %q", m.Store.Path)
	}
	abs, _ := filepath.Abs(dir)
	if m.Dir != abs {
		t.Errorf("Dir = %q, want %q", m.Dir, abs)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":        "[engine]\nbogus = 1\n",
		"syntax":             "[engine\n",
		"unnamed object":     "[[object]]\nclass = \"Counter\"\n",
		"duplicate object":   "[[object]]\nname = \"a\"\n[[object]]\nname = \"a\"\n",
		"prototype order":    "[[object]]\nname = \"a\"\nprototype = \"b\"\n[[object]]\nname = \"b\"\n",
		"step without op":    "[[step]]\nobject = \"a\"\n",
		"negative capacity":  "[engine]\nmax-slots = -1\n",
		"function prototype": "[[object]]\nname = \"p\"\n[[object]]\nname = \"f\"\nfunction = \"identity\"\nprototype = \"p\"\n",
		"unknown step key":   "[[step]]\nop = \"get\"\nbogus = 1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, content)
			if _, err := Load(dir); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadInlineValues(t *testing.T) {
	m, err := Parse([]byte(`
[[object]]
name = "o"
properties = { gone = { null = true }, blank = { empty = true } }

[[step]]
op = "put"
object = "o"
member = "f"
value = { ref = "o" }

[[step]]
op = "call"
object = "o"
member = "f"
args = [{ ref = "o" }, 1]
expect = { empty = true }
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, ok := m.Steps[0].Value.(map[string]any); !ok || v["ref"] != "o" {
		t.Errorf("Value = %#v", m.Steps[0].Value)
	}
	if a, ok := m.Steps[1].Args[0].(map[string]any); !ok || a["ref"] != "o" {
		t.Errorf("Args = %#v", m.Steps[1].Args)
	}
	if e, ok := m.Steps[1].Expect.(map[string]any); !ok || e["empty"] != true {
		t.Errorf("Expect = %#v", m.Steps[1].Expect)
	}
	if g, ok := m.Objects[0].Props["gone"].(map[string]any); !ok || g["null"] != true {
		t.Errorf("Props = %#v", m.Objects[0].Props)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[engine]\nmax-slots = 32\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m == nil || m.Engine.MaxSlots != 32 {
		t.Fatalf("FindAndLoad = %+v", m)
	}
}

func TestFindAndLoadNone(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// A manifest may exist above the temp dir on some machines.
	if m != nil && m.Dir == "" {
		t.Errorf("FindAndLoad returned manifest without Dir")
	}
}
