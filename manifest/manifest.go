// Package manifest handles dispex.toml configuration and scenario fixtures.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/chazu/dispex/vm"
)

// FileName is the manifest file looked up in a directory.
const FileName = "dispex.toml"

// Manifest represents a dispex.toml configuration.
type Manifest struct {
	Engine  Engine       `toml:"engine"`
	Log     Log          `toml:"log"`
	Store   Store        `toml:"store"`
	Objects []ObjectDecl `toml:"object"`
	Steps   []Step       `toml:"step"`

	// Dir is the directory containing the dispex.toml file (set at load time).
	Dir string `toml:"-"`
}

// Engine sizes property tables.
type Engine struct {
	InitialCapacity int `toml:"initial-capacity"`
	MaxSlots        int `toml:"max-slots"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Store configures snapshot persistence.
type Store struct {
	Path string `toml:"path"`
}

// ObjectDecl declares a named object created before the steps run.
// Prototypes must be declared before the objects inheriting from them.
type ObjectDecl struct {
	Name      string         `toml:"name"`
	Class     string         `toml:"class"`
	Prototype string         `toml:"prototype"`
	Function  string         `toml:"function"` // native bound by a Function object
	Props     map[string]any `toml:"properties"`
}

// Step is one dispatch operation and its expected outcome.
type Step struct {
	Op          string `toml:"op"`
	Object      string `toml:"object"`
	Member      string `toml:"member"`
	This        string `toml:"this"`
	Value       any    `toml:"value"`
	Args        []any  `toml:"args"`
	Ensure      bool   `toml:"ensure"`
	Bind        string `toml:"bind"` // name for an object the step returns
	Expect      any    `toml:"expect"`
	ExpectError string `toml:"expect-error"`
}

func (s Step) String() string {
	if s.Member == "" {
		return fmt.Sprintf("%s %s", s.Op, s.Object)
	}
	return fmt.Sprintf("%s %s.%s", s.Op, s.Object, s.Member)
}

// Load parses a dispex.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes manifest text and applies defaults.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, err
	}
	if undecoded := unknownKeys(md.Undecoded()); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys: %v", undecoded)
	}

	// Defaults
	if m.Engine.InitialCapacity == 0 {
		m.Engine.InitialCapacity = vm.DefaultInitialCapacity
	}
	if m.Engine.MaxSlots == 0 {
		m.Engine.MaxSlots = vm.DefaultMaxSlots
	}
	if m.Store.Path == "" {
		m.Store.Path = filepath.Join(".dispex", "snapshots.db")
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// freeform holds the keys whose values are script values decoded into any.
// Tables under them, such as {ref = "name"}, are interpreted by the runner.
var freeform = map[string]map[string]bool{
	"object": {"properties": true},
	"step":   {"value": true, "expect": true, "args": true},
}

// unknownKeys drops the keys nested in freeform values.
func unknownKeys(keys []toml.Key) []toml.Key {
	var unknown []toml.Key
	for _, k := range keys {
		if len(k) >= 3 && freeform[k[0]][k[1]] {
			continue
		}
		unknown = append(unknown, k)
	}
	return unknown
}

func (m *Manifest) validate() error {
	if m.Engine.InitialCapacity < 0 || m.Engine.MaxSlots < 0 {
		return fmt.Errorf("engine sizes must not be negative")
	}
	declared := make(map[string]bool, len(m.Objects))
	for i, o := range m.Objects {
		if o.Name == "" {
			return fmt.Errorf("object %d has no name", i)
		}
		if declared[o.Name] {
			return fmt.Errorf("object %q declared twice", o.Name)
		}
		if o.Function != "" && o.Prototype != "" {
			return fmt.Errorf("object %q: a function object takes no prototype", o.Name)
		}
		if o.Prototype != "" && !declared[o.Prototype] {
			return fmt.Errorf("object %q: prototype %q must be declared first", o.Name, o.Prototype)
		}
		declared[o.Name] = true
	}
	for i, s := range m.Steps {
		if s.Op == "" {
			return fmt.Errorf("step %d has no op", i+1)
		}
	}
	return nil
}

// FindAndLoad walks up from startDir to find a dispex.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Options returns the engine sizing for a vm.Context.
func (m *Manifest) Options() vm.Options {
	return vm.Options{
		InitialCapacity: m.Engine.InitialCapacity,
		MaxSlots:        m.Engine.MaxSlots,
	}
}

// StorePath returns the snapshot database path, resolved against Dir.
func (m *Manifest) StorePath() string {
	if filepath.IsAbs(m.Store.Path) || m.Dir == "" {
		return m.Store.Path
	}
	return filepath.Join(m.Dir, m.Store.Path)
}

// LogPath returns the log file path resolved against Dir, or nil for stderr.
func (m *Manifest) LogPath() *string {
	if m.Log.File == "" {
		return nil
	}
	path := m.Log.File
	if !filepath.IsAbs(path) && m.Dir != "" {
		path = filepath.Join(m.Dir, path)
	}
	return &path
}

// PropertyNames returns the declared property names of o in sorted order.
func (o ObjectDecl) PropertyNames() []string {
	names := make([]string, 0, len(o.Props))
	for name := range o.Props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
