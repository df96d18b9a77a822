package vm

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Class describes the native side of a family of objects.
type Class struct {
	Name string

	// Value is the default-value member, cached unnamed in slot 0.
	// Calling an object calls this member.
	Value *Builtin

	// Builtins are materialized on first lookup by name.
	Builtins BuiltinSet

	// OnPut runs after a value is stored into one of the object's own slots.
	OnPut func(obj *Object, name string)

	// NewState returns the native state of a new object. Optional.
	NewState func() any

	// Finalizer runs last when the object is destroyed. Optional.
	Finalizer func(obj *Object)
}

// ObjectClass is the plain class: no default value, no built-ins.
var ObjectClass = &Class{Name: "Object"}

// Validate checks the descriptor set and default-value member.
func (c *Class) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil class", ErrInvalidClass)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: class has no name", ErrInvalidClass)
	}
	if c.Value != nil && c.Value.Invoke == nil {
		return fmt.Errorf("%w: class %s: default value has no implementation", ErrInvalidClass, c.Name)
	}
	if err := c.Builtins.Validate(); err != nil {
		return fmt.Errorf("class %s: %w", c.Name, err)
	}
	return nil
}

// newObjectID creates a unique object identifier for the class.
func (c *Class) newObjectID() string {
	return strings.ToLower(c.Name) + "_" + uuid.New().String()
}

func (c *Class) String() string { return c.Name }

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// ClassRegistry maps class names to registered classes. Each name is
// registered once.
type ClassRegistry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewClassRegistry creates a registry holding ObjectClass.
func NewClassRegistry() *ClassRegistry {
	r := &ClassRegistry{classes: make(map[string]*Class)}
	r.classes[ObjectClass.Name] = ObjectClass
	return r
}

// DefaultClasses is the process-wide registry.
var DefaultClasses = NewClassRegistry()

// Register validates c and adds it.
func (r *ClassRegistry) Register(c *Class) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.classes[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrClassExists, c.Name)
	}
	r.classes[c.Name] = c
	log.Debugf("registered class %s (%d built-ins)", c.Name, len(c.Builtins))
	return nil
}

// MustRegister is Register for package initialization; it panics on error.
func (r *ClassRegistry) MustRegister(c *Class) *Class {
	if err := r.Register(c); err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the named class, or nil.
func (r *ClassRegistry) Lookup(name string) *Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes[name]
}

// Names returns the registered class names, sorted.
func (r *ClassRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered classes.
func (r *ClassRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}
