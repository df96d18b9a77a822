// Package classgen introspects a Go state type and generates the built-in
// descriptor set that binds its methods to a class.
package classgen

import "go/types"

// VMPath is the import path of the dispatch package.
const VMPath = "github.com/chazu/dispex/vm"

// ConstructorDirective in a method's doc comment marks it constructible.
const ConstructorDirective = "//dispex:constructor"

// MemberKind distinguishes methods from accessors.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberAccessor
)

// ClassModel is the in-memory representation of a state type's members.
type ClassModel struct {
	PkgPath  string
	PkgName  string
	TypeName string
	GoType   types.Type
	Members  []MemberModel // sorted by Name
}

// MemberModel represents one generated built-in.
type MemberModel struct {
	Name        string // script-visible name
	Kind        MemberKind
	Method      string // Go method, for MemberMethod
	Getter      string // Go getter, for MemberAccessor
	Setter      string // Go setter, for MemberAccessor
	Constructor bool
}

// VarName is the name of the generated BuiltinSet variable.
func (m *ClassModel) VarName() string {
	return lowerFirst(m.TypeName) + "Builtins"
}

// Lookup returns the member named name, or nil.
func (m *ClassModel) Lookup(name string) *MemberModel {
	for i := range m.Members {
		if m.Members[i].Name == name {
			return &m.Members[i]
		}
	}
	return nil
}
