// Package runtime implements Key's scope/closure/module/async
// machinery: the Scope type, the deterministic "outlive" reclamation
// algorithm, Module, and Planet.
package runtime

import (
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// Var is one scope binding: `{name, value, locked}`.
type Var struct {
	Name   ident.ID
	Value  values.Litr
	Locked bool
}

// ClassUse is a `(alias, class-ref)` pair used by name resolution.
type ClassUse struct {
	Alias ident.ID
	Class *values.ClassDef
}

// Outlive is the `{count, to_drop}` pair attached to every scope.
type Outlive struct {
	Count  int
	Static bool // promoted by export/module-load; never decremented
	ToDrop []*values.FuncVal
}

// Scope is a heap-allocated activation record. A Scope pointer may
// outlive the block that created it if any closure captured it — that
// is exactly what the Outlive bookkeeping exists to track.
type Scope struct {
	Parent *Scope

	Vars        []Var
	ClassDefs   map[ident.ID]*values.ClassDef
	ClassUses   []ClassUse
	Imports     []*Module
	ModAliases  map[ident.ID]*Module
	Exports     *Module

	Kself    *values.Litr
	ReturnTo *values.Litr

	Ended   bool
	Outlive Outlive
}

// NewScope creates a child scope of parent (nil for the top scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent}
}

// Define appends a new binding, per Let/Const ("evaluate
// RHS, append binding to current scope's variable list").
func (s *Scope) Define(name ident.ID, v values.Litr, locked bool) {
	s.Vars = append(s.Vars, Var{Name: name, Value: v, Locked: locked})
}

// Lookup scans from the end of vars (shadowing), then the parent
// chain, returning the owning scope and the binding's index.
func (s *Scope) Lookup(name ident.ID) (owner *Scope, idx int, ok bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		for i := len(cur.Vars) - 1; i >= 0; i-- {
			if cur.Vars[i].Name == name {
				return cur, i, true
			}
		}
	}
	return nil, 0, false
}

// Lock marks an existing binding locked.
func (s *Scope) Lock(name ident.ID) bool {
	owner, idx, ok := s.Lookup(name)
	if !ok {
		return false
	}
	owner.Vars[idx].Locked = true
	return true
}

// FindClass resolves an identifier against class_uses in the current
// and parent scopes.
func (s *Scope) FindClass(name ident.ID) (*values.ClassDef, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cd, ok := cur.ClassDefs[name]; ok {
			return cd, true
		}
		for _, u := range cur.ClassUses {
			if u.Alias == name {
				return u.Class, true
			}
		}
	}
	return nil, false
}

// DefineClass attaches a class definition to this scope.
func (s *Scope) DefineClass(name ident.ID, cd *values.ClassDef) {
	if s.ClassDefs == nil {
		s.ClassDefs = make(map[ident.ID]*values.ClassDef)
	}
	s.ClassDefs[name] = cd
}

// UseClass binds an alias to a class reference.
func (s *Scope) UseClass(alias ident.ID, cd *values.ClassDef) {
	s.ClassUses = append(s.ClassUses, ClassUse{Alias: alias, Class: cd})
}

// DefineModuleAlias binds a `mod`/`extern mod` alias to its loaded
// Module in this scope.
func (s *Scope) DefineModuleAlias(alias ident.ID, m *Module) {
	if s.ModAliases == nil {
		s.ModAliases = make(map[ident.ID]*Module)
	}
	s.ModAliases[alias] = m
	s.Imports = append(s.Imports, m)
}

// FindModuleAlias resolves a `mod-.`/`mod-:` accessor's module name
// against this scope and its parents.
func (s *Scope) FindModuleAlias(alias ident.ID) (*Module, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if m, ok := cur.ModAliases[alias]; ok {
			return m, true
		}
	}
	return nil, false
}

// CurrentModule is the module visibility checks compare against: the
// nearest enclosing scope's Exports pointer.
func (s *Scope) CurrentModule() *Module {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Exports != nil {
			return cur.Exports
		}
	}
	return nil
}
