// Package checker implements the resolver/checker: a two-pass
// analysis over the syntax tree that collects top-level signatures before
// checking any body, so mutually forward-referencing declarations resolve
// regardless of source order.
package checker

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/types"
)

// ScopeKind classifies the lexical context a Scope was opened for.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeModule
	ScopeFunction
	ScopeBlock
	ScopeLoop
)

// Symbol is one ordinary (value-level) binding: a variable, parameter, or
// function name.
type Symbol struct {
	Name string
	Type types.Type
	Mut  bool
}

// Scope is one lexical scope. It keeps four independent name maps:
// ordinary symbols, type definitions, contract
// declarations, and intent declarations never collide with one another,
// even when spelled the same.
type Scope struct {
	Parent    *Scope
	Kind      ScopeKind
	symbols   map[string]*Symbol
	typeDefs  map[string]types.Type
	contracts map[string]*ast.ContractDecl
	intents   map[string]*ast.IntentDecl
}

// NewScope opens a child scope of parent (nil for the global scope).
func NewScope(parent *Scope, kind ScopeKind) *Scope {
	return &Scope{
		Parent:    parent,
		Kind:      kind,
		symbols:   map[string]*Symbol{},
		typeDefs:  map[string]types.Type{},
		contracts: map[string]*ast.ContractDecl{},
		intents:   map[string]*ast.IntentDecl{},
	}
}

// DefineSymbol registers name in this scope's symbol map. It reports
// whether the name was free (shadowing an outer scope's binding is always
// allowed; redefining within the same scope is not).
func (s *Scope) DefineSymbol(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// LookupSymbol searches this scope and its ancestors.
func (s *Scope) LookupSymbol(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// DefineType registers a named type (struct/enum/trait/effect/capability/
// alias/generic parameter) in this scope.
func (s *Scope) DefineType(name string, t types.Type) bool {
	if _, exists := s.typeDefs[name]; exists {
		return false
	}
	s.typeDefs[name] = t
	return true
}

// LookupType searches this scope and its ancestors.
func (s *Scope) LookupType(name string) (types.Type, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if t, ok := sc.typeDefs[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *Scope) DefineContract(name string, c *ast.ContractDecl) bool {
	if _, exists := s.contracts[name]; exists {
		return false
	}
	s.contracts[name] = c
	return true
}

func (s *Scope) LookupContract(name string) (*ast.ContractDecl, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if c, ok := sc.contracts[name]; ok {
			return c, true
		}
	}
	return nil, false
}

func (s *Scope) DefineIntent(name string, i *ast.IntentDecl) bool {
	if _, exists := s.intents[name]; exists {
		return false
	}
	s.intents[name] = i
	return true
}

func (s *Scope) LookupIntent(name string) (*ast.IntentDecl, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if i, ok := sc.intents[name]; ok {
			return i, true
		}
	}
	return nil, false
}

// Symbols returns this scope's own ordinary symbols (not ancestors'),
// keyed by name. Used by debug tooling (`ctrc symbols`) that lists the
// top-level declared names without walking the scope chain itself.
func (s *Scope) Symbols() map[string]*Symbol {
	return s.symbols
}

// InLoop reports whether this scope or an ancestor, up to the enclosing
// function scope, is a loop body. No checker rule calls it; the grammar has
// no `break`/`continue`.
func (s *Scope) InLoop() bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Kind == ScopeLoop {
			return true
		}
		if sc.Kind == ScopeFunction {
			return false
		}
	}
	return false
}
