package binder

import (
	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/cnode"
)

// filterKind distinguishes the handful of resolution shapes the checker
// needs, so results for the same node under different filters don't collide
// in resolveCache (spec §4.2).
type filterKind uint8

const (
	filterAny filterKind = iota
	filterValue
	filterType
	filterNamespace
)

const maxScopeWalk = 4096 // guards against a corrupt/cyclic scope chain

// ResolveIdentifier resolves name as used at node, walking the enclosing
// scope chain from node's bound scope outward, then falling back to this
// file's locals, then each lib binder's locals in order (spec §4.2). Results
// are memoized per (node, filterAny).
func (s *State) ResolveIdentifier(node cnode.NodeIndex, name atom.Atom) (SymbolId, bool) {
	return s.resolveFiltered(node, name, filterAny, nil)
}

func (s *State) resolveFiltered(node cnode.NodeIndex, name atom.Atom, kind filterKind, accept func(*Symbol) bool) (SymbolId, bool) {
	key := resolveKey{node: node, kind: kind}

	s.resolveMu.RLock()
	if r, ok := s.resolveCache[key]; ok {
		s.resolveMu.RUnlock()
		return r.id, r.found
	}
	s.resolveMu.RUnlock()

	scope, ok := s.NodeScope[node]
	if !ok {
		scope = s.RootScope()
	}

	id, found := s.resolveFromScope(scope, name, accept)
	if !found {
		id, found = s.resolveFromFileLocals(name, accept)
	}
	if !found {
		id, found = s.resolveFromLibs(name, accept)
	}

	s.resolveMu.Lock()
	s.resolveCache[key] = resolveResult{id: id, found: found}
	s.resolveMu.Unlock()
	return id, found
}

// resolveFromScope walks scope and its ancestors, consulting each scope's
// Names table, its ParamFallback (for binders mid-construction), and — for
// module scopes — its container symbol's Exports table.
func (s *State) resolveFromScope(from ScopeId, name atom.Atom, accept func(*Symbol) bool) (SymbolId, bool) {
	cur := from
	for i := 0; i < maxScopeWalk && cur != NoScope; i++ {
		sc := s.Scope(cur)
		if id, ok := sc.Names[name]; ok && (accept == nil || accept(s.Symbol(id))) {
			return id, true
		}
		if sc.ParamFallback != nil {
			if id, ok := sc.ParamFallback[name]; ok && (accept == nil || accept(s.Symbol(id))) {
				return id, true
			}
		}
		if sc.Kind == ScopeModule && sc.ContainerSymbol != NoSymbol {
			container := s.Symbol(sc.ContainerSymbol)
			if container.Exports != nil {
				if id, ok := container.Exports[name]; ok && (accept == nil || accept(s.Symbol(id))) {
					return id, true
				}
			}
		}
		cur = sc.Parent
	}
	return NoSymbol, false
}

// ResolveNameWithFilter resolves name starting from an explicit scope,
// applying accept to each candidate symbol; a symbol that exists but fails
// accept does not stop the walk outward (spec §4.2, "filtered lookup").
func (s *State) ResolveNameWithFilter(from ScopeId, name atom.Atom, accept func(*Symbol) bool) (SymbolId, bool) {
	if id, ok := s.resolveFromScope(from, name, accept); ok {
		return id, true
	}
	if id, ok := s.resolveFromFileLocals(name, accept); ok {
		return id, true
	}
	return s.resolveFromLibs(name, accept)
}

func (s *State) resolveFromFileLocals(name atom.Atom, accept func(*Symbol) bool) (SymbolId, bool) {
	if id, ok := s.FileLocals[name]; ok && (accept == nil || accept(s.Symbol(id))) {
		return id, true
	}
	return NoSymbol, false
}

func (s *State) resolveFromLibs(name atom.Atom, accept func(*Symbol) bool) (SymbolId, bool) {
	for _, lib := range s.Libs {
		if id, ok := lib.resolveFromFileLocals(name, accept); ok {
			return id, true
		}
	}
	return NoSymbol, false
}

// ResolvePrivateIdentifier resolves `#name` starting from from, restricted
// to class scopes and their Members tables; it never consults FileLocals or
// Libs, since private names have no meaning outside a class body (spec
// §4.2, "Private names").
func (s *State) ResolvePrivateIdentifier(from ScopeId, name atom.Atom) (SymbolId, bool) {
	cur := from
	for i := 0; i < maxScopeWalk && cur != NoScope; i++ {
		sc := s.Scope(cur)
		if sc.Kind == ScopeClass && sc.ContainerSymbol != NoSymbol {
			container := s.Symbol(sc.ContainerSymbol)
			if container.Members != nil {
				if id, ok := container.Members[name]; ok {
					return id, true
				}
			}
		}
		cur = sc.Parent
	}
	return NoSymbol, false
}

// ResolveValue is ResolveNameWithFilter restricted to value-producing symbols.
func (s *State) ResolveValue(from ScopeId, name atom.Atom) (SymbolId, bool) {
	return s.ResolveNameWithFilter(from, name, func(sym *Symbol) bool {
		return sym.Flags.Has(FlagValue) || sym.Flags.Has(FlagAlias)
	})
}

// ResolveType is ResolveNameWithFilter restricted to type-producing symbols.
func (s *State) ResolveType(from ScopeId, name atom.Atom) (SymbolId, bool) {
	return s.ResolveNameWithFilter(from, name, func(sym *Symbol) bool {
		return sym.Flags.Has(FlagType) || sym.Flags.Has(FlagClass) || sym.Flags.Has(FlagInterface) ||
			sym.Flags.Has(FlagEnum) || sym.Flags.Has(FlagAlias)
	})
}
