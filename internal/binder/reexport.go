package binder

import "github.com/tscorelang/tscheck/internal/atom"

const maxReexportChain = 64 // cycle backstop; a real cycle is reported, not silently absorbed

// Universe bundles every per-file State the checker knows about, keyed by
// module specifier, so alias chasing can cross file boundaries. Grounded on
// the teacher's internal/module.Loader (module cache keyed by canonical
// path) and internal/link.Resolver (GlobalEnv merging each module's
// exports for cross-module lookup).
type Universe struct {
	Files map[string]*State
}

func NewUniverse() *Universe {
	return &Universe{Files: make(map[string]*State)}
}

func (u *Universe) Add(s *State) { u.Files[s.OwnModule] = s }

// ResolveAlias follows an import/re-export chain starting at (module, name)
// until it reaches a non-alias symbol, detecting cycles along the way. The
// returned bool is false if the chain is broken (unknown module, unknown
// export) or cyclic.
func (u *Universe) ResolveAlias(module string, name atom.Atom) (*State, SymbolId, bool) {
	type visitKey struct {
		module string
		name   atom.Atom
	}
	visited := make(map[visitKey]bool)
	curModule, curName := module, name

	for i := 0; i < maxReexportChain; i++ {
		vk := visitKey{module: curModule, name: curName}
		if visited[vk] {
			return nil, NoSymbol, false // cycle
		}
		visited[vk] = true

		file, ok := u.Files[curModule]
		if !ok {
			return nil, NoSymbol, false
		}

		if cached, ok := file.lookupReexportCache(curName); ok {
			if !cached.found {
				return nil, NoSymbol, false
			}
			curModule, curName = cached.module, cached.name
			continue
		}

		exports := file.ModuleExports[curModule]
		if id, ok := exports[curName]; ok {
			sym := file.Symbol(id)
			if !sym.Flags.Has(FlagAlias) {
				file.storeReexportCache(curName, curModule, curName, true)
				return file, id, true
			}
			nextModule, nextName := sym.ImportModule, file.Atoms.Intern(sym.ImportName)
			file.storeReexportCache(curName, nextModule, nextName, true)
			curModule, curName = nextModule, nextName
			continue
		}

		if target, ok := file.Reexports[curModule][curName]; ok {
			nextName := file.Atoms.Intern(target.OriginalName)
			file.storeReexportCache(curName, target.SourceModule, nextName, true)
			curModule, curName = target.SourceModule, nextName
			continue
		}

		if resolved, ok := u.resolveWildcard(file, curModule, curName); ok {
			curModule, curName = resolved.module, resolved.name
			continue
		}

		file.storeReexportCache(curName, "", 0, false)
		return nil, NoSymbol, false
	}
	return nil, NoSymbol, false // chain too long, treat as cyclic
}

// resolveWildcard tries each `export * from` target of module in order,
// stopping at the first that actually exports name (spec §4.2, "Wildcard
// re-exports do not shadow a named export or one another; first match
// wins").
func (u *Universe) resolveWildcard(file *State, module string, name atom.Atom) (reexportResult, bool) {
	for _, src := range file.WildcardReexports[module] {
		srcFile, ok := u.Files[src]
		if !ok {
			continue
		}
		if _, ok := srcFile.ModuleExports[src][name]; ok {
			return reexportResult{module: src, name: name, found: true}, true
		}
		if _, ok := srcFile.Reexports[src][name]; ok {
			return reexportResult{module: src, name: name, found: true}, true
		}
	}
	return reexportResult{}, false
}

func (s *State) lookupReexportCache(name atom.Atom) (reexportResult, bool) {
	s.reexportMu.RLock()
	defer s.reexportMu.RUnlock()
	r, ok := s.reexportCache[reexportKey{module: s.OwnModule, name: name}]
	return r, ok
}

func (s *State) storeReexportCache(name atom.Atom, module string, nextName atom.Atom, found bool) {
	s.reexportMu.Lock()
	defer s.reexportMu.Unlock()
	s.reexportCache[reexportKey{module: s.OwnModule, name: name}] = reexportResult{module: module, name: nextName, found: found}
}
