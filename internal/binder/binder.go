// Package binder implements the binder resolution layer (spec §3.4, §4.2):
// symbols, scopes, cross-file import/re-export chasing. Grounded on the
// teacher's internal/module (Loader: cache, searchPaths, cycle detection
// via loadStack) and internal/link (Resolver: memoized cross-module value
// resolution, GlobalEnv of imported symbols) packages, which solve the same
// "resolve a name, possibly through another file" problem for AILANG's
// module system.
package binder

import (
	"sync"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/cnode"
)

// SymbolId identifies a Symbol within one State. Symbol ids are binder-local
// (spec §3.5, §9 "Cross-file symbol identity"): never compare a SymbolId
// from one State against another without going through an alias/import.
type SymbolId uint32

// NoSymbol is the absent-symbol sentinel.
const NoSymbol SymbolId = 0

// ScopeId identifies a Scope within one State.
type ScopeId uint32

// NoScope is the absent-scope sentinel (the root scope's Parent).
const NoScope ScopeId = 0

// Flags is the symbol flag bitset (spec §3.4).
type Flags uint32

const (
	FlagValue Flags = 1 << iota
	FlagType
	FlagClass
	FlagInterface
	FlagEnum
	FlagNamespace
	FlagAlias
	FlagExportValue
	FlagBlockScoped
	FlagFunction
	FlagMethod
	FlagConst
)

func (f Flags) Has(want Flags) bool { return f&want == want }

// Symbol is a named binding (spec §3.4).
type Symbol struct {
	Name             atom.Atom
	Flags            Flags
	Declarations     []cnode.NodeIndex
	ValueDeclaration cnode.NodeIndex // NoNode if none
	Parent           SymbolId        // NoSymbol if top-level
	Exports          ExportTable     // modules/namespaces only, nil otherwise
	Members          ExportTable     // classes/interfaces only, nil otherwise

	// Alias-only fields (FlagAlias set): `import { Name as ImportName } from ImportModule`.
	ImportModule string
	ImportName   string
}

// ExportTable maps an escaped name to the symbol it denotes.
type ExportTable map[atom.Atom]SymbolId

// ScopeKind tags what kind of construct created a Scope.
type ScopeKind int

const (
	ScopeBlock ScopeKind = iota
	ScopeFunction
	ScopeModule
	ScopeClass
	ScopeConditional
)

// Scope is one link in the lexical scope chain (spec §3.4).
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeId
	Names     map[atom.Atom]SymbolId
	Container cnode.NodeIndex

	// ParamFallback serves bound-state binders that evaluate a parameter
	// list before their enclosing scope is fully linked (e.g. default
	// parameter initializers referring to earlier parameters) and so have
	// no persistent Scope of their own yet to register Names into.
	// Grounded on original_source/crates/tsz-binder/src/state_resolution.rs.
	ParamFallback map[atom.Atom]SymbolId

	// ContainerSymbol is the symbol for this scope's container, consulted
	// for its Exports table when Kind == ScopeModule (spec §4.2).
	ContainerSymbol SymbolId
}

// ReexportTarget records what a named re-export ultimately points at
// before chasing: `export { Name as Alias } from Source`.
type ReexportTarget struct {
	SourceModule string
	OriginalName string
}

// State is an immutable-after-build binder for one source file (spec §3.4,
// §3.5). Per-file Locals, module export tables, and re-export maps are
// populated during binding; after that point State is safe for concurrent
// read-only use by multiple checkers (spec §5).
type State struct {
	Atoms *atom.Table

	scopes  []Scope
	symbols []Symbol

	// FileLocals holds every top-level symbol declared in this file,
	// searched after the scope chain and before lib binders (spec §4.2).
	FileLocals map[atom.Atom]SymbolId

	// ModuleExports maps a module specifier to that module's export table.
	// It is filled only by callers that populate it directly; the tscheck
	// command builds a fresh State per file and merges no tables between
	// files.
	ModuleExports map[string]ExportTable

	// Reexports maps module -> exported name -> where it's really defined.
	Reexports map[string]map[atom.Atom]ReexportTarget

	// WildcardReexports maps module -> list of `export * from` targets.
	WildcardReexports map[string][]string

	// Libs are prelude binders (lib.es5.d.ts, …), searched last (spec §3.4,
	// §9 "Configuration surfaces").
	Libs []*State

	// OwnModule is this file's own module specifier, used as the starting
	// point for import chasing.
	OwnModule string

	NodeScope  map[cnode.NodeIndex]ScopeId
	NodeSymbol map[cnode.NodeIndex]SymbolId

	resolveMu    sync.RWMutex
	resolveCache map[resolveKey]resolveResult

	reexportMu    sync.RWMutex
	reexportCache map[reexportKey]reexportResult
}

type resolveKey struct {
	node cnode.NodeIndex
	kind filterKind
}

type resolveResult struct {
	id    SymbolId
	found bool
}

type reexportKey struct {
	module string
	name   atom.Atom
}

type reexportResult struct {
	module string
	name   atom.Atom
	found  bool
}

// NewState creates an empty binder for one file, with the root module scope
// pre-allocated as ScopeId 1 (index 0 is the NoScope sentinel).
func NewState(atoms *atom.Table, ownModule string) *State {
	s := &State{
		Atoms:             atoms,
		FileLocals:        make(map[atom.Atom]SymbolId),
		ModuleExports:     make(map[string]ExportTable),
		Reexports:         make(map[string]map[atom.Atom]ReexportTarget),
		WildcardReexports: make(map[string][]string),
		OwnModule:         ownModule,
		NodeScope:         make(map[cnode.NodeIndex]ScopeId),
		NodeSymbol:        make(map[cnode.NodeIndex]SymbolId),
		resolveCache:      make(map[resolveKey]resolveResult),
		reexportCache:     make(map[reexportKey]reexportResult),
	}
	s.scopes = []Scope{{}} // index 0 reserved
	s.symbols = []Symbol{{}}
	s.NewScope(ScopeModule, NoScope, cnode.NoNode)
	return s
}

// NewScope allocates a scope and returns its id.
func (s *State) NewScope(kind ScopeKind, parent ScopeId, container cnode.NodeIndex) ScopeId {
	s.scopes = append(s.scopes, Scope{Kind: kind, Parent: parent, Names: make(map[atom.Atom]SymbolId), Container: container})
	return ScopeId(len(s.scopes) - 1)
}

// Scope returns the scope for id. Panics on NoScope/out-of-range, same
// contract as cnode.Arena.Get.
func (s *State) Scope(id ScopeId) *Scope {
	return &s.scopes[id]
}

// RootScope is the file's module-level scope.
func (s *State) RootScope() ScopeId { return ScopeId(1) }

// NewSymbol allocates a symbol and returns its id.
func (s *State) NewSymbol(sym Symbol) SymbolId {
	s.symbols = append(s.symbols, sym)
	return SymbolId(len(s.symbols) - 1)
}

// Symbol returns the symbol for id.
func (s *State) Symbol(id SymbolId) *Symbol {
	return &s.symbols[id]
}

// Declare binds name to sym within scope, and in FileLocals when scope is
// the module root (so lib/file-local fallback resolution can find it too).
func (s *State) Declare(scope ScopeId, name atom.Atom, sym SymbolId) {
	sc := s.Scope(scope)
	sc.Names[name] = sym
	if scope == s.RootScope() {
		s.FileLocals[name] = sym
	}
}

// BindNode records which scope/symbol a node index corresponds to, used by
// ResolveIdentifier to find the enclosing scope for an identifier use.
func (s *State) BindNode(node cnode.NodeIndex, scope ScopeId) {
	s.NodeScope[node] = scope
}

func (s *State) BindSymbol(node cnode.NodeIndex, sym SymbolId) {
	s.NodeSymbol[node] = sym
}
