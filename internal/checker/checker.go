// Package checker is the driver that wires the atom table, binder, type
// store, instantiator, evaluator, subtype engine, compatibility overlay,
// narrower and diagnostic reporter together into the single "check this
// file" operation (spec §2, §4, §7). Grounded on the teacher's
// cmd/typecheck, which performs the analogous wiring for AILANG's own
// unifier/binder pair: one driver struct holding every collaborator, built
// once per run and walked once per file.
package checker

import (
	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/checkeropts"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/compat"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/evaluate"
	"github.com/tscorelang/tscheck/internal/instantiate"
	"github.com/tscorelang/tscheck/internal/narrow"
	"github.com/tscorelang/tscheck/internal/subtype"
	"github.com/tscorelang/tscheck/internal/types"
)

// Checker holds every collaborator needed to check one source file's AST
// and accumulates diagnostics into its Reporter as it walks.
type Checker struct {
	Store   *types.Store
	Atoms   *atom.Table
	Binder  *binder.State
	Arena   *cnode.Arena
	Opts    checkeropts.Options
	Reporter *diag.Reporter

	inst    *instantiate.Instantiator
	eval    *evaluate.Evaluator
	sub     *subtype.Checker
	overlay *compat.Overlay
	narrower *narrow.Narrower
	flags   compat.Flags

	defs *registry

	// symbolType memoizes the declared/computed type of a symbol, guarded by
	// computing to detect self-referential forward references (spec §4.2,
	// §9 "circular binding").
	symbolType map[binder.SymbolId]types.TypeId
	computing  map[binder.SymbolId]bool

	// symbolDef maps a generic (or non-generic) alias/interface symbol to
	// the registry entry holding its lazily-computed body, so a
	// TypeReference or TypeQuery against it builds Application(Lazy(defID),
	// args) uniformly (spec §4.3; a bare Lazy TypeId is never evaluated on
	// its own).
	symbolDef map[binder.SymbolId]defRef

	// classInfo records, for every FlagClass symbol, its instance type and
	// the set of private names it declares, so property access can enforce
	// "accessible only within the declaring class" (spec §4.6, §8).
	classInfo map[binder.SymbolId]*classInfo

	// enumInfo records each enum's per-member literal type and its member
	// union, keyed by the enum's symbol (spec §4 supplemented features).
	enumInfo map[binder.SymbolId]*enumInfo

	file string

	// env is the live narrowing-override stack: env[i] maps a reference
	// path (spec §4.7, e.g. "x" or "shape.kind") to the type that ref holds
	// in the current branch, checked top-down before falling back to a
	// symbol's declared type (spec §9 "narrowing lives outside the type
	// store").
	env []map[string]types.TypeId

	// enclosingClass is the stack of class symbols whose body is currently
	// being checked, innermost last, for private-member accessibility.
	enclosingClass []binder.SymbolId

	// returnTypeStack is the declared return type of each function body
	// currently being checked, innermost last, consulted by a return
	// statement to report a mismatch (spec §4, §7).
	returnTypeStack []types.TypeId
}

type classInfo struct {
	instance types.TypeId
	private  map[atom.Atom]bool // true for every #name this class itself declares
}

type enumInfo struct {
	members     map[atom.Atom]types.TypeId // member name -> its literal/numeric type
	memberUnion types.TypeId
}

// New builds a Checker for one file. binderState must already have its
// root scope allocated (binder.NewState does this); New does not itself
// populate any symbols — call Check to run the declare-then-check passes.
func New(store *types.Store, binderState *binder.State, arena *cnode.Arena, file string, opts checkeropts.Options) *Checker {
	opts.Apply()
	c := &Checker{
		Store:      store,
		Atoms:      store.Atoms(),
		Binder:     binderState,
		Arena:      arena,
		Opts:       opts,
		Reporter:   diag.NewReporter(),
		defs:       newRegistry(),
		symbolType: make(map[binder.SymbolId]types.TypeId),
		computing:  make(map[binder.SymbolId]bool),
		classInfo:  make(map[binder.SymbolId]*classInfo),
		enumInfo:   make(map[binder.SymbolId]*enumInfo),
		file:       file,
	}
	c.Reporter.MarkCascadeType(uint32(types.ErrorType))

	c.inst = instantiate.New(store, opts.MaxInstantiationDepth)
	c.sub = subtype.New(store, nil, subtypeFlags(opts))
	c.eval = evaluate.New(store, c.inst, c.defs, c.sub, opts.MaxEvaluations, opts.MaxInstantiationDepth)
	// The subtype engine and overlay both need the evaluator for meta-type
	// reduction; rebuild sub now that eval exists (mirrors subtype.New's own
	// "eval may be nil, supplied once constructed" contract).
	c.sub = subtype.New(store, c.eval, subtypeFlags(opts))
	c.overlay = compat.New(store, c.eval)
	c.narrower = narrow.New(store, c)

	c.flags = compat.Flags{
		StrictNullChecks:           opts.StrictNullChecks,
		StrictFunctionTypes:        opts.StrictFunctionTypes,
		AllowVoidReturn:            opts.AllowVoidReturn,
		AllowBivariantRest:         opts.AllowBivariantRest,
		ExactOptionalPropertyTypes: opts.ExactOptionalPropertyTypes,
		NoUncheckedIndexedAccess:   opts.NoUncheckedIndexedAccess,
		DisableMethodBivariance:    opts.DisableMethodBivariance,
		StrictAny:                  opts.StrictAny,
	}
	return c
}

func subtypeFlags(opts checkeropts.Options) subtype.Flags {
	return subtype.Flags{
		StrictNullChecks:           opts.StrictNullChecks,
		StrictFunctionTypes:        opts.StrictFunctionTypes,
		AllowVoidReturn:            opts.AllowVoidReturn,
		AllowBivariantRest:         opts.AllowBivariantRest,
		ExactOptionalPropertyTypes: opts.ExactOptionalPropertyTypes,
		NoUncheckedIndexedAccess:   opts.NoUncheckedIndexedAccess,
		DisableMethodBivariance:    opts.DisableMethodBivariance,
	}
}

// Check runs the declare pass (hoisting every top-level/nested declaration
// into the binder) followed by the check pass (computing expression types
// and reporting diagnostics) over file, and returns the accumulated
// diagnostics.
func (c *Checker) Check(file cnode.NodeIndex) []diag.Diagnostic {
	sf := c.Arena.GetSourceFile(file)
	c.Binder.BindNode(file, c.Binder.RootScope())
	c.declareStatements(sf.Statements, c.Binder.RootScope())
	c.pushEnv()
	c.checkStatements(sf.Statements, c.Binder.RootScope())
	c.popEnv()
	return c.Reporter.Diagnostics()
}

func (c *Checker) pushEnv() { c.env = append(c.env, map[string]types.TypeId{}) }
func (c *Checker) popEnv()  { c.env = c.env[:len(c.env)-1] }

// lookupRef returns the narrowed type currently in effect for ref, checked
// from the innermost scope outward, and false if nothing has narrowed it.
func (c *Checker) lookupRef(ref string) (types.TypeId, bool) {
	for i := len(c.env) - 1; i >= 0; i-- {
		if t, ok := c.env[i][ref]; ok {
			return t, true
		}
	}
	return types.NoType, false
}

// withClosureBoundary runs fn with the narrowing stack reset to what spec
// §4.7 requires on closure entry: every mutable (let/var) reference loses
// whatever narrowing was in effect where the closure was created, since by
// the time the closure runs the guard may no longer hold, while a const
// reference keeps its narrowing, since it can never be reassigned. scope is
// the scope the closure was declared in, used to resolve each narrowed
// ref's base symbol.
func (c *Checker) withClosureBoundary(scope binder.ScopeId, fn func()) {
	merged := map[string]types.TypeId{}
	for _, frame := range c.env {
		for ref, t := range frame {
			merged[ref] = t
		}
	}
	kept := map[string]types.TypeId{}
	for ref, t := range merged {
		if c.refIsConst(ref, scope) {
			kept[ref] = t
		}
	}

	saved := c.env
	c.env = []map[string]types.TypeId{kept}
	fn()
	c.env = saved
}

// refIsConst reports whether ref's base identifier resolves, in scope, to a
// const binding.
func (c *Checker) refIsConst(ref string, scope binder.ScopeId) bool {
	base, _ := splitRef(ref)
	sym, ok := c.Binder.ResolveValue(scope, c.Atoms.Intern(base))
	if !ok {
		return false
	}
	return c.Binder.Symbol(sym).Flags.Has(binder.FlagConst)
}

// withNarrowed runs fn with ref narrowed to t for the duration of the call,
// restoring the previous override (or absence of one) afterward. Used to
// thread an if-branch's narrowing into its sub-statements (spec §4.7).
func (c *Checker) withNarrowed(ref string, t types.TypeId, fn func()) {
	top := c.env[len(c.env)-1]
	prev, had := top[ref]
	top[ref] = t
	fn()
	if had {
		top[ref] = prev
	} else {
		delete(top, ref)
	}
}

// InstanceType implements narrow.Resolver: `x instanceof Name` resolves
// Name to a class's instance type.
func (c *Checker) InstanceType(name string) (types.TypeId, bool) {
	sym, ok := c.Binder.ResolveType(c.Binder.RootScope(), c.Atoms.Intern(name))
	if !ok {
		return types.NoType, false
	}
	ci, ok := c.classInfo[sym]
	if !ok {
		return types.NoType, false
	}
	return ci.instance, true
}

func (c *Checker) typeName(id types.TypeId) string { return c.Store.Print(id) }
