package checker

import (
	"sync"

	"github.com/tscorelang/tscheck/internal/types"
)

// registry is the checker's evaluate.Resolver: a table of generic type
// alias/interface/class bodies, each computed lazily and memoized on first
// reference (spec §4.3 "Lazy", §9 "forward declaration order"). Grounded on
// the evaluator's own Resolver contract (internal/evaluate.Resolver),
// which deliberately asks for bodies on demand rather than up front so
// mutually-referencing declarations never need a fixed resolution order.
type registry struct {
	mu   sync.Mutex
	defs []regEntry
}

type regEntry struct {
	params   []string
	compute  func() types.TypeId
	computed bool
	body     types.TypeId
}

func newRegistry() *registry {
	return &registry{defs: []regEntry{{}}} // index 0 unused, defID is 1-based
}

// Register allocates a defID for a generic (or non-generic, params==nil)
// declaration body computed by compute the first time it's needed.
func (r *registry) Register(params []string, compute func() types.TypeId) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = append(r.defs, regEntry{params: params, compute: compute})
	return uint32(len(r.defs) - 1)
}

// ResolveLazy implements evaluate.Resolver.
func (r *registry) ResolveLazy(defID uint32) ([]string, types.TypeId, bool) {
	r.mu.Lock()
	if defID == 0 || int(defID) >= len(r.defs) {
		r.mu.Unlock()
		return nil, types.NoType, false
	}
	e := r.defs[defID]
	if e.computed {
		r.mu.Unlock()
		return e.params, e.body, true
	}
	r.mu.Unlock()

	body := e.compute()

	r.mu.Lock()
	r.defs[defID].computed = true
	r.defs[defID].body = body
	r.mu.Unlock()
	return e.params, body, true
}
