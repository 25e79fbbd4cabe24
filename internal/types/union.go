package types

import (
	"fmt"
	"sort"
	"strings"
)

// Union flattens nested unions, sorts members by TypeId for canonical form,
// dedups, and applies absorption (spec §3.3, §3.3.1, §8 interner laws):
// `never` members are dropped, an empty result is `never`, and a
// single-element result collapses to that element.
func (s *Store) Union(xs []TypeId) TypeId {
	var flat []TypeId
	var flatten func(TypeId)
	flatten = func(id TypeId) {
		if u, ok := s.Underlying(id).(Union); ok {
			for _, m := range u.Members {
				flatten(m)
			}
			return
		}
		flat = append(flat, id)
	}
	for _, x := range xs {
		flatten(x)
	}

	filtered := make([]TypeId, 0, len(flat))
	for _, m := range flat {
		if m == Never {
			continue
		}
		filtered = append(filtered, m)
	}

	deduped := sortDedup(filtered)
	switch len(deduped) {
	case 0:
		return Never
	case 1:
		return deduped[0]
	default:
		return s.intern(unionKey("union", deduped), Union{Members: deduped})
	}
}

// Intersection flattens nested intersections and applies absorption:
// `never` is an annihilator, `unknown` is an identity, and object
// intersections are preserved structurally rather than merged (spec §4.1).
func (s *Store) Intersection(xs []TypeId) TypeId {
	var flat []TypeId
	var flatten func(TypeId)
	flatten = func(id TypeId) {
		if i, ok := s.Underlying(id).(Intersection); ok {
			for _, m := range i.Members {
				flatten(m)
			}
			return
		}
		flat = append(flat, id)
	}
	for _, x := range xs {
		flatten(x)
	}

	for _, m := range flat {
		if m == Never {
			return Never
		}
	}

	filtered := make([]TypeId, 0, len(flat))
	for _, m := range flat {
		if m == Unknown {
			continue
		}
		filtered = append(filtered, m)
	}

	deduped := sortDedup(filtered)
	switch len(deduped) {
	case 0:
		return Unknown
	case 1:
		return deduped[0]
	default:
		return s.intern(unionKey("isect", deduped), Intersection{Members: deduped})
	}
}

func sortDedup(xs []TypeId) []TypeId {
	sorted := append([]TypeId(nil), xs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:0]
	var last TypeId
	first := true
	for _, id := range sorted {
		if first || id != last {
			out = append(out, id)
			last = id
			first = false
		}
	}
	return out
}

func unionKey(tag string, members []TypeId) string {
	var b strings.Builder
	b.WriteString(tag)
	b.WriteByte(':')
	for _, m := range members {
		fmt.Fprintf(&b, "%d,", m)
	}
	return b.String()
}
