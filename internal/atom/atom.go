// Package atom interns identifier and property-name strings into small
// integer handles so the rest of the checker never compares strings.
package atom

import "sync"

// Atom is a handle into the process-local string interner. Two atoms are
// equal iff their underlying strings are equal.
type Atom uint32

// Invalid is the zero value, never produced by Intern.
const Invalid Atom = 0

// Table is a string interner. The zero value is not usable; use NewTable.
type Table struct {
	mu      sync.RWMutex
	byStr   map[string]Atom
	strings []string // index 0 unused (Invalid)
}

// NewTable creates an empty interner.
func NewTable() *Table {
	return &Table{
		byStr:   make(map[string]Atom),
		strings: []string{""},
	}
}

// Intern returns the unique Atom for s, allocating one if s hasn't been seen.
func (t *Table) Intern(s string) Atom {
	t.mu.RLock()
	if a, ok := t.byStr[s]; ok {
		t.mu.RUnlock()
		return a
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.byStr[s]; ok {
		return a
	}
	a := Atom(len(t.strings))
	t.strings = append(t.strings, s)
	t.byStr[s] = a
	return a
}

// Lookup returns the string an atom was interned from.
func (t *Table) Lookup(a Atom) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(a) >= len(t.strings) {
		return ""
	}
	return t.strings[a]
}

// Len returns the number of interned strings, including the unused zero slot.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strings)
}
