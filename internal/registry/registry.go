// Package registry holds the fixed table of language-level primitives a
// template can invoke without importing anything: iteration, conditional
// binding, concatenation, event attachment, currying. The table is an
// explicitly constructed, read-only value passed to the resolver, not
// ambient global state; the resolver consults it only after a lexical miss.
package registry

import (
	"sort"

	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// Entry is one primitive. Most entries carry a single signature; the
// currying and arity-overloaded primitives carry one signature per fixed
// arity because the underlying call convention cannot express "bind the
// first N of variadic M" without losing inference precision.
type Entry struct {
	Name      source.StringID
	Overloads []*sig.Signature
	// Component marks the component-wrapping primitive, whose signature is
	// derived per call site from the wrapped entity (see Wrap).
	Component bool
}

// Single returns the only signature of a non-overloaded entry.
func (e *Entry) Single() *sig.Signature {
	if len(e.Overloads) != 1 {
		return nil
	}
	return e.Overloads[0]
}

// Table is the process-wide immutable primitive table. Construct it once
// with Default and share it by reference.
type Table struct {
	entries map[source.StringID]*Entry
	names   []string
}

// Lookup returns the entry for name, or false on a miss.
func (t *Table) Lookup(name source.StringID) (*Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Names returns every primitive name in sorted order, for tooling output.
func (t *Table) Names() []string {
	return t.names
}

func newTable(strs *source.Interner, entries []*Entry) *Table {
	t := &Table{entries: make(map[source.StringID]*Entry, len(entries))}
	for _, e := range entries {
		t.entries[e.Name] = e
		t.names = append(t.names, strs.MustLookup(e.Name))
	}
	sort.Strings(t.names)
	return t
}

// typeParam is a small helper for hand-authored entries.
func typeParam(in *types.Interner, strs *source.Interner, name string) types.TypeID {
	return in.RegisterTypeParam(strs.Intern(name), types.NoTypeID)
}
