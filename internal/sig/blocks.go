package sig

import (
	"slices"

	"glimt/internal/source"
	"glimt/internal/types"
)

// BlockSpec describes one block a block-accepting entity may invoke: its
// name, the parameter types handed to the block body, and whether a caller
// may omit it ("inverse" is conventionally optional).
type BlockSpec struct {
	Name     source.StringID
	Params   []types.TypeID
	Optional bool
}

// BlockSet maps block names to their specs. The zero value is the empty
// set. Specs are kept sorted by name so structurally equal sets compare
// equal position by position.
type BlockSet struct {
	specs []BlockSpec
}

// NewBlockSet builds a set from specs. A duplicate name keeps the first
// spec; callers needing union semantics go through the yield aggregator.
func NewBlockSet(specs ...BlockSpec) BlockSet {
	var out BlockSet
	for _, s := range specs {
		if _, ok := out.Find(s.Name); ok {
			continue
		}
		s.Params = append([]types.TypeID(nil), s.Params...)
		out.specs = append(out.specs, s)
	}
	out.sort()
	return out
}

func (bs *BlockSet) sort() {
	slices.SortFunc(bs.specs, func(a, b BlockSpec) int {
		return int(a.Name) - int(b.Name)
	})
}

// Find returns the spec for the given block name.
func (bs BlockSet) Find(name source.StringID) (BlockSpec, bool) {
	for _, s := range bs.specs {
		if s.Name == name {
			return s, true
		}
	}
	return BlockSpec{}, false
}

// Specs returns the specs in name order. The slice is shared; callers must
// not modify it.
func (bs BlockSet) Specs() []BlockSpec {
	return bs.specs
}

func (bs BlockSet) Len() int {
	return len(bs.specs)
}

func (bs BlockSet) Empty() bool {
	return len(bs.specs) == 0
}

// Mandatory returns the names a block invocation must supply.
func (bs BlockSet) Mandatory() []source.StringID {
	var out []source.StringID
	for _, s := range bs.specs {
		if !s.Optional {
			out = append(out, s.Name)
		}
	}
	return out
}

// Clone returns a deep copy.
func (bs BlockSet) Clone() BlockSet {
	out := BlockSet{specs: make([]BlockSpec, len(bs.specs))}
	copy(out.specs, bs.specs)
	for i := range out.specs {
		out.specs[i].Params = append([]types.TypeID(nil), bs.specs[i].Params...)
	}
	return out
}

// WithSpec returns a copy with the spec added or replaced.
func (bs BlockSet) WithSpec(spec BlockSpec) BlockSet {
	out := bs.Clone()
	spec.Params = append([]types.TypeID(nil), spec.Params...)
	for i := range out.specs {
		if out.specs[i].Name == spec.Name {
			out.specs[i] = spec
			return out
		}
	}
	out.specs = append(out.specs, spec)
	out.sort()
	return out
}
