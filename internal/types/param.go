package types

import (
	"fmt"

	"fortio.org/safecast"

	"glimt/internal/source"
)

// TypeParamInfo stores metadata about a signature's free type parameter.
// Bound is the declared upper bound; NoTypeID means unconstrained, in which
// case the parameter degrades to unknown when binding leaves it unfixed.
type TypeParamInfo struct {
	Name  source.StringID
	Bound TypeID
}

// RegisterTypeParam allocates a fresh type parameter. Parameters are never
// deduplicated: two signatures declaring "T" own distinct parameters.
func (in *Interner) RegisterTypeParam(name source.StringID, bound TypeID) TypeID {
	in.params = append(in.params, TypeParamInfo{Name: name, Bound: bound})
	slot, err := safecast.Conv[uint32](len(in.params) - 1)
	if err != nil {
		panic(fmt.Errorf("type param overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindTypeParam, Payload: slot})
}

// TypeParamInfo returns metadata for the provided type parameter.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeParam {
		return nil, false
	}
	if int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	return &in.params[tt.Payload], true
}

// IsTypeParam reports whether id names a free type parameter.
func (in *Interner) IsTypeParam(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindTypeParam
}
