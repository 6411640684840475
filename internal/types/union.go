package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// UnionInfo stores the canonical member set of a structural union.
// Members are deduplicated, flattened (no nested unions), and sorted by
// TypeID, so equal unions always intern to the same TypeID.
type UnionInfo struct {
	Members []TypeID
}

// Union interns the union of the given member types. Nested unions are
// flattened; a union collapsing to one member returns that member; a union
// containing unknown collapses to unknown.
func (in *Interner) Union(members ...TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	for _, m := range members {
		if m == NoTypeID {
			continue
		}
		tt := in.MustLookup(m)
		switch tt.Kind {
		case KindUnknown:
			return in.builtins.Unknown
		case KindUnion:
			flat = append(flat, in.unions[tt.Payload].Members...)
		default:
			flat = append(flat, m)
		}
	}
	slices.Sort(flat)
	flat = slices.Compact(flat)
	switch len(flat) {
	case 0:
		return NoTypeID
	case 1:
		return flat[0]
	}

	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindUnion {
			continue
		}
		if slices.Equal(in.unions[tt.Payload].Members, flat) {
			return id
		}
	}
	slot := in.appendUnionInfo(UnionInfo{Members: flat})
	return in.internRaw(Type{Kind: KindUnion, Payload: slot})
}

// UnionInfo returns metadata for the provided union TypeID.
func (in *Interner) UnionInfo(id TypeID) (*UnionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion {
		return nil, false
	}
	if int(tt.Payload) >= len(in.unions) {
		return nil, false
	}
	return &in.unions[tt.Payload], true
}

func (in *Interner) appendUnionInfo(info UnionInfo) uint32 {
	in.unions = append(in.unions, info)
	slot, err := safecast.Conv[uint32](len(in.unions) - 1)
	if err != nil {
		panic(fmt.Errorf("union info overflow: %w", err))
	}
	return slot
}
